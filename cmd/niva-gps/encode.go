package main

import (
	"fmt"
	"io"
	"strings"

	"niva-gps/internal/niva"
)

// runEncode prints a reading for FORMAT and a comma separated field list,
// with its checksum. It is meant for building test logs by hand.
func runEncode(args []string, stdout, stderr io.Writer) error {
	if len(args) != 2 {
		return fmt.Errorf("encode needs <FORMAT> <field,field,...>, got %d arguments", len(args))
	}
	r := niva.DataReading{Format: strings.ToUpper(args[0]), Fields: strings.Split(args[1], string(niva.Separator))}
	s, err := niva.FormatDataReading(r)
	if err != nil {
		return err
	}
	if !niva.IsKnownFormat(r.Format) {
		fmt.Fprintf(stderr, "warning: %s is not a known format (known: %s)\n", r.Format, strings.Join(niva.KnownFormats(), ", "))
	} else if !niva.HasCorrectNumberOfFields(r) {
		fmt.Fprintf(stderr, "warning: wrong number of fields for %s\n", r.Format)
	}
	_, err = fmt.Fprintln(stdout, s)
	return err
}
