package niva

import (
	"fmt"
	"strings"
)

// Structural characters of the reading grammar.
const (
	Marker     = '#'
	Open       = '['
	Separator  = ','
	Close      = ']'
	Terminator = ';'
)

// DataReading is the structured form of a reading.
// Format is always upper case.
type DataReading struct {
	Format string
	Fields []string
}

// IsWellformedDataReading reports whether s has the general shape of a
// reading. It does not look at any format-specific detail and accepts any
// string, including the empty one.
func IsWellformedDataReading(s string) bool {
	_, ok := splitReading(s)
	return ok
}

type readingParts struct {
	code     string
	payload  string
	checksum string
}

// splitReading walks the grammar once:
//
//	'#' letters+ '[' payload ']' hex hex ';'
//
// where payload may not contain '#', ';' or '['. The first ']' closes it.
func splitReading(s string) (readingParts, bool) {
	if len(s) == 0 || s[0] != Marker {
		return readingParts{}, false
	}

	i := 1
	for i < len(s) && isASCIILetter(s[i]) {
		i++
	}
	if i == 1 || i >= len(s) || s[i] != Open {
		return readingParts{}, false
	}
	code := s[1:i]

	start := i + 1
	end := start
	for ; end < len(s) && s[end] != Close; end++ {
		switch s[end] {
		case Marker, Terminator, Open:
			return readingParts{}, false
		}
	}
	// ']' hex hex ';' must be the last four bytes.
	if end >= len(s) || len(s) != end+4 {
		return readingParts{}, false
	}
	if !isHexDigit(s[end+1]) || !isHexDigit(s[end+2]) || s[end+3] != Terminator {
		return readingParts{}, false
	}

	return readingParts{code: code, payload: s[start:end], checksum: s[end+1 : end+3]}, true
}

// ParseDataReading splits a well-formed reading into its upper-cased format
// code and its fields. Empty fields are kept. Ill-formed input returns an
// error wrapping ErrMalformedReading.
func ParseDataReading(s string) (DataReading, error) {
	parts, ok := splitReading(s)
	if !ok {
		return DataReading{}, fmt.Errorf("%w: %q", ErrMalformedReading, s)
	}
	return DataReading{
		Format: strings.ToUpper(parts.code),
		Fields: strings.Split(parts.payload, string(Separator)),
	}, nil
}

// FormatDataReading renders r as reading text with its checksum.
// It fails if the result would not be well-formed, e.g. when a field holds
// a structural character.
func FormatDataReading(r DataReading) (string, error) {
	payload := strings.Join(r.Fields, string(Separator))
	s := fmt.Sprintf("%c%s%c%s%c%02X%c", Marker, r.Format, Open, payload, Close, ComputeChecksum(payload), Terminator)
	if !IsWellformedDataReading(s) {
		return "", fmt.Errorf("%w: cannot encode format %q with fields %q", ErrMalformedReading, r.Format, r.Fields)
	}
	// A separator inside a field would change the field count on the way back.
	if len(strings.Split(payload, string(Separator))) != max(len(r.Fields), 1) {
		return "", fmt.Errorf("%w: field contains %q", ErrMalformedReading, Separator)
	}
	return s, nil
}

func isASCIILetter(c byte) bool {
	return ('A' <= c && c <= 'Z') || ('a' <= c && c <= 'z')
}

func isHexDigit(c byte) bool {
	return ('0' <= c && c <= '9') || ('A' <= c && c <= 'F') || ('a' <= c && c <= 'f')
}
