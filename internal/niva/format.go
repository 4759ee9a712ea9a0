package niva

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"niva-gps/internal/geo"
)

var (
	errInvalidBearing = errors.New("invalid bearing indicator")
	errNotFinite      = errors.New("value is not finite")
)

// fieldLayout says where a format keeps its coordinates. Arity and field
// positions live together so the field-count check and the extractor
// cannot disagree.
type fieldLayout struct {
	arity    int
	notation angleNotation

	lat, lon, alt int

	// Bearing positions; -1 when the angle carries its own sign.
	latBearing, lonBearing int
}

func decimalLayout(arity, lat, lon, alt int) fieldLayout {
	return fieldLayout{arity: arity, notation: notationDecimal, lat: lat, lon: lon, alt: alt, latBearing: -1, lonBearing: -1}
}

// bearingLayout is the sexagesimal layout starting at field first:
// lat, lat bearing, lon, lon bearing, alt.
func bearingLayout(arity int, n angleNotation, first int) fieldLayout {
	return fieldLayout{
		arity:      arity,
		notation:   n,
		lat:        first,
		latBearing: first + 1,
		lon:        first + 2,
		lonBearing: first + 3,
		alt:        first + 4,
	}
}

func (l fieldLayout) check() error {
	for _, idx := range []int{l.lat, l.lon, l.alt, l.latBearing, l.lonBearing} {
		if idx >= l.arity {
			return fmt.Errorf("field %d outside arity %d", idx, l.arity)
		}
	}
	if (l.notation == notationDecimal) != (l.latBearing < 0 && l.lonBearing < 0) {
		return fmt.Errorf("%s notation with bearings at %d,%d", l.notation, l.latBearing, l.lonBearing)
	}
	return nil
}

type formatEntry struct {
	codes  []string
	layout fieldLayout
}

// catalogue is the fixed set of formats the decoder understands, keyed by
// upper-case code. ISMA is also sent under its long name ISMAHANE.
var catalogue = buildCatalogue([]formatEntry{
	{codes: []string{"NEIL"}, layout: decimalLayout(4, 0, 1, 2)}, // lat,lon,alt,time
	{codes: []string{"NUNO"}, layout: decimalLayout(4, 3, 2, 1)}, // time,alt,lon,lat
	{codes: []string{"ISMA", "ISMAHANE"}, layout: bearingLayout(5, notationDMS, 0)},
	{codes: []string{"ALICIA"}, layout: bearingLayout(5, notationDDM, 0)},
	{codes: []string{"VISHAL"}, layout: bearingLayout(6, notationDMS, 1)}, // time first
})

func buildCatalogue(entries []formatEntry) map[string]fieldLayout {
	out := make(map[string]fieldLayout)
	for _, e := range entries {
		if err := e.layout.check(); err != nil {
			panic(fmt.Sprintf("niva: bad layout for %v: %v", e.codes, err))
		}
		for _, code := range e.codes {
			if _, dup := out[code]; dup {
				panic(fmt.Sprintf("niva: duplicate format code %q", code))
			}
			out[code] = e.layout
		}
	}
	return out
}

// KnownFormats lists the recognised format codes in sorted order.
func KnownFormats() []string {
	codes := make([]string, 0, len(catalogue))
	for code := range catalogue {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// IsKnownFormat reports whether code names a format in the catalogue.
// Matching ignores case; prefixes, suffixes and whole readings are rejected.
func IsKnownFormat(code string) bool {
	_, ok := catalogue[strings.ToUpper(code)]
	return ok
}

// HasCorrectNumberOfFields reports whether r carries exactly the fields its
// format needs. Unknown formats report false.
func HasCorrectNumberOfFields(r DataReading) bool {
	l, ok := catalogue[strings.ToUpper(r.Format)]
	return ok && len(r.Fields) == l.arity
}

// ExtractWaypointFromReading decodes the coordinates of r.
//
// r should have a known format and the right number of fields. Every error
// wraps ErrDecode; the cause is a *FieldError, ErrMalformedAngle or
// geo.ErrInvalidGeometry.
func ExtractWaypointFromReading(r DataReading) (geo.Waypoint, error) {
	code := strings.ToUpper(r.Format)
	l, ok := catalogue[code]
	if !ok {
		return geo.Waypoint{}, fmt.Errorf("%w: unknown format %q", ErrDecode, r.Format)
	}
	if len(r.Fields) != l.arity {
		return geo.Waypoint{}, fmt.Errorf("%w: %s needs %d fields, got %d", ErrDecode, code, l.arity, len(r.Fields))
	}
	return l.decode(code, r.Fields)
}

func (l fieldLayout) decode(code string, fields []string) (geo.Waypoint, error) {
	lat, err := l.angle(code, fields, "lat", l.lat, l.latBearing, "N", "S")
	if err != nil {
		return geo.Waypoint{}, err
	}
	lon, err := l.angle(code, fields, "lon", l.lon, l.lonBearing, "E", "W")
	if err != nil {
		return geo.Waypoint{}, err
	}
	alt, err := parseNumber(fields[l.alt])
	if err != nil {
		return geo.Waypoint{}, &FieldError{Format: code, Field: "alt", Index: l.alt, Value: fields[l.alt], Err: err}
	}

	w, err := geo.NewWaypoint(lat, lon, geo.Metres(alt))
	if err != nil {
		return geo.Waypoint{}, fmt.Errorf("%w: %s reading: %w", ErrDecode, code, err)
	}
	return w, nil
}

// angle decodes the field at idx. For sexagesimal notations the bearing at
// bearingIdx must be exactly pos or neg; neg flips the sign.
func (l fieldLayout) angle(code string, fields []string, name string, idx, bearingIdx int, pos, neg string) (geo.Degrees, error) {
	text := fields[idx]
	if l.notation == notationDecimal {
		v, err := parseNumber(text)
		if err != nil {
			return 0, &FieldError{Format: code, Field: name, Index: idx, Value: text, Err: err}
		}
		return geo.Degrees(v), nil
	}

	deg, err := decodeAngle(l.notation, text)
	if err != nil {
		return 0, &FieldError{Format: code, Field: name, Index: idx, Value: text, Err: err}
	}
	switch bearing := fields[bearingIdx]; bearing {
	case pos:
		return deg, nil
	case neg:
		return -deg, nil
	default:
		return 0, &FieldError{Format: code, Field: name + "_bearing", Index: bearingIdx, Value: bearing, Err: errInvalidBearing}
	}
}

func parseNumber(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, errNotFinite
	}
	return v, nil
}
