package niva

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedReading is returned when text does not follow the reading grammar.
	ErrMalformedReading = errors.New("niva: malformed data reading")

	// ErrDecode is wrapped by every ExtractWaypointFromReading failure,
	// whatever the cause.
	ErrDecode = errors.New("niva: decode failed")

	// ErrMalformedAngle is wrapped when a DMS or DDM field cannot be decoded.
	ErrMalformedAngle = errors.New("niva: malformed angle")
)

// FieldError names the field of a reading that failed to decode.
type FieldError struct {
	Format string
	Field  string // lat, lon, alt, lat_bearing, lon_bearing
	Index  int
	Value  string
	Err    error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("niva: ill-formed %s %s field %d %q: %v", e.Format, e.Field, e.Index, e.Value, e.Err)
}

// Unwrap exposes both ErrDecode and the underlying cause to errors.Is/As.
func (e *FieldError) Unwrap() []error {
	return []error{ErrDecode, e.Err}
}
