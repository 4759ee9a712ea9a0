package geo

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidGeometry is wrapped by every NewWaypoint failure.
var ErrInvalidGeometry = errors.New("invalid geometry")

// Waypoint is a location on, within, or above the Earth's surface.
// Altitude is relative to the Earth's mean radius, i.e. roughly sea level.
//
// A Waypoint can only be built through NewWaypoint, so every value in
// circulation satisfies the latitude, longitude and altitude bounds.
type Waypoint struct {
	lat Degrees
	lon Degrees
	alt Metres
}

// NewWaypoint validates lat, lon and alt and returns the Waypoint.
// The returned error wraps ErrInvalidGeometry and names the bound violated.
func NewWaypoint(lat, lon Degrees, alt Metres) (Waypoint, error) {
	if !IsValidLatitude(lat) {
		return Waypoint{}, fmt.Errorf("%w: latitude %v exceeds %v degrees", ErrInvalidGeometry, float64(lat), float64(PoleLatitude))
	}
	if !IsValidLongitude(lon) {
		return Waypoint{}, fmt.Errorf("%w: longitude %v exceeds %v degrees", ErrInvalidGeometry, float64(lon), float64(AntiMeridianLongitude))
	}
	if !IsValidAltitude(alt) {
		return Waypoint{}, fmt.Errorf("%w: altitude %v m is below the centre of the Earth", ErrInvalidGeometry, float64(alt))
	}
	return Waypoint{lat: lat, lon: lon, alt: alt}, nil
}

func (w Waypoint) Latitude() Degrees  { return w.lat }
func (w Waypoint) Longitude() Degrees { return w.lon }
func (w Waypoint) Altitude() Metres   { return w.alt }

func (w Waypoint) String() string {
	return fmt.Sprintf("(%.6f, %.6f, %.2f m)", float64(w.lat), float64(w.lon), float64(w.alt))
}

// HorizontalDistanceBetween is the haversine great-circle distance over a
// sphere of MeanRadius. Altitude is ignored.
// See https://en.wikipedia.org/wiki/Haversine_formula
func HorizontalDistanceBetween(p1, p2 Waypoint) Metres {
	lat1 := DegreesToRadians(p1.lat)
	lat2 := DegreesToRadians(p2.lat)
	lon1 := DegreesToRadians(p1.lon)
	lon2 := DegreesToRadians(p2.lon)

	h := SinSqr((lat2-lat1)/2) + math.Cos(float64(lat1))*math.Cos(float64(lat2))*SinSqr((lon2-lon1)/2)
	// Rounding can push h a hair above 1 for antipodal points.
	h = math.Min(h, 1)
	return 2 * MeanRadius * Metres(math.Asin(math.Sqrt(h)))
}

// VerticalDistanceBetween is the absolute altitude difference.
func VerticalDistanceBetween(p1, p2 Waypoint) Metres {
	return Metres(math.Abs(float64(p2.alt - p1.alt)))
}
