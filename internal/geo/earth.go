package geo

import (
	"fmt"
	"math"
)

const (
	MeanRadius              Metres = 6371008.8
	EquatorialCircumference Metres = 40075160
	PolarCircumference      Metres = 40008000
)

// CircumferenceAtLatitude returns the east/west circumference of the Earth
// at lat. It panics if lat is not a valid latitude.
func CircumferenceAtLatitude(lat Degrees) Metres {
	if !IsValidLatitude(lat) {
		panic(fmt.Sprintf("geo: invalid latitude %v", lat))
	}
	// cos(90°) is not exactly 0 in floating point.
	if math.Abs(float64(lat)) == float64(PoleLatitude) {
		return 0
	}
	return EquatorialCircumference * Metres(math.Cos(float64(DegreesToRadians(lat))))
}

// LatitudeSubtendedBy converts a north/south distance into degrees of
// latitude. The distance must not exceed the polar circumference.
func LatitudeSubtendedBy(northSouth Metres) Degrees {
	if northSouth > PolarCircumference {
		panic(fmt.Sprintf("geo: north/south distance %v exceeds polar circumference", northSouth))
	}
	return Degrees(northSouth/PolarCircumference) * FullRotation
}

// LongitudeSubtendedBy converts an east/west distance at lat into degrees of
// longitude. At the poles there is no longitude to subtend and 0 is returned.
func LongitudeSubtendedBy(eastWest Metres, lat Degrees) Degrees {
	c := CircumferenceAtLatitude(lat)
	if eastWest > c {
		panic(fmt.Sprintf("geo: east/west distance %v exceeds circumference %v at latitude %v", eastWest, c, lat))
	}
	if c == 0 {
		return 0
	}
	return Degrees(eastWest/c) * FullRotation
}

// IsValidAltitude reports whether alt is no lower than the centre of the
// Earth. There is no upper limit.
func IsValidAltitude(alt Metres) bool {
	return alt >= -MeanRadius
}
