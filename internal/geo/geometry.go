// Package geo holds the angle helpers, the Earth model and the Waypoint
// value used by the NIVA parser.
//
// Angles and distances use distinct named types so degrees, radians and
// metres cannot be mixed by accident.
package geo

import "math"

type (
	Degrees float64
	Radians float64
	Metres  float64
)

const (
	MinutesPerDegree = 60
	SecondsPerMinute = 60
	DegreesInACircle = 360

	FullRotation          Degrees = DegreesInACircle
	HalfRotation          Degrees = FullRotation / 2
	QuarterRotation       Degrees = FullRotation / 4
	PoleLatitude          Degrees = QuarterRotation
	AntiMeridianLongitude Degrees = HalfRotation
)

func DegreesToRadians(d Degrees) Radians {
	return Radians(float64(d) * math.Pi / float64(HalfRotation))
}

func RadiansToDegrees(r Radians) Degrees {
	return Degrees(float64(r) * float64(HalfRotation) / math.Pi)
}

// SinSqr returns sin²(x).
func SinSqr(x Radians) float64 {
	s := math.Sin(float64(x))
	return s * s
}

// IsValidLatitude reports whether lat lies in [-90, 90].
func IsValidLatitude(lat Degrees) bool {
	return math.Abs(float64(lat)) <= float64(PoleLatitude)
}

// IsValidLongitude reports whether lon lies in [-180, 180].
func IsValidLongitude(lon Degrees) bool {
	return math.Abs(float64(lon)) <= float64(AntiMeridianLongitude)
}

// NormaliseDegrees maps any angle into (-180, 180].
func NormaliseDegrees(d Degrees) Degrees {
	d = Degrees(math.Mod(float64(d), float64(FullRotation))) // (-360, 360)
	if d <= -HalfRotation {
		d += FullRotation // (-180, 360)
	}
	if d > HalfRotation {
		d -= FullRotation // (-180, 180]
	}
	return d
}

// FromDMS converts degrees, minutes and seconds into decimal degrees.
// The parts are summed as given; callers own sign and range checks.
func FromDMS(deg, mins, secs float64) Degrees {
	return Degrees(deg + mins/MinutesPerDegree + secs/(SecondsPerMinute*MinutesPerDegree))
}
