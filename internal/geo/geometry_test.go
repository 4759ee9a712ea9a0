package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

const epsilon = 1e-9

func TestDegreesRadiansConversion(t *testing.T) {
	assert.InDelta(t, math.Pi, float64(DegreesToRadians(180)), epsilon)
	assert.InDelta(t, -math.Pi/2, float64(DegreesToRadians(-90)), epsilon)
	assert.InDelta(t, 180, float64(RadiansToDegrees(math.Pi)), epsilon)
	assert.InDelta(t, 57.29577951308232, float64(RadiansToDegrees(1)), epsilon)

	for _, d := range []Degrees{-720, -33.3, 0, 12.5, 359.9} {
		assert.InDelta(t, float64(d), float64(RadiansToDegrees(DegreesToRadians(d))), epsilon)
	}
}

func TestSinSqr(t *testing.T) {
	assert.InDelta(t, 0, SinSqr(0), epsilon)
	assert.InDelta(t, 1, SinSqr(math.Pi/2), epsilon)
	assert.InDelta(t, 0.5, SinSqr(math.Pi/4), epsilon)
}

func TestIsValidLatitude(t *testing.T) {
	cases := []struct {
		lat  Degrees
		want bool
	}{
		{0, true},
		{90, true},
		{-90, true},
		{90.0001, false},
		{-90.0001, false},
		{Degrees(math.NaN()), false},
	}
	for _, tc := range cases {
		if got := IsValidLatitude(tc.lat); got != tc.want {
			t.Fatalf("IsValidLatitude(%v)=%v want %v", tc.lat, got, tc.want)
		}
	}
}

func TestIsValidLongitude(t *testing.T) {
	cases := []struct {
		lon  Degrees
		want bool
	}{
		{0, true},
		{180, true},
		{-180, true},
		{180.0001, false},
		{-180.0001, false},
		{Degrees(math.Inf(1)), false},
	}
	for _, tc := range cases {
		if got := IsValidLongitude(tc.lon); got != tc.want {
			t.Fatalf("IsValidLongitude(%v)=%v want %v", tc.lon, got, tc.want)
		}
	}
}

func TestNormaliseDegrees(t *testing.T) {
	cases := []struct {
		in, want Degrees
	}{
		{0, 0},
		{45, 45},
		{180, 180},
		{-180, 180},
		{270, -90},
		{-270, 90},
		{360, 0},
		{-360, 0},
		{540, 180},
		{-540, 180},
		{179.5, 179.5},
		{-179.5, -179.5},
		{725, 5},
	}
	for _, tc := range cases {
		got := NormaliseDegrees(tc.in)
		if math.Abs(float64(got-tc.want)) > epsilon {
			t.Fatalf("NormaliseDegrees(%v)=%v want %v", tc.in, got, tc.want)
		}
		if got <= -HalfRotation || got > HalfRotation {
			t.Fatalf("NormaliseDegrees(%v)=%v outside (-180,180]", tc.in, got)
		}
	}
}

func TestFromDMS(t *testing.T) {
	assert.InDelta(t, 78.6125, float64(FromDMS(78, 36, 45)), 1e-6)
	assert.InDelta(t, 23.565556, float64(FromDMS(23, 33, 56)), 1e-6)
	assert.InDelta(t, 78.6125, float64(FromDMS(78, 36.75, 0)), 1e-6)
	assert.Equal(t, Degrees(0), FromDMS(0, 0, 0))
	// Signs are taken as given.
	assert.InDelta(t, -10+0.5, float64(FromDMS(-10, 30, 0)), 1e-9)
}
