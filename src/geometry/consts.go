package geometry

import (
	"math"
)

const (
	Infinity = math.MaxFloat64
	Epsilon  = 1e-9

	// OffsetEpsilon is the distance below which two event offsets are
	// considered simultaneous.
	OffsetEpsilon = 1e-7

	// tangentEpsilon widens the sphere/line test so that a line touching the
	// sphere still yields its tangent point despite rounding.
	tangentEpsilon = 1e-7
)

// Sign returns -1, 0 or 1 for v, treating |v| <= Epsilon as zero.
func Sign(v float64) int {
	switch {
	case v > Epsilon:
		return 1
	case v < -Epsilon:
		return -1
	default:
		return 0
	}
}

// NearlyEqual reports whether a and b differ by at most eps.
func NearlyEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}
