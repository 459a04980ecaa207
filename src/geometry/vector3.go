package geometry

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
)

// IsZero reports whether v is shorter than Epsilon.
func IsZero(v r3.Vector) bool {
	return v.Norm2() <= Epsilon*Epsilon
}

// Normalize returns v scaled to unit length, or false if v is degenerate.
func Normalize(v r3.Vector) (r3.Vector, bool) {
	n := v.Norm()
	if n <= Epsilon {
		return r3.Vector{}, false
	}
	return v.Mul(1 / n), true
}

// Angle is the unsigned angle between a and b.
func Angle(a, b r3.Vector) s1.Angle {
	return a.Angle(b)
}

// RotateVector rotates v about the unit axis by angle (right hand rule).
func RotateVector(v, axis r3.Vector, angle s1.Angle) r3.Vector {
	sin, cos := math.Sincos(angle.Radians())
	// Rodrigues: v cos + (k x v) sin + k (k.v)(1 - cos)
	return v.Mul(cos).
		Add(axis.Cross(v).Mul(sin)).
		Add(axis.Mul(axis.Dot(v) * (1 - cos)))
}

// Orientation returns the orientation of the spherical triangle a, b, c as
// seen from outside the unit sphere: 1 counter-clockwise, -1 clockwise and 0
// when the three directions are (nearly) coplanar with the center.
func Orientation(a, b, c r3.Vector) int {
	switch s2.RobustSign(s2.Point{Vector: a}, s2.Point{Vector: b}, s2.Point{Vector: c}) {
	case s2.CounterClockwise:
		return 1
	case s2.Clockwise:
		return -1
	default:
		return 0
	}
}
