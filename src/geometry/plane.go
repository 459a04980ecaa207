package geometry

import (
	"fmt"

	"github.com/golang/geo/r3"
)

// Plane is the set of points x with Normal·x = D. Normal has unit length;
// the positive side is the half space Normal·x > D.
type Plane struct {
	Normal r3.Vector
	D      float64
}

// NewPlane builds a plane from a (not necessarily unit) normal and a point on
// the plane.
func NewPlane(normal, through r3.Vector) (Plane, bool) {
	n, ok := Normalize(normal)
	if !ok {
		return Plane{}, false
	}
	return Plane{Normal: n, D: n.Dot(through)}, true
}

// PlaneThrough returns the plane through a, b and c, oriented so that the
// normal is (b-a)x(c-a).
func PlaneThrough(a, b, c r3.Vector) (Plane, bool) {
	return NewPlane(b.Sub(a).Cross(c.Sub(a)), a)
}

// Distance is the signed distance of x from the plane.
func (p Plane) Distance(x r3.Vector) float64 {
	return p.Normal.Dot(x) - p.D
}

// Side returns 1, -1 or 0 when x is on the positive side, negative side or
// within Epsilon of the plane.
func (p Plane) Side(x r3.Vector) int {
	return Sign(p.Distance(x))
}

func (p Plane) Contains(x r3.Vector) bool {
	return p.Side(x) == 0
}

// Opposite is the same point set with the orientation reversed.
func (p Plane) Opposite() Plane {
	return Plane{Normal: p.Normal.Mul(-1), D: -p.D}
}

// Offset moves the plane by d along its normal.
func (p Plane) Offset(d float64) Plane {
	return Plane{Normal: p.Normal, D: p.D + d}
}

// Point returns the point of the plane closest to the origin.
func (p Plane) Point() r3.Vector {
	return p.Normal.Mul(p.D)
}

func (p Plane) ApproxEqual(q Plane) bool {
	return p.Normal.Sub(q.Normal).Norm() <= Epsilon && NearlyEqual(p.D, q.D, Epsilon)
}

func (p Plane) String() string {
	return fmt.Sprintf("plane(n=%v, d=%.6g)", p.Normal, p.D)
}
