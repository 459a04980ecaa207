package geometry

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
)

// Sphere is the carrier of spherical polygons. Polygon edges lie on planes
// through Center.
type Sphere struct {
	Center r3.Vector
	Radius float64
}

// UnitSphere is centered at the origin with radius one.
var UnitSphere = Sphere{Radius: 1}

// Unit returns the direction from the center towards p.
func (s Sphere) Unit(p r3.Vector) r3.Vector {
	u, ok := Normalize(p.Sub(s.Center))
	if !ok {
		return r3.Vector{}
	}
	return u
}

// PointAt maps a unit direction to the sphere surface.
func (s Sphere) PointAt(u r3.Vector) r3.Vector {
	return s.Center.Add(u.Mul(s.Radius))
}

// Project is the central projection of p onto the sphere.
func (s Sphere) Project(p r3.Vector) r3.Vector {
	return s.PointAt(s.Unit(p))
}

// Contains reports whether p lies on the sphere surface.
func (s Sphere) Contains(p r3.Vector) bool {
	return math.Abs(p.Sub(s.Center).Norm()-s.Radius) <= tangentEpsilon*math.Max(1, s.Radius)
}

// CentralPlane is the plane through the center with the given normal.
func (s Sphere) CentralPlane(normal r3.Vector) (Plane, bool) {
	return NewPlane(normal, s.Center)
}

// Antipode returns the point diametrically opposite to p.
func (s Sphere) Antipode(p r3.Vector) r3.Vector {
	return s.Center.Mul(2).Sub(p)
}

func (s Sphere) String() string {
	return fmt.Sprintf("sphere(c=%v, r=%.6g)", s.Center, s.Radius)
}
