package geometry

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/golang/geo/s1"
)

// IntersectPlanes returns the line shared by p and q, or false when the
// planes are (nearly) parallel.
func IntersectPlanes(p, q Plane) (Line, bool) {
	dir := p.Normal.Cross(q.Normal)
	n2 := dir.Norm2()
	if n2 <= Epsilon*Epsilon {
		return Line{}, false
	}
	// point = ((d1 n2 - d2 n1) x (n1 x n2)) / |n1 x n2|^2
	point := q.Normal.Mul(p.D).Sub(p.Normal.Mul(q.D)).Cross(dir).Mul(1 / n2)
	return NewLine(point, dir)
}

// IntersectPlaneLine returns the point where l crosses p.
func IntersectPlaneLine(p Plane, l Line) (r3.Vector, bool) {
	denom := p.Normal.Dot(l.Dir)
	if math.Abs(denom) <= Epsilon {
		return r3.Vector{}, false
	}
	return l.At(-p.Distance(l.Point) / denom), true
}

// IntersectSphereLine returns both points where l meets s, ordered along the
// line direction. A line that misses the sphere by less than the tangent
// tolerance is treated as touching it.
func IntersectSphereLine(s Sphere, l Line) (near, far r3.Vector, ok bool) {
	foot := l.Projection(s.Center)
	h2 := foot.Sub(s.Center).Norm2()
	r2 := s.Radius * s.Radius
	disc := r2 - h2
	if disc < -tangentEpsilon*math.Max(1, r2) {
		return r3.Vector{}, r3.Vector{}, false
	}
	if disc < 0 {
		disc = 0
	}
	t := math.Sqrt(disc)
	return l.At(foot.Sub(l.Point).Dot(l.Dir) - t), l.At(foot.Sub(l.Point).Dot(l.Dir) + t), true
}

// Bisector returns the plane of points with equal signed distance to p and q.
// Its normal is normalize(p.Normal - q.Normal), so the positive side is
// where p is the farther plane.
func Bisector(p, q Plane) (Plane, bool) {
	n := p.Normal.Sub(q.Normal)
	l := n.Norm()
	if l <= Epsilon {
		return Plane{}, false
	}
	return Plane{Normal: n.Mul(1 / l), D: (p.D - q.D) / l}, true
}

// RotatePlane rotates p about the given axis line.
func RotatePlane(p Plane, axis Line, angle s1.Angle) Plane {
	n := RotateVector(p.Normal, axis.Dir, angle)
	anchor := p.Point().Sub(axis.Point)
	anchor = RotateVector(anchor, axis.Dir, angle).Add(axis.Point)
	return Plane{Normal: n, D: n.Dot(anchor)}
}

// IsPointInsidePlanes reports whether point is on the non-negative side of
// every plane, allowing it to be up to margin behind each of them.
func IsPointInsidePlanes(planes []Plane, point r3.Vector, margin float64) bool {
	for i := 0; i < len(planes); i++ {
		if planes[i].Distance(point)+margin < 0 {
			return false
		}
	}
	return true
}

// AreVerticesBehindPlane reports whether every vertex is on the negative side
// of plane, allowing margin.
func AreVerticesBehindPlane(plane Plane, vertices []r3.Vector, margin float64) bool {
	for i := 0; i < len(vertices); i++ {
		if plane.Distance(vertices[i])-margin > 0 {
			return false
		}
	}
	return true
}
