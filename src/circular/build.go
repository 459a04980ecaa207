package circular

import (
	"fmt"

	"github.com/golang/geo/r3"
	"github.com/golang/geo/s2"

	"straightskel/src/geometry"
)

// FromPoints builds a single closed ring through pts, projected onto the
// sphere. The ring must be counter-clockwise as seen from outside the sphere
// for the edge planes to face the interior.
func FromPoints(sphere geometry.Sphere, pts []r3.Vector) (*Polygon, error) {
	if len(pts) < 3 {
		return nil, fmt.Errorf("%w: got %d", ErrTooFewPoints, len(pts))
	}
	p := New(sphere)
	ids := make([]VertexID, len(pts))
	for i, pt := range pts {
		ids[i] = p.AddVertex(sphere.Project(pt))
	}
	for i := range ids {
		p.AddEdge(ids[i], ids[(i+1)%len(ids)])
	}
	return p, nil
}

// FromLoop builds a polygon from an s2 loop placed on sphere. The loop is
// normalized first so that its interior is the smaller region.
func FromLoop(sphere geometry.Sphere, loop *s2.Loop) (*Polygon, error) {
	if err := loop.Validate(); err != nil {
		return nil, fmt.Errorf("circular: invalid loop: %w", err)
	}
	if !loop.IsNormalized() {
		loop.Normalize()
	}
	pts := make([]r3.Vector, 0, loop.NumVertices())
	for _, v := range loop.Vertices() {
		pts = append(pts, sphere.PointAt(v.Vector))
	}
	return FromPoints(sphere, pts)
}

// FromLatLngs builds a polygon from geographic coordinates.
func FromLatLngs(sphere geometry.Sphere, lls ...s2.LatLng) (*Polygon, error) {
	if len(lls) < 3 {
		return nil, fmt.Errorf("%w: got %d", ErrTooFewPoints, len(lls))
	}
	pts := make([]s2.Point, len(lls))
	for i, ll := range lls {
		pts[i] = s2.PointFromLatLng(ll)
	}
	return FromLoop(sphere, s2.LoopFromPoints(pts))
}
