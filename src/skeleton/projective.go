package skeleton

import (
	"github.com/golang/geo/r3"

	"straightskel/src/circular"
	"straightskel/src/geometry"
)

// projective moves every edge plane as if its gnomonic image, taken from the
// mean direction of the input, were offset in the tangent plane. An edge
// plane is kept as the pair (m, h): m the unit in-plane normal of the
// gnomonic line and h its signed distance from the tangent point.
type projective struct {
	base
	center r3.Vector
}

func (*projective) Variant() Variant { return Projective }

func (s *projective) Init(p *circular.Polygon) bool {
	s.sphere = p.Sphere
	var sum r3.Vector
	for _, v := range p.Vertices() {
		sum = sum.Add(s.unit(v.Point))
	}
	c, ok := geometry.Normalize(sum)
	if !ok {
		s.log.Warn("polygon has no mean direction")
		return false
	}
	s.center = c
	for _, e := range p.Edges() {
		pl, ok := p.Plane(e.ID)
		if !ok {
			s.log.Warn("degenerate edge", "edge", e)
			return false
		}
		m, h, ok := s.gnomonic(pl.Normal)
		if !ok {
			s.log.Warn("edge plane is perpendicular to the projection center", "edge", e)
			return false
		}
		s.setEdge(p, e.ID, m, h)
	}
	return initVertices(s, p)
}

// gnomonic decomposes the normal of a plane through the sphere center.
func (s *projective) gnomonic(n r3.Vector) (m r3.Vector, h float64, ok bool) {
	nc := n.Dot(s.center)
	perp := n.Sub(s.center.Mul(nc))
	l := perp.Norm()
	if l <= geometry.Epsilon {
		return r3.Vector{}, 0, false
	}
	return perp.Mul(1 / l), nc / l, true
}

func (s *projective) setEdge(p *circular.Polygon, e circular.EdgeID, m r3.Vector, h float64) {
	edge := p.Edge(e)
	edge.Data.Axis = s.center.Cross(m)
	edge.Data.Offset = h
	n, _ := geometry.Normalize(m.Add(s.center.Mul(h)))
	p.SetPlane(e, geometry.Plane{Normal: n, D: n.Dot(s.sphere.Center)})
}

// inPlane recovers m from the stored rotation axis.
func (s *projective) inPlane(p *circular.Polygon, e circular.EdgeID) r3.Vector {
	return p.Edge(e).Data.Axis.Cross(s.center)
}

func (s *projective) IsReflex(p *circular.Polygon, id circular.VertexID) bool {
	v := p.Vertex(id)
	in, ok1 := p.Plane(v.In)
	out, ok2 := p.Plane(v.Out)
	if !ok1 || !ok2 {
		return false
	}
	return geometry.Orientation(in.Normal, out.Normal, s.unit(v.Point)) < 0
}

func (s *projective) NextEvent(p *circular.Polygon, offset float64) Event {
	return nextEvent(s, p, offset, nil)
}

func (s *projective) ShiftEdges(p *circular.Polygon, delta float64) *circular.Polygon {
	next := cloneForShift(p)
	s.offset += delta
	for _, e := range next.Edges() {
		s.setEdge(next, e.ID, s.inPlane(next, e.ID), e.Data.Offset+delta)
	}
	for _, v := range next.Vertices() {
		if !v.Valid {
			continue
		}
		in, _ := next.Plane(v.In)
		out, _ := next.Plane(v.Out)
		line, ok := geometry.IntersectPlanes(in, out)
		if !ok {
			continue
		}
		near, far, ok := geometry.IntersectSphereLine(s.sphere, line)
		if !ok {
			continue
		}
		var roots []r3.Vector
		for _, x := range []r3.Vector{near, far} {
			if s.unit(x).Dot(s.center) > geometry.Epsilon {
				roots = append(roots, x)
			}
		}
		switch len(roots) {
		case 1:
			next.SetPoint(v.ID, roots[0])
		case 2:
			next.SetPoint(v.ID, nearestRoot(roots[0], roots[1], v.Point))
		}
	}
	return next
}

func (s *projective) wavefront(p *circular.Polygon, e circular.EdgeID) (geometry.Plane, bool) {
	return p.Plane(e)
}

// bisector is taken in the gnomonic image: the locus of equal gnomonic
// distance to both lines.
func (s *projective) bisector(a, b geometry.Plane) (geometry.Plane, bool) {
	ma, ha, ok1 := s.gnomonic(a.Normal)
	mb, hb, ok2 := s.gnomonic(b.Normal)
	if !ok1 || !ok2 {
		return geometry.Plane{}, false
	}
	n := ma.Sub(mb).Add(s.center.Mul(ha - hb))
	return s.sphere.CentralPlane(n)
}

func (s *projective) edgeOffset(p *circular.Polygon, e circular.EdgeID, x r3.Vector) (float64, bool) {
	edge := p.Edge(e)
	if edge == nil {
		return 0, false
	}
	u := s.unit(x)
	cu := u.Dot(s.center)
	if cu <= geometry.Epsilon {
		return 0, false
	}
	n := s.inPlane(p, e).Add(s.center.Mul(edge.Data.Offset))
	return -n.Dot(u) / cu, true
}

func (s *projective) vertexOffset(p *circular.Polygon, v circular.VertexID, x r3.Vector) (float64, bool) {
	return s.edgeOffset(p, p.Vertex(v).In, x)
}

func (s *projective) annotate(p *circular.Polygon, id circular.VertexID) {
	v := p.Vertex(id)
	v.Data.Reflex = s.IsReflex(p, id)
	v.Data.Created = s.offset
}

func (s *projective) HandleEdgeEvent(p *circular.Polygon, ev *EdgeEvent) error {
	return handleEdgeEvent(s, p, ev)
}

func (s *projective) HandleSplitEvent(p *circular.Polygon, ev *SplitEvent) error {
	return handleSplitEvent(s, p, ev)
}

func (s *projective) HandleTriangleEvent(p *circular.Polygon, ev *TriangleEvent) error {
	return handleTriangleEvent(s, p, ev)
}

func (s *projective) HandleConstOffsetEvent(p *circular.Polygon, ev *ConstOffsetEvent) error {
	return handleConstOffsetEvent(s, p, ev)
}
