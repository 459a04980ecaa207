package skeleton

import (
	"github.com/golang/geo/r3"

	"straightskel/src/circular"
	"straightskel/src/geometry"
)

// translational offsets the edge planes themselves: every plane moves
// towards the interior by the same distance, so edges become small circles.
// A vertex is where the line shared by its two planes pierces the sphere;
// once that line misses the sphere the vertex is behind the horizon.
type translational struct {
	base
	// distance is the signed distance of every offset plane from the
	// sphere center.
	distance float64
}

func (*translational) Variant() Variant { return Translational }

func (s *translational) Init(p *circular.Polygon) bool {
	s.distance = 0
	for _, e := range p.Edges() {
		pl, ok := p.Plane(e.ID)
		if !ok {
			s.log.Warn("degenerate edge", "edge", e)
			return false
		}
		p.SetPlane(e.ID, pl)
	}
	return initVertices(s, p)
}

func (s *translational) IsReflex(p *circular.Polygon, id circular.VertexID) bool {
	return p.Vertex(id).Data.Reflex
}

func (s *translational) planes(p *circular.Polygon, v *circular.Vertex) (in, out geometry.Plane, ok bool) {
	in, ok1 := p.Plane(v.In)
	out, ok2 := p.Plane(v.Out)
	return in, out, ok1 && ok2
}

// centerDistance is the signed distance of pl from the sphere center.
func (s *translational) centerDistance(pl geometry.Plane) float64 {
	return -pl.Distance(s.sphere.Center)
}

// tangent is the point of the sphere closest to the line of v.
func (s *translational) tangent(p *circular.Polygon, v *circular.Vertex) (r3.Vector, bool) {
	in, out, ok := s.planes(p, v)
	if !ok {
		return r3.Vector{}, false
	}
	line, ok := geometry.IntersectPlanes(in, out)
	if !ok {
		return r3.Vector{}, false
	}
	u, ok := geometry.Normalize(line.Projection(s.sphere.Center).Sub(s.sphere.Center))
	if !ok {
		return r3.Vector{}, false
	}
	return s.sphere.PointAt(u), true
}

func (s *translational) ShiftEdges(p *circular.Polygon, delta float64) *circular.Polygon {
	next := cloneForShift(p)
	s.offset += delta
	s.distance -= delta
	for _, e := range next.Edges() {
		pl, _ := next.Plane(e.ID)
		next.SetPlane(e.ID, pl.Offset(-delta))
	}
	for _, v := range next.Vertices() {
		s.place(next, v)
	}
	return next
}

// place moves v onto the line of its planes. Vertices behind the horizon
// are parked at the tangent point.
func (s *translational) place(p *circular.Polygon, v *circular.Vertex) {
	in, out, ok := s.planes(p, v)
	if !ok {
		return
	}
	line, ok := geometry.IntersectPlanes(in, out)
	if !ok {
		return
	}
	near, far, hit := geometry.IntersectSphereLine(s.sphere, line)
	if !v.Valid || !hit {
		if t, ok := s.tangent(p, v); ok {
			p.SetPoint(v.ID, t)
		}
		return
	}
	prev := v.Point
	dn, df := near.Sub(prev).Norm(), far.Sub(prev).Norm()
	if geometry.NearlyEqual(dn, df, geometry.Epsilon) {
		// Just back from the horizon: follow the arc.
		if arc, ok := arcOf(&s.base, p, v.ID); ok {
			dir := s.unit(prev).Cross(arc.Plane.Normal)
			if far.Sub(prev).Dot(dir) > near.Sub(prev).Dot(dir) {
				near = far
			}
		}
		p.SetPoint(v.ID, near)
		return
	}
	p.SetPoint(v.ID, nearestRoot(near, far, prev))
}

func (s *translational) wavefront(p *circular.Polygon, e circular.EdgeID) (geometry.Plane, bool) {
	return p.Plane(e)
}

func (s *translational) bisector(a, b geometry.Plane) (geometry.Plane, bool) {
	return geometry.Bisector(a, b)
}

func (s *translational) edgeOffset(p *circular.Polygon, e circular.EdgeID, x r3.Vector) (float64, bool) {
	pl, ok := p.Plane(e)
	if !ok {
		return 0, false
	}
	return -pl.Distance(x), true
}

func (s *translational) vertexOffset(p *circular.Polygon, v circular.VertexID, x r3.Vector) (float64, bool) {
	return s.edgeOffset(p, p.Vertex(v).In, x)
}

func (s *translational) annotate(p *circular.Polygon, id circular.VertexID) {
	v := p.Vertex(id)
	in, out, ok := s.planes(p, v)
	if !ok {
		return
	}
	v.Data.Reflex = geometry.Orientation(in.Normal, out.Normal, s.unit(v.Point)) < 0
	v.Data.Speed = 1 / halfAngleSine(in, out)
	v.Data.Created = s.offset
}

// horizonOffsets returns the offsets at which the line of v leaves the
// sphere (distance rising to R*k) and comes back (rising to -R*k).
func (s *translational) horizonOffsets(p *circular.Polygon, v *circular.Vertex) (leave, back float64, ok bool) {
	in, out, ok := s.planes(p, v)
	if !ok {
		return 0, 0, false
	}
	reach := s.sphere.Radius * halfAngleSine(in, out)
	d := s.centerDistance(in)
	return -(reach - d), -(-reach - d), true
}

func (s *translational) NextEvent(p *circular.Polygon, offset float64) Event {
	return nextEvent(s, p, offset, func(c *candidates) {
		s.extraCandidates(p, c)
	})
}

func (s *translational) extraCandidates(p *circular.Polygon, c *candidates) {
	verts := p.Vertices()
	paired := make(map[circular.VertexID]bool)

	for _, v := range verts {
		in, out, ok := s.planes(p, v)
		if ok && in.ApproxEqual(out) {
			c.offer(&EdgeMergeEvent{eventBase: newBase(0, v.Point), Vertex: v.ID})
		}
	}

	for _, ring := range p.Rings() {
		if len(ring) != 2 {
			continue
		}
		a, b := p.Vertex(p.Edge(ring[0]).Src), p.Vertex(p.Edge(ring[1]).Src)
		paired[a.ID], paired[b.ID] = true, true
		if !a.Valid || !b.Valid {
			continue
		}
		if d, x, ok := s.leaveAt(p, a); ok {
			c.offer(&DblEdgeEvent{eventBase: newBase(d, x), Edge1: ring[0], Edge2: ring[1]})
		}
	}

	for i, v1 := range verts {
		for _, v2 := range verts[i+1:] {
			if paired[v1.ID] || paired[v2.ID] {
				continue
			}
			swapped, identical := s.pairing(p, v1, v2)
			switch {
			case swapped && v1.Valid && v2.Valid:
				if d, x, ok := s.leaveAt(p, v1); ok {
					c.offer(&VertexEvent{eventBase: newBase(d, x), Vertex1: v1.ID, Vertex2: v2.ID})
				}
			case identical && v1.Valid && v2.Valid:
				if d, x, ok := s.leaveAt(p, v1); ok {
					c.offer(&DblLeaveEvent{eventBase: newBase(d, x), Vertex1: v1.ID, Vertex2: v2.ID})
				}
			case identical && !v1.Valid && !v2.Valid:
				if d, x, ok := s.returnAt(p, v1); ok {
					c.offer(&DblReturnEvent{eventBase: newBase(d, x), Vertex1: v1.ID, Vertex2: v2.ID})
				}
			default:
				continue
			}
			paired[v1.ID], paired[v2.ID] = true, true
		}
	}

	for _, v := range verts {
		if paired[v.ID] {
			continue
		}
		if v.Valid {
			if d, x, ok := s.leaveAt(p, v); ok {
				c.offer(&LeaveEvent{eventBase: newBase(d, x), Vertex: v.ID})
			}
		} else if d, x, ok := s.returnAt(p, v); ok {
			c.offer(&ReturnEvent{eventBase: newBase(d, x), Vertex: v.ID})
		}
	}

	c.offer(&InversionEvent{eventBase: newBase(-(s.sphere.Radius - s.distance), r3.Vector{})})
}

// pairing compares the plane pairs of two vertices.
func (s *translational) pairing(p *circular.Polygon, v1, v2 *circular.Vertex) (swapped, identical bool) {
	in1, out1, ok1 := s.planes(p, v1)
	in2, out2, ok2 := s.planes(p, v2)
	if !ok1 || !ok2 || in1.ApproxEqual(out1) {
		return false, false
	}
	swapped = in1.ApproxEqual(out2) && out1.ApproxEqual(in2)
	identical = in1.ApproxEqual(in2) && out1.ApproxEqual(out2)
	return swapped, identical
}

func (s *translational) leaveAt(p *circular.Polygon, v *circular.Vertex) (float64, r3.Vector, bool) {
	leave, _, ok := s.horizonOffsets(p, v)
	if !ok {
		return 0, r3.Vector{}, false
	}
	// A line already outside the sphere leaves right away.
	if leave > 0 {
		leave = 0
	}
	return s.tangentAfter(p, v, leave)
}

func (s *translational) returnAt(p *circular.Polygon, v *circular.Vertex) (float64, r3.Vector, bool) {
	_, back, ok := s.horizonOffsets(p, v)
	if !ok || back > geometry.OffsetEpsilon {
		return 0, r3.Vector{}, false
	}
	return s.tangentAfter(p, v, back)
}

// tangentAfter is the tangent point of the line of v once every plane has
// moved by delta.
func (s *translational) tangentAfter(p *circular.Polygon, v *circular.Vertex, delta float64) (float64, r3.Vector, bool) {
	in, out, _ := s.planes(p, v)
	line, ok := geometry.IntersectPlanes(in.Offset(-delta), out.Offset(-delta))
	if !ok {
		return 0, r3.Vector{}, false
	}
	u, ok := geometry.Normalize(line.Projection(s.sphere.Center).Sub(s.sphere.Center))
	if !ok {
		return 0, r3.Vector{}, false
	}
	return delta, s.sphere.PointAt(u), true
}

func (s *translational) HandleEdgeEvent(p *circular.Polygon, ev *EdgeEvent) error {
	return handleEdgeEvent(s, p, ev)
}

func (s *translational) HandleSplitEvent(p *circular.Polygon, ev *SplitEvent) error {
	return handleSplitEvent(s, p, ev)
}

func (s *translational) HandleTriangleEvent(p *circular.Polygon, ev *TriangleEvent) error {
	return handleTriangleEvent(s, p, ev)
}

func (s *translational) HandleConstOffsetEvent(p *circular.Polygon, ev *ConstOffsetEvent) error {
	return handleConstOffsetEvent(s, p, ev)
}
