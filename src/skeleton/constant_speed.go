package skeleton

import (
	"github.com/golang/geo/r3"
	"github.com/golang/geo/s1"

	"straightskel/src/circular"
	"straightskel/src/geometry"
)

// constantSpeed moves each vertex along its arc at the fixed angular speed
// 1/sin(alpha/2) it had when it was created. Edges follow their endpoints.
type constantSpeed struct {
	base
}

func (*constantSpeed) Variant() Variant { return ConstantSpeed }

func (s *constantSpeed) Init(p *circular.Polygon) bool {
	return initVertices(s, p)
}

func (s *constantSpeed) IsReflex(p *circular.Polygon, id circular.VertexID) bool {
	return p.Vertex(id).Data.Reflex
}

func (s *constantSpeed) NextEvent(p *circular.Polygon, offset float64) Event {
	return nextEvent(s, p, offset, nil)
}

func (s *constantSpeed) ShiftEdges(p *circular.Polygon, delta float64) *circular.Polygon {
	next := cloneForShift(p)
	s.offset += delta
	for _, v := range next.Vertices() {
		if !v.Valid || v.Data.Arc == circular.NoRef {
			continue
		}
		angle := s1.Angle(-delta * v.Data.Speed)
		u := geometry.RotateVector(s.unit(v.Point), v.Data.Axis, angle)
		next.SetPoint(v.ID, s.sphere.PointAt(u))
	}
	return next
}

func (s *constantSpeed) wavefront(p *circular.Polygon, e circular.EdgeID) (geometry.Plane, bool) {
	return s.graph.OriginPlane(edgeOrigin(p, e))
}

func (s *constantSpeed) bisector(a, b geometry.Plane) (geometry.Plane, bool) {
	return geometry.Bisector(a, b)
}

// edgeOffset averages the times both endpoints need to reach x.
func (s *constantSpeed) edgeOffset(p *circular.Polygon, e circular.EdgeID, x r3.Vector) (float64, bool) {
	edge := p.Edge(e)
	if edge == nil {
		return 0, false
	}
	d1, ok1 := s.vertexOffset(p, edge.Src, x)
	d2, ok2 := s.vertexOffset(p, edge.Dst, x)
	if !ok1 || !ok2 {
		return 0, false
	}
	return (d1 + d2) / 2, true
}

func (s *constantSpeed) vertexOffset(p *circular.Polygon, id circular.VertexID, x r3.Vector) (float64, bool) {
	v := p.Vertex(id)
	if v == nil || v.Data.Speed <= 0 {
		return 0, false
	}
	angle := geometry.Angle(s.unit(v.Point), s.unit(x))
	return -angle.Radians() / v.Data.Speed, true
}

func (s *constantSpeed) annotate(p *circular.Polygon, id circular.VertexID) {
	v := p.Vertex(id)
	in, ok1 := s.wavefront(p, v.In)
	out, ok2 := s.wavefront(p, v.Out)
	if !ok1 || !ok2 {
		return
	}
	v.Data.Reflex = geometry.Orientation(in.Normal, out.Normal, s.unit(v.Point)) < 0
	v.Data.Speed = 1 / halfAngleSine(in, out)
	v.Data.Created = s.offset
}

func (s *constantSpeed) HandleEdgeEvent(p *circular.Polygon, ev *EdgeEvent) error {
	return handleEdgeEvent(s, p, ev)
}

func (s *constantSpeed) HandleSplitEvent(p *circular.Polygon, ev *SplitEvent) error {
	return handleSplitEvent(s, p, ev)
}

func (s *constantSpeed) HandleTriangleEvent(p *circular.Polygon, ev *TriangleEvent) error {
	return handleTriangleEvent(s, p, ev)
}

func (s *constantSpeed) HandleConstOffsetEvent(p *circular.Polygon, ev *ConstOffsetEvent) error {
	return handleConstOffsetEvent(s, p, ev)
}
