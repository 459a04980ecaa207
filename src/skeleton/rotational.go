package skeleton

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/golang/geo/s1"

	"straightskel/src/circular"
	"straightskel/src/geometry"
)

// rotational offsets every edge by the same geodesic distance: the edge
// great circles become small circles at angular distance |o|. A vertex with
// interior angle alpha lies on the bisector of its edges at arc length
// asin(sin|o| / sin(alpha/2)) from their virtual corner.
type rotational struct {
	base
}

func (*rotational) Variant() Variant { return Rotational }

func (s *rotational) Init(p *circular.Polygon) bool {
	return initVertices(s, p)
}

// halfAngleSine is sin(alpha/2) for the interior angle alpha between two
// planes through the center.
func halfAngleSine(in, out geometry.Plane) float64 {
	return math.Max(in.Normal.Add(out.Normal).Norm()/2, geometry.Epsilon)
}

// travel is the arc length from the virtual corner at which a vertex with
// half angle sine k is at distance d from its edges.
func travel(d, k float64) s1.Angle {
	return s1.Angle(math.Asin(math.Min(1, math.Sin(d)/k)))
}

func (s *rotational) IsReflex(p *circular.Polygon, id circular.VertexID) bool {
	v := p.Vertex(id)
	in, ok1 := s.wavefront(p, v.In)
	out, ok2 := s.wavefront(p, v.Out)
	if !ok1 || !ok2 {
		return false
	}
	return geometry.Orientation(in.Normal, out.Normal, s.unit(v.Point)) < 0
}

func (s *rotational) NextEvent(p *circular.Polygon, offset float64) Event {
	return nextEvent(s, p, offset, nil)
}

func (s *rotational) ShiftEdges(p *circular.Polygon, delta float64) *circular.Polygon {
	next := cloneForShift(p)
	s.offset += delta
	for _, v := range next.Vertices() {
		if !v.Valid || v.Data.Arc == circular.NoRef {
			continue
		}
		node, ok := s.graph.Node(NodeID(v.Data.Node))
		if !ok {
			continue
		}
		k := v.Data.Speed
		angle := travel(s.elapsed(), k) - travel(-v.Data.Created, k)
		u := geometry.RotateVector(s.unit(node.Point), v.Data.Axis, angle)
		next.SetPoint(v.ID, s.sphere.PointAt(u))
	}
	return next
}

func (s *rotational) wavefront(p *circular.Polygon, e circular.EdgeID) (geometry.Plane, bool) {
	return s.graph.OriginPlane(edgeOrigin(p, e))
}

func (s *rotational) bisector(a, b geometry.Plane) (geometry.Plane, bool) {
	return geometry.Bisector(a, b)
}

func (s *rotational) edgeOffset(p *circular.Polygon, e circular.EdgeID, x r3.Vector) (float64, bool) {
	pl, ok := s.wavefront(p, e)
	if !ok {
		return 0, false
	}
	sin := pl.Distance(x) / s.sphere.Radius
	dist := math.Asin(math.Max(-1, math.Min(1, sin)))
	return -(dist - s.elapsed()), true
}

func (s *rotational) vertexOffset(p *circular.Polygon, v circular.VertexID, x r3.Vector) (float64, bool) {
	return s.edgeOffset(p, p.Vertex(v).In, x)
}

func (s *rotational) annotate(p *circular.Polygon, id circular.VertexID) {
	v := p.Vertex(id)
	in, _ := s.wavefront(p, v.In)
	out, _ := s.wavefront(p, v.Out)
	v.Data.Speed = halfAngleSine(in, out)
	v.Data.Reflex = s.IsReflex(p, id)
	v.Data.Created = s.offset
}

func (s *rotational) HandleEdgeEvent(p *circular.Polygon, ev *EdgeEvent) error {
	return handleEdgeEvent(s, p, ev)
}

func (s *rotational) HandleSplitEvent(p *circular.Polygon, ev *SplitEvent) error {
	return handleSplitEvent(s, p, ev)
}

func (s *rotational) HandleTriangleEvent(p *circular.Polygon, ev *TriangleEvent) error {
	return handleTriangleEvent(s, p, ev)
}

func (s *rotational) HandleConstOffsetEvent(p *circular.Polygon, ev *ConstOffsetEvent) error {
	return handleConstOffsetEvent(s, p, ev)
}
