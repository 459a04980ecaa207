package skeleton

import (
	"log/slog"
	"math"
	"sort"

	"github.com/golang/geo/r3"

	"straightskel/src/circular"
	"straightskel/src/geometry"
)

// Strategy propagates the wavefront of a spherical polygon and reacts to the
// events it predicts. All methods run on the construction goroutine with the
// polygon write-locked by the caller.
type Strategy interface {
	Variant() Variant
	IsReflex(p *circular.Polygon, v circular.VertexID) bool
	// Init annotates p, creating a node and an open arc per vertex. It
	// reports false when a vertex lacks one of its edges.
	Init(p *circular.Polygon) bool
	// NextEvent returns the nearest event after the cumulative offset, or
	// nil when p has no edges left.
	NextEvent(p *circular.Polygon, offset float64) Event
	// ShiftEdges returns a copy of p advanced by delta (delta <= 0).
	// Handles are preserved.
	ShiftEdges(p *circular.Polygon, delta float64) *circular.Polygon

	HandleEdgeEvent(p *circular.Polygon, ev *EdgeEvent) error
	HandleSplitEvent(p *circular.Polygon, ev *SplitEvent) error
	HandleTriangleEvent(p *circular.Polygon, ev *TriangleEvent) error
	HandleConstOffsetEvent(p *circular.Polygon, ev *ConstOffsetEvent) error
}

// TranslationalHandler is implemented by strategies whose wavefront can
// leave the visible hemisphere of its own planes.
type TranslationalHandler interface {
	HandleDblEdgeEvent(p *circular.Polygon, ev *DblEdgeEvent) error
	HandleLeaveEvent(p *circular.Polygon, ev *LeaveEvent) error
	HandleReturnEvent(p *circular.Polygon, ev *ReturnEvent) error
	HandleDblLeaveEvent(p *circular.Polygon, ev *DblLeaveEvent) error
	HandleDblReturnEvent(p *circular.Polygon, ev *DblReturnEvent) error
	HandleVertexEvent(p *circular.Polygon, ev *VertexEvent) error
	HandleEdgeMergeEvent(p *circular.Polygon, ev *EdgeMergeEvent) error
	HandleInversionEvent(p *circular.Polygon, ev *InversionEvent) error
}

// NewStrategy builds the strategy selected by cfg. It records its skeleton
// into g.
func NewStrategy(cfg Config, g *Graph) Strategy {
	b := base{graph: g, config: cfg, log: Logger().With("strategy", cfg.Strategy.String())}
	switch cfg.Strategy {
	case Projective:
		return &projective{base: b}
	case Rotational:
		return &rotational{base: b}
	case Translational:
		return &translational{base: b}
	case ConstantSpeed:
		return &constantSpeed{base: b}
	default:
		Logger().Warn("unknown strategy, using projective", "variant", cfg.Strategy)
		b.config.Strategy = Projective
		b.log = Logger().With("strategy", Projective.String())
		return &projective{base: b}
	}
}

// motion is the variant specific half of a strategy. The shared predicates
// and handlers are written against it.
type motion interface {
	Strategy

	core() *base
	// wavefront is the plane the bisectors of e are measured against.
	wavefront(p *circular.Polygon, e circular.EdgeID) (geometry.Plane, bool)
	bisector(a, b geometry.Plane) (geometry.Plane, bool)
	// edgeOffset is the offset, relative to the current one, at which the
	// wavefront of e passes x.
	edgeOffset(p *circular.Polygon, e circular.EdgeID, x r3.Vector) (float64, bool)
	vertexOffset(p *circular.Polygon, v circular.VertexID, x r3.Vector) (float64, bool)
	// annotate fills the vertex data a new vertex needs before its arc is
	// created.
	annotate(p *circular.Polygon, v circular.VertexID)
}

type base struct {
	graph  *Graph
	config Config
	sphere geometry.Sphere
	// offset is the cumulative offset, never positive.
	offset float64
	log    *slog.Logger
}

func (b *base) core() *base { return b }

func (b *base) unit(x r3.Vector) r3.Vector { return b.sphere.Unit(x) }

// elapsed is the distance travelled so far.
func (b *base) elapsed() float64 { return -b.offset }

// initVertices gives every vertex of p its node and arc.
func initVertices(m motion, p *circular.Polygon) bool {
	b := m.core()
	b.sphere = p.Sphere
	b.offset = 0
	for _, v := range p.Vertices() {
		if v.In == circular.NoEdge || v.Out == circular.NoEdge {
			b.log.Warn("vertex without neighbours", "vertex", v)
			return false
		}
	}
	for _, v := range p.Vertices() {
		node := b.graph.CreateNode(v.Point, 0)
		if err := startVertex(m, p, v.ID, node); err != nil {
			b.log.Warn("cannot initialize vertex", "vertex", v, "err", err)
			return false
		}
	}
	return true
}

// startVertex anchors v at node and starts its arc.
func startVertex(m motion, p *circular.Polygon, id circular.VertexID, node NodeID) error {
	v := p.Vertex(id)
	v.Data.Node = circular.Ref(node)
	v.Data.Arc = circular.NoRef
	v.Data.Highlight = true
	m.annotate(p, id)
	if !createArc(m, p, id) {
		return newInvariantError(errNoBisector(v))
	}
	return nil
}

// createArc starts the open arc of v at its node. The arc lies on the
// bisector of the wavefront planes of the incident edges and heads into the
// polygon.
func createArc(m motion, p *circular.Polygon, id circular.VertexID) bool {
	b := m.core()
	v := p.Vertex(id)
	if v == nil || v.Data.Node == circular.NoRef {
		return false
	}
	in, ok := m.wavefront(p, v.In)
	if !ok {
		return false
	}
	out, ok := m.wavefront(p, v.Out)
	if !ok {
		return false
	}
	plane, ok := m.bisector(in, out)
	if !ok {
		return false
	}
	if m.IsReflex(p, id) {
		plane = plane.Opposite()
	}
	u := b.unit(v.Point)
	dir, ok := geometry.Normalize(u.Cross(plane.Normal))
	if !ok {
		return false
	}
	arc := b.graph.CreateArc(NodeID(v.Data.Node), dir, plane, edgeOrigin(p, v.In), edgeOrigin(p, v.Out))
	v.Data.Arc = circular.Ref(arc)
	v.Data.Axis = u.Cross(dir)
	return true
}

// appendEventNode creates the node of an event at point and terminates the
// open arcs of the given vertices there.
func appendEventNode(m motion, p *circular.Polygon, point r3.Vector, vertices ...circular.VertexID) (NodeID, error) {
	b := m.core()
	node := b.graph.CreateNode(b.sphere.Project(point), b.offset)
	for _, id := range vertices {
		if err := terminateArc(b, p, id, node); err != nil {
			return node, err
		}
	}
	return node, nil
}

func terminateArc(b *base, p *circular.Polygon, id circular.VertexID, node NodeID) error {
	v := p.Vertex(id)
	if v == nil || v.Data.Arc == circular.NoRef {
		return nil
	}
	if err := b.graph.TerminateArc(ArcID(v.Data.Arc), node); err != nil {
		return err
	}
	v.Data.Arc = circular.NoRef
	return nil
}

// arcOf returns the open arc of a live vertex.
func arcOf(b *base, p *circular.Polygon, id circular.VertexID) (Arc, bool) {
	v := p.Vertex(id)
	if v == nil || v.Data.Arc == circular.NoRef {
		return Arc{}, false
	}
	return b.graph.Arc(ArcID(v.Data.Arc))
}

// ahead reports whether x lies forward of v on the great circle of its arc.
func ahead(b *base, p *circular.Polygon, id circular.VertexID, x r3.Vector) bool {
	arc, ok := arcOf(b, p, id)
	if !ok {
		return false
	}
	u := b.unit(p.Vertex(id).Point)
	front := geometry.Plane{Normal: u.Cross(arc.Plane.Normal)}
	return !geometry.AreVerticesBehindPlane(front, []r3.Vector{b.unit(x)}, -geometry.OffsetEpsilon)
}

// vanishesAt returns the points where the arcs of both endpoints of e meet.
func vanishesAt(b *base, p *circular.Polygon, e circular.EdgeID) []r3.Vector {
	edge := p.Edge(e)
	if edge == nil {
		return nil
	}
	src, ok := arcOf(b, p, edge.Src)
	if !ok {
		return nil
	}
	dst, ok := arcOf(b, p, edge.Dst)
	if !ok {
		return nil
	}
	line, ok := geometry.IntersectPlanes(src.Plane, dst.Plane)
	if !ok {
		return nil
	}
	near, far, ok := geometry.IntersectSphereLine(b.sphere, line)
	if !ok {
		return nil
	}
	return []r3.Vector{near, far}
}

// crashAt returns the points where the reflex vertex v meets the wavefront
// of e: equidistant from both edges of v and from e, and within the face
// swept by e. An endpoint of e behind the horizon does not bound the face.
func crashAt(m motion, p *circular.Polygon, v circular.VertexID, e circular.EdgeID) []r3.Vector {
	b := m.core()
	vert, edge := p.Vertex(v), p.Edge(e)
	if vert == nil || edge == nil {
		return nil
	}
	in, ok1 := m.wavefront(p, vert.In)
	target, ok2 := m.wavefront(p, e)
	out, ok3 := m.wavefront(p, vert.Out)
	if !ok1 || !ok2 || !ok3 {
		return nil
	}
	b1, ok1 := m.bisector(in, target)
	b2, ok2 := m.bisector(target, out)
	if !ok1 || !ok2 {
		return nil
	}
	line, ok := geometry.IntersectPlanes(b1, b2)
	if !ok {
		return nil
	}
	near, far, ok := geometry.IntersectSphereLine(b.sphere, line)
	if !ok {
		return nil
	}

	var bounds []geometry.Plane
	if src := p.Vertex(edge.Src); src.Valid {
		if arc, ok := arcOf(b, p, src.ID); ok {
			bounds = append(bounds, arc.Plane)
		}
	}
	if dst := p.Vertex(edge.Dst); dst.Valid {
		if arc, ok := arcOf(b, p, dst.ID); ok {
			bounds = append(bounds, arc.Plane.Opposite())
		}
	}
	var hits []r3.Vector
	for _, x := range []r3.Vector{near, far} {
		if target.Distance(x) < -geometry.Epsilon {
			continue
		}
		if !geometry.IsPointInsidePlanes(bounds, x, geometry.Epsilon) {
			continue
		}
		hits = append(hits, x)
	}
	return hits
}

func isTriangle(p *circular.Polygon, e circular.EdgeID) bool {
	n := p.Next(e)
	return n != e && n != circular.NoEdge && p.Next(n) != e && p.Next(p.Next(n)) == e
}

func isDigon(p *circular.Polygon, e circular.EdgeID) bool {
	n := p.Next(e)
	return n != e && n != circular.NoEdge && p.Next(n) == e
}

// atOwnNode reports whether x is the point where v was created.
func atOwnNode(b *base, p *circular.Polygon, v circular.VertexID, x r3.Vector) bool {
	vert := p.Vertex(v)
	if vert == nil || vert.Data.Node == circular.NoRef {
		return false
	}
	node, ok := b.graph.Node(NodeID(vert.Data.Node))
	if !ok {
		return false
	}
	return x.Sub(node.Point).Norm() <= geometry.OffsetEpsilon*b.sphere.Radius
}

// edgeOrigin is the input edge e descends from.
func edgeOrigin(p *circular.Polygon, e circular.EdgeID) circular.EdgeID {
	if edge := p.Edge(e); edge != nil {
		return edge.Data.Origin
	}
	return circular.NoEdge
}

// nearestRoot returns whichever of a and b is closer to prev.
func nearestRoot(a, b, prev r3.Vector) r3.Vector {
	if a.Sub(prev).Norm2() <= b.Sub(prev).Norm2() {
		return a
	}
	return b
}

// pick returns the root with the nearest admissible offset. Offsets slightly
// above zero are clamped.
func pick(roots []r3.Vector, offset func(r3.Vector) (float64, bool)) (r3.Vector, float64, bool) {
	var (
		best  r3.Vector
		bestD = -geometry.Infinity
	)
	for _, x := range roots {
		d, ok := offset(x)
		if !ok || d > geometry.OffsetEpsilon || math.IsNaN(d) {
			continue
		}
		if d > bestD {
			best, bestD = x, d
		}
	}
	if bestD == -geometry.Infinity {
		return r3.Vector{}, 0, false
	}
	return best, math.Min(bestD, 0), true
}

// candidates keeps the nearest event offered so far.
type candidates struct {
	best Event
	log  *slog.Logger
}

func (c *candidates) offer(ev Event) {
	if ev == nil {
		return
	}
	if c.best == nil {
		c.best = ev
		return
	}
	d := ev.Offset() - c.best.Offset()
	switch {
	case d > geometry.OffsetEpsilon:
		c.best = ev
	case d < -geometry.OffsetEpsilon:
	default:
		c.log.Warn("simultaneous events", "kept", describe(c.best), "other", describe(ev))
		if priority[ev.Kind()] < priority[c.best.Kind()] {
			c.best = ev
		}
	}
}

// constOffsetEvent is the next multiple of the configured step, if any.
func (b *base) constOffsetEvent() Event {
	step := b.config.constOffset()
	if step <= 0 {
		return nil
	}
	d := step - math.Mod(b.elapsed(), step)
	if d < geometry.OffsetEpsilon {
		d = step
	}
	return &ConstOffsetEvent{eventBase: newBase(-d, r3.Vector{})}
}

// nextEvent collects the edge, split and triangle candidates shared by all
// variants. Rings of two edges are left to extra when the strategy handles
// them itself.
func nextEvent(m motion, p *circular.Polygon, offset float64, extra func(*candidates)) Event {
	b := m.core()
	b.offset = offset
	if p.NumEdges() == 0 {
		return nil
	}
	_, ownDigons := m.(TranslationalHandler)
	c := &candidates{log: b.log}

	rings := p.Rings()
	ringOf := make(map[circular.EdgeID]int, p.NumEdges())
	for i, ring := range rings {
		for _, e := range ring {
			ringOf[e] = i
		}
	}

	for _, ring := range rings {
		switch {
		case len(ring) == 2 && ownDigons:
		case len(ring) <= 2 || isTriangle(p, ring[0]):
			if ev := collapseCandidate(m, p, ring); ev != nil {
				c.offer(ev)
			}
		default:
			for _, e := range ring {
				if ev := edgeCandidate(m, p, e); ev != nil {
					c.offer(ev)
				}
			}
		}
	}

	for _, v := range p.Vertices() {
		if !v.Valid || v.Data.Arc == circular.NoRef || !m.IsReflex(p, v.ID) {
			continue
		}
		own, ok := ringOf[v.Out]
		if !ok {
			continue
		}
		for _, e := range p.Edges() {
			if r, ok := ringOf[e.ID]; !ok || r != own || e.ID == v.In || e.ID == v.Out {
				continue
			}
			if ev := splitCandidate(m, p, v.ID, e.ID); ev != nil {
				c.offer(ev)
			}
		}
	}

	if ev := b.constOffsetEvent(); ev != nil {
		c.offer(ev)
	}
	if extra != nil {
		extra(c)
	}
	if c.best == nil {
		b.log.Warn("no further events", "edges", p.NumEdges())
	}
	return c.best
}

func edgeCandidate(m motion, p *circular.Polygon, e circular.EdgeID) Event {
	b := m.core()
	edge := p.Edge(e)
	src, dst := p.Vertex(edge.Src), p.Vertex(edge.Dst)
	if !src.Valid || !dst.Valid {
		return nil
	}
	prev, ok1 := m.wavefront(p, src.In)
	next, ok2 := m.wavefront(p, dst.Out)
	if !ok1 || !ok2 || prev.ApproxEqual(next) {
		return nil
	}
	x, d, ok := pick(vanishesAt(b, p, e), func(x r3.Vector) (float64, bool) {
		if !ahead(b, p, src.ID, x) || !ahead(b, p, dst.ID, x) {
			return 0, false
		}
		return m.edgeOffset(p, e, x)
	})
	if !ok {
		return nil
	}
	return &EdgeEvent{eventBase: newBase(d, x), Edge: e}
}

func splitCandidate(m motion, p *circular.Polygon, v circular.VertexID, e circular.EdgeID) Event {
	b := m.core()
	x, d, ok := pick(crashAt(m, p, v, e), func(x r3.Vector) (float64, bool) {
		if !ahead(b, p, v, x) {
			return 0, false
		}
		return m.vertexOffset(p, v, x)
	})
	if !ok {
		return nil
	}
	if d > -geometry.OffsetEpsilon && atOwnNode(b, p, v, x) {
		return nil
	}
	return &SplitEvent{eventBase: newBase(d, x), Vertex: v, Edge: e}
}

// collapseCandidate predicts where a ring of at most three edges vanishes.
// When no edge yields a usable point the ring collapses in place at its
// centroid.
func collapseCandidate(m motion, p *circular.Polygon, ring []circular.EdgeID) Event {
	b := m.core()
	ids := append([]circular.EdgeID(nil), ring...)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, e := range ids {
		if !p.Vertex(p.Edge(e).Src).Valid {
			return nil
		}
	}
	for _, e := range ids {
		edge := p.Edge(e)
		x, d, ok := pick(vanishesAt(b, p, e), func(x r3.Vector) (float64, bool) {
			if !ahead(b, p, edge.Src, x) || !ahead(b, p, edge.Dst, x) {
				return 0, false
			}
			return m.edgeOffset(p, e, x)
		})
		if ok {
			return &TriangleEvent{eventBase: newBase(d, x), Edge: e}
		}
	}
	var sum r3.Vector
	for _, e := range ids {
		sum = sum.Add(b.unit(p.Vertex(p.Edge(e).Src).Point))
	}
	b.log.Warn("ring collapses without a vanishing point", "edges", ids)
	centroid, ok := geometry.Normalize(sum)
	if !ok {
		centroid = b.unit(p.Vertex(p.Edge(ids[0]).Src).Point)
	}
	return &TriangleEvent{eventBase: newBase(0, b.sphere.PointAt(centroid)), Edge: ids[0]}
}

// cloneForShift copies p for the next offset and clears the highlights of
// the previous event.
func cloneForShift(p *circular.Polygon) *circular.Polygon {
	next := p.Clone()
	for _, v := range next.Vertices() {
		v.Data.Highlight = false
	}
	return next
}
