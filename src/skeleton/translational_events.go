package skeleton

import (
	"straightskel/src/circular"
)

// exchangeOut swaps the outgoing edges of two vertices, re-splicing their
// rings.
func exchangeOut(p *circular.Polygon, v1, v2 circular.VertexID) {
	o1, o2 := p.Vertex(v1).Out, p.Vertex(v2).Out
	p.SetSrc(o1, v2)
	p.SetSrc(o2, v1)
}

// hide parks v behind the horizon. Its open arc, if any, ends at a new
// node.
func (s *translational) hide(p *circular.Polygon, v *circular.Vertex, ev Event) (NodeID, error) {
	node := NoNode
	if v.Data.Arc != circular.NoRef {
		node = s.graph.CreateNode(ev.Point(), s.offset)
		if err := terminateArc(&s.base, p, v.ID, node); err != nil {
			return node, err
		}
		v.Data.Node = circular.Ref(node)
	}
	v.Valid = false
	p.SetPoint(v.ID, ev.Point())
	return node, nil
}

// reveal brings v back at the event point with a fresh node and arc.
func (s *translational) reveal(p *circular.Polygon, v *circular.Vertex, ev Event) (NodeID, error) {
	node := s.graph.CreateNode(ev.Point(), s.offset)
	v.Valid = true
	p.SetPoint(v.ID, ev.Point())
	if err := startVertex(s, p, v.ID, node); err != nil {
		s.graph.RemoveNode(node)
		return NoNode, err
	}
	return node, nil
}

func (s *translational) HandleLeaveEvent(p *circular.Polygon, ev *LeaveEvent) error {
	v := p.Vertex(ev.Vertex)
	if v == nil {
		return staleEvent(ev, "vertex", int(ev.Vertex))
	}
	node, err := s.hide(p, v, ev)
	if err != nil {
		return err
	}
	finish(&s.base, p, ev, node)
	return nil
}

func (s *translational) HandleReturnEvent(p *circular.Polygon, ev *ReturnEvent) error {
	v := p.Vertex(ev.Vertex)
	if v == nil {
		return staleEvent(ev, "vertex", int(ev.Vertex))
	}
	node, err := s.reveal(p, v, ev)
	if err != nil {
		return err
	}
	finish(&s.base, p, ev, node)
	return nil
}

// HandleDblLeaveEvent hides two coincident vertices that share their planes
// and exchanges their outgoing edges. Each arc ends at a node of its own.
func (s *translational) HandleDblLeaveEvent(p *circular.Polygon, ev *DblLeaveEvent) error {
	v1, v2 := p.Vertex(ev.Vertex1), p.Vertex(ev.Vertex2)
	if v1 == nil || v2 == nil {
		return staleEvent(ev, "vertex pair", int(ev.Vertex1))
	}
	node, err := s.hide(p, v1, ev)
	if err != nil {
		return err
	}
	if _, err := s.hide(p, v2, ev); err != nil {
		return err
	}
	exchangeOut(p, v1.ID, v2.ID)
	finish(&s.base, p, ev, node)
	return nil
}

func (s *translational) HandleDblReturnEvent(p *circular.Polygon, ev *DblReturnEvent) error {
	v1, v2 := p.Vertex(ev.Vertex1), p.Vertex(ev.Vertex2)
	if v1 == nil || v2 == nil {
		return staleEvent(ev, "vertex pair", int(ev.Vertex1))
	}
	exchangeOut(p, v1.ID, v2.ID)
	node, err := s.reveal(p, v1, ev)
	if err != nil {
		return err
	}
	if _, err := s.reveal(p, v2, ev); err != nil {
		return err
	}
	finish(&s.base, p, ev, node)
	return nil
}

// HandleVertexEvent joins two vertices that run into each other on the same
// line. Their arcs become one and, after the exchange of outgoing edges,
// each vertex sits between two copies of one plane.
func (s *translational) HandleVertexEvent(p *circular.Polygon, ev *VertexEvent) error {
	v1, v2 := p.Vertex(ev.Vertex1), p.Vertex(ev.Vertex2)
	if v1 == nil || v2 == nil {
		return staleEvent(ev, "vertex pair", int(ev.Vertex1))
	}
	if err := s.splice(v1, v2); err != nil {
		return err
	}
	exchangeOut(p, v1.ID, v2.ID)
	for _, v := range []*circular.Vertex{v1, v2} {
		v.Valid = false
		p.SetPoint(v.ID, ev.Point())
	}
	finish(&s.base, p, ev, NoNode)
	return nil
}

func (s *translational) splice(v1, v2 *circular.Vertex) error {
	if v1.Data.Arc == circular.NoRef || v2.Data.Arc == circular.NoRef {
		return nil
	}
	if err := s.graph.SpliceArcs(ArcID(v1.Data.Arc), ArcID(v2.Data.Arc)); err != nil {
		return err
	}
	v1.Data.Arc, v2.Data.Arc = circular.NoRef, circular.NoRef
	return nil
}

// HandleEdgeMergeEvent removes a vertex between two edges on the same plane
// and lets the incoming edge take over the outgoing one.
func (s *translational) HandleEdgeMergeEvent(p *circular.Polygon, ev *EdgeMergeEvent) error {
	v := p.Vertex(ev.Vertex)
	if v == nil {
		return staleEvent(ev, "vertex", int(ev.Vertex))
	}
	node := NoNode
	if v.Data.Arc != circular.NoRef {
		node = s.graph.CreateNode(v.Point, s.offset)
		if err := terminateArc(&s.base, p, v.ID, node); err != nil {
			return err
		}
	}
	in, out := v.In, v.Out
	if in != out {
		dst := p.Edge(out).Dst
		p.RemoveEdge(out)
		p.SetDst(in, dst)
	}
	p.RemoveVertex(v.ID)
	finish(&s.base, p, ev, node)
	return nil
}

// HandleDblEdgeEvent removes a two edge ring whose vertices met on the
// horizon.
func (s *translational) HandleDblEdgeEvent(p *circular.Polygon, ev *DblEdgeEvent) error {
	e1, e2 := p.Edge(ev.Edge1), p.Edge(ev.Edge2)
	if e1 == nil || e2 == nil {
		return staleEvent(ev, "edge pair", int(ev.Edge1))
	}
	v1, v2 := p.Vertex(e1.Src), p.Vertex(e2.Src)
	if err := s.splice(v1, v2); err != nil {
		return err
	}
	p.RemoveVertex(v1.ID)
	p.RemoveVertex(v2.ID)
	finish(&s.base, p, ev, NoNode)
	return nil
}

// HandleInversionEvent flips every offset plane once it has passed the
// sphere center by the radius.
func (s *translational) HandleInversionEvent(p *circular.Polygon, ev *InversionEvent) error {
	for _, e := range p.Edges() {
		pl, _ := p.Plane(e.ID)
		p.SetPlane(e.ID, pl.Opposite())
	}
	for _, v := range p.Vertices() {
		if v.Data.Reflex && !v.Data.Inverted && v.Data.Arc != circular.NoRef {
			if arc, ok := s.graph.Arc(ArcID(v.Data.Arc)); ok {
				s.graph.SetArcPlane(arc.ID, arc.Plane.Opposite(), arc.Dir.Mul(-1))
			}
		}
		v.Data.Inverted = !v.Data.Inverted
	}
	s.distance = -s.distance
	finish(&s.base, p, ev, NoNode)
	return nil
}
