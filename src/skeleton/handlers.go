package skeleton

import (
	"github.com/golang/geo/r3"

	"straightskel/src/circular"
)

// finish records the outcome of a handled event.
func finish(b *base, p *circular.Polygon, ev Event, node NodeID) {
	eb := ev.base()
	eb.at = b.offset
	eb.node = node
	eb.result = p
	b.graph.AddEvent(ev)
	b.log.Debug("handled event", "event", describe(ev), "vertices", p.NumVertices(), "edges", p.NumEdges())
}

// copyEdge makes to a piece of from: same origin and motion data, and the
// same plane when from carries an explicit one.
func copyEdge(p *circular.Polygon, from, to circular.EdgeID) {
	src := p.Edge(from)
	p.Edge(to).Data = src.Data
	if src.HasFixedPlane() {
		pl, _ := p.Plane(from)
		p.SetPlane(to, pl)
	}
}

// handleEdgeEvent merges the endpoints of the vanished edge into one vertex
// at the event point.
func handleEdgeEvent(m motion, p *circular.Polygon, ev *EdgeEvent) error {
	b := m.core()
	e := p.Edge(ev.Edge)
	if e == nil {
		return staleEvent(ev, "edge", int(ev.Edge))
	}
	if isTriangle(p, e.ID) || isDigon(p, e.ID) {
		node, err := collapseRing(m, p, e.ID, ev.Point())
		if err != nil {
			return err
		}
		finish(b, p, ev, node)
		return nil
	}

	a, c := e.Src, e.Dst
	prev, next := p.Vertex(a).In, p.Vertex(c).Out
	node, err := appendEventNode(m, p, ev.Point(), a, c)
	if err != nil {
		return err
	}
	merged := p.AddVertex(b.sphere.Project(ev.Point()))
	p.RemoveEdge(e.ID)
	p.SetDst(prev, merged)
	p.SetSrc(next, merged)
	p.RemoveVertex(a)
	p.RemoveVertex(c)
	if err := startVertex(m, p, merged, node); err != nil {
		return err
	}
	finish(b, p, ev, node)
	return nil
}

// handleTriangleEvent removes the whole ring; the arcs of its vertices meet
// at the event point.
func handleTriangleEvent(m motion, p *circular.Polygon, ev *TriangleEvent) error {
	if p.Edge(ev.Edge) == nil {
		return staleEvent(ev, "edge", int(ev.Edge))
	}
	node, err := collapseRing(m, p, ev.Edge, ev.Point())
	if err != nil {
		return err
	}
	finish(m.core(), p, ev, node)
	return nil
}

// collapseRing removes the ring of e. Two head-on arcs are joined directly;
// otherwise all arcs end at a node at point.
func collapseRing(m motion, p *circular.Polygon, e circular.EdgeID, point r3.Vector) (NodeID, error) {
	b := m.core()
	var ring []circular.VertexID
	for cur := e; ; {
		edge := p.Edge(cur)
		ring = append(ring, edge.Src)
		cur = p.Next(cur)
		if cur == e || cur == circular.NoEdge || len(ring) > p.NumVertices() {
			break
		}
	}

	var open []circular.VertexID
	for _, id := range ring {
		if p.Vertex(id).Data.Arc != circular.NoRef {
			open = append(open, id)
		}
	}
	node := NoNode
	switch len(open) {
	case 0:
	case 2:
		v1, v2 := p.Vertex(open[0]), p.Vertex(open[1])
		if err := b.graph.SpliceArcs(ArcID(v1.Data.Arc), ArcID(v2.Data.Arc)); err != nil {
			return NoNode, err
		}
		v1.Data.Arc, v2.Data.Arc = circular.NoRef, circular.NoRef
	default:
		var err error
		if node, err = appendEventNode(m, p, point, open...); err != nil {
			return node, err
		}
	}
	for _, id := range ring {
		p.RemoveVertex(id)
	}
	return node, nil
}

// handleSplitEvent splits the ring where the reflex vertex hits the target
// edge. When the target edge is adjacent to one of the vertex's edges the
// two meet in a corner and only one new vertex is created; when it is
// adjacent to both the ring vanishes.
func handleSplitEvent(m motion, p *circular.Polygon, ev *SplitEvent) error {
	b := m.core()
	v, e := p.Vertex(ev.Vertex), p.Edge(ev.Edge)
	if v == nil {
		return staleEvent(ev, "vertex", int(ev.Vertex))
	}
	if e == nil {
		return staleEvent(ev, "edge", int(ev.Edge))
	}
	vin, vout := v.In, v.Out
	u, w := p.Edge(vin).Src, p.Edge(vout).Dst
	x, y := e.Src, e.Dst
	pt := b.sphere.Project(ev.Point())

	var node NodeID
	var err error
	switch leftDeg, rightDeg := x == w, y == u; {
	case leftDeg && rightDeg:
		node, err = collapseRing(m, p, vin, pt)
		if err != nil {
			return err
		}

	case leftDeg:
		if node, err = appendEventNode(m, p, pt, v.ID, w); err != nil {
			return err
		}
		v1 := p.AddVertex(pt)
		p.SetDst(vin, v1)
		p.SetSrc(e.ID, v1)
		p.RemoveVertex(v.ID)
		p.RemoveVertex(w)
		if err := startVertex(m, p, v1, node); err != nil {
			return err
		}

	case rightDeg:
		if node, err = appendEventNode(m, p, pt, v.ID, u); err != nil {
			return err
		}
		v2 := p.AddVertex(pt)
		p.SetDst(e.ID, v2)
		p.SetSrc(vout, v2)
		p.RemoveVertex(v.ID)
		p.RemoveVertex(u)
		if err := startVertex(m, p, v2, node); err != nil {
			return err
		}

	default:
		if node, err = appendEventNode(m, p, pt, v.ID); err != nil {
			return err
		}
		v1, v2 := p.AddVertex(pt), p.AddVertex(pt)
		p.SetDst(vin, v1)
		p.SetSrc(vout, v2)
		e2 := p.AddEdge(v1, y)
		copyEdge(p, e.ID, e2)
		p.SetDst(e.ID, v2)
		p.RemoveVertex(v.ID)
		if err := startVertex(m, p, v1, node); err != nil {
			return err
		}
		if err := startVertex(m, p, v2, node); err != nil {
			return err
		}
	}
	finish(b, p, ev, node)
	return nil
}

func handleConstOffsetEvent(m motion, p *circular.Polygon, ev *ConstOffsetEvent) error {
	finish(m.core(), p, ev, NoNode)
	return nil
}
