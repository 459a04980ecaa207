package skeleton

import (
	"fmt"
	"strings"
	"sync"

	"github.com/golang/geo/r3"

	"straightskel/src/circular"
	"straightskel/src/geometry"
)

// NodeID and ArcID are stable handles into the graph arenas.
type (
	NodeID int
	ArcID  int
)

const (
	NoNode NodeID = -1
	NoArc  ArcID  = -1
)

// Node is a skeleton vertex. Offset is the cumulative offset it was created
// at.
type Node struct {
	ID     NodeID
	Point  r3.Vector
	Offset float64
	Arcs   []ArcID
}

func (n Node) Degree() int { return len(n.Arcs) }

// Arc is a skeleton edge traced by a wavefront vertex. While the vertex is
// alive the arc is an open ray from Src along Dir; Dst is NoNode. Left and
// Right are the input edges whose faces the arc separates.
type Arc struct {
	ID    ArcID
	Src   NodeID
	Dst   NodeID
	Dir   r3.Vector
	Left  circular.EdgeID
	Right circular.EdgeID
	// Plane carries the arc; it passes through the sphere center.
	Plane geometry.Plane
}

func (a Arc) IsOpen() bool { return a.Dst == NoNode }

// Graph accumulates the skeleton. Public accessors return copies and take
// the read lock so a viewer may poll while a construction runs.
type Graph struct {
	mu sync.RWMutex

	input   *circular.Polygon
	origins []geometry.Plane

	nodes  []*Node
	arcs   []*Arc
	nn, na int
	events []Event
}

// NewGraph snapshots input; its edge planes are the origin planes of every
// wavefront edge.
func NewGraph(input *circular.Polygon) *Graph {
	g := &Graph{input: input.Clone()}
	for _, e := range g.input.Edges() {
		for int(e.ID) >= len(g.origins) {
			g.origins = append(g.origins, geometry.Plane{})
		}
		if pl, ok := g.input.Plane(e.ID); ok {
			g.origins[e.ID] = pl
		}
	}
	return g
}

// Input returns the input polygon snapshot. It must not be modified.
func (g *Graph) Input() *circular.Polygon { return g.input }

// OriginPlane is the supporting plane of the input edge id.
func (g *Graph) OriginPlane(id circular.EdgeID) (geometry.Plane, bool) {
	if id < 0 || int(id) >= len(g.origins) {
		return geometry.Plane{}, false
	}
	pl := g.origins[id]
	return pl, !geometry.IsZero(pl.Normal)
}

func (g *Graph) CreateNode(point r3.Vector, offset float64) NodeID {
	g.mu.Lock()
	defer g.mu.Unlock()
	id := NodeID(len(g.nodes))
	g.nodes = append(g.nodes, &Node{ID: id, Point: point, Offset: offset})
	g.nn++
	return id
}

// CreateArc starts an open arc at src.
func (g *Graph) CreateArc(src NodeID, dir r3.Vector, plane geometry.Plane, left, right circular.EdgeID) ArcID {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := g.mustNode(src)
	id := ArcID(len(g.arcs))
	g.arcs = append(g.arcs, &Arc{
		ID:    id,
		Src:   src,
		Dst:   NoNode,
		Dir:   dir,
		Left:  left,
		Right: right,
		Plane: plane,
	})
	n.Arcs = append(n.Arcs, id)
	g.na++
	return id
}

// TerminateArc closes the open arc a at node n.
func (g *Graph) TerminateArc(a ArcID, n NodeID) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	arc := g.arc(a)
	if arc == nil {
		return fmt.Errorf("%w: no arc %d", ErrInconsistent, a)
	}
	if !arc.IsOpen() {
		return fmt.Errorf("%w: arc %d already ends at node %d", ErrInconsistent, a, arc.Dst)
	}
	node := g.node(n)
	if node == nil {
		return fmt.Errorf("%w: no node %d", ErrInconsistent, n)
	}
	arc.Dst = n
	node.Arcs = append(node.Arcs, a)
	return nil
}

// SetArcPlane replaces the supporting plane and direction of an arc.
func (g *Graph) SetArcPlane(a ArcID, plane geometry.Plane, dir r3.Vector) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if arc := g.arc(a); arc != nil {
		arc.Plane = plane
		arc.Dir = dir
	}
}

// SpliceArcs joins two open arcs meeting head-on: a ends where b starts and
// b is dropped.
func (g *Graph) SpliceArcs(a, b ArcID) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	first, second := g.arc(a), g.arc(b)
	if first == nil || second == nil || a == b {
		return fmt.Errorf("%w: cannot splice arcs %d and %d", ErrInconsistent, a, b)
	}
	if !first.IsOpen() || !second.IsOpen() {
		return fmt.Errorf("%w: splicing closed arcs %d and %d", ErrInconsistent, a, b)
	}
	first.Dst = second.Src
	node := g.mustNode(second.Src)
	for i, id := range node.Arcs {
		if id == b {
			node.Arcs[i] = a
		}
	}
	g.arcs[b] = nil
	g.na--
	return nil
}

// RemoveArc detaches a from its nodes and drops it.
func (g *Graph) RemoveArc(a ArcID) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.removeArc(a)
}

func (g *Graph) removeArc(a ArcID) {
	arc := g.arc(a)
	if arc == nil {
		return
	}
	for _, n := range []NodeID{arc.Src, arc.Dst} {
		if node := g.node(n); node != nil {
			node.Arcs = without(node.Arcs, a)
		}
	}
	g.arcs[a] = nil
	g.na--
}

// RemoveNode drops n together with its arcs.
func (g *Graph) RemoveNode(n NodeID) {
	g.mu.Lock()
	defer g.mu.Unlock()
	node := g.node(n)
	if node == nil {
		return
	}
	for _, a := range append([]ArcID(nil), node.Arcs...) {
		g.removeArc(a)
	}
	g.nodes[n] = nil
	g.nn--
}

func without(ids []ArcID, a ArcID) []ArcID {
	out := ids[:0]
	for _, id := range ids {
		if id != a {
			out = append(out, id)
		}
	}
	return out
}

// AddEvent appends ev to the log.
func (g *Graph) AddEvent(ev Event) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.events = append(g.events, ev)
}

func (g *Graph) node(id NodeID) *Node {
	if id < 0 || int(id) >= len(g.nodes) {
		return nil
	}
	return g.nodes[id]
}

func (g *Graph) arc(id ArcID) *Arc {
	if id < 0 || int(id) >= len(g.arcs) {
		return nil
	}
	return g.arcs[id]
}

func (g *Graph) mustNode(id NodeID) *Node {
	n := g.node(id)
	if n == nil {
		panic(fmt.Sprintf("skeleton: no node %d", id))
	}
	return n
}

func (g *Graph) Node(id NodeID) (Node, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	n := g.node(id)
	if n == nil {
		return Node{}, false
	}
	c := *n
	c.Arcs = append([]ArcID(nil), n.Arcs...)
	return c, true
}

func (g *Graph) Arc(id ArcID) (Arc, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	a := g.arc(id)
	if a == nil {
		return Arc{}, false
	}
	return *a, true
}

// Nodes returns copies of the live nodes in handle order.
func (g *Graph) Nodes() []Node {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]Node, 0, g.nn)
	for _, n := range g.nodes {
		if n == nil {
			continue
		}
		c := *n
		c.Arcs = append([]ArcID(nil), n.Arcs...)
		out = append(out, c)
	}
	return out
}

// Arcs returns copies of the live arcs in handle order.
func (g *Graph) Arcs() []Arc {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]Arc, 0, g.na)
	for _, a := range g.arcs {
		if a != nil {
			out = append(out, *a)
		}
	}
	return out
}

// Events returns the event log in the order the events were handled.
func (g *Graph) Events() []Event {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return append([]Event(nil), g.events...)
}

func (g *Graph) NumNodes() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.nn
}

func (g *Graph) NumArcs() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.na
}

// Check audits the graph: arc endpoints resolve, nodes list exactly the arcs
// touching them and every node has degree one or three.
func (g *Graph) Check() error {
	g.mu.RLock()
	defer g.mu.RUnlock()
	touching := make(map[NodeID]int, g.nn)
	for i, a := range g.arcs {
		if a == nil {
			continue
		}
		if a.ID != ArcID(i) {
			return fmt.Errorf("%w: arc %d stored in slot %d", ErrInconsistent, a.ID, i)
		}
		src := g.node(a.Src)
		if src == nil || !contains(src.Arcs, a.ID) {
			return fmt.Errorf("%w: arc %d is not listed at its source %d", ErrInconsistent, a.ID, a.Src)
		}
		touching[a.Src]++
		if a.IsOpen() {
			continue
		}
		dst := g.node(a.Dst)
		if dst == nil || !contains(dst.Arcs, a.ID) {
			return fmt.Errorf("%w: arc %d is not listed at its destination %d", ErrInconsistent, a.ID, a.Dst)
		}
		touching[a.Dst]++
	}
	for _, n := range g.nodes {
		if n == nil {
			continue
		}
		if touching[n.ID] != len(n.Arcs) {
			return fmt.Errorf("%w: node %d lists %d arcs, %d touch it",
				ErrInconsistent, n.ID, len(n.Arcs), touching[n.ID])
		}
		if d := len(n.Arcs); d != 1 && d != 3 {
			return fmt.Errorf("%w: node %d has degree %d", ErrInconsistent, n.ID, d)
		}
	}
	return nil
}

func (g *Graph) IsConsistent() bool {
	return g.Check() == nil
}

func contains(ids []ArcID, a ArcID) bool {
	for _, id := range ids {
		if id == a {
			return true
		}
	}
	return false
}

func (g *Graph) String() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	var sb strings.Builder
	fmt.Fprintf(&sb, "skeleton: %d nodes, %d arcs, %d events\n", g.nn, g.na, len(g.events))
	for _, n := range g.nodes {
		if n == nil {
			continue
		}
		fmt.Fprintf(&sb, " n%d (%.6f, %.6f, %.6f) offset=%.6g arcs=%v\n",
			n.ID, n.Point.X, n.Point.Y, n.Point.Z, n.Offset, n.Arcs)
	}
	for _, a := range g.arcs {
		if a == nil {
			continue
		}
		if a.IsOpen() {
			fmt.Fprintf(&sb, " a%d n%d -> open, faces e%d|e%d\n", a.ID, a.Src, a.Left, a.Right)
			continue
		}
		fmt.Fprintf(&sb, " a%d n%d -> n%d, faces e%d|e%d\n", a.ID, a.Src, a.Dst, a.Left, a.Right)
	}
	for _, ev := range g.events {
		fmt.Fprintf(&sb, " %s\n", describe(ev))
	}
	return sb.String()
}
