package circular

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/golang/geo/r3"

	"straightskel/src/geometry"
)

var (
	ErrInconsistent = errors.New("circular: inconsistent polygon")
	ErrTooFewPoints = errors.New("circular: a ring needs at least three vertices")
)

// Polygon is a set of closed rings of great-circle (or small-circle) edges on
// a sphere. Vertices and edges live in arenas addressed by stable handles;
// removed slots stay nil and handles are never reused.
type Polygon struct {
	Sphere geometry.Sphere

	mu       sync.RWMutex
	vertices []*Vertex
	edges    []*Edge
	nv, ne   int
}

func New(sphere geometry.Sphere) *Polygon {
	return &Polygon{Sphere: sphere}
}

// Lock, Unlock, RLock and RUnlock guard the polygon against concurrent
// readers while a strategy scans or mutates it. The polygon methods do not
// take the lock themselves.
func (p *Polygon) Lock()    { p.mu.Lock() }
func (p *Polygon) Unlock()  { p.mu.Unlock() }
func (p *Polygon) RLock()   { p.mu.RLock() }
func (p *Polygon) RUnlock() { p.mu.RUnlock() }

func (p *Polygon) AddVertex(point r3.Vector) VertexID {
	id := VertexID(len(p.vertices))
	p.vertices = append(p.vertices, &Vertex{
		ID:    id,
		Point: point,
		Valid: true,
		In:    NoEdge,
		Out:   NoEdge,
		Data:  defaultVertexData(),
		poly:  p,
	})
	p.nv++
	return id
}

// RemoveVertex removes v together with its incident edges.
func (p *Polygon) RemoveVertex(id VertexID) {
	v := p.Vertex(id)
	if v == nil {
		return
	}
	if v.In != NoEdge {
		p.RemoveEdge(v.In)
	}
	if v.Out != NoEdge {
		p.RemoveEdge(v.Out)
	}
	v.poly = nil
	p.vertices[id] = nil
	p.nv--
}

// AddEdge creates the edge src->dst and links it as src's outgoing and dst's
// incoming edge. The edge descends from itself until told otherwise.
func (p *Polygon) AddEdge(src, dst VertexID) EdgeID {
	s, d := p.mustVertex(src), p.mustVertex(dst)
	id := EdgeID(len(p.edges))
	p.edges = append(p.edges, &Edge{
		ID:   id,
		Src:  src,
		Dst:  dst,
		Data: EdgeData{Origin: id},
		poly: p,
	})
	s.Out = id
	d.In = id
	p.ne++
	return id
}

// RemoveEdge unlinks e from its endpoints and drops it. The endpoints stay.
func (p *Polygon) RemoveEdge(id EdgeID) {
	e := p.Edge(id)
	if e == nil {
		return
	}
	if s := p.Vertex(e.Src); s != nil && s.Out == id {
		s.Out = NoEdge
	}
	if d := p.Vertex(e.Dst); d != nil && d.In == id {
		d.In = NoEdge
	}
	e.poly = nil
	p.edges[id] = nil
	p.ne--
}

// SetSrc re-anchors e at v, making e the outgoing edge of v.
func (p *Polygon) SetSrc(id EdgeID, v VertexID) {
	e := p.mustEdge(id)
	if old := p.Vertex(e.Src); old != nil && old.Out == id {
		old.Out = NoEdge
	}
	e.Src = v
	p.mustVertex(v).Out = id
}

// SetDst re-anchors e at v, making e the incoming edge of v.
func (p *Polygon) SetDst(id EdgeID, v VertexID) {
	e := p.mustEdge(id)
	if old := p.Vertex(e.Dst); old != nil && old.In == id {
		old.In = NoEdge
	}
	e.Dst = v
	p.mustVertex(v).In = id
}

// SetPoint moves v; edges without a fixed plane follow it.
func (p *Polygon) SetPoint(id VertexID, point r3.Vector) {
	p.mustVertex(id).Point = point
}

// SetPlane fixes the supporting plane of e; it no longer follows the
// endpoints.
func (p *Polygon) SetPlane(id EdgeID, plane geometry.Plane) {
	e := p.mustEdge(id)
	e.plane = plane
	e.fixed = true
}

// Plane returns the supporting plane of e. Unless fixed with SetPlane it is
// the plane through the sphere center and both endpoints, oriented so that a
// counter-clockwise ring has its interior on the positive side. Plane never
// writes to the polygon, so it is safe under RLock.
func (p *Polygon) Plane(id EdgeID) (geometry.Plane, bool) {
	e := p.Edge(id)
	if e == nil {
		return geometry.Plane{}, false
	}
	if e.fixed {
		return e.plane, true
	}
	s, d := p.Vertex(e.Src), p.Vertex(e.Dst)
	if s == nil || d == nil {
		return geometry.Plane{}, false
	}
	return geometry.PlaneThrough(p.Sphere.Center, s.Point, d.Point)
}

// Clear removes every vertex and edge. Handles are not reused afterwards.
func (p *Polygon) Clear() {
	for _, v := range p.vertices {
		if v != nil {
			v.poly = nil
		}
	}
	for _, e := range p.edges {
		if e != nil {
			e.poly = nil
		}
	}
	for i := range p.vertices {
		p.vertices[i] = nil
	}
	for i := range p.edges {
		p.edges[i] = nil
	}
	p.nv, p.ne = 0, 0
}

// Vertex returns the live vertex for id, or nil.
func (p *Polygon) Vertex(id VertexID) *Vertex {
	if id < 0 || int(id) >= len(p.vertices) {
		return nil
	}
	return p.vertices[id]
}

// Edge returns the live edge for id, or nil.
func (p *Polygon) Edge(id EdgeID) *Edge {
	if id < 0 || int(id) >= len(p.edges) {
		return nil
	}
	return p.edges[id]
}

func (p *Polygon) mustVertex(id VertexID) *Vertex {
	v := p.Vertex(id)
	if v == nil {
		panic(fmt.Sprintf("circular: no vertex %d", id))
	}
	return v
}

func (p *Polygon) mustEdge(id EdgeID) *Edge {
	e := p.Edge(id)
	if e == nil {
		panic(fmt.Sprintf("circular: no edge %d", id))
	}
	return e
}

// Vertices returns the live vertices in handle order.
func (p *Polygon) Vertices() []*Vertex {
	out := make([]*Vertex, 0, p.nv)
	for _, v := range p.vertices {
		if v != nil {
			out = append(out, v)
		}
	}
	return out
}

// Edges returns the live edges in handle order.
func (p *Polygon) Edges() []*Edge {
	out := make([]*Edge, 0, p.ne)
	for _, e := range p.edges {
		if e != nil {
			out = append(out, e)
		}
	}
	return out
}

func (p *Polygon) NumVertices() int { return p.nv }
func (p *Polygon) NumEdges() int    { return p.ne }

// Next is the edge following e around its ring.
func (p *Polygon) Next(id EdgeID) EdgeID {
	e := p.Edge(id)
	if e == nil {
		return NoEdge
	}
	if d := p.Vertex(e.Dst); d != nil {
		return d.Out
	}
	return NoEdge
}

// Prev is the edge preceding e around its ring.
func (p *Polygon) Prev(id EdgeID) EdgeID {
	e := p.Edge(id)
	if e == nil {
		return NoEdge
	}
	if s := p.Vertex(e.Src); s != nil {
		return s.In
	}
	return NoEdge
}

func (p *Polygon) NextVertex(id VertexID) VertexID {
	v := p.Vertex(id)
	if v == nil {
		return NoVertex
	}
	if e := p.Edge(v.Out); e != nil {
		return e.Dst
	}
	return NoVertex
}

func (p *Polygon) PrevVertex(id VertexID) VertexID {
	v := p.Vertex(id)
	if v == nil {
		return NoVertex
	}
	if e := p.Edge(v.In); e != nil {
		return e.Src
	}
	return NoVertex
}

// Rings lists the edges of every ring in traversal order, starting each ring
// at its lowest handle. An open chain is reported up to its loose end.
func (p *Polygon) Rings() [][]EdgeID {
	seen := make(map[EdgeID]bool, p.ne)
	var rings [][]EdgeID
	for _, e := range p.edges {
		if e == nil || seen[e.ID] {
			continue
		}
		var ring []EdgeID
		for cur := e.ID; cur != NoEdge && !seen[cur]; cur = p.Next(cur) {
			seen[cur] = true
			ring = append(ring, cur)
		}
		rings = append(rings, ring)
	}
	return rings
}

// RingLength counts the edges reachable from e by Next before returning to
// e. It stops at limit to guard against open chains.
func (p *Polygon) RingLength(id EdgeID, limit int) int {
	n := 0
	for cur := id; cur != NoEdge && n < limit; {
		n++
		cur = p.Next(cur)
		if cur == id {
			return n
		}
	}
	return n
}

// Clone deep copies the polygon. Handles are preserved so that references
// taken on the original stay meaningful on the copy.
func (p *Polygon) Clone() *Polygon {
	c := &Polygon{
		Sphere:   p.Sphere,
		vertices: make([]*Vertex, len(p.vertices)),
		edges:    make([]*Edge, len(p.edges)),
		nv:       p.nv,
		ne:       p.ne,
	}
	for i, v := range p.vertices {
		if v == nil {
			continue
		}
		cv := *v
		cv.poly = c
		c.vertices[i] = &cv
	}
	for i, e := range p.edges {
		if e == nil {
			continue
		}
		ce := *e
		ce.poly = c
		c.edges[i] = &ce
	}
	return c
}

// Check audits every back-link. It returns nil for a consistent polygon.
func (p *Polygon) Check() error {
	nv, ne := 0, 0
	for i, v := range p.vertices {
		if v == nil {
			continue
		}
		nv++
		if v.poly != p {
			return fmt.Errorf("%w: %v belongs to another polygon", ErrInconsistent, v)
		}
		if v.ID != VertexID(i) {
			return fmt.Errorf("%w: %v stored in slot %d", ErrInconsistent, v, i)
		}
		if v.In != NoEdge {
			in := p.Edge(v.In)
			if in == nil || in.Dst != v.ID {
				return fmt.Errorf("%w: %v incoming e%d does not end at it", ErrInconsistent, v, v.In)
			}
		}
		if v.Out != NoEdge {
			out := p.Edge(v.Out)
			if out == nil || out.Src != v.ID {
				return fmt.Errorf("%w: %v outgoing e%d does not start at it", ErrInconsistent, v, v.Out)
			}
		}
	}
	for i, e := range p.edges {
		if e == nil {
			continue
		}
		ne++
		if e.poly != p {
			return fmt.Errorf("%w: %v belongs to another polygon", ErrInconsistent, e)
		}
		if e.ID != EdgeID(i) {
			return fmt.Errorf("%w: %v stored in slot %d", ErrInconsistent, e, i)
		}
		s, d := p.Vertex(e.Src), p.Vertex(e.Dst)
		if s == nil || s.Out != e.ID {
			return fmt.Errorf("%w: %v source does not lead to it", ErrInconsistent, e)
		}
		if d == nil || d.In != e.ID {
			return fmt.Errorf("%w: %v destination does not come from it", ErrInconsistent, e)
		}
	}
	if nv != p.nv || ne != p.ne {
		return fmt.Errorf("%w: counted %d/%d vertices/edges, recorded %d/%d",
			ErrInconsistent, nv, ne, p.nv, p.ne)
	}
	return nil
}

// IsConsistent reports whether Check finds no defect.
func (p *Polygon) IsConsistent() bool {
	return p.Check() == nil
}

func (p *Polygon) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "polygon on %v: %d vertices, %d edges\n", p.Sphere, p.nv, p.ne)
	rings := p.Rings()
	sort.SliceStable(rings, func(i, j int) bool { return rings[i][0] < rings[j][0] })
	for _, ring := range rings {
		sb.WriteString(" ring:")
		for _, id := range ring {
			e := p.edges[id]
			fmt.Fprintf(&sb, " %v", p.vertices[e.Src])
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
