package circular

import (
	"fmt"
	"sync"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/golang/geo/s2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"straightskel/src/geometry"
)

func square(t *testing.T) *Polygon {
	t.Helper()
	p, err := FromLatLngs(geometry.UnitSphere,
		s2.LatLngFromDegrees(-10, -10),
		s2.LatLngFromDegrees(-10, 10),
		s2.LatLngFromDegrees(10, 10),
		s2.LatLngFromDegrees(10, -10),
	)
	require.NoError(t, err)
	return p
}

func TestFromLatLngs(t *testing.T) {
	p := square(t)
	require.Equal(t, 4, p.NumVertices())
	require.Equal(t, 4, p.NumEdges())
	require.NoError(t, p.Check())

	rings := p.Rings()
	require.Len(t, rings, 1)
	require.Len(t, rings[0], 4)

	center := geometry.UnitSphere.PointAt(s2.PointFromLatLng(s2.LatLngFromDegrees(0, 0)).Vector)
	for _, e := range p.Edges() {
		pl, ok := p.Plane(e.ID)
		require.True(t, ok)
		assert.Equal(t, 1, pl.Side(center), "interior must be on the positive side of %v", e)
		assert.Equal(t, e.ID, e.Data.Origin)
	}
}

func TestFromLatLngsNormalizesClockwise(t *testing.T) {
	p, err := FromLatLngs(geometry.UnitSphere,
		s2.LatLngFromDegrees(10, -10),
		s2.LatLngFromDegrees(10, 10),
		s2.LatLngFromDegrees(-10, 10),
		s2.LatLngFromDegrees(-10, -10),
	)
	require.NoError(t, err)
	center := s2.PointFromLatLng(s2.LatLngFromDegrees(0, 0)).Vector
	for _, e := range p.Edges() {
		pl, ok := p.Plane(e.ID)
		require.True(t, ok)
		require.Equal(t, 1, pl.Side(center))
	}
}

func TestFromPointsTooFew(t *testing.T) {
	_, err := FromPoints(geometry.UnitSphere, []r3.Vector{{X: 1}, {Y: 1}})
	require.ErrorIs(t, err, ErrTooFewPoints)
}

func TestNavigation(t *testing.T) {
	p := square(t)
	for _, e := range p.Edges() {
		next := p.Next(e.ID)
		require.Equal(t, e.ID, p.Prev(next))
		require.Equal(t, e.Dst, p.Edge(next).Src)
		require.Equal(t, e.Src, p.PrevVertex(e.Dst))
		require.Equal(t, e.Dst, p.NextVertex(e.Src))
		require.Equal(t, 4, p.RingLength(e.ID, 100))
	}
}

func TestRemoveVertexDetachesEdges(t *testing.T) {
	p := square(t)
	v := p.Vertices()[1]
	in, out := v.In, v.Out
	p.RemoveVertex(v.ID)

	require.Nil(t, p.Vertex(v.ID))
	require.Nil(t, p.Edge(in))
	require.Nil(t, p.Edge(out))
	require.Equal(t, 3, p.NumVertices())
	require.Equal(t, 2, p.NumEdges())
	require.NoError(t, p.Check())

	// Close the gap again.
	a, b := p.Vertex(0), p.Vertex(2)
	require.Equal(t, NoEdge, a.Out)
	require.Equal(t, NoEdge, b.In)
	p.AddEdge(a.ID, b.ID)
	require.NoError(t, p.Check())
	require.Len(t, p.Rings(), 1)
	require.Len(t, p.Rings()[0], 3)
}

func TestCheckDetectsBrokenLinks(t *testing.T) {
	for idx, tc := range []struct {
		name   string
		mutate func(p *Polygon)
	}{
		{"dangling in", func(p *Polygon) { p.vertices[0].In = 3 + 100 }},
		{"wrong out", func(p *Polygon) { p.vertices[0].Out = p.vertices[1].Out }},
		{"wrong src", func(p *Polygon) { p.edges[0].Src = 2 }},
		{"foreign vertex", func(p *Polygon) { p.vertices[2].poly = New(geometry.UnitSphere) }},
		{"miscounted", func(p *Polygon) { p.nv++ }},
	} {
		t.Run(fmt.Sprintf("%d/%s", idx, tc.name), func(t *testing.T) {
			p := square(t)
			tc.mutate(p)
			err := p.Check()
			require.ErrorIs(t, err, ErrInconsistent)
			require.Equal(t, p.IsConsistent(), p.IsConsistent())
			require.False(t, p.IsConsistent())
		})
	}
}

func TestSetDstAndSetSrc(t *testing.T) {
	p := square(t)
	e := p.Edge(0)
	oldDst := e.Dst
	m := p.AddVertex(p.Vertex(oldDst).Point)

	// Replace the old destination by m on both of its edges.
	out := p.Vertex(oldDst).Out
	p.SetDst(e.ID, m)
	p.SetSrc(out, m)
	p.RemoveVertex(oldDst)

	require.NoError(t, p.Check())
	require.Equal(t, m, p.Edge(0).Dst)
	require.Equal(t, 4, p.NumEdges())
}

func TestPlaneFollowsPoints(t *testing.T) {
	p := square(t)
	e := p.Edge(0)
	before, _ := p.Plane(e.ID)

	q := p.Vertex(e.Dst).Point
	p.SetPoint(e.Dst, geometry.UnitSphere.Project(r3.Vector{X: q.X, Y: q.Y, Z: q.Z + 0.05}))
	after, _ := p.Plane(e.ID)
	require.False(t, before.ApproxEqual(after))

	fixed := geometry.Plane{Normal: r3.Vector{Z: 1}, D: 0.2}
	p.SetPlane(e.ID, fixed)
	p.SetPoint(e.Dst, q)
	got, ok := p.Plane(e.ID)
	require.True(t, ok)
	require.True(t, got.ApproxEqual(fixed))
	require.True(t, p.Edge(e.ID).HasFixedPlane())
}

func TestPlaneConcurrentReaders(t *testing.T) {
	p := square(t)
	want := make([]geometry.Plane, 0, p.NumEdges())
	for _, e := range p.Edges() {
		pl, ok := p.Plane(e.ID)
		require.True(t, ok)
		want = append(want, pl)
	}

	p.RLock()
	defer p.RUnlock()
	var wg sync.WaitGroup
	got := make([][]geometry.Plane, 8)
	for i := range got {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for _, e := range p.Edges() {
				pl, _ := p.Plane(e.ID)
				got[i] = append(got[i], pl)
			}
		}(i)
	}
	wg.Wait()
	for _, planes := range got {
		require.Len(t, planes, len(want))
		for j := range planes {
			assert.True(t, planes[j].ApproxEqual(want[j]))
		}
	}
}

func TestCloneKeepsHandles(t *testing.T) {
	p := square(t)
	p.RemoveVertex(2)
	c := p.Clone()
	require.NoError(t, c.Check())
	require.Equal(t, p.NumVertices(), c.NumVertices())
	for _, v := range p.Vertices() {
		cv := c.Vertex(v.ID)
		require.NotNil(t, cv)
		require.Equal(t, v.Point, cv.Point)
		require.Same(t, c, cv.Polygon())
	}
	c.SetPoint(0, r3.Vector{X: 1})
	require.NotEqual(t, p.Vertex(0).Point, c.Vertex(0).Point)
}

func TestClear(t *testing.T) {
	p := square(t)
	p.Clear()
	require.Equal(t, 0, p.NumVertices())
	require.Equal(t, 0, p.NumEdges())
	require.Empty(t, p.Rings())
	require.NoError(t, p.Check())
	id := p.AddVertex(r3.Vector{X: 1})
	require.Equal(t, VertexID(4), id)
}
