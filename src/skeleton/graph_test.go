package skeleton

import (
	"testing"

	"github.com/golang/geo/r3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"straightskel/src/geometry"
)

func TestGraphOriginPlanes(t *testing.T) {
	p := triangle(t)
	g := NewGraph(p)
	for _, e := range p.Edges() {
		want, _ := p.Plane(e.ID)
		got, ok := g.OriginPlane(e.ID)
		require.True(t, ok)
		assert.True(t, want.ApproxEqual(got))
	}
	_, ok := g.OriginPlane(42)
	assert.False(t, ok)

	// The snapshot is independent of later changes to the input.
	p.RemoveVertex(0)
	assert.Equal(t, 3, g.Input().NumVertices())
}

func TestGraphArcLifecycle(t *testing.T) {
	g := NewGraph(triangle(t))
	plane := geometry.Plane{Normal: r3.Vector{Z: 1}}

	a := g.CreateNode(r3.Vector{X: 1}, 0)
	b := g.CreateNode(r3.Vector{Y: 1}, 0)
	c := g.CreateNode(r3.Vector{Z: 1}, 0)
	arcA := g.CreateArc(a, r3.Vector{Y: 1}, plane, 0, 1)
	arcB := g.CreateArc(b, r3.Vector{X: -1}, plane, 1, 2)
	arcC := g.CreateArc(c, r3.Vector{X: -1}, plane, 2, 0)
	require.NoError(t, g.Check())

	arc, ok := g.Arc(arcA)
	require.True(t, ok)
	assert.True(t, arc.IsOpen())

	n := g.CreateNode(r3.Vector{X: 1, Y: 1}, -0.5)
	require.NoError(t, g.TerminateArc(arcA, n))
	require.NoError(t, g.TerminateArc(arcB, n))
	// Degree two is not a valid skeleton node.
	require.ErrorIs(t, g.Check(), ErrInconsistent)
	require.NoError(t, g.TerminateArc(arcC, n))
	require.NoError(t, g.Check())
	require.True(t, g.IsConsistent())
	require.Equal(t, g.IsConsistent(), g.IsConsistent())

	require.ErrorIs(t, g.TerminateArc(arcA, n), ErrInconsistent)
	require.ErrorIs(t, g.TerminateArc(ArcID(99), n), ErrInconsistent)

	node, ok := g.Node(n)
	require.True(t, ok)
	assert.Equal(t, 3, node.Degree())
	assert.Equal(t, -0.5, node.Offset)
	assert.Equal(t, 4, g.NumNodes())
	assert.Equal(t, 3, g.NumArcs())
	assert.Contains(t, g.String(), "skeleton: 4 nodes, 3 arcs")
}

func TestGraphSpliceArcs(t *testing.T) {
	g := NewGraph(triangle(t))
	plane := geometry.Plane{Normal: r3.Vector{Z: 1}}
	a := g.CreateNode(r3.Vector{X: 1}, 0)
	b := g.CreateNode(r3.Vector{X: -1}, 0)
	arcA := g.CreateArc(a, r3.Vector{Y: 1}, plane, 0, 1)
	arcB := g.CreateArc(b, r3.Vector{Y: -1}, plane.Opposite(), 1, 0)

	require.NoError(t, g.SpliceArcs(arcA, arcB))
	require.NoError(t, g.Check())
	arc, ok := g.Arc(arcA)
	require.True(t, ok)
	assert.Equal(t, b, arc.Dst)
	_, ok = g.Arc(arcB)
	assert.False(t, ok)
	assert.Equal(t, 1, g.NumArcs())

	require.ErrorIs(t, g.SpliceArcs(arcA, arcB), ErrInconsistent)
}

func TestGraphRemoveNode(t *testing.T) {
	g := NewGraph(triangle(t))
	plane := geometry.Plane{Normal: r3.Vector{Z: 1}}
	a := g.CreateNode(r3.Vector{X: 1}, 0)
	b := g.CreateNode(r3.Vector{Y: 1}, 0)
	arc := g.CreateArc(a, r3.Vector{Y: 1}, plane, 0, 1)
	require.NoError(t, g.TerminateArc(arc, b))

	g.RemoveNode(b)
	_, ok := g.Node(b)
	assert.False(t, ok)
	_, ok = g.Arc(arc)
	assert.False(t, ok)
	node, _ := g.Node(a)
	assert.Empty(t, node.Arcs)
	assert.Len(t, g.Nodes(), 1)
	assert.Empty(t, g.Arcs())
}
