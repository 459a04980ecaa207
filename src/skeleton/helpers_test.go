package skeleton

import (
	"context"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/golang/geo/s2"
	"github.com/stretchr/testify/require"

	"straightskel/src/circular"
	"straightskel/src/geometry"
)

var variants = []Variant{Projective, Rotational, Translational, ConstantSpeed}

func fromLatLngs(t *testing.T, coords ...[2]float64) *circular.Polygon {
	t.Helper()
	lls := make([]s2.LatLng, len(coords))
	for i, c := range coords {
		lls[i] = s2.LatLngFromDegrees(c[0], c[1])
	}
	p, err := circular.FromLatLngs(geometry.UnitSphere, lls...)
	require.NoError(t, err)
	return p
}

func triangle(t *testing.T) *circular.Polygon {
	return fromLatLngs(t, [2]float64{0, 0}, [2]float64{0, 20}, [2]float64{20, 0})
}

// rectangle has two short edges of 20 degrees and two long ones of 50.
func rectangle(t *testing.T) *circular.Polygon {
	return fromLatLngs(t,
		[2]float64{-10, -25}, [2]float64{-10, 25},
		[2]float64{10, 25}, [2]float64{10, -25})
}

// notched is a square with a reflex notch reaching down to its center.
func notched(t *testing.T) *circular.Polygon {
	return fromLatLngs(t,
		[2]float64{-15, -15}, [2]float64{-15, 15},
		[2]float64{15, 15}, [2]float64{0, 0}, [2]float64{15, -15})
}

// comb has two teeth; its two reflex corners sit on the same parallel.
func comb(t *testing.T) *circular.Polygon {
	return fromLatLngs(t,
		[2]float64{-20, -20}, [2]float64{-20, 20}, [2]float64{-10, 20},
		[2]float64{-10, 0}, [2]float64{0, 0}, [2]float64{0, 20},
		[2]float64{10, 20}, [2]float64{10, 0}, [2]float64{20, 0},
		[2]float64{20, -20})
}

// lune is the two edge polygon between the meridians 0 and 60.
func lune(t *testing.T) *circular.Polygon {
	t.Helper()
	p := circular.New(geometry.UnitSphere)
	n := p.AddVertex(r3.Vector{Z: 1})
	s := p.AddVertex(r3.Vector{Z: -1})
	west := p.AddEdge(n, s)
	east := p.AddEdge(s, n)
	sin, cos := 0.8660254037844386, 0.5
	p.SetPlane(west, geometry.Plane{Normal: r3.Vector{Y: 1}})
	p.SetPlane(east, geometry.Plane{Normal: r3.Vector{X: sin, Y: -cos}})
	require.NoError(t, p.Check())
	return p
}

// newMotion builds an initialized strategy of variant v on a copy of p.
func newMotion(t *testing.T, v Variant, p *circular.Polygon) (motion, *circular.Polygon, *Graph) {
	t.Helper()
	g := NewGraph(p)
	cfg := DefaultConfig()
	cfg.Strategy = v
	m := NewStrategy(cfg, g).(motion)
	work := p.Clone()
	require.True(t, m.Init(work))
	return m, work, g
}

func run(t *testing.T, p *circular.Polygon, opts ...Option) *Skeleton {
	t.Helper()
	sk := New(p, append([]Option{WithDebug(true)}, opts...)...)
	require.NoError(t, sk.Run(context.Background()))
	require.Equal(t, Terminated, sk.State())
	return sk
}

func kinds(events []Event) []Kind {
	out := make([]Kind, len(events))
	for i, ev := range events {
		out[i] = ev.Kind()
	}
	return out
}

func requireSkeletonInvariants(t *testing.T, g *Graph) {
	t.Helper()
	require.NoError(t, g.Check())
	for _, n := range g.Nodes() {
		require.Contains(t, []int{1, 3}, n.Degree(), "node %d", n.ID)
	}
	for _, ev := range g.Events() {
		require.LessOrEqual(t, ev.Offset(), 0.0, describe(ev))
	}
}
