package geometry

import (
	"fmt"
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/golang/geo/s1"
	"github.com/stretchr/testify/require"
)

func vec(x, y, z float64) r3.Vector { return r3.Vector{X: x, Y: y, Z: z} }

func requireVec(t *testing.T, want, got r3.Vector) {
	t.Helper()
	require.InDelta(t, 0, want.Sub(got).Norm(), 1e-9, "want %v got %v", want, got)
}

func TestPlaneThroughAndSide(t *testing.T) {
	p, ok := PlaneThrough(vec(0, 0, 0), vec(1, 0, 0), vec(0, 1, 0))
	require.True(t, ok)
	requireVec(t, vec(0, 0, 1), p.Normal)
	require.Equal(t, 1, p.Side(vec(3, 4, 2)))
	require.Equal(t, -1, p.Side(vec(3, 4, -2)))
	require.Equal(t, 0, p.Side(vec(3, 4, 0)))
	require.True(t, p.Contains(vec(-1, 7, 0)))

	_, ok = PlaneThrough(vec(0, 0, 0), vec(1, 0, 0), vec(2, 0, 0))
	require.False(t, ok)
}

func TestPlaneOppositeAndOffset(t *testing.T) {
	p := Plane{Normal: vec(0, 0, 1), D: 0.5}
	o := p.Opposite()
	require.InDelta(t, p.Distance(vec(1, 2, 3)), -o.Distance(vec(1, 2, 3)), 1e-12)
	require.True(t, o.Opposite().ApproxEqual(p))
	require.InDelta(t, 0.75, p.Offset(0.25).D, 1e-12)
	requireVec(t, vec(0, 0, 0.5), p.Point())
}

func TestIntersectPlanes(t *testing.T) {
	for idx, tc := range []struct {
		p, q Plane
		ok   bool
		onto r3.Vector
	}{
		{Plane{vec(1, 0, 0), 1}, Plane{vec(0, 1, 0), 2}, true, vec(1, 2, 5)},
		{Plane{vec(0, 0, 1), 0}, Plane{vec(1, 0, 0), 0}, true, vec(0, 9, 0)},
		{Plane{vec(0, 0, 1), 0}, Plane{vec(0, 0, 1), 1}, false, r3.Vector{}},
	} {
		t.Run(fmt.Sprintf("%d", idx), func(t *testing.T) {
			l, ok := IntersectPlanes(tc.p, tc.q)
			require.Equal(t, tc.ok, ok)
			if !ok {
				return
			}
			require.InDelta(t, 0, tc.p.Distance(l.Point), 1e-9)
			require.InDelta(t, 0, tc.q.Distance(l.Point), 1e-9)
			require.InDelta(t, 0, l.Distance(tc.onto), 1e-9)
		})
	}
}

func TestIntersectSphereLine(t *testing.T) {
	s := Sphere{Center: vec(1, 1, 1), Radius: 2}

	l, _ := NewLine(vec(1, 1, -5), vec(0, 0, 1))
	near, far, ok := IntersectSphereLine(s, l)
	require.True(t, ok)
	requireVec(t, vec(1, 1, -1), near)
	requireVec(t, vec(1, 1, 3), far)

	tangent, _ := NewLine(vec(3, 1, 0), vec(0, 0, 1))
	near, far, ok = IntersectSphereLine(s, tangent)
	require.True(t, ok)
	requireVec(t, vec(3, 1, 1), near)
	requireVec(t, near, far)

	miss, _ := NewLine(vec(3.5, 1, 0), vec(0, 0, 1))
	_, _, ok = IntersectSphereLine(s, miss)
	require.False(t, ok)
}

func TestIntersectPlaneLine(t *testing.T) {
	p := Plane{Normal: vec(0, 0, 1), D: 2}
	l, _ := NewLine(vec(0, 0, 0), vec(1, 0, 1))
	x, ok := IntersectPlaneLine(p, l)
	require.True(t, ok)
	requireVec(t, vec(2, 0, 2), x)

	parallel, _ := NewLine(vec(0, 0, 0), vec(1, 0, 0))
	_, ok = IntersectPlaneLine(p, parallel)
	require.False(t, ok)
}

func TestBisector(t *testing.T) {
	p := Plane{Normal: vec(1, 0, 0)}
	q := Plane{Normal: vec(0, 1, 0)}
	b, ok := Bisector(p, q)
	require.True(t, ok)
	x := vec(0.3, 0.3, 5)
	require.InDelta(t, 0, b.Distance(x), 1e-12)
	require.InDelta(t, p.Distance(x), q.Distance(x), 1e-12)

	_, ok = Bisector(p, p.Offset(1))
	require.False(t, ok)
}

func TestRotate(t *testing.T) {
	v := RotateVector(vec(1, 0, 0), vec(0, 0, 1), s1.Angle(math.Pi/2))
	requireVec(t, vec(0, 1, 0), v)

	axis, _ := NewLine(vec(0, 0, 1), vec(0, 1, 0))
	p := RotatePlane(Plane{Normal: vec(0, 0, 1), D: 1}, axis, s1.Angle(math.Pi/2))
	requireVec(t, vec(1, 0, 0), p.Normal)
	require.InDelta(t, 0, p.D, 1e-12)
}

func TestOrientation(t *testing.T) {
	a, b, c := vec(1, 0, 0), vec(0, 1, 0), vec(0, 0, 1)
	require.Equal(t, 1, Orientation(a, b, c))
	require.Equal(t, -1, Orientation(a, c, b))
	require.Equal(t, 0, Orientation(a, b, a))
}

func TestInsidePlanes(t *testing.T) {
	planes := []Plane{{Normal: vec(1, 0, 0)}, {Normal: vec(0, 1, 0)}}
	require.True(t, IsPointInsidePlanes(planes, vec(1, 1, 0), 0))
	require.False(t, IsPointInsidePlanes(planes, vec(-0.1, 1, 0), 0))
	require.True(t, IsPointInsidePlanes(planes, vec(-0.1, 1, 0), 0.2))
	require.True(t, AreVerticesBehindPlane(planes[0], []r3.Vector{vec(-1, 5, 0), vec(-2, 0, 0)}, 0))
	require.False(t, AreVerticesBehindPlane(planes[0], []r3.Vector{vec(1, 0, 0)}, 0))
}

func TestSphere(t *testing.T) {
	s := Sphere{Center: vec(0, 0, 1), Radius: 3}
	p := s.Project(vec(0, 5, 1))
	requireVec(t, vec(0, 3, 1), p)
	require.True(t, s.Contains(p))
	requireVec(t, vec(0, -3, 1), s.Antipode(p))
	requireVec(t, vec(0, 1, 0), s.Unit(p))
}
