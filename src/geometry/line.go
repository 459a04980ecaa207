package geometry

import (
	"fmt"

	"github.com/golang/geo/r3"
)

// Line is the infinite line Point + t*Dir with Dir of unit length.
type Line struct {
	Point r3.Vector
	Dir   r3.Vector
}

func NewLine(point, dir r3.Vector) (Line, bool) {
	d, ok := Normalize(dir)
	if !ok {
		return Line{}, false
	}
	return Line{Point: point, Dir: d}, true
}

func (l Line) At(t float64) r3.Vector {
	return l.Point.Add(l.Dir.Mul(t))
}

// Projection returns the point of the line closest to x.
func (l Line) Projection(x r3.Vector) r3.Vector {
	return l.At(x.Sub(l.Point).Dot(l.Dir))
}

// Distance is the distance from x to the line.
func (l Line) Distance(x r3.Vector) float64 {
	return x.Sub(l.Projection(x)).Norm()
}

func (l Line) String() string {
	return fmt.Sprintf("line(%v + t%v)", l.Point, l.Dir)
}
