package circular

import (
	"fmt"

	"github.com/golang/geo/r3"
)

// VertexID is a stable handle into the vertex arena of a Polygon.
type VertexID int

// NoVertex marks an absent vertex reference.
const NoVertex VertexID = -1

// Ref is an opaque handle into a collaborator's arena (skeleton arcs and
// nodes). NoRef marks an absent reference.
type Ref int

const NoRef Ref = -1

// VertexData is the per-vertex annotation used by the offset strategies.
type VertexData struct {
	Arc  Ref
	Node Ref

	Reflex   bool
	Inverted bool

	// Speed is the variant specific propagation rate of the vertex.
	Speed float64
	// Axis is the rotation axis the vertex travels about.
	Axis r3.Vector
	// Created is the cumulative offset at which the vertex appeared.
	Created float64

	Highlight bool
}

func defaultVertexData() VertexData {
	return VertexData{Arc: NoRef, Node: NoRef}
}

type Vertex struct {
	ID    VertexID
	Point r3.Vector
	// Valid is false while the vertex is behind the horizon.
	Valid   bool
	In, Out EdgeID
	Data    VertexData

	poly *Polygon
}

func (v *Vertex) Polygon() *Polygon {
	return v.poly
}

func (v *Vertex) String() string {
	if v == nil {
		return "nil"
	}
	return fmt.Sprintf("v%d(%.6f, %.6f, %.6f)", v.ID, v.Point.X, v.Point.Y, v.Point.Z)
}
