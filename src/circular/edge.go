package circular

import (
	"fmt"

	"github.com/golang/geo/r3"

	"straightskel/src/geometry"
)

// EdgeID is a stable handle into the edge arena of a Polygon.
type EdgeID int

const NoEdge EdgeID = -1

// EdgeData is the per-edge annotation used by the offset strategies.
type EdgeData struct {
	// Origin is the edge of the input polygon this edge descends from.
	Origin EdgeID

	Axis r3.Vector
	// Offset is a variant specific scalar position of the edge's wavefront.
	Offset float64
}

type Edge struct {
	ID       EdgeID
	Src, Dst VertexID
	Data     EdgeData

	poly  *Polygon
	plane geometry.Plane
	fixed bool
}

func (e *Edge) Polygon() *Polygon {
	return e.poly
}

// HasFixedPlane reports whether the supporting plane was set explicitly
// rather than derived from the endpoints.
func (e *Edge) HasFixedPlane() bool {
	return e.fixed
}

func (e *Edge) String() string {
	if e == nil {
		return "nil"
	}
	return fmt.Sprintf("e%d(v%d->v%d)", e.ID, e.Src, e.Dst)
}
