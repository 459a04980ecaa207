package skeleton

import (
	"fmt"

	"github.com/golang/geo/r3"

	"straightskel/src/circular"
)

// Kind identifies the type of an Event.
type Kind int

const (
	KindEdge Kind = iota
	KindSplit
	KindTriangle
	KindConstOffset
	KindDblEdge
	KindLeave
	KindReturn
	KindDblLeave
	KindDblReturn
	KindVertex
	KindEdgeMerge
	KindInversion
)

var kindNames = [...]string{
	KindEdge:        "EdgeEvent",
	KindSplit:       "SplitEvent",
	KindTriangle:    "TriangleEvent",
	KindConstOffset: "ConstOffsetEvent",
	KindDblEdge:     "DblEdgeEvent",
	KindLeave:       "LeaveEvent",
	KindReturn:      "ReturnEvent",
	KindDblLeave:    "DblLeaveEvent",
	KindDblReturn:   "DblReturnEvent",
	KindVertex:      "VertexEvent",
	KindEdgeMerge:   "EdgeMergeEvent",
	KindInversion:   "InversionEvent",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// priority ranks kinds for simultaneous events, lower wins.
var priority = map[Kind]int{
	KindTriangle:    0,
	KindDblEdge:     1,
	KindEdgeMerge:   2,
	KindEdge:        3,
	KindVertex:      4,
	KindSplit:       5,
	KindDblLeave:    6,
	KindLeave:       7,
	KindDblReturn:   8,
	KindReturn:      9,
	KindInversion:   10,
	KindConstOffset: 11,
}

// Event is a predicted topology change of the wavefront.
type Event interface {
	Kind() Kind
	// Offset is the offset relative to the detection state at which the
	// event happens. It is never positive.
	Offset() float64
	// At is the cumulative offset the event was applied at.
	At() float64
	Point() r3.Vector
	// Node is the skeleton node created by the event, or NoNode.
	Node() NodeID
	// Result is the wavefront right after the event was handled.
	Result() *circular.Polygon

	base() *eventBase
}

type eventBase struct {
	offset float64
	at     float64
	point  r3.Vector
	node   NodeID
	result *circular.Polygon
}

func newBase(offset float64, point r3.Vector) eventBase {
	return eventBase{offset: offset, point: point, node: NoNode}
}

func (e *eventBase) Offset() float64           { return e.offset }
func (e *eventBase) At() float64               { return e.at }
func (e *eventBase) Point() r3.Vector          { return e.point }
func (e *eventBase) Node() NodeID              { return e.node }
func (e *eventBase) Result() *circular.Polygon { return e.result }
func (e *eventBase) base() *eventBase          { return e }

// EdgeEvent: Edge shrinks to a point and its endpoints merge.
type EdgeEvent struct {
	eventBase
	Edge circular.EdgeID
}

func (*EdgeEvent) Kind() Kind { return KindEdge }

// SplitEvent: the reflex Vertex hits Edge and splits its ring.
type SplitEvent struct {
	eventBase
	Vertex circular.VertexID
	Edge   circular.EdgeID
}

func (*SplitEvent) Kind() Kind { return KindSplit }

// TriangleEvent: the three edge ring containing Edge vanishes.
type TriangleEvent struct {
	eventBase
	Edge circular.EdgeID
}

func (*TriangleEvent) Kind() Kind { return KindTriangle }

// ConstOffsetEvent marks a configured offset step. The topology is unchanged.
type ConstOffsetEvent struct {
	eventBase
}

func (*ConstOffsetEvent) Kind() Kind { return KindConstOffset }

// DblEdgeEvent: a two edge ring collapses.
type DblEdgeEvent struct {
	eventBase
	Edge1, Edge2 circular.EdgeID
}

func (*DblEdgeEvent) Kind() Kind { return KindDblEdge }

// LeaveEvent: Vertex moves behind the horizon.
type LeaveEvent struct {
	eventBase
	Vertex circular.VertexID
}

func (*LeaveEvent) Kind() Kind { return KindLeave }

// ReturnEvent: Vertex comes back from behind the horizon.
type ReturnEvent struct {
	eventBase
	Vertex circular.VertexID
}

func (*ReturnEvent) Kind() Kind { return KindReturn }

type DblLeaveEvent struct {
	eventBase
	Vertex1, Vertex2 circular.VertexID
}

func (*DblLeaveEvent) Kind() Kind { return KindDblLeave }

type DblReturnEvent struct {
	eventBase
	Vertex1, Vertex2 circular.VertexID
}

func (*DblReturnEvent) Kind() Kind { return KindDblReturn }

// VertexEvent: two vertices travelling on the same line meet head-on.
type VertexEvent struct {
	eventBase
	Vertex1, Vertex2 circular.VertexID
}

func (*VertexEvent) Kind() Kind { return KindVertex }

// EdgeMergeEvent: both edges of Vertex lie on one plane and are joined.
type EdgeMergeEvent struct {
	eventBase
	Vertex circular.VertexID
}

func (*EdgeMergeEvent) Kind() Kind { return KindEdgeMerge }

// InversionEvent: the offset planes pass the sphere center distance R and
// flip orientation.
type InversionEvent struct {
	eventBase
}

func (*InversionEvent) Kind() Kind { return KindInversion }

// describe renders an event for logs and graph dumps.
func describe(ev Event) string {
	var refs string
	switch e := ev.(type) {
	case *EdgeEvent:
		refs = fmt.Sprintf("e%d", e.Edge)
	case *SplitEvent:
		refs = fmt.Sprintf("v%d e%d", e.Vertex, e.Edge)
	case *TriangleEvent:
		refs = fmt.Sprintf("e%d", e.Edge)
	case *DblEdgeEvent:
		refs = fmt.Sprintf("e%d e%d", e.Edge1, e.Edge2)
	case *LeaveEvent:
		refs = fmt.Sprintf("v%d", e.Vertex)
	case *ReturnEvent:
		refs = fmt.Sprintf("v%d", e.Vertex)
	case *DblLeaveEvent:
		refs = fmt.Sprintf("v%d v%d", e.Vertex1, e.Vertex2)
	case *DblReturnEvent:
		refs = fmt.Sprintf("v%d v%d", e.Vertex1, e.Vertex2)
	case *VertexEvent:
		refs = fmt.Sprintf("v%d v%d", e.Vertex1, e.Vertex2)
	case *EdgeMergeEvent:
		refs = fmt.Sprintf("v%d", e.Vertex)
	}
	return fmt.Sprintf("%v[%s] at %.9g (%.9g)", ev.Kind(), refs, ev.At(), ev.Offset())
}
