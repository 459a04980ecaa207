package skeleton

import (
	"errors"
	"fmt"
	"runtime"

	"straightskel/src/circular"
)

var (
	// ErrInitFailed is returned when a vertex lacks an incoming or outgoing
	// edge, so no bisector can be built for it.
	ErrInitFailed = errors.New("skeleton: polygon cannot be initialized")
	// ErrInconsistent marks a broken polygon or graph after a mutation.
	ErrInconsistent = errors.New("skeleton: invariant violated")
	// ErrStaleEvent is returned when an event references handles that no
	// longer exist in the polygon it is applied to.
	ErrStaleEvent = errors.New("skeleton: event references removed elements")
	ErrEventLimit = errors.New("skeleton: event limit exceeded")
	ErrAlreadyRun = errors.New("skeleton: construction already started")
)

type stackFrame struct {
	function string
	file     string
	line     int
}

func newStackFrame(pc uintptr) stackFrame {
	frame := stackFrame{function: "unknown"}
	if fn := runtime.FuncForPC(pc); fn != nil {
		frame.function = fn.Name()
		frame.file, frame.line = fn.FileLine(pc)
	}
	return frame
}

func (f stackFrame) String() string {
	return fmt.Sprintf("%s (%s:%d)", f.function, f.file, f.line)
}

// newInvariantError wraps err as an invariant violation detected by the
// caller of newInvariantError.
func newInvariantError(err error) error {
	pc, _, _, ok := runtime.Caller(1)
	if !ok {
		return fmt.Errorf("%w: %w", ErrInconsistent, err)
	}
	return fmt.Errorf("%w: %w on %s", ErrInconsistent, err, newStackFrame(pc))
}

func staleEvent(ev Event, what string, id int) error {
	return fmt.Errorf("%w: %v: no %s %d", ErrStaleEvent, ev.Kind(), what, id)
}

// orPanic runs the finalizers and panics when err is set.
func orPanic(err error, finalizers ...func()) {
	if err == nil {
		return
	}
	for _, fn := range finalizers {
		fn()
	}
	panic(err)
}

// checkError turns a panic into an error assigned to *err. It must be
// deferred directly.
func checkError(err *error) {
	if v := recover(); v != nil {
		if e, ok := v.(error); ok {
			*err = e
			return
		}
		*err = fmt.Errorf("%w: %+v", ErrInconsistent, v)
	}
}

func errNoBisector(v *circular.Vertex) error {
	return fmt.Errorf("no bisector at %v", v)
}
