package skeleton

import (
	"context"
	"sync"
)

// Stage tells a Controller where in the event loop it is consulted.
type Stage int

const (
	BeforeEvent Stage = iota
	AfterEvent
)

func (s Stage) String() string {
	if s == AfterEvent {
		return "after"
	}
	return "before"
}

// Controller is consulted before and after every event. Returning an error
// stops the construction; blocking pauses it. Event handlers always run to
// completion, so cancellation only takes effect at checkpoints.
type Controller interface {
	Checkpoint(ctx context.Context, stage Stage, step int) error
}

type nopController struct{}

func (nopController) Checkpoint(ctx context.Context, _ Stage, _ int) error {
	return ctx.Err()
}

// Stepper is an interactive Controller. While paused it blocks at every
// checkpoint until Step lets one event through, Resume continues freely or
// Skip runs to the end ignoring later pauses.
//
// Stepper is safe for concurrent use.
type Stepper struct {
	mu       sync.Mutex
	paused   bool
	skip     bool
	stepping bool
	// wake is closed when the stepper stops being paused.
	wake chan struct{}
	step chan struct{}
}

func NewStepper(paused bool) *Stepper {
	return &Stepper{
		paused: paused,
		wake:   make(chan struct{}),
		step:   make(chan struct{}, 1),
	}
}

func (s *Stepper) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.paused && !s.skip {
		s.paused = true
		s.wake = make(chan struct{})
		select {
		case <-s.step:
		default:
		}
	}
}

func (s *Stepper) Resume() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.release()
}

// Skip runs the construction to its end; later pauses are ignored.
func (s *Stepper) Skip() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.skip = true
	s.release()
}

func (s *Stepper) release() {
	if s.paused {
		s.paused = false
		close(s.wake)
	}
}

// Step lets a single event through while paused. Extra steps requested
// before the construction reaches its next checkpoint are dropped.
func (s *Stepper) Step() {
	select {
	case s.step <- struct{}{}:
	default:
	}
}

func (s *Stepper) Paused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paused
}

func (s *Stepper) Checkpoint(ctx context.Context, stage Stage, _ int) error {
	for {
		s.mu.Lock()
		if !s.paused || s.skip {
			s.mu.Unlock()
			return ctx.Err()
		}
		if stage == AfterEvent && s.stepping {
			s.stepping = false
			s.mu.Unlock()
			return ctx.Err()
		}
		wake := s.wake
		s.mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-wake:
		case <-s.step:
			if stage == BeforeEvent {
				s.mu.Lock()
				s.stepping = true
				s.mu.Unlock()
			}
			return nil
		}
	}
}
