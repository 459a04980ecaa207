package skeleton

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"

	"straightskel/src/circular"
)

// State is the lifecycle stage of a Skeleton.
type State int

const (
	Uninitialized State = iota
	Initialized
	Running
	Terminated
	Failed
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Initialized:
		return "initialized"
	case Running:
		return "running"
	case Terminated:
		return "terminated"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Skeleton computes the straight skeleton of one spherical polygon by
// repeatedly advancing its wavefront to the next event.
//
// Run drives the construction on the calling goroutine. Polygon, Result,
// State and Offset may be called from other goroutines meanwhile.
type Skeleton struct {
	mu     sync.RWMutex
	state  State
	poly   *circular.Polygon
	offset float64
	steps  int

	graph    *Graph
	strategy Strategy
	ctrl     Controller
	config   Config
	log      *slog.Logger
}

// New prepares the construction of poly. The polygon is copied; the caller
// keeps ownership of its argument.
func New(poly *circular.Polygon, opts ...Option) *Skeleton {
	o := newOptions(opts...)
	g := NewGraph(poly)
	st := NewStrategy(o.config, g)
	o.config.Strategy = st.Variant()
	return &Skeleton{
		poly:     poly.Clone(),
		graph:    g,
		strategy: st,
		ctrl:     o.controller,
		config:   o.config,
		log:      Logger().With("strategy", st.Variant().String()),
	}
}

// Run initializes the strategy and handles events until the wavefront is
// gone, the controller returns an error or an invariant breaks in debug
// mode. A Skeleton runs at most once.
func (s *Skeleton) Run(ctx context.Context) (err error) {
	defer s.markFailed(&err)
	defer checkError(&err)

	if err := s.start(); err != nil {
		return err
	}
	for {
		if s.config.MaxEvents > 0 && s.Steps() >= s.config.MaxEvents {
			return fmt.Errorf("%w: %d events", ErrEventLimit, s.Steps())
		}
		if err := s.ctrl.Checkpoint(ctx, BeforeEvent, s.Steps()); err != nil {
			return err
		}
		done, err := s.advance()
		if err != nil {
			return err
		}
		if done {
			s.setState(Terminated)
			s.log.Info("skeleton complete", "events", s.Steps(), "nodes", s.graph.NumNodes(), "arcs", s.graph.NumArcs())
			return nil
		}
		if err := s.ctrl.Checkpoint(ctx, AfterEvent, s.Steps()); err != nil {
			return err
		}
	}
}

func (s *Skeleton) start() error {
	if err := s.initialize(); err != nil {
		return err
	}
	s.log.Info("skeleton initialized", "vertices", s.poly.NumVertices(), "edges", s.poly.NumEdges())
	s.assert(s.poly.Check())
	s.setState(Running)
	return nil
}

func (s *Skeleton) initialize() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Uninitialized {
		return ErrAlreadyRun
	}
	s.poly.Lock()
	defer s.poly.Unlock()
	if !s.strategy.Init(s.poly) {
		return ErrInitFailed
	}
	s.state = Initialized
	return nil
}

func (s *Skeleton) markFailed(err *error) {
	if *err == nil || errors.Is(*err, ErrAlreadyRun) {
		return
	}
	s.setState(Failed)
	s.log.Warn("skeleton construction stopped", "err", *err)
}

// advance detects, applies and audits one event. It reports true once no
// event is left.
func (s *Skeleton) advance() (bool, error) {
	s.mu.RLock()
	cur, offset := s.poly, s.offset
	s.mu.RUnlock()

	cur.Lock()
	ev := s.strategy.NextEvent(cur, offset)
	if ev == nil {
		cur.Unlock()
		return true, nil
	}
	next := s.strategy.ShiftEdges(cur, ev.Offset())
	cur.Unlock()

	next.Lock()
	err := s.dispatch(next, ev)
	next.Unlock()
	s.assert(err)

	s.mu.Lock()
	s.poly = next
	s.offset += ev.Offset()
	s.steps++
	s.mu.Unlock()

	s.assert(next.Check())
	if s.config.Debug {
		s.assert(s.graph.Check())
	}
	return false, nil
}

func (s *Skeleton) dispatch(p *circular.Polygon, ev Event) error {
	switch e := ev.(type) {
	case *EdgeEvent:
		return s.strategy.HandleEdgeEvent(p, e)
	case *SplitEvent:
		return s.strategy.HandleSplitEvent(p, e)
	case *TriangleEvent:
		return s.strategy.HandleTriangleEvent(p, e)
	case *ConstOffsetEvent:
		return s.strategy.HandleConstOffsetEvent(p, e)
	}

	th, ok := s.strategy.(TranslationalHandler)
	if !ok {
		return fmt.Errorf("%v cannot handle %v", s.strategy.Variant(), ev.Kind())
	}
	switch e := ev.(type) {
	case *DblEdgeEvent:
		return th.HandleDblEdgeEvent(p, e)
	case *LeaveEvent:
		return th.HandleLeaveEvent(p, e)
	case *ReturnEvent:
		return th.HandleReturnEvent(p, e)
	case *DblLeaveEvent:
		return th.HandleDblLeaveEvent(p, e)
	case *DblReturnEvent:
		return th.HandleDblReturnEvent(p, e)
	case *VertexEvent:
		return th.HandleVertexEvent(p, e)
	case *EdgeMergeEvent:
		return th.HandleEdgeMergeEvent(p, e)
	case *InversionEvent:
		return th.HandleInversionEvent(p, e)
	}
	return fmt.Errorf("unknown event %v", ev.Kind())
}

// assert reports a broken invariant: fatally in debug mode, as a logged
// error otherwise.
func (s *Skeleton) assert(err error) {
	if err == nil {
		return
	}
	if s.config.Debug {
		orPanic(newInvariantError(err), func() { s.setState(Failed) })
	}
	s.log.Error("invariant violated", "err", err)
}

func (s *Skeleton) setState(st State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = st
}

func (s *Skeleton) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Offset is the cumulative offset reached so far.
func (s *Skeleton) Offset() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.offset
}

// Steps is the number of handled events.
func (s *Skeleton) Steps() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.steps
}

func (s *Skeleton) Variant() Variant { return s.strategy.Variant() }

// Result is the skeleton graph built so far.
func (s *Skeleton) Result() *Graph { return s.graph }

// Polygon returns a snapshot of the current wavefront.
func (s *Skeleton) Polygon() *circular.Polygon {
	s.mu.RLock()
	p := s.poly
	s.mu.RUnlock()
	p.RLock()
	defer p.RUnlock()
	return p.Clone()
}

// RunAll runs independent constructions concurrently, at most GOMAXPROCS at
// a time, and joins their errors.
func RunAll(ctx context.Context, skeletons ...*Skeleton) error {
	var (
		wg   sync.WaitGroup
		sem  = make(chan struct{}, runtime.GOMAXPROCS(0))
		errs = make([]error, len(skeletons))
	)
	for i, sk := range skeletons {
		wg.Add(1)
		go func(i int, sk *Skeleton) {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				errs[i] = ctx.Err()
				return
			}
			defer func() { <-sem }()
			errs[i] = sk.Run(ctx)
		}(i, sk)
	}
	wg.Wait()
	return errors.Join(errs...)
}
