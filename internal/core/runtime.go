// Package core provides the session runtime around a calculator engine:
// a single goroutine that applies queued events, fires the Error
// auto-clear, and hands each result to the persister and publisher.
package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/comalice/calculatorx"
)

const defaultQueueSize = 1000

// job is one unit of work for the runtime goroutine: either an input
// event or a due timer callback.
type job struct {
	event calculatorx.Event
	fire  func()
	reply chan calculatorx.State
}

// Runtime owns one Engine and serializes everything that touches it.
// Send and Do are safe for concurrent use.
type Runtime struct {
	id     string
	engine *calculatorx.Engine

	queue     chan job
	done      chan struct{}
	exited    chan struct{}
	started   atomic.Bool
	stopOnce  sync.Once
	queueSize int

	sink       calculatorx.Sink
	clock      calculatorx.Clock
	errorDelay time.Duration
	logger     *log.Logger

	persister  Persister
	publisher  EventPublisher
	visualizer Visualizer
}

// NewRuntime creates a runtime for sessionID. Call Start before sending.
func NewRuntime(sessionID string, opts ...Option) *Runtime {
	r := &Runtime{
		id:        sessionID,
		queueSize: defaultQueueSize,
		clock:     calculatorx.SystemClock,
		logger:    log.New(io.Discard, "", 0),
		done:      make(chan struct{}),
		exited:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.queue = make(chan job, r.queueSize)

	engineOpts := []calculatorx.Option{
		calculatorx.WithClock(calculatorx.ClockFunc(r.afterFunc)),
		calculatorx.WithLogger(r.logger),
		calculatorx.WithErrorDelay(r.errorDelay),
	}
	if r.sink != nil {
		engineOpts = append(engineOpts, calculatorx.WithSink(r.sink))
	}
	r.engine = calculatorx.New(engineOpts...)
	return r
}

// afterFunc schedules f on the underlying clock but runs it on the
// runtime goroutine, so timer expiry is ordered with input events.
func (r *Runtime) afterFunc(d time.Duration, f func()) calculatorx.Timer {
	return r.clock.AfterFunc(d, func() {
		select {
		case r.queue <- job{fire: f}:
		case <-r.done:
		}
	})
}

// SessionID returns the session the runtime was created for.
func (r *Runtime) SessionID() string {
	return r.id
}

// Start restores the last saved snapshot, if any, and launches the event
// loop. Calling Start again is a no-op.
func (r *Runtime) Start(ctx context.Context) error {
	select {
	case <-r.done:
		return ErrStopped
	default:
	}
	if !r.started.CompareAndSwap(false, true) {
		return nil
	}

	if r.persister != nil {
		snap, err := r.persister.Load(ctx, r.id)
		switch {
		case err == nil:
			if err := r.engine.Restore(snap.State); err != nil {
				r.started.Store(false)
				return fmt.Errorf("restore session %q: %w", r.id, err)
			}
			r.logger.Printf("restored session %q (%s)", r.id, snap.Display)
		case errors.Is(err, ErrNotFound):
		default:
			r.started.Store(false)
			return fmt.Errorf("load session %q: %w", r.id, err)
		}
	}

	go r.interpret()
	return nil
}

// interpret is the private event loop goroutine.
func (r *Runtime) interpret() {
	defer close(r.exited)
	for {
		select {
		case j := <-r.queue:
			r.process(j)
		case <-r.done:
			return
		}
	}
}

func (r *Runtime) process(j job) {
	before := r.engine.State()

	if j.fire != nil {
		j.fire()
		after := r.engine.State()
		if after == before {
			// Stale timer.
			return
		}
		r.record(calculatorx.Event{}, "auto-clear", before.Phase, after)
		return
	}

	after := r.engine.HandleEvent(j.event)
	if j.reply != nil {
		j.reply <- after
	}
	if !j.event.Valid() {
		return
	}
	r.record(j.event, j.event.String(), before.Phase, after)
}

// record persists and publishes a processed event. Failures are logged
// and do not stop the loop.
func (r *Runtime) record(ev calculatorx.Event, trigger string, from calculatorx.PhaseID, st calculatorx.State) {
	ctx := context.Background()
	text, compact := st.Display()
	now := time.Now()

	if r.persister != nil {
		snap := Snapshot{
			SessionID: r.id,
			State:     st,
			Display:   text,
			Compact:   compact,
			Timestamp: now,
		}
		if err := r.persister.Save(ctx, snap); err != nil {
			r.logger.Printf("save session %q: %v", r.id, err)
		}
	}
	if r.publisher != nil {
		md := Metadata{
			SessionID:  r.id,
			Transition: fmt.Sprintf("%s -> %s", from, st.Phase),
			Trigger:    trigger,
			Display:    text,
			Timestamp:  now,
		}
		if err := r.publisher.Publish(ctx, ev, md); err != nil {
			r.logger.Printf("publish %s for session %q: %v", trigger, r.id, err)
		}
	}
}

// Send enqueues an event for asynchronous processing without blocking.
// It fails with ErrNotStarted until Start has run.
func (r *Runtime) Send(ev calculatorx.Event) error {
	select {
	case <-r.done:
		return ErrStopped
	default:
	}
	if !r.started.Load() {
		return ErrNotStarted
	}
	select {
	case r.queue <- job{event: ev}:
		return nil
	default:
		return ErrQueueFull
	}
}

// Do applies ev on the runtime goroutine and returns the resulting state.
func (r *Runtime) Do(ctx context.Context, ev calculatorx.Event) (calculatorx.State, error) {
	if !r.started.Load() {
		return calculatorx.State{}, ErrNotStarted
	}
	reply := make(chan calculatorx.State, 1)
	select {
	case r.queue <- job{event: ev, reply: reply}:
	case <-r.done:
		return calculatorx.State{}, ErrStopped
	case <-ctx.Done():
		return calculatorx.State{}, ctx.Err()
	}
	select {
	case st := <-reply:
		return st, nil
	case <-r.done:
		return calculatorx.State{}, ErrStopped
	case <-ctx.Done():
		return calculatorx.State{}, ctx.Err()
	}
}

// State returns a snapshot of the engine state.
func (r *Runtime) State() calculatorx.State {
	return r.engine.State()
}

// Visualize returns the Graphviz DOT rendering of the engine's chart.
func (r *Runtime) Visualize() string {
	if r.visualizer == nil {
		return "ERROR: No visualizer configured. Use WithVisualizer(&production.DefaultVisualizer{})"
	}
	return r.visualizer.ExportDOT(r.engine.Machine(), r.engine.Phase())
}

// Stop shuts the loop down, cancels any pending auto-clear and closes the
// publisher. Events still queued are dropped. Safe to call multiple times.
func (r *Runtime) Stop() error {
	var err error
	r.stopOnce.Do(func() {
		close(r.done)
		r.engine.Close()
		if r.started.Load() {
			<-r.exited
		}
		if r.publisher != nil {
			err = r.publisher.Close()
		}
	})
	return err
}
