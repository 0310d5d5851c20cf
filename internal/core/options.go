// Options for configuring Runtime instances.
package core

import (
	"log"
	"time"

	"github.com/comalice/calculatorx"
)

// Option applies configuration to a Runtime.
type Option func(*Runtime)

// WithPersister restores the session on Start and saves it after every event.
func WithPersister(p Persister) Option {
	return func(r *Runtime) {
		r.persister = p
	}
}

// WithPublisher forwards every processed event.
func WithPublisher(pb EventPublisher) Option {
	return func(r *Runtime) {
		r.publisher = pb
	}
}

// WithVisualizer configures the Runtime with a Visualizer.
func WithVisualizer(v Visualizer) Option {
	return func(r *Runtime) {
		r.visualizer = v
	}
}

// WithQueueSize configures the event queue buffer size.
func WithQueueSize(size int) Option {
	return func(r *Runtime) {
		if size > 0 {
			r.queueSize = size
		}
	}
}

// WithSink sets the engine's output sink. It is called from the runtime
// goroutine.
func WithSink(s calculatorx.Sink) Option {
	return func(r *Runtime) {
		r.sink = s
	}
}

// WithLogger sets the logger shared by the runtime and its engine.
func WithLogger(l *log.Logger) Option {
	return func(r *Runtime) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithErrorDelay sets how long the Error display is held.
func WithErrorDelay(d time.Duration) Option {
	return func(r *Runtime) {
		r.errorDelay = d
	}
}

// WithClock sets the clock driving the Error auto-clear.
func WithClock(c calculatorx.Clock) Option {
	return func(r *Runtime) {
		if c != nil {
			r.clock = c
		}
	}
}
