package production

import (
	"context"
	"sync"

	"github.com/comalice/calculatorx"
	"github.com/comalice/calculatorx/internal/core"
)

// PublishedEvent bundles an event with its session metadata for publishing.
// Event is the zero value for timer-driven transitions.
type PublishedEvent struct {
	Event    calculatorx.Event
	Metadata core.Metadata
}

// ChannelPublisher forwards events to a Go channel.
// Non-blocking publish with drop on backpressure.
type ChannelPublisher struct {
	mu     sync.Mutex
	ch     chan<- PublishedEvent
	closed bool
}

// NewChannelPublisher creates a ChannelPublisher with the given output channel.
func NewChannelPublisher(ch chan<- PublishedEvent) *ChannelPublisher {
	return &ChannelPublisher{ch: ch}
}

func (p *ChannelPublisher) Publish(ctx context.Context, event calculatorx.Event, metadata core.Metadata) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return core.ErrStopped
	}
	select {
	case p.ch <- PublishedEvent{Event: event, Metadata: metadata}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil // drop
	}
}

// Close closes the output channel. Later publishes return core.ErrStopped.
func (p *ChannelPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.closed {
		p.closed = true
		close(p.ch)
	}
	return nil
}
