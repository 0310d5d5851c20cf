// Tests for ChannelPublisher delivery and Runtime integration.
package production

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/comalice/calculatorx"
	"github.com/comalice/calculatorx/internal/core"
	"github.com/comalice/calculatorx/testutil"
)

func TestChannelPublisher_Delivery(t *testing.T) {
	ch := make(chan PublishedEvent, 10)
	p := NewChannelPublisher(ch)

	event := calculatorx.Digit(3)
	meta := core.Metadata{
		SessionID:  "test-session",
		Transition: "normal -> normal",
		Trigger:    event.String(),
		Timestamp:  time.Now(),
	}

	if err := p.Publish(context.Background(), event, meta); err != nil {
		t.Errorf("Publish failed: %v", err)
	}

	select {
	case got := <-ch:
		if got.Event != event {
			t.Errorf("Event mismatch: got %v, want %v", got.Event, event)
		}
		if got.Metadata.SessionID != meta.SessionID {
			t.Errorf("Metadata SessionID mismatch: got %q, want %q", got.Metadata.SessionID, meta.SessionID)
		}
		if got.Metadata.Transition != meta.Transition {
			t.Errorf("Metadata Transition mismatch: got %q, want %q", got.Metadata.Transition, meta.Transition)
		}
	case <-time.After(100 * time.Millisecond):
		t.Error("No event delivered")
	}
}

func TestChannelPublisher_BackpressureDrop(t *testing.T) {
	ch := make(chan PublishedEvent, 1)
	p := NewChannelPublisher(ch)
	ch <- PublishedEvent{} // fill buffer

	if err := p.Publish(context.Background(), calculatorx.Clear(), core.Metadata{SessionID: "test"}); err != nil {
		t.Errorf("Publish on full channel failed: %v", err)
	}
	if len(ch) != 1 {
		t.Errorf("expected dropped event, channel holds %d", len(ch))
	}
}

func TestChannelPublisher_CanceledContext(t *testing.T) {
	ch := make(chan PublishedEvent)
	p := NewChannelPublisher(ch)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := p.Publish(ctx, calculatorx.Clear(), core.Metadata{})
	// Either branch of the select may win; a canceled context must never
	// deliver and never block.
	if err != nil && !errors.Is(err, context.Canceled) {
		t.Errorf("unexpected error %v", err)
	}
}

func TestChannelPublisher_Close(t *testing.T) {
	ch := make(chan PublishedEvent, 1)
	p := NewChannelPublisher(ch)
	if err := p.Close(); err != nil {
		t.Fatal(err)
	}
	if err := p.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
	if _, ok := <-ch; ok {
		t.Error("channel not closed")
	}
	if err := p.Publish(context.Background(), calculatorx.Clear(), core.Metadata{}); !errors.Is(err, core.ErrStopped) {
		t.Errorf("Publish after Close: expected ErrStopped, got %v", err)
	}
}

func TestChannelPublisher_Integration_Runtime(t *testing.T) {
	ch := make(chan PublishedEvent, 16)
	clock := testutil.NewFakeClock()
	rt := core.NewRuntime("pub",
		core.WithPublisher(NewChannelPublisher(ch)),
		core.WithClock(clock),
	)
	ctx := context.Background()
	if err := rt.Start(ctx); err != nil {
		t.Fatal(err)
	}
	for _, ev := range []calculatorx.Event{calculatorx.Digit(1), calculatorx.Op(calculatorx.OpDiv), calculatorx.Digit(0), calculatorx.Equals()} {
		if _, err := rt.Do(ctx, ev); err != nil {
			t.Fatal(err)
		}
	}
	clock.Advance(calculatorx.DefaultErrorDelay)
	if _, err := rt.Do(ctx, calculatorx.Event{}); err != nil {
		t.Fatal(err)
	}
	if err := rt.Stop(); err != nil {
		t.Fatal(err)
	}

	var got []PublishedEvent
	for pe := range ch {
		got = append(got, pe)
	}
	if len(got) != 5 {
		t.Fatalf("expected 5 events, got %d", len(got))
	}
	if got[3].Event != calculatorx.Equals() || got[3].Metadata.Transition != "normal -> error" || got[3].Metadata.Display != calculatorx.ErrorText {
		t.Errorf("unexpected equals record %+v", got[3])
	}
	if got[4].Metadata.Trigger != "auto-clear" || got[4].Metadata.Display != "0" {
		t.Errorf("unexpected auto-clear record %+v", got[4])
	}
}
