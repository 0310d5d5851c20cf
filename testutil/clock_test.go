package testutil

import (
	"testing"
	"time"
)

func TestFakeClockFiresInDeadlineOrder(t *testing.T) {
	c := NewFakeClock()
	var got []int
	c.AfterFunc(30*time.Millisecond, func() { got = append(got, 3) })
	c.AfterFunc(10*time.Millisecond, func() { got = append(got, 1) })
	c.AfterFunc(20*time.Millisecond, func() { got = append(got, 2) })

	c.Advance(15 * time.Millisecond)
	if len(got) != 1 || got[0] != 1 {
		t.Fatalf("after 15ms got %v, want [1]", got)
	}
	if c.Pending() != 2 {
		t.Errorf("expected 2 pending timers, got %d", c.Pending())
	}

	c.Advance(time.Second)
	if len(got) != 3 || got[1] != 2 || got[2] != 3 {
		t.Fatalf("got %v, want [1 2 3]", got)
	}
	if c.Pending() != 0 {
		t.Errorf("expected no pending timers, got %d", c.Pending())
	}
}

func TestFakeClockStop(t *testing.T) {
	c := NewFakeClock()
	fired := false
	tm := c.AfterFunc(time.Millisecond, func() { fired = true })

	if !tm.Stop() {
		t.Error("first Stop should report true")
	}
	if tm.Stop() {
		t.Error("second Stop should report false")
	}
	c.Advance(time.Second)
	if fired {
		t.Error("stopped timer fired")
	}
}

func TestFakeClockStopAfterFire(t *testing.T) {
	c := NewFakeClock()
	tm := c.AfterFunc(time.Millisecond, func() {})
	c.Advance(time.Millisecond)
	if tm.Stop() {
		t.Error("Stop after fire should report false")
	}
}

func TestRecordingSink(t *testing.T) {
	var s RecordingSink
	if _, ok := s.Last(); ok {
		t.Fatal("empty sink reported a frame")
	}
	s.Render("12", false)
	s.Render("1234567890", true)

	last, ok := s.Last()
	if !ok || last.Text != "1234567890" || !last.Compact {
		t.Errorf("unexpected last frame %+v", last)
	}
	if s.Len() != 2 {
		t.Errorf("expected 2 frames, got %d", s.Len())
	}
}
