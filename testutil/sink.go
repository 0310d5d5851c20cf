package testutil

import (
	"sync"

	"github.com/comalice/calculatorx"
)

// Frame is one rendered display.
type Frame struct {
	Text    string
	Compact bool
}

// RecordingSink keeps every frame it is asked to render.
type RecordingSink struct {
	mu     sync.Mutex
	frames []Frame
}

var _ calculatorx.Sink = (*RecordingSink)(nil)

func (s *RecordingSink) Render(text string, compact bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frames = append(s.frames, Frame{Text: text, Compact: compact})
}

// Frames returns a copy of the recorded frames.
func (s *RecordingSink) Frames() []Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Frame(nil), s.frames...)
}

// Last returns the most recent frame; ok is false if nothing was rendered.
func (s *RecordingSink) Last() (Frame, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.frames) == 0 {
		return Frame{}, false
	}
	return s.frames[len(s.frames)-1], true
}

// Len returns the number of recorded frames.
func (s *RecordingSink) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.frames)
}
