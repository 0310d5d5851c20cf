package extensibility

import (
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/comalice/calculatorx"
)

// DisplayWidth is the number of columns WriterSink right-aligns into.
const DisplayWidth = calculatorx.MaxInputLength

// WriterSink renders each frame as one line on w, right-aligned like a
// calculator display. Compact frames are marked with a trailing "~".
type WriterSink struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterSink creates a WriterSink writing to w.
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

func (s *WriterSink) Render(text string, compact bool) {
	mark := ""
	if compact {
		mark = " ~"
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.w, "[%*s]%s\n", DisplayWidth, text, mark)
}

// LoggingSink wraps a Sink and logs every frame.
type LoggingSink struct {
	inner  calculatorx.Sink
	logger *log.Logger
}

// NewLoggingSink creates a LoggingSink around inner. A nil logger logs
// through the standard logger.
func NewLoggingSink(inner calculatorx.Sink, logger *log.Logger) *LoggingSink {
	if logger == nil {
		logger = log.Default()
	}
	return &LoggingSink{inner: inner, logger: logger}
}

// Render logs before and after delegating to the inner sink.
func (s *LoggingSink) Render(text string, compact bool) {
	s.logger.Printf("render %q compact=%t", text, compact)
	start := time.Now()
	s.inner.Render(text, compact)
	s.logger.Printf("render %q completed in %v", text, time.Since(start))
}
