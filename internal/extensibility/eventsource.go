// Package extensibility holds input and output adapters for the engine.
package extensibility

import (
	"bufio"
	"io"
	"sync"

	"github.com/comalice/calculatorx"
)

// ParseTokens translates one whitespace-free token into events. Named keys
// ("Enter", "Escape", "Backspace") and control names ("digit-7", "negate")
// match whole; anything else is read rune by rune as single keys, with "n"
// toggling the sign. Unrecognized runes are dropped.
func ParseTokens(token string) []calculatorx.Event {
	if ev, ok := parseOne(token); ok {
		return []calculatorx.Event{ev}
	}
	var events []calculatorx.Event
	for _, r := range token {
		if ev, ok := parseOne(string(r)); ok {
			events = append(events, ev)
		}
	}
	return events
}

func parseOne(key string) (calculatorx.Event, bool) {
	if ev, ok := calculatorx.ParseKey(key); ok {
		return ev, true
	}
	if ev, ok := calculatorx.ParseControl(key); ok {
		return ev, true
	}
	if key == "n" || key == "N" {
		return calculatorx.SignToggle(), true
	}
	return calculatorx.Event{}, false
}

// KeyReaderSource reads whitespace-separated key tokens from a stream, such
// as a terminal, and emits the corresponding events. The channel is closed
// at end of input or after Stop.
type KeyReaderSource struct {
	ch       chan calculatorx.Event
	stop     chan struct{}
	stopOnce sync.Once

	mu  sync.Mutex
	err error
}

// NewKeyReaderSource starts reading r in a goroutine. buffer sizes the
// event channel.
func NewKeyReaderSource(r io.Reader, buffer int) *KeyReaderSource {
	if buffer < 0 {
		buffer = 0
	}
	s := &KeyReaderSource{
		ch:   make(chan calculatorx.Event, buffer),
		stop: make(chan struct{}),
	}
	go s.run(r)
	return s
}

func (s *KeyReaderSource) run(r io.Reader) {
	defer close(s.ch)
	scanner := bufio.NewScanner(r)
	scanner.Split(bufio.ScanWords)
	for scanner.Scan() {
		for _, ev := range ParseTokens(scanner.Text()) {
			select {
			case s.ch <- ev:
			case <-s.stop:
				return
			}
		}
	}
	if err := scanner.Err(); err != nil {
		s.mu.Lock()
		s.err = err
		s.mu.Unlock()
	}
}

// Events returns the event channel.
func (s *KeyReaderSource) Events() <-chan calculatorx.Event {
	return s.ch
}

// Err reports the read error that ended the stream, if any. It is only
// meaningful once Events is closed.
func (s *KeyReaderSource) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Stop stops delivering events. A read already blocked on the underlying
// reader is not interrupted.
func (s *KeyReaderSource) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
}
