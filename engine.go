package calculatorx

import (
	"context"
	"io"
	"log"
	"math"
	"strings"
	"sync"
	"time"
)

// DefaultErrorDelay is how long the Error display stays up before the
// engine clears itself.
const DefaultErrorDelay = 1500 * time.Millisecond

// Engine is the calculator's input/state machine. It turns symbolic events
// into state changes and reports the display to its Sink after each one.
//
// Engine is safe for concurrent use; events are applied one at a time.
// The Sink is invoked while the engine is locked and must not call back
// into it. Clock implementations must not run callbacks synchronously
// from AfterFunc.
type Engine struct {
	mu      sync.Mutex
	state   State
	machine *Machine

	clock  Clock
	delay  time.Duration
	sink   Sink
	logger *log.Logger

	// timer is the pending auto-clear, if any. gen invalidates callbacks
	// from timers that were cancelled but already fired.
	timer Timer
	gen   uint64
}

// Option configures an Engine.
type Option func(*Engine)

// WithSink sets the output sink.
func WithSink(s Sink) Option {
	return func(e *Engine) {
		if s != nil {
			e.sink = s
		}
	}
}

// WithClock sets the clock used for the Error auto-clear.
func WithClock(c Clock) Option {
	return func(e *Engine) {
		if c != nil {
			e.clock = c
		}
	}
}

// WithErrorDelay sets how long the Error display is held.
func WithErrorDelay(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.delay = d
		}
	}
}

// WithLogger sets the logger for phase changes.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// New returns an engine in the reset state.
func New(opts ...Option) *Engine {
	e := &Engine{
		state:  NewState(),
		clock:  SystemClock,
		delay:  DefaultErrorDelay,
		sink:   discardSink{},
		logger: log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.machine = e.newMachine()
	return e
}

// newMachine wires the Normal/Error chart. Entering Error arms the
// auto-clear; leaving it, for any reason, disarms it.
func (e *Engine) newMachine() *Machine {
	normal := &Phase{ID: PhaseNormal, Initial: true}
	failed := &Phase{ID: PhaseError}

	normal.On(SignalFault, failed, nil)
	failed.On(SignalExpire, normal, e.reset)
	failed.On(SignalInput, normal, e.reset)
	failed.OnEntry(e.armAutoClear)
	failed.OnExit(e.disarmAutoClear)

	m, err := NewMachine(normal, failed)
	if err != nil {
		panic(err)
	}
	return m
}

// HandleEvent applies ev and returns the resulting state. Unrecognized
// events are ignored and do not render.
func (e *Engine) HandleEvent(ev Event) State {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !ev.Valid() {
		return e.snapshot()
	}
	if e.machine.Current() == PhaseError {
		// Any accepted input clears the error before it is applied.
		e.signal(SignalInput)
	}
	if err := e.apply(ev); err != nil {
		e.logger.Printf("%s: %v", ev, err)
		e.signal(SignalFault)
	}
	e.render()
	return e.snapshot()
}

// State returns a copy of the current state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshot()
}

// Phase returns the active macro state.
func (e *Engine) Phase() PhaseID {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.machine.Current()
}

// Machine exposes the macro chart for inspection. Its structure is fixed
// after New; use Phase for the active phase.
func (e *Engine) Machine() *Machine {
	return e.machine
}

// Restore replaces the engine state. A state captured in the Error phase
// restores as the reset state, since its auto-clear has lapsed.
func (e *Engine) Restore(s State) error {
	if err := s.Validate(); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	e.disarm()
	if err := e.machine.reset(PhaseNormal); err != nil {
		return err
	}
	if s.Phase == PhaseError {
		s = NewState()
	}
	s.Phase = PhaseNormal
	e.state = s
	e.render()
	return nil
}

// Close cancels a pending auto-clear. The engine stays usable.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.disarm()
}

func (e *Engine) snapshot() State {
	s := e.state
	s.Phase = e.machine.Current()
	return s
}

func (e *Engine) render() {
	text, compact := e.snapshot().Display()
	e.sink.Render(text, compact)
}

func (e *Engine) signal(sig SignalID) {
	from := e.machine.Current()
	if err := e.machine.Send(context.Background(), sig); err != nil {
		e.logger.Printf("signal %s in %s: %v", sig, from, err)
		return
	}
	if to := e.machine.Current(); to != from {
		e.logger.Printf("%s -> %s (%s)", from, to, sig)
	}
}

func (e *Engine) reset(context.Context, SignalID, PhaseID, PhaseID) error {
	e.state = NewState()
	return nil
}

func (e *Engine) armAutoClear(context.Context, SignalID, PhaseID, PhaseID) error {
	e.disarm()
	gen := e.gen
	e.timer = e.clock.AfterFunc(e.delay, func() { e.expire(gen) })
	return nil
}

func (e *Engine) disarmAutoClear(context.Context, SignalID, PhaseID, PhaseID) error {
	e.disarm()
	return nil
}

func (e *Engine) disarm() {
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	e.gen++
}

func (e *Engine) expire(gen uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if gen != e.gen || e.machine.Current() != PhaseError {
		return
	}
	e.timer = nil
	e.signal(SignalExpire)
	e.render()
}

func (e *Engine) apply(ev Event) error {
	switch ev.Kind {
	case EventDigit:
		e.inputDigit(ev.Digit)
	case EventDecimal:
		e.inputDecimal()
	case EventSignToggle:
		e.toggleSign()
	case EventPercent:
		e.state.Current = FormatNumber(ParseNumber(e.state.Current) / 100)
	case EventOperator:
		return e.setOperator(ev.Op)
	case EventEquals:
		return e.evaluate()
	case EventClear:
		e.state = NewState()
	case EventBackspace:
		e.backspace()
	}
	return nil
}

func (e *Engine) inputDigit(d byte) {
	s := &e.state
	if s.AwaitingNewEntry {
		s.Current = string(d)
		s.AwaitingNewEntry = false
		return
	}
	if len(s.Current) >= MaxInputLength {
		return
	}
	if s.Current == "0" {
		s.Current = string(d)
		return
	}
	s.Current += string(d)
}

func (e *Engine) inputDecimal() {
	s := &e.state
	if strings.Contains(s.Current, ".") {
		return
	}
	if s.AwaitingNewEntry {
		s.Current = "0."
		s.AwaitingNewEntry = false
		return
	}
	if len(s.Current) >= MaxInputLength {
		return
	}
	s.Current += "."
}

func (e *Engine) toggleSign() {
	s := &e.state
	if s.Current == "0" {
		return
	}
	if rest, ok := strings.CutPrefix(s.Current, "-"); ok {
		s.Current = rest
		return
	}
	s.Current = "-" + s.Current
}

func (e *Engine) backspace() {
	s := &e.state
	if len(s.Current) > 1 {
		s.Current = s.Current[:len(s.Current)-1]
		return
	}
	s.Current = "0"
}

// setOperator chains: a pending operation with a fresh second operand is
// evaluated before the new operator is recorded.
func (e *Engine) setOperator(op Operator) error {
	s := &e.state
	if s.Operator != OpNone && !s.AwaitingNewEntry {
		if err := e.evaluate(); err != nil {
			return err
		}
	}
	s.Previous = s.Current
	s.Operator = op
	s.AwaitingNewEntry = true
	return nil
}

func (e *Engine) evaluate() error {
	s := &e.state
	if s.Operator == OpNone || s.AwaitingNewEntry {
		return nil
	}
	r, err := Compute(s.Operator, ParseNumber(s.Previous), ParseNumber(s.Current))
	if err != nil {
		return err
	}
	s.Current = FormatResult(r)
	s.Previous = ""
	s.Operator = OpNone
	s.AwaitingNewEntry = true
	return nil
}

// Compute applies op to a and b.
func Compute(op Operator, a, b float64) (float64, error) {
	var r float64
	switch op {
	case OpAdd:
		r = a + b
	case OpSub:
		r = a - b
	case OpMul:
		r = a * b
	case OpDiv:
		if b == 0 {
			return 0, ErrDivisionByZero
		}
		r = a / b
	default:
		return 0, nil
	}
	if math.IsInf(r, 0) || math.IsNaN(r) {
		return 0, ErrOutOfRange
	}
	return r, nil
}
