package calculatorx

import (
	"errors"
	"fmt"
)

// EventKind identifies a symbolic calculator input.
type EventKind int

const (
	EventUnknown EventKind = iota
	EventDigit
	EventDecimal
	EventOperator
	EventEquals
	EventClear
	EventBackspace
	EventSignToggle
	EventPercent
)

var eventKindNames = [...]string{
	EventUnknown:    "unknown",
	EventDigit:      "digit",
	EventDecimal:    "decimal",
	EventOperator:   "operator",
	EventEquals:     "equals",
	EventClear:      "clear",
	EventBackspace:  "backspace",
	EventSignToggle: "sign-toggle",
	EventPercent:    "percent",
}

func (k EventKind) String() string {
	if k < 0 || int(k) >= len(eventKindNames) {
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
	return eventKindNames[k]
}

// Operator is a pending binary operation.
type Operator int

const (
	OpNone Operator = iota
	OpAdd
	OpSub
	OpMul
	OpDiv
)

var operatorNames = [...]string{
	OpNone: "none",
	OpAdd:  "add",
	OpSub:  "sub",
	OpMul:  "mul",
	OpDiv:  "div",
}

var operatorSymbols = [...]string{
	OpNone: "",
	OpAdd:  "+",
	OpSub:  "-",
	OpMul:  "*",
	OpDiv:  "/",
}

func (o Operator) valid() bool {
	return o >= OpNone && int(o) < len(operatorNames)
}

func (o Operator) String() string {
	if !o.valid() {
		return fmt.Sprintf("Operator(%d)", int(o))
	}
	return operatorNames[o]
}

// Symbol returns the key that produces the operator ("" for OpNone).
func (o Operator) Symbol() string {
	if !o.valid() {
		return "?"
	}
	return operatorSymbols[o]
}

func (o Operator) MarshalText() ([]byte, error) {
	if !o.valid() {
		return nil, fmt.Errorf("invalid operator %d", int(o))
	}
	return []byte(operatorNames[o]), nil
}

func (o *Operator) UnmarshalText(text []byte) error {
	for i, name := range operatorNames {
		if name == string(text) {
			*o = Operator(i)
			return nil
		}
	}
	return fmt.Errorf("unknown operator %q", text)
}

// Event is one symbolic input delivered by an input adapter.
// Digit is only meaningful for EventDigit and Op only for EventOperator.
type Event struct {
	Kind  EventKind
	Digit byte
	Op    Operator
}

// Digit returns the event for digit d. Values outside 0-9 yield an
// unrecognized event.
func Digit(d int) Event {
	if d < 0 || d > 9 {
		return Event{}
	}
	return Event{Kind: EventDigit, Digit: byte('0' + d)}
}

func Decimal() Event    { return Event{Kind: EventDecimal} }
func Equals() Event     { return Event{Kind: EventEquals} }
func Clear() Event      { return Event{Kind: EventClear} }
func Backspace() Event  { return Event{Kind: EventBackspace} }
func SignToggle() Event { return Event{Kind: EventSignToggle} }
func Percent() Event    { return Event{Kind: EventPercent} }

// Op returns the event selecting binary operator o.
func Op(o Operator) Event {
	if o == OpNone || !o.valid() {
		return Event{}
	}
	return Event{Kind: EventOperator, Op: o}
}

// Valid reports whether the engine recognizes the event.
func (e Event) Valid() bool {
	switch e.Kind {
	case EventDigit:
		return e.Digit >= '0' && e.Digit <= '9'
	case EventOperator:
		return e.Op != OpNone && e.Op.valid()
	case EventDecimal, EventEquals, EventClear, EventBackspace, EventSignToggle, EventPercent:
		return true
	}
	return false
}

func (e Event) String() string {
	switch e.Kind {
	case EventDigit:
		return "digit(" + string(e.Digit) + ")"
	case EventOperator:
		return "operator(" + e.Op.String() + ")"
	}
	return e.Kind.String()
}

var (
	// ErrDivisionByZero is raised by Equals when dividing by zero. It never
	// escapes the engine; it drives the Error phase.
	ErrDivisionByZero = errors.New("division by zero")
	// ErrOutOfRange marks an evaluation whose result is not finite.
	ErrOutOfRange = errors.New("result out of range")
)
