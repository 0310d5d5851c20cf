package calculatorx

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

// ErrorText is the display shown while the engine is in the Error phase.
const ErrorText = "Error"

var editPattern = regexp.MustCompile(`^-?\d*\.?\d*$`)

// State is the calculator's numeric state together with its macro phase.
type State struct {
	Current          string   `json:"current" yaml:"current"`
	Previous         string   `json:"previous,omitempty" yaml:"previous,omitempty"`
	Operator         Operator `json:"operator" yaml:"operator"`
	AwaitingNewEntry bool     `json:"awaitingNewEntry" yaml:"awaitingNewEntry"`
	Phase            PhaseID  `json:"phase" yaml:"phase"`
}

// NewState returns the reset state.
func NewState() State {
	return State{
		Current:          "0",
		AwaitingNewEntry: true,
		Phase:            PhaseNormal,
	}
}

// Display returns the text an output sink should render and whether it
// should use the compact size class.
func (s State) Display() (string, bool) {
	text := s.Current
	if s.Phase == PhaseError {
		text = ErrorText
	}
	return text, len(text) > CompactThreshold
}

// Pending reports whether a binary operation awaits its second operand.
func (s State) Pending() bool {
	return s.Operator != OpNone
}

// Validate checks the structural invariants of the state.
func (s State) Validate() error {
	if s.Current == "" {
		return errors.New("current value is empty")
	}
	if !editPattern.MatchString(s.Current) {
		if _, err := strconv.ParseFloat(s.Current, 64); err != nil {
			return fmt.Errorf("current value %q is not numeric", s.Current)
		}
	}
	if !s.Operator.valid() {
		return fmt.Errorf("invalid operator %d", int(s.Operator))
	}
	if (s.Previous == "") == s.Pending() {
		return fmt.Errorf("previous %q inconsistent with operator %s", s.Previous, s.Operator)
	}
	if s.Phase != 0 && s.Phase != PhaseNormal && s.Phase != PhaseError {
		return fmt.Errorf("invalid phase %d", int(s.Phase))
	}
	return nil
}
