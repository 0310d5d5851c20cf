package calculatorx

import (
	"context"
	"errors"
	"fmt"
)

// PhaseID identifies a macro state of the engine.
type PhaseID int

// SignalID identifies a chart-level signal.
type SignalID int

const (
	PhaseNormal PhaseID = iota + 1
	PhaseError
)

const (
	// SignalFault is raised when an evaluation fails.
	SignalFault SignalID = iota + 1
	// SignalExpire is raised when the auto-clear delay elapses.
	SignalExpire
	// SignalInput is raised when an accepted event arrives.
	SignalInput
)

var phaseNames = map[PhaseID]string{
	PhaseNormal: "normal",
	PhaseError:  "error",
}

func (p PhaseID) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return fmt.Sprintf("PhaseID(%d)", int(p))
}

func (p PhaseID) MarshalText() ([]byte, error) {
	name, ok := phaseNames[p]
	if !ok {
		return nil, fmt.Errorf("invalid phase %d", int(p))
	}
	return []byte(name), nil
}

func (p *PhaseID) UnmarshalText(text []byte) error {
	for id, name := range phaseNames {
		if name == string(text) {
			*p = id
			return nil
		}
	}
	return fmt.Errorf("unknown phase %q", text)
}

func (s SignalID) String() string {
	switch s {
	case SignalFault:
		return "fault"
	case SignalExpire:
		return "expire"
	case SignalInput:
		return "input"
	}
	return fmt.Sprintf("SignalID(%d)", int(s))
}

type Action func(ctx context.Context, sig SignalID, from PhaseID, to PhaseID) error

// Phase is a node of the macro chart.
type Phase struct {
	ID          PhaseID
	Transitions []*Transition
	EntryAction Action
	ExitAction  Action
	Initial     bool
}

type Transition struct {
	Signal SignalID
	Source *Phase
	Target *Phase // nil --> internal transition
	Action Action // nil --> do nothing
}

// Machine is a flat chart of phases.
type Machine struct {
	phases  map[PhaseID]*Phase
	order   []*Phase
	current *Phase
}

func (p *Phase) OnEntry(action Action) {
	p.EntryAction = action
}

func (p *Phase) OnExit(action Action) {
	p.ExitAction = action
}

func (p *Phase) On(sig SignalID, target *Phase, action Action) {
	p.Transitions = append(p.Transitions, &Transition{
		Signal: sig,
		Source: p,
		Target: target,
		Action: action,
	})
}

func NewMachine(phases ...*Phase) (*Machine, error) {
	if len(phases) == 0 {
		return nil, errors.New("no phases provided")
	}
	m := &Machine{phases: map[PhaseID]*Phase{}}

	var initial *Phase
	for _, p := range phases {
		if p == nil {
			return nil, errors.New("nil phase")
		}
		if _, exists := m.phases[p.ID]; exists {
			return nil, fmt.Errorf("duplicate phase %s", p.ID)
		}
		m.phases[p.ID] = p
		m.order = append(m.order, p)
		if p.Initial {
			if initial != nil {
				return nil, errors.New("more than one initial phase")
			}
			initial = p
		}
	}
	if initial == nil {
		initial = phases[0]
	}
	m.current = initial

	for _, p := range phases {
		for _, t := range p.Transitions {
			if t != nil && t.Source == nil {
				t.Source = p
			}
		}
	}
	return m, nil
}

// Current returns the active phase.
func (m *Machine) Current() PhaseID {
	return m.current.ID
}

// Phases returns the phases in declaration order.
func (m *Machine) Phases() []*Phase {
	return append([]*Phase(nil), m.order...)
}

// Start enters the initial phase.
func (m *Machine) Start(ctx context.Context) error {
	return m.current.enter(ctx, 0, m.current.ID, m.current.ID)
}

// Send fires the first transition of the current phase matching sig.
// Unmatched signals are ignored.
func (m *Machine) Send(ctx context.Context, sig SignalID) error {
	t := m.pickTransition(sig)
	if t == nil {
		return nil
	}
	next, err := t.fire(ctx, sig)
	if err != nil {
		return err
	}
	m.current = next
	return nil
}

// reset jumps to phase id without running actions. Used when restoring.
func (m *Machine) reset(id PhaseID) error {
	p, ok := m.phases[id]
	if !ok {
		return fmt.Errorf("unknown phase %s", id)
	}
	m.current = p
	return nil
}

func (m *Machine) pickTransition(sig SignalID) *Transition {
	for _, t := range m.current.Transitions {
		if t != nil && t.Signal == sig {
			return t
		}
	}
	return nil
}

func (p *Phase) enter(ctx context.Context, sig SignalID, from, to PhaseID) error {
	if p.EntryAction != nil {
		return p.EntryAction(ctx, sig, from, to)
	}
	return nil
}

func (p *Phase) exit(ctx context.Context, sig SignalID, from, to PhaseID) error {
	if p.ExitAction != nil {
		return p.ExitAction(ctx, sig, from, to)
	}
	return nil
}

// fire runs exit, transition action and entry, returning the resulting phase.
func (t *Transition) fire(ctx context.Context, sig SignalID) (*Phase, error) {
	if t.Target == nil {
		if t.Action != nil {
			if err := t.Action(ctx, sig, t.Source.ID, t.Source.ID); err != nil {
				return t.Source, err
			}
		}
		return t.Source, nil
	}

	from, to := t.Source.ID, t.Target.ID
	if err := t.Source.exit(ctx, sig, from, to); err != nil {
		return t.Source, err
	}
	if t.Action != nil {
		if err := t.Action(ctx, sig, from, to); err != nil {
			// Re-enter the source phase.
			if err := t.Source.enter(ctx, sig, from, from); err != nil {
				return t.Source, err
			}
			return t.Source, err
		}
	}
	if err := t.Target.enter(ctx, sig, from, to); err != nil {
		return t.Source, err
	}
	return t.Target, nil
}
