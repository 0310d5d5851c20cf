package core

import (
	"context"
	"errors"
	"time"

	"github.com/comalice/calculatorx"
)

var (
	ErrNotFound   = errors.New("session not found")
	ErrQueueFull  = errors.New("event queue full (backpressure)")
	ErrStopped    = errors.New("runtime stopped")
	ErrNotStarted = errors.New("runtime not started")
)

// Snapshot is the serializable state of one calculator session.
type Snapshot struct {
	SessionID string            `json:"sessionID" yaml:"sessionID"`
	State     calculatorx.State `json:"state" yaml:"state"`
	Display   string            `json:"display" yaml:"display"`
	Compact   bool              `json:"compact" yaml:"compact"`
	Timestamp time.Time         `json:"timestamp" yaml:"timestamp"`
}

// Metadata describes one processed event for publishers.
type Metadata struct {
	SessionID  string    `json:"sessionID" yaml:"sessionID"`
	Transition string    `json:"transition" yaml:"transition"`
	Trigger    string    `json:"trigger" yaml:"trigger"`
	Display    string    `json:"display" yaml:"display"`
	Timestamp  time.Time `json:"timestamp" yaml:"timestamp"`
}

// Pluggable component interfaces.

type Persister interface {
	Save(ctx context.Context, snapshot Snapshot) error
	// Load returns ErrNotFound (possibly wrapped) for unknown sessions.
	Load(ctx context.Context, sessionID string) (Snapshot, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event calculatorx.Event, metadata Metadata) error
	Close() error
}

type Visualizer interface {
	ExportDOT(machine *calculatorx.Machine, current calculatorx.PhaseID) string
}
