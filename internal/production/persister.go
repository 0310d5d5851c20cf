// Package production provides production integrations: persistence, event publishing, visualization.
package production

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/comalice/calculatorx/internal/core"
)

// Persister kinds accepted by OpenPersister.
const (
	StoreNone   = "none"
	StoreJSON   = "json"
	StoreYAML   = "yaml"
	StoreSQLite = "sqlite"
)

// sqliteFile is the database file name used by OpenPersister under dir.
const sqliteFile = "sessions.db"

// JSONPersister is a file-based persister writing one JSON document per session.
type JSONPersister struct {
	dir string
}

// NewJSONPersister creates a JSONPersister, ensuring the directory exists.
func NewJSONPersister(dir string) (*JSONPersister, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return &JSONPersister{dir: dir}, nil
}

func (p *JSONPersister) Save(ctx context.Context, snapshot core.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	return writeSessionFile(p.dir, snapshot.SessionID, ".json", data)
}

func (p *JSONPersister) Load(ctx context.Context, sessionID string) (core.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return core.Snapshot{}, err
	}
	data, err := readSessionFile(p.dir, sessionID, ".json")
	if err != nil {
		return core.Snapshot{}, err
	}

	var snapshot core.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return core.Snapshot{}, fmt.Errorf("json unmarshal: %w", err)
	}
	snapshot.SessionID = sessionID
	if err := snapshot.State.Validate(); err != nil {
		return core.Snapshot{}, fmt.Errorf("state validation after load: %w", err)
	}
	return snapshot, nil
}

// YAMLPersister is a file-based persister writing one YAML document per session.
type YAMLPersister struct {
	dir string
}

// NewYAMLPersister creates a YAMLPersister, ensuring the directory exists.
func NewYAMLPersister(dir string) (*YAMLPersister, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return &YAMLPersister{dir: dir}, nil
}

func (p *YAMLPersister) Save(ctx context.Context, snapshot core.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := yaml.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("yaml marshal: %w", err)
	}
	return writeSessionFile(p.dir, snapshot.SessionID, ".yaml", data)
}

func (p *YAMLPersister) Load(ctx context.Context, sessionID string) (core.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return core.Snapshot{}, err
	}
	data, err := readSessionFile(p.dir, sessionID, ".yaml")
	if err != nil {
		return core.Snapshot{}, err
	}

	var snapshot core.Snapshot
	if err := yaml.Unmarshal(data, &snapshot); err != nil {
		return core.Snapshot{}, fmt.Errorf("yaml unmarshal: %w", err)
	}
	snapshot.SessionID = sessionID
	if err := snapshot.State.Validate(); err != nil {
		return core.Snapshot{}, fmt.Errorf("state validation after load: %w", err)
	}
	return snapshot, nil
}

func sessionFile(dir, sessionID, ext string) (string, error) {
	if strings.TrimSpace(sessionID) == "" {
		return "", fmt.Errorf("session id is required")
	}
	if sessionID != filepath.Base(sessionID) || sessionID == "." || sessionID == ".." {
		return "", fmt.Errorf("invalid session id %q", sessionID)
	}
	return filepath.Join(dir, sessionID+ext), nil
}

func writeSessionFile(dir, sessionID, ext string, data []byte) error {
	fn, err := sessionFile(dir, sessionID, ext)
	if err != nil {
		return err
	}
	// Write then rename so a crash never leaves a truncated session.
	tmp := fn + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, fn); err != nil {
		return fmt.Errorf("rename %s: %w", tmp, err)
	}
	return nil
}

func readSessionFile(dir, sessionID, ext string) ([]byte, error) {
	fn, err := sessionFile(dir, sessionID, ext)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(fn)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("session %q: %w", sessionID, core.ErrNotFound)
		}
		return nil, fmt.Errorf("read %s: %w", fn, err)
	}
	return data, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// OpenPersister builds the persister named by kind, storing under dir.
// The returned closer must be closed on shutdown. Kind "none" (or "")
// yields a nil persister.
func OpenPersister(kind, dir string) (core.Persister, io.Closer, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", StoreNone:
		return nil, nopCloser{}, nil
	case StoreJSON:
		p, err := NewJSONPersister(dir)
		if err != nil {
			return nil, nil, err
		}
		return p, nopCloser{}, nil
	case StoreYAML:
		p, err := NewYAMLPersister(dir)
		if err != nil {
			return nil, nil, err
		}
		return p, nopCloser{}, nil
	case StoreSQLite:
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("mkdir %s: %w", dir, err)
		}
		p, err := OpenSQLitePersister(filepath.Join(dir, sqliteFile))
		if err != nil {
			return nil, nil, err
		}
		return p, p, nil
	}
	return nil, nil, fmt.Errorf("unknown store kind %q (want none, json, yaml or sqlite)", kind)
}
