package production

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/comalice/calculatorx"
	"github.com/comalice/calculatorx/internal/core"
	"github.com/comalice/calculatorx/internal/production/migrations"
)

// SQLitePersister stores one row per session in calculator_sessions.
type SQLitePersister struct {
	sqlDB *sql.DB
}

// OpenSQLitePersister opens the database at path and applies embedded
// migrations.
func OpenSQLitePersister(path string) (*SQLitePersister, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(context.Background(), sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &SQLitePersister{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (p *SQLitePersister) Close() error {
	if p == nil || p.sqlDB == nil {
		return nil
	}
	return p.sqlDB.Close()
}

func (p *SQLitePersister) Save(ctx context.Context, snapshot core.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if p == nil || p.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	sessionID := strings.TrimSpace(snapshot.SessionID)
	if sessionID == "" {
		return fmt.Errorf("session id is required")
	}
	st := snapshot.State
	op, err := st.Operator.MarshalText()
	if err != nil {
		return err
	}
	phase := st.Phase
	if phase == 0 {
		phase = calculatorx.PhaseNormal
	}
	ph, err := phase.MarshalText()
	if err != nil {
		return err
	}
	updatedAt := snapshot.Timestamp
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}

	_, err = p.sqlDB.ExecContext(
		ctx,
		`INSERT INTO calculator_sessions (
		   session_id,
		   current_value,
		   previous_value,
		   operator,
		   awaiting_new_entry,
		   phase,
		   display,
		   compact,
		   updated_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(session_id) DO UPDATE SET
		   current_value = excluded.current_value,
		   previous_value = excluded.previous_value,
		   operator = excluded.operator,
		   awaiting_new_entry = excluded.awaiting_new_entry,
		   phase = excluded.phase,
		   display = excluded.display,
		   compact = excluded.compact,
		   updated_at = excluded.updated_at`,
		sessionID,
		st.Current,
		st.Previous,
		string(op),
		st.AwaitingNewEntry,
		string(ph),
		snapshot.Display,
		snapshot.Compact,
		updatedAt.UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("save session %q: %w", sessionID, err)
	}
	return nil
}

func (p *SQLitePersister) Load(ctx context.Context, sessionID string) (core.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return core.Snapshot{}, err
	}
	if p == nil || p.sqlDB == nil {
		return core.Snapshot{}, fmt.Errorf("storage is not configured")
	}
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return core.Snapshot{}, fmt.Errorf("session id is required")
	}

	row := p.sqlDB.QueryRowContext(
		ctx,
		`SELECT current_value, previous_value, operator, awaiting_new_entry,
		        phase, display, compact, updated_at
		   FROM calculator_sessions
		  WHERE session_id = ?`,
		sessionID,
	)

	snapshot := core.Snapshot{SessionID: sessionID}
	var op, phase string
	var updatedAt int64
	err := row.Scan(
		&snapshot.State.Current,
		&snapshot.State.Previous,
		&op,
		&snapshot.State.AwaitingNewEntry,
		&phase,
		&snapshot.Display,
		&snapshot.Compact,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Snapshot{}, fmt.Errorf("session %q: %w", sessionID, core.ErrNotFound)
		}
		return core.Snapshot{}, fmt.Errorf("load session %q: %w", sessionID, err)
	}
	if err := snapshot.State.Operator.UnmarshalText([]byte(op)); err != nil {
		return core.Snapshot{}, fmt.Errorf("load session %q: %w", sessionID, err)
	}
	if err := snapshot.State.Phase.UnmarshalText([]byte(phase)); err != nil {
		return core.Snapshot{}, fmt.Errorf("load session %q: %w", sessionID, err)
	}
	snapshot.Timestamp = time.UnixMilli(updatedAt).UTC()
	if err := snapshot.State.Validate(); err != nil {
		return core.Snapshot{}, fmt.Errorf("state validation after load: %w", err)
	}
	return snapshot, nil
}

// Sessions lists stored session ids in name order.
func (p *SQLitePersister) Sessions(ctx context.Context) ([]string, error) {
	if p == nil || p.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	rows, err := p.sqlDB.QueryContext(ctx, `SELECT session_id FROM calculator_sessions ORDER BY session_id`)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return ids, nil
}
