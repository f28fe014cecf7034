// Package sqlite persists lifecycle events to an embedded SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/notedock/notedock/internal/history"
)

// Sink writes lifecycle events to a SQLite database.
type Sink struct {
	db *sql.DB
}

// New creates a SQLite sink. DSN accepts a plain file path, ":memory:",
// or a "sqlite://" prefixed form.
func New(dsn string) (*Sink, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, errors.New("empty SQLite DSN")
	}
	if strings.HasPrefix(strings.ToLower(dsn), "sqlite://") {
		dsn = dsn[len("sqlite://"):]
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	s := &Sink{db: db}
	if err := s.ensureSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Sink) ensureSchema(ctx context.Context) error {
	stmt := `CREATE TABLE IF NOT EXISTS shell_history(
		occurred_at TIMESTAMP NOT NULL DEFAULT (CURRENT_TIMESTAMP),
		run_id TEXT NOT NULL,
		event TEXT NOT NULL,
		pid INTEGER NOT NULL,
		port INTEGER NOT NULL,
		detail TEXT
	);`
	_, err := s.db.ExecContext(ctx, stmt)
	return err
}

// Send implements history.Sink.
func (s *Sink) Send(ctx context.Context, e history.Event) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO shell_history(occurred_at, run_id, event, pid, port, detail) VALUES(?,?,?,?,?,?)`,
		e.OccurredAt, e.RunID, string(e.Type), e.PID, e.Port, e.Detail)
	return err
}

// Events returns all recorded events for a run, oldest first. Used by tests
// and diagnostics.
func (s *Sink) Events(ctx context.Context, runID string) ([]history.Event, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT occurred_at, run_id, event, pid, port, COALESCE(detail,'') FROM shell_history WHERE run_id = ? ORDER BY rowid`, runID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []history.Event
	for rows.Next() {
		var e history.Event
		var typ string
		if err := rows.Scan(&e.OccurredAt, &e.RunID, &typ, &e.PID, &e.Port, &e.Detail); err != nil {
			return nil, err
		}
		e.Type = history.EventType(typ)
		out = append(out, e)
	}
	return out, rows.Err()
}

// Close releases the database handle.
func (s *Sink) Close() error { return s.db.Close() }
