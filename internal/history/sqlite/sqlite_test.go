package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/notedock/notedock/internal/history"
)

func TestNewRejectsEmptyDSN(t *testing.T) {
	if _, err := New("  "); err == nil {
		t.Fatalf("expected error for empty DSN")
	}
}

func TestSendAndQueryRoundTrip(t *testing.T) {
	s, err := New(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer func() { _ = s.Close() }()

	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)
	events := []history.Event{
		{Type: history.EventReap, OccurredAt: now, RunID: "run-1", PID: 111, Port: 4000},
		{Type: history.EventSpawn, OccurredAt: now, RunID: "run-1", PID: 5555, Port: 4000},
		{Type: history.EventShutdown, OccurredAt: now, RunID: "run-1", PID: 5555, Port: 4000, Detail: "signal"},
	}
	for _, e := range events {
		if err := s.Send(ctx, e); err != nil {
			t.Fatalf("Send(%s): %v", e.Type, err)
		}
	}

	got, err := s.Events(ctx, "run-1")
	if err != nil {
		t.Fatalf("Events: %v", err)
	}
	if len(got) != len(events) {
		t.Fatalf("got %d events, want %d", len(got), len(events))
	}
	if got[0].Type != history.EventReap || got[1].Type != history.EventSpawn {
		t.Fatalf("event order wrong: %v %v", got[0].Type, got[1].Type)
	}
	if got[2].Detail != "signal" {
		t.Fatalf("detail lost: %+v", got[2])
	}
}

func TestSqlitePrefixDSN(t *testing.T) {
	s, err := New("sqlite://" + filepath.Join(t.TempDir(), "h.db"))
	if err != nil {
		t.Fatalf("New with prefix: %v", err)
	}
	_ = s.Close()
}

func TestEventsOtherRunExcluded(t *testing.T) {
	s, err := New(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer func() { _ = s.Close() }()

	ctx := context.Background()
	_ = s.Send(ctx, history.Event{Type: history.EventSpawn, OccurredAt: time.Now(), RunID: "a", PID: 1, Port: 1})
	_ = s.Send(ctx, history.Event{Type: history.EventSpawn, OccurredAt: time.Now(), RunID: "b", PID: 2, Port: 2})

	got, err := s.Events(ctx, "a")
	if err != nil {
		t.Fatalf("Events: %v", err)
	}
	if len(got) != 1 || got[0].PID != 1 {
		t.Fatalf("unexpected events for run a: %+v", got)
	}
}
