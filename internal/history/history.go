// Package history defines the audit trail of shell lifecycle events.
package history

import (
	"context"
	"time"
)

// EventType defines the kind of lifecycle event.
type EventType string

const (
	EventReap      EventType = "reap"
	EventSpawn     EventType = "spawn"
	EventTerminate EventType = "terminate"
	EventShutdown  EventType = "shutdown"
)

// Event records one lifecycle transition of a shell run.
type Event struct {
	Type       EventType `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	RunID      string    `json:"run_id"`
	PID        int       `json:"pid"`
	Port       int       `json:"port"`
	Detail     string    `json:"detail,omitempty"`
}

// Sink is a destination for lifecycle events. Implementations must be safe
// for concurrent use. Sink failures are logged by callers, never escalated;
// the audit trail is advisory.
type Sink interface {
	Send(ctx context.Context, e Event) error
	Close() error
}
