// Package telemetry defines the event type and emitter interface used for
// best-effort auth telemetry (logins, refreshes, rejections).
package telemetry

import (
	"context"
	"time"
)

// Event is a single telemetry event. AccountID is required for account-scoped
// events; the other IDs are optional.
type Event struct {
	AccountID string
	UserID    string
	SessionID string
	EventType string
	Source    string
	Metadata  []byte // JSON
	CreatedAt time.Time
}

// EventEmitter emits telemetry events (e.g. to OTel Logs). Best-effort; callers log and ignore errors.
type EventEmitter interface {
	Emit(ctx context.Context, event *Event) error
}
