package domain

import "time"

// AuditLog represents one recorded auth event.
type AuditLog struct {
	ID        string
	AccountID string
	Action    string
	Resource  string
	IP        string
	Metadata  string
	CreatedAt time.Time
}
