package repository

import (
	"context"
	"time"

	"admin-console/api/internal/session/domain"
)

// Repository defines persistence for sessions. Expiry is always evaluated
// against the database clock so that every API instance agrees on validity.
type Repository interface {
	Create(ctx context.Context, s *domain.Session) error
	// FindActiveByTokenHash returns the unexpired session with the given token
	// hash joined with its account and user, or nil when no such session exists
	// or it has expired.
	FindActiveByTokenHash(ctx context.Context, tokenHash string) (*domain.AuthSession, error)
	// ExtendExpiry moves the session's expiry to newExpiry (sliding refresh).
	ExtendExpiry(ctx context.Context, sessionID string, newExpiry time.Time) error
	// InvalidateByTokenHash expires the session immediately. No-op when the token
	// hash is unknown; logout stays idempotent.
	InvalidateByTokenHash(ctx context.Context, tokenHash string) error
}
