package server

import (
	"context"
	"time"

	accountdomain "admin-console/api/internal/account/domain"
	userdomain "admin-console/api/internal/user/domain"
)

type contextKey struct{ name string }

var identityKey = contextKey{"identity"}

// SessionMeta is the session portion of an authenticated identity. TokenHash is
// what logout invalidates; the raw cookie secret never reaches handlers.
type SessionMeta struct {
	ID        string
	TokenHash string
	ExpiresAt time.Time
	IP        string
	Agent     string
	Country   string
	Org       string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Identity is what the session guard attaches to the request context after all
// gates pass. The account hash is not populated.
type Identity struct {
	User    userdomain.User
	Account accountdomain.Account
	Session SessionMeta
}

// WithIdentity returns a context carrying the authenticated identity.
// Handlers behind the guard read it via IdentityFrom.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFrom returns the identity from context and true if set; otherwise nil, false.
func IdentityFrom(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(identityKey).(*Identity)
	return id, ok
}
