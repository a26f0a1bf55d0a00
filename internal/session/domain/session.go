package domain

import (
	"time"

	accountdomain "admin-console/api/internal/account/domain"
	userdomain "admin-console/api/internal/user/domain"
)

// Session represents a server-side login session. TokenHash is the SHA-256 hex
// digest of the cookie token secret; the raw secret is never persisted. A
// session is valid while ExpiresAt is in the future. Logout does not delete the
// row, it moves ExpiresAt to now.
type Session struct {
	ID        string
	AccountID string
	TokenHash string
	ExpiresAt time.Time
	// Request metadata captured at creation. Advisory only; not enforced.
	IP      string
	Agent   string
	Country string
	Org     string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// AuthSession is a session joined with its account and owning user, as loaded
// by the guard in a single read. The account hash is not populated.
type AuthSession struct {
	Session Session
	Account accountdomain.Account
	User    userdomain.User
}
