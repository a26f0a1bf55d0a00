package domain

import (
	"time"

	userdomain "admin-console/api/internal/user/domain"
)

// Account is a login identity owned by a user. The bcrypt password hash lives
// here, not on the user.
type Account struct {
	ID        string
	UserID    string
	Name      string
	Email     string
	Hash      string // bcrypt hash; never returned to clients
	Role      Role
	Status    Status
	Timezone  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// AccountWithUser is an account joined with its owning user, as loaded in a
// single read by the repositories.
type AccountWithUser struct {
	Account Account
	User    userdomain.User
}

// Role is the account's role within its user's organisation.
type Role string

const (
	RoleOwner  Role = "OWNER"
	RoleMember Role = "MEMBER"
)

// Status is the account lifecycle state. It mirrors the user status values but
// is tracked independently: a user stays ACTIVE while one of their accounts is
// SUSPENDED.
type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusPending   Status = "PENDING"
	StatusInactive  Status = "INACTIVE"
	StatusSuspended Status = "SUSPENDED"
	StatusDeleted   Status = "DELETED"
)

// AllowsAccess reports whether the status permits authentication.
func (s Status) AllowsAccess() bool {
	return s == StatusActive || s == StatusPending
}
