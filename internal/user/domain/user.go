package domain

import "time"

// User is the person behind one or more accounts.
type User struct {
	ID        string
	Name      string
	Role      Role
	Type      string // e.g. INDIVIDUAL, ORGANIZATION
	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Role is the user's platform role. Only admins pass the elevated guard.
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

// Status is the user lifecycle state.
type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusPending   Status = "PENDING"
	StatusInactive  Status = "INACTIVE"
	StatusSuspended Status = "SUSPENDED"
	StatusDeleted   Status = "DELETED"
)

// AllowsAccess reports whether the status permits authentication.
// PENDING users may sign in; everything past that is locked out.
func (s Status) AllowsAccess() bool {
	return s == StatusActive || s == StatusPending
}
