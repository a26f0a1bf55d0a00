package repository

import (
	"context"

	"admin-console/api/internal/account/domain"
)

// ListParams controls the paginated account listing. Limit and Offset are
// row-level; SortField must be one of the whitelisted columns and SortDesc
// picks the direction.
type ListParams struct {
	Limit     int32
	Offset    int32
	SortField string
	SortDesc  bool
	// Filter matches name or email case-insensitively when non-empty.
	Filter string
}

// Repository defines persistence for accounts.
type Repository interface {
	// GetByEmailWithUser returns the account with the given email joined with its
	// owning user, or nil if not found.
	GetByEmailWithUser(ctx context.Context, email string) (*domain.AccountWithUser, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, a *domain.Account) error
	// ListWithUsers returns one page of accounts joined with their users plus the
	// total row count for the applied filter.
	ListWithUsers(ctx context.Context, p ListParams) ([]*domain.AccountWithUser, int64, error)
}
