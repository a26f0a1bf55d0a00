package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"admin-console/api/internal/account/domain"
)

// sortColumns whitelists the ORDER BY targets for ListWithUsers. Anything else
// falls back to created_at.
var sortColumns = map[string]string{
	"created_at": "a.created_at",
	"name":       "a.name",
	"email":      "a.email",
	"status":     "a.status",
}

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns an account repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// GetByEmailWithUser returns the account with the given email joined with its
// owning user, or nil if not found. It returns an error only for database
// failures, not for missing rows.
func (r *PostgresRepository) GetByEmailWithUser(ctx context.Context, email string) (*domain.AccountWithUser, error) {
	const q = `
		SELECT a.id, a.user_id, a.name, a.email, a.hash, a.role, a.status, a.timezone,
		       a.created_at, a.updated_at,
		       u.id, u.name, u.role, u.type, u.status, u.created_at, u.updated_at
		FROM user_accounts a
		JOIN users u ON u.id = a.user_id
		WHERE a.email = $1`

	var aw domain.AccountWithUser
	err := r.db.QueryRowContext(ctx, q, email).Scan(
		&aw.Account.ID, &aw.Account.UserID, &aw.Account.Name, &aw.Account.Email,
		&aw.Account.Hash, &aw.Account.Role, &aw.Account.Status, &aw.Account.Timezone,
		&aw.Account.CreatedAt, &aw.Account.UpdatedAt,
		&aw.User.ID, &aw.User.Name, &aw.User.Role, &aw.User.Type, &aw.User.Status,
		&aw.User.CreatedAt, &aw.User.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &aw, nil
}

// ExistsByEmail reports whether an account with the given email exists.
func (r *PostgresRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM user_accounts WHERE email = $1)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, q, email).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// Create persists the account to the database. The account must have ID set.
func (r *PostgresRepository) Create(ctx context.Context, a *domain.Account) error {
	const q = `
		INSERT INTO user_accounts (id, user_id, name, email, hash, role, status, timezone, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.ExecContext(ctx, q,
		a.ID, a.UserID, a.Name, a.Email, a.Hash, a.Role, a.Status, a.Timezone,
		a.CreatedAt, a.UpdatedAt,
	)
	return err
}

// ListWithUsers returns one page of accounts joined with their users plus the
// total row count for the applied filter.
func (r *PostgresRepository) ListWithUsers(ctx context.Context, p ListParams) ([]*domain.AccountWithUser, int64, error) {
	col, ok := sortColumns[p.SortField]
	if !ok {
		col = "a.created_at"
		p.SortDesc = true
	}
	dir := "ASC"
	if p.SortDesc {
		dir = "DESC"
	}

	noFilter := p.Filter == ""
	filter := "%" + p.Filter + "%"

	const countQ = `
		SELECT count(*)
		FROM user_accounts a
		WHERE $1 OR a.name ILIKE $2 OR a.email ILIKE $2`
	var total int64
	if err := r.db.QueryRowContext(ctx, countQ, noFilter, filter).Scan(&total); err != nil {
		return nil, 0, err
	}

	listQ := fmt.Sprintf(`
		SELECT a.id, a.user_id, a.name, a.email, a.role, a.status, a.timezone,
		       a.created_at, a.updated_at,
		       u.id, u.name, u.role, u.type, u.status, u.created_at, u.updated_at
		FROM user_accounts a
		JOIN users u ON u.id = a.user_id
		WHERE $1 OR a.name ILIKE $2 OR a.email ILIKE $2
		ORDER BY %s %s
		LIMIT $3 OFFSET $4`, col, dir)

	rows, err := r.db.QueryContext(ctx, listQ, noFilter, filter, p.Limit, p.Offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*domain.AccountWithUser
	for rows.Next() {
		var aw domain.AccountWithUser
		if err := rows.Scan(
			&aw.Account.ID, &aw.Account.UserID, &aw.Account.Name, &aw.Account.Email,
			&aw.Account.Role, &aw.Account.Status, &aw.Account.Timezone,
			&aw.Account.CreatedAt, &aw.Account.UpdatedAt,
			&aw.User.ID, &aw.User.Name, &aw.User.Role, &aw.User.Type, &aw.User.Status,
			&aw.User.CreatedAt, &aw.User.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		out = append(out, &aw)
	}
	return out, total, rows.Err()
}
