package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"admin-console/api/internal/session/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a session repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create persists the session to the database. The session must have ID and
// TokenHash set.
func (r *PostgresRepository) Create(ctx context.Context, s *domain.Session) error {
	const q = `
		INSERT INTO user_sessions (id, account_id, token, expires_at, ip, agent, country, org, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.ExecContext(ctx, q,
		s.ID, s.AccountID, s.TokenHash, s.ExpiresAt,
		nullable(s.IP), nullable(s.Agent), nullable(s.Country), nullable(s.Org),
		s.CreatedAt, s.UpdatedAt,
	)
	return err
}

// FindActiveByTokenHash returns the unexpired session with the given token hash
// joined with its account and user, or nil when no such session exists or it
// has expired. Expiry is filtered in SQL (expires_at > now()), never in Go.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) FindActiveByTokenHash(ctx context.Context, tokenHash string) (*domain.AuthSession, error) {
	const q = `
		SELECT s.id, s.account_id, s.token, s.expires_at,
		       COALESCE(s.ip, ''), COALESCE(s.agent, ''), COALESCE(s.country, ''), COALESCE(s.org, ''),
		       s.created_at, s.updated_at,
		       a.id, a.user_id, a.name, a.email, a.role, a.status, a.timezone,
		       u.id, u.name, u.role, u.type, u.status
		FROM user_sessions s
		JOIN user_accounts a ON a.id = s.account_id
		JOIN users u ON u.id = a.user_id
		WHERE s.token = $1 AND s.expires_at > now()`

	var as domain.AuthSession
	err := r.db.QueryRowContext(ctx, q, tokenHash).Scan(
		&as.Session.ID, &as.Session.AccountID, &as.Session.TokenHash, &as.Session.ExpiresAt,
		&as.Session.IP, &as.Session.Agent, &as.Session.Country, &as.Session.Org,
		&as.Session.CreatedAt, &as.Session.UpdatedAt,
		&as.Account.ID, &as.Account.UserID, &as.Account.Name, &as.Account.Email,
		&as.Account.Role, &as.Account.Status, &as.Account.Timezone,
		&as.User.ID, &as.User.Name, &as.User.Role, &as.User.Type, &as.User.Status,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &as, nil
}

// ExtendExpiry moves the session's expiry to newExpiry.
func (r *PostgresRepository) ExtendExpiry(ctx context.Context, sessionID string, newExpiry time.Time) error {
	const q = `UPDATE user_sessions SET expires_at = $2, updated_at = now() WHERE id = $1`

	_, err := r.db.ExecContext(ctx, q, sessionID, newExpiry)
	return err
}

// InvalidateByTokenHash expires the session immediately. No-op when the token
// hash is unknown.
func (r *PostgresRepository) InvalidateByTokenHash(ctx context.Context, tokenHash string) error {
	const q = `UPDATE user_sessions SET expires_at = now(), updated_at = now() WHERE token = $1`

	_, err := r.db.ExecContext(ctx, q, tokenHash)
	return err
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
