// Package auth implements the login, logout and registration flows over the
// account, user and session repositories.
package auth

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	accountdomain "admin-console/api/internal/account/domain"
	"admin-console/api/internal/security"
	sessiondomain "admin-console/api/internal/session/domain"
	userdomain "admin-console/api/internal/user/domain"
)

// Sentinel errors for the auth service; the HTTP layer maps them to status
// codes and error payloads.
var (
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrUserInactive          = errors.New("user is inactive")
	ErrAccountInactive       = errors.New("account is inactive")
	ErrRegistrationsDisabled = errors.New("registrations are disabled")
	ErrEmailTaken            = errors.New("email already registered")
	ErrInvalidInput          = errors.New("invalid input")
)

// AccountRepo is the minimal account repository needed by the auth service.
type AccountRepo interface {
	GetByEmailWithUser(ctx context.Context, email string) (*accountdomain.AccountWithUser, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, a *accountdomain.Account) error
}

// UserRepo is the minimal user repository needed by the auth service.
type UserRepo interface {
	Create(ctx context.Context, u *userdomain.User) error
}

// SessionRepo is the minimal session repository needed by the auth service.
type SessionRepo interface {
	Create(ctx context.Context, s *sessiondomain.Session) error
	InvalidateByTokenHash(ctx context.Context, tokenHash string) error
}

// Metadata is the request context captured on the session row at login.
// Advisory only; nothing enforces it afterwards.
type Metadata struct {
	IP      string
	Agent   string
	Country string
	Org     string
}

// LoginResult holds the outcome of a successful login. CookieValue is the
// signed token for the Set-Cookie; it is never persisted.
type LoginResult struct {
	AccountID   string
	CookieValue string
	ExpiresAt   time.Time
}

// Service implements password login, logout and self-registration.
type Service struct {
	accounts             AccountRepo
	users                UserRepo
	sessions             SessionRepo
	hasher               *security.Hasher
	codec                *security.Codec
	sessionTTL           time.Duration
	registrationsEnabled bool
}

// NewService returns a Service with the given dependencies.
func NewService(
	accounts AccountRepo,
	users UserRepo,
	sessions SessionRepo,
	hasher *security.Hasher,
	codec *security.Codec,
	sessionTTL time.Duration,
	registrationsEnabled bool,
) *Service {
	return &Service{
		accounts:             accounts,
		users:                users,
		sessions:             sessions,
		hasher:               hasher,
		codec:                codec,
		sessionTTL:           sessionTTL,
		registrationsEnabled: registrationsEnabled,
	}
}

// Login authenticates with email/password, creates a session row and returns
// the signed cookie token. Unknown email and wrong password both map to
// ErrInvalidCredentials so the response cannot be used to enumerate addresses.
// Status gates run before the password check and return distinguishing errors,
// so the web client can show an actionable message for disabled logins.
func (s *Service) Login(ctx context.Context, email, password string, meta Metadata) (*LoginResult, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	aw, err := s.accounts.GetByEmailWithUser(ctx, email)
	if err != nil {
		return nil, err
	}
	if aw == nil {
		return nil, ErrInvalidCredentials
	}
	if !aw.User.Status.AllowsAccess() {
		return nil, ErrUserInactive
	}
	if !aw.Account.Status.AllowsAccess() {
		return nil, ErrAccountInactive
	}
	if err := s.hasher.Compare(aw.Account.Hash, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	signed, err := s.codec.Sign(s.sessionTTL)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	sess := &sessiondomain.Session{
		ID:        uuid.New().String(),
		AccountID: aw.Account.ID,
		TokenHash: signed.TokenHash,
		ExpiresAt: signed.ExpiresAt,
		IP:        meta.IP,
		Agent:     meta.Agent,
		Country:   meta.Country,
		Org:       meta.Org,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return nil, err
	}

	return &LoginResult{
		AccountID:   aw.Account.ID,
		CookieValue: signed.CookieValue,
		ExpiresAt:   signed.ExpiresAt,
	}, nil
}

// Logout expires the session with the given token hash. Idempotent: unknown or
// already expired sessions succeed silently.
func (s *Service) Logout(ctx context.Context, tokenHash string) error {
	return s.sessions.InvalidateByTokenHash(ctx, tokenHash)
}

// RegisterResult holds the identifiers of a newly registered user and account.
type RegisterResult struct {
	UserID    string
	AccountID string
}

// Register creates a user with a member account. Gated by configuration;
// returns ErrRegistrationsDisabled when self-registration is off.
func (s *Service) Register(ctx context.Context, name, email, password string) (*RegisterResult, error) {
	if !s.registrationsEnabled {
		return nil, ErrRegistrationsDisabled
	}
	email = NormalizeEmail(email)
	if name == "" || !ValidEmail(email) {
		return nil, fmt.Errorf("%w: name and a valid email are required", ErrInvalidInput)
	}
	if len(password) < 3 {
		return nil, fmt.Errorf("%w: password must be at least 3 characters", ErrInvalidInput)
	}

	taken, err := s.accounts.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrEmailTaken
	}

	hash, err := s.hasher.Hash([]byte(password))
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &userdomain.User{
		ID:        uuid.New().String(),
		Name:      name,
		Role:      userdomain.RoleUser,
		Type:      "INDIVIDUAL",
		Status:    userdomain.StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	account := &accountdomain.Account{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		Name:      name,
		Email:     email,
		Hash:      hash,
		Role:      accountdomain.RoleMember,
		Status:    accountdomain.StatusActive,
		Timezone:  "UTC",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, err
	}

	return &RegisterResult{UserID: user.ID, AccountID: account.ID}, nil
}

// NormalizeEmail trims and lowercases an address for lookup and storage.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// ValidEmail reports whether the address has a plausible mailbox@domain shape.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}
