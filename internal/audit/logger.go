package audit

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"admin-console/api/internal/audit/domain"
	auditrepo "admin-console/api/internal/audit/repository"
)

// SentinelAccountID is the account_id recorded for events with no resolved
// account (e.g. a login failure for an unknown email).
const SentinelAccountID = "_system"

// Actions recorded by the auth code paths.
const (
	ActionLogin        = "auth.login"
	ActionLoginFailure = "auth.login_failure"
	ActionLogout       = "auth.logout"
	ActionRefresh      = "session.refresh"
	ActionRejected     = "auth.rejected"
)

// AuditLogger writes a single audit event with explicit action/resource. Used by
// the login/logout handlers and the session guard. LogEvent is best-effort:
// failures are logged and do not affect the caller.
type AuditLogger interface {
	LogEvent(ctx context.Context, accountID, action, resource, ip, metadata string)
}

// Logger implements AuditLogger using the audit repository.
type Logger struct {
	repo auditrepo.Repository
}

// NewLogger returns an AuditLogger that persists to repo.
func NewLogger(repo auditrepo.Repository) *Logger {
	return &Logger{repo: repo}
}

// LogEvent writes one audit log entry. Best-effort: errors are logged and not returned.
func (l *Logger) LogEvent(ctx context.Context, accountID, action, resource, ip, metadata string) {
	if l.repo == nil {
		return
	}
	if accountID == "" {
		accountID = SentinelAccountID
	}
	if ip == "" {
		ip = "unknown"
	}
	entry := &domain.AuditLog{
		ID:        uuid.New().String(),
		AccountID: accountID,
		Action:    action,
		Resource:  resource,
		IP:        ip,
		Metadata:  metadata,
		CreatedAt: time.Now().UTC(),
	}
	if err := l.repo.Create(ctx, entry); err != nil {
		log.Printf("audit: failed to log event %s/%s: %v", action, resource, err)
	}
}

// Nop returns an AuditLogger that drops everything. Used in tests and when
// auditing is not wired.
func Nop() AuditLogger {
	return nopLogger{}
}

type nopLogger struct{}

func (nopLogger) LogEvent(context.Context, string, string, string, string, string) {}
