package audit

import (
	"context"
	"errors"
	"sync"
	"testing"

	"admin-console/api/internal/audit/domain"
)

type memAuditRepo struct {
	mu      sync.Mutex
	entries []*domain.AuditLog
	err     error
}

func (m *memAuditRepo) Create(ctx context.Context, a *domain.AuditLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.entries = append(m.entries, a)
	return nil
}

func (m *memAuditRepo) ListByAccount(ctx context.Context, accountID string, limit, offset int32) ([]*domain.AuditLog, error) {
	return nil, nil
}

func TestLogEventPersistsEntry(t *testing.T) {
	repo := &memAuditRepo{}
	l := NewLogger(repo)

	l.LogEvent(context.Background(), "acct-1", ActionLogin, "session", "203.0.113.9", `{"agent":"cli"}`)

	if len(repo.entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(repo.entries))
	}
	got := repo.entries[0]
	if got.ID == "" {
		t.Error("expected generated ID")
	}
	if got.AccountID != "acct-1" {
		t.Errorf("account = %q, want acct-1", got.AccountID)
	}
	if got.Action != ActionLogin {
		t.Errorf("action = %q, want %q", got.Action, ActionLogin)
	}
	if got.Resource != "session" {
		t.Errorf("resource = %q, want session", got.Resource)
	}
	if got.IP != "203.0.113.9" {
		t.Errorf("ip = %q", got.IP)
	}
	if got.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}
}

func TestLogEventDefaultsMissingFields(t *testing.T) {
	repo := &memAuditRepo{}
	l := NewLogger(repo)

	l.LogEvent(context.Background(), "", ActionLoginFailure, "session", "", "")

	if len(repo.entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(repo.entries))
	}
	got := repo.entries[0]
	if got.AccountID != SentinelAccountID {
		t.Errorf("account = %q, want %q", got.AccountID, SentinelAccountID)
	}
	if got.IP != "unknown" {
		t.Errorf("ip = %q, want unknown", got.IP)
	}
}

func TestLogEventSwallowsRepoError(t *testing.T) {
	repo := &memAuditRepo{err: errors.New("db down")}
	l := NewLogger(repo)

	// Must not panic or surface the error.
	l.LogEvent(context.Background(), "acct-1", ActionLogout, "session", "203.0.113.9", "")

	if len(repo.entries) != 0 {
		t.Fatalf("expected no entries, got %d", len(repo.entries))
	}
}

func TestNopLoggerDoesNothing(t *testing.T) {
	l := Nop()
	l.LogEvent(context.Background(), "acct-1", ActionLogin, "session", "1.2.3.4", "")
}
