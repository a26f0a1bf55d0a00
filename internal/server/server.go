// Package server exposes the HTTP API: login/logout/register, the session
// guard middleware and the admin listing endpoints.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	accountdomain "admin-console/api/internal/account/domain"
	accountrepo "admin-console/api/internal/account/repository"
	"admin-console/api/internal/audit"
	"admin-console/api/internal/auth"
	"admin-console/api/internal/security"
	sessiondomain "admin-console/api/internal/session/domain"
	"admin-console/api/internal/telemetry"
)

// SessionStore is the guard's view of session persistence.
type SessionStore interface {
	FindActiveByTokenHash(ctx context.Context, tokenHash string) (*sessiondomain.AuthSession, error)
	ExtendExpiry(ctx context.Context, sessionID string, newExpiry time.Time) error
}

// AccountLister is the admin listing's view of account persistence.
type AccountLister interface {
	ListWithUsers(ctx context.Context, p accountrepo.ListParams) ([]*accountdomain.AccountWithUser, int64, error)
}

// Server wires the auth service, session guard and handlers into one router.
type Server struct {
	auth     *auth.Service
	sessions SessionStore
	accounts AccountLister
	codec    *security.Codec
	cookie   sessiondomain.CookieSpec
	audit    audit.AuditLogger
	emitter  telemetry.EventEmitter
	origin   string

	// now is swapped in tests to pin the refresh window.
	now func() time.Time
}

// New returns a Server. auditLog and emitter may be the no-op implementations.
func New(
	authSvc *auth.Service,
	sessions SessionStore,
	accounts AccountLister,
	codec *security.Codec,
	cookie sessiondomain.CookieSpec,
	auditLog audit.AuditLogger,
	emitter telemetry.EventEmitter,
	clientOrigin string,
) *Server {
	if auditLog == nil {
		auditLog = audit.Nop()
	}
	return &Server{
		auth:     authSvc,
		sessions: sessions,
		accounts: accounts,
		codec:    codec,
		cookie:   cookie,
		audit:    auditLog,
		emitter:  emitter,
		origin:   clientOrigin,
		now:      time.Now,
	}
}

// Router builds the chi router with CORS, panic recovery and all routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(recoverer)

	if s.origin != "" {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{s.origin},
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
			AllowedHeaders:   []string{"Accept", "Content-Type"},
			AllowCredentials: true,
		}))
	}

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", s.handleLogin)
		r.Post("/register", s.handleRegister)
		r.Group(func(r chi.Router) {
			r.Use(s.RequireSession)
			r.Post("/logout", s.handleLogout)
			r.Get("/session", s.handleGetSession)
		})
	})

	r.Group(func(r chi.Router) {
		r.Use(s.RequireAdmin)
		r.Get("/users", s.handleListUsers)
	})

	return r
}
