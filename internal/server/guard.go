package server

import (
	"fmt"
	"net/http"
	"time"

	"admin-console/api/internal/audit"
	"admin-console/api/internal/clientip"
	"admin-console/api/internal/telemetry"
	userdomain "admin-console/api/internal/user/domain"
)

// guardResult is the outcome of running the authentication gates for one
// request. Either identity is set, err is set, or a rejection (status, code,
// message) is set.
type guardResult struct {
	identity    *Identity
	err         error
	status      int
	code        string
	message     string
	clearCookie bool
	// cookieValue is the raw cookie as presented; a refresh reissues this exact
	// value with a new expiry.
	cookieValue string
	// refreshTo is the new expiry when the sliding refresh is due, zero otherwise.
	refreshTo time.Time
}

// authenticate runs the gates in order: cookie extract, signature verify,
// active-session load, optional role check, user status, account status.
// Verification failures clear the cookie; status failures leave it, the session
// itself is still valid. It also decides whether the sliding refresh is due:
// the last refresh is inferred from the stored expiry (expiry minus TTL), and
// once RefreshEvery has elapsed since then the expiry slides to now+TTL.
func (s *Server) authenticate(r *http.Request, requireAdmin bool) guardResult {
	expired := guardResult{
		status:      http.StatusForbidden,
		code:        "FORBIDDEN",
		message:     "Session not found or expired.",
		clearCookie: true,
	}

	c, err := r.Cookie(s.cookie.Name)
	if err != nil || c.Value == "" {
		return expired
	}
	tok := s.codec.Verify(c.Value)
	if tok == nil {
		return expired
	}

	as, err := s.sessions.FindActiveByTokenHash(r.Context(), tok.TokenHash)
	if err != nil {
		return guardResult{err: err}
	}
	if as == nil {
		return expired
	}

	if requireAdmin && as.User.Role != userdomain.RoleAdmin {
		return guardResult{
			status:      http.StatusForbidden,
			code:        "FORBIDDEN",
			message:     "You do not have sufficient permissions.",
			clearCookie: true,
		}
	}
	if !as.User.Status.AllowsAccess() {
		return guardResult{
			status:  http.StatusForbidden,
			code:    "USER_INACTIVE",
			message: "User is inactive. Please contact support.",
		}
	}
	if !as.Account.Status.AllowsAccess() {
		return guardResult{
			status:  http.StatusForbidden,
			code:    "ACCOUNT_INACTIVE",
			message: "Account is inactive. Please contact support.",
		}
	}

	res := guardResult{
		cookieValue: c.Value,
		identity: &Identity{
			User:    as.User,
			Account: as.Account,
			Session: SessionMeta{
				ID:        as.Session.ID,
				TokenHash: as.Session.TokenHash,
				ExpiresAt: as.Session.ExpiresAt,
				IP:        as.Session.IP,
				Agent:     as.Session.Agent,
				Country:   as.Session.Country,
				Org:       as.Session.Org,
				CreatedAt: as.Session.CreatedAt,
				UpdatedAt: as.Session.UpdatedAt,
			},
		},
	}

	now := s.now()
	lastRefresh := as.Session.ExpiresAt.Add(-s.cookie.TTL)
	if now.Sub(lastRefresh) >= s.cookie.RefreshEvery {
		res.refreshTo = now.Add(s.cookie.TTL)
	}
	return res
}

// RequireSession guards a route behind a valid session.
func (s *Server) RequireSession(next http.Handler) http.Handler {
	return s.guardMiddleware(next, false)
}

// RequireAdmin guards a route behind a valid session whose user is an ADMIN.
func (s *Server) RequireAdmin(next http.Handler) http.Handler {
	return s.guardMiddleware(next, true)
}

func (s *Server) guardMiddleware(next http.Handler, requireAdmin bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		res := s.authenticate(r, requireAdmin)

		if res.err != nil {
			respondInternal(w, res.err)
			return
		}
		if res.identity == nil {
			if res.clearCookie {
				http.SetCookie(w, s.cookie.ClearCookie())
			}
			s.audit.LogEvent(r.Context(), "", audit.ActionRejected, r.URL.Path,
				clientip.FromRequest(r), fmt.Sprintf(`{"code":%q}`, res.code))
			respondError(w, res.status, res.code, res.message)
			return
		}

		if !res.refreshTo.IsZero() {
			if err := s.sessions.ExtendExpiry(r.Context(), res.identity.Session.ID, res.refreshTo); err != nil {
				respondInternal(w, err)
				return
			}
			res.identity.Session.ExpiresAt = res.refreshTo
			http.SetCookie(w, s.cookie.NewCookie(res.cookieValue, res.refreshTo))
			s.audit.LogEvent(r.Context(), res.identity.Account.ID, audit.ActionRefresh, "session",
				clientip.FromRequest(r), "")
			telemetry.EmitAsync(s.emitter, r.Context(), &telemetry.Event{
				AccountID: res.identity.Account.ID,
				UserID:    res.identity.User.ID,
				SessionID: res.identity.Session.ID,
				EventType: audit.ActionRefresh,
				Source:    "api",
			})
		}

		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), res.identity)))
	})
}
