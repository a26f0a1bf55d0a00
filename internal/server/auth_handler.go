package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"admin-console/api/internal/audit"
	"admin-console/api/internal/auth"
	"admin-console/api/internal/clientip"
	"admin-console/api/internal/telemetry"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusUnauthorized, "MISSING_CREDENTIALS", "Email and password are required")
		return
	}
	if req.Email == "" || req.Password == "" {
		respondError(w, http.StatusUnauthorized, "MISSING_CREDENTIALS", "Email and password are required")
		return
	}
	if !auth.ValidEmail(auth.NormalizeEmail(req.Email)) || len(req.Password) < 3 {
		respondError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Email or password is invalid")
		return
	}

	ip := clientip.FromRequest(r)
	meta := auth.Metadata{IP: ip, Agent: r.UserAgent()}

	res, err := s.auth.Login(r.Context(), req.Email, req.Password, meta)
	if err != nil {
		s.audit.LogEvent(r.Context(), "", audit.ActionLoginFailure, "session", ip,
			fmt.Sprintf(`{"email":%q}`, auth.NormalizeEmail(req.Email)))
		switch {
		case errors.Is(err, auth.ErrInvalidCredentials):
			respondError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Email or password is invalid")
		case errors.Is(err, auth.ErrUserInactive):
			respondError(w, http.StatusUnauthorized, "USER_INACTIVE", "User is inactive. Please contact support.")
		case errors.Is(err, auth.ErrAccountInactive):
			respondError(w, http.StatusUnauthorized, "ACCOUNT_INACTIVE", "Account is inactive. Please contact support.")
		default:
			respondInternal(w, err)
		}
		return
	}

	s.audit.LogEvent(r.Context(), res.AccountID, audit.ActionLogin, "session", ip, "")
	telemetry.EmitAsync(s.emitter, r.Context(), &telemetry.Event{
		AccountID: res.AccountID,
		EventType: audit.ActionLogin,
		Source:    "api",
	})

	http.SetCookie(w, s.cookie.NewCookie(res.CookieValue, res.ExpiresAt))
	respondJSON(w, http.StatusOK, map[string]string{"account_id": res.AccountID})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	id, ok := IdentityFrom(r.Context())
	if !ok {
		respondError(w, http.StatusForbidden, "FORBIDDEN", "Session not found or expired.")
		return
	}

	if err := s.auth.Logout(r.Context(), id.Session.TokenHash); err != nil {
		respondInternal(w, err)
		return
	}

	s.audit.LogEvent(r.Context(), id.Account.ID, audit.ActionLogout, "session", clientip.FromRequest(r), "")
	telemetry.EmitAsync(s.emitter, r.Context(), &telemetry.Event{
		AccountID: id.Account.ID,
		UserID:    id.User.ID,
		SessionID: id.Session.ID,
		EventType: audit.ActionLogout,
		Source:    "api",
	})

	http.SetCookie(w, s.cookie.ClearCookie())
	respondJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

// handleGetSession returns the authenticated account, the shape the SPA uses
// to render the signed-in state.
func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id, ok := IdentityFrom(r.Context())
	if !ok {
		respondError(w, http.StatusForbidden, "FORBIDDEN", "Session not found or expired.")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"id":       id.Account.ID,
		"name":     id.Account.Name,
		"email":    id.Account.Email,
		"role":     id.Account.Role,
		"timezone": id.Account.Timezone,
	})
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "BAD_REQUEST", "All fields are required: name, email, and password")
		return
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "BAD_REQUEST", "All fields are required: name, email, and password")
		return
	}

	res, err := s.auth.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrRegistrationsDisabled):
			respondError(w, http.StatusForbidden, "FORBIDDEN", "Registrations are currently disabled")
		case errors.Is(err, auth.ErrEmailTaken):
			respondError(w, http.StatusConflict, "CONFLICT", "An account with this email already exists")
		case errors.Is(err, auth.ErrInvalidInput):
			respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		default:
			respondInternal(w, err)
		}
		return
	}

	respondJSON(w, http.StatusCreated, map[string]string{
		"user_id":    res.UserID,
		"account_id": res.AccountID,
	})
}
