package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	accountdomain "admin-console/api/internal/account/domain"
	accountrepo "admin-console/api/internal/account/repository"
	"admin-console/api/internal/auth"
	"admin-console/api/internal/security"
	sessiondomain "admin-console/api/internal/session/domain"
	userdomain "admin-console/api/internal/user/domain"
)

type memAccountRepo struct {
	byEmail map[string]*accountdomain.AccountWithUser
	created []*accountdomain.Account
}

func (m *memAccountRepo) GetByEmailWithUser(ctx context.Context, email string) (*accountdomain.AccountWithUser, error) {
	return m.byEmail[email], nil
}

func (m *memAccountRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, ok := m.byEmail[email]
	return ok, nil
}

func (m *memAccountRepo) Create(ctx context.Context, a *accountdomain.Account) error {
	m.created = append(m.created, a)
	return nil
}

type memUserRepo struct {
	created []*userdomain.User
}

func (m *memUserRepo) Create(ctx context.Context, u *userdomain.User) error {
	m.created = append(m.created, u)
	return nil
}

type memSessionRepo struct {
	created     []*sessiondomain.Session
	invalidated []string
}

func (m *memSessionRepo) Create(ctx context.Context, s *sessiondomain.Session) error {
	m.created = append(m.created, s)
	return nil
}

func (m *memSessionRepo) InvalidateByTokenHash(ctx context.Context, tokenHash string) error {
	m.invalidated = append(m.invalidated, tokenHash)
	return nil
}

type fakeAccountLister struct {
	rows   []*accountdomain.AccountWithUser
	total  int64
	params accountrepo.ListParams
}

func (f *fakeAccountLister) ListWithUsers(ctx context.Context, p accountrepo.ListParams) ([]*accountdomain.AccountWithUser, int64, error) {
	f.params = p
	return f.rows, f.total, nil
}

type testEnv struct {
	server   *Server
	accounts *memAccountRepo
	sessions *memSessionRepo
	store    *fakeSessionStore
	lister   *fakeAccountLister
	handler  http.Handler
	codec    *security.Codec
}

func newTestEnv(t *testing.T, registrations bool) *testEnv {
	t.Helper()
	codec := testCodec(t)
	hasher := security.NewHasher(4)
	accounts := &memAccountRepo{byEmail: map[string]*accountdomain.AccountWithUser{}}
	users := &memUserRepo{}
	sessions := &memSessionRepo{}
	svc := auth.NewService(accounts, users, sessions, hasher, codec, 7*24*time.Hour, registrations)

	store := &fakeSessionStore{}
	lister := &fakeAccountLister{}
	s := New(svc, store, lister, codec, testCookieSpec(), nil, nil, "http://localhost:5173")
	return &testEnv{
		server:   s,
		accounts: accounts,
		sessions: sessions,
		store:    store,
		lister:   lister,
		handler:  s.Router(),
		codec:    codec,
	}
}

// seedAccount registers an ACTIVE owner account with the given password.
func (e *testEnv) seedAccount(t *testing.T, email, password string) {
	t.Helper()
	hash, err := security.NewHasher(4).Hash([]byte(password))
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	e.accounts.byEmail[email] = &accountdomain.AccountWithUser{
		Account: accountdomain.Account{
			ID:     "acct-1",
			UserID: "user-1",
			Name:   "Ada",
			Email:  email,
			Hash:   hash,
			Role:   accountdomain.RoleOwner,
			Status: accountdomain.StatusActive,
		},
		User: userdomain.User{
			ID:     "user-1",
			Name:   "Ada",
			Role:   userdomain.RoleAdmin,
			Status: userdomain.StatusActive,
		},
	}
}

func postJSON(handler http.Handler, path, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	handler.ServeHTTP(rec, req)
	return rec
}

func TestLoginMissingCredentials(t *testing.T) {
	env := newTestEnv(t, false)

	for _, body := range []string{`{}`, `{"email":"a@b.co"}`, `{"password":"secret"}`, `not json`} {
		rec := postJSON(env.handler, "/auth/login", body)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("body %q: status = %d, want 401", body, rec.Code)
			continue
		}
		if got := decodeError(t, rec); got.Code != "MISSING_CREDENTIALS" {
			t.Errorf("body %q: code = %q, want MISSING_CREDENTIALS", body, got.Code)
		}
	}
}

func TestLoginRejectsMalformedEmail(t *testing.T) {
	env := newTestEnv(t, false)

	rec := postJSON(env.handler, "/auth/login", `{"email":"not-an-email","password":"secret"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if got := decodeError(t, rec); got.Code != "INVALID_CREDENTIALS" {
		t.Errorf("code = %q, want INVALID_CREDENTIALS", got.Code)
	}
}

func TestLoginSuccess(t *testing.T) {
	env := newTestEnv(t, false)
	env.seedAccount(t, "ada@example.com", "correct horse")

	rec := postJSON(env.handler, "/auth/login", `{"email":"Ada@Example.com ","password":"correct horse"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["account_id"] != "acct-1" {
		t.Errorf("account_id = %q, want acct-1", resp["account_id"])
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected one Set-Cookie, got %d", len(cookies))
	}
	c := cookies[0]
	if c.Name != env.server.cookie.Name {
		t.Errorf("cookie name = %q, want %q", c.Name, env.server.cookie.Name)
	}
	if !c.HttpOnly {
		t.Error("session cookie must be HttpOnly")
	}
	tok := env.codec.Verify(c.Value)
	if tok == nil {
		t.Fatal("issued cookie does not verify")
	}
	if len(env.sessions.created) != 1 {
		t.Fatalf("expected one session row, got %d", len(env.sessions.created))
	}
	if env.sessions.created[0].TokenHash != tok.TokenHash {
		t.Error("stored token hash does not match the issued cookie")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	env := newTestEnv(t, false)
	env.seedAccount(t, "ada@example.com", "correct horse")

	rec := postJSON(env.handler, "/auth/login", `{"email":"ada@example.com","password":"battery staple"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if got := decodeError(t, rec); got.Code != "INVALID_CREDENTIALS" {
		t.Errorf("code = %q, want INVALID_CREDENTIALS", got.Code)
	}
	if len(env.sessions.created) != 0 {
		t.Error("no session row on failed login")
	}
}

func TestLogout(t *testing.T) {
	env := newTestEnv(t, false)
	now := time.Now()
	env.server.now = func() time.Time { return now }
	cookieValue, as := seedSession(t, env.codec, env.server.cookie, now)
	env.store.session = as

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: env.server.cookie.Name, Value: cookieValue})
	env.handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["message"] != "Logged out successfully" {
		t.Errorf("message = %q", resp["message"])
	}
	if len(env.sessions.invalidated) != 1 || env.sessions.invalidated[0] != as.Session.TokenHash {
		t.Errorf("invalidated = %v, want the session token hash", env.sessions.invalidated)
	}
	if clearedCookie(rec, env.server.cookie.Name) == nil {
		t.Error("expected the session cookie to be cleared")
	}
}

func TestGetSession(t *testing.T) {
	env := newTestEnv(t, false)
	now := time.Now()
	env.server.now = func() time.Time { return now }
	cookieValue, as := seedSession(t, env.codec, env.server.cookie, now)
	as.Account.Timezone = "Europe/Lisbon"
	env.store.session = as

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/auth/session", nil)
	req.AddCookie(&http.Cookie{Name: env.server.cookie.Name, Value: cookieValue})
	env.handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["id"] != "acct-1" || resp["email"] != "ada@example.com" || resp["timezone"] != "Europe/Lisbon" {
		t.Errorf("unexpected session payload: %v", resp)
	}
	if _, ok := resp["hash"]; ok {
		t.Error("session payload must not expose the password hash")
	}
}

func TestRegisterDisabled(t *testing.T) {
	env := newTestEnv(t, false)

	rec := postJSON(env.handler, "/auth/register", `{"name":"Ada","email":"ada@example.com","password":"secret"}`)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
	if got := decodeError(t, rec); got.Code != "FORBIDDEN" {
		t.Errorf("code = %q, want FORBIDDEN", got.Code)
	}
}

func TestRegisterSuccess(t *testing.T) {
	env := newTestEnv(t, true)

	rec := postJSON(env.handler, "/auth/register", `{"name":"Ada","email":"Ada@Example.com","password":"secret"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["user_id"] == "" || resp["account_id"] == "" {
		t.Errorf("expected user_id and account_id, got %v", resp)
	}
	if len(env.accounts.created) != 1 {
		t.Fatalf("expected one account, got %d", len(env.accounts.created))
	}
	if env.accounts.created[0].Email != "ada@example.com" {
		t.Errorf("stored email = %q, want normalized", env.accounts.created[0].Email)
	}
}

func TestRegisterConflict(t *testing.T) {
	env := newTestEnv(t, true)
	env.seedAccount(t, "ada@example.com", "correct horse")

	rec := postJSON(env.handler, "/auth/register", `{"name":"Ada","email":"ada@example.com","password":"secret"}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
	if got := decodeError(t, rec); got.Code != "CONFLICT" {
		t.Errorf("code = %q, want CONFLICT", got.Code)
	}
}

func TestListUsersPagination(t *testing.T) {
	env := newTestEnv(t, false)
	now := time.Now()
	env.server.now = func() time.Time { return now }
	cookieValue, as := seedSession(t, env.codec, env.server.cookie, now)
	env.store.session = as
	env.lister.rows = []*accountdomain.AccountWithUser{{
		Account: as.Account,
		User:    as.User,
	}}
	env.lister.total = 231

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet,
		"/users?pageIndex=2&pageSize=500&sorting=name.asc&globalFilter=ada", nil)
	req.AddCookie(&http.Cookie{Name: env.server.cookie.Name, Value: cookieValue})
	env.handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	p := env.lister.params
	if p.Limit != 100 {
		t.Errorf("limit = %d, want clamp to 100", p.Limit)
	}
	if p.Offset != 200 {
		t.Errorf("offset = %d, want 200", p.Offset)
	}
	if p.SortField != "name" || p.SortDesc {
		t.Errorf("sort = %s desc=%v, want name asc", p.SortField, p.SortDesc)
	}
	if p.Filter != "ada" {
		t.Errorf("filter = %q, want ada", p.Filter)
	}

	var resp struct {
		Data       []accountRow `json:"data"`
		Pagination pagination   `json:"pagination"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Pagination.TotalItems != 231 || resp.Pagination.TotalPages != 3 {
		t.Errorf("pagination = %+v, want 231 items over 3 pages", resp.Pagination)
	}
	if len(resp.Data) != 1 || resp.Data[0].Email != "ada@example.com" {
		t.Errorf("unexpected data: %+v", resp.Data)
	}
}

func TestListUsersRequiresAdmin(t *testing.T) {
	env := newTestEnv(t, false)
	now := time.Now()
	env.server.now = func() time.Time { return now }
	cookieValue, as := seedSession(t, env.codec, env.server.cookie, now)
	as.User.Role = userdomain.RoleUser
	env.store.session = as

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	req.AddCookie(&http.Cookie{Name: env.server.cookie.Name, Value: cookieValue})
	env.handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
	if got := decodeError(t, rec); got.Code != "FORBIDDEN" {
		t.Errorf("code = %q, want FORBIDDEN", got.Code)
	}
}
