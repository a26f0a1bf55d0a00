package domain

import (
	"net/http"
	"strings"
	"time"
)

// hostPrefix is the cookie name prefix that origin-locks a cookie: browsers only
// accept it over HTTPS, with Path=/ and without a Domain attribute.
const hostPrefix = "__Host-"

// CookieConfig is the environment-derived input to ResolveCookieSpec.
type CookieConfig struct {
	Production   bool
	Name         string // empty selects the environment default
	TTL          time.Duration
	RefreshEvery time.Duration
	SameSite     string // lax, strict or none
	Domain       string
}

// CookieSpec is the resolved session cookie policy consumed when issuing,
// refreshing and clearing the cookie.
type CookieSpec struct {
	Name         string
	TTL          time.Duration
	RefreshEvery time.Duration
	SameSite     http.SameSite
	Secure       bool
	Domain       string
	Path         string
}

// ResolveCookieSpec derives the cookie policy from configuration. Pure: it
// neither reads nor writes any cookie. Production defaults to a __Host- name
// (and a __Host- name always suppresses the Domain attribute); the cookie is
// HttpOnly unconditionally, see NewCookie.
func ResolveCookieSpec(c CookieConfig) CookieSpec {
	name := c.Name
	if name == "" {
		if c.Production {
			name = hostPrefix + "at"
		} else {
			name = "__at"
		}
	}

	ttl := c.TTL
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	refresh := c.RefreshEvery
	if refresh <= 0 {
		refresh = 5 * time.Minute
	}

	var sameSite http.SameSite
	switch strings.ToLower(c.SameSite) {
	case "strict":
		sameSite = http.SameSiteStrictMode
	case "none":
		sameSite = http.SameSiteNoneMode
	default:
		sameSite = http.SameSiteLaxMode
	}

	domain := c.Domain
	if strings.HasPrefix(name, hostPrefix) {
		domain = ""
	}

	return CookieSpec{
		Name:         name,
		TTL:          ttl,
		RefreshEvery: refresh,
		SameSite:     sameSite,
		Secure:       c.Production,
		Domain:       domain,
		Path:         "/",
	}
}

// NewCookie builds the Set-Cookie for the given token value and expiry.
func (s CookieSpec) NewCookie(value string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     s.Name,
		Value:    value,
		Path:     s.Path,
		Domain:   s.Domain,
		Expires:  expires,
		MaxAge:   int(time.Until(expires) / time.Second),
		Secure:   s.Secure,
		HttpOnly: true,
		SameSite: s.SameSite,
	}
}

// ClearCookie builds the Set-Cookie that removes the session cookie. Attributes
// must match the ones used to set it or browsers keep the original.
func (s CookieSpec) ClearCookie() *http.Cookie {
	return &http.Cookie{
		Name:     s.Name,
		Value:    "",
		Path:     s.Path,
		Domain:   s.Domain,
		MaxAge:   -1,
		Secure:   s.Secure,
		HttpOnly: true,
		SameSite: s.SameSite,
	}
}
