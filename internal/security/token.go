package security

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"strings"
	"time"
)

// ErrNoSigningSecret is returned by NewCodec when no signing key is configured.
// Token issuance must never silently proceed unsigned.
var ErrNoSigningSecret = errors.New("security: no session signing secret configured")

const tokenSecretLen = 32

// Codec signs and verifies session cookie tokens. The cookie value is
// base64url(secret) + "." + base64url(HMAC-SHA256(key, secret)). The secret bytes
// prove possession of the session; the signature proves the token was minted here.
// Keys are ordered newest first: keys[0] signs, every key verifies, so old cookies
// stay valid across a key rotation.
type Codec struct {
	keys [][]byte
}

// NewCodec returns a Codec using the given signing keys, newest first.
// Returns ErrNoSigningSecret when keys is empty or contains only empty entries.
func NewCodec(keys [][]byte) (*Codec, error) {
	var usable [][]byte
	for _, k := range keys {
		if len(k) > 0 {
			usable = append(usable, k)
		}
	}
	if len(usable) == 0 {
		return nil, ErrNoSigningSecret
	}
	return &Codec{keys: usable}, nil
}

// SignedToken is a freshly minted session token. CookieValue goes to the client;
// TokenHash is the only value persisted server-side.
type SignedToken struct {
	CookieValue string
	TokenHash   string
	ExpiresAt   time.Time
}

// Token is the result of a successful Verify.
type Token struct {
	SecretBytes []byte
	TokenHash   string
}

// Sign generates a new session token with the given lifetime, signed under the
// newest key.
func (c *Codec) Sign(ttl time.Duration) (*SignedToken, error) {
	secret := make([]byte, tokenSecretLen)
	if _, err := rand.Read(secret); err != nil {
		return nil, err
	}

	mac := hmac.New(sha256.New, c.keys[0])
	mac.Write(secret)
	sig := mac.Sum(nil)

	value := base64.RawURLEncoding.EncodeToString(secret) + "." + base64.RawURLEncoding.EncodeToString(sig)

	return &SignedToken{
		CookieValue: value,
		TokenHash:   HashToken(secret),
		ExpiresAt:   time.Now().UTC().Add(ttl),
	}, nil
}

// Verify parses and authenticates a raw cookie value. Returns nil for anything
// that is not a well-formed token signed under one of the configured keys:
// malformed or forged input is an expected outcome, not an error. The comparison
// against each key's expected signature is constant-time.
func (c *Codec) Verify(cookieValue string) *Token {
	if cookieValue == "" {
		return nil
	}
	dot := strings.LastIndex(cookieValue, ".")
	if dot <= 0 {
		return nil
	}
	secret, err := base64.RawURLEncoding.DecodeString(cookieValue[:dot])
	if err != nil {
		return nil
	}
	gotSig, err := base64.RawURLEncoding.DecodeString(cookieValue[dot+1:])
	if err != nil {
		return nil
	}

	for _, key := range c.keys {
		mac := hmac.New(sha256.New, key)
		mac.Write(secret)
		if hmac.Equal(gotSig, mac.Sum(nil)) {
			return &Token{SecretBytes: secret, TokenHash: HashToken(secret)}
		}
	}
	return nil
}

// HashToken returns the SHA-256 hex digest of the token secret. This is the
// session lookup key; the raw secret is never stored.
func HashToken(secret []byte) string {
	h := sha256.Sum256(secret)
	return hex.EncodeToString(h[:])
}
