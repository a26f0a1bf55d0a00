// Package config loads and validates app config from env and an optional .env file using Viper.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	// HTTPAddr is the address the HTTP server listens on (e.g. :3100).
	HTTPAddr string `mapstructure:"HTTP_ADDR"`
	// Env is the application environment (e.g. "development", "production").
	// "production" enables the Secure cookie attribute and the __Host- cookie name default.
	Env string `mapstructure:"APP_ENV"`
	// DatabaseURL is the Postgres DSN.
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	// SessionSecret is the key used to sign new session tokens. Required for the API
	// server; token issuance must fail hard without it.
	SessionSecret string `mapstructure:"SESSION_SECRET"`
	// SessionSecretsExtra is a comma-separated list of previously active signing keys.
	// Tokens signed under any of them still verify, which allows zero-downtime rotation.
	SessionSecretsExtra string `mapstructure:"SESSION_SECRETS_EXTRA"`
	// SessionName overrides the session cookie name. Empty means the environment default
	// (__Host-at in production, __at otherwise).
	SessionName string `mapstructure:"SESSION_NAME"`
	// SessionTTLSeconds is the session lifetime in seconds (default 604800 = 7 days).
	SessionTTLSeconds int `mapstructure:"SESSION_TTL"`
	// SessionRefreshSeconds is the minimum interval between sliding refreshes (default 300).
	SessionRefreshSeconds int `mapstructure:"SESSION_REFRESH_EVERY"`
	// SessionSameSite is the cookie SameSite mode: "lax", "strict" or "none" (default "lax").
	SessionSameSite string `mapstructure:"SESSION_SAMESITE"`
	// SessionDomain is the cookie Domain attribute. Ignored for __Host- cookie names,
	// which forbid an explicit domain.
	SessionDomain string `mapstructure:"SESSION_DOMAIN"`
	// BcryptCost is the bcrypt cost factor (4–31); default 12.
	BcryptCost int `mapstructure:"BCRYPT_COST"`
	// ClientOrigin is the browser origin allowed by CORS (the admin SPA).
	ClientOrigin string `mapstructure:"CLIENT_ORIGIN"`
	// RegistrationsEnabled enables the self-registration endpoint. Off by default.
	RegistrationsEnabled bool `mapstructure:"REGISTRATIONS_ENABLED"`
	// OTLPEndpoint is the OTLP collector endpoint (e.g. http://localhost:4317).
	// Empty disables telemetry export.
	OTLPEndpoint string `mapstructure:"OTLP_ENDPOINT"`
	// OTLPInsecure forces plaintext OTLP export even for https endpoints.
	OTLPInsecure bool `mapstructure:"OTLP_INSECURE"`
}

// Load reads .env (if present), then builds and validates Config from the environment via Viper.
// Missing .env is ignored (e.g. in CI). Env vars override .env. Returns an error if required fields are invalid.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // ignore ErrConfigFileNotFound

	v.AutomaticEnv()

	v.SetDefault("HTTP_ADDR", ":3100")
	v.SetDefault("APP_ENV", "")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("SESSION_SECRET", "")
	v.SetDefault("SESSION_SECRETS_EXTRA", "")
	v.SetDefault("SESSION_NAME", "")
	v.SetDefault("SESSION_TTL", 7*24*60*60)
	v.SetDefault("SESSION_REFRESH_EVERY", 5*60)
	v.SetDefault("SESSION_SAMESITE", "lax")
	v.SetDefault("SESSION_DOMAIN", "")
	v.SetDefault("BCRYPT_COST", 12)
	v.SetDefault("CLIENT_ORIGIN", "http://localhost:3000")
	v.SetDefault("REGISTRATIONS_ENABLED", false)
	v.SetDefault("OTLP_ENDPOINT", "")
	v.SetDefault("OTLP_INSECURE", false)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.HTTPAddr == "" {
		return nil, errors.New("config: HTTP_ADDR must be set")
	}
	if cfg.SessionTTLSeconds <= 0 {
		cfg.SessionTTLSeconds = 7 * 24 * 60 * 60
	}
	if cfg.SessionRefreshSeconds <= 0 {
		cfg.SessionRefreshSeconds = 5 * 60
	}
	switch strings.ToLower(cfg.SessionSameSite) {
	case "lax", "strict", "none":
		cfg.SessionSameSite = strings.ToLower(cfg.SessionSameSite)
	case "":
		cfg.SessionSameSite = "lax"
	default:
		return nil, fmt.Errorf("config: SESSION_SAMESITE must be lax, strict or none, got %q", cfg.SessionSameSite)
	}
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = 12
	}
	if cfg.BcryptCost < 4 || cfg.BcryptCost > 31 {
		return nil, errors.New("config: BCRYPT_COST must be between 4 and 31")
	}

	return &cfg, nil
}

// Production reports whether the app runs with production hardening.
func (c *Config) Production() bool {
	return strings.EqualFold(c.Env, "production")
}

// SessionTTL returns the session lifetime as a duration.
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLSeconds) * time.Second
}

// SessionRefreshEvery returns the minimum sliding-refresh interval as a duration.
func (c *Config) SessionRefreshEvery() time.Duration {
	return time.Duration(c.SessionRefreshSeconds) * time.Second
}

// SessionSecrets returns all accepted signing keys, newest first. The first entry
// signs new tokens; every entry verifies existing ones. Empty when no secret is set.
func (c *Config) SessionSecrets() [][]byte {
	var out [][]byte
	if s := strings.TrimSpace(c.SessionSecret); s != "" {
		out = append(out, []byte(s))
	}
	for _, s := range strings.Split(c.SessionSecretsExtra, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, []byte(s))
		}
	}
	return out
}
