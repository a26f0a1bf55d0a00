package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	os.Clearenv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPAddr != ":3100" {
		t.Errorf("HTTPAddr = %q, want %q", cfg.HTTPAddr, ":3100")
	}
	if cfg.SessionTTLSeconds != 604800 {
		t.Errorf("SessionTTLSeconds = %d, want 604800", cfg.SessionTTLSeconds)
	}
	if cfg.SessionRefreshSeconds != 300 {
		t.Errorf("SessionRefreshSeconds = %d, want 300", cfg.SessionRefreshSeconds)
	}
	if cfg.SessionSameSite != "lax" {
		t.Errorf("SessionSameSite = %q, want %q", cfg.SessionSameSite, "lax")
	}
	if cfg.BcryptCost != 12 {
		t.Errorf("BcryptCost = %d, want 12", cfg.BcryptCost)
	}
	if cfg.ClientOrigin != "http://localhost:3000" {
		t.Errorf("ClientOrigin = %q, want default", cfg.ClientOrigin)
	}
	if cfg.RegistrationsEnabled {
		t.Error("RegistrationsEnabled should default to false")
	}
	if cfg.Production() {
		t.Error("Production() should be false without APP_ENV")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	os.Clearenv()
	os.Setenv("APP_ENV", "production")
	os.Setenv("SESSION_TTL", "3600")
	os.Setenv("SESSION_REFRESH_EVERY", "60")
	os.Setenv("SESSION_SAMESITE", "Strict")
	os.Setenv("SESSION_SECRET", "k1")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.Production() {
		t.Error("Production() = false, want true")
	}
	if got := cfg.SessionTTL(); got != time.Hour {
		t.Errorf("SessionTTL = %v, want 1h", got)
	}
	if got := cfg.SessionRefreshEvery(); got != time.Minute {
		t.Errorf("SessionRefreshEvery = %v, want 1m", got)
	}
	if cfg.SessionSameSite != "strict" {
		t.Errorf("SessionSameSite = %q, want %q", cfg.SessionSameSite, "strict")
	}
}

func TestLoad_InvalidSameSite(t *testing.T) {
	os.Clearenv()
	os.Setenv("SESSION_SAMESITE", "weird")

	if _, err := Load(); err == nil {
		t.Fatal("Load should reject invalid SESSION_SAMESITE")
	}
}

func TestLoad_InvalidBcryptCost(t *testing.T) {
	os.Clearenv()
	os.Setenv("BCRYPT_COST", "99")

	if _, err := Load(); err == nil {
		t.Fatal("Load should reject out-of-range BCRYPT_COST")
	}
}

func TestSessionSecrets_Rotation(t *testing.T) {
	cfg := &Config{SessionSecret: "new", SessionSecretsExtra: "old-1, old-2,,"}

	secrets := cfg.SessionSecrets()
	if len(secrets) != 3 {
		t.Fatalf("len(secrets) = %d, want 3", len(secrets))
	}
	if string(secrets[0]) != "new" {
		t.Errorf("secrets[0] = %q, want %q (newest first)", secrets[0], "new")
	}
	if string(secrets[1]) != "old-1" || string(secrets[2]) != "old-2" {
		t.Errorf("rotated secrets = %q, %q, want old-1, old-2", secrets[1], secrets[2])
	}
}

func TestSessionSecrets_Empty(t *testing.T) {
	cfg := &Config{}
	if got := cfg.SessionSecrets(); len(got) != 0 {
		t.Errorf("SessionSecrets = %v, want empty", got)
	}
}
