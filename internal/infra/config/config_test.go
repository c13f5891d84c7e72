package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.App.Port != 8080 {
		t.Fatalf("expected default port 8080, got %d", cfg.App.Port)
	}
	if cfg.Mail.ConfirmationTTL != 3*time.Hour || cfg.Mail.PasswordResetTTL != 30*time.Minute {
		t.Fatalf("unexpected mail ttls %+v", cfg.Mail)
	}
	if cfg.Redis.AccountCacheTTL != 30*time.Minute {
		t.Fatalf("unexpected cache ttl %v", cfg.Redis.AccountCacheTTL)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("USERS_APP_PORT", "9091")
	t.Setenv("MAIL_PASSWORD_RESET_TTL", "10m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.App.Port != 9091 {
		t.Fatalf("expected prefixed env to override port, got %d", cfg.App.Port)
	}
	if cfg.Mail.PasswordResetTTL != 10*time.Minute {
		t.Fatalf("expected bare env to override ttl, got %v", cfg.Mail.PasswordResetTTL)
	}
}

func TestLoad_RejectsShortSecretInProduction(t *testing.T) {
	t.Setenv("USERS_APP_ENV", "production")
	t.Setenv("USERS_JWT_SECRET", "short")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for short production secret")
	}
}

func TestPostgresSettings_DSN(t *testing.T) {
	p := PostgresSettings{User: "u", Password: "p", Host: "db", Port: 5432, Database: "users", SSLMode: "disable"}
	if got := p.DSN(); got != "postgres://u:p@db:5432/users?sslmode=disable" {
		t.Fatalf("unexpected dsn %q", got)
	}
}
