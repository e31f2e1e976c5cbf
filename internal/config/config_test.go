package config

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleConfig = `
server:
  port: ":9090"
database:
  url: "postgres://localhost/neuraslide_test"
auth:
  jwt_secret: "file-secret"
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, sampleConfig))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Port != ":9090" {
		t.Fatalf("unexpected port %q", cfg.Server.Port)
	}
	if cfg.Auth.JWTSecret != "file-secret" {
		t.Fatalf("unexpected secret %q", cfg.Auth.JWTSecret)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, sampleConfig))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Auth.TokenTTLHours != 24 {
		t.Fatalf("expected default TTL 24h, got %d", cfg.Auth.TokenTTLHours)
	}
	if cfg.OpenAI.Model != "gpt-4o-mini" {
		t.Fatalf("expected default model, got %q", cfg.OpenAI.Model)
	}
	if cfg.Instagram.PollIntervalSeconds != 30 {
		t.Fatalf("expected default poll interval, got %d", cfg.Instagram.PollIntervalSeconds)
	}
	if cfg.Database.MaxOpenConns != 25 || cfg.Database.MaxIdleConns != 5 {
		t.Fatalf("expected default pool limits, got open=%d idle=%d",
			cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns)
	}
	if cfg.Database.ConnMaxLifetimeMinutes != 30 {
		t.Fatalf("expected default connection lifetime, got %d", cfg.Database.ConnMaxLifetimeMinutes)
	}
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("DATABASE_URL", "postgres://elsewhere/db")

	cfg, err := LoadConfig(writeConfig(t, sampleConfig))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Auth.JWTSecret != "env-secret" {
		t.Fatalf("env must override file, got %q", cfg.Auth.JWTSecret)
	}
	if cfg.Database.URL != "postgres://elsewhere/db" {
		t.Fatalf("env must override file, got %q", cfg.Database.URL)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yml")); err == nil {
		t.Fatal("expected error")
	}
}
