package config

import (
	"os"
	"testing"
	"time"
)

func TestLoader_ParseEnvironment(t *testing.T) {

	t.Run("applies defaults when variables are missing", func(t *testing.T) {
		unset := []string{
			"HOURMAP_HTTP_PORT",
			"HOURMAP_SQLITE_DSN",
			"HOURMAP_SESSION_TTL",
			"HOURMAP_INVITATION_TTL",
			"HOURMAP_LOG_LEVEL",
		}
		for _, key := range unset {
			if err := os.Unsetenv(key); err != nil {
				t.Fatalf("failed to unset %s: %v", key, err)
			}
		}

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}

		if cfg.HTTPPort != 8080 {
			t.Fatalf("expected default HTTP port 8080, got %d", cfg.HTTPPort)
		}
		if cfg.SQLiteDSN != "file:hourmap.db?_foreign_keys=on" {
			t.Fatalf("unexpected default DSN: %q", cfg.SQLiteDSN)
		}
		if cfg.SessionTTL != 24*time.Hour {
			t.Fatalf("expected default session TTL 24h, got %s", cfg.SessionTTL)
		}
		if cfg.InvitationTTL != 7*24*time.Hour {
			t.Fatalf("expected default invitation TTL 168h, got %s", cfg.InvitationTTL)
		}
		if cfg.LogLevel != "info" {
			t.Fatalf("expected default log level info, got %q", cfg.LogLevel)
		}
	})

	t.Run("parses duration and numeric fields", func(t *testing.T) {
		t.Setenv("HOURMAP_HTTP_PORT", "9090")
		t.Setenv("HOURMAP_SQLITE_DSN", "file:/tmp/hourmap.db")
		t.Setenv("HOURMAP_SESSION_TTL", "12h")
		t.Setenv("HOURMAP_INVITATION_TTL", "48h")
		t.Setenv("HOURMAP_LOG_LEVEL", "debug")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}

		if cfg.HTTPPort != 9090 {
			t.Fatalf("expected HTTP port 9090, got %d", cfg.HTTPPort)
		}
		if cfg.SQLiteDSN != "file:/tmp/hourmap.db" {
			t.Fatalf("unexpected DSN: %q", cfg.SQLiteDSN)
		}
		if cfg.SessionTTL != 12*time.Hour {
			t.Fatalf("expected session TTL 12h, got %s", cfg.SessionTTL)
		}
		if cfg.InvitationTTL != 48*time.Hour {
			t.Fatalf("expected invitation TTL 48h, got %s", cfg.InvitationTTL)
		}
		if cfg.LogLevel != "debug" {
			t.Fatalf("expected log level debug, got %q", cfg.LogLevel)
		}
	})

	t.Run("aggregates invalid values into one error", func(t *testing.T) {
		t.Setenv("HOURMAP_HTTP_PORT", "-1")
		t.Setenv("HOURMAP_SESSION_TTL", "soon")

		_, err := Load()
		if err == nil {
			t.Fatalf("expected error for invalid values")
		}
		expected := "invalid environment variable values: HOURMAP_HTTP_PORT, HOURMAP_SESSION_TTL"
		if err.Error() != expected {
			t.Fatalf("unexpected error message: %q", err.Error())
		}
	})
}
