package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.HTTPPort != 8080 {
		t.Fatalf("unexpected port: %d", cfg.HTTPPort)
	}
	if cfg.DatabaseURL != "" {
		t.Fatalf("expected in-memory store by default, got %q", cfg.DatabaseURL)
	}
	if cfg.HistoryWindow != 10 {
		t.Fatalf("unexpected history window: %d", cfg.HistoryWindow)
	}
	if cfg.HandlerTimeout != 90*time.Second {
		t.Fatalf("unexpected handler timeout: %v", cfg.HandlerTimeout)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("DATABASE_URL", "gateway.db")
	t.Setenv("HANDLER_TIMEOUT_MS", "5000")
	t.Setenv("HISTORY_WINDOW", "4")

	cfg := Load()
	if cfg.HTTPPort != 9090 {
		t.Fatalf("port override ignored: %d", cfg.HTTPPort)
	}
	if cfg.DatabaseURL != "gateway.db" {
		t.Fatalf("database override ignored: %q", cfg.DatabaseURL)
	}
	if cfg.HandlerTimeout != 5*time.Second {
		t.Fatalf("timeout override ignored: %v", cfg.HandlerTimeout)
	}
	if cfg.HistoryWindow != 4 {
		t.Fatalf("history window override ignored: %d", cfg.HistoryWindow)
	}
}
