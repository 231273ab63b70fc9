package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	if cfg.Database.Driver != "postgres" {
		t.Errorf("expected postgres driver, got %s", cfg.Database.Driver)
	}
	if cfg.Ledger.CacheTTL != 10*time.Minute {
		t.Errorf("expected 10m cache TTL, got %s", cfg.Ledger.CacheTTL)
	}
	if cfg.Server.NotifyRequests != 3 {
		t.Errorf("expected 3 notify requests, got %d", cfg.Server.NotifyRequests)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("DATABASE_URL", "file:ledger.db")
	t.Setenv("LEDGER_CACHE_TTL", "90s")
	t.Setenv("SERVER_PORT", "not-a-number")
	t.Setenv("EMAIL_WORKER_ENABLED", "false")
	t.Setenv("RESEND_REPLY_TO", "admin@condo.example")

	cfg := Load()

	if cfg.Database.Driver != "sqlite" || cfg.Database.URL != "file:ledger.db" {
		t.Errorf("expected sqlite file:ledger.db, got %s %s", cfg.Database.Driver, cfg.Database.URL)
	}
	if cfg.Ledger.CacheTTL != 90*time.Second {
		t.Errorf("expected 90s cache TTL, got %s", cfg.Ledger.CacheTTL)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("expected fallback port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Email.WorkerEnabled {
		t.Error("expected email worker to be disabled")
	}
	if cfg.Email.ReplyTo != "admin@condo.example" {
		t.Errorf("expected reply-to override, got %q", cfg.Email.ReplyTo)
	}
}
