package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CREATORLABS_AUTH_SECRET", "test-secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != ":8080" {
		t.Fatalf("unexpected addr: %s", cfg.Addr)
	}
	if cfg.TokenTTL != 24*time.Hour {
		t.Fatalf("unexpected ttl: %v", cfg.TokenTTL)
	}
	if cfg.RateBurst != 20 || cfg.RatePerSec != 10 {
		t.Fatalf("unexpected rate defaults: %d/%d", cfg.RateBurst, cfg.RatePerSec)
	}
}

func TestLoadRequiresSecret(t *testing.T) {
	t.Setenv("CREATORLABS_AUTH_SECRET", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected error without auth secret")
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("CREATORLABS_AUTH_SECRET", "test-secret")
	t.Setenv("CREATORLABS_TOKEN_TTL", "yesterday")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid ttl")
	}

	t.Setenv("CREATORLABS_TOKEN_TTL", "1h")
	t.Setenv("CREATORLABS_RATE_BURST", "-3")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid rate burst")
	}
}
