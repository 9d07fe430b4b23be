package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.BindAddr != ":8000" {
		t.Fatalf("BindAddr = %q, want :8000", cfg.BindAddr)
	}
	if cfg.HistoryWindow != 2 {
		t.Fatalf("HistoryWindow = %d, want 2", cfg.HistoryWindow)
	}
	if cfg.InactivityTimeout != 30*time.Minute {
		t.Fatalf("InactivityTimeout = %v, want 30m", cfg.InactivityTimeout)
	}
	if cfg.ProviderMode != "auto" {
		t.Fatalf("ProviderMode = %q, want auto", cfg.ProviderMode)
	}
}

func TestLoadOverridesAndValidation(t *testing.T) {
	t.Setenv("APP_SESSION_INACTIVITY_TIMEOUT", "10m")
	t.Setenv("APP_HISTORY_WINDOW", "3")
	t.Setenv("APP_ALLOWED_ORIGINS", "https://app.example.com, http://localhost:3000")
	t.Setenv("GROQ_API_KEY", "gk-chat")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.InactivityTimeout != 10*time.Minute {
		t.Fatalf("InactivityTimeout = %v, want 10m", cfg.InactivityTimeout)
	}
	if cfg.HistoryWindow != 3 {
		t.Fatalf("HistoryWindow = %d, want 3", cfg.HistoryWindow)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[0] != "https://app.example.com" {
		t.Fatalf("AllowedOrigins = %v", cfg.AllowedOrigins)
	}
	// Report key falls back to the chat key when unset.
	if cfg.GroqReportAPIKey != "gk-chat" {
		t.Fatalf("GroqReportAPIKey = %q, want chat key fallback", cfg.GroqReportAPIKey)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("APP_SESSION_INACTIVITY_TIMEOUT", "1s")
	if _, err := Load(); err == nil {
		t.Fatalf("Load() should reject sub-5s inactivity timeout")
	}

	t.Setenv("APP_SESSION_INACTIVITY_TIMEOUT", "10m")
	t.Setenv("PROVIDER_MODE", "banana")
	if _, err := Load(); err == nil {
		t.Fatalf("Load() should reject unknown provider mode")
	}
}
