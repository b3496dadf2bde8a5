package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Endpoint != "https://inlinkapi.com/api" {
		t.Fatalf("endpoint = %q", cfg.Endpoint)
	}
	if cfg.PollInterval != time.Hour {
		t.Fatalf("poll interval = %v", cfg.PollInterval)
	}
	if cfg.RequestTimeout != 15*time.Second {
		t.Fatalf("request timeout = %v", cfg.RequestTimeout)
	}
	if cfg.FallbackScrape {
		t.Fatalf("fallback scrape should default to off")
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("INLINK_ENDPOINT", "https://api.example.com/")
	t.Setenv("INLINK_API_TOKEN", "secret")
	t.Setenv("POLL_INTERVAL", "60")
	t.Setenv("FALLBACK_SCRAPE", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Endpoint != "https://api.example.com/" || cfg.APIToken != "secret" {
		t.Fatalf("unexpected endpoint/token %q %q", cfg.Endpoint, cfg.APIToken)
	}
	if cfg.PollInterval != time.Minute || !cfg.FallbackScrape {
		t.Fatalf("unexpected poll settings %#v", cfg)
	}
	if cfg.Redacted().APIToken != "***" || cfg.APIToken != "secret" {
		t.Fatalf("Redacted must not mutate the original")
	}
}

func TestLoadRejectsNonPositiveInterval(t *testing.T) {
	t.Setenv("POLL_INTERVAL", "0")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for zero poll interval")
	}
}

func TestLoadClientIgnoresWatcherSettings(t *testing.T) {
	t.Setenv("POLL_INTERVAL", "0")
	t.Setenv("SIGNATURE_TTL_SECONDS", "-1")
	t.Setenv("INLINK_API_TOKEN", "tok")

	if _, err := Load(); err == nil {
		t.Fatalf("Load should reject poll_interval 0")
	}
	cfg, err := LoadClient()
	if err != nil {
		t.Fatalf("LoadClient: %v", err)
	}
	if cfg.APIToken != "tok" || cfg.Endpoint != "https://inlinkapi.com/api" {
		t.Fatalf("unexpected client config %q %q", cfg.Endpoint, cfg.APIToken)
	}
}

func TestLoadClientRejectsNegativeTimeout(t *testing.T) {
	t.Setenv("REQUEST_TIMEOUT_SECONDS", "-5")
	if _, err := LoadClient(); err == nil {
		t.Fatalf("expected error for negative timeout")
	}
}
