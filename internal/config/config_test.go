package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// ── Load / Defaults ──

func TestLoadReturnsDefaults(t *testing.T) {
	os.Unsetenv("NEWSSENSE_API_PORT")
	os.Unsetenv("NEWSSENSE_CACHE_TTL_SEC")
	os.Unsetenv("NEWSSENSE_LOGGING_LEVEL")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	// Scrape defaults
	if cfg.Scrape.TimeoutSec != 45 {
		t.Errorf("Scrape.TimeoutSec: got %d, want 45", cfg.Scrape.TimeoutSec)
	}
	if !cfg.Scrape.EnableYahoo {
		t.Error("Scrape.EnableYahoo should be true by default")
	}
	if !cfg.Scrape.EnableMarketWatch {
		t.Error("Scrape.EnableMarketWatch should be true by default")
	}
	if !cfg.Scrape.EnableReuters {
		t.Error("Scrape.EnableReuters should be true by default")
	}
	if !cfg.Scrape.EnableRSS {
		t.Error("Scrape.EnableRSS should be true by default")
	}

	// Rate limit defaults
	if cfg.RateLimit.MinIntervalMs != 2000 {
		t.Errorf("RateLimit.MinIntervalMs: got %d, want 2000", cfg.RateLimit.MinIntervalMs)
	}
	if cfg.RateLimit.MaxIntervalMs != 4000 {
		t.Errorf("RateLimit.MaxIntervalMs: got %d, want 4000", cfg.RateLimit.MaxIntervalMs)
	}
	if cfg.RateLimit.BackoffBaseMs != 5000 {
		t.Errorf("RateLimit.BackoffBaseMs: got %d, want 5000", cfg.RateLimit.BackoffBaseMs)
	}
	if cfg.RateLimit.BackoffCapMs != 120000 {
		t.Errorf("RateLimit.BackoffCapMs: got %d, want 120000", cfg.RateLimit.BackoffCapMs)
	}

	// Cache defaults
	if cfg.Cache.TTLSec != 3600 {
		t.Errorf("Cache.TTLSec: got %d, want 3600", cfg.Cache.TTLSec)
	}
	if cfg.Cache.TTL() != time.Hour {
		t.Errorf("Cache.TTL(): got %v, want 1h", cfg.Cache.TTL())
	}

	// Storage defaults
	if cfg.Storage.DataDir == "" {
		t.Error("Storage.DataDir should have a default")
	}
	if !cfg.Storage.AuditEnabled {
		t.Error("Storage.AuditEnabled should be true by default")
	}

	// API defaults
	if cfg.API.Host != "0.0.0.0" {
		t.Errorf("API.Host: got %q, want %q", cfg.API.Host, "0.0.0.0")
	}
	if cfg.API.Port != 8080 {
		t.Errorf("API.Port: got %d, want 8080", cfg.API.Port)
	}

	// Logging defaults
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level: got %q, want %q", cfg.Logging.Level, "info")
	}
	if cfg.Logging.Format != "text" {
		t.Errorf("Logging.Format: got %q, want %q", cfg.Logging.Format, "text")
	}
}

// ── LoadFromFile ──

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, "test_config.yaml")
	content := []byte(`
scrape:
  timeout_sec: 20
  enable_reuters: false
rate_limit:
  min_interval_ms: 3000
  max_interval_ms: 5000
cache:
  ttl_sec: 600
storage:
  data_dir: "/tmp/newssense-test"
  audit_enabled: false
api:
  port: 9090
logging:
  level: "debug"
  format: "json"
`)
	if err := os.WriteFile(cfgPath, content, 0644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}

	cfg, err := LoadFromFile(cfgPath)
	if err != nil {
		t.Fatalf("LoadFromFile() error: %v", err)
	}
	if cfg.Scrape.TimeoutSec != 20 {
		t.Errorf("Scrape.TimeoutSec: got %d, want 20", cfg.Scrape.TimeoutSec)
	}
	if cfg.Scrape.Timeout() != 20*time.Second {
		t.Errorf("Scrape.Timeout(): got %v, want 20s", cfg.Scrape.Timeout())
	}
	if cfg.Scrape.EnableReuters {
		t.Error("Scrape.EnableReuters should be overridden to false")
	}
	if !cfg.Scrape.EnableYahoo {
		t.Error("Scrape.EnableYahoo should keep its default")
	}
	if cfg.RateLimit.MinIntervalMs != 3000 {
		t.Errorf("RateLimit.MinIntervalMs: got %d, want 3000", cfg.RateLimit.MinIntervalMs)
	}
	if cfg.Cache.TTLSec != 600 {
		t.Errorf("Cache.TTLSec: got %d, want 600", cfg.Cache.TTLSec)
	}
	if cfg.Storage.DataDir != "/tmp/newssense-test" {
		t.Errorf("Storage.DataDir: got %q", cfg.Storage.DataDir)
	}
	if cfg.Storage.AuditEnabled {
		t.Error("Storage.AuditEnabled should be overridden to false")
	}
	if cfg.API.Port != 9090 {
		t.Errorf("API.Port: got %d, want 9090", cfg.API.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level: got %q, want %q", cfg.Logging.Level, "debug")
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("Logging.Format: got %q, want %q", cfg.Logging.Format, "json")
	}
}

func TestLoadFromFileNotFound(t *testing.T) {
	_, err := LoadFromFile("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("LoadFromFile() with nonexistent path should return error")
	}
}

// ── homeDir ──

func TestHomeDirReturnsNonEmpty(t *testing.T) {
	h := homeDir()
	if h == "" {
		t.Error("homeDir() should not return empty string")
	}
}
