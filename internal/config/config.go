// Package config handles configuration loading for NewsSense.
// It supports YAML config files with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete application configuration.
type Config struct {
	Scrape    ScrapeConfig    `mapstructure:"scrape"     yaml:"scrape"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit" yaml:"rate_limit"`
	Cache     CacheConfig     `mapstructure:"cache"      yaml:"cache"`
	Storage   StorageConfig   `mapstructure:"storage"    yaml:"storage"`
	API       APIConfig       `mapstructure:"api"        yaml:"api"`
	Logging   LoggingConfig   `mapstructure:"logging"    yaml:"logging"`
}

// ScrapeConfig holds news collection settings.
type ScrapeConfig struct {
	TimeoutSec         int      `mapstructure:"timeout_sec"          yaml:"timeout_sec"`
	EnableYahoo        bool     `mapstructure:"enable_yahoo"         yaml:"enable_yahoo"`
	EnableMarketWatch  bool     `mapstructure:"enable_marketwatch"   yaml:"enable_marketwatch"`
	EnableReuters      bool     `mapstructure:"enable_reuters"       yaml:"enable_reuters"`
	EnableRSS          bool     `mapstructure:"enable_rss"           yaml:"enable_rss"`
	ExtraRSSFeeds      []string `mapstructure:"extra_rss_feeds"      yaml:"extra_rss_feeds"` // name=url pairs
}

// RateLimitConfig holds per-source pacing settings, all in milliseconds.
type RateLimitConfig struct {
	MinIntervalMs int `mapstructure:"min_interval_ms" yaml:"min_interval_ms"`
	MaxIntervalMs int `mapstructure:"max_interval_ms" yaml:"max_interval_ms"`
	MinJitterMs   int `mapstructure:"min_jitter_ms"   yaml:"min_jitter_ms"`
	MaxJitterMs   int `mapstructure:"max_jitter_ms"   yaml:"max_jitter_ms"`
	BackoffBaseMs int `mapstructure:"backoff_base_ms" yaml:"backoff_base_ms"`
	BackoffCapMs  int `mapstructure:"backoff_cap_ms"  yaml:"backoff_cap_ms"`
}

// CacheConfig holds result cache settings.
type CacheConfig struct {
	TTLSec int `mapstructure:"ttl_sec" yaml:"ttl_sec"`
}

// StorageConfig holds on-disk data settings.
type StorageConfig struct {
	DataDir      string `mapstructure:"data_dir"      yaml:"data_dir"`
	AuditEnabled bool   `mapstructure:"audit_enabled" yaml:"audit_enabled"`
}

// APIConfig holds HTTP API server settings.
type APIConfig struct {
	Host        string   `mapstructure:"host"         yaml:"host"`
	Port        int      `mapstructure:"port"         yaml:"port"`
	CORSOrigins []string `mapstructure:"cors_origins" yaml:"cors_origins"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `mapstructure:"format" yaml:"format"` // "text" or "json"
}

// Timeout returns the fan-out deadline as a duration.
func (s ScrapeConfig) Timeout() time.Duration {
	return time.Duration(s.TimeoutSec) * time.Second
}

// TTL returns the cache lifetime as a duration.
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSec) * time.Second
}

// Load reads the configuration from file and environment variables.
// Config file search order:
//  1. ./config/config.yaml (project root)
//  2. ~/.newssense/config.yaml (home directory)
//  3. /etc/newssense/config.yaml (system)
//
// Environment variables override config file values.
// Format: NEWSSENSE_<SECTION>_<KEY>, e.g., NEWSSENSE_API_PORT
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(filepath.Join(homeDir(), ".newssense"))
	v.AddConfigPath("/etc/newssense")

	v.SetEnvPrefix("NEWSSENSE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Config file is optional, defaults plus env vars are enough.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return &cfg, nil
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetEnvPrefix("NEWSSENSE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return &cfg, nil
}

// setDefaults sets sensible defaults for all config values.
func setDefaults(v *viper.Viper) {
	// Scrape defaults
	v.SetDefault("scrape.timeout_sec", 45)
	v.SetDefault("scrape.enable_yahoo", true)
	v.SetDefault("scrape.enable_marketwatch", true)
	v.SetDefault("scrape.enable_reuters", true)
	v.SetDefault("scrape.enable_rss", true)
	v.SetDefault("scrape.extra_rss_feeds", []string{})

	// Rate limit defaults: 2-4s between requests per source, small
	// random jitter, exponential backoff from 5s after a 429.
	v.SetDefault("rate_limit.min_interval_ms", 2000)
	v.SetDefault("rate_limit.max_interval_ms", 4000)
	v.SetDefault("rate_limit.min_jitter_ms", 100)
	v.SetDefault("rate_limit.max_jitter_ms", 500)
	v.SetDefault("rate_limit.backoff_base_ms", 5000)
	v.SetDefault("rate_limit.backoff_cap_ms", 120000)

	// Cache defaults
	v.SetDefault("cache.ttl_sec", 3600) // 1 hour

	// Storage defaults
	v.SetDefault("storage.data_dir", filepath.Join(homeDir(), ".newssense", "data"))
	v.SetDefault("storage.audit_enabled", true)

	// API defaults
	v.SetDefault("api.host", "0.0.0.0")
	v.SetDefault("api.port", 8080)
	v.SetDefault("api.cors_origins", []string{"http://localhost:3000"})

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// homeDir returns the user's home directory.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
