package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
	Client    ClientConfig
	Geo       GeoConfig
}

// ServerConfig holds echo server configuration.
type ServerConfig struct {
	Port      string `envconfig:"PORT" default:"8000"`
	Host      string `envconfig:"HOST" default:"0.0.0.0"`
	StaticDir string `envconfig:"STATIC_DIR" default:""`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return s.Host + ":" + s.Port
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// RateLimitConfig holds per-IP rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
}

// CORSConfig holds cross-origin configuration.
type CORSConfig struct {
	Origins []string `envconfig:"CORS_ORIGINS" default:"*"`
}

// ClientConfig holds request client configuration.
type ClientConfig struct {
	BaseURL        string        `envconfig:"XHR_BASE_URL" default:""`
	Timeout        time.Duration `envconfig:"XHR_TIMEOUT" default:"30s"`
	UserAgent      string        `envconfig:"XHR_USER_AGENT" default:"xhr-go/1.0"`
	RateLimit      float64       `envconfig:"XHR_RATE_LIMIT" default:"0"`
	BreakerEnabled bool          `envconfig:"XHR_BREAKER_ENABLED" default:"false"`
}

// GeoConfig holds geolocation configuration.
type GeoConfig struct {
	Endpoint      string        `envconfig:"GEO_ENDPOINT" default:""`
	WatchInterval time.Duration `envconfig:"GEO_WATCH_INTERVAL" default:"5s"`
	HighAccuracy  bool          `envconfig:"GEO_HIGH_ACCURACY" default:"false"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8000",
			Host: "0.0.0.0",
		},
		Logging: LogConfig{
			Level: "info",
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
		CORS: CORSConfig{
			Origins: []string{"*"},
		},
		Client: ClientConfig{
			Timeout:   30 * time.Second,
			UserAgent: "xhr-go/1.0",
		},
		Geo: GeoConfig{
			WatchInterval: 5 * time.Second,
		},
	}
}

// Validate rejects values that would make components misbehave.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Server.Port) == "" {
		return fmt.Errorf("invalid config: PORT is empty")
	}
	if c.RateLimit.Enabled && c.RateLimit.RequestsPerSecond <= 0 {
		return fmt.Errorf("invalid config: RATE_LIMIT_RPS must be positive, got %d", c.RateLimit.RequestsPerSecond)
	}
	if c.Client.Timeout < 0 {
		return fmt.Errorf("invalid config: XHR_TIMEOUT must not be negative")
	}
	if c.Client.RateLimit < 0 {
		return fmt.Errorf("invalid config: XHR_RATE_LIMIT must not be negative")
	}
	if c.Geo.WatchInterval <= 0 {
		return fmt.Errorf("invalid config: GEO_WATCH_INTERVAL must be positive")
	}
	return nil
}
