// Package config defines the configuration structures of the interactome
// service.  No I/O lives in this file, only plain data types and validation.
package config

import (
	"fmt"
	"net/url"
	"time"
)

// ─────────────────────────────────────────────────────────────────────────────
// Sub-configuration structs
// ─────────────────────────────────────────────────────────────────────────────

// ServerConfig holds HTTP server tunables.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	MaxBodySize     int64         `mapstructure:"max_body_size"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`

	// AllowedOrigins enables CORS for the listed browser origins.
	AllowedOrigins []string `mapstructure:"allowed_origins"`

	// MaxViews caps concurrently open views; 0 keeps the service default.
	MaxViews int `mapstructure:"max_views"`

	// Per-client limit on /api/v1. A zero rate disables it.
	RateLimitRPS   float64 `mapstructure:"rate_limit_rps"`
	RateLimitBurst int     `mapstructure:"rate_limit_burst"`
}

// Addr returns host:port.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// UpstreamConfig locates the three read-only JSON endpoints that serve
// interaction data.  Paths may contain a single "{id}" placeholder that is
// replaced with the structure identifier.
type UpstreamConfig struct {
	BaseURL       string        `mapstructure:"base_url"`
	APIKey        string        `mapstructure:"api_key"`
	AtomPath      string        `mapstructure:"atom_path"`
	ResiduePath   string        `mapstructure:"residue_path"`
	ViewerPath    string        `mapstructure:"viewer_path"`
	StructurePath string        `mapstructure:"structure_path"`
	Timeout       time.Duration `mapstructure:"timeout"`
	RetryMax      int           `mapstructure:"retry_max"`
	RetryWait     time.Duration `mapstructure:"retry_wait"`
}

// RedisConfig holds the payload-cache connection parameters.
type RedisConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Addr         string        `mapstructure:"addr"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	DefaultTTL   time.Duration `mapstructure:"default_ttl"`
	KeyPrefix    string        `mapstructure:"key_prefix"`
}

// KafkaConfig holds the viewer command stream producer parameters.
type KafkaConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Brokers      []string      `mapstructure:"brokers"`
	Topic        string        `mapstructure:"topic"`
	BatchSize    int           `mapstructure:"batch_size"`
	BatchTimeout time.Duration `mapstructure:"batch_timeout"`
	RequiredAcks int           `mapstructure:"required_acks"`
	MaxAttempts  int           `mapstructure:"max_attempts"`
	Async        bool          `mapstructure:"async"`
}

// MinIOConfig holds layout snapshot object-storage parameters.
type MinIOConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	Endpoint      string        `mapstructure:"endpoint"`
	AccessKey     string        `mapstructure:"access_key"`
	SecretKey     string        `mapstructure:"secret_key"`
	Bucket        string        `mapstructure:"bucket"`
	UseSSL        bool          `mapstructure:"use_ssl"`
	Region        string        `mapstructure:"region"`
	PresignExpiry time.Duration `mapstructure:"presign_expiry"`
}

// LogConfig holds structured-logging parameters.
type LogConfig struct {
	Level       string   `mapstructure:"level"`  // "debug" | "info" | "warn" | "error"
	Format      string   `mapstructure:"format"` // "json" | "console"
	OutputPaths []string `mapstructure:"output_paths"`
}

// MetricsConfig holds Prometheus exposition parameters.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
	Subsystem string `mapstructure:"subsystem"`
	Path      string `mapstructure:"path"`
}

// LayoutConfig holds force-simulation defaults.
type LayoutConfig struct {
	Ticks        int     `mapstructure:"ticks"`
	Width        float64 `mapstructure:"width"`
	Height       float64 `mapstructure:"height"`
	LinkDistance float64 `mapstructure:"link_distance"`
	Charge       float64 `mapstructure:"charge"`
	CollidePad   float64 `mapstructure:"collide_padding"`
	BaseRadius   float64 `mapstructure:"base_radius"`
	RadiusScale  float64 `mapstructure:"radius_scale"`
	MaxRadius    float64 `mapstructure:"max_radius"`
	EdgeSpacing  float64 `mapstructure:"edge_spacing"`
}

// FilterConfig holds the initial filter state applied to new views.
type FilterConfig struct {
	ProximalThreshold float64 `mapstructure:"proximal_threshold"`
	ShowIsolated      bool    `mapstructure:"show_isolated"`
	Mode              string  `mapstructure:"mode"` // "atom" | "residue"
}

// ─────────────────────────────────────────────────────────────────────────────
// Root Config
// ─────────────────────────────────────────────────────────────────────────────

// Config is the root configuration structure.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Upstream UpstreamConfig `mapstructure:"upstream"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
	MinIO    MinIOConfig    `mapstructure:"minio"`
	Log      LogConfig      `mapstructure:"log"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Layout   LayoutConfig   `mapstructure:"layout"`
	Filter   FilterConfig   `mapstructure:"filter"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Validation
// ─────────────────────────────────────────────────────────────────────────────

// Validate performs semantic validation of a defaulted Config and returns the
// first problem found.  Optional components are only checked when enabled.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d is out of range [1, 65535]", c.Server.Port)
	}

	if c.Server.MaxViews < 0 {
		return fmt.Errorf("config: server.max_views must be ≥ 0, got %d", c.Server.MaxViews)
	}
	if c.Server.RateLimitRPS < 0 || c.Server.RateLimitBurst < 0 {
		return fmt.Errorf("config: server.rate_limit_rps and server.rate_limit_burst must be ≥ 0")
	}

	if c.Upstream.BaseURL != "" {
		u, err := url.Parse(c.Upstream.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("config: upstream.base_url %q is not an absolute URL", c.Upstream.BaseURL)
		}
	}
	if c.Upstream.RetryMax < 0 {
		return fmt.Errorf("config: upstream.retry_max must be ≥ 0, got %d", c.Upstream.RetryMax)
	}

	if c.Redis.Enabled {
		if c.Redis.Addr == "" {
			return fmt.Errorf("config: redis.addr is required when redis is enabled")
		}
		if c.Redis.DB < 0 {
			return fmt.Errorf("config: redis.db must be ≥ 0, got %d", c.Redis.DB)
		}
	}

	if c.Kafka.Enabled {
		if len(c.Kafka.Brokers) == 0 {
			return fmt.Errorf("config: kafka.brokers must contain at least one broker address")
		}
		if c.Kafka.Topic == "" {
			return fmt.Errorf("config: kafka.topic is required when kafka is enabled")
		}
	}

	if c.MinIO.Enabled {
		if c.MinIO.Endpoint == "" {
			return fmt.Errorf("config: minio.endpoint is required when minio is enabled")
		}
		if c.MinIO.Bucket == "" {
			return fmt.Errorf("config: minio.bucket is required when minio is enabled")
		}
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: log.format %q is invalid; expected json|console", c.Log.Format)
	}

	if c.Layout.Ticks < 0 {
		return fmt.Errorf("config: layout.ticks must be ≥ 0, got %d", c.Layout.Ticks)
	}
	if c.Layout.MaxRadius < c.Layout.BaseRadius {
		return fmt.Errorf("config: layout.max_radius %.1f is below layout.base_radius %.1f", c.Layout.MaxRadius, c.Layout.BaseRadius)
	}
	if c.Filter.ProximalThreshold < 0 {
		return fmt.Errorf("config: filter.proximal_threshold must be ≥ 0, got %g", c.Filter.ProximalThreshold)
	}
	switch c.Filter.Mode {
	case "atom", "residue":
	default:
		return fmt.Errorf("config: filter.mode %q is invalid; expected atom|residue", c.Filter.Mode)
	}

	return nil
}

//Personal.AI order the ending
