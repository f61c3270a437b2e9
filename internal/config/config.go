// Package config loads server configuration from an optional YAML file and
// environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultHost   = "0.0.0.0"
	DefaultPort   = "5000"
	DefaultDBPath = "./data/algoridigm.db"
)

type Config struct {
	Server       ServerConfig       `yaml:"server"`
	TLS          TLSConfig          `yaml:"tls"`
	Database     DatabaseConfig     `yaml:"database"`
	Log          LogConfig          `yaml:"log"`
	RateLimit    RateLimitConfig    `yaml:"rate_limit"`
	Presentation PresentationConfig `yaml:"presentation"`
}

type ServerConfig struct {
	Host            string        `yaml:"host"`
	Port            string        `yaml:"port"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type TLSConfig struct {
	Enabled    bool   `yaml:"enabled"`
	CertFile   string `yaml:"cert_file"`
	KeyFile    string `yaml:"key_file"`
	MinVersion string `yaml:"min_version"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// RateLimitConfig bounds registration submissions across all clients.
type RateLimitConfig struct {
	PerMinute int `yaml:"per_minute"`
	Burst     int `yaml:"burst"`
}

// PresentationConfig tunes the running presentation.
type PresentationConfig struct {
	// RevealDelay overrides the delayed transition into the last slide.
	RevealDelay time.Duration `yaml:"reveal_delay"`
	// AutoStartTimer starts the timer as soon as the server starts.
	AutoStartTimer bool `yaml:"auto_start_timer"`
	// SessionPath stores the current slide across restarts. Mute is never saved.
	// Empty disables resuming.
	SessionPath string `yaml:"session_path"`
}

func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            DefaultHost,
			Port:            DefaultPort,
			ShutdownTimeout: 10 * time.Second,
		},
		TLS: TLSConfig{
			MinVersion: "1.2",
		},
		Database: DatabaseConfig{
			Path: DefaultDBPath,
		},
		Log: LogConfig{
			Level: "info",
		},
		RateLimit: RateLimitConfig{
			PerMinute: 30,
			Burst:     10,
		},
		Presentation: PresentationConfig{
			SessionPath: "./data/session.json",
		},
	}
}

// Load reads a YAML file over the defaults. Environment variables are not
// applied and the result is not validated: overrides may still complete it,
// so callers run Validate once everything is merged.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadConfig builds the configuration from CONFIG_FILE (if set) and the
// environment. When that fails it retries with defaults plus environment, and
// when the environment itself is invalid it uses plain defaults.
func LoadConfig() *Config {
	cfg, err := LoadFrom(os.Getenv("CONFIG_FILE"))
	if err == nil {
		return cfg
	}
	fmt.Fprintf(os.Stderr, "config: %v, using defaults\n", err)

	cfg = DefaultConfig()
	applyEnv(cfg)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "config: environment: %v, ignoring overrides\n", err)
		return DefaultConfig()
	}
	return cfg
}

// LoadFrom reads path (when not empty), applies environment overrides and
// validates the merged result.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		loaded, err := Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	applyEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail at startup.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server.port is required")
	}
	if _, err := strconv.Atoi(c.Server.Port); err != nil {
		return fmt.Errorf("server.port %q is not a number", c.Server.Port)
	}
	if c.TLS.Enabled && (c.TLS.CertFile == "" || c.TLS.KeyFile == "") {
		return fmt.Errorf("tls.cert_file and tls.key_file are required when tls is enabled")
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	if c.RateLimit.PerMinute < 0 || c.RateLimit.Burst < 0 {
		return fmt.Errorf("rate_limit values must not be negative")
	}
	if c.Presentation.RevealDelay < 0 {
		return fmt.Errorf("presentation.reveal_delay must not be negative")
	}
	return nil
}

// Addr returns host:port.
func (c *Config) Addr() string {
	return c.Server.Host + ":" + c.Server.Port
}

func applyEnv(cfg *Config) {
	setString(&cfg.Server.Host, "HOST")
	setString(&cfg.Server.Port, "PORT")
	setString(&cfg.Database.Path, "DB_PATH")
	setString(&cfg.Log.Level, "LOG_LEVEL")
	setString(&cfg.Presentation.SessionPath, "SESSION_PATH")
	setString(&cfg.TLS.CertFile, "TLS_CERT_FILE")
	setString(&cfg.TLS.KeyFile, "TLS_KEY_FILE")
	setString(&cfg.TLS.MinVersion, "TLS_MIN_VERSION")
	setBool(&cfg.TLS.Enabled, "TLS_ENABLED")
	setBool(&cfg.Log.Development, "LOG_DEVELOPMENT")
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setBool(dst *bool, key string) {
	if v, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}
