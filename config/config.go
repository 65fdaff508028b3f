// Package config loads library.yaml and its environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the library server and CLI.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Store  StoreConfig  `yaml:"store"`
	Client ClientConfig `yaml:"client"`
	Log    LogConfig    `yaml:"log"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr              string `yaml:"addr"`
	CORSOrigin        string `yaml:"cors_origin"`
	JWTSecret         string `yaml:"jwt_secret"`
	TokenTTL          string `yaml:"token_ttl"`
	AuthRatePerMinute int    `yaml:"auth_rate_per_minute"`
	AuthBurst         int    `yaml:"auth_burst"`
	ShutdownTimeout   string `yaml:"shutdown_timeout"`
}

// StoreConfig selects and configures the record store.
type StoreConfig struct {
	Driver string `yaml:"driver"` // memory, sqlite
	Path   string `yaml:"path"`
	Seed   bool   `yaml:"seed"`
}

// ClientConfig configures the CLI's remote client.
type ClientConfig struct {
	BaseURL      string `yaml:"base_url"`
	PreferRemote bool   `yaml:"prefer_remote"`
	Timeout      string `yaml:"timeout"`
}

// LogConfig configures zap.
type LogConfig struct {
	Level       string `yaml:"level"` // debug, info, warn, error
	Development bool   `yaml:"development"`
}

// Store drivers.
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
)

// DefaultJWTSecret is used when neither the file nor JWT_SECRET sets one.
const DefaultJWTSecret = "your-secret-key"

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:              ":5000",
			CORSOrigin:        "*",
			JWTSecret:         DefaultJWTSecret,
			TokenTTL:          "168h",
			AuthRatePerMinute: 20,
			AuthBurst:         5,
			ShutdownTimeout:   "10s",
		},
		Store: StoreConfig{
			Driver: DriverMemory,
			Path:   "data/library.db",
			Seed:   true,
		},
		Client: ClientConfig{
			BaseURL: "http://localhost:5000/api",
			Timeout: "10s",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads path over the defaults, then applies environment overrides.
// A missing file is not an error. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		case os.IsNotExist(err):
		default:
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if port := os.Getenv("PORT"); port != "" {
		c.Server.Addr = ":" + strings.TrimPrefix(port, ":")
	}
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		c.Server.JWTSecret = secret
	}
	if path := os.Getenv("LIBRARY_DB_PATH"); path != "" {
		c.Store.Path = path
		c.Store.Driver = DriverSQLite
	}
	if url := os.Getenv("LIBRARY_API_URL"); url != "" {
		c.Client.BaseURL = url
	}
	if v := os.Getenv("LIBRARY_PREFER_REMOTE"); v != "" {
		if on, err := strconv.ParseBool(v); err == nil {
			c.Client.PreferRemote = on
		}
	}
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case DriverMemory, DriverSQLite:
	default:
		return fmt.Errorf("invalid store driver: %s (valid: %s, %s)", c.Store.Driver, DriverMemory, DriverSQLite)
	}
	if c.Store.Driver == DriverSQLite && c.Store.Path == "" {
		return fmt.Errorf("store path required for sqlite driver")
	}
	if c.Server.JWTSecret == "" {
		return fmt.Errorf("jwt secret not configured (set server.jwt_secret or JWT_SECRET)")
	}
	return nil
}

// GetTokenTTL returns the JWT lifetime.
func (c *Config) GetTokenTTL() time.Duration {
	return parseDuration(c.Server.TokenTTL, 7*24*time.Hour)
}

// GetShutdownTimeout returns how long in-flight requests get on shutdown.
func (c *Config) GetShutdownTimeout() time.Duration {
	return parseDuration(c.Server.ShutdownTimeout, 10*time.Second)
}

// GetClientTimeout returns the per-request timeout of the remote client.
func (c *Config) GetClientTimeout() time.Duration {
	return parseDuration(c.Client.Timeout, 10*time.Second)
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
