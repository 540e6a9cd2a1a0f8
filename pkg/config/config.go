// Package config loads dashctl settings: defaults, then an optional YAML
// file, then an optional .env file, then DASH_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the root configuration. It is read-only after Load returns.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Log       LogConfig       `yaml:"log"`
	Dashboard DashboardConfig `yaml:"dashboard"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port     int    `yaml:"port"`
	BasePath string `yaml:"base_path"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf(":%d", s.Port)
}

// DatabaseConfig contains store settings. An empty path selects the
// in-memory store.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// AuthConfig contains session settings.
type AuthConfig struct {
	Secret     string   `yaml:"-"` // env-only
	SessionTTL Duration `yaml:"session_ttl"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DashboardConfig contains dashboard service settings.
type DashboardConfig struct {
	DefaultName  string   `yaml:"default_name"`
	PalettePath  string   `yaml:"palette_path"`
	FragmentTTL  Duration `yaml:"fragment_ttl"`
	SeedOnCreate bool     `yaml:"seed_on_create"`
}

// Duration wraps time.Duration with YAML string parsing.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler for Duration.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Std returns the time.Duration value.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Load reads path (missing is fine), then envFile (missing is fine), then the
// process environment, and validates the result.
func Load(path, envFile string) (*Config, error) {
	cfg := Defaults()
	if path != "" {
		if err := loadYAMLFile(cfg, path); err != nil {
			return nil, err
		}
	}
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("loading env file: %w", err)
		}
	}
	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Defaults returns a Config with every default applied.
func Defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Port:     8080,
			BasePath: "/app",
		},
		Database: DatabaseConfig{
			Path: "data/dashboards.db",
		},
		Auth: AuthConfig{
			SessionTTL: Duration(72 * time.Hour),
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Dashboard: DashboardConfig{
			DefaultName: "My New Dashboard",
			FragmentTTL: Duration(time.Minute),
		},
	}
}

func loadYAMLFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}
	return nil
}

// applyEnvOverrides applies non-empty DASH_* variables.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("DASH_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("DASH_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if v := os.Getenv("DASH_BASE_PATH"); v != "" {
		cfg.Server.BasePath = v
	}
	if v, ok := os.LookupEnv("DASH_DB_PATH"); ok {
		cfg.Database.Path = v
	}
	if v := os.Getenv("DASH_JWT_SECRET"); v != "" {
		cfg.Auth.Secret = v
	}
	if v := os.Getenv("DASH_SESSION_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("DASH_SESSION_TTL: %w", err)
		}
		cfg.Auth.SessionTTL = Duration(d)
	}
	if v := os.Getenv("DASH_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("DASH_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("DASH_DEFAULT_NAME"); v != "" {
		cfg.Dashboard.DefaultName = v
	}
	if v := os.Getenv("DASH_PALETTE_PATH"); v != "" {
		cfg.Dashboard.PalettePath = v
	}
	if v := os.Getenv("DASH_FRAGMENT_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("DASH_FRAGMENT_TTL: %w", err)
		}
		cfg.Dashboard.FragmentTTL = Duration(d)
	}
	if v := os.Getenv("DASH_SEED_ON_CREATE"); v != "" {
		cfg.Dashboard.SeedOnCreate = v == "true" || v == "1"
	}
	return nil
}

// Validate checks ranges and enumerations. The session secret is checked by
// the commands that need it.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}
	if c.Server.BasePath != "" && !strings.HasPrefix(c.Server.BasePath, "/") {
		errs = append(errs, fmt.Errorf("server.base_path %q must start with /", c.Server.BasePath))
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level %q is not one of debug, info, warn, error", c.Log.Level))
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("log.format %q is not json or console", c.Log.Format))
	}
	if c.Dashboard.FragmentTTL < 0 {
		errs = append(errs, errors.New("dashboard.fragment_ttl must not be negative"))
	}
	if c.Auth.SessionTTL <= 0 {
		errs = append(errs, errors.New("auth.session_ttl must be positive"))
	}
	return errors.Join(errs...)
}
