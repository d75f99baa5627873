package config

import (
	"errors"
	"fmt"
	"strings"

	customerrors "github.com/axellelanca/shortlinks/internal/errors"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config represents the main structure mapping the entire application configuration.
// Keys map to YAML through mapstructure tags and can be overridden by environment
// variables (server.port -> SERVER_PORT).
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Analytics AnalyticsConfig `mapstructure:"analytics"`
	Monitor   MonitorConfig   `mapstructure:"monitor"`
	Slug      SlugConfig      `mapstructure:"slug"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Log       LogConfig       `mapstructure:"log"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port                   int    `mapstructure:"port"`
	BaseURL                string `mapstructure:"base_url"` // public prefix of every short URL
	ShutdownTimeoutSeconds int    `mapstructure:"shutdown_timeout_seconds"`
}

// DatabaseConfig selects the gorm dialect. Name is the SQLite file, DSN the
// PostgreSQL connection string.
type DatabaseConfig struct {
	Driver string `mapstructure:"driver"`
	Name   string `mapstructure:"name"`
	DSN    string `mapstructure:"dsn"`
}

// AnalyticsConfig tunes asynchronous click-event recording
type AnalyticsConfig struct {
	BufferSize  int    `mapstructure:"buffer_size"`
	WorkerCount int    `mapstructure:"worker_count"`
	IPSalt      string `mapstructure:"ip_salt"`
}

// MonitorConfig controls destination health checks
type MonitorConfig struct {
	Enabled         bool `mapstructure:"enabled"`
	IntervalMinutes int  `mapstructure:"interval_minutes"`
}

// SlugConfig controls generated short codes
type SlugConfig struct {
	Length      int `mapstructure:"length"`
	MaxAttempts int `mapstructure:"max_attempts"`
}

type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

// LoadConfig loads .env (when present) and then ./configs/config.yaml,
// environment variables and defaults.
func LoadConfig() (*Config, error) {
	// A missing .env is the normal case outside local development.
	_ = godotenv.Load()
	return LoadConfigFrom("./configs")
}

// LoadConfigFrom reads config.yaml from dir. A missing file falls back to
// defaults; a malformed one is an error.
func LoadConfigFrom(dir string) (*Config, error) {
	v := viper.New()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.AddConfigPath(dir)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, customerrors.ErrConfigLoad{Path: dir, Reason: err.Error()}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.base_url", "http://localhost:8080")
	v.SetDefault("server.shutdown_timeout_seconds", 10)
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.name", "url_shortener.db")
	v.SetDefault("database.dsn", "")
	v.SetDefault("analytics.buffer_size", 1000)
	v.SetDefault("analytics.worker_count", 5)
	v.SetDefault("analytics.ip_salt", "change-me")
	v.SetDefault("monitor.enabled", false)
	v.SetDefault("monitor.interval_minutes", 5)
	v.SetDefault("slug.length", 6)
	v.SetDefault("slug.max_attempts", 10)
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", true)
}

// Validate rejects settings the rest of the application cannot run with.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "sqlite":
		if c.Database.Name == "" {
			return customerrors.ErrConfigLoad{Path: "database.name", Reason: "sqlite driver needs a file name"}
		}
	case "postgres":
		if c.Database.DSN == "" {
			return customerrors.ErrConfigLoad{Path: "database.dsn", Reason: "postgres driver needs a DSN"}
		}
	default:
		return customerrors.ErrConfigLoad{Path: "database.driver", Reason: fmt.Sprintf("unsupported driver %q", c.Database.Driver)}
	}
	if c.Server.BaseURL == "" {
		return customerrors.ErrConfigLoad{Path: "server.base_url", Reason: "must not be empty"}
	}
	if c.Analytics.WorkerCount < 1 {
		return customerrors.ErrConfigLoad{Path: "analytics.worker_count", Reason: "must be at least 1"}
	}
	return nil
}
