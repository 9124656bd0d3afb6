// Package config loads service configuration from TOML files, .env files and the environment
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

const (
	DefaultAPIToken = "dev-token"
	DefaultPort     = 8080
)

// Config holds all configuration for the investtrack binaries
type Config struct {
	Environment string         `toml:"environment"`
	Server      ServerConfig   `toml:"server"`
	Database    DatabaseConfig `toml:"database"`
	Logging     LoggingConfig  `toml:"logging"`
	Display     DisplayConfig  `toml:"display"`
}

// ServerConfig holds gRPC server configuration
type ServerConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	APIToken string `toml:"api_token"`
}

// Address is the host:port the gRPC server listens on
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DatabaseConfig holds PostgreSQL connection settings.
// ConnString, when set, wins over the individual fields.
type DatabaseConfig struct {
	ConnStr  string `toml:"conn_str"`
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	Name     string `toml:"name"`
	SSLMode  string `toml:"sslmode"`
}

// ConnString returns the lib/pq connection string
func (d DatabaseConfig) ConnString() string {
	if d.ConnStr != "" {
		return d.ConnStr
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `toml:"level"`
}

// DisplayConfig controls how amounts are rendered by the CLI
type DisplayConfig struct {
	Currency string `toml:"currency"`
}

// NewDefaultConfig returns a Config suitable for a local run
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Host:     "0.0.0.0",
			Port:     DefaultPort,
			APIToken: DefaultAPIToken,
		},
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "postgres",
			Password: "postgres",
			Name:     "investtrack",
			SSLMode:  "disable",
		},
		Logging: LoggingConfig{Level: "info"},
		Display: DisplayConfig{Currency: "USD"},
	}
}

// LoadDotEnv loads the given .env files into the process environment.
// Missing files are skipped and variables already set are never overwritten.
func LoadDotEnv(paths ...string) error {
	for _, path := range paths {
		if path == "" {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load env file %s: %w", path, err)
		}
	}
	return nil
}

// LoadConfig loads configuration from files with environment overrides.
// Later files override earlier ones; missing files are skipped.
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for _, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	config.Display.Currency = strings.ToUpper(strings.TrimSpace(config.Display.Currency))
	if config.Display.Currency == "" {
		config.Display.Currency = "USD"
	}

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config.
// The bare DB_* and API_TOKEN names are the ones docker-compose sets.
func applyEnvOverrides(config *Config) {
	if v := os.Getenv("INVESTTRACK_ENV"); v != "" {
		config.Environment = v
	}
	if v := os.Getenv("INVESTTRACK_HOST"); v != "" {
		config.Server.Host = v
	}
	if v := os.Getenv("INVESTTRACK_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			config.Server.Port = p
		}
	}
	if v := firstEnv("INVESTTRACK_API_TOKEN", "API_TOKEN"); v != "" {
		config.Server.APIToken = v
	}
	if v := os.Getenv("INVESTTRACK_LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}
	if v := os.Getenv("INVESTTRACK_CURRENCY"); v != "" {
		config.Display.Currency = v
	}

	if v := firstEnv("INVESTTRACK_DB_CONN_STR", "DB_CONN_STR"); v != "" {
		config.Database.ConnStr = v
	}
	if v := os.Getenv("DB_HOST"); v != "" {
		config.Database.Host = v
	}
	if v := os.Getenv("DB_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			config.Database.Port = p
		}
	}
	if v := os.Getenv("DB_USER"); v != "" {
		config.Database.User = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		config.Database.Password = v
	}
	if v := os.Getenv("DB_NAME"); v != "" {
		config.Database.Name = v
	}
}

func firstEnv(names ...string) string {
	for _, name := range names {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}
