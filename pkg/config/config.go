package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for querygym-engine.
// Configuration can come from YAML file (config.yaml) or environment variables.
// Environment variables always override YAML values for fields that support both.
// Secrets (passwords) must only come from environment variables.
type Config struct {
	// Server configuration
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"127.0.0.1"`
	Port     string `yaml:"port" env:"PORT" env-default:"3001"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	Version  string `yaml:"-"` // Set at load time, not from config

	// Database holds the engine's own metadata store (problems, expected
	// outputs).
	Database DatabaseConfig `yaml:"database"`

	// Sandbox holds the isolated execution database candidate queries run
	// against.
	Sandbox SandboxConfig `yaml:"sandbox"`

	// Validator tunes query admission limits.
	Validator ValidatorConfig `yaml:"validator"`

	// Schema tunes the schema cache refresh loop.
	Schema SchemaConfig `yaml:"schema"`
}

// DatabaseConfig holds PostgreSQL configuration for the metadata store.
type DatabaseConfig struct {
	Host           string `yaml:"host" env:"PGHOST" env-default:"localhost"`
	Port           int    `yaml:"port" env:"PGPORT" env-default:"5432"`
	User           string `yaml:"user" env:"PGUSER" env-default:"querygym"`
	Password       string `yaml:"-" env:"PGPASSWORD"` // Secret - not in YAML
	Database       string `yaml:"database" env:"PGDATABASE" env-default:"querygym"`
	MaxConnections int32  `yaml:"max_connections" env:"PGMAX_CONNECTIONS" env-default:"25"`
	SSLMode        string `yaml:"ssl_mode" env:"PGSSLMODE" env-default:"disable"`
}

// SandboxConfig holds PostgreSQL configuration for the sandbox database.
type SandboxConfig struct {
	Host           string `yaml:"host" env:"SANDBOX_PGHOST" env-default:"localhost"`
	Port           int    `yaml:"port" env:"SANDBOX_PGPORT" env-default:"5433"`
	User           string `yaml:"user" env:"SANDBOX_PGUSER" env-default:"sandbox"`
	Password       string `yaml:"-" env:"SANDBOX_PGPASSWORD"` // Secret - not in YAML
	Database       string `yaml:"database" env:"SANDBOX_PGDATABASE" env-default:"sandbox"`
	MaxConnections int32  `yaml:"max_connections" env:"SANDBOX_PGMAX_CONNECTIONS" env-default:"10"`
	SSLMode        string `yaml:"ssl_mode" env:"SANDBOX_PGSSLMODE" env-default:"disable"`

	// StatementTimeoutMillis bounds each candidate query inside the
	// sandbox session.
	StatementTimeoutMillis int `yaml:"statement_timeout_ms" env:"SANDBOX_STATEMENT_TIMEOUT_MS" env-default:"5000"`

	// MaxResultRows caps how many rows an executed query returns.
	MaxResultRows int `yaml:"max_result_rows" env:"SANDBOX_MAX_RESULT_ROWS" env-default:"1000"`
}

// ValidatorConfig tunes query admission.
type ValidatorConfig struct {
	MaxQueryLength       int `yaml:"max_query_length" env:"VALIDATOR_MAX_QUERY_LENGTH" env-default:"10000"`
	RateLimitWindowSecs  int `yaml:"rate_limit_window_seconds" env:"VALIDATOR_RATE_LIMIT_WINDOW_SECONDS" env-default:"60"`
	RateLimitMaxRequests int `yaml:"rate_limit_max_requests" env:"VALIDATOR_RATE_LIMIT_MAX_REQUESTS" env-default:"30"`
}

// RateLimitWindow returns the configured window as a duration.
func (c *ValidatorConfig) RateLimitWindow() time.Duration {
	return time.Duration(c.RateLimitWindowSecs) * time.Second
}

// SchemaConfig tunes the schema cache.
type SchemaConfig struct {
	RefreshIntervalMins int `yaml:"refresh_interval_minutes" env:"SCHEMA_REFRESH_INTERVAL_MINUTES" env-default:"5"`
	RefreshTimeoutSecs  int `yaml:"refresh_timeout_seconds" env:"SCHEMA_REFRESH_TIMEOUT_SECONDS" env-default:"30"`
}

// RefreshInterval returns the configured interval as a duration.
func (c *SchemaConfig) RefreshInterval() time.Duration {
	return time.Duration(c.RefreshIntervalMins) * time.Minute
}

// RefreshTimeout returns the configured timeout as a duration.
func (c *SchemaConfig) RefreshTimeout() time.Duration {
	return time.Duration(c.RefreshTimeoutSecs) * time.Second
}

// Load reads configuration from config.yaml with environment variable
// overrides. The version parameter is injected at build time and set on the
// returned Config. Secrets (PGPASSWORD, SANDBOX_PGPASSWORD) must come from
// environment variables (yaml:"-" fields).
func Load(version string) (*Config, error) {
	cfg := &Config{
		Version: version,
	}

	if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
		return nil, fmt.Errorf("failed to read config.yaml: %w", err)
	}

	return cfg, nil
}

// ConnectionString returns a PostgreSQL connection string for the metadata
// store.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		ResolveHostForDocker(c.Host), c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// ConnectionString returns a PostgreSQL connection string for the sandbox.
func (c *SandboxConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		ResolveHostForDocker(c.Host), c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}
