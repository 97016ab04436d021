package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadFromDir(t *testing.T, yaml string) *Config {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := Load("test")
	require.NoError(t, err)
	return cfg
}

func TestLoadDefaults(t *testing.T) {
	cfg := loadFromDir(t, "env: local\n")

	assert.Equal(t, "3001", cfg.Port)
	assert.Equal(t, "test", cfg.Version)
	assert.Equal(t, 10000, cfg.Validator.MaxQueryLength)
	assert.Equal(t, 30, cfg.Validator.RateLimitMaxRequests)
	assert.Equal(t, time.Minute, cfg.Validator.RateLimitWindow())
	assert.Equal(t, 5*time.Minute, cfg.Schema.RefreshInterval())
	assert.Equal(t, 30*time.Second, cfg.Schema.RefreshTimeout())
	assert.Equal(t, 5433, cfg.Sandbox.Port)
	assert.Equal(t, 5000, cfg.Sandbox.StatementTimeoutMillis)
}

func TestLoadYAMLValues(t *testing.T) {
	cfg := loadFromDir(t, `
port: "8080"
validator:
  max_query_length: 500
  rate_limit_max_requests: 5
sandbox:
  database: practice
  statement_timeout_ms: 250
`)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 500, cfg.Validator.MaxQueryLength)
	assert.Equal(t, 5, cfg.Validator.RateLimitMaxRequests)
	assert.Equal(t, "practice", cfg.Sandbox.Database)
	assert.Equal(t, 250, cfg.Sandbox.StatementTimeoutMillis)
}

func TestEnvOverridesYAML(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("SANDBOX_PGPASSWORD", "hunter2")

	cfg := loadFromDir(t, "port: \"8080\"\n")

	assert.Equal(t, "9999", cfg.Port)
	assert.Equal(t, "hunter2", cfg.Sandbox.Password)
}

func TestConnectionStrings(t *testing.T) {
	cfg := &SandboxConfig{
		Host:     "db.internal",
		Port:     5433,
		User:     "sandbox",
		Password: "pw",
		Database: "sandbox",
		SSLMode:  "disable",
	}

	assert.Equal(t,
		"host=db.internal port=5433 user=sandbox password=pw dbname=sandbox sslmode=disable",
		cfg.ConnectionString())
}
