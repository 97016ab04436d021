// Package testhelpers provides utilities for testing querygym-engine
// components against a real PostgreSQL sandbox.
package testhelpers

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// SandboxImage is the PostgreSQL image used for sandbox integration tests.
const SandboxImage = "postgres:16-alpine"

// sandboxSeedSQL is the practice schema loaded into every test container.
// It mirrors the shape of a typical interview problem: a few small related
// tables with primary and foreign keys.
const sandboxSeedSQL = `
CREATE TABLE users (
    id SERIAL PRIMARY KEY,
    name TEXT NOT NULL,
    email TEXT NOT NULL UNIQUE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE orders (
    id SERIAL PRIMARY KEY,
    user_id INTEGER NOT NULL REFERENCES users(id),
    total NUMERIC(10, 2) NOT NULL,
    status TEXT NOT NULL DEFAULT 'pending'
);

INSERT INTO users (name, email) VALUES
    ('Alice', 'alice@example.com'),
    ('Bob', 'bob@example.com'),
    ('Carol', 'carol@example.com');

INSERT INTO orders (user_id, total, status) VALUES
    (1, 19.99, 'paid'),
    (1, 5.00, 'pending'),
    (2, 120.50, 'paid');

CREATE TABLE problems (
    id UUID PRIMARY KEY,
    numeric_id INTEGER NOT NULL UNIQUE,
    title TEXT NOT NULL,
    setup_sql TEXT NOT NULL,
    expected_output TEXT NOT NULL
);

INSERT INTO problems (id, numeric_id, title, setup_sql, expected_output) VALUES (
    '3f1a8a52-9c5e-4f7b-8d3a-2e6b1c9d0e4f',
    1,
    'Paid order totals',
    'CREATE TABLE payments (id SERIAL PRIMARY KEY, amount NUMERIC(10, 2) NOT NULL);',
    '[{"total": 140.49}]'
);
`

// SandboxDB holds a shared sandbox container and connection pool.
type SandboxDB struct {
	Container testcontainers.Container
	Pool      *pgxpool.Pool
	ConnStr   string
}

var (
	sharedSandbox     *SandboxDB
	sharedSandboxOnce sync.Once
	sharedSandboxErr  error
)

// GetSandboxDB returns a shared PostgreSQL container seeded with the
// practice schema. The container is created once and reused across all
// tests in the run.
func GetSandboxDB(t *testing.T) *SandboxDB {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode (requires Docker)")
	}

	sharedSandboxOnce.Do(func() {
		sharedSandbox, sharedSandboxErr = setupSandboxDB()
	})

	if sharedSandboxErr != nil {
		t.Fatalf("Failed to setup sandbox database: %v", sharedSandboxErr)
	}

	return sharedSandbox
}

func setupSandboxDB() (*SandboxDB, error) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        SandboxImage,
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_DB":       "querygym_sandbox",
			"POSTGRES_USER":     "querygym",
			"POSTGRES_PASSWORD": "test_password",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start sandbox container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get container host: %w", err)
	}

	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		return nil, fmt.Errorf("failed to get container port: %w", err)
	}

	connStr := fmt.Sprintf("postgres://querygym:test_password@%s:%s/querygym_sandbox?sslmode=disable",
		host, port.Port())

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Verify connection with retry
	for i := 0; i < 10; i++ {
		if err := pool.Ping(ctx); err == nil {
			break
		}
		time.Sleep(500 * time.Millisecond)
	}

	if _, err := pool.Exec(ctx, sandboxSeedSQL); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to seed sandbox schema: %w", err)
	}

	return &SandboxDB{
		Container: container,
		Pool:      pool,
		ConnStr:   connStr,
	}, nil
}
