// Package testutil provides the shared Postgres handle for repo tests. Tests
// needing a database are gated on TEST_POSTGRES_DSN and expect the goose
// migrations to have been applied to that database.
package testutil

import (
	"context"
	"os"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	poolOnce sync.Once
	pool     *pgxpool.Pool
	poolErr  error
)

func Pool(tb testing.TB) *pgxpool.Pool {
	tb.Helper()

	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		tb.Skip("TEST_POSTGRES_DSN not set")
	}

	poolOnce.Do(func() {
		pool, poolErr = pgxpool.New(context.Background(), dsn)
		if poolErr == nil {
			poolErr = pool.Ping(context.Background())
		}
	})
	if poolErr != nil {
		tb.Fatalf("connect test db: %v", poolErr)
	}
	return pool
}
