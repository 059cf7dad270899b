package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aurora/txnstream/internal/infrastructure/postgres"
)

// TestDB provides an isolated database connection for integration tests.
// Tests using it are skipped unless DATABASE_URL points at a live instance.
type TestDB struct {
	Pool *pgxpool.Pool
	t    *testing.T
}

// NewTestDB connects to the test database and applies migrations.
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set; skipping integration test")
	}

	if err := postgres.RunMigrations(dbURL, migrationsPath(t)); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, dbURL, 5, 1)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}
	t.Cleanup(pool.Close)

	return &TestDB{Pool: pool, t: t}
}

// Truncate removes all transactions between tests.
func (db *TestDB) Truncate(ctx context.Context) {
	db.t.Helper()

	if _, err := db.Pool.Exec(ctx, "TRUNCATE TABLE transactions"); err != nil {
		db.t.Fatalf("failed to truncate transactions: %v", err)
	}
}

// CountTransactions returns the number of stored transactions.
func (db *TestDB) CountTransactions(ctx context.Context) int {
	db.t.Helper()

	var count int
	if err := db.Pool.QueryRow(ctx, "SELECT count(*) FROM transactions").Scan(&count); err != nil {
		db.t.Fatalf("failed to count transactions: %v", err)
	}
	return count
}

func migrationsPath(t *testing.T) string {
	t.Helper()

	// Tests run from tests/integration; walk up to the repo root.
	for _, candidate := range []string{"migrations", "../migrations", "../../migrations"} {
		if _, err := os.Stat(candidate); err == nil {
			abs, err := filepath.Abs(candidate)
			if err != nil {
				t.Fatalf("failed to resolve migrations path: %v", err)
			}
			return abs
		}
	}

	t.Fatal("migrations directory not found")
	return ""
}
