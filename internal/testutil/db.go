package testutil

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/udisondev/auracore/internal/db"
)

const postgresImage = "postgres:16-alpine"

// SetupTestDB starts PostgreSQL in a testcontainer, applies migrations and returns the pool.
// Skipped under -short. The container and pool are closed through tb.Cleanup.
func SetupTestDB(tb testing.TB) *pgxpool.Pool {
	tb.Helper()
	if testing.Short() {
		tb.Skip("postgres container tests skipped in -short mode")
	}
	ctx := context.Background()

	container, err := postgres.Run(ctx, postgresImage,
		postgres.WithDatabase("auracore_test"),
		postgres.WithUsername("auracore"),
		postgres.WithPassword("auracore"),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		tb.Fatalf("starting postgres container: %v", err)
	}
	tb.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			tb.Logf("terminating postgres container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		tb.Fatalf("getting connection string: %v", err)
	}

	database, err := db.New(ctx, dsn)
	if err != nil {
		tb.Fatalf("connecting to test db: %v", err)
	}
	tb.Cleanup(database.Close)

	if err := db.Migrate(ctx, database.Pool()); err != nil {
		tb.Fatalf("migrating test db: %v", err)
	}
	return database.Pool()
}
