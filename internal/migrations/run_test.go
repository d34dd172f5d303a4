package migrations

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func getTestDB(t *testing.T) *sql.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := sql.Open("pgx", dsn)
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})
	return db
}

func migrationsPath(t *testing.T) string {
	root, err := filepath.Abs("../..")
	require.NoError(t, err)
	return filepath.Join(root, "migrations")
}

func tableExists(t *testing.T, db *sql.DB, table string) bool {
	var exists bool
	err := db.QueryRow(`
		SELECT EXISTS (
			SELECT 1 FROM information_schema.tables
			WHERE table_schema = 'public' AND table_name = $1
		)`, table).Scan(&exists)
	require.NoError(t, err)
	return exists
}

func TestRun(t *testing.T) {
	db := getTestDB(t)

	require.NoError(t, Run(db, migrationsPath(t)))

	require.True(t, tableExists(t, db, "subscriptions"))
	require.True(t, tableExists(t, db, "renewal_reminders"))
}

func TestRun_Idempotent(t *testing.T) {
	db := getTestDB(t)
	path := migrationsPath(t)

	require.NoError(t, Run(db, path))
	require.NoError(t, Run(db, path))
}

func TestRun_FreeTierRejectsDates(t *testing.T) {
	db := getTestDB(t)
	require.NoError(t, Run(db, migrationsPath(t)))

	_, err := db.Exec(`INSERT INTO subscriptions (user_uid, tier, status, start_date, end_date)
		VALUES ('6f1c3b9e-5a2d-4c8e-9f10-1a2b3c4d5e6f', 'free', 'inactive', NOW(), NOW())`)
	require.Error(t, err)
}
