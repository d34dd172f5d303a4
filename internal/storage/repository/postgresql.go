// Package repository stores subscription snapshots and renewal reminder markers in PostgreSQL.
package repository

import (
	"context"
	"database/sql"
	"fmt"

	// pgx driver for database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Storage wraps the PostgreSQL connection pool.
type Storage struct {
	DB *sql.DB
}

// New opens the pool and checks that the database answers.
func New(ctx context.Context, storageConnectionString string) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{DB: db}, nil
}

// CheckDatabaseReady verifies the schema has been migrated.
func (s *Storage) CheckDatabaseReady(ctx context.Context) error {
	const op = "storage.CheckDatabaseReady"
	for _, table := range []string{"subscriptions", "renewal_reminders"} {
		var exists bool
		err := s.DB.QueryRowContext(ctx, `SELECT EXISTS (
			SELECT FROM information_schema.tables WHERE table_name = $1
		)`, table).Scan(&exists)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		if !exists {
			return fmt.Errorf("%s: required table %s missing", op, table)
		}
	}
	return nil
}

// Close releases the pool.
func (s *Storage) Close() error {
	return s.DB.Close()
}
