package infra

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/course-api/course_api/internal/config"
)

// ErrNoDatabase is returned by Store.Migrator for the in-memory backend.
var ErrNoDatabase = errors.New("no database configured")

// Store holds the handle for whichever backend DATABASE_URL selects. Both
// fields are nil for the in-memory backend.
type Store struct {
	Pool *pgxpool.Pool
	SQL  *sql.DB
}

// OpenStore connects to the backend selected by cfg.
func OpenStore(ctx context.Context, cfg config.Config) (*Store, error) {
	driver, err := cfg.Driver()
	if err != nil {
		return nil, err
	}
	switch driver {
	case config.DriverPostgres:
		pool, err := NewPostgresPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return &Store{Pool: pool}, nil
	case config.DriverSQLite:
		db, err := NewSQLiteDB(ctx, cfg.SQLitePath())
		if err != nil {
			return nil, err
		}
		return &Store{SQL: db}, nil
	default:
		return &Store{}, nil
	}
}

// Migrator returns a migrator for the open backend.
func (s *Store) Migrator() (*Migrator, error) {
	switch {
	case s.Pool != nil:
		return NewPostgresMigrator(s.Pool)
	case s.SQL != nil:
		return NewSQLiteMigrator(s.SQL)
	default:
		return nil, ErrNoDatabase
	}
}

// Migrate applies pending migrations. It is a no-op for the in-memory backend.
func (s *Store) Migrate(ctx context.Context) (int, error) {
	m, err := s.Migrator()
	if errors.Is(err, ErrNoDatabase) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	defer m.Close()
	return m.Up(ctx)
}

// Close releases the underlying handle.
func (s *Store) Close() error {
	switch {
	case s.Pool != nil:
		s.Pool.Close()
	case s.SQL != nil:
		if err := s.SQL.Close(); err != nil {
			return fmt.Errorf("close sqlite: %w", err)
		}
	}
	return nil
}
