// Package postgres stores entries and their meta rows in PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"

	"github.com/GravityKit/GravityView-sub009/internal/db"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Store is a PostgreSQL entry store.
type Store struct {
	db *sql.DB
}

// New opens the database at databaseURL, sizes the pool and applies pending
// migrations.
func New(ctx context.Context, databaseURL string) (*Store, error) {
	conn, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	conn.SetMaxOpenConns(25)
	conn.SetMaxIdleConns(5)
	conn.SetConnMaxLifetime(5 * time.Minute)

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(conn); err != nil {
		conn.Close()
		return nil, &db.Error{Op: db.OpMigrate, Err: err}
	}

	return &Store{db: conn}, nil
}

// NewWithDB wraps an open connection without migrating it.
func NewWithDB(conn *sql.DB) *Store {
	return &Store{db: conn}
}

func runMigrations(conn *sql.DB) error {
	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	dbDriver, err := postgres.WithInstance(conn, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create migration db driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "postgres", dbDriver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Close closes the underlying connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}
