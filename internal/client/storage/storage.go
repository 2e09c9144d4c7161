// Package storage manages the local SQLite database shared by the offline
// cache and the preference store. The database is opened lazily on first use
// and schema migrations run automatically at open time.
package storage

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"sync"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Manager owns the lazily opened database handle. Initialization is
// idempotent: the first call to DB performs open + migrate, every later call
// returns the same handle (or the same error, if initialization failed).
type Manager struct {
	dsn  string
	once sync.Once
	db   *sql.DB
	err  error
}

// NewManager creates a Manager for the given SQLite DSN. Nothing is opened
// until DB is called.
func NewManager(dsn string) *Manager {
	return &Manager{dsn: dsn}
}

// DB returns the database handle, opening and migrating it on first use.
func (m *Manager) DB(ctx context.Context) (*sql.DB, error) {
	m.once.Do(func() {
		m.db, m.err = open(ctx, m.dsn)
	})
	return m.db, m.err
}

// Close closes the database if it was ever opened.
func (m *Manager) Close() error {
	if m.db == nil {
		return nil
	}
	return m.db.Close()
}

func open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite allows a single writer; funneling everything through one
	// connection avoids lock contention and makes :memory: DSNs usable.
	db.SetMaxOpenConns(1)

	if err := runMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return db, nil
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	return goose.UpContext(ctx, db, "migrations")
}
