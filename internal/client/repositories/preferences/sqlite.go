package preferences

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/travelbuddy/internal/client/storage"
	"github.com/dmitrijs2005/travelbuddy/internal/dbx"
)

// SQLiteStore implements Store on top of the shared storage manager.
type SQLiteStore struct {
	m *storage.Manager
}

// NewSQLiteStore returns a SQLiteStore bound to the given storage manager.
func NewSQLiteStore(m *storage.Manager) *SQLiteStore {
	return &SQLiteStore{m: m}
}

func (s *SQLiteStore) db(ctx context.Context) (dbx.DBTX, error) {
	return s.m.DB(ctx)
}

func (s *SQLiteStore) Get(ctx context.Context, key string) (string, error) {
	db, err := s.db(ctx)
	if err != nil {
		return "", fmt.Errorf("preference store unavailable: %w", err)
	}

	var value string
	err = db.QueryRowContext(ctx, `SELECT value FROM preferences WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get preference[%s]: %w", key, err)
	}
	return value, nil
}

func (s *SQLiteStore) Set(ctx context.Context, key, value string) error {
	db, err := s.db(ctx)
	if err != nil {
		return fmt.Errorf("preference store unavailable: %w", err)
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO preferences (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set preference[%s]: %w", key, err)
	}
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	db, err := s.db(ctx)
	if err != nil {
		return fmt.Errorf("preference store unavailable: %w", err)
	}

	_, err = db.ExecContext(ctx, `DELETE FROM preferences WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("failed to delete preference[%s]: %w", key, err)
	}
	return nil
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	db, err := s.db(ctx)
	if err != nil {
		return fmt.Errorf("preference store unavailable: %w", err)
	}

	_, err = db.ExecContext(ctx, `DELETE FROM preferences`)
	if err != nil {
		return fmt.Errorf("failed to clear preferences: %w", err)
	}
	return nil
}
