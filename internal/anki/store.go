package anki

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// Kinds of names kept in a Store.
const (
	KindDeck  = "deck"
	KindModel = "model"
)

// Store remembers which decks and models are known to exist.
type Store interface {
	Has(ctx context.Context, kind, name string) (bool, error)
	Add(ctx context.Context, kind, name string) error
}

// SQLiteStore is a Store backed by a sqlite file.
type SQLiteStore struct {
	db *sql.DB
}

// OpenStore opens or creates the store at path. ":memory:" keeps it in
// memory for the lifetime of the store.
func OpenStore(path string) (*SQLiteStore, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create state directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open state database: %w", err)
	}
	// One connection, so an in-memory database is shared by every query.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS ensured (
		kind text NOT NULL,
		name text NOT NULL,
		PRIMARY KEY (kind, name)
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Has reports whether name of kind was added before.
func (s *SQLiteStore) Has(ctx context.Context, kind, name string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM ensured WHERE kind = ? AND name = ?`, kind, name).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to query %s %q: %w", kind, name, err)
	}
	return n > 0, nil
}

// Add records name of kind. Adding twice is not an error.
func (s *SQLiteStore) Add(ctx context.Context, kind, name string) error {
	if _, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO ensured (kind, name) VALUES (?, ?)`, kind, name); err != nil {
		return fmt.Errorf("failed to record %s %q: %w", kind, name, err)
	}
	return nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
