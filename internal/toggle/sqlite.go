package toggle

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// SQLite keeps switches in a local database file.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the toggle database at path.
func OpenSQLite(path string) (*SQLite, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("toggle: mkdir %s: %w", dir, err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("toggle: open db: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite: single writer
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS feature_toggles (
		toggle_key INTEGER PRIMARY KEY,
		enabled    INTEGER NOT NULL DEFAULT 0
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("toggle: init schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Enabled(ctx context.Context, key int) (bool, error) {
	var on bool
	err := s.db.QueryRowContext(ctx, `SELECT enabled FROM feature_toggles WHERE toggle_key = ?`, key).Scan(&on)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("toggle: query %d: %w", key, err)
	}
	return on, nil
}

func (s *SQLite) Set(ctx context.Context, key int, on bool) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO feature_toggles (toggle_key, enabled) VALUES (?, ?)
		 ON CONFLICT(toggle_key) DO UPDATE SET enabled = excluded.enabled`, key, on)
	if err != nil {
		return fmt.Errorf("toggle: set %d: %w", key, err)
	}
	return nil
}

func (s *SQLite) Close() error { return s.db.Close() }
