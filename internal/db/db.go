package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// DefaultPath is where generate writes when --db is not given.
const DefaultPath = "output/worksim.sqlite"

// Open opens the SQLite store at path with foreign keys on. The parent
// directory must exist; use Recreate for generation runs.
func Open(path string) (*sql.DB, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)", path)
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// OpenReadOnly opens an existing store for the read side. A missing file is
// reported as an error before any connection is attempted, so callers can
// warn instead of creating an empty database.
func OpenReadOnly(path string) (*sql.DB, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("store not found at %s; run worksim generate first", path)
		}
		return nil, err
	}
	dsn := fmt.Sprintf("file:%s?mode=ro&_pragma=foreign_keys(1)", path)
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// Recreate deletes any store at path and opens a fresh one. Re-running
// generation over an existing file would violate primary-key uniqueness, so
// the intended usage is always delete-then-regenerate.
func Recreate(path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("remove existing store: %w", err)
	}
	return Open(path)
}
