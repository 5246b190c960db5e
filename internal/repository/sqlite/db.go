// Package sqlite implements the central and per-tenant stores on top of
// embedded SQLite files. Each file is single-writer; write contention is
// absorbed by a bounded retry discipline rather than surfaced immediately.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/leadshield/scanner-platform/internal/repository"
)

// DB wraps a single SQLite file handle.
type DB struct {
	sql  *sql.DB
	path string
}

// Open creates the parent directory if needed and opens the SQLite file at
// path. The connection pool is capped at one writer; reads share the same
// discipline, which SQLite serialises internally.
func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("%w: create storage dir: %v", repository.ErrStorageUnavailable, err)
	}

	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL&_foreign_keys=on", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", repository.ErrStorageUnavailable, path, err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: ping %s: %v", repository.ErrStorageUnavailable, path, err)
	}

	return &DB{sql: db, path: path}, nil
}

// Ping reports connectivity for readiness checks.
func (d *DB) Ping(ctx context.Context) error {
	return d.sql.PingContext(ctx)
}

// Path returns the backing file location.
func (d *DB) Path() string {
	return d.path
}

// Close releases the file handle.
func (d *DB) Close() error {
	return d.sql.Close()
}
