package sqlite

import (
	"context"
	"fmt"
)

// CentralStore is the shared datastore: user identities, the client and
// scanner registries, sessions and the legacy aggregate scan table.
type CentralStore struct {
	db *DB
}

// OpenCentral opens (or creates) the central store at path and evolves its
// schema. This is the only initialisation path; nothing runs at import time.
func OpenCentral(ctx context.Context, path string) (*CentralStore, error) {
	db, err := Open(path)
	if err != nil {
		return nil, err
	}

	if err := NewEvolver(centralSchema).Apply(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("evolve central schema: %w", err)
	}

	return &CentralStore{db: db}, nil
}

// Ping reports connectivity for readiness checks.
func (s *CentralStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// Close releases the underlying file handle.
func (s *CentralStore) Close() error {
	return s.db.Close()
}
