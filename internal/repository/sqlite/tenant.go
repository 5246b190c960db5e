package sqlite

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	squirrel "github.com/Masterminds/squirrel"

	"github.com/leadshield/scanner-platform/internal/core/domain"
)

// tenantSchema declares the per-client scan database layout.
var tenantSchema = []TableSpec{
	{
		Name: "scans",
		Columns: []ColumnSpec{
			{Name: "scan_id", Def: "TEXT PRIMARY KEY"},
			{Name: "client_id", Def: "TEXT NOT NULL"},
			{Name: "scanner_id", Def: "TEXT"},
			{Name: "target", Def: "TEXT"},
			{Name: "lead_name", Def: "TEXT"},
			{Name: "lead_email", Def: "TEXT"},
			{Name: "lead_phone", Def: "TEXT"},
			{Name: "lead_company", Def: "TEXT"},
			{Name: "company_size", Def: "TEXT"},
			{Name: "security_score", Def: "INTEGER"},
			{Name: "risk_level", Def: "TEXT"},
			{Name: "scan_types", Def: "TEXT"},
			{Name: "findings", Def: "TEXT"},
			{Name: "status", Def: "TEXT"},
			{Name: "degraded", Def: "INTEGER"},
			{Name: "created_at", Def: "TIMESTAMP"},
			{Name: "updated_at", Def: "TIMESTAMP"},
		},
		Indexes: []string{
			"CREATE INDEX IF NOT EXISTS idx_scans_email ON scans(lead_email)",
			"CREATE INDEX IF NOT EXISTS idx_scans_created ON scans(created_at)",
		},
	},
	{
		Name: "store_info",
		Columns: []ColumnSpec{
			{Name: "key", Def: "TEXT PRIMARY KEY"},
			{Name: "value", Def: "TEXT"},
		},
	},
}

type tenant struct {
	handle domain.TenantHandle
	db     *DB
}

// TenantStore owns one isolated SQLite database per client. Stores are
// created lazily on first need; creation is guarded by a per-client mutex so
// contention on one tenant never blocks another.
type TenantStore struct {
	root    string
	builder squirrel.StatementBuilderType
	evolver *Evolver

	mu      sync.Mutex
	locks   map[string]*sync.Mutex
	tenants map[string]*tenant
}

// NewTenantStore constructs a TenantStore rooted at dir.
func NewTenantStore(dir string) *TenantStore {
	return &TenantStore{
		root:    dir,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
		evolver: NewEvolver(tenantSchema),
		locks:   make(map[string]*sync.Mutex),
		tenants: make(map[string]*tenant),
	}
}

// Ensure returns the handle for the client's datastore, creating it when
// absent. Idempotent: the second concurrent caller for the same client
// observes the first caller's handle, never a duplicate store.
func (s *TenantStore) Ensure(ctx context.Context, clientID, displayName string) (*domain.TenantHandle, error) {
	t, err := s.open(ctx, clientID, displayName)
	if err != nil {
		return nil, err
	}
	handle := t.handle
	return &handle, nil
}

func (s *TenantStore) open(ctx context.Context, clientID, displayName string) (*tenant, error) {
	lock := s.clientLock(clientID)
	lock.Lock()
	defer lock.Unlock()

	s.mu.Lock()
	existing, ok := s.tenants[clientID]
	s.mu.Unlock()
	if ok {
		return existing, nil
	}

	path := filepath.Join(s.root, fmt.Sprintf("client_%s_scans.db", clientID))
	db, err := Open(path)
	if err != nil {
		return nil, err
	}

	if err := s.evolver.Apply(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("evolve tenant schema: %w", err)
	}

	if err := s.writeStoreInfo(ctx, db, clientID, displayName); err != nil {
		db.Close()
		return nil, err
	}

	t := &tenant{
		handle: domain.TenantHandle{ClientID: clientID, Path: path, CreatedAt: time.Now().UTC()},
		db:     db,
	}

	s.mu.Lock()
	s.tenants[clientID] = t
	s.mu.Unlock()

	return t, nil
}

// clientLock returns the creation mutex for one client, allocating it on
// first use. The registry guard is held only for the map access.
func (s *TenantStore) clientLock(clientID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.locks[clientID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[clientID] = lock
	}
	return lock
}

// writeStoreInfo records store metadata. An empty display name never
// overwrites a stored one: SaveScan and ListScans reopen stores without
// knowing the name, so the key is only written when a caller supplies it.
func (s *TenantStore) writeStoreInfo(ctx context.Context, db *DB, clientID, displayName string) error {
	info := [][2]string{
		{"client_id", clientID},
		{"schema_version", "2"},
	}
	if displayName != "" {
		info = append(info, [2]string{"display_name", displayName})
	}

	for _, kv := range info {
		query, args, err := s.builder.
			Insert("store_info").
			Options("OR REPLACE").
			Columns("key", "value").
			Values(kv[0], kv[1]).
			ToSql()
		if err != nil {
			return fmt.Errorf("build store info sql: %w", err)
		}
		if _, err := db.sql.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("write store info: %w", err)
		}
	}

	return nil
}

// SaveScan writes the record into the client's store, provisioning it first
// when necessary. This is the authoritative write of the ingestion pipeline.
func (s *TenantStore) SaveScan(ctx context.Context, clientID string, record domain.ScanRecord) error {
	t, err := s.open(ctx, clientID, "")
	if err != nil {
		return err
	}

	values, err := scanRecordValues(record)
	if err != nil {
		return err
	}

	query, args, err := s.builder.
		Insert("scans").
		Options("OR REPLACE").
		Columns(scanRecordColumns...).
		Values(values...).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert scan sql: %w", err)
	}

	return withWriteRetry(ctx, func() error {
		if _, err := t.db.sql.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert scan: %w", err)
		}
		return nil
	})
}

// ListScans returns every scan in the client's store, newest first. A client
// whose store was never provisioned has zero scans, not an error.
func (s *TenantStore) ListScans(ctx context.Context, clientID string) ([]domain.ScanRecord, error) {
	t, err := s.open(ctx, clientID, "")
	if err != nil {
		return nil, err
	}

	query, args, err := s.builder.
		Select(scanRecordColumns...).
		From("scans").
		Where(squirrel.Eq{"client_id": clientID}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list scans sql: %w", err)
	}

	rows, err := t.db.sql.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list scans: %w", err)
	}
	defer rows.Close()

	var records []domain.ScanRecord
	for rows.Next() {
		record, err := scanScanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		records = append(records, *record)
	}

	return records, rows.Err()
}

// Close releases every open tenant database.
func (s *TenantStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var firstErr error
	for id, t := range s.tenants {
		if err := t.db.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("close tenant %s: %w", id, err)
		}
		delete(s.tenants, id)
	}
	return firstErr
}
