package sqlite

import (
	"context"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"

	"github.com/leadshield/scanner-platform/internal/core/domain"
)

// ScanHistoryRepository implements port.CentralScanStore on the legacy
// aggregate scan_history table. Writes here are best effort from the
// ingestion pipeline's point of view; reads feed legacy-compatible
// dashboards.
type ScanHistoryRepository struct {
	db      *DB
	builder squirrel.StatementBuilderType
}

// NewScanHistoryRepository constructs a ScanHistoryRepository.
func NewScanHistoryRepository(store *CentralStore) *ScanHistoryRepository {
	return &ScanHistoryRepository{
		db:      store.db,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
	}
}

// SaveScan upserts a scan record into the aggregate table.
func (r *ScanHistoryRepository) SaveScan(ctx context.Context, record domain.ScanRecord) error {
	values, err := scanRecordValues(record)
	if err != nil {
		return err
	}

	query, args, err := r.builder.
		Insert("scan_history").
		Options("OR REPLACE").
		Columns(scanRecordColumns...).
		Values(values...).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert scan history sql: %w", err)
	}

	return withWriteRetry(ctx, func() error {
		if _, err := r.db.sql.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert scan history: %w", err)
		}
		return nil
	})
}

// ListScansByClient returns the aggregate rows for one client, newest first.
func (r *ScanHistoryRepository) ListScansByClient(ctx context.Context, clientID string) ([]domain.ScanRecord, error) {
	query, args, err := r.builder.
		Select(scanRecordColumns...).
		From("scan_history").
		Where(squirrel.Eq{"client_id": clientID}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list scan history sql: %w", err)
	}

	rows, err := r.db.sql.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list scan history: %w", err)
	}
	defer rows.Close()

	var records []domain.ScanRecord
	for rows.Next() {
		record, err := scanScanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		records = append(records, *record)
	}

	return records, rows.Err()
}
