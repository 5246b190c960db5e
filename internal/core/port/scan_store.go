package port

import (
	"context"

	"github.com/leadshield/scanner-platform/internal/core/domain"
)

// TenantScanStore is the authoritative per-client scan storage. Ensure is
// lazy and idempotent; concurrent first-time calls for the same client must
// converge on a single physical store.
type TenantScanStore interface {
	Ensure(ctx context.Context, clientID, displayName string) (*domain.TenantHandle, error)
	SaveScan(ctx context.Context, clientID string, record domain.ScanRecord) error
	ListScans(ctx context.Context, clientID string) ([]domain.ScanRecord, error)
}

// CentralScanStore is the best-effort legacy aggregate scan storage shared
// across all clients. Write failures here are tolerated by ingestion.
type CentralScanStore interface {
	SaveScan(ctx context.Context, record domain.ScanRecord) error
	ListScansByClient(ctx context.Context, clientID string) ([]domain.ScanRecord, error)
}
