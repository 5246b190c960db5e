package port

import (
	"context"

	"github.com/leadshield/scanner-platform/internal/core/domain"
)

// ScanNotifier delivers the completed-scan notification to the client.
// Delivery is best effort; failures never revert persistence state.
type ScanNotifier interface {
	NotifyScanComplete(ctx context.Context, client domain.Client, record domain.ScanRecord) error
}
