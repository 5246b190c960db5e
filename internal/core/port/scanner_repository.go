package port

import (
	"context"

	"github.com/leadshield/scanner-platform/internal/core/domain"
)

// ScannerRepository deals with scanner registry storage.
type ScannerRepository interface {
	Create(ctx context.Context, scanner domain.Scanner) error
	GetByUID(ctx context.Context, uid string) (*domain.Scanner, error)
	ListByClient(ctx context.Context, clientID string) ([]domain.Scanner, error)
	Update(ctx context.Context, scanner domain.Scanner) error
	SetStatus(ctx context.Context, id string, status domain.ScannerStatus) error
	SetStatusByClient(ctx context.Context, clientID string, status domain.ScannerStatus) (int, error)
}
