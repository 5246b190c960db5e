package port

import (
	"context"

	"github.com/leadshield/scanner-platform/internal/core/domain"
)

// ClientRepository deals with tenant registry storage.
type ClientRepository interface {
	Create(ctx context.Context, client domain.Client) error
	GetByID(ctx context.Context, id string) (*domain.Client, error)
	GetByUserID(ctx context.Context, userID string) (*domain.Client, error)
	GetByAPIKey(ctx context.Context, apiKey string) (*domain.Client, error)
	Update(ctx context.Context, client domain.Client) error
	// ReplaceAPIKey atomically swaps the client's API key; the old key stops
	// resolving as soon as the call returns.
	ReplaceAPIKey(ctx context.Context, id, newKey string) error
	CountByBusinessName(ctx context.Context, businessName string) (int, error)
	SetActive(ctx context.Context, id string, active bool) error
}
