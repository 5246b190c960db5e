package port

import (
	"context"

	"github.com/leadshield/scanner-platform/internal/core/domain"
)

// UserRepository deals with user identity storage.
type UserRepository interface {
	Create(ctx context.Context, user domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByIdentifier(ctx context.Context, usernameOrEmail string) (*domain.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	SetActive(ctx context.Context, id string, active bool) error
	RecordLogin(ctx context.Context, id string) error
}
