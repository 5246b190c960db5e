package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	squirrel "github.com/Masterminds/squirrel"

	"github.com/leadshield/scanner-platform/internal/core/domain"
	"github.com/leadshield/scanner-platform/internal/repository"
)

// UserRepository implements port.UserRepository on the central store.
type UserRepository struct {
	db      *DB
	builder squirrel.StatementBuilderType
}

// NewUserRepository constructs a UserRepository.
func NewUserRepository(store *CentralStore) *UserRepository {
	return &UserRepository{
		db:      store.db,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
	}
}

// Create inserts a user record.
func (r *UserRepository) Create(ctx context.Context, user domain.User) error {
	query, args, err := r.builder.Insert("users").
		Columns("id", "username", "email", "password_hash", "role", "active", "created_at", "last_login").
		Values(user.ID, user.Username, user.Email, user.PasswordHash, string(user.Role), user.IsActive, user.CreatedAt, user.LastLogin).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert user sql: %w", err)
	}

	return withWriteRetry(ctx, func() error {
		if _, err := r.db.sql.ExecContext(ctx, query, args...); err != nil {
			if isConstraint(err) {
				return fmt.Errorf("%w: username or email already taken", repository.ErrConflict)
			}
			return fmt.Errorf("insert user: %w", err)
		}
		return nil
	})
}

// GetByID looks a user up by primary key.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.getBy(ctx, squirrel.Eq{"id": id})
}

// GetByIdentifier looks a user up by username or email.
func (r *UserRepository) GetByIdentifier(ctx context.Context, usernameOrEmail string) (*domain.User, error) {
	return r.getBy(ctx, squirrel.Or{
		squirrel.Eq{"username": usernameOrEmail},
		squirrel.Eq{"email": usernameOrEmail},
	})
}

func (r *UserRepository) getBy(ctx context.Context, pred any) (*domain.User, error) {
	query, args, err := r.builder.
		Select("id", "username", "email", "password_hash", "role", "active", "created_at", "last_login").
		From("users").
		Where(pred).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select user sql: %w", err)
	}

	var (
		user      domain.User
		role      string
		active    int
		lastLogin sql.NullTime
	)
	err = r.db.sql.QueryRowContext(ctx, query, args...).Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash, &role, &active, &user.CreatedAt, &lastLogin,
	)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select user: %w", err)
	}

	user.Role = domain.UserRole(role)
	user.IsActive = active != 0
	if lastLogin.Valid {
		t := lastLogin.Time
		user.LastLogin = &t
	}

	return &user, nil
}

// UpdatePassword replaces the stored credential for a user.
func (r *UserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	return r.update(ctx, id, map[string]any{"password_hash": passwordHash})
}

// SetActive toggles the soft-delete flag.
func (r *UserRepository) SetActive(ctx context.Context, id string, active bool) error {
	return r.update(ctx, id, map[string]any{"active": active})
}

// RecordLogin stamps the last successful authentication time.
func (r *UserRepository) RecordLogin(ctx context.Context, id string) error {
	return r.update(ctx, id, map[string]any{"last_login": time.Now().UTC()})
}

func (r *UserRepository) update(ctx context.Context, id string, set map[string]any) error {
	query, args, err := r.builder.Update("users").
		SetMap(set).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update user sql: %w", err)
	}

	return withWriteRetry(ctx, func() error {
		res, err := r.db.sql.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("update user: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return repository.ErrNotFound
		}
		return nil
	})
}
