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

const clientColumns = "id, user_id, business_name, display_name, business_domain, contact_email, contact_phone, subscription_tier, api_key, active, created_at, updated_at"

// ClientRepository implements port.ClientRepository on the central store.
type ClientRepository struct {
	db      *DB
	builder squirrel.StatementBuilderType
}

// NewClientRepository constructs a ClientRepository.
func NewClientRepository(store *CentralStore) *ClientRepository {
	return &ClientRepository{
		db:      store.db,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
	}
}

// Create inserts a client record.
func (r *ClientRepository) Create(ctx context.Context, client domain.Client) error {
	query, args, err := r.builder.Insert("clients").
		Columns(
			"id", "user_id", "business_name", "display_name", "business_domain",
			"contact_email", "contact_phone", "subscription_tier", "api_key",
			"active", "created_at", "updated_at",
		).
		Values(
			client.ID, client.UserID, client.BusinessName, client.DisplayName, client.BusinessDomain,
			client.ContactEmail, client.ContactPhone, string(client.Tier), client.APIKey,
			client.IsActive, client.CreatedAt, client.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert client sql: %w", err)
	}

	return withWriteRetry(ctx, func() error {
		if _, err := r.db.sql.ExecContext(ctx, query, args...); err != nil {
			if isConstraint(err) {
				return fmt.Errorf("%w: api key already issued", repository.ErrConflict)
			}
			return fmt.Errorf("insert client: %w", err)
		}
		return nil
	})
}

// GetByID looks a client up by primary key.
func (r *ClientRepository) GetByID(ctx context.Context, id string) (*domain.Client, error) {
	return r.getBy(ctx, squirrel.Eq{"id": id})
}

// GetByUserID looks a client up by owning user.
func (r *ClientRepository) GetByUserID(ctx context.Context, userID string) (*domain.Client, error) {
	return r.getBy(ctx, squirrel.Eq{"user_id": userID})
}

// GetByAPIKey resolves a client from its API key.
func (r *ClientRepository) GetByAPIKey(ctx context.Context, apiKey string) (*domain.Client, error) {
	return r.getBy(ctx, squirrel.Eq{"api_key": apiKey})
}

func (r *ClientRepository) getBy(ctx context.Context, pred any) (*domain.Client, error) {
	query, args, err := r.builder.
		Select(clientColumns).
		From("clients").
		Where(pred).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select client sql: %w", err)
	}

	client, err := scanClient(r.db.sql.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select client: %w", err)
	}
	return client, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanClient(row rowScanner) (*domain.Client, error) {
	var (
		client domain.Client
		phone  sql.NullString
		tier   string
		active int
	)
	err := row.Scan(
		&client.ID, &client.UserID, &client.BusinessName, &client.DisplayName, &client.BusinessDomain,
		&client.ContactEmail, &phone, &tier, &client.APIKey,
		&active, &client.CreatedAt, &client.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if phone.Valid {
		p := phone.String
		client.ContactPhone = &p
	}
	client.Tier = domain.SubscriptionTier(tier)
	client.IsActive = active != 0

	return &client, nil
}

// Update rewrites the mutable client fields.
func (r *ClientRepository) Update(ctx context.Context, client domain.Client) error {
	query, args, err := r.builder.Update("clients").
		SetMap(map[string]any{
			"business_name":     client.BusinessName,
			"display_name":      client.DisplayName,
			"business_domain":   client.BusinessDomain,
			"contact_email":     client.ContactEmail,
			"contact_phone":     client.ContactPhone,
			"subscription_tier": string(client.Tier),
			"updated_at":        client.UpdatedAt,
		}).
		Where(squirrel.Eq{"id": client.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update client sql: %w", err)
	}

	return r.exec(ctx, query, args, "update client")
}

// ReplaceAPIKey atomically swaps the client's API key. A single UPDATE keeps
// the invalidation of the old key and issuance of the new one in one step.
func (r *ClientRepository) ReplaceAPIKey(ctx context.Context, id, newKey string) error {
	query, args, err := r.builder.Update("clients").
		SetMap(map[string]any{
			"api_key":    newKey,
			"updated_at": time.Now().UTC(),
		}).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build replace api key sql: %w", err)
	}

	return r.exec(ctx, query, args, "replace api key")
}

// CountByBusinessName reports how many clients already registered the name.
func (r *ClientRepository) CountByBusinessName(ctx context.Context, businessName string) (int, error) {
	query, args, err := r.builder.
		Select("COUNT(*)").
		From("clients").
		Where(squirrel.Eq{"business_name": businessName}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count clients sql: %w", err)
	}

	var count int
	if err := r.db.sql.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count clients: %w", err)
	}
	return count, nil
}

// SetActive toggles the tenant's active flag.
func (r *ClientRepository) SetActive(ctx context.Context, id string, active bool) error {
	query, args, err := r.builder.Update("clients").
		SetMap(map[string]any{"active": active, "updated_at": time.Now().UTC()}).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build set client active sql: %w", err)
	}

	return r.exec(ctx, query, args, "set client active")
}

func (r *ClientRepository) exec(ctx context.Context, query string, args []any, op string) error {
	return withWriteRetry(ctx, func() error {
		res, err := r.db.sql.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return repository.ErrNotFound
		}
		return nil
	})
}
