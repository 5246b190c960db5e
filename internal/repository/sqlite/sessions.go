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

// SessionRepository implements port.SessionRepository on the central store.
type SessionRepository struct {
	db      *DB
	builder squirrel.StatementBuilderType
}

// NewSessionRepository constructs a SessionRepository.
func NewSessionRepository(store *CentralStore) *SessionRepository {
	return &SessionRepository{
		db:      store.db,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
	}
}

// Create inserts a session record.
func (r *SessionRepository) Create(ctx context.Context, session domain.Session) error {
	query, args, err := r.builder.Insert("sessions").
		Columns("token", "user_id", "created_at", "expires_at", "ip_address", "user_agent").
		Values(session.Token, session.UserID, session.CreatedAt, session.ExpiresAt, session.IP, session.UserAgent).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert session sql: %w", err)
	}

	return withWriteRetry(ctx, func() error {
		if _, err := r.db.sql.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert session: %w", err)
		}
		return nil
	})
}

// GetByToken resolves a session from its opaque token.
func (r *SessionRepository) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	query, args, err := r.builder.
		Select("token", "user_id", "created_at", "expires_at", "ip_address", "user_agent").
		From("sessions").
		Where(squirrel.Eq{"token": token}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select session sql: %w", err)
	}

	var (
		session domain.Session
		ip, ua  sql.NullString
	)
	err = r.db.sql.QueryRowContext(ctx, query, args...).Scan(
		&session.Token, &session.UserID, &session.CreatedAt, &session.ExpiresAt, &ip, &ua,
	)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select session: %w", err)
	}

	if ip.Valid {
		v := ip.String
		session.IP = &v
	}
	if ua.Valid {
		v := ua.String
		session.UserAgent = &v
	}

	return &session, nil
}

// Delete removes a session, making the token unusable.
func (r *SessionRepository) Delete(ctx context.Context, token string) error {
	query, args, err := r.builder.Delete("sessions").
		Where(squirrel.Eq{"token": token}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete session sql: %w", err)
	}

	return withWriteRetry(ctx, func() error {
		if _, err := r.db.sql.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("delete session: %w", err)
		}
		return nil
	})
}

// DeleteExpired sweeps sessions past their expiry, returning the count removed.
func (r *SessionRepository) DeleteExpired(ctx context.Context) (int, error) {
	query, args, err := r.builder.Delete("sessions").
		Where(squirrel.Lt{"expires_at": time.Now().UTC()}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build sweep sessions sql: %w", err)
	}

	var removed int
	err = withWriteRetry(ctx, func() error {
		res, err := r.db.sql.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("sweep sessions: %w", err)
		}
		n, _ := res.RowsAffected()
		removed = int(n)
		return nil
	})
	return removed, err
}
