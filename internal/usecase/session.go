package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/leadshield/scanner-platform/internal/core/domain"
	"github.com/leadshield/scanner-platform/internal/core/port"
	"github.com/leadshield/scanner-platform/internal/infra/security"
	"github.com/leadshield/scanner-platform/internal/repository"
)

var (
	// ErrInvalidCredentials indicates the provided identifier or password are incorrect.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInactiveAccount indicates the account has been deactivated.
	ErrInactiveAccount = errors.New("account is not active")
	// ErrInvalidSession indicates the token does not resolve to a live session.
	ErrInvalidSession = errors.New("invalid session")
	// ErrSessionExpired indicates the session expired before validation.
	ErrSessionExpired = errors.New("session expired")
)

// SessionMeta carries audit fields captured at login time.
type SessionMeta struct {
	IP        string
	UserAgent string
}

// SessionAuthority issues and validates opaque session tokens against the
// central store.
type SessionAuthority struct {
	users    port.UserRepository
	sessions port.SessionRepository
	ttl      time.Duration
	now      func() time.Time
}

// NewSessionAuthority constructs a SessionAuthority with the given token TTL.
func NewSessionAuthority(users port.UserRepository, sessions port.SessionRepository, ttl time.Duration) *SessionAuthority {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &SessionAuthority{
		users:    users,
		sessions: sessions,
		ttl:      ttl,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Authenticate validates credentials and issues a session token.
func (s *SessionAuthority) Authenticate(ctx context.Context, identifier, password string, meta SessionMeta) (string, *domain.User, error) {
	if identifier == "" || password == "" {
		return "", nil, ErrInvalidCredentials
	}

	user, err := s.users.GetByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("lookup user: %w", err)
	}

	if !user.IsActive {
		return "", nil, ErrInactiveAccount
	}

	ok, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return "", nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return "", nil, ErrInvalidCredentials
	}

	token, err := security.NewSessionToken()
	if err != nil {
		return "", nil, fmt.Errorf("generate session token: %w", err)
	}

	now := s.now()
	session := domain.Session{
		Token:     token,
		UserID:    user.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if meta.IP != "" {
		ip := meta.IP
		session.IP = &ip
	}
	if meta.UserAgent != "" {
		ua := meta.UserAgent
		session.UserAgent = &ua
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return "", nil, fmt.Errorf("persist session: %w", err)
	}

	if err := s.users.RecordLogin(ctx, user.ID); err != nil {
		return "", nil, fmt.Errorf("record login: %w", err)
	}

	sanitized := *user
	sanitized.PasswordHash = ""
	return token, &sanitized, nil
}

// Verify resolves a token to its user. A token for a deactivated user fails
// even before expiry.
func (s *SessionAuthority) Verify(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, ErrInvalidSession
	}

	session, err := s.sessions.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidSession
		}
		return nil, fmt.Errorf("lookup session: %w", err)
	}

	if !session.IsActive(s.now()) {
		return nil, ErrSessionExpired
	}

	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidSession
		}
		return nil, fmt.Errorf("lookup session user: %w", err)
	}

	if !user.IsActive {
		return nil, ErrInactiveAccount
	}

	sanitized := *user
	sanitized.PasswordHash = ""
	return &sanitized, nil
}

// Invalidate destroys a session; the token is not reusable afterwards.
func (s *SessionAuthority) Invalidate(ctx context.Context, token string) error {
	if token == "" {
		return ErrInvalidSession
	}
	if err := s.sessions.Delete(ctx, token); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// SweepExpired removes sessions past their expiry. Meant for a periodic
// housekeeping goroutine.
func (s *SessionAuthority) SweepExpired(ctx context.Context) (int, error) {
	return s.sessions.DeleteExpired(ctx)
}
