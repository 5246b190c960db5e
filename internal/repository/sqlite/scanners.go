package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	squirrel "github.com/Masterminds/squirrel"

	"github.com/leadshield/scanner-platform/internal/core/domain"
	"github.com/leadshield/scanner-platform/internal/repository"
)

const scannerColumns = "id, uid, client_id, name, primary_color, secondary_color, button_color, logo_path, favicon_path, branding_updated_at, scan_types, status, api_key, created_at, updated_at"

// ScannerRepository implements port.ScannerRepository on the central store.
type ScannerRepository struct {
	db      *DB
	builder squirrel.StatementBuilderType
}

// NewScannerRepository constructs a ScannerRepository.
func NewScannerRepository(store *CentralStore) *ScannerRepository {
	return &ScannerRepository{
		db:      store.db,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
	}
}

// Create inserts a scanner record.
func (r *ScannerRepository) Create(ctx context.Context, scanner domain.Scanner) error {
	scanTypes, err := json.Marshal(scanner.ScanTypes)
	if err != nil {
		return fmt.Errorf("marshal scan types: %w", err)
	}

	query, args, err := r.builder.Insert("scanners").
		Columns(
			"id", "uid", "client_id", "name",
			"primary_color", "secondary_color", "button_color", "logo_path", "favicon_path",
			"branding_updated_at", "scan_types", "status", "api_key", "created_at", "updated_at",
		).
		Values(
			scanner.ID, scanner.UID, scanner.ClientID, scanner.Name,
			scanner.Branding.PrimaryColor, scanner.Branding.SecondaryColor, scanner.Branding.ButtonColor,
			scanner.Branding.LogoPath, scanner.Branding.FaviconPath,
			scanner.Branding.UpdatedAt, string(scanTypes), string(scanner.Status), scanner.APIKey,
			scanner.CreatedAt, scanner.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert scanner sql: %w", err)
	}

	return withWriteRetry(ctx, func() error {
		if _, err := r.db.sql.ExecContext(ctx, query, args...); err != nil {
			if isConstraint(err) {
				return fmt.Errorf("%w: scanner uid already exists", repository.ErrConflict)
			}
			return fmt.Errorf("insert scanner: %w", err)
		}
		return nil
	})
}

// GetByUID resolves a scanner from its public identifier.
func (r *ScannerRepository) GetByUID(ctx context.Context, uid string) (*domain.Scanner, error) {
	query, args, err := r.builder.
		Select(scannerColumns).
		From("scanners").
		Where(squirrel.Eq{"uid": uid}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select scanner sql: %w", err)
	}

	scanner, err := scanScanner(r.db.sql.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select scanner: %w", err)
	}
	return scanner, nil
}

// ListByClient returns every scanner owned by the client, newest first.
func (r *ScannerRepository) ListByClient(ctx context.Context, clientID string) ([]domain.Scanner, error) {
	query, args, err := r.builder.
		Select(scannerColumns).
		From("scanners").
		Where(squirrel.Eq{"client_id": clientID}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list scanners sql: %w", err)
	}

	rows, err := r.db.sql.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list scanners: %w", err)
	}
	defer rows.Close()

	var scanners []domain.Scanner
	for rows.Next() {
		scanner, err := scanScanner(rows)
		if err != nil {
			return nil, fmt.Errorf("scan scanner row: %w", err)
		}
		scanners = append(scanners, *scanner)
	}

	return scanners, rows.Err()
}

func scanScanner(row rowScanner) (*domain.Scanner, error) {
	var (
		scanner                                domain.Scanner
		primary, secondary, button, logo, icon sql.NullString
		brandingUpdated                        sql.NullTime
		scanTypes                              sql.NullString
		status                                 string
	)
	err := row.Scan(
		&scanner.ID, &scanner.UID, &scanner.ClientID, &scanner.Name,
		&primary, &secondary, &button, &logo, &icon,
		&brandingUpdated, &scanTypes, &status, &scanner.APIKey,
		&scanner.CreatedAt, &scanner.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	scanner.Branding = domain.Branding{
		PrimaryColor:   primary.String,
		SecondaryColor: secondary.String,
		ButtonColor:    button.String,
		LogoPath:       logo.String,
		FaviconPath:    icon.String,
	}
	if brandingUpdated.Valid {
		scanner.Branding.UpdatedAt = brandingUpdated.Time
	}
	if scanTypes.Valid && scanTypes.String != "" {
		if err := json.Unmarshal([]byte(scanTypes.String), &scanner.ScanTypes); err != nil {
			return nil, fmt.Errorf("unmarshal scan types: %w", err)
		}
	}
	scanner.Status = domain.ScannerStatus(status)

	return &scanner, nil
}

// Update rewrites the mutable scanner fields, including branding.
func (r *ScannerRepository) Update(ctx context.Context, scanner domain.Scanner) error {
	scanTypes, err := json.Marshal(scanner.ScanTypes)
	if err != nil {
		return fmt.Errorf("marshal scan types: %w", err)
	}

	query, args, err := r.builder.Update("scanners").
		SetMap(map[string]any{
			"name":                scanner.Name,
			"primary_color":       scanner.Branding.PrimaryColor,
			"secondary_color":     scanner.Branding.SecondaryColor,
			"button_color":        scanner.Branding.ButtonColor,
			"logo_path":           scanner.Branding.LogoPath,
			"favicon_path":        scanner.Branding.FaviconPath,
			"branding_updated_at": scanner.Branding.UpdatedAt,
			"scan_types":          string(scanTypes),
			"status":              string(scanner.Status),
			"updated_at":          scanner.UpdatedAt,
		}).
		Where(squirrel.Eq{"id": scanner.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update scanner sql: %w", err)
	}

	return withWriteRetry(ctx, func() error {
		res, err := r.db.sql.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("update scanner: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return repository.ErrNotFound
		}
		return nil
	})
}

// SetStatus transitions a single scanner.
func (r *ScannerRepository) SetStatus(ctx context.Context, id string, status domain.ScannerStatus) error {
	query, args, err := r.builder.Update("scanners").
		SetMap(map[string]any{"status": string(status), "updated_at": time.Now().UTC()}).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build set scanner status sql: %w", err)
	}

	return withWriteRetry(ctx, func() error {
		res, err := r.db.sql.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("set scanner status: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return repository.ErrNotFound
		}
		return nil
	})
}

// SetStatusByClient transitions every non-deleted scanner of a client,
// returning the number affected. Used for the deactivation cascade.
func (r *ScannerRepository) SetStatusByClient(ctx context.Context, clientID string, status domain.ScannerStatus) (int, error) {
	query, args, err := r.builder.Update("scanners").
		SetMap(map[string]any{"status": string(status), "updated_at": time.Now().UTC()}).
		Where(squirrel.Eq{"client_id": clientID}).
		Where(squirrel.NotEq{"status": string(domain.ScannerStatusDeleted)}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build cascade scanner status sql: %w", err)
	}

	var affected int
	err = withWriteRetry(ctx, func() error {
		res, err := r.db.sql.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("cascade scanner status: %w", err)
		}
		n, _ := res.RowsAffected()
		affected = int(n)
		return nil
	})
	return affected, err
}
