package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	uuid "github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/leadshield/scanner-platform/internal/artifact"
	"github.com/leadshield/scanner-platform/internal/assessment"
	"github.com/leadshield/scanner-platform/internal/core/domain"
	"github.com/leadshield/scanner-platform/internal/core/port"
	"github.com/leadshield/scanner-platform/internal/infra/security"
	"github.com/leadshield/scanner-platform/internal/infra/telemetry"
	"github.com/leadshield/scanner-platform/internal/repository"
)

// ErrClientNotFound indicates the caller has no client record.
var ErrClientNotFound = errors.New("client not found")

// CustomizeInput is the payload for creating or updating a client's scanner.
type CustomizeInput struct {
	BusinessName   string
	BusinessDomain string
	ContactEmail   string
	ContactPhone   string
	Tier           string
	ScannerName    string
	PrimaryColor   string
	SecondaryColor string
	ButtonColor    string
	LogoPath       string
	FaviconPath    string
	ScanTypes      []string
}

// Deployment reports where a freshly rendered scanner lives.
type Deployment struct {
	ScannerUID string `json:"scannerUid"`
	EmbedURL   string `json:"embedUrl"`
	DocsURL    string `json:"docsUrl"`
	APIKey     string `json:"apiKey"`
}

// ProvisioningService owns the client/scanner lifecycle: tenant store
// provisioning, scanner creation and customisation, artifact rendering,
// API key rotation and the deactivation cascade.
type ProvisioningService struct {
	clients   port.ClientRepository
	scanners  port.ScannerRepository
	tenant    port.TenantScanStore
	generator *artifact.Generator
	metrics   *telemetry.Metrics
	log       *zap.Logger
	now       func() time.Time
}

// NewProvisioningService constructs a ProvisioningService.
func NewProvisioningService(
	clients port.ClientRepository,
	scanners port.ScannerRepository,
	tenant port.TenantScanStore,
	generator *artifact.Generator,
	metrics *telemetry.Metrics,
	log *zap.Logger,
) *ProvisioningService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ProvisioningService{
		clients:   clients,
		scanners:  scanners,
		tenant:    tenant,
		generator: generator,
		metrics:   metrics,
		log:       log,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Customize creates the caller's client record if needed, creates or updates
// its scanner, provisions the tenant store and renders the deployment
// bundle. It implements the POST /customize contract.
func (s *ProvisioningService) Customize(ctx context.Context, userID string, input CustomizeInput) (*Deployment, error) {
	if input.BusinessName == "" || input.BusinessDomain == "" {
		return nil, fmt.Errorf("%w: business name and domain are required", ErrValidation)
	}

	client, err := s.ensureClient(ctx, userID, input)
	if err != nil {
		return nil, err
	}

	// Tenant isolation must exist before the scanner goes live; a failure
	// here aborts rather than pretending isolation succeeded.
	if _, err := s.tenant.Ensure(ctx, client.ID, client.DisplayName); err != nil {
		return nil, fmt.Errorf("provision tenant store: %w", err)
	}

	scanner, err := s.upsertScanner(ctx, client, input)
	if err != nil {
		return nil, err
	}

	bundle, err := s.generator.Render(*scanner, client.BusinessName)
	if err != nil {
		return nil, fmt.Errorf("render deployment bundle: %w", err)
	}
	if s.metrics != nil {
		s.metrics.ArtifactRenders.Inc()
	}

	if scanner.Status == domain.ScannerStatusPending {
		if err := s.scanners.SetStatus(ctx, scanner.ID, domain.ScannerStatusDeployed); err != nil {
			return nil, fmt.Errorf("mark scanner deployed: %w", err)
		}
	}

	s.log.Info("scanner deployed",
		zap.String("client_id", client.ID),
		zap.String("scanner_uid", scanner.UID),
	)

	return &Deployment{
		ScannerUID: scanner.UID,
		EmbedURL:   bundle.EmbedURL,
		DocsURL:    bundle.DocsURL,
		APIKey:     scanner.APIKey,
	}, nil
}

// ensureClient returns the caller's client, creating one on first use.
// When the business name is already taken, the display name is suffixed
// with the new client id so both tenants stay addressable.
func (s *ProvisioningService) ensureClient(ctx context.Context, userID string, input CustomizeInput) (*domain.Client, error) {
	existing, err := s.clients.GetByUserID(ctx, userID)
	if err == nil {
		updated := *existing
		updated.BusinessName = input.BusinessName
		updated.BusinessDomain = input.BusinessDomain
		if input.ContactEmail != "" {
			updated.ContactEmail = input.ContactEmail
		}
		if input.ContactPhone != "" {
			phone := input.ContactPhone
			updated.ContactPhone = &phone
		}
		if input.Tier != "" {
			updated.Tier = domain.SubscriptionTier(input.Tier)
		}
		updated.UpdatedAt = s.now()
		if err := s.clients.Update(ctx, updated); err != nil {
			return nil, fmt.Errorf("update client: %w", err)
		}
		return &updated, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("lookup client: %w", err)
	}

	apiKey, err := security.NewAPIKey()
	if err != nil {
		return nil, fmt.Errorf("generate client api key: %w", err)
	}

	clientID := uuid.NewString()
	displayName := input.BusinessName
	taken, err := s.clients.CountByBusinessName(ctx, input.BusinessName)
	if err != nil {
		return nil, fmt.Errorf("check business name: %w", err)
	}
	if taken > 0 {
		displayName = fmt.Sprintf("%s (%s)", input.BusinessName, shortID(clientID))
	}

	now := s.now()
	client := domain.Client{
		ID:             clientID,
		UserID:         userID,
		BusinessName:   input.BusinessName,
		DisplayName:    displayName,
		BusinessDomain: input.BusinessDomain,
		ContactEmail:   input.ContactEmail,
		Tier:           domain.TierBasic,
		APIKey:         apiKey,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if input.ContactPhone != "" {
		phone := input.ContactPhone
		client.ContactPhone = &phone
	}
	if input.Tier != "" {
		client.Tier = domain.SubscriptionTier(input.Tier)
	}

	if err := s.clients.Create(ctx, client); err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}

	return &client, nil
}

func (s *ProvisioningService) upsertScanner(ctx context.Context, client *domain.Client, input CustomizeInput) (*domain.Scanner, error) {
	now := s.now()
	branding := domain.Branding{
		PrimaryColor:   input.PrimaryColor,
		SecondaryColor: input.SecondaryColor,
		ButtonColor:    input.ButtonColor,
		LogoPath:       input.LogoPath,
		FaviconPath:    input.FaviconPath,
		UpdatedAt:      now,
	}

	existing, err := s.scanners.ListByClient(ctx, client.ID)
	if err != nil {
		return nil, fmt.Errorf("list scanners: %w", err)
	}
	for i := range existing {
		scanner := existing[i]
		if scanner.Status == domain.ScannerStatusDeleted {
			continue
		}
		scanner.Branding = branding
		if input.ScannerName != "" {
			scanner.Name = input.ScannerName
		}
		if len(input.ScanTypes) > 0 {
			scanner.ScanTypes = input.ScanTypes
		}
		scanner.UpdatedAt = now
		if err := s.scanners.Update(ctx, scanner); err != nil {
			return nil, fmt.Errorf("update scanner: %w", err)
		}
		return &scanner, nil
	}

	uid, err := security.NewScannerUID()
	if err != nil {
		return nil, fmt.Errorf("generate scanner uid: %w", err)
	}
	apiKey, err := security.NewAPIKey()
	if err != nil {
		return nil, fmt.Errorf("generate scanner api key: %w", err)
	}

	name := input.ScannerName
	if name == "" {
		name = client.BusinessName + " Scanner"
	}
	scanTypes := input.ScanTypes
	if len(scanTypes) == 0 {
		scanTypes = assessment.DefaultScanTypes
	}

	scanner := domain.Scanner{
		ID:        uuid.NewString(),
		UID:       uid,
		ClientID:  client.ID,
		Name:      name,
		Branding:  branding,
		ScanTypes: scanTypes,
		Status:    domain.ScannerStatusPending,
		APIKey:    apiKey,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.scanners.Create(ctx, scanner); err != nil {
		return nil, fmt.Errorf("create scanner: %w", err)
	}

	return &scanner, nil
}

// RegenerateAPIKey issues a fresh client API key, atomically invalidating
// the old one.
func (s *ProvisioningService) RegenerateAPIKey(ctx context.Context, clientID string) (string, error) {
	newKey, err := security.NewAPIKey()
	if err != nil {
		return "", fmt.Errorf("generate api key: %w", err)
	}

	if err := s.clients.ReplaceAPIKey(ctx, clientID, newKey); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrClientNotFound
		}
		return "", fmt.Errorf("replace api key: %w", err)
	}

	return newKey, nil
}

// RegenerateAPIKeyForUser resolves the caller's client record and rotates
// its API key.
func (s *ProvisioningService) RegenerateAPIKeyForUser(ctx context.Context, userID string) (string, error) {
	client, err := s.clients.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrClientNotFound
		}
		return "", fmt.Errorf("resolve client: %w", err)
	}
	return s.RegenerateAPIKey(ctx, client.ID)
}

// DeactivateClient soft-deletes a tenant and cascades the deactivation to
// its scanners.
func (s *ProvisioningService) DeactivateClient(ctx context.Context, clientID string) error {
	if err := s.clients.SetActive(ctx, clientID, false); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrClientNotFound
		}
		return fmt.Errorf("deactivate client: %w", err)
	}

	affected, err := s.scanners.SetStatusByClient(ctx, clientID, domain.ScannerStatusInactive)
	if err != nil {
		return fmt.Errorf("cascade scanner deactivation: %w", err)
	}

	s.log.Info("client deactivated",
		zap.String("client_id", clientID),
		zap.Int("scanners_deactivated", affected),
	)
	return nil
}

// RefreshArtifacts re-renders a scanner's bundle when its branding changed
// after the last render.
func (s *ProvisioningService) RefreshArtifacts(ctx context.Context, scannerUID string) (bool, error) {
	scanner, err := s.scanners.GetByUID(ctx, scannerUID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, ErrScannerNotFound
		}
		return false, fmt.Errorf("resolve scanner: %w", err)
	}

	client, err := s.clients.GetByID(ctx, scanner.ClientID)
	if err != nil {
		return false, fmt.Errorf("resolve client: %w", err)
	}

	_, rendered, err := s.generator.RenderIfStale(*scanner, client.BusinessName)
	if err != nil {
		return false, err
	}
	if rendered && s.metrics != nil {
		s.metrics.ArtifactRenders.Inc()
	}
	return rendered, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
