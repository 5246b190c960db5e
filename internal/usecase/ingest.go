package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"sync"
	"time"

	uuid "github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/leadshield/scanner-platform/internal/assessment"
	"github.com/leadshield/scanner-platform/internal/core/domain"
	"github.com/leadshield/scanner-platform/internal/core/port"
	"github.com/leadshield/scanner-platform/internal/infra/telemetry"
	"github.com/leadshield/scanner-platform/internal/repository"
)

var (
	// ErrValidation indicates user-fixable bad input.
	ErrValidation = errors.New("validation failed")
	// ErrScannerNotFound indicates the submission referenced an unknown scanner.
	ErrScannerNotFound = errors.New("scanner not found")
	// ErrScannerInactive indicates the scanner no longer accepts submissions.
	ErrScannerInactive = errors.New("scanner is not accepting submissions")
)

// Submission is a raw visitor scan request.
type Submission struct {
	TargetURL   string
	ContactName string
	ContactMail string
	Phone       string
	Company     string
	CompanySize string
	ScanTypes   []string
}

const assessmentTimeout = 20 * time.Second

// ScanIngestionPipeline drives a submission from receipt to persistence.
// The tenant store write is authoritative; the central aggregate write and
// the notification are best effort.
type ScanIngestionPipeline struct {
	scanners port.ScannerRepository
	clients  port.ClientRepository
	tenant   port.TenantScanStore
	central  port.CentralScanStore
	engine   port.AssessmentEngine
	notifier port.ScanNotifier
	metrics  *telemetry.Metrics
	log      *zap.Logger

	// lastStamp enforces per-client monotonically non-decreasing creation
	// timestamps under concurrent submissions.
	mu        sync.Mutex
	lastStamp map[string]time.Time

	now func() time.Time
}

// NewScanIngestionPipeline constructs the pipeline.
func NewScanIngestionPipeline(
	scanners port.ScannerRepository,
	clients port.ClientRepository,
	tenant port.TenantScanStore,
	central port.CentralScanStore,
	engine port.AssessmentEngine,
	notifier port.ScanNotifier,
	metrics *telemetry.Metrics,
	log *zap.Logger,
) *ScanIngestionPipeline {
	if log == nil {
		log = zap.NewNop()
	}
	return &ScanIngestionPipeline{
		scanners:  scanners,
		clients:   clients,
		tenant:    tenant,
		central:   central,
		engine:    engine,
		notifier:  notifier,
		metrics:   metrics,
		log:       log,
		lastStamp: make(map[string]time.Time),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// IngestForScanner resolves the scanner by public UID and runs the pipeline
// on behalf of its owning client.
func (p *ScanIngestionPipeline) IngestForScanner(ctx context.Context, scannerUID string, sub Submission) (*domain.ScanRecord, error) {
	scanner, err := p.scanners.GetByUID(ctx, scannerUID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrScannerNotFound
		}
		return nil, fmt.Errorf("resolve scanner: %w", err)
	}
	if !scanner.AcceptsSubmissions() {
		return nil, ErrScannerInactive
	}

	if len(sub.ScanTypes) == 0 {
		sub.ScanTypes = scanner.ScanTypes
	}

	return p.ingest(ctx, scanner.ClientID, scanner.UID, sub)
}

// IngestForClient runs the pipeline for an ungated submission attributed
// directly to a client (no originating scanner).
func (p *ScanIngestionPipeline) IngestForClient(ctx context.Context, clientID string, sub Submission) (*domain.ScanRecord, error) {
	if len(sub.ScanTypes) == 0 {
		sub.ScanTypes = assessment.DefaultScanTypes
	}
	return p.ingest(ctx, clientID, "", sub)
}

func (p *ScanIngestionPipeline) ingest(ctx context.Context, clientID, scannerUID string, sub Submission) (*domain.ScanRecord, error) {
	// Received -> Validated
	if err := validateSubmission(&sub); err != nil {
		p.count("rejected")
		return nil, err
	}

	// Validated -> Assessed. Engine failure or timeout degrades the result
	// instead of aborting: a validated submission always produces a record.
	record := p.newRecord(clientID, scannerUID, sub)
	assessCtx, cancel := context.WithTimeout(ctx, assessmentTimeout)
	result, err := p.engine.Assess(assessCtx, record.Target, sub.ScanTypes)
	cancel()
	if err != nil {
		p.log.Warn("assessment degraded",
			zap.String("scan_id", record.ID),
			zap.String("target", record.Target),
			zap.Error(err),
		)
		record.Degraded = true
		record.Score = domain.DefaultSecurityScore
		if p.metrics != nil {
			p.metrics.AssessmentsDegraded.Inc()
		}
	} else {
		record.Score = result.Score
		record.Findings = result.Findings
	}
	record.RiskLevel = domain.RiskLevelForScore(record.Score)
	record.Status = domain.ScanStatusCompleted

	// Assessed -> Persisted. Tenant store first; its failure is fatal.
	if err := p.tenant.SaveScan(ctx, clientID, record); err != nil {
		p.count("failed")
		return nil, fmt.Errorf("persist scan to tenant store: %w", err)
	}
	if err := p.central.SaveScan(ctx, record); err != nil {
		// Best effort: the record is already durable in the tenant store.
		p.log.Warn("central store write failed",
			zap.String("scan_id", record.ID),
			zap.String("client_id", clientID),
			zap.Error(err),
		)
		if p.metrics != nil {
			p.metrics.CentralWriteErrors.Inc()
		}
	}
	p.count("completed")

	// Persisted -> Notified. Fire and forget; never reverts persistence.
	if p.notifier != nil {
		go p.notify(clientID, record)
	}

	return &record, nil
}

func (p *ScanIngestionPipeline) notify(clientID string, record domain.ScanRecord) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	client, err := p.clients.GetByID(ctx, clientID)
	if err != nil {
		p.log.Warn("notification skipped: client lookup failed",
			zap.String("scan_id", record.ID), zap.Error(err))
		return
	}

	if err := p.notifier.NotifyScanComplete(ctx, *client, record); err != nil {
		p.log.Warn("scan notification failed",
			zap.String("scan_id", record.ID), zap.Error(err))
	}
}

func (p *ScanIngestionPipeline) newRecord(clientID, scannerUID string, sub Submission) domain.ScanRecord {
	createdAt := p.stamp(clientID)
	return domain.ScanRecord{
		ID:        uuid.NewString(),
		ClientID:  clientID,
		ScannerID: scannerUID,
		Lead: domain.Lead{
			Name:        sub.ContactName,
			Email:       sub.ContactMail,
			Phone:       sub.Phone,
			Company:     sub.Company,
			CompanySize: sub.CompanySize,
		},
		Target:    sub.TargetURL,
		ScanTypes: sub.ScanTypes,
		Status:    domain.ScanStatusPending,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

// stamp returns a creation timestamp that never moves backwards within one
// client, even when the wall clock does.
func (p *ScanIngestionPipeline) stamp(clientID string) time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()
	if last, ok := p.lastStamp[clientID]; ok && now.Before(last) {
		now = last
	}
	p.lastStamp[clientID] = now
	return now
}

func (p *ScanIngestionPipeline) count(outcome string) {
	if p.metrics != nil {
		p.metrics.ScansIngested.WithLabelValues(outcome).Inc()
	}
}

func validateSubmission(sub *Submission) error {
	sub.TargetURL = strings.TrimSpace(sub.TargetURL)
	sub.ContactMail = strings.TrimSpace(sub.ContactMail)

	if sub.TargetURL == "" {
		return fmt.Errorf("%w: target is required", ErrValidation)
	}
	if sub.ContactMail == "" {
		return fmt.Errorf("%w: contact email is required", ErrValidation)
	}
	if _, err := mail.ParseAddress(sub.ContactMail); err != nil {
		return fmt.Errorf("%w: contact email is malformed", ErrValidation)
	}
	if sub.CompanySize == "" {
		sub.CompanySize = domain.DefaultCompanySize
	}
	return nil
}
