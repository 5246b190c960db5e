package sqlite

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/leadshield/scanner-platform/internal/core/domain"
)

func testScanRecord(id, clientID string, createdAt time.Time) domain.ScanRecord {
	return domain.ScanRecord{
		ID:       id,
		ClientID: clientID,
		Target:   "https://example.com",
		Lead: domain.Lead{
			Name:        "Jordan Lee",
			Email:       "jordan@example.com",
			CompanySize: "11-50",
		},
		Score:     82,
		RiskLevel: domain.RiskLevelForScore(82),
		ScanTypes: []string{"ssl_certificate", "security_headers"},
		Findings: []domain.Finding{
			{Category: "security_headers", Severity: "medium", Title: "missing CSP header"},
		},
		Status:    domain.ScanStatusCompleted,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

func TestTenantEnsureCreatesIsolatedStore(t *testing.T) {
	root := t.TempDir()
	store := NewTenantStore(root)
	defer store.Close()

	handle, err := store.Ensure(context.Background(), "client-1", "Acme Security")
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}

	want := filepath.Join(root, "client_client-1_scans.db")
	if handle.Path != want {
		t.Fatalf("expected store at %q, got %q", want, handle.Path)
	}
	if _, err := os.Stat(handle.Path); err != nil {
		t.Fatalf("expected store file on disk: %v", err)
	}
}

func TestTenantEnsureIsIdempotent(t *testing.T) {
	store := NewTenantStore(t.TempDir())
	defer store.Close()

	first, err := store.Ensure(context.Background(), "client-1", "Acme Security")
	if err != nil {
		t.Fatalf("first ensure: %v", err)
	}
	second, err := store.Ensure(context.Background(), "client-1", "Acme Security")
	if err != nil {
		t.Fatalf("second ensure: %v", err)
	}
	if first.Path != second.Path {
		t.Fatalf("expected same store, got %q and %q", first.Path, second.Path)
	}
}

func TestTenantEnsureConcurrentCallsConverge(t *testing.T) {
	store := NewTenantStore(t.TempDir())
	defer store.Close()

	const callers = 16
	paths := make([]string, callers)
	var wg sync.WaitGroup
	wg.Add(callers)
	for i := 0; i < callers; i++ {
		go func(i int) {
			defer wg.Done()
			handle, err := store.Ensure(context.Background(), "client-1", "Acme Security")
			if err != nil {
				t.Errorf("caller %d: %v", i, err)
				return
			}
			paths[i] = handle.Path
		}(i)
	}
	wg.Wait()

	for i := 1; i < callers; i++ {
		if paths[i] != paths[0] {
			t.Fatalf("caller %d got a different store: %q vs %q", i, paths[i], paths[0])
		}
	}
}

func TestTenantSaveAndListScans(t *testing.T) {
	store := NewTenantStore(t.TempDir())
	defer store.Close()
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	older := testScanRecord("scan-1", "client-1", base)
	newer := testScanRecord("scan-2", "client-1", base.Add(time.Hour))

	if err := store.SaveScan(ctx, "client-1", older); err != nil {
		t.Fatalf("save older: %v", err)
	}
	if err := store.SaveScan(ctx, "client-1", newer); err != nil {
		t.Fatalf("save newer: %v", err)
	}

	records, err := store.ListScans(ctx, "client-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].ID != "scan-2" {
		t.Fatalf("expected newest first, got %q", records[0].ID)
	}

	got := records[1]
	if got.Lead.Email != "jordan@example.com" {
		t.Fatalf("unexpected lead email %q", got.Lead.Email)
	}
	if got.Score != 82 || got.RiskLevel != "Moderate" {
		t.Fatalf("unexpected score/risk: %d %q", got.Score, got.RiskLevel)
	}
	if len(got.Findings) != 1 || got.Findings[0].Title != "missing CSP header" {
		t.Fatalf("unexpected findings: %+v", got.Findings)
	}
	if len(got.ScanTypes) != 2 {
		t.Fatalf("unexpected scan types: %v", got.ScanTypes)
	}
}

func TestTenantSaveScanIsUpsert(t *testing.T) {
	store := NewTenantStore(t.TempDir())
	defer store.Close()
	ctx := context.Background()

	record := testScanRecord("scan-1", "client-1", time.Now().UTC())
	if err := store.SaveScan(ctx, "client-1", record); err != nil {
		t.Fatalf("first save: %v", err)
	}

	record.Score = 40
	record.RiskLevel = domain.RiskLevelForScore(40)
	if err := store.SaveScan(ctx, "client-1", record); err != nil {
		t.Fatalf("second save: %v", err)
	}

	records, err := store.ListScans(ctx, "client-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected upsert to keep 1 record, got %d", len(records))
	}
	if records[0].Score != 40 {
		t.Fatalf("expected updated score, got %d", records[0].Score)
	}
}

func TestTenantStoresAreIsolatedPerClient(t *testing.T) {
	store := NewTenantStore(t.TempDir())
	defer store.Close()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		clientID := fmt.Sprintf("client-%d", i)
		record := testScanRecord(fmt.Sprintf("scan-%d", i), clientID, time.Now().UTC())
		if err := store.SaveScan(ctx, clientID, record); err != nil {
			t.Fatalf("save for %s: %v", clientID, err)
		}
	}

	records, err := store.ListScans(ctx, "client-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected only client-1 scans, got %d records", len(records))
	}
	if records[0].ClientID != "client-1" {
		t.Fatalf("expected client-1 record, got %q", records[0].ClientID)
	}
}

func TestTenantDisplayNameSurvivesReopen(t *testing.T) {
	root := t.TempDir()
	ctx := context.Background()

	store := NewTenantStore(root)
	if _, err := store.Ensure(ctx, "client-1", "Acme Security"); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	// A fresh process ingests before anyone calls Ensure with the name.
	reopened := NewTenantStore(root)
	defer reopened.Close()
	record := testScanRecord("scan-1", "client-1", time.Now().UTC())
	if err := reopened.SaveScan(ctx, "client-1", record); err != nil {
		t.Fatalf("save after reopen: %v", err)
	}

	reopened.mu.Lock()
	db := reopened.tenants["client-1"].db
	reopened.mu.Unlock()

	var name string
	err := db.sql.QueryRowContext(ctx,
		"SELECT value FROM store_info WHERE key = 'display_name'").Scan(&name)
	if err != nil {
		t.Fatalf("read display name: %v", err)
	}
	if name != "Acme Security" {
		t.Fatalf("expected stored display name to survive reopen, got %q", name)
	}
}

func TestTenantLegacyRowsGetSentinels(t *testing.T) {
	store := NewTenantStore(t.TempDir())
	defer store.Close()
	ctx := context.Background()

	if _, err := store.Ensure(ctx, "client-1", "Acme Security"); err != nil {
		t.Fatalf("ensure: %v", err)
	}

	// Simulate a row written before the score and risk columns existed.
	store.mu.Lock()
	db := store.tenants["client-1"].db
	store.mu.Unlock()
	_, err := db.sql.ExecContext(ctx,
		"INSERT INTO scans (scan_id, client_id, target, lead_email, created_at) VALUES (?, ?, ?, ?, ?)",
		"scan-legacy", "client-1", "https://old.example.com", "old@example.com", time.Now().UTC(),
	)
	if err != nil {
		t.Fatalf("insert legacy row: %v", err)
	}

	records, err := store.ListScans(ctx, "client-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}

	got := records[0]
	if got.Score != domain.DefaultSecurityScore {
		t.Fatalf("expected sentinel score, got %d", got.Score)
	}
	if got.RiskLevel != domain.DefaultRiskLevel {
		t.Fatalf("expected sentinel risk level, got %q", got.RiskLevel)
	}
	if got.Lead.CompanySize != domain.DefaultCompanySize {
		t.Fatalf("expected sentinel company size, got %q", got.Lead.CompanySize)
	}
	if got.Status != domain.ScanStatusCompleted {
		t.Fatalf("expected completed status fallback, got %q", got.Status)
	}
}
