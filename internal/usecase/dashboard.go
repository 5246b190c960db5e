package usecase

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/leadshield/scanner-platform/internal/core/domain"
	"github.com/leadshield/scanner-platform/internal/core/port"
)

// DashboardStats summarises a client's scan activity.
type DashboardStats struct {
	TotalScans   int            `json:"totalScans"`
	AverageScore int            `json:"averageScore"`
	UniqueLeads  int            `json:"uniqueLeads"`
	RiskCounts   map[string]int `json:"riskCounts"`
}

// DashboardView is the reconciled per-client read model.
type DashboardView struct {
	Stats   DashboardStats     `json:"stats"`
	Records []domain.ScanRecord `json:"records"`
}

// DashboardAggregator merges tenant and central scan rows into one view.
// The tenant store is authoritative; central rows fill gaps left by a
// missing or unreachable tenant store and by legacy-era writes.
type DashboardAggregator struct {
	tenant  port.TenantScanStore
	central port.CentralScanStore
	log     *zap.Logger
}

// NewDashboardAggregator constructs a DashboardAggregator.
func NewDashboardAggregator(tenant port.TenantScanStore, central port.CentralScanStore, log *zap.Logger) *DashboardAggregator {
	if log == nil {
		log = zap.NewNop()
	}
	return &DashboardAggregator{tenant: tenant, central: central, log: log}
}

// View returns the merged dashboard for one client. A client with zero
// scans gets a well-formed empty view, never an error.
func (a *DashboardAggregator) View(ctx context.Context, clientID string) (*DashboardView, error) {
	// Strategy 1: tenant store. Unavailability falls through to central.
	tenantRecords, err := a.tenant.ListScans(ctx, clientID)
	if err != nil {
		a.log.Warn("tenant store read failed, falling back to central",
			zap.String("client_id", clientID), zap.Error(err))
		tenantRecords = nil
	}

	// Strategy 2: central aggregate rows for the same client. A failure here
	// only matters when the tenant store produced nothing either.
	centralRecords, centralErr := a.central.ListScansByClient(ctx, clientID)
	if centralErr != nil {
		if err != nil {
			return nil, centralErr
		}
		a.log.Warn("central store read failed",
			zap.String("client_id", clientID), zap.Error(centralErr))
		centralRecords = nil
	}

	merged := mergeScans(tenantRecords, centralRecords)
	return &DashboardView{
		Stats:   computeStats(merged),
		Records: merged,
	}, nil
}

// EmptyDashboardView returns the view a client with no scan activity sees.
func EmptyDashboardView() *DashboardView {
	return &DashboardView{
		Stats:   computeStats(nil),
		Records: []domain.ScanRecord{},
	}
}

// mergeScans deduplicates by scan id; the tenant copy wins on conflict.
func mergeScans(tenant, central []domain.ScanRecord) []domain.ScanRecord {
	seen := make(map[string]struct{}, len(tenant))
	merged := make([]domain.ScanRecord, 0, len(tenant)+len(central))

	for _, record := range tenant {
		seen[record.ID] = struct{}{}
		merged = append(merged, record)
	}
	for _, record := range central {
		if _, ok := seen[record.ID]; ok {
			continue
		}
		merged = append(merged, record)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].CreatedAt.After(merged[j].CreatedAt)
	})

	return merged
}

func computeStats(records []domain.ScanRecord) DashboardStats {
	stats := DashboardStats{
		RiskCounts: make(map[string]int),
	}

	if len(records) == 0 {
		return stats
	}

	leads := make(map[string]struct{})
	total := 0
	for _, record := range records {
		total += record.Score
		stats.RiskCounts[record.RiskLevel]++
		if record.Lead.Email != "" {
			leads[record.Lead.Email] = struct{}{}
		}
	}

	stats.TotalScans = len(records)
	stats.AverageScore = total / len(records)
	stats.UniqueLeads = len(leads)
	return stats
}
