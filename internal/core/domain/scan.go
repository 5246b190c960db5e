package domain

import "time"

// ScanStatus enumerates terminal and in-flight states for a scan record.
type ScanStatus string

const (
	ScanStatusPending   ScanStatus = "pending"
	ScanStatusCompleted ScanStatus = "completed"
	ScanStatusFailed    ScanStatus = "failed"
)

// Sentinel values applied when an older store row predates a column.
const (
	DefaultSecurityScore = 75
	DefaultRiskLevel     = "Moderate"
	DefaultCompanySize   = "Unknown"
)

// Lead carries the visitor contact details captured alongside a scan.
type Lead struct {
	Name        string
	Email       string
	Phone       string
	Company     string
	CompanySize string
}

// Finding is a single severity-tagged result from the assessment engine.
type Finding struct {
	Category string `json:"category"`
	Severity string `json:"severity"`
	Title    string `json:"title"`
	Detail   string `json:"detail,omitempty"`
}

// ScanRecord is the durable outcome of one scan submission. ScannerID is
// empty for ungated web-form submissions. A record must stay retrievable by
// ClientID from at least one store.
type ScanRecord struct {
	ID        string
	ClientID  string
	ScannerID string
	Lead      Lead
	Target    string
	Score     int
	RiskLevel string
	ScanTypes []string
	Findings  []Finding
	Status    ScanStatus
	Degraded  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RiskLevelForScore maps a 0-100 security score onto a risk band.
func RiskLevelForScore(score int) string {
	switch {
	case score >= 90:
		return "Low"
	case score >= 75:
		return "Moderate"
	case score >= 50:
		return "High"
	default:
		return "Critical"
	}
}
