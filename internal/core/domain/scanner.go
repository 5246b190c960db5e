package domain

import "time"

// ScannerStatus enumerates deployment states for a scanner instance.
// Scanners are never hard-deleted; they transition to inactive or deleted.
type ScannerStatus string

const (
	ScannerStatusPending  ScannerStatus = "pending"
	ScannerStatusDeployed ScannerStatus = "deployed"
	ScannerStatusInactive ScannerStatus = "inactive"
	ScannerStatusDeleted  ScannerStatus = "deleted"
)

// Branding holds the visual customisation applied to a scanner's embed bundle.
type Branding struct {
	PrimaryColor   string
	SecondaryColor string
	ButtonColor    string
	LogoPath       string
	FaviconPath    string
	UpdatedAt      time.Time
}

// Scanner is one embeddable scan widget owned by a client. UID is the
// public-facing identifier baked into embed URLs and the artifact bundle.
type Scanner struct {
	ID        string
	UID       string
	ClientID  string
	Name      string
	Branding  Branding
	ScanTypes []string
	Status    ScannerStatus
	APIKey    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// AcceptsSubmissions reports whether the scanner may ingest new scans.
func (s Scanner) AcceptsSubmissions() bool {
	return s.Status == ScannerStatusPending || s.Status == ScannerStatusDeployed
}
