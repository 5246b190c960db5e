package assessment

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"strings"

	"github.com/leadshield/scanner-platform/internal/core/domain"
	"github.com/leadshield/scanner-platform/internal/core/port"
)

// SimulatedEngine produces a deterministic assessment derived from the
// target identifier. It stands in for the production probing engine; the
// same target always yields the same findings and score, which keeps the
// ingestion pipeline and dashboards exercisable without network access.
type SimulatedEngine struct{}

// NewSimulatedEngine constructs a SimulatedEngine.
func NewSimulatedEngine() *SimulatedEngine {
	return &SimulatedEngine{}
}

type simulatedCheck struct {
	finding domain.Finding
	penalty int
}

// Assess runs the requested checks. Scoring starts at 100 and subtracts a
// penalty per triggered finding, floored at 10.
func (e *SimulatedEngine) Assess(ctx context.Context, target string, scanTypes []string) (*port.AssessmentResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, ErrTimeout
	}

	target = strings.ToLower(strings.TrimSpace(target))
	if target == "" {
		return nil, ErrUnreachable
	}

	if len(scanTypes) == 0 {
		scanTypes = DefaultScanTypes
	}

	seed := sha256.Sum256([]byte(target))
	score := 100
	var findings []domain.Finding

	for i, scanType := range scanTypes {
		check, ok := e.lookup(scanType, target, seedAt(seed, i))
		if !ok {
			continue
		}
		findings = append(findings, check.finding)
		score -= check.penalty
	}

	if score < 10 {
		score = 10
	}

	return &port.AssessmentResult{Score: score, Findings: findings}, nil
}

// seedAt extracts a small deterministic value per check position.
func seedAt(seed [32]byte, i int) uint16 {
	off := (i * 2) % (len(seed) - 1)
	return binary.BigEndian.Uint16(seed[off : off+2])
}

func (e *SimulatedEngine) lookup(scanType, target string, roll uint16) (simulatedCheck, bool) {
	switch scanType {
	case CheckEmailSecurity:
		if roll%3 == 0 {
			return simulatedCheck{
				finding: domain.Finding{
					Category: CheckEmailSecurity,
					Severity: "High",
					Title:    "Missing DMARC record",
					Detail:   "No DMARC policy found for " + target + "; spoofed mail from this domain will not be rejected.",
				},
				penalty: 15,
			}, true
		}
		if roll%3 == 1 {
			return simulatedCheck{
				finding: domain.Finding{
					Category: CheckEmailSecurity,
					Severity: "Medium",
					Title:    "SPF policy too permissive",
					Detail:   "SPF record for " + target + " ends in ~all; consider -all.",
				},
				penalty: 8,
			}, true
		}
		return simulatedCheck{}, false
	case CheckSSL:
		if roll%4 == 0 {
			return simulatedCheck{
				finding: domain.Finding{
					Category: CheckSSL,
					Severity: "Critical",
					Title:    "Certificate expiring soon",
					Detail:   "The TLS certificate for " + target + " expires within 14 days.",
				},
				penalty: 20,
			}, true
		}
		return simulatedCheck{}, false
	case CheckSecurityHeaders:
		if roll%2 == 0 {
			return simulatedCheck{
				finding: domain.Finding{
					Category: CheckSecurityHeaders,
					Severity: "Medium",
					Title:    "Content-Security-Policy not set",
					Detail:   "Responses from " + target + " lack a CSP header.",
				},
				penalty: 10,
			}, true
		}
		return simulatedCheck{}, false
	case CheckOpenPorts:
		if roll%5 == 0 {
			return simulatedCheck{
				finding: domain.Finding{
					Category: CheckOpenPorts,
					Severity: "High",
					Title:    "Administrative port exposed",
					Detail:   "Port 3389 appears reachable on " + target + ".",
				},
				penalty: 15,
			}, true
		}
		return simulatedCheck{}, false
	case CheckDNS:
		if roll%4 == 1 {
			return simulatedCheck{
				finding: domain.Finding{
					Category: CheckDNS,
					Severity: "Low",
					Title:    "Zone transfer not restricted",
					Detail:   "Name servers for " + target + " may permit AXFR requests.",
				},
				penalty: 5,
			}, true
		}
		return simulatedCheck{}, false
	default:
		return simulatedCheck{}, false
	}
}
