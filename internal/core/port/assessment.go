package port

import (
	"context"

	"github.com/leadshield/scanner-platform/internal/core/domain"
)

// AssessmentResult is the engine's verdict for one target.
type AssessmentResult struct {
	Score    int
	Findings []domain.Finding
}

// AssessmentEngine runs the security checks against a target identifier.
// Implementations return synchronously or fail with a typed error; callers
// treat any failure as a degraded (never fatal) outcome.
type AssessmentEngine interface {
	Assess(ctx context.Context, target string, scanTypes []string) (*AssessmentResult, error)
}
