// Package assessment provides the security assessment engine collaborator:
// given a target identifier it returns a severity-tagged finding list
// synchronously, or fails with a typed error that callers treat as a
// degraded outcome.
package assessment

import (
	"errors"
	"fmt"
)

var (
	// ErrUnreachable indicates the target could not be probed at all.
	ErrUnreachable = errors.New("assessment: target unreachable")
	// ErrTimeout indicates the engine ran out of time before completing.
	ErrTimeout = errors.New("assessment: timed out")
)

// Known check identifiers. Unknown requested types are ignored, not errors.
const (
	CheckEmailSecurity   = "email_security"
	CheckSSL             = "ssl_certificate"
	CheckSecurityHeaders = "security_headers"
	CheckOpenPorts       = "open_ports"
	CheckDNS             = "dns_configuration"
)

// DefaultScanTypes is applied when a submission names no checks.
var DefaultScanTypes = []string{CheckEmailSecurity, CheckSSL, CheckSecurityHeaders, CheckDNS}

// EngineError wraps a check-level failure with its originating check name.
type EngineError struct {
	Check string
	Err   error
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("assessment check %s: %v", e.Check, e.Err)
}

func (e *EngineError) Unwrap() error {
	return e.Err
}
