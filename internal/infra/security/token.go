package security

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

const (
	sessionTokenBytes = 32
	apiKeyBytes       = 16
	// 8 random bytes keep the uid column collision-free even across
	// hundreds of thousands of provisioned scanners.
	scannerUIDBytes = 8
)

// NewSessionToken returns a high-entropy opaque session token.
func NewSessionToken() (string, error) {
	return randomHex(sessionTokenBytes)
}

// NewAPIKey returns an API key for a client or scanner.
func NewAPIKey() (string, error) {
	return randomHex(apiKeyBytes)
}

// NewScannerUID returns a public scanner identifier of the form
// "scanner_ab12cd34ef56ab78".
func NewScannerUID() (string, error) {
	suffix, err := randomHex(scannerUIDBytes)
	if err != nil {
		return "", err
	}
	return "scanner_" + suffix, nil
}

func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
