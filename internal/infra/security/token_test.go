package security

import (
	"strings"
	"testing"
)

func TestNewSessionTokenLengthAndUniqueness(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		token, err := NewSessionToken()
		if err != nil {
			t.Fatalf("NewSessionToken returned error: %v", err)
		}
		if len(token) != sessionTokenBytes*2 {
			t.Fatalf("unexpected token length %d", len(token))
		}
		if _, ok := seen[token]; ok {
			t.Fatal("duplicate session token generated")
		}
		seen[token] = struct{}{}
	}
}

func TestNewScannerUIDFormatAndUniqueness(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100000; i++ {
		uid, err := NewScannerUID()
		if err != nil {
			t.Fatalf("NewScannerUID returned error: %v", err)
		}
		if !strings.HasPrefix(uid, "scanner_") {
			t.Fatalf("unexpected uid prefix: %q", uid)
		}
		suffix := strings.TrimPrefix(uid, "scanner_")
		if len(suffix) != scannerUIDBytes*2 {
			t.Fatalf("unexpected uid suffix length: %q", uid)
		}
		for _, r := range suffix {
			if (r < '0' || r > '9') && (r < 'a' || r > 'f') {
				t.Fatalf("uid suffix is not lowercase hex: %q", uid)
			}
		}
		if _, ok := seen[uid]; ok {
			t.Fatalf("duplicate scanner uid generated after %d draws", i)
		}
		seen[uid] = struct{}{}
	}
}

func TestNewAPIKeyUniqueness(t *testing.T) {
	first, err := NewAPIKey()
	if err != nil {
		t.Fatalf("NewAPIKey returned error: %v", err)
	}
	second, err := NewAPIKey()
	if err != nil {
		t.Fatalf("NewAPIKey returned error: %v", err)
	}
	if first == second {
		t.Fatal("expected distinct api keys")
	}
	if len(first) != apiKeyBytes*2 {
		t.Fatalf("unexpected api key length %d", len(first))
	}
}
