package notify

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/leadshield/scanner-platform/internal/core/domain"
)

type captureMailer struct {
	sent    []Email
	sendErr error
}

func (m *captureMailer) Send(email Email) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sent = append(m.sent, email)
	return nil
}

func testNotificationRecord() domain.ScanRecord {
	return domain.ScanRecord{
		ID:        "scan-1",
		ClientID:  "client-1",
		Target:    "https://example.com",
		Lead:      domain.Lead{Name: "Jordan Lee", Email: "jordan@example.com"},
		Score:     62,
		RiskLevel: "High",
		Status:    domain.ScanStatusCompleted,
	}
}

func TestNotifyScanCompleteSendsEmail(t *testing.T) {
	mailer := &captureMailer{}
	notifier := NewScanNotifier(mailer, nil)

	client := domain.Client{
		ID:           "client-1",
		BusinessName: "Acme Security",
		ContactEmail: "owner@acme.test",
	}

	if err := notifier.NotifyScanComplete(context.Background(), client, testNotificationRecord()); err != nil {
		t.Fatalf("notify: %v", err)
	}

	if len(mailer.sent) != 1 {
		t.Fatalf("expected 1 email, got %d", len(mailer.sent))
	}

	email := mailer.sent[0]
	if len(email.To) != 1 || email.To[0] != "owner@acme.test" {
		t.Fatalf("unexpected recipient %v", email.To)
	}
	if !strings.Contains(email.Text, "https://example.com") {
		t.Fatal("expected target in email body")
	}
	if !strings.Contains(email.Text, "62") || !strings.Contains(email.Text, "High") {
		t.Fatal("expected score and risk in email body")
	}
}

func TestNotifyScanCompleteMentionsDegradedAssessment(t *testing.T) {
	mailer := &captureMailer{}
	notifier := NewScanNotifier(mailer, nil)

	record := testNotificationRecord()
	record.Degraded = true

	client := domain.Client{ID: "client-1", BusinessName: "Acme", ContactEmail: "owner@acme.test"}
	if err := notifier.NotifyScanComplete(context.Background(), client, record); err != nil {
		t.Fatalf("notify: %v", err)
	}

	if !strings.Contains(mailer.sent[0].Text, "partial assessment") {
		t.Fatal("expected degraded note in email body")
	}
}

func TestNotifyScanCompleteSkipsClientsWithoutContact(t *testing.T) {
	mailer := &captureMailer{}
	notifier := NewScanNotifier(mailer, nil)

	client := domain.Client{ID: "client-1", BusinessName: "Acme"}
	if err := notifier.NotifyScanComplete(context.Background(), client, testNotificationRecord()); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if len(mailer.sent) != 0 {
		t.Fatal("expected no email for client without contact address")
	}
}

func TestNotifyScanCompleteWrapsSendFailure(t *testing.T) {
	sendErr := errors.New("smtp down")
	notifier := NewScanNotifier(&captureMailer{sendErr: sendErr}, nil)

	client := domain.Client{ID: "client-1", BusinessName: "Acme", ContactEmail: "owner@acme.test"}
	err := notifier.NotifyScanComplete(context.Background(), client, testNotificationRecord())
	if !errors.Is(err, sendErr) {
		t.Fatalf("expected wrapped send error, got %v", err)
	}
}
