package notify

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/leadshield/scanner-platform/internal/core/domain"
)

// ScanNotifier composes and sends the completed-scan email to the client's
// contact address. It implements port.ScanNotifier.
type ScanNotifier struct {
	mailer Mailer
	log    *zap.Logger
}

// NewScanNotifier constructs a ScanNotifier.
func NewScanNotifier(mailer Mailer, log *zap.Logger) *ScanNotifier {
	if mailer == nil {
		mailer = NoopMailer{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &ScanNotifier{mailer: mailer, log: log}
}

// NotifyScanComplete emails the client about a freshly ingested scan.
func (n *ScanNotifier) NotifyScanComplete(_ context.Context, client domain.Client, record domain.ScanRecord) error {
	if client.ContactEmail == "" {
		return nil
	}

	var body strings.Builder
	fmt.Fprintf(&body, "A new scan was completed for %s.\n\n", client.BusinessName)
	fmt.Fprintf(&body, "Target: %s\n", record.Target)
	fmt.Fprintf(&body, "Lead: %s <%s>\n", record.Lead.Name, record.Lead.Email)
	fmt.Fprintf(&body, "Security score: %d (%s risk)\n", record.Score, record.RiskLevel)
	if record.Degraded {
		body.WriteString("\nSome checks could not complete; the score reflects a partial assessment.\n")
	}
	fmt.Fprintf(&body, "\nScan reference: %s\n", record.ID)

	email := Email{
		To:      []string{client.ContactEmail},
		Subject: fmt.Sprintf("New security scan for %s", record.Target),
		Text:    body.String(),
	}

	if err := n.mailer.Send(email); err != nil {
		return fmt.Errorf("send scan notification: %w", err)
	}

	n.log.Info("scan notification sent",
		zap.String("client_id", client.ID),
		zap.String("scan_id", record.ID),
	)
	return nil
}
