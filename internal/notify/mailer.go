// Package notify delivers best-effort email notifications for completed
// scans. Failures are logged by callers and never affect persistence.
package notify

// Email is one outbound message.
type Email struct {
	To      []string
	Subject string
	Text    string
	HTML    string
}

// Mailer sends a single email.
type Mailer interface {
	Send(email Email) error
}

// NoopMailer drops every message. Used when email delivery is disabled.
type NoopMailer struct{}

// Send discards the email.
func (NoopMailer) Send(Email) error {
	return nil
}
