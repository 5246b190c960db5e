package notify

import (
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendGridMailer delivers email through the SendGrid v3 API.
type SendGridMailer struct {
	fromName string
	fromMail string
	client   *sendgrid.Client
}

// NewSendGridMailer constructs a SendGridMailer.
func NewSendGridMailer(apiKey, fromName, fromMail string) *SendGridMailer {
	return &SendGridMailer{
		fromName: fromName,
		fromMail: fromMail,
		client:   sendgrid.NewSendClient(apiKey),
	}
}

// Send submits the message to SendGrid.
func (s *SendGridMailer) Send(e Email) error {
	from := mail.NewEmail(s.fromName, s.fromMail)

	message := mail.NewV3Mail()
	message.SetFrom(from)
	message.Subject = e.Subject

	personalization := mail.NewPersonalization()
	for _, to := range e.To {
		personalization.AddTos(mail.NewEmail("", to))
	}
	message.AddPersonalizations(personalization)

	if e.Text != "" {
		message.AddContent(mail.NewContent("text/plain", e.Text))
	}
	if e.HTML != "" {
		message.AddContent(mail.NewContent("text/html", e.HTML))
	}

	resp, err := s.client.Send(message)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid API error: %d %s", resp.StatusCode, resp.Body)
	}

	return nil
}
