package ecolife

import (
	"context"
	"fmt"
	"html"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// ContactMessage is a contact-form submission to be relayed by email.
type ContactMessage struct {
	Name    string
	Email   string
	Phone   string
	Message string
}

// Mailer relays contact messages to the site owner. Delivery failure must
// never abort the request that triggered it; callers log and move on.
type Mailer interface {
	Send(ctx context.Context, msg ContactMessage) error
}

// SendGridMailer delivers contact messages through the SendGrid API, sending
// from and to the configured site address.
type SendGridMailer struct {
	client *sendgrid.Client
	email  string
}

// NewSendGridMailer creates a mailer for the given API key and site address.
func NewSendGridMailer(apiKey, email string) *SendGridMailer {
	return &SendGridMailer{
		client: sendgrid.NewSendClient(apiKey),
		email:  email,
	}
}

// Send relays one contact message. A non-2xx API response is an error.
func (m *SendGridMailer) Send(ctx context.Context, msg ContactMessage) error {
	from := mail.NewEmail("", m.email)
	to := mail.NewEmail("", m.email)
	body := fmt.Sprintf("Name: %s | Email: %s | Phone: %s | Message: «%s»",
		msg.Name, msg.Email, msg.Phone, msg.Message)
	email := mail.NewSingleEmail(from, "New Message", to, body, html.EscapeString(body))
	resp, err := m.client.SendWithContext(ctx, email)
	if err != nil {
		return fmt.Errorf("sendgrid: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid: status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}
