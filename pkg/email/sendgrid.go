package email

import (
	"context"
	"fmt"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type sendGridClient interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

// SendGridTransport sends mail through the SendGrid v3 mail API
type SendGridTransport struct {
	apiKey string
	client sendGridClient
}

func NewSendGridTransport(apiKey string) *SendGridTransport {
	return &SendGridTransport{
		apiKey: apiKey,
		client: sendgrid.NewSendClient(apiKey),
	}
}

func (t *SendGridTransport) IsConfigured() bool {
	return t.apiKey != ""
}

// Send treats any non-2xx API response as a delivery failure
func (t *SendGridTransport) Send(ctx context.Context, msg Message) error {
	m := mail.NewV3Mail()
	m.SetFrom(mail.NewEmail(msg.FromName, msg.From))
	m.Subject = msg.Subject

	p := mail.NewPersonalization()
	p.AddTos(mail.NewEmail("", msg.To))
	m.AddPersonalizations(p)

	if msg.ReplyTo != "" {
		m.SetReplyTo(mail.NewEmail("", msg.ReplyTo))
	}
	m.AddContent(mail.NewContent("text/html", msg.HTML))

	resp, err := t.client.SendWithContext(ctx, m)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid: unexpected status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}
