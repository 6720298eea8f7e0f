package email

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/mail"
	"strings"
)

// ErrNotConfigured is returned when no transport or identity is set up
var ErrNotConfigured = errors.New("email service is not configured")

const (
	NotificationSubjectPrefix = "Portfolio Contact from "
	ConfirmationSubject       = "Thanks for reaching out!"
)

// Message is a single outbound HTML email
type Message struct {
	FromName string
	From     string
	To       string
	ReplyTo  string
	Subject  string
	HTML     string
}

// Transport delivers one message. Implementations must be safe for
// concurrent use since a single transport serves every request.
type Transport interface {
	Send(ctx context.Context, msg Message) error
}

// Identity holds the addresses the service sends from and to
type Identity struct {
	From      string
	FromName  string
	Owner     string // receives notification mails
	Signature string // closes the confirmation mail
}

// ContactEmailData holds the data for contact form emails
type ContactEmailData struct {
	SenderName  string
	SenderEmail string
	Message     string
}

// EmailService renders the contact mails and hands them to a Transport.
// It is immutable after construction.
type EmailService struct {
	transport    Transport
	identity     Identity
	notification *template.Template
	confirmation *template.Template
}

// NewEmailService creates a new email service sending through transport
func NewEmailService(transport Transport, identity Identity) *EmailService {
	return &EmailService{
		transport:    transport,
		identity:     identity,
		notification: template.Must(template.New("notification").Parse(notificationTemplate)),
		confirmation: template.Must(template.New("confirmation").Parse(confirmationTemplate)),
	}
}

// SendNotification tells the site owner about a new submission
func (s *EmailService) SendNotification(ctx context.Context, data ContactEmailData) error {
	if !s.IsConfigured() {
		return ErrNotConfigured
	}

	body, err := render(s.notification, notificationView{
		SenderName:   data.SenderName,
		SenderEmail:  data.SenderEmail,
		MessageLines: splitLines(data.Message),
	})
	if err != nil {
		return err
	}

	return s.send(ctx, Message{
		To:      s.identity.Owner,
		ReplyTo: replyAddress(data.SenderEmail),
		Subject: NotificationSubjectPrefix + data.SenderName,
		HTML:    body,
	})
}

// SendConfirmation acknowledges the submission to the submitter's address
func (s *EmailService) SendConfirmation(ctx context.Context, data ContactEmailData) error {
	if !s.IsConfigured() {
		return ErrNotConfigured
	}

	body, err := render(s.confirmation, confirmationView{
		SenderName: data.SenderName,
		Signature:  s.identity.Signature,
	})
	if err != nil {
		return err
	}

	return s.send(ctx, Message{
		To:      data.SenderEmail,
		Subject: ConfirmationSubject,
		HTML:    body,
	})
}

// IsConfigured checks that a transport and both addresses are present
func (s *EmailService) IsConfigured() bool {
	if s.transport == nil || s.identity.From == "" || s.identity.Owner == "" {
		return false
	}
	if c, ok := s.transport.(interface{ IsConfigured() bool }); ok {
		return c.IsConfigured()
	}
	return true
}

func (s *EmailService) send(ctx context.Context, msg Message) error {
	msg.From = s.identity.From
	msg.FromName = s.identity.FromName
	if err := s.transport.Send(ctx, msg); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", msg.To, err)
	}
	return nil
}

func render(tmpl *template.Template, data any) (string, error) {
	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return "", fmt.Errorf("failed to execute %s template: %w", tmpl.Name(), err)
	}
	return body.String(), nil
}

func splitLines(s string) []string {
	return strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
}

// replyAddress returns addr when it parses as a mail address and "" otherwise.
// Submitted addresses are not validated, so a bad one must not block the
// owner notification.
func replyAddress(addr string) string {
	if _, err := mail.ParseAddress(addr); err != nil {
		return ""
	}
	return addr
}
