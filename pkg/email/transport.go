package email

import (
	"fmt"

	"portfolio-backend/config"
)

// NewTransport builds the transport selected by MAIL_PROVIDER
func NewTransport(cfg *config.Config) (Transport, error) {
	switch cfg.MailProvider {
	case config.MailProviderSMTP, "":
		return NewSMTPTransport(cfg.SMTPHost, cfg.SMTPPort, cfg.EmailUser, cfg.EmailPassword), nil
	case config.MailProviderSendGrid:
		return NewSendGridTransport(cfg.SendGridAPIKey), nil
	default:
		return nil, fmt.Errorf("unknown mail provider %q", cfg.MailProvider)
	}
}

// NewEmailServiceFromConfig wires the configured transport and identity
func NewEmailServiceFromConfig(cfg *config.Config) (*EmailService, error) {
	transport, err := NewTransport(cfg)
	if err != nil {
		return nil, err
	}
	return NewEmailService(transport, Identity{
		From:      cfg.EmailFrom,
		FromName:  cfg.EmailFromName,
		Owner:     cfg.ContactEmailTo,
		Signature: cfg.ContactSignature,
	}), nil
}
