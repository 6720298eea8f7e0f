package email

import (
	"context"
	"fmt"
	"mime"
	"net"
	"net/mail"
	"net/smtp"
	"strings"
	"time"
)

type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPTransport sends mail through an SMTP relay with PLAIN auth.
// smtp.SendMail upgrades to STARTTLS whenever the server offers it.
type SMTPTransport struct {
	host     string
	port     string
	username string
	password string
	sendMail sendMailFunc
	now      func() time.Time
}

// NewSMTPTransport creates a transport for host:port authenticating as username
func NewSMTPTransport(host, port, username, password string) *SMTPTransport {
	return &SMTPTransport{
		host:     host,
		port:     port,
		username: username,
		password: password,
		sendMail: smtp.SendMail,
		now:      time.Now,
	}
}

// IsConfigured checks if the transport has valid SMTP configuration
func (t *SMTPTransport) IsConfigured() bool {
	return t.host != "" && t.username != "" && t.password != ""
}

// Send delivers msg. net/smtp has no context support, so ctx is only
// checked before dialing.
func (t *SMTPTransport) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	from, err := mail.ParseAddress(msg.From)
	if err != nil {
		return fmt.Errorf("invalid sender address: %w", err)
	}
	from.Name = msg.FromName

	to, err := mail.ParseAddress(msg.To)
	if err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}

	// A malformed Reply-To is dropped; the message itself still goes out
	var replyTo *mail.Address
	if msg.ReplyTo != "" {
		if parsed, perr := mail.ParseAddress(msg.ReplyTo); perr == nil {
			replyTo = parsed
		}
	}

	raw := buildMIME(from, to, replyTo, msg.Subject, msg.HTML, t.now())

	auth := smtp.PlainAuth("", t.username, t.password, t.host)
	addr := net.JoinHostPort(t.host, t.port)
	if err := t.sendMail(addr, auth, from.Address, []string{to.Address}, raw); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

func buildMIME(from, to, replyTo *mail.Address, subject, html string, date time.Time) []byte {
	var b strings.Builder
	b.WriteString("From: " + from.String() + "\r\n")
	b.WriteString("To: " + to.String() + "\r\n")
	if replyTo != nil {
		b.WriteString("Reply-To: " + replyTo.String() + "\r\n")
	}
	// Q-encoding also neutralises CR/LF smuggled in through the subject
	b.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", subject) + "\r\n")
	b.WriteString("Date: " + date.Format(time.RFC1123Z) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(html)
	return []byte(b.String())
}
