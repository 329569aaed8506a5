package notify

import (
	"errors"
	"fmt"
	"net/smtp"

	"github.com/mocketh/walletd/pkg/utils"
)

// Mailer delivers one email. Implementations must be safe for concurrent use.
type Mailer interface {
	Send(to, subject, htmlBody string) error
}

var errNotConfigured = errors.New("smtp credentials not configured")

// SMTPMailer sends mail through a STARTTLS SMTP relay with PLAIN auth.
type SMTPMailer struct {
	host     string
	port     string
	from     string
	password string
}

// NewSMTPMailer reads SMTP_HOST, SMTP_PORT, SMTP_EMAIL and SMTP_PASSWORD.
func NewSMTPMailer() *SMTPMailer {
	return &SMTPMailer{
		host:     utils.Env("SMTP_HOST", "smtp.gmail.com"),
		port:     utils.Env("SMTP_PORT", "587"),
		from:     utils.Env("SMTP_EMAIL", ""),
		password: utils.Env("SMTP_PASSWORD", ""),
	}
}

func (m *SMTPMailer) Send(to, subject, htmlBody string) error {
	if m.from == "" || m.password == "" {
		return errNotConfigured
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s",
		m.from, to, subject, htmlBody)

	auth := smtp.PlainAuth("", m.from, m.password, m.host)
	return smtp.SendMail(m.host+":"+m.port, auth, m.from, []string{to}, []byte(msg))
}
