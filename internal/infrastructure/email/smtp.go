package email

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/pocketledger/alerts/internal/config"
)

// SMTP sends mail through a plain SMTP relay. Useful with a local catch-all
// like Mailpit in development.
type SMTP struct {
	host     string
	port     string
	from     string
	fromName string
	username string
	password string
}

func NewSMTP(cfg config.EmailConfig) *SMTP {
	return &SMTP{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		from:     cfg.From,
		fromName: cfg.FromName,
		username: cfg.SMTPUser,
		password: cfg.SMTPPass,
	}
}

func (m *SMTP) Send(_ context.Context, to, subject, htmlBody, textBody string) error {
	const boundary = "np-alternative-boundary"

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s <%s>\r\n", m.fromName, m.from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Content-Type: multipart/alternative; boundary=%q\r\n\r\n", boundary)
	fmt.Fprintf(&b, "--%s\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s\r\n", boundary, textBody)
	fmt.Fprintf(&b, "--%s\r\nContent-Type: text/html; charset=utf-8\r\n\r\n%s\r\n", boundary, htmlBody)
	fmt.Fprintf(&b, "--%s--\r\n", boundary)

	addr := fmt.Sprintf("%s:%s", m.host, m.port)

	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}

	return smtp.SendMail(addr, auth, m.from, []string{to}, []byte(b.String()))
}
