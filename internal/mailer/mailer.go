// Package mailer delivers signup confirmation codes. Delivery is
// fire-and-forget: callers send on a goroutine and only log failures.
package mailer

import (
	"fmt"
	"log/slog"
	"net/smtp"

	"github.com/google/uuid"
)

type Mailer interface {
	SendConfirmationCode(email, username, code string) error
}

// SMTPMailer sends through a plain SMTP relay.
type SMTPMailer struct {
	addr string
	auth smtp.Auth
	from string
}

func NewSMTPMailer(host string, port int, user, pass, from string) *SMTPMailer {
	var auth smtp.Auth
	if user != "" {
		auth = smtp.PlainAuth("", user, pass, host)
	}
	return &SMTPMailer{
		addr: fmt.Sprintf("%s:%d", host, port),
		auth: auth,
		from: from,
	}
}

func (m *SMTPMailer) SendConfirmationCode(email, username, code string) error {
	msg := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nMessage-ID: <%s@reviewhub>\r\nSubject: Email confirmation\r\n\r\n"+
			"Hello %s, your confirmation code is %s\r\n",
		m.from, email, uuid.New().String(), username, code,
	)
	if err := smtp.SendMail(m.addr, m.auth, m.from, []string{email}, []byte(msg)); err != nil {
		return fmt.Errorf("send mail to %s: %w", email, err)
	}
	return nil
}

// LogMailer writes codes to the log instead of sending mail. Development only.
type LogMailer struct {
	logger *slog.Logger
}

func NewLogMailer(logger *slog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) SendConfirmationCode(email, username, code string) error {
	m.logger.Info("confirmation code issued",
		"email", email,
		"username", username,
		"code", code,
	)
	return nil
}
