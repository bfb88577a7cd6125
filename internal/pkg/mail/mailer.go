// Package mail sends transactional email over SMTP.
package mail

import (
	"strconv"
	"time"

	"gopkg.in/gomail.v2"

	"github.com/planhaus/planhaus/internal/pkg/env"
)

// Message is one outbound email. AttachmentPath is optional and points
// at a file on local disk.
type Message struct {
	To             string
	Subject        string
	HTMLBody       string
	PlainBody      string
	AttachmentPath string
}

// Mailer delivers messages. Split out as an interface so the notify
// service can be tested without an SMTP server.
type Mailer interface {
	Send(msg Message) error
	From() string
}

// SMTPMailer sends mail through a configured SMTP relay.
type SMTPMailer struct {
	dialer   *gomail.Dialer
	from     string
	fromName string
}

// NewSMTPMailer builds the mailer from environment configuration.
func NewSMTPMailer() *SMTPMailer {
	host := env.GetEnv("SMTP_HOST", "localhost")
	port, err := strconv.Atoi(env.GetEnv("SMTP_PORT", "587"))
	if err != nil {
		port = 587
	}
	username := env.GetEnv("SMTP_USERNAME", "")
	password := env.GetEnv("SMTP_PASSWORD", "")

	dialer := gomail.NewDialer(host, port, username, password)

	return &SMTPMailer{
		dialer:   dialer,
		from:     env.GetEnv("SMTP_SENDER", "no-reply@localhost"),
		fromName: env.GetEnv("SMTP_SENDER_NAME", "PlanHaus"),
	}
}

func (m *SMTPMailer) From() string {
	return m.from
}

func (m *SMTPMailer) Send(msg Message) error {
	gm := gomail.NewMessage()
	gm.SetAddressHeader("From", m.from, m.fromName)
	gm.SetHeader("To", msg.To)
	gm.SetHeader("Subject", msg.Subject)
	if msg.PlainBody != "" {
		gm.SetBody("text/plain", msg.PlainBody)
		if msg.HTMLBody != "" {
			gm.AddAlternative("text/html", msg.HTMLBody)
		}
	} else {
		gm.SetBody("text/html", msg.HTMLBody)
	}
	if msg.AttachmentPath != "" {
		gm.Attach(msg.AttachmentPath)
	}

	done := make(chan error, 1)
	go func() {
		done <- m.dialer.DialAndSend(gm)
	}()
	select {
	case err := <-done:
		return err
	case <-time.After(10 * time.Second):
		return ErrSendTimeout
	}
}

// ErrSendTimeout reports that the SMTP relay did not answer in time.
var ErrSendTimeout = timeoutError{}

type timeoutError struct{}

func (timeoutError) Error() string { return "smtp send timed out after 10s" }
