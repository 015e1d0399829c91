package infra

import (
	"bytes"
	"errors"
	"fmt"
	"net/smtp"

	"reistoq/internal/config"

	"github.com/jordan-wright/email"
)

// ErrMailerNaoConfigurado is returned when SMTP_HOST is empty.
var ErrMailerNaoConfigurado = errors.New("mailer: SMTP not configured")

// Mailer wraps the SMTP settings used for low-stock alerts.
type Mailer struct {
	host     string
	user     string
	password string
	addr     string
	send     func(e *email.Email, addr string, auth smtp.Auth) error
}

func NewMailer(cfg *config.Config) *Mailer {
	return &Mailer{
		host:     cfg.SMTPHost,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		addr:     fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
		send: func(e *email.Email, addr string, auth smtp.Auth) error {
			return e.Send(addr, auth)
		},
	}
}

// Anexo is an in-memory attachment.
type Anexo struct {
	Nome        string
	ContentType string
	Conteudo    []byte
}

// EnviarAlerta sends a plain-text message with optional attachments.
func (m *Mailer) EnviarAlerta(to []string, subject, body string, anexos ...Anexo) error {
	if m == nil || m.host == "" {
		return ErrMailerNaoConfigurado
	}
	if len(to) == 0 {
		return errors.New("mailer: no recipients")
	}

	e := email.NewEmail()
	e.From = m.user
	e.To = to
	e.Subject = subject
	e.Text = []byte(body)

	for _, a := range anexos {
		if _, err := e.Attach(bytes.NewReader(a.Conteudo), a.Nome, a.ContentType); err != nil {
			return fmt.Errorf("mailer: attach %s: %w", a.Nome, err)
		}
	}

	var auth smtp.Auth
	if m.user != "" {
		auth = smtp.PlainAuth("", m.user, m.password, m.host)
	}
	return m.send(e, m.addr, auth)
}
