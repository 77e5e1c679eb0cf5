package notify

import (
	"context"

	"gopkg.in/gomail.v2"

	"github.com/BruksfildServices01/carelink/internal/config"
)

type mailDialer interface {
	DialAndSend(m ...*gomail.Message) error
}

type EmailSender struct {
	from   string
	dialer mailDialer
}

func NewEmailSender(cfg config.SMTPConfig) *EmailSender {
	return &EmailSender{
		from:   cfg.From,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
	}
}

func (s *EmailSender) Channel() string {
	return "email"
}

func (s *EmailSender) Send(ctx context.Context, n Notification) error {
	if n.Email == "" {
		return ErrNoRecipient
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetAddressHeader("To", n.Email, n.Name)
	m.SetHeader("Subject", n.Subject)
	m.SetBody("text/plain", n.Body)

	return s.dialer.DialAndSend(m)
}
