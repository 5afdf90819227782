package mail

import (
	"couponkeeper/internal/pkg/config"
	"couponkeeper/internal/pkg/errs"

	"gopkg.in/gomail.v2"
)

// Mailer sends HTML email. Callers in the core treat sends as best-effort:
// a returned error is logged, never propagated into the primary operation.
type Mailer interface {
	Send(to []string, subject, htmlBody string) error
}

type SMTPMailer struct {
	cfg config.SMTPConfig
}

func NewSMTPMailer(cfg config.SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

func (m *SMTPMailer) Send(to []string, subject, htmlBody string) error {
	if len(to) == 0 {
		return nil
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", to...)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.Username, m.cfg.Password)
	if err := d.DialAndSend(msg); err != nil {
		return errs.Wrap(err, "failed to send email")
	}
	return nil
}
