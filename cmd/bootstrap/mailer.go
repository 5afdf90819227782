package bootstrap

import (
	"couponkeeper/internal/pkg/config"
	"couponkeeper/internal/pkg/mail"

	"go.uber.org/fx"
)

var MailerModule = fx.Module("mailer",
	fx.Provide(
		fx.Annotate(
			NewMailer,
			fx.As(new(mail.Mailer)),
		),
	),
)

func NewMailer(cfg config.Config) *mail.SMTPMailer {
	return mail.NewSMTPMailer(cfg.SMTP)
}
