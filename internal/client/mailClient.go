package client

import (
	"context"
	"fmt"
	"storefront-checkout/internal/config"

	"github.com/sirupsen/logrus"
	"github.com/wneessen/go-mail"
)

// Mailer sends a single plain-text message.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

type smtpMailerImpl struct {
	client *mail.Client
	from   string
}

// NewMailer falls back to a logging mailer when no SMTP host is configured.
func NewMailer(cfg *config.Mail, log *logrus.Logger) (Mailer, error) {
	if cfg.Host == "" {
		log.Warn("MAIL_HOST is not set; emails will only be logged")
		return &logMailerImpl{log: log}, nil
	}

	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}

	c, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("create smtp client: %w", err)
	}

	return &smtpMailerImpl{client: c, from: cfg.From}, nil
}

func (m *smtpMailerImpl) Send(ctx context.Context, to, subject, body string) error {
	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return fmt.Errorf("set from: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("set to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}

type logMailerImpl struct {
	log *logrus.Logger
}

func (m *logMailerImpl) Send(_ context.Context, to, subject, body string) error {
	m.log.WithFields(logrus.Fields{
		"to":      to,
		"subject": subject,
	}).Info(body)
	return nil
}
