package services

import (
	"fmt"
	"time"

	"github.com/wneessen/go-mail"
)

// SMTPConfig describes one SMTP transport: either the shared platform
// account or a tenant's own server.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
}

// EmailMessage is a single outgoing HTML email.
type EmailMessage struct {
	From    string
	To      []string
	Cc      []string
	Subject string
	HTML    string
}

// Mailer sends an email over the given transport. Implementations must be
// safe for concurrent use; sends run on detached goroutines.
type Mailer interface {
	Send(cfg SMTPConfig, msg *EmailMessage) error
}

// smtpTimeout bounds connection, greeting and send so an unreachable tenant
// mail server cannot hang the background task indefinitely.
const smtpTimeout = 30 * time.Second

// SMTPMailer is the production Mailer backed by go-mail.
type SMTPMailer struct{}

// NewSMTPMailer returns a ready-to-use SMTP mailer.
func NewSMTPMailer() *SMTPMailer {
	return &SMTPMailer{}
}

// Send delivers the message through the configured SMTP server. Port 465
// means implicit TLS; every other port connects plain and upgrades with
// STARTTLS when the server offers it.
func (m *SMTPMailer) Send(cfg SMTPConfig, msg *EmailMessage) error {
	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTimeout(smtpTimeout),
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}
	if cfg.Port == 465 {
		opts = append(opts, mail.WithSSL())
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSOpportunistic))
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}

	message := mail.NewMsg()
	if err := message.From(msg.From); err != nil {
		return fmt.Errorf("invalid from address %q: %w", msg.From, err)
	}
	if err := message.To(msg.To...); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	if len(msg.Cc) > 0 {
		if err := message.Cc(msg.Cc...); err != nil {
			return fmt.Errorf("invalid cc address: %w", err)
		}
	}
	message.Subject(msg.Subject)
	message.SetBodyString(mail.TypeTextHTML, msg.HTML)

	if err := client.DialAndSend(message); err != nil {
		return fmt.Errorf("failed to send email via %s:%d: %w", cfg.Host, cfg.Port, err)
	}
	return nil
}
