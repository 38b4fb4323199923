// Package mailer delivers admin replies to the people who wrote in.
package mailer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/wneessen/go-mail"

	"github.com/spec-kit/green-campus/internal/config"
)

// ErrDisabled is returned when outbound mail is switched off.
var ErrDisabled = errors.New("mail delivery disabled")

// ReplyNotification describes one reply email.
type ReplyNotification struct {
	ToEmail   string
	ToName    string
	Subject   string
	ReplyText string
}

// Mailer sends reply notifications.
type Mailer interface {
	SendReply(ctx context.Context, n ReplyNotification) error
}

// SMTPMailer sends mail through an authenticated STARTTLS relay.
type SMTPMailer struct {
	cfg     config.MailConfig
	timeout time.Duration
}

// New returns an SMTP mailer, or a mailer that always fails with ErrDisabled.
func New(cfg config.MailConfig) Mailer {
	if !cfg.Enabled || strings.TrimSpace(cfg.Host) == "" {
		return disabledMailer{}
	}
	return &SMTPMailer{cfg: cfg, timeout: 15 * time.Second}
}

// SendReply delivers the reply synchronously. Nothing is queued or retried.
func (s *SMTPMailer) SendReply(ctx context.Context, n ReplyNotification) error {
	msg := mail.NewMsg()
	if err := msg.From(s.cfg.From); err != nil {
		return fmt.Errorf("set sender: %w", err)
	}
	if err := msg.To(n.ToEmail); err != nil {
		return fmt.Errorf("set recipient: %w", err)
	}
	msg.Subject(ReplySubject(n.Subject))
	msg.SetBodyString(mail.TypeTextPlain, ReplyBody(n))

	client, err := mail.NewClient(s.cfg.Host,
		mail.WithPort(s.cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(s.cfg.Username),
		mail.WithPassword(s.cfg.Password),
		mail.WithTLSPolicy(mail.TLSMandatory),
		mail.WithTimeout(s.timeout),
	)
	if err != nil {
		return fmt.Errorf("create smtp client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send reply email: %w", err)
	}
	return nil
}

// ReplySubject prefixes the original subject.
func ReplySubject(subject string) string {
	return "Re: " + subject
}

// ReplyBody renders the plain-text email sent with an admin reply.
func ReplyBody(n ReplyNotification) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s,\n\n", n.ToName)
	b.WriteString("Thank you for reaching out to Green Campus Dashboard.\n\n")
	b.WriteString("Here is the admin's reply to your inquiry:\n\n")
	b.WriteString(n.ReplyText)
	b.WriteString("\n\nIf you have any further questions, feel free to contact us again.\n\n")
	b.WriteString("Best regards,\nGreen Campus Team\n")
	return b.String()
}

type disabledMailer struct{}

func (disabledMailer) SendReply(context.Context, ReplyNotification) error {
	return ErrDisabled
}
