package mailer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/showroomlab/showroom-token-service/internal/config"
	"github.com/showroomlab/showroom-token-service/internal/domain"
	"github.com/wneessen/go-mail"
)

// SMTPMailer sends token notifications over a single reusable SMTP client.
type SMTPMailer struct {
	client *mail.Client
	from   string
}

func NewSMTPMailer(cfg config.SMTP) (*SMTPMailer, error) {
	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.Username),
		mail.WithPassword(cfg.Password),
		mail.WithTimeout(15 * time.Second),
	}
	if cfg.Secure {
		opts = append(opts, mail.WithSSL())
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSOpportunistic))
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating smtp client: %w", err)
	}
	return &SMTPMailer{client: client, from: cfg.From}, nil
}

// SendTokens sends one message listing every token the order currently owns,
// so a re-delivery or manual resend restores all access codes at once.
func (m *SMTPMailer) SendTokens(ctx context.Context, recipient string, tokens []string) error {
	if recipient == "" || len(tokens) == 0 {
		return &domain.MailError{Err: errors.New("empty recipient or token set")}
	}

	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return &domain.MailError{Err: err}
	}
	if err := msg.To(recipient); err != nil {
		return &domain.MailError{Err: err}
	}
	msg.Subject(subjectLine(len(tokens)))

	var body bytes.Buffer
	if err := tokenMailTemplate.Execute(&body, tokenMailData{Tokens: tokens}); err != nil {
		return &domain.MailError{Err: err}
	}
	msg.SetBodyString(mail.TypeTextPlain, body.String())

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return &domain.MailError{Err: err}
	}
	return nil
}

func subjectLine(count int) string {
	if count == 1 {
		return "Your showroom access code"
	}
	return fmt.Sprintf("Your %d showroom access codes", count)
}
