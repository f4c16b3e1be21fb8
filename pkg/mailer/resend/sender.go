// Package resend implements mailer.Sender over the Resend API.
package resend

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v3"

	"github.com/noreplysender/noreplysender/pkg/mailer"
)

// Sender delivers mail through Resend.
type Sender struct {
	client *resend.Client
	config Config
}

// New creates a Resend sender.
func New(cfg Config) *Sender {
	return &Sender{
		client: resend.NewClient(cfg.APIKey),
		config: cfg,
	}
}

// Send implements mailer.Sender.
func (s *Sender) Send(ctx context.Context, email *mailer.Email) error {
	if len(email.To) == 0 {
		return mailer.ErrNoRecipient
	}

	from := email.From
	if from == "" {
		from = mailer.Address(s.config.SenderName, s.config.SenderEmail)
	}

	req := &resend.SendEmailRequest{
		From:    from,
		To:      email.To,
		Subject: email.Subject,
		Html:    email.HTML,
		Text:    email.Text,
		ReplyTo: email.ReplyTo,
		Headers: email.Headers,
		Tags:    apiTags(email.Tags),
	}

	if _, err := s.client.Emails.SendWithContext(ctx, req); err != nil {
		return fmt.Errorf("resend: send: %w", err)
	}
	return nil
}

// apiTags converts Tags to Resend's name/value list. Presence-only tags
// carry the value "true".
func apiTags(tags mailer.Tags) []resend.Tag {
	if len(tags) == 0 {
		return nil
	}
	out := make([]resend.Tag, 0, len(tags))
	for name, v := range tags {
		value := "true"
		switch val := v.(type) {
		case nil, struct{}:
		case string:
			value = val
		case fmt.Stringer:
			value = val.String()
		default:
			value = fmt.Sprint(val)
		}
		out = append(out, resend.Tag{Name: name, Value: value})
	}
	return out
}
