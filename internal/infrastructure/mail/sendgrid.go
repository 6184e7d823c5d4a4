package mail

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendGridSender delivers mail through the SendGrid v3 API.
type SendGridSender struct {
	client   *sendgrid.Client
	from     string
	fromName string
}

func NewSendGridSender(apiKey, from, fromName string) *SendGridSender {
	return &SendGridSender{
		client:   sendgrid.NewSendClient(apiKey),
		from:     from,
		fromName: fromName,
	}
}

func (s *SendGridSender) Send(ctx context.Context, msg Message) error {
	m := sgmail.NewSingleEmail(
		sgmail.NewEmail(s.fromName, s.from),
		msg.Subject,
		sgmail.NewEmail("", msg.To),
		"",
		msg.HTMLBody,
	)
	resp, err := s.client.SendWithContext(ctx, m)
	if err != nil {
		return fmt.Errorf("sendgrid: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid: status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}
