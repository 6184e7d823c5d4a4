package mail

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"
)

// smtpsPort uses an implicit-TLS channel; submissionPort upgrades via STARTTLS.
// Any other port speaks whatever the relay expects (gomail negotiates STARTTLS
// opportunistically and falls back to plain).
const (
	smtpsPort      = 465
	submissionPort = 587
)

// RelaySender delivers mail through a configured SMTP relay.
type RelaySender struct {
	dialer   *gomail.Dialer
	from     string
	fromName string
}

// NewRelaySender builds the relay path. Authentication is attempted only when
// both username and password are configured; otherwise the channel is used
// unauthenticated.
func NewRelaySender(host string, port int, username, password, from, fromName string) *RelaySender {
	var d *gomail.Dialer
	if username != "" && password != "" {
		d = gomail.NewDialer(host, port, username, password)
	} else {
		d = &gomail.Dialer{Host: host, Port: port}
	}
	d.SSL = port == smtpsPort
	return &RelaySender{dialer: d, from: from, fromName: fromName}
}

func (s *RelaySender) Send(ctx context.Context, msg Message) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.from, s.fromName)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", msg.HTMLBody)

	done := make(chan error, 1)
	go func() { done <- s.dialer.DialAndSend(m) }()

	select {
	case <-ctx.Done():
		return fmt.Errorf("smtp relay: %w", ctx.Err())
	case err := <-done:
		if err != nil {
			return fmt.Errorf("smtp relay: %w", err)
		}
		return nil
	}
}
