package mail

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/unibuy/unibuy-api/internal/config"
	"github.com/unibuy/unibuy-api/internal/domain"
)

// Dispatcher tries the primary provider first and falls back to the SMTP
// relay. Either path failing (or neither being configured) surfaces as
// domain.ErrDelivery so orchestrators can tell the user delivery failed
// instead of claiming "code sent".
type Dispatcher struct {
	primary Sender
	relay   Sender
	timeout time.Duration
}

// NewDispatcher wires the delivery chain from configuration. Unconfigured
// paths stay nil and are skipped at send time.
func NewDispatcher(cfg *config.Config) *Dispatcher {
	d := &Dispatcher{timeout: cfg.MailTimeout}
	if cfg.SendGridAPIKey != "" {
		d.primary = NewSendGridSender(cfg.SendGridAPIKey, cfg.EmailsFrom, cfg.EmailsFromName)
	}
	if cfg.SMTPHost != "" {
		d.relay = NewRelaySender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.EmailsFrom, cfg.EmailsFromName)
	}
	return d
}

// NewDispatcherWith builds a Dispatcher from explicit senders; used in tests.
func NewDispatcherWith(primary, relay Sender, timeout time.Duration) *Dispatcher {
	return &Dispatcher{primary: primary, relay: relay, timeout: timeout}
}

func (d *Dispatcher) send(ctx context.Context, msg Message) error {
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	if d.primary != nil {
		err := d.primary.Send(ctx, msg)
		if err == nil {
			return nil
		}
		slog.Warn("primary email provider failed, falling back to relay", "to", msg.To, "err", err)
	}

	if d.relay == nil {
		return fmt.Errorf("no email provider configured: %w", domain.ErrDelivery)
	}
	if err := d.relay.Send(ctx, msg); err != nil {
		return fmt.Errorf("%v: %w", err, domain.ErrDelivery)
	}
	return nil
}

// SendOTPEmail delivers a signup verification code.
func (d *Dispatcher) SendOTPEmail(ctx context.Context, to, code string) error {
	return d.send(ctx, Message{
		To:      to,
		Subject: "Verification Code for Unibuy",
		HTMLBody: fmt.Sprintf(`<html><body>
<h2>Welcome to Unibuy!</h2>
<p>Your verification code is: <strong>%s</strong></p>
<p>This code will expire in 5 minutes.</p>
<p>If you did not sign up for Unibuy, please ignore this email.</p>
</body></html>`, code),
	})
}

// SendPasswordResetEmail delivers a password reset code.
func (d *Dispatcher) SendPasswordResetEmail(ctx context.Context, to, code string) error {
	return d.send(ctx, Message{
		To:      to,
		Subject: "Password Reset Code for Unibuy",
		HTMLBody: fmt.Sprintf(`<html><body>
<h2>Password Reset Request</h2>
<p>Your password reset code is: <strong>%s</strong></p>
<p>This code will expire in 5 minutes.</p>
<p>If you did not request a password reset, please ignore this email.</p>
</body></html>`, code),
	})
}
