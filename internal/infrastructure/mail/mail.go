package mail

import "context"

// Message is a provider-agnostic email payload.
type Message struct {
	To       string
	Subject  string
	HTMLBody string
}

// Sender delivers a single message through one concrete provider.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Mailer is what application services depend on: templated OTP delivery with
// an explicit success/failure result.
type Mailer interface {
	SendOTPEmail(ctx context.Context, to, code string) error
	SendPasswordResetEmail(ctx context.Context, to, code string) error
}
