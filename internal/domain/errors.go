package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking
// infrastructure details.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrBadRequest   = errors.New("bad request")

	// ErrValidation marks field-level input failures. The concrete fields are
	// carried by validate.FieldErrors; this sentinel only drives status mapping.
	ErrValidation = errors.New("validation failed")

	// OTP verification outcomes. Expired and invalid are distinct so the client
	// knows whether to request a new code or retype the current one.
	ErrOTPExpired = errors.New("otp expired")
	ErrOTPInvalid = errors.New("otp invalid")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotVerified        = errors.New("account not verified")

	// ErrDelivery reports that an email could not be handed to any provider.
	// Dispatch failures are surfaced, never logged-and-swallowed.
	ErrDelivery = errors.New("delivery failed")

	// ErrCooldown reports that an OTP was requested again too soon.
	ErrCooldown = errors.New("resend cooldown active")
)
