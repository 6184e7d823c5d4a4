package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/unibuy/unibuy-api/internal/domain"
	"github.com/unibuy/unibuy-api/internal/infrastructure/mail"
	"github.com/unibuy/unibuy-api/internal/pkg/otp"
	"golang.org/x/crypto/bcrypt"
)

type VerifyOTPRequest struct {
	Email   string `json:"email" validate:"required,email,school_email"`
	OTPCode string `json:"otp_code" validate:"required"`
}

type ResendOTPRequest struct {
	Email string `json:"email" validate:"required,email,school_email"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email,school_email"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email" validate:"required,email,school_email"`
	OTPCode     string `json:"otp_code" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,password_strength"`
}

type Service interface {
	// VerifyOTP consumes a pending signup code and marks the account verified.
	VerifyOTP(ctx context.Context, email, code string) error
	// ResendOTP issues a fresh signup code, invalidating the previous one.
	ResendOTP(ctx context.Context, email string) error
	// ForgotPassword issues a reset code. An unknown email succeeds silently
	// so the endpoint cannot be used to enumerate accounts.
	ForgotPassword(ctx context.Context, email string) error
	// ResetPassword consumes a pending reset code, replaces the password hash
	// and kills existing sessions.
	ResetPassword(ctx context.Context, email, code, newPassword string) error
}

type userStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, userID string, updates map[string]interface{}) error
}

type verificationStore interface {
	Put(ctx context.Context, v *domain.UserVerification) error
	Get(ctx context.Context, userID, purpose string) (*domain.UserVerification, error)
	Consume(ctx context.Context, userID, purpose, expectedCode string) error
}

type sessionStore interface {
	SoftDeleteByUser(ctx context.Context, userID string) error
}

type cooldownStore interface {
	Allow(ctx context.Context, email, purpose string) (bool, error)
}

type service struct {
	userRepo         userStore
	verificationRepo verificationStore
	sessionRepo      sessionStore
	cooldown         cooldownStore
	mailer           mail.Mailer
}

type ServiceDeps struct {
	UserRepo         userStore
	VerificationRepo verificationStore
	SessionRepo      sessionStore
	Cooldown         cooldownStore
	Mailer           mail.Mailer
}

func NewService(deps ServiceDeps) Service {
	return &service{
		userRepo:         deps.UserRepo,
		verificationRepo: deps.VerificationRepo,
		sessionRepo:      deps.SessionRepo,
		cooldown:         deps.Cooldown,
		mailer:           deps.Mailer,
	}
}

func (s *service) VerifyOTP(ctx context.Context, email, code string) error {
	u, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}
	if err := s.consumeOTP(ctx, u.UserID, domain.OTPPurposeSignup, code); err != nil {
		return err
	}
	return s.userRepo.Update(ctx, u.UserID, map[string]interface{}{"is_verified": true})
}

func (s *service) ResendOTP(ctx context.Context, email string) error {
	u, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}
	if u.IsVerified {
		return fmt.Errorf("account already verified: %w", domain.ErrConflict)
	}
	if err := s.checkCooldown(ctx, email, domain.OTPPurposeSignup); err != nil {
		return err
	}
	code, err := otp.Generate(otp.DefaultLength)
	if err != nil {
		return err
	}
	v := &domain.UserVerification{
		UserID:    u.UserID,
		Purpose:   domain.OTPPurposeSignup,
		Code:      code,
		ExpiresAt: otp.ExpiresAt(otp.DefaultTTL),
	}
	if err := s.verificationRepo.Put(ctx, v); err != nil {
		return err
	}
	return s.mailer.SendOTPEmail(ctx, u.Email, code)
}

func (s *service) ForgotPassword(ctx context.Context, email string) error {
	u, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		// Respond exactly as if the email existed.
		slog.Info("password reset requested for unknown email")
		return nil
	}
	if err := s.checkCooldown(ctx, email, domain.OTPPurposePasswordReset); err != nil {
		return err
	}
	code, err := otp.Generate(otp.DefaultLength)
	if err != nil {
		return err
	}
	v := &domain.UserVerification{
		UserID:    u.UserID,
		Purpose:   domain.OTPPurposePasswordReset,
		Code:      code,
		ExpiresAt: otp.ExpiresAt(otp.DefaultTTL),
	}
	if err := s.verificationRepo.Put(ctx, v); err != nil {
		return err
	}
	return s.mailer.SendPasswordResetEmail(ctx, u.Email, code)
}

func (s *service) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	u, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}
	if err := s.consumeOTP(ctx, u.UserID, domain.OTPPurposePasswordReset, code); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.userRepo.Update(ctx, u.UserID, map[string]interface{}{"password_hash": string(hash)}); err != nil {
		return err
	}
	if err := s.sessionRepo.SoftDeleteByUser(ctx, u.UserID); err != nil {
		slog.Warn("could not disable sessions after password reset", "user_id", u.UserID, "err", err)
	}
	return nil
}

// consumeOTP checks expiry and code equality, then deletes the record with a
// conditional check on the expected code so a concurrently issued resend
// cannot be verified with a stale code.
func (s *service) consumeOTP(ctx context.Context, userID, purpose, code string) error {
	v, err := s.verificationRepo.Get(ctx, userID, purpose)
	if err != nil {
		return fmt.Errorf("no code pending: %w", domain.ErrOTPInvalid)
	}
	if time.Now().Unix() >= v.ExpiresAt {
		return fmt.Errorf("code expired: %w", domain.ErrOTPExpired)
	}
	if v.Code != code {
		return fmt.Errorf("code mismatch: %w", domain.ErrOTPInvalid)
	}
	return s.verificationRepo.Consume(ctx, userID, purpose, code)
}

func (s *service) checkCooldown(ctx context.Context, email, purpose string) error {
	if s.cooldown == nil {
		return nil
	}
	ok, err := s.cooldown.Allow(ctx, email, purpose)
	if err != nil {
		slog.Warn("cooldown store unavailable, allowing send", "err", err)
		return nil
	}
	if !ok {
		return fmt.Errorf("wait before requesting another code: %w", domain.ErrCooldown)
	}
	return nil
}
