package user

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/unibuy/unibuy-api/internal/domain"
	"github.com/unibuy/unibuy-api/internal/infrastructure/mail"
	"github.com/unibuy/unibuy-api/internal/pkg/id"
	"github.com/unibuy/unibuy-api/internal/pkg/otp"
	"github.com/unibuy/unibuy-api/internal/pkg/validate"
	"golang.org/x/crypto/bcrypt"
)

// DynamoDB attribute names used in partial update maps.
const (
	fieldEmail      = "email"
	fieldFirstName  = "first_name"
	fieldLastName   = "last_name"
	fieldUniversity = "university"
	fieldIsVerified = "is_verified"
)

type Service interface {
	// Register creates an unverified account with a pending OTP and dispatches
	// the verification email. When dispatch fails the account still exists and
	// the returned error wraps domain.ErrDelivery; the caller decides how to
	// tell the user.
	Register(ctx context.Context, req domain.CreateUserRequest) (*domain.User, error)
	Get(ctx context.Context, userID string) (*domain.User, error)
	Update(ctx context.Context, userID string, req domain.UpdateUserRequest) (*domain.User, error)
	// Deactivate disables the account, kills its sessions and discards any
	// pending verification codes.
	Deactivate(ctx context.Context, userID string) error
}

type userStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Put(ctx context.Context, u *domain.User) error
	Get(ctx context.Context, userID string) (*domain.User, error)
	Update(ctx context.Context, userID string, updates map[string]interface{}) error
	SoftDelete(ctx context.Context, userID string) error
}

type verificationStore interface {
	Put(ctx context.Context, v *domain.UserVerification) error
	Delete(ctx context.Context, userID, purpose string) error
}

type sessionStore interface {
	SoftDeleteByUser(ctx context.Context, userID string) error
}

type service struct {
	repo             userStore
	verificationRepo verificationStore
	sessionRepo      sessionStore
	mailer           mail.Mailer
}

type ServiceDeps struct {
	UserRepo         userStore
	VerificationRepo verificationStore
	SessionRepo      sessionStore
	Mailer           mail.Mailer
}

func NewService(deps ServiceDeps) Service {
	return &service{
		repo:             deps.UserRepo,
		verificationRepo: deps.VerificationRepo,
		sessionRepo:      deps.SessionRepo,
		mailer:           deps.Mailer,
	}
}

func (s *service) Register(ctx context.Context, req domain.CreateUserRequest) (*domain.User, error) {
	if err := validate.Struct(&req); err != nil {
		return nil, err
	}
	if _, err := s.repo.GetByEmail(ctx, req.Email); err == nil {
		return nil, fmt.Errorf("email already registered: %w", domain.ErrConflict)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	u := &domain.User{
		UserID:       id.New(),
		Email:        req.Email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		University:   req.University,
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
		Enable:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Put(ctx, u); err != nil {
		return nil, err
	}
	if err := s.issueSignupOTP(ctx, u); err != nil {
		return u, err
	}
	return u, nil
}

func (s *service) Get(ctx context.Context, userID string) (*domain.User, error) {
	return s.repo.Get(ctx, userID)
}

func (s *service) Update(ctx context.Context, userID string, req domain.UpdateUserRequest) (*domain.User, error) {
	if err := validate.Struct(&req); err != nil {
		return nil, err
	}
	u, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	updates := map[string]interface{}{}
	if req.FirstName != nil {
		updates[fieldFirstName] = *req.FirstName
	}
	if req.LastName != nil {
		updates[fieldLastName] = *req.LastName
	}
	if req.University != nil {
		updates[fieldUniversity] = *req.University
	}
	emailChanged := req.Email != nil && *req.Email != u.Email
	if emailChanged {
		if _, err := s.repo.GetByEmail(ctx, *req.Email); err == nil {
			return nil, fmt.Errorf("email already registered: %w", domain.ErrConflict)
		}
		updates[fieldEmail] = *req.Email
		// A new address has to prove possession again.
		updates[fieldIsVerified] = false
	}
	if len(updates) == 0 {
		return u, nil
	}
	if err := s.repo.Update(ctx, userID, updates); err != nil {
		return nil, err
	}
	updated, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if emailChanged {
		if err := s.issueSignupOTP(ctx, updated); err != nil {
			return updated, err
		}
	}
	return updated, nil
}

func (s *service) Deactivate(ctx context.Context, userID string) error {
	if err := s.repo.SoftDelete(ctx, userID); err != nil {
		return err
	}
	if err := s.sessionRepo.SoftDeleteByUser(ctx, userID); err != nil {
		// The account is already disabled, so stale sessions can't be used.
		slog.Warn("could not disable sessions for deactivated user", "user_id", userID, "err", err)
	}
	for _, purpose := range []string{domain.OTPPurposeSignup, domain.OTPPurposePasswordReset} {
		if err := s.verificationRepo.Delete(ctx, userID, purpose); err != nil {
			slog.Warn("could not delete pending code", "user_id", userID, "purpose", purpose, "err", err)
		}
	}
	return nil
}

// issueSignupOTP overwrites any pending signup code and dispatches it.
func (s *service) issueSignupOTP(ctx context.Context, u *domain.User) error {
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
