package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/unibuy/unibuy-api/internal/application/auth"
	"github.com/unibuy/unibuy-api/internal/application/session"
	"github.com/unibuy/unibuy-api/internal/application/user"
	"github.com/unibuy/unibuy-api/internal/domain"
	"github.com/unibuy/unibuy-api/internal/pkg/validate"
	"github.com/unibuy/unibuy-api/internal/transport/http/middleware"
)

// AuthHandler handles signup, OTP verification and password reset endpoints.
type AuthHandler struct {
	userSvc    user.Service
	authSvc    auth.Service
	sessionSvc session.Service
}

func NewAuthHandler(userSvc user.Service, authSvc auth.Service, sessionSvc session.Service) *AuthHandler {
	return &AuthHandler{userSvc: userSvc, authSvc: authSvc, sessionSvc: sessionSvc}
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	u, err := h.userSvc.Register(r.Context(), req)
	if err != nil {
		// The account exists but the verification email did not go out;
		// tell the user so they can request a new code instead of waiting.
		if u != nil && errors.Is(err, domain.ErrDelivery) {
			writeJSON(w, http.StatusBadGateway, MessageEnvelope{
				Error: "account created but the verification email could not be sent; request a new code",
			})
			return
		}
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, AuthEnvelope{
		User:    u,
		Message: "verification code sent to your email",
	})
}

func (h *AuthHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req auth.VerifyOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		httpError(w, err)
		return
	}
	if err := h.authSvc.VerifyOTP(r.Context(), req.Email, req.OTPCode); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "email verified"})
}

func (h *AuthHandler) ResendOTP(w http.ResponseWriter, r *http.Request) {
	var req auth.ResendOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		httpError(w, err)
		return
	}
	if err := h.authSvc.ResendOTP(r.Context(), req.Email); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "verification code sent to your email"})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req session.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		httpError(w, err)
		return
	}
	result, err := h.sessionSvc.Login(r.Context(), req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, AuthEnvelope{
		AccessToken:  result.Bearer,
		TokenType:    "bearer",
		RefreshToken: result.RefreshToken,
		Session:      result.Session,
		User:         result.Session.User,
	})
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RefreshToken == "" {
		writeError(w, http.StatusBadRequest, "refresh_token required")
		return
	}
	bearer, newToken, err := h.sessionSvc.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, AuthEnvelope{AccessToken: bearer, TokenType: "bearer", RefreshToken: newToken})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if err := h.sessionSvc.Logout(r.Context(), claims.SessionID); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "logged out"})
}

// Session returns the caller's current session with its user attached.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	sess, err := h.sessionSvc.GetCurrent(r.Context(), claims.SessionID)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req auth.ForgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		httpError(w, err)
		return
	}
	if err := h.authSvc.ForgotPassword(r.Context(), req.Email); err != nil {
		httpError(w, err)
		return
	}
	// Same response whether or not the email is registered.
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "if this email is registered, a code was sent"})
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req auth.ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		httpError(w, err)
		return
	}
	if err := h.authSvc.ResetPassword(r.Context(), req.Email, req.OTPCode, req.NewPassword); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "password updated, log in with your new password"})
}
