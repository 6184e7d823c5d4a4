package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/unibuy/unibuy-api/internal/domain"
	"github.com/unibuy/unibuy-api/internal/pkg/validate"
)

// MessageEnvelope is the generic response wrapper.
type MessageEnvelope struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ValidationEnvelope carries per-field failures so clients can render
// actionable messages next to inputs.
type ValidationEnvelope struct {
	Error  string               `json:"error"`
	Fields []validate.FieldError `json:"fields"`
}

// AuthEnvelope wraps login/refresh responses.
type AuthEnvelope struct {
	AccessToken  string          `json:"access_token,omitempty"`
	TokenType    string          `json:"token_type,omitempty"`
	RefreshToken string          `json:"refresh_token,omitempty"`
	Session      *domain.Session `json:"session,omitempty"`
	User         *domain.User    `json:"user,omitempty"`
	Message      string          `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Error: msg})
}

// httpError maps domain sentinels onto HTTP status codes. Expired and invalid
// OTP errors keep distinct messages so the client knows whether to request a
// new code or retype the current one.
func httpError(w http.ResponseWriter, err error) {
	var fe validate.FieldErrors
	if errors.As(err, &fe) {
		writeJSON(w, http.StatusUnprocessableEntity, ValidationEnvelope{
			Error:  "validation failed",
			Fields: fe,
		})
		return
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrValidation):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrOTPExpired), errors.Is(err, domain.ErrOTPInvalid), errors.Is(err, domain.ErrBadRequest):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidCredentials), errors.Is(err, domain.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, domain.ErrNotVerified), errors.Is(err, domain.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, domain.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrCooldown):
		status = http.StatusTooManyRequests
	case errors.Is(err, domain.ErrDelivery):
		status = http.StatusBadGateway
	}
	writeError(w, status, err.Error())
}
