package validate

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/unibuy/unibuy-api/internal/domain"
)

// v is the package-level singleton validator. Custom rules are registered in
// init(), before the first call to Struct.
var v = validator.New(validator.WithRequiredStructEnabled())

func init() {
	must(v.RegisterValidation("school_email", schoolEmail))
	must(v.RegisterValidation("password_strength", passwordStrength))
	must(v.RegisterValidation("university", university))
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

// FieldError reports a single failed rule on a single field so the client can
// render an actionable message next to the input.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FieldErrors is the full set of rule failures for one request.
type FieldErrors []FieldError

func (fe FieldErrors) Error() string {
	msgs := make([]string, len(fe))
	for i, e := range fe {
		msgs[i] = fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return strings.Join(msgs, "; ")
}

// Unwrap ties FieldErrors into the sentinel taxonomy so callers can test with
// errors.Is(err, domain.ErrValidation).
func (fe FieldErrors) Unwrap() error { return domain.ErrValidation }

// Struct validates s using its validate tags. On failure it returns
// FieldErrors listing every violated rule per field.
func Struct(s interface{}) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	ve, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	fe := make(FieldErrors, 0, len(ve))
	for _, e := range ve {
		fe = append(fe, FieldError{
			Field:   strings.ToLower(e.Field()),
			Message: message(e),
		})
	}
	return fe
}

func message(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "school_email":
		return "only school emails (.edu or .edu.ng) are allowed"
	case "password_strength":
		return "must be at least 8 characters with an uppercase letter and a digit"
	case "university":
		return "must be one of: " + strings.Join(domain.Universities, ", ")
	default:
		return fmt.Sprintf("failed rule '%s'", e.Tag())
	}
}

// schoolEmail accepts addresses whose lowercased form ends in .edu or .edu.ng.
// The value itself is stored as given.
func schoolEmail(fl validator.FieldLevel) bool {
	email := strings.ToLower(fl.Field().String())
	return strings.HasSuffix(email, ".edu") || strings.HasSuffix(email, ".edu.ng")
}

// passwordStrength requires at least 8 characters, one uppercase ASCII letter
// and one digit. Length counts runes, not bytes.
func passwordStrength(fl validator.FieldLevel) bool {
	pw := fl.Field().String()
	if utf8.RuneCountInString(pw) < 8 {
		return false
	}
	var hasUpper, hasDigit bool
	for _, r := range pw {
		switch {
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	return hasUpper && hasDigit
}

// university matches the fixed enum exactly.
func university(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	for _, u := range domain.Universities {
		if val == u {
			return true
		}
	}
	return false
}
