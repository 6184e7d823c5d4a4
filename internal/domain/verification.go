package domain

// OTP purposes. Each user holds at most one pending code per purpose;
// issuing a new code overwrites the previous one.
const (
	OTPPurposeSignup        = "signup"
	OTPPurposePasswordReset = "password_reset"
)

// UserVerification stores a pending OTP.
// PK: user_id, SK: purpose ("signup" | "password_reset").
// ExpiresAt is a Unix timestamp used as DynamoDB TTL.
type UserVerification struct {
	UserID    string `json:"user_id" dynamodbav:"user_id"`
	Purpose   string `json:"purpose" dynamodbav:"purpose"`
	Code      string `json:"code" dynamodbav:"code"`
	ExpiresAt int64  `json:"expires_at" dynamodbav:"expires_at"` // TTL (Unix seconds)
}
