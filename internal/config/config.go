package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration loaded from environment variables.
// It is constructed once at startup and passed by reference to collaborators;
// there is no ambient global.
type Config struct {
	AppPort string
	AppEnv  string

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string
	DynamoTables   DynamoTables
	S3BucketName   string

	// JWT signing (HS256).
	SecretKey          string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration

	// Primary email provider.
	SendGridAPIKey string

	// SMTP relay fallback.
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string

	EmailsFrom     string
	EmailsFromName string

	// Timeout applied to each delivery attempt.
	MailTimeout time.Duration

	// Resend-cooldown store. Empty disables the cooldown.
	RedisURL string

	AllowedOrigins []string // CORS allowed origins
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	Users             string
	Sessions          string
	UserVerifications string
	StudentDocuments  string
}

// Load reads all configuration from environment variables. It returns an error
// when a required value is missing so startup fails instead of limping along.
func Load() (*Config, error) {
	cfg := &Config{
		AppPort: getEnv("APP_PORT", "3000"),
		AppEnv:  getEnv("APP_ENV", "development"),

		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTables: DynamoTables{
			Users:             getEnv("DYNAMO_TABLE_USERS", "users"),
			Sessions:          getEnv("DYNAMO_TABLE_SESSIONS", "sessions"),
			UserVerifications: getEnv("DYNAMO_TABLE_USER_VERIFICATIONS", "user_verifications"),
			StudentDocuments:  getEnv("DYNAMO_TABLE_STUDENT_DOCUMENTS", "student_documents"),
		},
		S3BucketName: getEnv("S3_BUCKET_NAME", "unibuy-documents"),

		SecretKey:          os.Getenv("SECRET_KEY"),
		AccessTokenExpiry:  time.Duration(getEnvInt("ACCESS_TOKEN_EXPIRE_MINUTES", 30)) * time.Minute,
		RefreshTokenExpiry: time.Duration(getEnvInt("REFRESH_TOKEN_EXPIRE_DAYS", 30)) * 24 * time.Hour,

		SendGridAPIKey: getEnv("SENDGRID_API_KEY", ""),
		SMTPHost:       getEnv("SMTP_HOST", ""),
		SMTPPort:       getEnvInt("SMTP_PORT", 587),
		SMTPUser:       getEnv("SMTP_USER", ""),
		SMTPPassword:   getEnv("SMTP_PASSWORD", ""),
		EmailsFrom:     getEnv("EMAILS_FROM_EMAIL", "noreply@unibuy.app"),
		EmailsFromName: getEnv("EMAILS_FROM_NAME", "Unibuy"),
		MailTimeout:    time.Duration(getEnvInt("MAIL_TIMEOUT_SECONDS", 10)) * time.Second,

		RedisURL: getEnv("REDIS_URL", ""),

		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
	}

	if cfg.SecretKey == "" {
		return nil, fmt.Errorf("SECRET_KEY is required")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
