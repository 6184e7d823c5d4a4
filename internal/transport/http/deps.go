package http

import (
	"github.com/unibuy/unibuy-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/unibuy/unibuy-api/internal/infrastructure/jwt"
	"github.com/unibuy/unibuy-api/internal/infrastructure/mail"
	"github.com/unibuy/unibuy-api/internal/infrastructure/redisstore"
	s3infra "github.com/unibuy/unibuy-api/internal/infrastructure/s3"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	UserRepo         *dynamo.UserRepo
	SessionRepo      *dynamo.SessionRepo
	VerificationRepo *dynamo.VerificationRepo
	DocumentRepo     *dynamo.DocumentRepo
	S3Store          *s3infra.Store
	Mailer           mail.Mailer
	Cooldown         *redisstore.CooldownStore
	JWTProvider      *jwtinfra.Provider
}
