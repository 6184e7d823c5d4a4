package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/unibuy/unibuy-api/internal/config"
	"github.com/unibuy/unibuy-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/unibuy/unibuy-api/internal/infrastructure/jwt"
	"github.com/unibuy/unibuy-api/internal/infrastructure/mail"
	"github.com/unibuy/unibuy-api/internal/infrastructure/redisstore"
	s3infra "github.com/unibuy/unibuy-api/internal/infrastructure/s3"
	transporthttp "github.com/unibuy/unibuy-api/internal/transport/http"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// Bootstrap DynamoDB tables (creates them if they don't exist).
	dynamoClient := dynamo.NewClient(cfg)
	dynamo.Bootstrap(context.Background(), dynamoClient, cfg.DynamoTables)

	jwtProvider, err := jwtinfra.NewProvider(cfg)
	if err != nil {
		log.Fatalf("jwt provider: %v", err)
	}

	// S3 store for student documents.
	s3Client := s3infra.NewClient(cfg)
	s3Store := s3infra.NewStore(s3Client, cfg.S3BucketName)

	// Email dispatcher: SendGrid primary, SMTP relay fallback.
	mailer := mail.NewDispatcher(cfg)
	if cfg.SendGridAPIKey == "" && cfg.SMTPHost == "" {
		log.Println("WARN: no email provider configured; OTP delivery will fail")
	}

	// Resend-cooldown store (optional).
	cooldown, err := redisstore.New(cfg.RedisURL)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}

	deps := &transporthttp.Deps{
		UserRepo:         dynamo.NewUserRepo(dynamoClient, cfg.DynamoTables.Users),
		SessionRepo:      dynamo.NewSessionRepo(dynamoClient, cfg.DynamoTables.Sessions),
		VerificationRepo: dynamo.NewVerificationRepo(dynamoClient, cfg.DynamoTables.UserVerifications),
		DocumentRepo:     dynamo.NewDocumentRepo(dynamoClient, cfg.DynamoTables.StudentDocuments),
		S3Store:          s3Store,
		Mailer:           mailer,
		Cooldown:         cooldown,
		JWTProvider:      jwtProvider,
	}

	router := transporthttp.NewRouter(cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s (env=%s)", cfg.AppPort, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	_ = cooldown.Close()
	log.Println("Server stopped")
}
