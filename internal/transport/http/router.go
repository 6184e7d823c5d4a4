package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/unibuy/unibuy-api/internal/application/auth"
	"github.com/unibuy/unibuy-api/internal/application/session"
	"github.com/unibuy/unibuy-api/internal/application/user"
	"github.com/unibuy/unibuy-api/internal/application/verification"
	"github.com/unibuy/unibuy-api/internal/config"
	"github.com/unibuy/unibuy-api/internal/domain"
	"github.com/unibuy/unibuy-api/internal/transport/http/handler"
	appmiddleware "github.com/unibuy/unibuy-api/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	authMw := appmiddleware.Auth(deps.JWTProvider)

	// 5 requests/second, burst of 10 — applied to sensitive public endpoints.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	userSvc := user.NewService(user.ServiceDeps{
		UserRepo:         deps.UserRepo,
		VerificationRepo: deps.VerificationRepo,
		SessionRepo:      deps.SessionRepo,
		Mailer:           deps.Mailer,
	})
	authSvc := auth.NewService(auth.ServiceDeps{
		UserRepo:         deps.UserRepo,
		VerificationRepo: deps.VerificationRepo,
		SessionRepo:      deps.SessionRepo,
		Cooldown:         deps.Cooldown,
		Mailer:           deps.Mailer,
	})
	sessionSvc := session.NewService(session.ServiceDeps{
		SessionRepo:     deps.SessionRepo,
		UserRepo:        deps.UserRepo,
		JWTProvider:     deps.JWTProvider,
		RefreshTokenDur: cfg.RefreshTokenExpiry,
	})
	verificationSvc := verification.NewService(verification.ServiceDeps{
		DocumentRepo: deps.DocumentRepo,
		UserRepo:     deps.UserRepo,
		ObjectStore:  deps.S3Store,
	})

	healthH := handler.NewHealthHandler()
	authH := handler.NewAuthHandler(userSvc, authSvc, sessionSvc)
	userH := handler.NewUserHandler(userSvc)
	verificationH := handler.NewVerificationHandler(verificationSvc)

	r.Get("/", healthH.Root)
	r.Get("/health", healthH.Health)

	r.Route("/api", func(r chi.Router) {
		// ── Public routes (no auth) ──────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(sensitiveRL.Limit)

			r.Post("/auth/signup", authH.Signup)
			r.Post("/auth/verify-otp", authH.VerifyOTP)
			r.Post("/auth/resend-otp", authH.ResendOTP)
			r.Post("/auth/login", authH.Login)
			r.Post("/auth/forgot-password", authH.ForgotPassword)
			r.Post("/auth/reset-password", authH.ResetPassword)
		})
		r.Post("/auth/refresh", authH.Refresh)

		// ── Authenticated routes ─────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(authMw)

			r.Post("/auth/logout", authH.Logout)
			r.Get("/auth/session", authH.Session)
			r.Get("/users/me", userH.Me)
			r.Put("/users/me", userH.UpdateMe)
			r.Delete("/users/me", userH.DeleteMe)
			r.Post("/verification/student", verificationH.Submit)
			r.Get("/verification/student", verificationH.Status)

			// Admin-only routes
			r.Group(func(r chi.Router) {
				r.Use(appmiddleware.RequireRole(domain.RoleAdmin))

				r.Get("/verification/student/{id}/file", verificationH.File)
				r.Put("/verification/student/{id}/review", verificationH.Review)
			})
		})
	})

	return r
}
