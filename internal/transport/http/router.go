package http

import (
	"net/http"

	"github.com/consultly/verification-api/internal/application/verification"
	"github.com/consultly/verification-api/internal/config"
	"github.com/consultly/verification-api/internal/domain"
	"github.com/consultly/verification-api/internal/transport/http/handler"
	appmiddleware "github.com/consultly/verification-api/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	var authMw func(http.Handler) http.Handler
	if deps.JWTProvider != nil {
		authMw = appmiddleware.Auth(deps.JWTProvider)
	} else {
		authMw = func(next http.Handler) http.Handler { return next }
	}

	verificationSvc := verification.NewService(deps.VerificationRepo, deps.UserRepo, deps.SMSSender)

	healthH := handler.NewHealthHandler()
	verificationH := handler.NewPhoneVerificationHandler(verificationSvc)
	adminH := handler.NewAdminVerificationHandler(verificationSvc)

	r.Route("/v1", func(r chi.Router) {
		// ── Public routes (no auth) ──────────────────────────────────────────
		r.Get("/health-check/{action}", healthH.Ping)

		// ── Authenticated routes ─────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(authMw)

			r.Post("/phone-verification/{action}", verificationH.Action)

			// Admin-only routes
			r.Group(func(r chi.Router) {
				r.Use(appmiddleware.RequireRole(domain.RoleAdmin))

				r.Get("/phone-verifications", adminH.Lookup)
			})
		})
	})

	return r
}
