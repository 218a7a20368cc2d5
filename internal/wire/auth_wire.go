package wire

import (
	"movie-discovery/internal/adaptor"
	"movie-discovery/internal/data/repository"
	"movie-discovery/pkg/middleware"
	"movie-discovery/pkg/ratelimit"
	"movie-discovery/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireAuth(
	r chi.Router,
	authHandler *adaptor.AuthHandler,
	repo *repository.Repository,
	limiter *ratelimit.Limiter,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	// Sign-up and sign-in are limited per client IP
	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(limiter, "auth", config.RateLimit.Auth, middleware.ByIP, log))

		r.Post("/api/auth/register", authHandler.Register)
		r.Post("/api/auth/login", authHandler.Login)
	})

	// ==================== PROTECTED ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(authenticated(repo, log))

		r.Post("/api/auth/logout", authHandler.Logout)
		r.Get("/api/auth/session", authHandler.Session)
	})
}
