package wire

import (
	"movie-discovery/internal/adaptor"
	"movie-discovery/internal/data/repository"
	"movie-discovery/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// wireUser configures profile routes and admin user management
func wireUser(
	r chi.Router,
	userHandler *adaptor.UserHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	// ==================== PROTECTED USER ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(authenticated(repo, log))

		r.Get("/api/user/profile", userHandler.GetProfile)
		r.Put("/api/user/profile", userHandler.UpdateProfile)
		r.Put("/api/user/preferences", userHandler.SetPreferences)
		r.Post("/api/user/onboarding", userHandler.CompleteOnboarding)
	})

	// ==================== ADMIN ROUTES ====================
	// Requires both a valid session AND the admin role
	r.With(
		authenticated(repo, log),
		middleware.Admin(log),
	).Route("/api/admin/users", func(r chi.Router) {
		r.Get("/", userHandler.GetAllUsers)       // GET /api/admin/users?page=1&per_page=10
		r.Delete("/{id}", userHandler.DeleteUser) // DELETE /api/admin/users/{user-id}
		r.Put("/{id}/role", userHandler.SetRole)  // PUT /api/admin/users/{user-id}/role
	})
}
