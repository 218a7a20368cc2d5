package wire

import (
	"movie-discovery/internal/adaptor"
	"movie-discovery/internal/data/repository"
	"movie-discovery/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireAdmin(
	r chi.Router,
	adminHandler *adaptor.AdminHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	r.Group(func(r chi.Router) {
		r.Use(authenticated(repo, log))
		r.Use(middleware.Admin(log))

		r.Get("/api/admin/stats", adminHandler.Stats)
		r.Post("/api/admin/cache/purge", adminHandler.PurgeCache)
	})
}
