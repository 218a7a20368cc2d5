package wire

import (
	"movie-discovery/internal/adaptor"
	"movie-discovery/internal/data/repository"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireGamification(
	r chi.Router,
	gamificationHandler *adaptor.GamificationHandler,
	recommendationHandler *adaptor.RecommendationHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	r.Group(func(r chi.Router) {
		r.Use(authenticated(repo, log))

		r.Get("/api/user/achievements", gamificationHandler.Achievements)
		r.Get("/api/user/streak", gamificationHandler.Streak)
		r.Post("/api/user/streak/check-in", gamificationHandler.CheckIn)

		r.Get("/api/user/recommendations", recommendationHandler.ForUser)
	})
}
