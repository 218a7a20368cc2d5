package wire

import (
	"movie-discovery/internal/adaptor"
	"movie-discovery/internal/data/repository"
	"movie-discovery/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireReview(
	r chi.Router,
	reviewHandler *adaptor.ReviewHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	// GET /api/titles/{mediaType}/{id}/reviews - approved reviews of a title
	r.Get("/api/titles/{mediaType}/{id:[0-9]+}/reviews", reviewHandler.GetTitleReviews)

	// GET /api/titles/{mediaType}/{id}/review-stats - rating statistics
	r.Get("/api/titles/{mediaType}/{id:[0-9]+}/review-stats", reviewHandler.GetTitleReviewStats)

	// ==================== PROTECTED ROUTES (require auth) ====================
	r.Group(func(r chi.Router) {
		r.Use(authenticated(repo, log))

		r.Post("/api/reviews", reviewHandler.CreateReview)
		r.Get("/api/user/reviews", reviewHandler.GetUserReviews)

		// owner only
		r.Put("/api/reviews/{id}", reviewHandler.UpdateReview)
		r.Delete("/api/reviews/{id}", reviewHandler.DeleteReview)

		r.Post("/api/reviews/{id}/like", reviewHandler.ToggleLike)
	})

	// ==================== ADMIN ROUTES ====================
	r.With(
		authenticated(repo, log),
		middleware.Admin(log),
	).Route("/api/admin/reviews", func(r chi.Router) {
		r.Get("/", reviewHandler.GetReviewsForModeration) // GET /api/admin/reviews?status=flagged
		r.Put("/{id}/status", reviewHandler.SetStatus)    // PUT /api/admin/reviews/{id}/status
	})
}
