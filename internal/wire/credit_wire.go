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

func wireCredit(
	r chi.Router,
	creditHandler *adaptor.CreditHandler,
	functionHandler *adaptor.FunctionHandler,
	repo *repository.Repository,
	limiter *ratelimit.Limiter,
	config *utils.Config,
	log *zap.Logger,
) {
	redeemLimit := middleware.RateLimit(limiter, "redeem", config.RateLimit.Redeem, middleware.ByUser, log)

	// ==================== PROTECTED ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(authenticated(repo, log))

		r.Get("/api/user/credits", creditHandler.Balance)
		r.Get("/api/user/credits/transactions", creditHandler.Transactions)
		r.With(redeemLimit).Post("/api/credits/redeem", creditHandler.Redeem)
	})

	// The function authenticates inside the handler so that auth failures
	// use its {"error": ...} body. The limit keys on client IP here.
	r.With(redeemLimit).Post("/functions/v1/redeem-code", functionHandler.RedeemCode)

	// ==================== ADMIN ROUTES ====================
	r.With(
		authenticated(repo, log),
		middleware.Admin(log),
	).Route("/api/admin/codes", func(r chi.Router) {
		r.Get("/", creditHandler.ListCodes)
		r.Post("/", creditHandler.CreateCode)
		r.Put("/{id}/deactivate", creditHandler.DeactivateCode)
	})
}
