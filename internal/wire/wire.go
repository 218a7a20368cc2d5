package wire

import (
	"net/http"

	"movie-discovery/internal/adaptor"
	"movie-discovery/internal/data/repository"
	"movie-discovery/internal/usecase"
	"movie-discovery/pkg/metrics"
	"movie-discovery/pkg/middleware"
	"movie-discovery/pkg/ratelimit"
	"movie-discovery/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// App holds the router and the services behind it
type App struct {
	Router  *chi.Mux
	Service *usecase.Service
}

// Wiring builds services, handlers and routes
func Wiring(
	repo *repository.Repository,
	client usecase.CatalogClient,
	limiter *ratelimit.Limiter,
	config *utils.Config,
	logger *zap.Logger,
) *App {
	service := usecase.NewService(repo, client, config, logger)
	handler := adaptor.NewHandler(service, logger)

	router := setupRouter(handler, repo, limiter, config, logger)

	return &App{
		Router:  router,
		Service: service,
	}
}

func setupRouter(
	handler *adaptor.Handler,
	repo *repository.Repository,
	limiter *ratelimit.Limiter,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS(config.App.CORSOrigins))
	r.Use(metrics.Middleware)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(limiter, "api", config.RateLimit.API, middleware.ByIP, logger))

		wireAuth(r, handler.Auth, repo, limiter, config, logger)
		wireCatalog(r, handler.Catalog)
		wireUser(r, handler.User, repo, logger)
		wireLibrary(r, handler.Library, repo, logger)
		wireReview(r, handler.Review, repo, logger)
		wireGamification(r, handler.Gamification, handler.Recommendation, repo, logger)
		wireCredit(r, handler.Credit, handler.Function, repo, limiter, config, logger)
		wireAdmin(r, handler.Admin, repo, logger)
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Handle("/metrics", metrics.Handler())

	return r
}

// authenticated returns the session middleware shared by protected routes
func authenticated(repo *repository.Repository, log *zap.Logger) func(http.Handler) http.Handler {
	return middleware.AuthSession(repo.Session, log)
}
