package adaptor

import (
	"errors"
	"net/http"
	"strings"

	"movie-discovery/internal/catalog"
	"movie-discovery/internal/dto/request"
	"movie-discovery/internal/usecase"
	"movie-discovery/pkg/telemetry"
	"movie-discovery/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Handler struct {
	Auth           *AuthHandler
	User           *UserHandler
	Catalog        *CatalogHandler
	Library        *LibraryHandler
	Review         *ReviewHandler
	Gamification   *GamificationHandler
	Credit         *CreditHandler
	Function       *FunctionHandler
	Recommendation *RecommendationHandler
	Admin          *AdminHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Auth:           NewAuthHandler(service.Auth, log),
		User:           NewUserHandler(service.User, log),
		Catalog:        NewCatalogHandler(service.Catalog, log),
		Library:        NewLibraryHandler(service.Library, log),
		Review:         NewReviewHandler(service.Review, log),
		Gamification:   NewGamificationHandler(service.Gamification, log),
		Credit:         NewCreditHandler(service.Credit, log),
		Function:       NewFunctionHandler(service.Auth, service.Credit, log),
		Recommendation: NewRecommendationHandler(service.Recommendation, log),
		Admin:          NewAdminHandler(service.Admin, log),
	}
}

// handleServiceError maps service errors onto HTTP responses. Catalog
// sentinels are matched by identity, everything else by message.
func handleServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	errMsg := err.Error()

	switch {
	case errors.Is(err, catalog.ErrNotFound):
		log.Warn(operation+" failed - title not found", zap.Error(err))
		utils.ResponseNotFound(w, "Title not found")

	case errors.Is(err, catalog.ErrInvalidInput):
		log.Warn("Invalid catalog input for "+operation, zap.Error(err))
		utils.ResponseBadRequest(w, errMsg, nil)

	case errors.Is(err, catalog.ErrUpstream), errors.Is(err, catalog.ErrUnauthorized):
		log.Error(operation+" failed - catalog unavailable", zap.Error(err))
		telemetry.CaptureError(err, map[string]string{"operation": operation})
		utils.ResponseBadGateway(w, "Catalog service unavailable")

	case strings.Contains(errMsg, "not found"):
		log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, errMsg)

	case strings.Contains(errMsg, "invalid credentials"):
		log.Warn(operation + " failed - invalid credentials")
		utils.ResponseUnauthorized(w, errMsg)

	case strings.Contains(errMsg, "deactivated"), strings.Contains(errMsg, "not allowed"):
		log.Warn(operation+" failed - forbidden", zap.Error(err))
		utils.ResponseForbidden(w, errMsg)

	case strings.Contains(errMsg, "already registered"), strings.Contains(errMsg, "already exists"):
		log.Warn(operation+" failed - conflict", zap.Error(err))
		utils.ResponseConflict(w, errMsg)

	case strings.Contains(errMsg, "validation failed"):
		log.Warn(operation+" validation failed", zap.Error(err))
		utils.ResponseBadRequest(w, errMsg, nil)

	case strings.Contains(errMsg, "invalid"),
		strings.Contains(errMsg, "already"),
		strings.Contains(errMsg, "required"),
		strings.Contains(errMsg, "expired"),
		strings.Contains(errMsg, "inactive"),
		strings.Contains(errMsg, "usage limit"),
		strings.Contains(errMsg, "cannot"):
		log.Warn(operation+" rejected", zap.Error(err))
		utils.ResponseBadRequest(w, errMsg, nil)

	default:
		log.Error("Failed to "+operation, zap.Error(err))
		telemetry.CaptureError(err, map[string]string{"operation": operation})
		utils.ResponseInternalError(w, "Internal server error")
	}
}

// ==================== REQUEST HELPERS ====================

func paginationFromQuery(r *http.Request) *request.PaginatedRequest {
	query := r.URL.Query()
	return &request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), 10),
	}
}

func uuidParam(r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func intParam(r *http.Request, name string) (int, bool) {
	n := utils.ParseInt(chi.URLParam(r, name), 0)
	return n, n > 0
}

func currentUser(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
	}
	return userID, ok
}
