package adaptor

import (
	"net/http"

	"movie-discovery/internal/usecase"
	"movie-discovery/pkg/utils"

	"go.uber.org/zap"
)

type RecommendationHandler struct {
	service usecase.RecommendationService
	log     *zap.Logger
}

func NewRecommendationHandler(service usecase.RecommendationService, log *zap.Logger) *RecommendationHandler {
	return &RecommendationHandler{
		service: service,
		log:     log.With(zap.String("handler", "recommendation")),
	}
}

// ForUser handles GET /api/user/recommendations?limit=20
func (h *RecommendationHandler) ForUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	limit := utils.ClampLimit(utils.ParseInt(r.URL.Query().Get("limit"), 0), 20, 100)

	recs, err := h.service.For(r.Context(), userID, limit)
	if err != nil {
		handleServiceError(w, h.log, err, "get recommendations")
		return
	}

	utils.ResponseSuccess(w, "success", recs)
}
