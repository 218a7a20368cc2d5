package adaptor

import (
	"net/http"
	"time"

	"movie-discovery/internal/usecase"
	"movie-discovery/pkg/utils"

	"go.uber.org/zap"
)

type GamificationHandler struct {
	service usecase.GamificationService
	log     *zap.Logger
}

func NewGamificationHandler(service usecase.GamificationService, log *zap.Logger) *GamificationHandler {
	return &GamificationHandler{
		service: service,
		log:     log.With(zap.String("handler", "gamification")),
	}
}

// Achievements handles GET /api/user/achievements
func (h *GamificationHandler) Achievements(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	achievements, err := h.service.ListAchievements(r.Context(), userID)
	if err != nil {
		handleServiceError(w, h.log, err, "list achievements")
		return
	}

	utils.ResponseSuccess(w, "success", achievements)
}

// Streak handles GET /api/user/streak
func (h *GamificationHandler) Streak(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	streak, err := h.service.GetStreak(r.Context(), userID)
	if err != nil {
		handleServiceError(w, h.log, err, "get streak")
		return
	}

	utils.ResponseSuccess(w, "success", streak)
}

// CheckIn handles POST /api/user/streak/check-in
func (h *GamificationHandler) CheckIn(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	streak, err := h.service.RecordActivity(r.Context(), userID, time.Now())
	if err != nil {
		handleServiceError(w, h.log, err, "check in")
		return
	}

	utils.ResponseSuccess(w, "success", streak)
}
