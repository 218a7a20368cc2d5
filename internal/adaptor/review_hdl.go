package adaptor

import (
	"encoding/json"
	"net/http"

	"movie-discovery/internal/dto/request"
	"movie-discovery/internal/usecase"
	"movie-discovery/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ReviewHandler struct {
	service usecase.ReviewService
	log     *zap.Logger
}

func NewReviewHandler(service usecase.ReviewService, log *zap.Logger) *ReviewHandler {
	return &ReviewHandler{
		service: service,
		log:     log.With(zap.String("handler", "review")),
	}
}

// CreateReview handles POST /api/reviews (protected)
func (h *ReviewHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req request.CreateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	// Validate request
	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	review, err := h.service.CreateReview(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create review")
		return
	}

	utils.ResponseCreated(w, "success", review)
}

// GetTitleReviews handles GET /api/titles/{mediaType}/{id}/reviews (public)
func (h *ReviewHandler) GetTitleReviews(w http.ResponseWriter, r *http.Request) {
	movieID, ok := intParam(r, "id")
	if !ok {
		utils.ResponseBadRequest(w, "Invalid title ID", nil)
		return
	}

	reviews, err := h.service.GetTitleReviews(r.Context(), chi.URLParam(r, "mediaType"), movieID, paginationFromQuery(r))
	if err != nil {
		handleServiceError(w, h.log, err, "get title reviews")
		return
	}

	utils.ResponseSuccess(w, "success", reviews)
}

// GetTitleReviewStats handles GET /api/titles/{mediaType}/{id}/review-stats (public)
func (h *ReviewHandler) GetTitleReviewStats(w http.ResponseWriter, r *http.Request) {
	movieID, ok := intParam(r, "id")
	if !ok {
		utils.ResponseBadRequest(w, "Invalid title ID", nil)
		return
	}

	stats, err := h.service.GetTitleReviewStats(r.Context(), chi.URLParam(r, "mediaType"), movieID)
	if err != nil {
		handleServiceError(w, h.log, err, "get review stats")
		return
	}

	utils.ResponseSuccess(w, "success", stats)
}

// GetUserReviews handles GET /api/user/reviews (protected)
func (h *ReviewHandler) GetUserReviews(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	reviews, err := h.service.GetUserReviews(r.Context(), userID, paginationFromQuery(r))
	if err != nil {
		handleServiceError(w, h.log, err, "get user reviews")
		return
	}

	utils.ResponseSuccess(w, "success", reviews)
}

// UpdateReview handles PUT /api/reviews/{id} (owner only)
func (h *ReviewHandler) UpdateReview(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	reviewID, ok := uuidParam(r, "id")
	if !ok {
		utils.ResponseBadRequest(w, "Invalid review ID", nil)
		return
	}

	var req request.UpdateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	review, err := h.service.UpdateReview(r.Context(), reviewID, userID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update review")
		return
	}

	utils.ResponseSuccess(w, "success", review)
}

// DeleteReview handles DELETE /api/reviews/{id} (owner only)
func (h *ReviewHandler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	reviewID, ok := uuidParam(r, "id")
	if !ok {
		utils.ResponseBadRequest(w, "Invalid review ID", nil)
		return
	}

	if err := h.service.DeleteReview(r.Context(), reviewID, userID); err != nil {
		handleServiceError(w, h.log, err, "delete review")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}

// ToggleLike handles POST /api/reviews/{id}/like (protected)
func (h *ReviewHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	reviewID, ok := uuidParam(r, "id")
	if !ok {
		utils.ResponseBadRequest(w, "Invalid review ID", nil)
		return
	}

	resp, err := h.service.ToggleLike(r.Context(), reviewID, userID)
	if err != nil {
		handleServiceError(w, h.log, err, "toggle like")
		return
	}

	utils.ResponseSuccess(w, "success", resp)
}

// ==================== ADMIN ====================

// GetReviewsForModeration handles GET /api/admin/reviews?status=flagged
func (h *ReviewHandler) GetReviewsForModeration(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.service.GetReviewsForModeration(r.Context(), r.URL.Query().Get("status"), paginationFromQuery(r))
	if err != nil {
		handleServiceError(w, h.log, err, "get reviews for moderation")
		return
	}

	utils.ResponseSuccess(w, "success", reviews)
}

// SetStatus handles PUT /api/admin/reviews/{id}/status
func (h *ReviewHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	reviewID, ok := uuidParam(r, "id")
	if !ok {
		utils.ResponseBadRequest(w, "Invalid review ID", nil)
		return
	}

	var req request.UpdateReviewStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	review, err := h.service.SetStatus(r.Context(), reviewID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "moderate review")
		return
	}

	utils.ResponseSuccess(w, "Review status updated", review)
}
