package adaptor

import (
	"encoding/json"
	"net/http"

	"movie-discovery/internal/data/entity"
	"movie-discovery/internal/dto/request"
	"movie-discovery/internal/usecase"
	"movie-discovery/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type LibraryHandler struct {
	service usecase.LibraryService
	log     *zap.Logger
}

func NewLibraryHandler(service usecase.LibraryService, log *zap.Logger) *LibraryHandler {
	return &LibraryHandler{
		service: service,
		log:     log.With(zap.String("handler", "library")),
	}
}

// List returns GET /api/user/{favorites|watchlist}
func (h *LibraryHandler) List(kind entity.ListKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUser(w, r)
		if !ok {
			return
		}

		items, err := h.service.List(r.Context(), userID, kind, paginationFromQuery(r))
		if err != nil {
			handleServiceError(w, h.log, err, "list "+string(kind))
			return
		}

		utils.ResponseSuccess(w, "success", items)
	}
}

// Toggle returns POST /api/user/{favorites|watchlist}/toggle
func (h *LibraryHandler) Toggle(kind entity.ListKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUser(w, r)
		if !ok {
			return
		}

		var req request.LibraryItemRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.ResponseBadRequest(w, "Invalid request body", nil)
			return
		}

		if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
			utils.ResponseBadRequest(w, "Validation failed", validationErrors)
			return
		}

		resp, err := h.service.Toggle(r.Context(), userID, kind, &req)
		if err != nil {
			handleServiceError(w, h.log, err, "toggle "+string(kind))
			return
		}

		utils.ResponseSuccess(w, "success", resp)
	}
}

// Status returns GET /api/user/{favorites|watchlist}/{mediaType}/{id}
func (h *LibraryHandler) Status(kind entity.ListKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUser(w, r)
		if !ok {
			return
		}

		movieID, ok := intParam(r, "id")
		if !ok {
			utils.ResponseBadRequest(w, "Invalid title ID", nil)
			return
		}

		resp, err := h.service.Status(r.Context(), userID, kind, chi.URLParam(r, "mediaType"), movieID)
		if err != nil {
			handleServiceError(w, h.log, err, string(kind)+" status")
			return
		}

		utils.ResponseSuccess(w, "success", resp)
	}
}

// GetHistory handles GET /api/user/history
func (h *LibraryHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	history, err := h.service.ListHistory(r.Context(), userID, paginationFromQuery(r))
	if err != nil {
		handleServiceError(w, h.log, err, "get history")
		return
	}

	utils.ResponseSuccess(w, "success", history)
}

// RecordHistory handles POST /api/user/history
func (h *LibraryHandler) RecordHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req request.LibraryItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	if err := h.service.RecordHistory(r.Context(), userID, &req); err != nil {
		handleServiceError(w, h.log, err, "record history")
		return
	}

	utils.ResponseCreated(w, "History recorded", nil)
}

// ClearHistory handles DELETE /api/user/history
func (h *LibraryHandler) ClearHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	removed, err := h.service.ClearHistory(r.Context(), userID)
	if err != nil {
		handleServiceError(w, h.log, err, "clear history")
		return
	}

	utils.ResponseSuccess(w, "History cleared", map[string]int64{"removed": removed})
}
