package adaptor

import (
	"net/http"

	"movie-discovery/internal/usecase"
	"movie-discovery/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type CatalogHandler struct {
	service usecase.CatalogService
	log     *zap.Logger
}

func NewCatalogHandler(service usecase.CatalogService, log *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: service,
		log:     log.With(zap.String("handler", "catalog")),
	}
}

// Trending handles GET /api/catalog/trending?media_type=all&window=week
func (h *CatalogHandler) Trending(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	mediaType := query.Get("media_type")
	if mediaType == "" {
		mediaType = "all"
	}
	window := query.Get("window")
	if window == "" {
		window = "week"
	}

	page, err := h.service.Trending(r.Context(), mediaType, window, utils.ParseInt(query.Get("page"), 1))
	if err != nil {
		handleServiceError(w, h.log, err, "get trending")
		return
	}

	utils.ResponseSuccess(w, "success", page)
}

// Genres handles GET /api/catalog/genres/{mediaType}
func (h *CatalogHandler) Genres(w http.ResponseWriter, r *http.Request) {
	genres, err := h.service.Genres(r.Context(), chi.URLParam(r, "mediaType"))
	if err != nil {
		handleServiceError(w, h.log, err, "get genres")
		return
	}

	utils.ResponseSuccess(w, "success", genres)
}

// Search handles GET /api/catalog/search?q=...&type=multi
func (h *CatalogHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	mediaType := query.Get("type")
	if mediaType == "" {
		mediaType = "multi"
	}

	page, err := h.service.Search(r.Context(), mediaType, query.Get("q"), utils.ParseInt(query.Get("page"), 1))
	if err != nil {
		handleServiceError(w, h.log, err, "search catalog")
		return
	}

	utils.ResponseSuccess(w, "success", page)
}

// Discover handles GET /api/catalog/discover/{mediaType}?genres=28,12&sort_by=popularity.desc
func (h *CatalogHandler) Discover(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	page, err := h.service.Discover(r.Context(),
		chi.URLParam(r, "mediaType"),
		utils.ParseIntList(query.Get("genres")),
		query.Get("sort_by"),
		utils.ParseInt(query.Get("page"), 1))
	if err != nil {
		handleServiceError(w, h.log, err, "discover titles")
		return
	}

	utils.ResponseSuccess(w, "success", page)
}

// List handles GET /api/catalog/{mediaType}/{category}
func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.List(r.Context(),
		chi.URLParam(r, "mediaType"),
		chi.URLParam(r, "category"),
		utils.ParseInt(r.URL.Query().Get("page"), 1))
	if err != nil {
		handleServiceError(w, h.log, err, "list titles")
		return
	}

	utils.ResponseSuccess(w, "success", page)
}

// Details handles GET /api/catalog/{mediaType}/{id}
func (h *CatalogHandler) Details(w http.ResponseWriter, r *http.Request) {
	id, ok := intParam(r, "id")
	if !ok {
		utils.ResponseBadRequest(w, "Invalid title ID", nil)
		return
	}

	details, err := h.service.Details(r.Context(), chi.URLParam(r, "mediaType"), id)
	if err != nil {
		handleServiceError(w, h.log, err, "get title details")
		return
	}

	utils.ResponseSuccess(w, "success", details)
}

// Videos handles GET /api/catalog/{mediaType}/{id}/videos
func (h *CatalogHandler) Videos(w http.ResponseWriter, r *http.Request) {
	id, ok := intParam(r, "id")
	if !ok {
		utils.ResponseBadRequest(w, "Invalid title ID", nil)
		return
	}

	videos, err := h.service.Videos(r.Context(), chi.URLParam(r, "mediaType"), id)
	if err != nil {
		handleServiceError(w, h.log, err, "get videos")
		return
	}

	utils.ResponseSuccess(w, "success", videos)
}

// Providers handles GET /api/catalog/{mediaType}/{id}/providers
func (h *CatalogHandler) Providers(w http.ResponseWriter, r *http.Request) {
	id, ok := intParam(r, "id")
	if !ok {
		utils.ResponseBadRequest(w, "Invalid title ID", nil)
		return
	}

	providers, err := h.service.WatchProviders(r.Context(), chi.URLParam(r, "mediaType"), id)
	if err != nil {
		handleServiceError(w, h.log, err, "get watch providers")
		return
	}

	utils.ResponseSuccess(w, "success", providers)
}
