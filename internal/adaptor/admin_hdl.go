package adaptor

import (
	"net/http"

	"movie-discovery/internal/usecase"
	"movie-discovery/pkg/utils"

	"go.uber.org/zap"
)

type AdminHandler struct {
	service usecase.AdminService
	log     *zap.Logger
}

func NewAdminHandler(service usecase.AdminService, log *zap.Logger) *AdminHandler {
	return &AdminHandler{
		service: service,
		log:     log.With(zap.String("handler", "admin")),
	}
}

// Stats handles GET /api/admin/stats
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.GetDashboardStats(r.Context())
	if err != nil {
		handleServiceError(w, h.log, err, "get dashboard stats")
		return
	}

	utils.ResponseSuccess(w, "success", stats)
}

// PurgeCache handles POST /api/admin/cache/purge
func (h *AdminHandler) PurgeCache(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.PurgeCatalogCache(r.Context())
	if err != nil {
		handleServiceError(w, h.log, err, "purge catalog cache")
		return
	}

	utils.ResponseSuccess(w, "Catalog cache purged", resp)
}
