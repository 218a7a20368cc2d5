package adaptor

import (
	"encoding/json"
	"net/http"

	"movie-discovery/internal/dto/request"
	"movie-discovery/internal/usecase"
	"movie-discovery/pkg/utils"

	"go.uber.org/zap"
)

type CreditHandler struct {
	service usecase.CreditService
	log     *zap.Logger
}

func NewCreditHandler(service usecase.CreditService, log *zap.Logger) *CreditHandler {
	return &CreditHandler{
		service: service,
		log:     log.With(zap.String("handler", "credit")),
	}
}

// Balance handles GET /api/user/credits
func (h *CreditHandler) Balance(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	balance, err := h.service.GetBalance(r.Context(), userID)
	if err != nil {
		handleServiceError(w, h.log, err, "get balance")
		return
	}

	utils.ResponseSuccess(w, "success", balance)
}

// Transactions handles GET /api/user/credits/transactions
func (h *CreditHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	txs, err := h.service.GetTransactions(r.Context(), userID, paginationFromQuery(r))
	if err != nil {
		handleServiceError(w, h.log, err, "get transactions")
		return
	}

	utils.ResponseSuccess(w, "success", txs)
}

// Redeem handles POST /api/credits/redeem
func (h *CreditHandler) Redeem(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req request.RedeemCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	resp, err := h.service.Redeem(r.Context(), userID, req.Code)
	if err != nil {
		handleServiceError(w, h.log, err, "redeem code")
		return
	}

	utils.ResponseSuccess(w, "Code redeemed successfully", resp)
}

// ==================== ADMIN ====================

// CreateCode handles POST /api/admin/codes
func (h *CreditHandler) CreateCode(w http.ResponseWriter, r *http.Request) {
	adminID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req request.CreateCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	code, err := h.service.CreateCode(r.Context(), adminID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create code")
		return
	}

	utils.ResponseCreated(w, "Code created", code)
}

// ListCodes handles GET /api/admin/codes
func (h *CreditHandler) ListCodes(w http.ResponseWriter, r *http.Request) {
	codes, err := h.service.GetAllCodes(r.Context(), paginationFromQuery(r))
	if err != nil {
		handleServiceError(w, h.log, err, "list codes")
		return
	}

	utils.ResponseSuccess(w, "success", codes)
}

// DeactivateCode handles PUT /api/admin/codes/{id}/deactivate
func (h *CreditHandler) DeactivateCode(w http.ResponseWriter, r *http.Request) {
	codeID, ok := uuidParam(r, "id")
	if !ok {
		utils.ResponseBadRequest(w, "Invalid code ID", nil)
		return
	}

	if err := h.service.DeactivateCode(r.Context(), codeID); err != nil {
		handleServiceError(w, h.log, err, "deactivate code")
		return
	}

	utils.ResponseSuccess(w, "Code deactivated", nil)
}
