package adaptor

import (
	"encoding/json"
	"errors"
	"net/http"

	"movie-discovery/internal/dto/request"
	"movie-discovery/internal/dto/response"
	"movie-discovery/internal/usecase"
	"movie-discovery/pkg/middleware"
	"movie-discovery/pkg/telemetry"
	"movie-discovery/pkg/utils"

	"go.uber.org/zap"
)

// FunctionHandler serves /functions/v1/*. These endpoints keep their own
// wire format ({"error": ...} on failure) instead of the API envelope, and
// authenticate the bearer token themselves.
type FunctionHandler struct {
	auth   usecase.AuthService
	credit usecase.CreditService
	log    *zap.Logger
}

func NewFunctionHandler(auth usecase.AuthService, credit usecase.CreditService, log *zap.Logger) *FunctionHandler {
	return &FunctionHandler{
		auth:   auth,
		credit: credit,
		log:    log.With(zap.String("handler", "function")),
	}
}

// RedeemCode handles POST /functions/v1/redeem-code
func (h *FunctionHandler) RedeemCode(w http.ResponseWriter, r *http.Request) {
	token, ok := middleware.BearerToken(r)
	if !ok {
		functionError(w, http.StatusUnauthorized, "Missing authorization header")
		return
	}

	userID, err := h.auth.Authenticate(r.Context(), token)
	if err != nil {
		functionError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req request.RedeemCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		functionError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.credit.Redeem(r.Context(), userID, req.Code)
	switch {
	case err == nil:
	case errors.Is(err, usecase.ErrCodeNotFound):
		functionError(w, http.StatusNotFound, err.Error())
		return
	case errors.Is(err, usecase.ErrCodeRequired),
		errors.Is(err, usecase.ErrCodeInactive),
		errors.Is(err, usecase.ErrCodeExpired),
		errors.Is(err, usecase.ErrCodeUsageLimit),
		errors.Is(err, usecase.ErrCodeAlreadyRedeemed):
		functionError(w, http.StatusBadRequest, err.Error())
		return
	default:
		h.log.Error("Redeem function failed", zap.Error(err), zap.String("user_id", userID.String()))
		telemetry.CaptureError(err, map[string]string{"operation": "redeem-code"})
		functionError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	utils.WriteJSON(w, http.StatusOK, response.RedeemFunctionResponse{
		Success:      true,
		CreditsAdded: result.CreditsAdded,
		NewBalance:   result.NewBalance,
		Benefits:     result.Benefits,
		Message:      "Code redeemed successfully",
	})
}

func functionError(w http.ResponseWriter, status int, message string) {
	utils.WriteJSON(w, status, response.FunctionError{Error: message})
}
