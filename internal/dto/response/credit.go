package response

import (
	"time"

	"movie-discovery/internal/data/entity"
)

type BalanceResponse struct {
	Balance int `json:"balance"`
}

type TransactionResponse struct {
	ID           string                 `json:"id"`
	Amount       int                    `json:"amount"`
	Type         entity.TransactionType `json:"transaction_type"`
	Description  string                 `json:"description"`
	BalanceAfter int                    `json:"balance_after"`
	CreatedAt    time.Time              `json:"created_at"`
}

type RedeemResponse struct {
	CreditsAdded int            `json:"credits_added"`
	NewBalance   int            `json:"new_balance"`
	Benefits     map[string]any `json:"benefits"`
}

// RedeemFunctionResponse is the success body of /functions/v1/redeem-code.
type RedeemFunctionResponse struct {
	Success      bool           `json:"success"`
	CreditsAdded int            `json:"credits_added"`
	NewBalance   int            `json:"new_balance"`
	Benefits     map[string]any `json:"benefits"`
	Message      string         `json:"message"`
}

type FunctionError struct {
	Error string `json:"error"`
}

type RechargeCodeResponse struct {
	ID           string         `json:"id"`
	Code         string         `json:"code"`
	CreditAmount int            `json:"credit_amount"`
	Benefits     map[string]any `json:"benefits"`
	MaxUses      *int           `json:"max_uses"`
	CurrentUses  int            `json:"current_uses"`
	ExpiresAt    *time.Time     `json:"expires_at"`
	IsActive     bool           `json:"is_active"`
	CreatedAt    time.Time      `json:"created_at"`
}

func TransactionToResponse(t *entity.CreditTransaction) TransactionResponse {
	return TransactionResponse{
		ID:           t.ID.String(),
		Amount:       t.Amount,
		Type:         t.Type,
		Description:  t.Description,
		BalanceAfter: t.BalanceAfter,
		CreatedAt:    t.CreatedAt,
	}
}

func RechargeCodeToResponse(c *entity.RechargeCode) RechargeCodeResponse {
	benefits := c.Benefits
	if benefits == nil {
		benefits = map[string]any{}
	}

	return RechargeCodeResponse{
		ID:           c.ID.String(),
		Code:         c.Code,
		CreditAmount: c.CreditAmount,
		Benefits:     benefits,
		MaxUses:      c.MaxUses,
		CurrentUses:  c.CurrentUses,
		ExpiresAt:    c.ExpiresAt,
		IsActive:     c.IsActive,
		CreatedAt:    c.CreatedAt,
	}
}
