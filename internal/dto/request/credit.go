package request

import "time"

// RedeemCodeRequest is the body of both redeem endpoints.
type RedeemCodeRequest struct {
	Code string `json:"code"`
}

type CreateCodeRequest struct {
	Code         string         `json:"code,omitempty" validate:"omitempty,min=4,max=64"`
	CreditAmount int            `json:"credit_amount" validate:"gte=0,lte=1000000"`
	Benefits     map[string]any `json:"benefits,omitempty"`
	MaxUses      *int           `json:"max_uses,omitempty" validate:"omitempty,gte=1"`
	ExpiresAt    *time.Time     `json:"expires_at,omitempty"`
}
