package entity

import (
	"time"

	"github.com/google/uuid"
)

type CreditBalance struct {
	UserID    uuid.UUID `db:"user_id"`
	Balance   int       `db:"balance"`
	UpdatedAt time.Time `db:"updated_at"`
}

type TransactionType string

const (
	TransactionRedemption TransactionType = "redemption"
	TransactionAdjustment TransactionType = "adjustment"
)

type CreditTransaction struct {
	BaseSimple
	UserID       uuid.UUID       `db:"user_id"`
	Amount       int             `db:"amount"`
	Type         TransactionType `db:"transaction_type"`
	Description  string          `db:"description"`
	ReferenceID  *uuid.UUID      `db:"reference_id"`
	BalanceAfter int             `db:"balance_after"`
}

type RechargeCode struct {
	BaseNoDelete
	Code         string         `db:"code"`
	CreditAmount int            `db:"credit_amount"`
	Benefits     map[string]any `db:"benefits"`
	MaxUses      *int           `db:"max_uses"`
	CurrentUses  int            `db:"current_uses"`
	ExpiresAt    *time.Time     `db:"expires_at"`
	IsActive     bool           `db:"is_active"`
	CreatedBy    *uuid.UUID     `db:"created_by"`
}

func (c *RechargeCode) Expired(now time.Time) bool {
	return c.ExpiresAt != nil && !c.ExpiresAt.After(now)
}

func (c *RechargeCode) Exhausted() bool {
	return c.MaxUses != nil && c.CurrentUses >= *c.MaxUses
}

type CodeRedemption struct {
	BaseSimple
	CodeID       uuid.UUID `db:"code_id"`
	UserID       uuid.UUID `db:"user_id"`
	CreditsAdded int       `db:"credits_added"`
}
