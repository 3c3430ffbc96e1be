package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Investment struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id"`
	Name        string          `json:"name"`
	Kind        string          `json:"kind"` // e.g. "stock", "fund", "crypto", "fixed_income"
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	PurchasedAt time.Time       `json:"purchased_at"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type SaveInvestmentRequest struct {
	Name        string          `json:"name" binding:"required"`
	Kind        string          `json:"kind" binding:"required"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice   decimal.Decimal `json:"unit_price" binding:"required"`
	PurchasedAt time.Time       `json:"purchased_at" binding:"required"`
}
