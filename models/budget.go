package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Budget is a per-category spending limit for one month. There is at
// most one row per (user, category, month, year) — saves are upserts.
type Budget struct {
	ID           string          `json:"id"`
	UserID       string          `json:"user_id"`
	CategoryID   string          `json:"category_id"`
	CategoryName string          `json:"category_name"`
	Amount       decimal.Decimal `json:"amount"`
	Month        int             `json:"month"`
	Year         int             `json:"year"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// BudgetUsage is a budget joined with how much of it is already spent.
type BudgetUsage struct {
	Budget
	Spent decimal.Decimal `json:"spent"`
}

type SaveBudgetRequest struct {
	CategoryID string          `json:"category_id" binding:"required"`
	Amount     decimal.Decimal `json:"amount" binding:"required"`
	Month      int             `json:"month" binding:"required,min=1,max=12"`
	Year       int             `json:"year" binding:"required,min=1970"`
}
