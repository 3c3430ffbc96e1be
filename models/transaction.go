package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction type
const (
	TypeIncome  = "INCOME"
	TypeExpense = "EXPENSE"
)

// Recurrence kinds
const (
	RecurrenceSingle      = "SINGLE"
	RecurrenceInstallment = "INSTALLMENT"
	RecurrenceFixed       = "FIXED"
)

// Status values
const (
	StatusPaid     = "PAID"
	StatusPending  = "PENDING"
	StatusReceived = "RECEIVED"
)

// Transaction is one financial movement. A recurring or installment
// creation request fans out into several rows sharing one Reference,
// which is the id of the first row of the batch. Owner and category
// fields are snapshots frozen at creation time.
type Transaction struct {
	ID                 string          `json:"id"`
	UserID             string          `json:"user_id"`
	UserName           string          `json:"user_name"`
	UserEmail          string          `json:"user_email"`
	CategoryID         string          `json:"category_id"`
	CategoryName       string          `json:"category_name"`
	Description        string          `json:"description"`
	Amount             decimal.Decimal `json:"amount"`
	Type               string          `json:"type"`
	Recurrence         string          `json:"recurrence"`
	Status             string          `json:"status"`
	Month              int             `json:"month"`
	Year               int             `json:"year"`
	Date               time.Time       `json:"date"`
	NumInstallments    int             `json:"num_installments,omitempty"`
	CurrentInstallment int             `json:"current_installment,omitempty"`
	Reference          string          `json:"reference,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

type CreateTransactionRequest struct {
	Description     string          `json:"description" binding:"required"`
	Amount          decimal.Decimal `json:"amount" binding:"required"`
	Month           int             `json:"month" binding:"required,min=1,max=12"`
	Year            int             `json:"year" binding:"required,min=1970"`
	CategoryID      string          `json:"category_id" binding:"required"`
	Type            string          `json:"type" binding:"required,oneof=INCOME EXPENSE"`
	Recurrence      string          `json:"recurrence" binding:"required,oneof=SINGLE INSTALLMENT FIXED"`
	Status          string          `json:"status" binding:"required,oneof=PAID PENDING RECEIVED"`
	NumInstallments int             `json:"num_installments"`
}

// UpdateTransactionRequest edits a row in place. Edits never re-expand
// the series the row belongs to.
type UpdateTransactionRequest struct {
	Description string           `json:"description"`
	Amount      *decimal.Decimal `json:"amount"`
	Status      string           `json:"status"`
}
