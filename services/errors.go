package services

import "errors"

// Sentinel errors surfaced to handlers. Plan and quota errors drive the
// upgrade flow in the UI, so they must stay distinguishable from plain
// validation failures.
var (
	ErrNotAuthenticated          = errors.New("not authenticated")
	ErrRecurrenceRequiresUpgrade = errors.New("recurring transactions require a premium plan")
	ErrMonthlyLimitReached       = errors.New("monthly transaction limit reached for the free plan")
	ErrInvalidInstallmentCount   = errors.New("installment transactions require at least 2 installments")
	ErrInvalidAmount             = errors.New("amount must be positive")
	ErrCategoryNotFound          = errors.New("category not found")
	ErrGrantNotFound             = errors.New("sharing invitation not found or expired")
	ErrGrantEmailMismatch        = errors.New("invitation was issued to a different email")
	ErrSelfShare                 = errors.New("cannot share data with yourself")
)
