package services

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/FellipeMarraa/cashz-api/models"
)

// periodDate anchors a (month, year) period to its first day.
func periodDate(month, year int) time.Time {
	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
}

// addMonths advances a (month, year) pair, wrapping year boundaries.
func addMonths(month, year, steps int) (int, int) {
	m := month - 1 + steps
	return m%12 + 1, year + m/12
}

// splitInstallmentAmount is the per-installment share: total/n rounded
// to two decimals. There is no remainder reconciliation, so the series
// total may drift from the original amount by up to a cent per
// installment beyond the first.
func splitInstallmentAmount(total decimal.Decimal, n int) decimal.Decimal {
	return total.Div(decimal.NewFromInt(int64(n))).Round(2)
}

// buildSeries expands one creation request into the rows to persist.
// A multi-row series shares a single reference equal to the id of its
// first row; a SINGLE transaction carries no reference at all.
func buildSeries(owner *models.User, categoryID, categoryName string, req models.CreateTransactionRequest, now time.Time) ([]models.Transaction, error) {
	base := models.Transaction{
		UserID:       owner.ID,
		UserName:     owner.Name,
		UserEmail:    owner.Email,
		CategoryID:   categoryID,
		CategoryName: categoryName,
		Description:  req.Description,
		Amount:       req.Amount,
		Type:         req.Type,
		Recurrence:   req.Recurrence,
		Status:       req.Status,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	var series []models.Transaction

	switch req.Recurrence {
	case models.RecurrenceSingle:
		tx := base
		tx.ID = uuid.New().String()
		tx.Month = req.Month
		tx.Year = req.Year
		tx.Date = periodDate(req.Month, req.Year)
		series = append(series, tx)

	case models.RecurrenceInstallment:
		if req.NumInstallments < 2 {
			return nil, ErrInvalidInstallmentCount
		}
		share := splitInstallmentAmount(req.Amount, req.NumInstallments)
		for i := 0; i < req.NumInstallments; i++ {
			tx := base
			tx.ID = uuid.New().String()
			tx.Amount = share
			tx.Month, tx.Year = addMonths(req.Month, req.Year, i)
			tx.Date = periodDate(tx.Month, tx.Year)
			tx.NumInstallments = req.NumInstallments
			tx.CurrentInstallment = i + 1
			series = append(series, tx)
		}

	case models.RecurrenceFixed:
		// A fixed recurrence runs through December of the start year and
		// stops there; it never rolls into the next year on its own.
		for m := req.Month; m <= 12; m++ {
			tx := base
			tx.ID = uuid.New().String()
			tx.Month = m
			tx.Year = req.Year
			tx.Date = periodDate(m, req.Year)
			series = append(series, tx)
		}
	}

	if len(series) > 1 {
		reference := series[0].ID
		for i := range series {
			series[i].Reference = reference
		}
	}

	return series, nil
}

// seriesGroupKey is the key linking a row to its series: its reference
// when present, else its own id. The fallback lets "delete all" on a row
// with no reference behave as a singleton group instead of failing.
func seriesGroupKey(tx *models.Transaction) string {
	if tx.Reference != "" {
		return tx.Reference
	}
	return tx.ID
}

// forwardCancelIDs picks, from a series, the rows removed by a
// forward-cancel at the pivot date: the pivot itself and every sibling
// dated at or after it. Earlier siblings are history and stay.
func forwardCancelIDs(siblings []models.Transaction, pivotDate time.Time) []string {
	var ids []string
	for _, tx := range siblings {
		if !tx.Date.Before(pivotDate) {
			ids = append(ids, tx.ID)
		}
	}
	return ids
}
