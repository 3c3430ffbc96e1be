package services

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/FellipeMarraa/cashz-api/models"
	"github.com/FellipeMarraa/cashz-api/utils"
)

// DefaultFreeMonthlyLimit caps how many transactions a free-plan user
// can log per calendar month.
const DefaultFreeMonthlyLimit = 10

const budgetWarningRatio = "0.8"

type TransactionService struct {
	db            *sql.DB
	access        *AccessService
	notifications *NotificationService
	freeLimit     int
}

func NewTransactionService(db *sql.DB, access *AccessService, notifications *NotificationService) *TransactionService {
	limit := DefaultFreeMonthlyLimit
	if v, err := strconv.Atoi(os.Getenv("FREE_PLAN_MONTHLY_LIMIT")); err == nil && v > 0 {
		limit = v
	}

	return &TransactionService{
		db:            db,
		access:        access,
		notifications: notifications,
		freeLimit:     limit,
	}
}

// Create validates the request, expands it into one row or a linked
// series, and persists the whole series in one transaction. It returns
// the leading row of what was written.
func (s *TransactionService) Create(ctx context.Context, owner *models.User, req models.CreateTransactionRequest) (*models.Transaction, error) {
	if owner == nil || owner.ID == "" {
		return nil, ErrNotAuthenticated
	}
	if !req.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	allowed := s.access.ResolveAllowedOwnerIDs(ctx, owner.ID, owner.Email)

	var categoryID, categoryName string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name FROM categories
		WHERE id = $1 AND user_id = ANY($2)
	`, req.CategoryID, pq.Array(allowed)).Scan(&categoryID, &categoryName)
	if err == sql.ErrNoRows {
		return nil, ErrCategoryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load category: %w", err)
	}

	now := time.Now()
	premium := owner.HasPremium(now)

	if !premium && req.Recurrence != models.RecurrenceSingle {
		return nil, ErrRecurrenceRequiresUpgrade
	}

	if !premium {
		var count int
		err := s.db.QueryRowContext(ctx, `
			SELECT COUNT(*) FROM transactions
			WHERE user_id = $1 AND month = $2 AND year = $3
		`, owner.ID, req.Month, req.Year).Scan(&count)
		if err != nil {
			return nil, fmt.Errorf("failed to count monthly transactions: %w", err)
		}
		if count >= s.freeLimit {
			return nil, ErrMonthlyLimitReached
		}
	}

	// Advisory only: a budget overrun warns the user but never blocks
	// the write.
	if req.Type == models.TypeExpense {
		s.checkBudgetThreshold(ctx, owner.ID, categoryID, categoryName, req.Month, req.Year, req.Amount)
	}

	series, err := buildSeries(owner, categoryID, categoryName, req, now)
	if err != nil {
		return nil, err
	}

	err = utils.WithTransaction(s.db, func(tx *sql.Tx) error {
		for i := range series {
			if err := insertTransaction(ctx, tx, &series[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to persist transaction series: %w", err)
	}

	return &series[0], nil
}

func insertTransaction(ctx context.Context, tx *sql.Tx, t *models.Transaction) error {
	var reference interface{}
	if t.Reference != "" {
		reference = t.Reference
	}
	var numInst, curInst interface{}
	if t.NumInstallments > 0 {
		numInst = t.NumInstallments
	}
	if t.CurrentInstallment > 0 {
		curInst = t.CurrentInstallment
	}

	_, err := tx.ExecContext(ctx, `
		INSERT INTO transactions
			(id, user_id, user_name, user_email, category_id, category_name,
			 description, amount, type, recurrence, status, month, year, date,
			 num_installments, current_installment, reference, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	`, t.ID, t.UserID, t.UserName, t.UserEmail, t.CategoryID, t.CategoryName,
		t.Description, t.Amount, t.Type, t.Recurrence, t.Status, t.Month, t.Year, t.Date,
		numInst, curInst, reference, t.CreatedAt, t.UpdatedAt)
	return err
}

// checkBudgetThreshold emits an advisory notification when the new
// expense would exhaust, or come close to, the category's budget for
// the period. Failures here are logged and swallowed.
func (s *TransactionService) checkBudgetThreshold(ctx context.Context, ownerID, categoryID, categoryName string, month, year int, amount decimal.Decimal) {
	var limit decimal.Decimal
	err := s.db.QueryRowContext(ctx, `
		SELECT amount FROM budgets
		WHERE user_id = $1 AND category_id = $2 AND month = $3 AND year = $4
	`, ownerID, categoryID, month, year).Scan(&limit)
	if err == sql.ErrNoRows {
		return
	}
	if err != nil {
		log.Printf("⚠️ Budget lookup failed for category %s: %v", categoryID, err)
		return
	}

	var spent decimal.Decimal
	err = s.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(amount), 0) FROM transactions
		WHERE user_id = $1 AND category_id = $2 AND month = $3 AND year = $4 AND type = $5
	`, ownerID, categoryID, month, year, models.TypeExpense).Scan(&spent)
	if err != nil {
		log.Printf("⚠️ Spent aggregation failed for category %s: %v", categoryID, err)
		return
	}

	kind, title, body := budgetAlert(categoryName, limit, spent.Add(amount))
	if kind == "" {
		return
	}
	if err := s.notifications.Notify(ctx, ownerID, kind, title, body); err != nil {
		log.Printf("⚠️ Failed to store budget alert for user %s: %v", ownerID, err)
	}
}

// budgetAlert classifies a projected spend against a budget limit:
// at or past the limit is "exhausted", at or past 80% is a warning.
func budgetAlert(categoryName string, limit, projected decimal.Decimal) (kind, title, body string) {
	warnAt, _ := decimal.NewFromString(budgetWarningRatio)
	switch {
	case projected.GreaterThanOrEqual(limit):
		return models.NotifyBudgetExhausted,
			fmt.Sprintf("Budget exhausted: %s", categoryName),
			fmt.Sprintf("Spending on %s reached %s of a %s budget.", categoryName, projected.StringFixed(2), limit.StringFixed(2))
	case projected.GreaterThanOrEqual(limit.Mul(warnAt)):
		return models.NotifyBudgetWarning,
			fmt.Sprintf("Budget almost used up: %s", categoryName),
			fmt.Sprintf("Spending on %s is at %s of a %s budget.", categoryName, projected.StringFixed(2), limit.StringFixed(2))
	}
	return "", "", ""
}

// Delete removes one row, or forward-cancels its series: with deleteAll
// the pivot and every later-dated sibling go, earlier siblings stay.
// Deleting a row that no longer exists is a no-op.
func (s *TransactionService) Delete(ctx context.Context, actor *models.User, id string, deleteAll bool) error {
	if actor == nil || actor.ID == "" {
		return ErrNotAuthenticated
	}

	allowed := s.access.ResolveAllowedOwnerIDs(ctx, actor.ID, actor.Email)

	var pivot models.Transaction
	var reference sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, date, reference FROM transactions
		WHERE id = $1 AND user_id = ANY($2)
	`, id, pq.Array(allowed)).Scan(&pivot.ID, &pivot.UserID, &pivot.Date, &reference)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load transaction: %w", err)
	}
	pivot.Reference = reference.String

	if !deleteAll {
		_, err := s.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = $1`, pivot.ID)
		if err != nil {
			return fmt.Errorf("failed to delete transaction: %w", err)
		}
		return nil
	}

	groupKey := seriesGroupKey(&pivot)

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, date FROM transactions
		WHERE user_id = $1 AND (reference = $2 OR id = $2)
	`, pivot.UserID, groupKey)
	if err != nil {
		return fmt.Errorf("failed to load transaction series: %w", err)
	}
	defer rows.Close()

	var siblings []models.Transaction
	for rows.Next() {
		var t models.Transaction
		if err := rows.Scan(&t.ID, &t.Date); err != nil {
			return err
		}
		siblings = append(siblings, t)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	victims := forwardCancelIDs(siblings, pivot.Date)
	if len(victims) == 0 {
		return nil
	}

	return utils.WithTransaction(s.db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `DELETE FROM transactions WHERE id = ANY($1)`, pq.Array(victims))
		return err
	})
}

// Update edits one row in place. Edits never re-expand or re-split the
// series the row belongs to.
func (s *TransactionService) Update(ctx context.Context, actor *models.User, id string, req models.UpdateTransactionRequest) (*models.Transaction, error) {
	if actor == nil || actor.ID == "" {
		return nil, ErrNotAuthenticated
	}

	allowed := s.access.ResolveAllowedOwnerIDs(ctx, actor.ID, actor.Email)

	current, err := s.getByID(ctx, id, allowed)
	if err != nil {
		return nil, err
	}

	if req.Description != "" {
		current.Description = req.Description
	}
	if req.Status != "" {
		current.Status = req.Status
	}
	if req.Amount != nil {
		if !req.Amount.IsPositive() {
			return nil, ErrInvalidAmount
		}
		current.Amount = *req.Amount
	}
	current.UpdatedAt = time.Now()

	_, err = s.db.ExecContext(ctx, `
		UPDATE transactions
		SET description = $1, status = $2, amount = $3, updated_at = $4
		WHERE id = $5
	`, current.Description, current.Status, current.Amount, current.UpdatedAt, current.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to update transaction: %w", err)
	}

	return current, nil
}

// List returns the period's transactions across every owner visible to
// the user, date-ordered. month == 0 lists the whole year.
func (s *TransactionService) List(ctx context.Context, actor *models.User, month, year int) ([]models.Transaction, error) {
	if actor == nil || actor.ID == "" {
		return nil, ErrNotAuthenticated
	}

	allowed := s.access.ResolveAllowedOwnerIDs(ctx, actor.ID, actor.Email)

	query := `
		SELECT id, user_id, user_name, user_email, category_id, category_name,
		       description, amount, type, recurrence, status, month, year, date,
		       num_installments, current_installment, reference, created_at, updated_at
		FROM transactions
		WHERE user_id = ANY($1) AND year = $2`
	args := []interface{}{pq.Array(allowed), year}
	if month != 0 {
		query += ` AND month = $3`
		args = append(args, month)
	}
	query += ` ORDER BY date, created_at`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	transactions := []models.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, *t)
	}

	return transactions, rows.Err()
}

func (s *TransactionService) getByID(ctx context.Context, id string, allowed []string) (*models.Transaction, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, user_name, user_email, category_id, category_name,
		       description, amount, type, recurrence, status, month, year, date,
		       num_installments, current_installment, reference, created_at, updated_at
		FROM transactions
		WHERE id = $1 AND user_id = ANY($2)
	`, id, pq.Array(allowed))

	t, err := scanTransaction(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("transaction not found")
	}
	return t, err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTransaction(row rowScanner) (*models.Transaction, error) {
	var t models.Transaction
	var numInst, curInst sql.NullInt64
	var reference sql.NullString

	err := row.Scan(&t.ID, &t.UserID, &t.UserName, &t.UserEmail, &t.CategoryID, &t.CategoryName,
		&t.Description, &t.Amount, &t.Type, &t.Recurrence, &t.Status, &t.Month, &t.Year, &t.Date,
		&numInst, &curInst, &reference, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}

	t.NumInstallments = int(numInst.Int64)
	t.CurrentInstallment = int(curInst.Int64)
	t.Reference = reference.String
	return &t, nil
}
