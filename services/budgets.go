package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/FellipeMarraa/cashz-api/models"
	"github.com/FellipeMarraa/cashz-api/utils"
)

type BudgetService struct {
	db     *sql.DB
	access *AccessService
}

func NewBudgetService(db *sql.DB, access *AccessService) *BudgetService {
	return &BudgetService{db: db, access: access}
}

// Save upserts the budget for (owner, category, month, year): the
// existing row is updated in place, otherwise a new one is inserted.
func (s *BudgetService) Save(ctx context.Context, owner *models.User, req models.SaveBudgetRequest) (*models.Budget, error) {
	if owner == nil || owner.ID == "" {
		return nil, ErrNotAuthenticated
	}
	if !req.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	allowed := s.access.ResolveAllowedOwnerIDs(ctx, owner.ID, owner.Email)

	var categoryName string
	err := s.db.QueryRowContext(ctx, `
		SELECT name FROM categories WHERE id = $1 AND user_id = ANY($2)
	`, req.CategoryID, pq.Array(allowed)).Scan(&categoryName)
	if err == sql.ErrNoRows {
		return nil, ErrCategoryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load category: %w", err)
	}

	budget := &models.Budget{
		UserID:       owner.ID,
		CategoryID:   req.CategoryID,
		CategoryName: categoryName,
		Amount:       req.Amount,
		Month:        req.Month,
		Year:         req.Year,
		UpdatedAt:    time.Now(),
	}

	err = utils.WithTransaction(s.db, func(tx *sql.Tx) error {
		var existingID string
		err := tx.QueryRowContext(ctx, `
			SELECT id FROM budgets
			WHERE user_id = $1 AND category_id = $2 AND month = $3 AND year = $4
		`, owner.ID, req.CategoryID, req.Month, req.Year).Scan(&existingID)

		if err == sql.ErrNoRows {
			budget.ID = uuid.New().String()
			budget.CreatedAt = budget.UpdatedAt
			_, err := tx.ExecContext(ctx, `
				INSERT INTO budgets (id, user_id, category_id, category_name, amount, month, year, created_at, updated_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			`, budget.ID, budget.UserID, budget.CategoryID, budget.CategoryName,
				budget.Amount, budget.Month, budget.Year, budget.CreatedAt, budget.UpdatedAt)
			return err
		}
		if err != nil {
			return err
		}

		budget.ID = existingID
		_, err = tx.ExecContext(ctx, `
			UPDATE budgets
			SET amount = $1, category_name = $2, updated_at = $3
			WHERE id = $4
		`, budget.Amount, budget.CategoryName, budget.UpdatedAt, existingID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save budget: %w", err)
	}

	return budget, nil
}

// List returns the period's budgets for every visible owner, each with
// how much of it is already spent.
func (s *BudgetService) List(ctx context.Context, actor *models.User, month, year int) ([]models.BudgetUsage, error) {
	if actor == nil || actor.ID == "" {
		return nil, ErrNotAuthenticated
	}

	allowed := s.access.ResolveAllowedOwnerIDs(ctx, actor.ID, actor.Email)

	rows, err := s.db.QueryContext(ctx, `
		SELECT b.id, b.user_id, b.category_id, b.category_name, b.amount, b.month, b.year,
		       b.created_at, b.updated_at,
		       COALESCE((
		           SELECT SUM(t.amount) FROM transactions t
		           WHERE t.user_id = b.user_id AND t.category_id = b.category_id
		             AND t.month = b.month AND t.year = b.year AND t.type = $4
		       ), 0) AS spent
		FROM budgets b
		WHERE b.user_id = ANY($1) AND b.month = $2 AND b.year = $3
		ORDER BY b.category_name
	`, pq.Array(allowed), month, year, models.TypeExpense)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}
	defer rows.Close()

	budgets := []models.BudgetUsage{}
	for rows.Next() {
		var b models.BudgetUsage
		err := rows.Scan(&b.ID, &b.UserID, &b.CategoryID, &b.CategoryName, &b.Amount,
			&b.Month, &b.Year, &b.CreatedAt, &b.UpdatedAt, &b.Spent)
		if err != nil {
			return nil, err
		}
		budgets = append(budgets, b)
	}

	return budgets, rows.Err()
}

// Delete removes one budget owned by the acting user.
func (s *BudgetService) Delete(ctx context.Context, actor *models.User, id string) error {
	if actor == nil || actor.ID == "" {
		return ErrNotAuthenticated
	}

	_, err := s.db.ExecContext(ctx, `DELETE FROM budgets WHERE id = $1 AND user_id = $2`, id, actor.ID)
	if err != nil {
		return fmt.Errorf("failed to delete budget: %w", err)
	}
	return nil
}
