package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/FellipeMarraa/cashz-api/models"
)

type CategoryService struct {
	db     *sql.DB
	access *AccessService
}

func NewCategoryService(db *sql.DB, access *AccessService) *CategoryService {
	return &CategoryService{db: db, access: access}
}

func (s *CategoryService) Create(ctx context.Context, owner *models.User, req models.CreateCategoryRequest) (*models.Category, error) {
	if owner == nil || owner.ID == "" {
		return nil, ErrNotAuthenticated
	}

	category := &models.Category{
		ID:        uuid.New().String(),
		UserID:    owner.ID,
		Name:      req.Name,
		Kind:      req.Kind,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO categories (id, user_id, name, kind, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, category.ID, category.UserID, category.Name, category.Kind, category.CreatedAt, category.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	return category, nil
}

// List returns categories across every owner visible to the user.
func (s *CategoryService) List(ctx context.Context, actor *models.User) ([]models.Category, error) {
	if actor == nil || actor.ID == "" {
		return nil, ErrNotAuthenticated
	}

	allowed := s.access.ResolveAllowedOwnerIDs(ctx, actor.ID, actor.Email)

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, name, COALESCE(kind, ''), created_at, updated_at
		FROM categories
		WHERE user_id = ANY($1)
		ORDER BY name
	`, pq.Array(allowed))
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Kind, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}

	return categories, rows.Err()
}

// Rename changes a category's name. Historical transactions keep the
// name snapshot they were created with.
func (s *CategoryService) Rename(ctx context.Context, actor *models.User, id, name string) error {
	if actor == nil || actor.ID == "" {
		return ErrNotAuthenticated
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE categories SET name = $1, updated_at = NOW()
		WHERE id = $2 AND user_id = $3
	`, name, id, actor.ID)
	if err != nil {
		return fmt.Errorf("failed to rename category: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

func (s *CategoryService) Delete(ctx context.Context, actor *models.User, id string) error {
	if actor == nil || actor.ID == "" {
		return ErrNotAuthenticated
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1 AND user_id = $2`, id, actor.ID)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrCategoryNotFound
	}
	return nil
}
