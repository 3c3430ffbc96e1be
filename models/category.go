package models

import "time"

type Category struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name" binding:"required"`
	Kind      string    `json:"kind,omitempty"` // INCOME, EXPENSE or empty for both
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreateCategoryRequest struct {
	Name string `json:"name" binding:"required"`
	Kind string `json:"kind" binding:"omitempty,oneof=INCOME EXPENSE"`
}
