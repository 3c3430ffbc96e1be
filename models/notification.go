package models

import "time"

// Notification kinds
const (
	NotifyBudgetWarning   = "budget_warning"
	NotifyBudgetExhausted = "budget_exhausted"
	NotifySharing         = "sharing"
	NotifyBilling         = "billing"
	NotifyScheduled       = "scheduled"
)

// Notification is an in-app message. Rows with a ScheduledFor in the
// future sit unsent until the delivery ticker picks them up.
type Notification struct {
	ID           string     `json:"id"`
	UserID       string     `json:"user_id"`
	Kind         string     `json:"kind"`
	Title        string     `json:"title"`
	Body         string     `json:"body"`
	ScheduledFor *time.Time `json:"scheduled_for,omitempty"`
	Sent         bool       `json:"sent"`
	Read         bool       `json:"read"`
	CreatedAt    time.Time  `json:"created_at"`
}

type ScheduleNotificationRequest struct {
	Title        string    `json:"title" binding:"required"`
	Body         string    `json:"body"`
	ScheduledFor time.Time `json:"scheduled_for" binding:"required"`
}
