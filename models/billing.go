package models

import (
	"encoding/json"
	"time"
)

// BillingEvent records one interaction with the payment provider:
// a checkout we opened or a webhook we received. Processed guards
// webhook replays against double-crediting.
type BillingEvent struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	Provider  string          `json:"provider"`
	EventType string          `json:"event_type"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Processed bool            `json:"processed"`
	CreatedAt time.Time       `json:"created_at"`
}

type CheckoutRequest struct {
	Plan string `json:"plan" binding:"required,oneof=premium"`
}

type WebhookRequest struct {
	EventID   string          `json:"event_id" binding:"required"`
	EventType string          `json:"event_type" binding:"required"`
	UserID    string          `json:"user_id" binding:"required"`
	Payload   json.RawMessage `json:"payload"`
}
