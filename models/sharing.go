package models

import (
	"encoding/json"
	"time"
)

// Grant statuses
const (
	GrantPending  = "pending"
	GrantAccepted = "accepted"
)

// SharingGrant gives one invitee read/write visibility into one owner's
// financial data. The row is keyed by the invitee's normalized email so
// "who shared with me" is a single primary-key lookup — which also means
// a user can hold at most one inbound share at a time.
type SharingGrant struct {
	ID           string          `json:"id"`
	InviteeEmail string          `json:"invitee_email"`
	OwnerID      string          `json:"owner_id"`
	OwnerEmail   string          `json:"owner_email"`
	OwnerName    string          `json:"owner_name,omitempty"`
	Permissions  json.RawMessage `json:"permissions"`
	Token        string          `json:"-"`
	Status       string          `json:"status"`
	ExpiresAt    time.Time       `json:"expires_at"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

type InviteRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type AcceptShareRequest struct {
	Token string `json:"token" binding:"required"`
}
