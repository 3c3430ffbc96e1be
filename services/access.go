package services

import (
	"context"
	"database/sql"
	"log"
	"strings"
)

// AccessService computes which owners' rows the acting user may see.
type AccessService struct {
	db *sql.DB
}

func NewAccessService(db *sql.DB) *AccessService {
	return &AccessService{db: db}
}

// NormalizeEmail lowercases and trims an address. Sharing grants are
// keyed by this form, so every lookup and every insert must agree on it.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// allowedOwners builds the closed visibility set: always the user, plus
// at most one sharing partner. The model is deliberately single-partner;
// the set never grows past two.
func allowedOwners(selfID, partnerID string) []string {
	if partnerID == "" || partnerID == selfID {
		return []string{selfID}
	}
	return []string{selfID, partnerID}
}

// ResolveAllowedOwnerIDs returns the owner ids whose financial rows the
// user may read. A failed grant lookup degrades to {self}: visibility of
// one's own data must never be blocked by a transient sharing failure.
func (s *AccessService) ResolveAllowedOwnerIDs(ctx context.Context, userID, email string) []string {
	var ownerID string
	err := s.db.QueryRowContext(ctx, `
		SELECT owner_id FROM sharing_grants
		WHERE invitee_email = $1 AND status = 'accepted'
	`, NormalizeEmail(email)).Scan(&ownerID)

	if err == sql.ErrNoRows {
		return allowedOwners(userID, "")
	}
	if err != nil {
		log.Printf("⚠️ Sharing grant lookup failed for user %s, falling back to own data: %v", userID, err)
		return allowedOwners(userID, "")
	}

	return allowedOwners(userID, ownerID)
}
