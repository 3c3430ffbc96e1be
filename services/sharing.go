package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/FellipeMarraa/cashz-api/models"
	"github.com/FellipeMarraa/cashz-api/utils"
)

type SharingService struct {
	db *sql.DB
}

func NewSharingService(db *sql.DB) *SharingService {
	return &SharingService{db: db}
}

// Invite creates (or replaces) the sharing grant for an invitee email.
// The grant row is keyed by the normalized invitee address, so inviting
// someone who already holds an inbound share simply supersedes it.
func (s *SharingService) Invite(ctx context.Context, owner *models.User, inviteeEmail string) (*models.SharingGrant, error) {
	if owner == nil || owner.ID == "" {
		return nil, ErrNotAuthenticated
	}

	normalized := NormalizeEmail(inviteeEmail)
	if normalized == NormalizeEmail(owner.Email) {
		return nil, ErrSelfShare
	}

	grant := &models.SharingGrant{
		ID:           uuid.New().String(),
		InviteeEmail: normalized,
		OwnerID:      owner.ID,
		OwnerEmail:   NormalizeEmail(owner.Email),
		Token:        uuid.New().String(),
		Status:       models.GrantPending,
		ExpiresAt:    time.Now().Add(7 * 24 * time.Hour),
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sharing_grants (id, invitee_email, owner_id, owner_email, token, status, expires_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (invitee_email) DO UPDATE
		SET owner_id = EXCLUDED.owner_id,
		    owner_email = EXCLUDED.owner_email,
		    token = EXCLUDED.token,
		    status = EXCLUDED.status,
		    expires_at = EXCLUDED.expires_at,
		    updated_at = EXCLUDED.updated_at
	`, grant.ID, grant.InviteeEmail, grant.OwnerID, grant.OwnerEmail,
		grant.Token, grant.Status, grant.ExpiresAt, grant.CreatedAt, grant.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create sharing grant: %w", err)
	}

	return grant, nil
}

// Accept turns a pending grant into an accepted one. The acting user's
// email must match the address the invitation was issued to.
func (s *SharingService) Accept(ctx context.Context, user *models.User, token string) (*models.SharingGrant, error) {
	if user == nil || user.ID == "" {
		return nil, ErrNotAuthenticated
	}

	var grant models.SharingGrant
	err := s.db.QueryRowContext(ctx, `
		SELECT id, invitee_email, owner_id, owner_email, status, expires_at
		FROM sharing_grants
		WHERE token = $1 AND status = $2
	`, token, models.GrantPending).Scan(
		&grant.ID, &grant.InviteeEmail, &grant.OwnerID, &grant.OwnerEmail, &grant.Status, &grant.ExpiresAt)
	if err == sql.ErrNoRows {
		return nil, ErrGrantNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load sharing grant: %w", err)
	}

	if time.Now().After(grant.ExpiresAt) {
		return nil, ErrGrantNotFound
	}
	if grant.InviteeEmail != NormalizeEmail(user.Email) {
		return nil, ErrGrantEmailMismatch
	}

	err = utils.WithTransaction(s.db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			UPDATE sharing_grants SET status = $1, updated_at = NOW() WHERE id = $2
		`, models.GrantAccepted, grant.ID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to accept sharing grant: %w", err)
	}

	grant.Status = models.GrantAccepted
	return &grant, nil
}

// Outbound returns the grant the owner has issued, if any.
func (s *SharingService) Outbound(ctx context.Context, ownerID string) (*models.SharingGrant, error) {
	var grant models.SharingGrant
	err := s.db.QueryRowContext(ctx, `
		SELECT id, invitee_email, owner_id, owner_email, status, expires_at, created_at, updated_at
		FROM sharing_grants
		WHERE owner_id = $1
	`, ownerID).Scan(&grant.ID, &grant.InviteeEmail, &grant.OwnerID, &grant.OwnerEmail,
		&grant.Status, &grant.ExpiresAt, &grant.CreatedAt, &grant.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load outbound grant: %w", err)
	}
	return &grant, nil
}

// Inbound returns the grant shared with the user's email, if any.
func (s *SharingService) Inbound(ctx context.Context, email string) (*models.SharingGrant, error) {
	var grant models.SharingGrant
	err := s.db.QueryRowContext(ctx, `
		SELECT g.id, g.invitee_email, g.owner_id, g.owner_email, g.status, g.expires_at, g.created_at, g.updated_at,
		       COALESCE(u.name, '')
		FROM sharing_grants g
		LEFT JOIN users u ON g.owner_id = u.id
		WHERE g.invitee_email = $1
	`, NormalizeEmail(email)).Scan(&grant.ID, &grant.InviteeEmail, &grant.OwnerID, &grant.OwnerEmail,
		&grant.Status, &grant.ExpiresAt, &grant.CreatedAt, &grant.UpdatedAt, &grant.OwnerName)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load inbound grant: %w", err)
	}
	return &grant, nil
}

// Revoke deletes the owner's outbound grant.
func (s *SharingService) Revoke(ctx context.Context, ownerID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM sharing_grants WHERE owner_id = $1`, ownerID)
	if err != nil {
		return fmt.Errorf("failed to revoke sharing grant: %w", err)
	}
	return nil
}

// Leave deletes the inbound grant held by the user's email.
func (s *SharingService) Leave(ctx context.Context, email string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM sharing_grants WHERE invitee_email = $1`, NormalizeEmail(email))
	if err != nil {
		return fmt.Errorf("failed to leave shared data: %w", err)
	}
	return nil
}
