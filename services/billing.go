package services

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/FellipeMarraa/cashz-api/models"
	"github.com/FellipeMarraa/cashz-api/utils"
)

type BillingService struct {
	db            *sql.DB
	notifications *NotificationService
	provider      string
	checkoutURL   string
}

func NewBillingService(db *sql.DB, notifications *NotificationService) *BillingService {
	provider := os.Getenv("BILLING_PROVIDER")
	if provider == "" {
		provider = "stripe"
	}
	checkoutURL := os.Getenv("BILLING_CHECKOUT_URL")
	if checkoutURL == "" {
		checkoutURL = "https://checkout.stripe.com"
	}

	return &BillingService{
		db:            db,
		notifications: notifications,
		provider:      provider,
		checkoutURL:   checkoutURL,
	}
}

// Checkout records a checkout attempt and returns the provider URL the
// client should redirect to. The plan only changes once the provider's
// webhook confirms payment.
func (s *BillingService) Checkout(ctx context.Context, user *models.User) (string, error) {
	if user == nil || user.ID == "" {
		return "", ErrNotAuthenticated
	}

	eventID := uuid.New().String()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO billing_events (id, user_id, provider, event_type, processed, created_at)
		VALUES ($1, $2, $3, 'checkout_created', TRUE, $4)
	`, eventID, user.ID, s.provider, time.Now())
	if err != nil {
		return "", fmt.Errorf("failed to record checkout: %w", err)
	}

	return fmt.Sprintf("%s/session/%s", s.checkoutURL, eventID), nil
}

// HandleWebhook applies a provider event exactly once. The read of the
// stored event and the plan change commit together, so a replayed
// webhook can never credit a user twice.
func (s *BillingService) HandleWebhook(ctx context.Context, req models.WebhookRequest) error {
	return utils.WithTransaction(s.db, func(tx *sql.Tx) error {
		var processed bool
		err := tx.QueryRowContext(ctx, `
			SELECT processed FROM billing_events WHERE id = $1 FOR UPDATE
		`, req.EventID).Scan(&processed)

		switch {
		case err == sql.ErrNoRows:
			_, err := tx.ExecContext(ctx, `
				INSERT INTO billing_events (id, user_id, provider, event_type, payload, processed, created_at)
				VALUES ($1, $2, $3, $4, $5, TRUE, $6)
			`, req.EventID, req.UserID, s.provider, req.EventType, []byte(req.Payload), time.Now())
			if err != nil {
				return err
			}
		case err != nil:
			return err
		case processed:
			// Replay: already applied.
			return nil
		default:
			if _, err := tx.ExecContext(ctx, `
				UPDATE billing_events SET processed = TRUE WHERE id = $1
			`, req.EventID); err != nil {
				return err
			}
		}

		switch req.EventType {
		case "payment_succeeded", "subscription_renewed":
			_, err = tx.ExecContext(ctx, `
				UPDATE users SET plan = $1, updated_at = NOW() WHERE id = $2
			`, models.PlanPremium, req.UserID)
		case "subscription_cancelled", "payment_refunded":
			_, err = tx.ExecContext(ctx, `
				UPDATE users SET plan = $1, updated_at = NOW() WHERE id = $2
			`, models.PlanFree, req.UserID)
		default:
			// Unknown event types are stored and ignored.
			err = nil
		}
		return err
	})
}

// ActivateBonus extends a user's premium window by the given number of
// days. The current window is read and the new one written in the same
// transaction, so two concurrent activations cannot double-credit.
func (s *BillingService) ActivateBonus(ctx context.Context, userID string, days int) (time.Time, error) {
	var until time.Time

	err := utils.WithTransaction(s.db, func(tx *sql.Tx) error {
		var current sql.NullTime
		err := tx.QueryRowContext(ctx, `
			SELECT premium_until FROM users WHERE id = $1 FOR UPDATE
		`, userID).Scan(&current)
		if err != nil {
			return err
		}

		base := time.Now()
		if current.Valid && current.Time.After(base) {
			base = current.Time
		}
		until = base.Add(time.Duration(days) * 24 * time.Hour)

		_, err = tx.ExecContext(ctx, `
			UPDATE users SET premium_until = $1, updated_at = NOW() WHERE id = $2
		`, until, userID)
		return err
	})
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to activate bonus: %w", err)
	}

	if err := s.notifications.Notify(ctx, userID, models.NotifyBilling,
		"Premium bonus activated",
		fmt.Sprintf("Your premium access now runs until %s.", until.Format("2006-01-02"))); err != nil {
		// Advisory only.
		log.Printf("⚠️ Failed to notify bonus activation: %v", err)
	}

	return until, nil
}
