package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/FellipeMarraa/cashz-api/models"
)

// NotificationService stores in-app notifications. Delivery beyond the
// database and the WebSocket broadcast (push, email digests) is out of
// scope here.
type NotificationService struct {
	db *sql.DB
}

func NewNotificationService(db *sql.DB) *NotificationService {
	return &NotificationService{db: db}
}

// Notify stores an immediately-visible notification. Callers on the
// advisory path treat failures as non-fatal.
func (s *NotificationService) Notify(ctx context.Context, userID, kind, title, body string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO notifications (id, user_id, kind, title, body, sent, created_at)
		VALUES ($1, $2, $3, $4, $5, TRUE, $6)
	`, uuid.New().String(), userID, kind, title, body, time.Now())
	if err != nil {
		return fmt.Errorf("failed to store notification: %w", err)
	}
	return nil
}

// Schedule stores a notification that stays hidden until its due time,
// when the delivery ticker marks it sent.
func (s *NotificationService) Schedule(ctx context.Context, userID string, req models.ScheduleNotificationRequest) (*models.Notification, error) {
	n := &models.Notification{
		ID:           uuid.New().String(),
		UserID:       userID,
		Kind:         models.NotifyScheduled,
		Title:        req.Title,
		Body:         req.Body,
		ScheduledFor: &req.ScheduledFor,
		CreatedAt:    time.Now(),
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO notifications (id, user_id, kind, title, body, scheduled_for, sent, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, FALSE, $7)
	`, n.ID, n.UserID, n.Kind, n.Title, n.Body, n.ScheduledFor, n.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to schedule notification: %w", err)
	}

	return n, nil
}

// List returns the user's delivered notifications, newest first.
func (s *NotificationService) List(ctx context.Context, userID string, unreadOnly bool) ([]models.Notification, error) {
	query := `
		SELECT id, user_id, kind, title, COALESCE(body, ''), scheduled_for, sent, read, created_at
		FROM notifications
		WHERE user_id = $1 AND sent = TRUE`
	if unreadOnly {
		query += ` AND read = FALSE`
	}
	query += ` ORDER BY created_at DESC LIMIT 100`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	notifications := []models.Notification{}
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Kind, &n.Title, &n.Body, &n.ScheduledFor, &n.Sent, &n.Read, &n.CreatedAt); err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}

	return notifications, rows.Err()
}

func (s *NotificationService) MarkRead(ctx context.Context, userID, id string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE notifications SET read = TRUE WHERE id = $1 AND user_id = $2
	`, id, userID)
	return err
}

// DeliverDue flips every due scheduled notification to sent and returns
// them so the caller can broadcast.
func (s *NotificationService) DeliverDue(ctx context.Context) ([]models.Notification, error) {
	rows, err := s.db.QueryContext(ctx, `
		UPDATE notifications
		SET sent = TRUE
		WHERE sent = FALSE AND scheduled_for <= NOW()
		RETURNING id, user_id, kind, title, COALESCE(body, ''), scheduled_for, sent, read, created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to deliver scheduled notifications: %w", err)
	}
	defer rows.Close()

	delivered := []models.Notification{}
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Kind, &n.Title, &n.Body, &n.ScheduledFor, &n.Sent, &n.Read, &n.CreatedAt); err != nil {
			return nil, err
		}
		delivered = append(delivered, n)
	}

	return delivered, rows.Err()
}
