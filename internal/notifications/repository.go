package notifications

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository handles notification data access
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new notification repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// CreateNotification inserts a new notification row
func (r *Repository) CreateNotification(ctx context.Context, notification *Notification) error {
	payload, err := json.Marshal(notification.Payload)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `
		INSERT INTO notifications (id, user_id, event_type, payload, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		notification.ID, notification.UserID, notification.EventType, payload, notification.Status, notification.CreatedAt,
	)
	return err
}

// UpdateStatus records the delivery outcome
func (r *Repository) UpdateStatus(ctx context.Context, notificationID uuid.UUID, status string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE notifications SET status = $1 WHERE id = $2`,
		status, notificationID,
	)
	return err
}

// ListByUser returns a user's notifications, newest first
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Notification, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM notifications WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, event_type, payload, status, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`,
		userID, limit, offset,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []*Notification
	for rows.Next() {
		n := &Notification{}
		var payload []byte
		if err := rows.Scan(&n.ID, &n.UserID, &n.EventType, &payload, &n.Status, &n.CreatedAt); err != nil {
			return nil, 0, err
		}
		if len(payload) > 0 {
			if err := json.Unmarshal(payload, &n.Payload); err != nil {
				return nil, 0, err
			}
		}
		result = append(result, n)
	}
	return result, total, rows.Err()
}
