package notifications

import (
	"time"

	"github.com/google/uuid"
)

// Delivery statuses
const (
	StatusPending   = "pending"
	StatusDelivered = "delivered"
	StatusFailed    = "failed"
)

// Notification is one message queued for a user
type Notification struct {
	ID        uuid.UUID              `json:"id" db:"id"`
	UserID    uuid.UUID              `json:"user_id" db:"user_id"`
	EventType string                 `json:"event_type" db:"event_type"`
	Payload   map[string]interface{} `json:"payload" db:"payload"`
	Status    string                 `json:"status" db:"status"`
	CreatedAt time.Time              `json:"created_at" db:"created_at"`
}
