package notifications

import (
	"context"

	"github.com/google/uuid"
)

// RepositoryInterface defines the interface for notification repository operations
type RepositoryInterface interface {
	CreateNotification(ctx context.Context, notification *Notification) error
	UpdateStatus(ctx context.Context, notificationID uuid.UUID, status string) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Notification, int, error)
}

// Dispatcher delivers a notification to the user's device or channel
type Dispatcher interface {
	Dispatch(ctx context.Context, notification *Notification) error
}
