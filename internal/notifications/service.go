package notifications

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/592Darkness/ride-dispatch/pkg/logger"
)

const dispatchTimeout = 10 * time.Second

// Service implements best-effort notification delivery. Every notification
// is persisted first; delivery happens asynchronously so callers never wait
// on a downstream channel, and a delivery failure never reaches them.
type Service struct {
	repo       RepositoryInterface
	dispatcher Dispatcher
}

// NewService creates a new notification service. The dispatcher may be nil;
// notifications are then persisted but not delivered.
func NewService(repo RepositoryInterface, dispatcher Dispatcher) *Service {
	return &Service{repo: repo, dispatcher: dispatcher}
}

// Notify queues a notification for a user. The error return only reflects
// the persist step; delivery is fire-and-forget.
func (s *Service) Notify(ctx context.Context, userID uuid.UUID, eventType string, payload map[string]interface{}) error {
	notification := &Notification{
		ID:        uuid.New(),
		UserID:    userID,
		EventType: eventType,
		Payload:   payload,
		Status:    StatusPending,
		CreatedAt: time.Now(),
	}

	if err := s.repo.CreateNotification(ctx, notification); err != nil {
		return err
	}

	go s.deliver(notification)
	return nil
}

// deliver runs outside the caller's request context
func (s *Service) deliver(notification *Notification) {
	ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
	defer cancel()

	status := StatusDelivered
	if s.dispatcher != nil {
		if err := s.dispatcher.Dispatch(ctx, notification); err != nil {
			status = StatusFailed
			logger.Get().Warn("notification delivery failed",
				zap.String("notification_id", notification.ID.String()),
				zap.String("event_type", notification.EventType),
				zap.Error(err))
		}
	}

	if err := s.repo.UpdateStatus(ctx, notification.ID, status); err != nil {
		logger.Get().Warn("failed to record notification delivery status",
			zap.String("notification_id", notification.ID.String()),
			zap.Error(err))
	}
}

// ListByUser returns a user's notifications
func (s *Service) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Notification, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListByUser(ctx, userID, limit, offset)
}
