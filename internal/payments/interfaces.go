package payments

import (
	"context"

	"github.com/google/uuid"
)

// RepositoryInterface defines the interface for payment repository operations
type RepositoryInterface interface {
	GetPaymentView(ctx context.Context, rideID uuid.UUID) (*PaymentView, error)
	ApplyPaymentAction(ctx context.Context, rideID, actorID uuid.UUID, party, action string) (*PaymentResult, error)
}

// Notifier delivers best-effort notifications to users
type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, eventType string, payload map[string]interface{}) error
}
