package matching

import (
	"context"

	"github.com/google/uuid"
)

// RepositoryInterface defines the interface for driver matching repository operations
type RepositoryInterface interface {
	ListAvailableDrivers(ctx context.Context, vehicleType string) ([]*Driver, error)
	GetDriver(ctx context.Context, driverID uuid.UUID) (*Driver, error)
	ClaimRide(ctx context.Context, rideID, driverID uuid.UUID) (*ClaimResult, error)
	GetRideForMatching(ctx context.Context, rideID uuid.UUID) (*RideSummary, error)
}

// Notifier delivers best-effort notifications to users
type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, eventType string, payload map[string]interface{}) error
}
