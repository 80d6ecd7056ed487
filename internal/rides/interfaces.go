package rides

import (
	"context"

	"github.com/google/uuid"

	"github.com/592Darkness/ride-dispatch/internal/fares"
	"github.com/592Darkness/ride-dispatch/internal/matching"
	"github.com/592Darkness/ride-dispatch/internal/routing"
)

// RepositoryInterface defines the interface for ride repository operations
type RepositoryInterface interface {
	CreateRide(ctx context.Context, ride *Ride) error
	GetRide(ctx context.Context, rideID uuid.UUID) (*Ride, error)
	ListRidesByRider(ctx context.Context, riderID uuid.UUID, limit, offset int) ([]*Ride, int, error)
	Transition(ctx context.Context, input TransitionInput) (*Ride, error)
	CompleteRide(ctx context.Context, input CompletionInput) (*Ride, error)
	CancelRide(ctx context.Context, rideID uuid.UUID, actorType string, actorID *uuid.UUID, reason string) (*Ride, error)
	SetRating(ctx context.Context, rideID uuid.UUID, rating int, comment string) error
}

// DriverMatcher finds and atomically assigns a driver to a searching ride
type DriverMatcher interface {
	FindAndAssignDriver(ctx context.Context, rideID uuid.UUID) (*matching.DriverAssignment, error)
	GetDriver(ctx context.Context, driverID uuid.UUID) (*matching.Driver, error)
}

// FareCalculator computes fares and non-binding estimates
type FareCalculator interface {
	ComputeFare(ctx context.Context, distanceKm float64, vehicleType string) fares.FareBreakdown
	EstimateFare(ctx context.Context, pickup, dropoff, vehicleType string) (*fares.FareEstimate, error)
}

// DistanceResolver resolves distances. ResolveDistance is the binding
// settlement path: failures propagate, and a final fare is never computed
// from a placeholder distance. EstimateDistance may fall back and is only
// used for non-binding hints like poll ETAs.
type DistanceResolver interface {
	ResolveDistance(ctx context.Context, origin, destination string) (*routing.RouteEstimate, error)
	EstimateDistance(ctx context.Context, origin, destination string) (*routing.RouteEstimate, error)
}

// RewardLedger credits loyalty points to a rider
type RewardLedger interface {
	CreditPoints(ctx context.Context, userID uuid.UUID, amount int64, reason string) (int64, error)
}

// Notifier delivers best-effort notifications to users
type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, eventType string, payload map[string]interface{}) error
}
