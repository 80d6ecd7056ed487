package fares

import (
	"context"

	"github.com/592Darkness/ride-dispatch/internal/routing"
)

// RepositoryInterface defines the interface for fare rate repository operations
type RepositoryInterface interface {
	GetActiveRate(ctx context.Context, vehicleType string) (*FareRate, error)
}

// DistanceEstimator is the routing surface the estimate path consumes
type DistanceEstimator interface {
	EstimateDistance(ctx context.Context, origin, destination string) (*routing.RouteEstimate, error)
}
