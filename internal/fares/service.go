package fares

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/592Darkness/ride-dispatch/pkg/common"
	"github.com/592Darkness/ride-dispatch/pkg/logger"
)

const (
	rushHourMultiplier = 1.2
	offPeakMultiplier  = 1.0
)

// Service computes fare breakdowns
type Service struct {
	repo     RepositoryInterface
	resolver DistanceEstimator

	// now is injectable so tests can pin the traffic multiplier
	now func() time.Time
}

// NewService creates a new fares service
func NewService(repo RepositoryInterface, resolver DistanceEstimator) *Service {
	return &Service{repo: repo, resolver: resolver, now: time.Now}
}

// WithClock overrides the wall clock (tests only)
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// rateFor returns the active rate for a vehicle type, failing soft to the
// built-in defaults when no active row exists or the lookup errors.
func (s *Service) rateFor(ctx context.Context, vehicleType string) FareRate {
	normalized := NormalizeVehicleType(vehicleType)

	if s.repo != nil {
		rate, err := s.repo.GetActiveRate(ctx, normalized)
		if err != nil {
			logger.WithContext(ctx).Warn("Fare rate lookup failed, using defaults",
				zap.String("vehicle_type", normalized), zap.Error(err))
		} else if rate != nil {
			return *rate
		}
	}

	if rate, ok := defaultRates[normalized]; ok {
		return rate
	}
	return defaultRates[VehicleStandard]
}

// trafficMultiplier is a deterministic function of the hour: 1.2 during the
// 07:00-09:59 and 16:00-18:59 rush windows, 1.0 otherwise.
func trafficMultiplier(at time.Time) float64 {
	hour := at.Hour()
	if (hour >= 7 && hour <= 9) || (hour >= 16 && hour <= 18) {
		return rushHourMultiplier
	}
	return offPeakMultiplier
}

// roundUpTo100 rounds a non-negative amount up to the nearest 100 minor
// currency units. This is a pricing-presentation rule, not float hygiene.
func roundUpTo100(amount int64) int64 {
	if amount <= 0 {
		return 0
	}
	return (amount + 99) / 100 * 100
}

// ComputeFare computes the full fare breakdown for a distance and vehicle
// type. It is a total function: callers must reject negative or NaN
// distances before invoking it.
func (s *Service) ComputeFare(ctx context.Context, distanceKm float64, vehicleType string) FareBreakdown {
	rate := s.rateFor(ctx, vehicleType)
	traffic := trafficMultiplier(s.now())

	distanceFare := int64(math.Round(distanceKm * float64(rate.PricePerKm)))
	subtotal := rate.BaseRate + distanceFare
	totalFare := int64(math.Round(float64(subtotal) * rate.Multiplier * traffic))

	finalFare := totalFare
	if finalFare < rate.MinimumFare {
		finalFare = rate.MinimumFare
	}

	return FareBreakdown{
		VehicleType:       NormalizeVehicleType(vehicleType),
		DistanceKm:        distanceKm,
		BaseRate:          rate.BaseRate,
		PricePerKm:        rate.PricePerKm,
		DistanceFare:      distanceFare,
		Subtotal:          subtotal,
		VehicleMultiplier: rate.Multiplier,
		TrafficMultiplier: traffic,
		MinimumFare:       rate.MinimumFare,
		FinalFare:         finalFare,
		RoundedFare:       roundUpTo100(finalFare),
	}
}

// EstimateFare produces a non-binding pre-ride quote. The distance lookup is
// best-effort: provider failures fall back to a bounded placeholder distance
// and the estimate is flagged accordingly. Settlement never goes through
// this path.
func (s *Service) EstimateFare(ctx context.Context, pickup, dropoff, vehicleType string) (*FareEstimate, error) {
	if pickup == "" || dropoff == "" {
		return nil, common.NewBadRequestError("pickup and dropoff addresses are required", nil)
	}
	if !IsValidVehicleType(vehicleType) {
		return nil, common.NewBadRequestError("unsupported vehicle type", nil)
	}

	route, err := s.resolver.EstimateDistance(ctx, pickup, dropoff)
	if err != nil {
		return nil, common.NewBadRequestError("could not resolve pickup and dropoff", err)
	}
	if route.DistanceKm < 0 || math.IsNaN(route.DistanceKm) {
		return nil, common.NewBadRequestError("invalid distance", nil)
	}

	breakdown := s.ComputeFare(ctx, route.DistanceKm, vehicleType)

	return &FareEstimate{
		FareBreakdown:    breakdown,
		DurationSeconds:  route.DurationSeconds,
		PickupResolved:   route.ResolvedOrigin,
		DropoffResolved:  route.ResolvedDestination,
		DistanceFallback: route.Fallback,
	}, nil
}
