package rides

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/592Darkness/ride-dispatch/internal/fares"
	"github.com/592Darkness/ride-dispatch/internal/matching"
	"github.com/592Darkness/ride-dispatch/internal/routing"
	"github.com/592Darkness/ride-dispatch/pkg/common"
	"github.com/592Darkness/ride-dispatch/pkg/logger"
)

// Poll intervals suggested to clients, in seconds
const (
	pollWaitSearching = 5
	pollWaitActive    = 3
)

// Targets a driver may request directly; completion has its own path
var driverTargets = map[string]bool{
	StatusArriving:   true,
	StatusArrived:    true,
	StatusInProgress: true,
}

// Service implements ride lifecycle business logic
type Service struct {
	repo            RepositoryInterface
	matcher         DriverMatcher
	fareCalc        FareCalculator
	resolver        DistanceResolver
	rewards         RewardLedger
	notifier        Notifier
	driverShareRate float64
	pointsRate      float64
	now             func() time.Time
}

// NewService creates a new ride service. driverShareRate and pointsRate come
// from business configuration, not hardcoded policy.
func NewService(
	repo RepositoryInterface,
	matcher DriverMatcher,
	fareCalc FareCalculator,
	resolver DistanceResolver,
	rewards RewardLedger,
	notifier Notifier,
	driverShareRate, pointsRate float64,
) *Service {
	return &Service{
		repo:            repo,
		matcher:         matcher,
		fareCalc:        fareCalc,
		resolver:        resolver,
		rewards:         rewards,
		notifier:        notifier,
		driverShareRate: driverShareRate,
		pointsRate:      pointsRate,
		now:             time.Now,
	}
}

// WithClock replaces the wall clock, for tests
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// RequestRide books a new ride. The stored fare is the non-binding estimate;
// settlement recomputes from a real resolved distance.
func (s *Service) RequestRide(ctx context.Context, riderID uuid.UUID, req *RequestRideRequest) (*Ride, error) {
	if !fares.IsValidVehicleType(req.VehicleType) {
		return nil, common.NewBadRequestError("unsupported vehicle type", nil)
	}

	estimate, err := s.fareCalc.EstimateFare(ctx, req.PickupAddress, req.DropoffAddress, req.VehicleType)
	if err != nil {
		return nil, err
	}

	status := StatusSearching
	if req.ScheduledAt != nil && req.ScheduledAt.After(s.now()) {
		status = StatusScheduled
	}

	now := s.now()
	ride := &Ride{
		ID:             uuid.New(),
		RiderID:        riderID,
		PickupAddress:  req.PickupAddress,
		DropoffAddress: req.DropoffAddress,
		VehicleType:    fares.NormalizeVehicleType(req.VehicleType),
		Status:         status,
		EstimatedFare:  estimate.RoundedFare,
		ScheduledAt:    req.ScheduledAt,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.repo.CreateRide(ctx, ride); err != nil {
		return nil, err
	}
	return ride, nil
}

// GetRide returns a ride the caller is a party to
func (s *Service) GetRide(ctx context.Context, rideID, userID uuid.UUID) (*Ride, error) {
	ride, err := s.repo.GetRide(ctx, rideID)
	if err != nil {
		return nil, err
	}
	if !isParty(ride, userID) {
		return nil, common.NewForbiddenError("you are not a party to this ride")
	}
	return ride, nil
}

// GetMyRides returns the rider's ride history
func (s *Service) GetMyRides(ctx context.Context, riderID uuid.UUID, limit, offset int) ([]*Ride, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListRidesByRider(ctx, riderID, limit, offset)
}

// AdvanceRide is the driver-progress path: arriving, arrived, in_progress.
// Completion is not reachable here because it freezes money.
func (s *Service) AdvanceRide(ctx context.Context, rideID, driverID uuid.UUID, target string) (*Ride, error) {
	if !driverTargets[target] {
		return nil, common.NewBadRequestError("unsupported target status", nil)
	}

	ride, err := s.repo.GetRide(ctx, rideID)
	if err != nil {
		return nil, err
	}
	if ride.DriverID == nil || *ride.DriverID != driverID {
		return nil, common.NewForbiddenError("ride is not assigned to this driver")
	}

	updated, err := s.repo.Transition(ctx, TransitionInput{
		RideID:    rideID,
		Target:    target,
		ActorType: "driver",
		ActorID:   &driverID,
		Details:   "driver advanced ride to " + target,
	})
	if err != nil {
		return nil, err
	}

	s.notify(ctx, ride.RiderID, "ride_"+target, map[string]interface{}{
		"ride_id": rideID.String(),
		"status":  target,
	})
	return updated, nil
}

// CompleteRide settles an in-progress ride. The distance is resolved from
// the provider with no fallback: a binding final fare is never computed
// from a placeholder.
func (s *Service) CompleteRide(ctx context.Context, rideID, driverID uuid.UUID) (*Ride, error) {
	ride, err := s.repo.GetRide(ctx, rideID)
	if err != nil {
		return nil, err
	}
	if ride.DriverID == nil || *ride.DriverID != driverID {
		return nil, common.NewForbiddenError("ride is not assigned to this driver")
	}
	if ride.Status != StatusInProgress {
		return nil, common.NewInvalidStateError("only an in-progress ride can be completed")
	}

	route, err := s.resolver.ResolveDistance(ctx, ride.PickupAddress, ride.DropoffAddress)
	if err != nil {
		return nil, mapRoutingError(err)
	}

	breakdown := s.fareCalc.ComputeFare(ctx, route.DistanceKm, ride.VehicleType)
	finalFare := breakdown.RoundedFare
	driverShare := int64(math.Floor(float64(finalFare) * s.driverShareRate))

	updated, err := s.repo.CompleteRide(ctx, CompletionInput{
		RideID:      rideID,
		DriverID:    driverID,
		FinalFare:   finalFare,
		DistanceKm:  route.DistanceKm,
		DriverShare: driverShare,
	})
	if err != nil {
		return nil, err
	}

	// committed; everything below is best-effort
	points := int64(math.Floor(float64(finalFare) * s.pointsRate))
	if s.rewards != nil && points > 0 {
		if _, err := s.rewards.CreditPoints(ctx, ride.RiderID, points, "ride "+rideID.String()); err != nil {
			logger.WithContext(ctx).Warn("failed to credit reward points",
				zap.String("ride_id", rideID.String()),
				zap.Int64("points", points),
				zap.Error(err))
		}
	}
	s.notify(ctx, ride.RiderID, "ride_completed", map[string]interface{}{
		"ride_id":    rideID.String(),
		"final_fare": finalFare,
	})
	return updated, nil
}

// CancelRide is the rider-initiated cancellation path. The eligibility check
// here is a fast fail against a snapshot; the repository re-validates it
// under the row lock, so a ride that advances concurrently cannot slip
// through.
func (s *Service) CancelRide(ctx context.Context, rideID, riderID uuid.UUID, reason string) (*Ride, error) {
	ride, err := s.repo.GetRide(ctx, rideID)
	if err != nil {
		return nil, err
	}
	if ride.RiderID != riderID {
		return nil, common.NewForbiddenError("you are not the rider on this ride")
	}
	if !CancelableBy("rider", ride.Status) {
		return nil, common.NewInvalidStateError("ride cannot be cancelled from status " + ride.Status)
	}

	if reason == "" {
		reason = "cancelled by rider"
	}
	updated, err := s.repo.CancelRide(ctx, rideID, "rider", &riderID, reason)
	if err != nil {
		return nil, err
	}

	if ride.DriverID != nil {
		s.notify(ctx, *ride.DriverID, "ride_cancelled", map[string]interface{}{
			"ride_id": rideID.String(),
		})
	}
	return updated, nil
}

// RateRide records a rating exactly once on a completed ride
func (s *Service) RateRide(ctx context.Context, rideID, riderID uuid.UUID, rating int, comment string) error {
	if rating < 1 || rating > 5 {
		return common.NewBadRequestError("rating must be between 1 and 5", nil)
	}

	ride, err := s.repo.GetRide(ctx, rideID)
	if err != nil {
		return err
	}
	if ride.RiderID != riderID {
		return common.NewForbiddenError("you can only rate your own rides")
	}
	if ride.Status != StatusCompleted {
		return common.NewInvalidStateError("only a completed ride can be rated")
	}
	if ride.Rating != nil {
		return common.NewConflictError("ride has already been rated")
	}

	return s.repo.SetRating(ctx, rideID, rating, comment)
}

// PollRideStatus answers one poll against the authoritative ride status. The
// client's stage is a cursor hint only: side effects follow the true status.
// While the ride is searching, each poll drives one matching attempt.
func (s *Service) PollRideStatus(ctx context.Context, rideID, riderID uuid.UUID, stage int) (*PollResponse, error) {
	ride, err := s.repo.GetRide(ctx, rideID)
	if err != nil {
		return nil, err
	}
	if ride.RiderID != riderID {
		return nil, common.NewForbiddenError("you are not the rider on this ride")
	}

	if ride.Status == StatusScheduled && ride.ScheduledAt != nil && !ride.ScheduledAt.After(s.now()) {
		ride, err = s.repo.Transition(ctx, TransitionInput{
			RideID:    rideID,
			Target:    StatusSearching,
			ActorType: "system",
			Details:   "scheduled ride due, searching for driver",
		})
		if err != nil {
			return nil, err
		}
	}

	if ride.Status == StatusSearching {
		assignment, err := s.matcher.FindAndAssignDriver(ctx, rideID)
		switch {
		case err == nil:
			ride.Status = StatusConfirmed
			ride.DriverID = &assignment.Driver.ID
		case errors.Is(err, matching.ErrNoDriverAvailable):
			// expected: the rider keeps polling
		case errors.Is(err, matching.ErrRideNotClaimable):
			// a concurrent poll won the race; re-read the truth
			if ride, err = s.repo.GetRide(ctx, rideID); err != nil {
				return nil, err
			}
		default:
			return nil, err
		}
	}

	if ride.Status == StatusCancelled {
		return nil, common.NewInvalidStateError("ride has been cancelled")
	}

	resp := &PollResponse{
		RideID:    rideID,
		Status:    ride.Status,
		Stage:     StageFor(ride.Status),
		FinalFare: ride.FinalFare,
	}
	resp.NextStage = resp.Stage
	if resp.Stage < StageCompleted {
		resp.NextStage = resp.Stage + 1
	}

	switch ride.Status {
	case StatusScheduled, StatusSearching:
		resp.WaitSeconds = pollWaitSearching
	case StatusCompleted:
		resp.WaitSeconds = 0
	default:
		resp.WaitSeconds = pollWaitActive
	}

	if ride.DriverID != nil {
		driver, err := s.matcher.GetDriver(ctx, *ride.DriverID)
		if err != nil {
			logger.WithContext(ctx).Warn("failed to load assigned driver for poll",
				zap.String("ride_id", rideID.String()),
				zap.Error(err))
		} else {
			resp.Driver = &DriverInfo{
				ID:          driver.ID,
				Name:        driver.Name,
				Phone:       driver.Phone,
				VehicleType: driver.VehicleType,
				Rating:      driver.Rating,
			}
		}
	}

	// while a driver is working the ride, attach a non-binding route estimate
	if ride.DriverID != nil && !isTerminal(ride.Status) {
		route, err := s.resolver.EstimateDistance(ctx, ride.PickupAddress, ride.DropoffAddress)
		if err != nil {
			logger.WithContext(ctx).Warn("failed to estimate route for poll",
				zap.String("ride_id", rideID.String()),
				zap.Error(err))
		} else {
			resp.Eta = &EtaInfo{DistanceKm: route.DistanceKm, DurationSeconds: route.DurationSeconds}
		}
	}

	return resp, nil
}

func isParty(ride *Ride, userID uuid.UUID) bool {
	if ride.RiderID == userID {
		return true
	}
	return ride.DriverID != nil && *ride.DriverID == userID
}

// mapRoutingError translates provider failures into API errors. A provider
// that responded but found no path is the caller's problem; an unreachable
// provider is ours.
func mapRoutingError(err error) error {
	var resolveErr *routing.ResolveError
	if !errors.As(err, &resolveErr) {
		return err
	}
	switch resolveErr.Code {
	case routing.ErrCodeMissingParams:
		return common.NewBadRequestError(resolveErr.Message, resolveErr)
	case routing.ErrCodeNoRoute:
		return common.NewBadRequestError("no route found between addresses", resolveErr)
	default:
		return common.NewServiceUnavailableError(fmt.Sprintf("routing provider unavailable: %s", resolveErr.Code), resolveErr)
	}
}

func (s *Service) notify(ctx context.Context, userID uuid.UUID, eventType string, payload map[string]interface{}) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, userID, eventType, payload); err != nil {
		logger.WithContext(ctx).Warn("failed to send notification",
			zap.String("event_type", eventType),
			zap.Error(err))
	}
}
