package matching

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/592Darkness/ride-dispatch/internal/fares"
	"github.com/592Darkness/ride-dispatch/pkg/logger"
)

// Service implements driver matching business logic
type Service struct {
	repo     RepositoryInterface
	notifier Notifier
}

// NewService creates a new matching service. The notifier may be nil;
// matching works without one, riders just fall back to polling.
func NewService(repo RepositoryInterface, notifier Notifier) *Service {
	return &Service{repo: repo, notifier: notifier}
}

// FindAndAssignDriver walks the available-driver pool for a searching ride
// and claims the first driver whose claim transaction commits. Drivers lost
// to concurrent claims are skipped, not retried. Returns ErrNoDriverAvailable
// when the pool is exhausted and ErrRideNotClaimable when the ride has left
// the searching state.
func (s *Service) FindAndAssignDriver(ctx context.Context, rideID uuid.UUID) (*DriverAssignment, error) {
	log := logger.WithContext(ctx)

	ride, err := s.repo.GetRideForMatching(ctx, rideID)
	if err != nil {
		return nil, err
	}
	if ride.Status != "searching" {
		return nil, ErrRideNotClaimable
	}

	candidates, err := s.repo.ListAvailableDrivers(ctx, ride.VehicleType)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, ErrNoDriverAvailable
	}

	for _, driver := range candidates {
		result, err := s.repo.ClaimRide(ctx, rideID, driver.ID)
		if err == ErrDriverClaimed {
			// lost the race for this driver, try the next one
			log.Debug("driver claimed concurrently, skipping",
				zap.String("ride_id", rideID.String()),
				zap.String("driver_id", driver.ID.String()))
			continue
		}
		if err != nil {
			return nil, err
		}

		assignment := &DriverAssignment{
			RideID:     rideID,
			RiderID:    result.RiderID,
			Driver:     driver,
			AssignedAt: time.Now(),
		}
		s.notifyAssigned(ctx, assignment)
		return assignment, nil
	}

	return nil, ErrNoDriverAvailable
}

// GetDriver returns a driver by ID
func (s *Service) GetDriver(ctx context.Context, driverID uuid.UUID) (*Driver, error) {
	return s.repo.GetDriver(ctx, driverID)
}

// AcceptRide is the driver-initiated path: a specific driver claims a
// specific searching ride. Vehicle type must match the ride's request.
func (s *Service) AcceptRide(ctx context.Context, rideID, driverID uuid.UUID) (*DriverAssignment, error) {
	ride, err := s.repo.GetRideForMatching(ctx, rideID)
	if err != nil {
		return nil, err
	}
	if ride.Status != "searching" {
		return nil, ErrRideNotClaimable
	}

	driver, err := s.repo.GetDriver(ctx, driverID)
	if err != nil {
		return nil, err
	}
	if fares.NormalizeVehicleType(driver.VehicleType) != fares.NormalizeVehicleType(ride.VehicleType) {
		return nil, ErrVehicleMismatch
	}

	result, err := s.repo.ClaimRide(ctx, rideID, driverID)
	if err != nil {
		return nil, err
	}

	assignment := &DriverAssignment{
		RideID:     rideID,
		RiderID:    result.RiderID,
		Driver:     driver,
		AssignedAt: time.Now(),
	}
	s.notifyAssigned(ctx, assignment)
	return assignment, nil
}

// notifyAssigned tells the rider a driver is on the way. The claim has
// already committed, so a notification failure is logged and swallowed.
func (s *Service) notifyAssigned(ctx context.Context, assignment *DriverAssignment) {
	if s.notifier == nil {
		return
	}

	payload := map[string]interface{}{
		"ride_id":      assignment.RideID.String(),
		"driver_id":    assignment.Driver.ID.String(),
		"driver_name":  assignment.Driver.Name,
		"vehicle_type": assignment.Driver.VehicleType,
		"rating":       assignment.Driver.Rating,
	}
	if err := s.notifier.Notify(ctx, assignment.RiderID, "driver_assigned", payload); err != nil {
		logger.WithContext(ctx).Warn("failed to notify rider of assignment",
			zap.String("ride_id", assignment.RideID.String()),
			zap.Error(err))
	}
}
