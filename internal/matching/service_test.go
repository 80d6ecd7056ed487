package matching

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockRepository implements RepositoryInterface for testing
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) ListAvailableDrivers(ctx context.Context, vehicleType string) ([]*Driver, error) {
	args := m.Called(ctx, vehicleType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Driver), args.Error(1)
}

func (m *MockRepository) GetDriver(ctx context.Context, driverID uuid.UUID) (*Driver, error) {
	args := m.Called(ctx, driverID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Driver), args.Error(1)
}

func (m *MockRepository) ClaimRide(ctx context.Context, rideID, driverID uuid.UUID) (*ClaimResult, error) {
	args := m.Called(ctx, rideID, driverID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ClaimResult), args.Error(1)
}

func (m *MockRepository) GetRideForMatching(ctx context.Context, rideID uuid.UUID) (*RideSummary, error) {
	args := m.Called(ctx, rideID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*RideSummary), args.Error(1)
}

// MockNotifier implements Notifier for testing
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, userID uuid.UUID, eventType string, payload map[string]interface{}) error {
	args := m.Called(ctx, userID, eventType, payload)
	return args.Error(0)
}

func testDriver(vehicleType string, updatedAgo time.Duration) *Driver {
	at := time.Now().Add(-updatedAgo)
	return &Driver{
		ID:                uuid.New(),
		Name:              "Test Driver",
		VehicleType:       vehicleType,
		Status:            DriverAvailable,
		Rating:            4.8,
		LocationUpdatedAt: &at,
	}
}

func searchingRide(vehicleType string) *RideSummary {
	return &RideSummary{
		ID:          uuid.New(),
		RiderID:     uuid.New(),
		Status:      "searching",
		VehicleType: vehicleType,
	}
}

func TestFindAndAssignDriver_AssignsFirstCandidate(t *testing.T) {
	repo := new(MockRepository)
	ride := searchingRide("standard")
	driver := testDriver("standard", time.Minute)

	repo.On("GetRideForMatching", mock.Anything, ride.ID).Return(ride, nil)
	repo.On("ListAvailableDrivers", mock.Anything, "standard").Return([]*Driver{driver}, nil)
	repo.On("ClaimRide", mock.Anything, ride.ID, driver.ID).Return(&ClaimResult{RiderID: ride.RiderID, FromStatus: "searching"}, nil)

	svc := NewService(repo, nil)
	assignment, err := svc.FindAndAssignDriver(context.Background(), ride.ID)

	assert.NoError(t, err)
	assert.Equal(t, driver.ID, assignment.Driver.ID)
	assert.Equal(t, ride.RiderID, assignment.RiderID)
	repo.AssertExpectations(t)
}

func TestFindAndAssignDriver_SkipsConcurrentlyClaimedDriver(t *testing.T) {
	repo := new(MockRepository)
	ride := searchingRide("standard")
	lost := testDriver("standard", time.Minute)
	winner := testDriver("standard", 5*time.Minute)

	repo.On("GetRideForMatching", mock.Anything, ride.ID).Return(ride, nil)
	repo.On("ListAvailableDrivers", mock.Anything, "standard").Return([]*Driver{lost, winner}, nil)
	// first candidate is grabbed by another ride between listing and claiming
	repo.On("ClaimRide", mock.Anything, ride.ID, lost.ID).Return(nil, ErrDriverClaimed)
	repo.On("ClaimRide", mock.Anything, ride.ID, winner.ID).Return(&ClaimResult{RiderID: ride.RiderID, FromStatus: "searching"}, nil)

	svc := NewService(repo, nil)
	assignment, err := svc.FindAndAssignDriver(context.Background(), ride.ID)

	assert.NoError(t, err)
	assert.Equal(t, winner.ID, assignment.Driver.ID)
	repo.AssertExpectations(t)
}

func TestFindAndAssignDriver_NoDriverAvailable(t *testing.T) {
	tests := []struct {
		name    string
		drivers []*Driver
		claims  bool
	}{
		{"empty pool", []*Driver{}, false},
		{"every candidate claimed", []*Driver{testDriver("standard", time.Minute)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			ride := searchingRide("standard")

			repo.On("GetRideForMatching", mock.Anything, ride.ID).Return(ride, nil)
			repo.On("ListAvailableDrivers", mock.Anything, "standard").Return(tt.drivers, nil)
			if tt.claims {
				repo.On("ClaimRide", mock.Anything, ride.ID, mock.Anything).Return(nil, ErrDriverClaimed)
			}

			svc := NewService(repo, nil)
			_, err := svc.FindAndAssignDriver(context.Background(), ride.ID)

			assert.ErrorIs(t, err, ErrNoDriverAvailable)
		})
	}
}

func TestFindAndAssignDriver_RideNotSearching(t *testing.T) {
	repo := new(MockRepository)
	ride := searchingRide("standard")
	ride.Status = "confirmed"

	repo.On("GetRideForMatching", mock.Anything, ride.ID).Return(ride, nil)

	svc := NewService(repo, nil)
	_, err := svc.FindAndAssignDriver(context.Background(), ride.ID)

	assert.ErrorIs(t, err, ErrRideNotClaimable)
	repo.AssertNotCalled(t, "ListAvailableDrivers", mock.Anything, mock.Anything)
}

func TestFindAndAssignDriver_NotifyFailureDoesNotFailAssignment(t *testing.T) {
	repo := new(MockRepository)
	notifier := new(MockNotifier)
	ride := searchingRide("standard")
	driver := testDriver("standard", time.Minute)

	repo.On("GetRideForMatching", mock.Anything, ride.ID).Return(ride, nil)
	repo.On("ListAvailableDrivers", mock.Anything, "standard").Return([]*Driver{driver}, nil)
	repo.On("ClaimRide", mock.Anything, ride.ID, driver.ID).Return(&ClaimResult{RiderID: ride.RiderID, FromStatus: "searching"}, nil)
	notifier.On("Notify", mock.Anything, ride.RiderID, "driver_assigned", mock.Anything).Return(errors.New("push gateway down"))

	svc := NewService(repo, notifier)
	assignment, err := svc.FindAndAssignDriver(context.Background(), ride.ID)

	assert.NoError(t, err)
	assert.NotNil(t, assignment)
	notifier.AssertExpectations(t)
}

func TestAcceptRide_VehicleMismatch(t *testing.T) {
	repo := new(MockRepository)
	ride := searchingRide("suv")
	driver := testDriver("standard", time.Minute)

	repo.On("GetRideForMatching", mock.Anything, ride.ID).Return(ride, nil)
	repo.On("GetDriver", mock.Anything, driver.ID).Return(driver, nil)

	svc := NewService(repo, nil)
	_, err := svc.AcceptRide(context.Background(), ride.ID, driver.ID)

	assert.ErrorIs(t, err, ErrVehicleMismatch)
	repo.AssertNotCalled(t, "ClaimRide", mock.Anything, mock.Anything, mock.Anything)
}

func TestAcceptRide_Success(t *testing.T) {
	repo := new(MockRepository)
	ride := searchingRide("suv")
	driver := testDriver("SUV", time.Minute) // case-insensitive match

	repo.On("GetRideForMatching", mock.Anything, ride.ID).Return(ride, nil)
	repo.On("GetDriver", mock.Anything, driver.ID).Return(driver, nil)
	repo.On("ClaimRide", mock.Anything, ride.ID, driver.ID).Return(&ClaimResult{RiderID: ride.RiderID, FromStatus: "searching"}, nil)

	svc := NewService(repo, nil)
	assignment, err := svc.AcceptRide(context.Background(), ride.ID, driver.ID)

	assert.NoError(t, err)
	assert.Equal(t, driver.ID, assignment.Driver.ID)
}

func TestAcceptRide_RideAlreadyClaimed(t *testing.T) {
	repo := new(MockRepository)
	ride := searchingRide("standard")
	driver := testDriver("standard", time.Minute)

	repo.On("GetRideForMatching", mock.Anything, ride.ID).Return(ride, nil)
	repo.On("GetDriver", mock.Anything, driver.ID).Return(driver, nil)
	// another driver's claim committed between the status read and this claim
	repo.On("ClaimRide", mock.Anything, ride.ID, driver.ID).Return(nil, ErrRideNotClaimable)

	svc := NewService(repo, nil)
	_, err := svc.AcceptRide(context.Background(), ride.ID, driver.ID)

	assert.ErrorIs(t, err, ErrRideNotClaimable)
}
