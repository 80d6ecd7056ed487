package fares

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/592Darkness/ride-dispatch/internal/routing"
)

// MockRepository implements RepositoryInterface for testing
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetActiveRate(ctx context.Context, vehicleType string) (*FareRate, error) {
	args := m.Called(ctx, vehicleType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*FareRate), args.Error(1)
}

// MockResolver implements DistanceEstimator for testing
type MockResolver struct {
	mock.Mock
}

func (m *MockResolver) EstimateDistance(ctx context.Context, origin, destination string) (*routing.RouteEstimate, error) {
	args := m.Called(ctx, origin, destination)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*routing.RouteEstimate), args.Error(1)
}

func offPeak() time.Time {
	return time.Date(2025, 3, 12, 12, 0, 0, 0, time.UTC)
}

func rushHourMorning() time.Time {
	return time.Date(2025, 3, 12, 8, 30, 0, 0, time.UTC)
}

// serviceWithRate pins an active rate row and the clock
func serviceWithRate(rate *FareRate, now func() time.Time) *Service {
	repo := new(MockRepository)
	repo.On("GetActiveRate", mock.Anything, mock.Anything).Return(rate, nil)
	return NewService(repo, nil).WithClock(now)
}

func TestComputeFare_Determinism(t *testing.T) {
	rate := &FareRate{VehicleType: VehicleStandard, BaseRate: 1000, PricePerKm: 200, MinimumFare: 1500, Multiplier: 1.0, IsActive: true}

	tests := []struct {
		name             string
		distanceKm       float64
		wantDistanceFare int64
		wantSubtotal     int64
		wantFinal        int64
		wantRounded      int64
	}{
		{"exact multiple of 100", 10.5, 2100, 3100, 3100, 3100},
		{"rounds up to next 100", 10.3, 2060, 3060, 3060, 3100},
		{"short trip above minimum", 2.5, 500, 1500, 1500, 1500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := serviceWithRate(rate, offPeak)

			got := svc.ComputeFare(context.Background(), tt.distanceKm, VehicleStandard)

			assert.Equal(t, tt.wantDistanceFare, got.DistanceFare)
			assert.Equal(t, tt.wantSubtotal, got.Subtotal)
			assert.Equal(t, 1.0, got.TrafficMultiplier)
			assert.Equal(t, tt.wantFinal, got.FinalFare)
			assert.Equal(t, tt.wantRounded, got.RoundedFare)
		})
	}
}

func TestComputeFare_RushHourMultiplier(t *testing.T) {
	rate := &FareRate{VehicleType: VehicleStandard, BaseRate: 1000, PricePerKm: 200, MinimumFare: 1500, Multiplier: 1.0, IsActive: true}

	tests := []struct {
		name        string
		hour        int
		wantTraffic float64
	}{
		{"before morning rush", 6, 1.0},
		{"morning rush start", 7, 1.2},
		{"morning rush end", 9, 1.2},
		{"midday", 12, 1.0},
		{"evening rush start", 16, 1.2},
		{"evening rush end", 18, 1.2},
		{"after evening rush", 19, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := serviceWithRate(rate, func() time.Time {
				return time.Date(2025, 3, 12, tt.hour, 15, 0, 0, time.UTC)
			})

			got := svc.ComputeFare(context.Background(), 10.5, VehicleStandard)

			assert.Equal(t, tt.wantTraffic, got.TrafficMultiplier)
			if tt.wantTraffic > 1.0 {
				// 3100 * 1.2 = 3720, rounded up to 3800
				assert.Equal(t, int64(3720), got.FinalFare)
				assert.Equal(t, int64(3800), got.RoundedFare)
			}
		})
	}
}

func TestComputeFare_MinimumFareFloor(t *testing.T) {
	for _, vehicleType := range []string{VehicleStandard, VehicleSUV, VehiclePremium} {
		t.Run(vehicleType, func(t *testing.T) {
			// no active rate row: built-in defaults apply
			repo := new(MockRepository)
			repo.On("GetActiveRate", mock.Anything, vehicleType).Return(nil, nil)
			svc := NewService(repo, nil).WithClock(offPeak)

			got := svc.ComputeFare(context.Background(), 0, vehicleType)

			assert.GreaterOrEqual(t, got.RoundedFare, defaultRates[vehicleType].MinimumFare)
			assert.Equal(t, got.MinimumFare, got.FinalFare)
		})
	}
}

func TestComputeFare_FailsSoftToDefaultsOnLookupError(t *testing.T) {
	repo := new(MockRepository)
	repo.On("GetActiveRate", mock.Anything, VehicleStandard).Return(nil, errors.New("db down"))
	svc := NewService(repo, nil).WithClock(offPeak)

	got := svc.ComputeFare(context.Background(), 10.5, VehicleStandard)

	assert.Equal(t, defaultRates[VehicleStandard].BaseRate, got.BaseRate)
	assert.Equal(t, int64(3100), got.RoundedFare)
}

func TestComputeFare_VehicleMultiplierApplied(t *testing.T) {
	rate := &FareRate{VehicleType: VehiclePremium, BaseRate: 1000, PricePerKm: 200, MinimumFare: 1500, Multiplier: 1.5, IsActive: true}
	svc := serviceWithRate(rate, offPeak)

	got := svc.ComputeFare(context.Background(), 10.0, VehiclePremium)

	// (1000 + 2000) * 1.5 = 4500
	assert.Equal(t, int64(4500), got.FinalFare)
	assert.Equal(t, int64(4500), got.RoundedFare)
}

func TestRoundUpTo100_Idempotent(t *testing.T) {
	for _, x := range []int64{0, 1, 99, 100, 101, 1500, 3060, 3100, 99999} {
		once := roundUpTo100(x)
		assert.Equal(t, once, roundUpTo100(once), "roundUpTo100 must be idempotent for %d", x)
		assert.Zero(t, once%100)
		assert.GreaterOrEqual(t, once, x)
	}
}

func TestEstimateFare_Validation(t *testing.T) {
	svc := NewService(new(MockRepository), new(MockResolver))

	tests := []struct {
		name        string
		pickup      string
		dropoff     string
		vehicleType string
	}{
		{"empty pickup", "", "Airport", VehicleStandard},
		{"empty dropoff", "Downtown", "", VehicleStandard},
		{"unsupported vehicle type", "Downtown", "Airport", "rickshaw"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.EstimateFare(context.Background(), tt.pickup, tt.dropoff, tt.vehicleType)
			assert.Error(t, err)
		})
	}
}

func TestEstimateFare_UsesFallbackDistance(t *testing.T) {
	repo := new(MockRepository)
	repo.On("GetActiveRate", mock.Anything, VehicleStandard).Return(nil, nil)
	resolver := new(MockResolver)
	resolver.On("EstimateDistance", mock.Anything, "Downtown", "Airport").Return(&routing.RouteEstimate{
		DistanceKm:      8.0,
		DurationSeconds: 720,
		Fallback:        true,
	}, nil)

	svc := NewService(repo, resolver).WithClock(offPeak)

	got, err := svc.EstimateFare(context.Background(), "Downtown", "Airport", VehicleStandard)

	assert.NoError(t, err)
	assert.True(t, got.DistanceFallback)
	// 1000 + 8*200 = 2600
	assert.Equal(t, int64(2600), got.RoundedFare)
	assert.Equal(t, 720, got.DurationSeconds)
}
