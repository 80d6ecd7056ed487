package routing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/592Darkness/ride-dispatch/pkg/config"
)

// MockClient implements ClientInterface for testing
type MockClient struct {
	mock.Mock
}

func (m *MockClient) DistanceMatrix(ctx context.Context, origin, destination string) (*ProviderResponse, error) {
	args := m.Called(ctx, origin, destination)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ProviderResponse), args.Error(1)
}

// MockCache implements CacheInterface for testing
type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string) (*RouteEstimate, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*RouteEstimate), args.Error(1)
}

func (m *MockCache) Put(ctx context.Context, key string, estimate *RouteEstimate, ttl time.Duration) error {
	args := m.Called(ctx, key, estimate, ttl)
	return args.Error(0)
}

// MockRepository implements RepositoryInterface for testing
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) AppendCallLog(ctx context.Context, entry *APICallLog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func testConfig() *config.RoutingConfig {
	return &config.RoutingConfig{
		CacheTTL:      24 * time.Hour,
		FallbackMinKm: 2.0,
		FallbackMaxKm: 15.0,
	}
}

func newTestService() (*Service, *MockClient, *MockCache, *MockRepository) {
	client := new(MockClient)
	cache := new(MockCache)
	repo := new(MockRepository)
	return NewService(client, cache, repo, testConfig()), client, cache, repo
}

func TestResolveDistance_MissingParams(t *testing.T) {
	tests := []struct {
		name        string
		origin      string
		destination string
	}{
		{"empty origin", "", "Airport"},
		{"empty destination", "Downtown", ""},
		{"whitespace origin", "   ", "Airport"},
		{"both empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, client, _, _ := newTestService()

			_, err := svc.ResolveDistance(context.Background(), tt.origin, tt.destination)

			var rerr *ResolveError
			assert.ErrorAs(t, err, &rerr)
			assert.Equal(t, ErrCodeMissingParams, rerr.Code)
			client.AssertNotCalled(t, "DistanceMatrix")
		})
	}
}

func TestResolveDistance_CacheHitSkipsProvider(t *testing.T) {
	svc, client, cache, _ := newTestService()
	ctx := context.Background()

	cached := &RouteEstimate{DistanceKm: 10.5, DurationSeconds: 900}
	cache.On("Get", ctx, CacheKey("Downtown", "Airport")).Return(cached, nil)

	got, err := svc.ResolveDistance(ctx, "Downtown", "Airport")

	assert.NoError(t, err)
	assert.Equal(t, cached, got)
	client.AssertNotCalled(t, "DistanceMatrix")
}

func TestResolveDistance_CacheMissCallsProviderAndStores(t *testing.T) {
	svc, client, cache, repo := newTestService()
	ctx := context.Background()
	key := CacheKey("Downtown", "Airport")

	cache.On("Get", ctx, key).Return(nil, errors.New("redis: nil"))
	client.On("DistanceMatrix", ctx, "Downtown", "Airport").Return(&ProviderResponse{
		Status:              "OK",
		DistanceMeters:      10500,
		DurationSeconds:     930,
		ResolvedOrigin:      "Downtown, Springfield",
		ResolvedDestination: "Springfield Airport",
	}, nil)
	cache.On("Put", ctx, key, mock.AnythingOfType("*routing.RouteEstimate"), 24*time.Hour).Return(nil)
	repo.On("AppendCallLog", ctx, mock.AnythingOfType("*routing.APICallLog")).Return(nil)

	got, err := svc.ResolveDistance(ctx, "Downtown", "Airport")

	assert.NoError(t, err)
	assert.InDelta(t, 10.5, got.DistanceKm, 0.001)
	assert.Equal(t, 930, got.DurationSeconds)
	assert.Equal(t, "Downtown, Springfield", got.ResolvedOrigin)
	assert.False(t, got.Fallback)
	cache.AssertExpectations(t)
	repo.AssertCalled(t, "AppendCallLog", ctx, mock.MatchedBy(func(e *APICallLog) bool {
		return e.Success
	}))
}

func TestResolveDistance_ProviderErrorsClassified(t *testing.T) {
	tests := []struct {
		name     string
		err      *ResolveError
		wantCode string
	}{
		{"connection failure", newResolveError(ErrCodeConnectionError, "dial timeout", errors.New("i/o timeout")), ErrCodeConnectionError},
		{"provider failure", newResolveError(ErrCodeProviderError, "status 502", nil), ErrCodeProviderError},
		{"no route", newResolveError(ErrCodeNoRoute, "no route", nil), ErrCodeNoRoute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, client, cache, repo := newTestService()
			ctx := context.Background()

			cache.On("Get", ctx, mock.Anything).Return(nil, errors.New("redis: nil"))
			client.On("DistanceMatrix", ctx, "A", "B").Return(nil, tt.err)
			repo.On("AppendCallLog", ctx, mock.AnythingOfType("*routing.APICallLog")).Return(nil)

			_, err := svc.ResolveDistance(ctx, "A", "B")

			var rerr *ResolveError
			assert.ErrorAs(t, err, &rerr)
			assert.Equal(t, tt.wantCode, rerr.Code)
			// failures are still audited
			repo.AssertCalled(t, "AppendCallLog", ctx, mock.MatchedBy(func(e *APICallLog) bool {
				return !e.Success
			}))
		})
	}
}

func TestResolveDistance_CallLogFailureDoesNotFailOperation(t *testing.T) {
	svc, client, cache, repo := newTestService()
	ctx := context.Background()

	cache.On("Get", ctx, mock.Anything).Return(nil, errors.New("redis: nil"))
	client.On("DistanceMatrix", ctx, "A", "B").Return(&ProviderResponse{
		Status: "OK", DistanceMeters: 5000, DurationSeconds: 600,
	}, nil)
	cache.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	repo.On("AppendCallLog", ctx, mock.Anything).Return(errors.New("insert failed"))

	got, err := svc.ResolveDistance(ctx, "A", "B")

	assert.NoError(t, err)
	assert.InDelta(t, 5.0, got.DistanceKm, 0.001)
}

func TestEstimateDistance_FallbackWithinBounds(t *testing.T) {
	tests := []struct {
		name   string
		random float64
		wantKm float64
	}{
		{"lower bound", 0.0, 2.0},
		{"upper bound", 1.0, 15.0},
		{"midpoint", 0.5, 8.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, client, cache, repo := newTestService()
			svc.randFloat = func() float64 { return tt.random }
			ctx := context.Background()

			cache.On("Get", ctx, mock.Anything).Return(nil, errors.New("redis: nil"))
			client.On("DistanceMatrix", ctx, "A", "B").Return(nil, newResolveError(ErrCodeConnectionError, "down", nil))
			repo.On("AppendCallLog", ctx, mock.Anything).Return(nil)

			got, err := svc.EstimateDistance(ctx, "A", "B")

			assert.NoError(t, err)
			assert.True(t, got.Fallback)
			assert.InDelta(t, tt.wantKm, got.DistanceKm, 0.001)
			assert.GreaterOrEqual(t, got.DistanceKm, 2.0)
			assert.LessOrEqual(t, got.DistanceKm, 15.0)
		})
	}
}

func TestEstimateDistance_MissingParamsStillFails(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.EstimateDistance(context.Background(), "", "Airport")

	var rerr *ResolveError
	assert.ErrorAs(t, err, &rerr)
	assert.Equal(t, ErrCodeMissingParams, rerr.Code)
}

func TestEstimateDistance_NoFallbackOnSuccess(t *testing.T) {
	svc, _, cache, _ := newTestService()
	ctx := context.Background()

	cache.On("Get", ctx, mock.Anything).Return(&RouteEstimate{DistanceKm: 3.2}, nil)

	got, err := svc.EstimateDistance(ctx, "A", "B")

	assert.NoError(t, err)
	assert.False(t, got.Fallback)
	assert.Equal(t, 3.2, got.DistanceKm)
}

func TestCacheKey_Normalization(t *testing.T) {
	assert.Equal(t, CacheKey("Downtown Mall", "Airport"), CacheKey("  downtown   mall ", "AIRPORT"))
	assert.NotEqual(t, CacheKey("Downtown", "Airport"), CacheKey("Airport", "Downtown"))
}
