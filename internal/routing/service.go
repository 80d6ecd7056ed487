package routing

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/592Darkness/ride-dispatch/pkg/config"
	"github.com/592Darkness/ride-dispatch/pkg/logger"
)

// fallbackAverageSpeedKmh estimates duration for placeholder distances
const fallbackAverageSpeedKmh = 40.0

// Service resolves distances through the provider with a Redis cache in front
type Service struct {
	client ClientInterface
	cache  CacheInterface
	repo   RepositoryInterface

	cacheTTL      time.Duration
	fallbackMinKm float64
	fallbackMaxKm float64

	// injectable for deterministic fallback tests
	randFloat func() float64
}

// NewService creates a new routing service
func NewService(client ClientInterface, cache CacheInterface, repo RepositoryInterface, cfg *config.RoutingConfig) *Service {
	return &Service{
		client:        client,
		cache:         cache,
		repo:          repo,
		cacheTTL:      cfg.CacheTTL,
		fallbackMinKm: cfg.FallbackMinKm,
		fallbackMaxKm: cfg.FallbackMaxKm,
		randFloat:     rand.Float64,
	}
}

// ResolveDistance resolves two addresses to a distance/duration. Cached
// results are returned verbatim without touching the provider. Any provider
// failure is returned as a classified ResolveError; callers computing a
// binding final fare must propagate it.
func (s *Service) ResolveDistance(ctx context.Context, origin, destination string) (*RouteEstimate, error) {
	origin = strings.TrimSpace(origin)
	destination = strings.TrimSpace(destination)
	if origin == "" || destination == "" {
		return nil, newResolveError(ErrCodeMissingParams, "origin and destination are required", nil)
	}

	key := CacheKey(origin, destination)
	if cached, err := s.cache.Get(ctx, key); err == nil {
		return cached, nil
	}

	resp, err := s.client.DistanceMatrix(ctx, origin, destination)
	s.logCall(ctx, origin, destination, resp, err)
	if err != nil {
		return nil, err
	}

	estimate := &RouteEstimate{
		DistanceKm:          math.Round(float64(resp.DistanceMeters)/10.0) / 100.0,
		DurationSeconds:     resp.DurationSeconds,
		ResolvedOrigin:      resp.ResolvedOrigin,
		ResolvedDestination: resp.ResolvedDestination,
	}

	if err := s.cache.Put(ctx, key, estimate, s.cacheTTL); err != nil {
		logger.WithContext(ctx).Warn("Failed to cache route estimate", zap.Error(err))
	}

	return estimate, nil
}

// EstimateDistance is the best-effort variant for non-binding estimates.
// When the provider fails it substitutes a bounded-random placeholder
// distance instead of failing the whole operation. Never use this on a
// settlement path.
func (s *Service) EstimateDistance(ctx context.Context, origin, destination string) (*RouteEstimate, error) {
	estimate, err := s.ResolveDistance(ctx, origin, destination)
	if err == nil {
		return estimate, nil
	}

	if rerr, ok := err.(*ResolveError); ok && rerr.Code == ErrCodeMissingParams {
		return nil, err
	}

	distanceKm := s.fallbackMinKm + s.randFloat()*(s.fallbackMaxKm-s.fallbackMinKm)
	distanceKm = math.Round(distanceKm*100) / 100
	logger.WithContext(ctx).Warn("Falling back to placeholder distance",
		zap.String("origin", origin),
		zap.String("destination", destination),
		zap.Float64("distance_km", distanceKm),
		zap.Error(err),
	)

	return &RouteEstimate{
		DistanceKm:          distanceKm,
		DurationSeconds:     int(distanceKm / fallbackAverageSpeedKmh * 3600),
		ResolvedOrigin:      origin,
		ResolvedDestination: destination,
		Fallback:            true,
	}, nil
}

// logCall appends one audit row per provider call. Logging is best-effort
// and must never block or fail the primary operation.
func (s *Service) logCall(ctx context.Context, origin, destination string, resp *ProviderResponse, callErr error) {
	request, _ := json.Marshal(map[string]string{"origin": origin, "destination": destination})

	entry := &APICallLog{
		ID:             uuid.New(),
		Endpoint:       "distancematrix",
		RequestPayload: string(request),
		Success:        callErr == nil,
		CreatedAt:      time.Now(),
	}
	if callErr != nil {
		entry.ResponsePayload = fmt.Sprintf(`{"error":%q}`, callErr.Error())
	} else if resp != nil {
		response, _ := json.Marshal(resp)
		entry.ResponsePayload = string(response)
	}

	if err := s.repo.AppendCallLog(ctx, entry); err != nil {
		logger.WithContext(ctx).Warn("Failed to append API call log", zap.Error(err))
	}
}
