package routing

import (
	"context"
	"time"
)

// ClientInterface defines the routing provider client
type ClientInterface interface {
	DistanceMatrix(ctx context.Context, origin, destination string) (*ProviderResponse, error)
}

// CacheInterface defines the route cache. Entries past their TTL are treated
// as absent; the cache is a pure performance optimization.
type CacheInterface interface {
	Get(ctx context.Context, key string) (*RouteEstimate, error)
	Put(ctx context.Context, key string, estimate *RouteEstimate, ttl time.Duration) error
}

// RepositoryInterface defines the append-only API call log store
type RepositoryInterface interface {
	AppendCallLog(ctx context.Context, entry *APICallLog) error
}

// DistanceResolver is the surface other packages consume
type DistanceResolver interface {
	ResolveDistance(ctx context.Context, origin, destination string) (*RouteEstimate, error)
	EstimateDistance(ctx context.Context, origin, destination string) (*RouteEstimate, error)
}
