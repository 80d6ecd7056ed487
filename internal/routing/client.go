package routing

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/url"

	"github.com/592Darkness/ride-dispatch/pkg/config"
)

// Client calls the external routing provider over HTTP with bounded timeouts
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a routing provider client. The connect timeout bounds
// dialing; the total timeout bounds the whole request including the body.
func NewClient(cfg *config.RoutingConfig) *Client {
	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout: cfg.ConnectTimeout,
		}).DialContext,
	}
	return &Client{
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout:   cfg.TotalTimeout,
			Transport: transport,
		},
	}
}

// DistanceMatrix resolves origin/destination to distance and duration
func (c *Client) DistanceMatrix(ctx context.Context, origin, destination string) (*ProviderResponse, error) {
	endpoint := fmt.Sprintf("%s/v1/distancematrix?origin=%s&destination=%s",
		c.baseURL, url.QueryEscape(origin), url.QueryEscape(destination))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, newResolveError(ErrCodeConnectionError, "failed to build provider request", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, newResolveError(ErrCodeConnectionError, "routing provider unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, newResolveError(ErrCodeProviderError, fmt.Sprintf("routing provider returned status %d", resp.StatusCode), nil)
	}

	var payload ProviderResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, newResolveError(ErrCodeProviderError, "malformed provider response", err)
	}

	switch payload.Status {
	case "OK":
		return &payload, nil
	case "NO_ROUTE", "ZERO_RESULTS":
		return nil, newResolveError(ErrCodeNoRoute, "no route between origin and destination", nil)
	default:
		return nil, newResolveError(ErrCodeProviderError, fmt.Sprintf("routing provider status %q", payload.Status), nil)
	}
}
