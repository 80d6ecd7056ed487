package routing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/592Darkness/ride-dispatch/pkg/config"
)

func clientForServer(serverURL string) *Client {
	return NewClient(&config.RoutingConfig{
		BaseURL:        serverURL,
		ConnectTimeout: time.Second,
		TotalTimeout:   2 * time.Second,
	})
}

func TestDistanceMatrix_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Downtown", r.URL.Query().Get("origin"))
		assert.Equal(t, "Airport", r.URL.Query().Get("destination"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"OK","distance_meters":10500,"duration_seconds":930,"resolved_origin":"Downtown, Springfield","resolved_destination":"Springfield Airport"}`))
	}))
	defer server.Close()

	resp, err := clientForServer(server.URL).DistanceMatrix(context.Background(), "Downtown", "Airport")

	assert.NoError(t, err)
	assert.Equal(t, 10500, resp.DistanceMeters)
	assert.Equal(t, 930, resp.DurationSeconds)
}

func TestDistanceMatrix_NoRoute(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"NO_ROUTE"}`))
	}))
	defer server.Close()

	_, err := clientForServer(server.URL).DistanceMatrix(context.Background(), "A", "B")

	var rerr *ResolveError
	assert.ErrorAs(t, err, &rerr)
	assert.Equal(t, ErrCodeNoRoute, rerr.Code)
}

func TestDistanceMatrix_ProviderStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := clientForServer(server.URL).DistanceMatrix(context.Background(), "A", "B")

	var rerr *ResolveError
	assert.ErrorAs(t, err, &rerr)
	assert.Equal(t, ErrCodeProviderError, rerr.Code)
}

func TestDistanceMatrix_MalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer server.Close()

	_, err := clientForServer(server.URL).DistanceMatrix(context.Background(), "A", "B")

	var rerr *ResolveError
	assert.ErrorAs(t, err, &rerr)
	assert.Equal(t, ErrCodeProviderError, rerr.Code)
}

func TestDistanceMatrix_ConnectionError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	_, err := clientForServer(server.URL).DistanceMatrix(context.Background(), "A", "B")

	var rerr *ResolveError
	assert.ErrorAs(t, err, &rerr)
	assert.Equal(t, ErrCodeConnectionError, rerr.Code)
}
