package httpserver_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harvestmarket/cache-service/internal/core/ports"
	"github.com/harvestmarket/cache-service/internal/infrastructure/httpserver"
)

type healthResponse struct {
	Status       string            `json:"status"`
	Service      string            `json:"service"`
	Dependencies map[string]string `json:"dependencies"`
}

func TestHealthEndpoint_AllHealthy(t *testing.T) {
	ts := newTestServer(t, httpserver.ServerDeps{
		CacheService:       &cacheServiceMock{},
		CatalogService:     &catalogServiceMock{},
		RateLimiterService: &rateLimiterServiceMock{},
		HealthCheckers: []ports.HealthChecker{
			&healthCheckerMock{name: "database"},
			&healthCheckerMock{name: "redis"},
		},
	})

	resp, body := doJSON(t, ts, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out healthResponse
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, "healthy", out.Status)
	assert.Equal(t, "cache-service", out.Service)
	assert.Equal(t, "healthy", out.Dependencies["database"])
	assert.Equal(t, "healthy", out.Dependencies["redis"])
}

func TestHealthEndpoint_DegradedDependency(t *testing.T) {
	ts := newTestServer(t, httpserver.ServerDeps{
		CacheService:       &cacheServiceMock{},
		CatalogService:     &catalogServiceMock{},
		RateLimiterService: &rateLimiterServiceMock{},
		HealthCheckers: []ports.HealthChecker{
			&healthCheckerMock{name: "database"},
			&healthCheckerMock{name: "redis", CheckFn: func(ctx context.Context) error {
				return errors.New("connection refused")
			}},
		},
	})

	resp, body := doJSON(t, ts, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	var out healthResponse
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, "degraded", out.Status)
	assert.Equal(t, "healthy", out.Dependencies["database"])
	assert.Equal(t, "unhealthy", out.Dependencies["redis"])
}

func TestHealthEndpoint_NoCheckers(t *testing.T) {
	ts := newTestServer(t, httpserver.ServerDeps{
		CacheService:       &cacheServiceMock{},
		CatalogService:     &catalogServiceMock{},
		RateLimiterService: &rateLimiterServiceMock{},
	})

	resp, body := doJSON(t, ts, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out healthResponse
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, "healthy", out.Status)
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t, httpserver.ServerDeps{
		CacheService:       &cacheServiceMock{},
		CatalogService:     &catalogServiceMock{},
		RateLimiterService: &rateLimiterServiceMock{},
	})

	// One served request so the HTTP counters have something to report.
	resp, _ := doJSON(t, ts, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := doJSON(t, ts, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "http_requests_total")
	assert.Contains(t, string(body), "go_goroutines")
}
