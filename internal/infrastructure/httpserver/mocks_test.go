package httpserver_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/harvestmarket/cache-service/internal/core/domain/farmer"
	"github.com/harvestmarket/cache-service/internal/core/domain/product"
	"github.com/harvestmarket/cache-service/internal/core/ports"
	"github.com/harvestmarket/cache-service/internal/infrastructure/httpserver"
)

type cacheServiceMock struct {
	GetFn        func(ctx context.Context, key string, fetch ports.FetchFunc, opts *ports.CacheOptions) (any, error)
	SetFn        func(ctx context.Context, key string, value any, opts *ports.CacheOptions)
	DeleteFn     func(ctx context.Context, key string)
	InvalidateFn func(ctx context.Context, pattern string)
	WarmFn       func(ctx context.Context, entries []ports.WarmEntry)
	StatsFn      func(ctx context.Context) ports.CacheStats
	CloseFn      func() error
}

func (m *cacheServiceMock) Get(ctx context.Context, key string, fetch ports.FetchFunc, opts *ports.CacheOptions) (any, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, key, fetch, opts)
	}
	return nil, nil
}

func (m *cacheServiceMock) Set(ctx context.Context, key string, value any, opts *ports.CacheOptions) {
	if m.SetFn != nil {
		m.SetFn(ctx, key, value, opts)
	}
}

func (m *cacheServiceMock) Delete(ctx context.Context, key string) {
	if m.DeleteFn != nil {
		m.DeleteFn(ctx, key)
	}
}

func (m *cacheServiceMock) Invalidate(ctx context.Context, pattern string) {
	if m.InvalidateFn != nil {
		m.InvalidateFn(ctx, pattern)
	}
}

func (m *cacheServiceMock) Warm(ctx context.Context, entries []ports.WarmEntry) {
	if m.WarmFn != nil {
		m.WarmFn(ctx, entries)
	}
}

func (m *cacheServiceMock) Stats(ctx context.Context) ports.CacheStats {
	if m.StatsFn != nil {
		return m.StatsFn(ctx)
	}
	return ports.CacheStats{}
}

func (m *cacheServiceMock) Close() error {
	if m.CloseFn != nil {
		return m.CloseFn()
	}
	return nil
}

type catalogServiceMock struct {
	GetProductFn        func(ctx context.Context, id uuid.UUID) (*product.Product, error)
	SearchProductsFn    func(ctx context.Context, q *product.SearchQuery) ([]*product.Product, error)
	UpdateProductFn     func(ctx context.Context, id uuid.UUID, req *product.UpdateProductRequest) (*product.Product, error)
	GetFarmerFn         func(ctx context.Context, id uuid.UUID) (*farmer.Farmer, error)
	GetFarmerProductsFn func(ctx context.Context, farmerID uuid.UUID) ([]*product.Product, error)
}

func (m *catalogServiceMock) GetProduct(ctx context.Context, id uuid.UUID) (*product.Product, error) {
	if m.GetProductFn != nil {
		return m.GetProductFn(ctx, id)
	}
	return nil, nil
}

func (m *catalogServiceMock) SearchProducts(ctx context.Context, q *product.SearchQuery) ([]*product.Product, error) {
	if m.SearchProductsFn != nil {
		return m.SearchProductsFn(ctx, q)
	}
	return nil, nil
}

func (m *catalogServiceMock) UpdateProduct(ctx context.Context, id uuid.UUID, req *product.UpdateProductRequest) (*product.Product, error) {
	if m.UpdateProductFn != nil {
		return m.UpdateProductFn(ctx, id, req)
	}
	return nil, nil
}

func (m *catalogServiceMock) GetFarmer(ctx context.Context, id uuid.UUID) (*farmer.Farmer, error) {
	if m.GetFarmerFn != nil {
		return m.GetFarmerFn(ctx, id)
	}
	return nil, nil
}

func (m *catalogServiceMock) GetFarmerProducts(ctx context.Context, farmerID uuid.UUID) ([]*product.Product, error) {
	if m.GetFarmerProductsFn != nil {
		return m.GetFarmerProductsFn(ctx, farmerID)
	}
	return nil, nil
}

type rateLimiterServiceMock struct {
	AllowFn func(ctx context.Context, clientKey string) (bool, int, int, time.Time, error)
}

func (m *rateLimiterServiceMock) Allow(ctx context.Context, clientKey string) (bool, int, int, time.Time, error) {
	if m.AllowFn != nil {
		return m.AllowFn(ctx, clientKey)
	}
	return true, 100, 100, time.Now().Add(time.Minute), nil
}

type healthCheckerMock struct {
	name    string
	CheckFn func(ctx context.Context) error
}

func (m *healthCheckerMock) Name() string { return m.name }

func (m *healthCheckerMock) Check(ctx context.Context) error {
	if m.CheckFn != nil {
		return m.CheckFn(ctx)
	}
	return nil
}

func newTestServer(t *testing.T, deps httpserver.ServerDeps) *httptest.Server {
	t.Helper()
	srv := httpserver.NewServer(&httpserver.ServerConfig{
		Host:         "127.0.0.1",
		Port:         "0",
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
		IdleTimeout:  time.Second,
	}, logrus.New(), deps)

	ts := httptest.NewServer(srv.Echo())
	t.Cleanup(ts.Close)
	return ts
}

func doJSON(t *testing.T, ts *httptest.Server, method, path string, body any) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, ts.URL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, respBody
}
