package httpserver_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harvestmarket/cache-service/internal/core/domain/farmer"
	"github.com/harvestmarket/cache-service/internal/core/domain/product"
	"github.com/harvestmarket/cache-service/internal/infrastructure/httpserver"
)

func TestGetProductEndpoint(t *testing.T) {
	id := uuid.New()
	catalogMock := &catalogServiceMock{
		GetProductFn: func(ctx context.Context, got uuid.UUID) (*product.Product, error) {
			if got != id {
				return nil, errors.New("product not found")
			}
			return &product.Product{ID: id, Name: "Kale", PriceCents: 350, Status: product.ProductStatusAvailable}, nil
		},
	}
	ts := newTestServer(t, httpserver.ServerDeps{
		CacheService:       &cacheServiceMock{},
		CatalogService:     catalogMock,
		RateLimiterService: &rateLimiterServiceMock{},
	})

	t.Run("existing product", func(t *testing.T) {
		resp, body := doJSON(t, ts, http.MethodGet, "/api/v1/products/"+id.String(), nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var p product.Product
		require.NoError(t, json.Unmarshal(body, &p))
		assert.Equal(t, id, p.ID)
		assert.Equal(t, "Kale", p.Name)
		assert.Equal(t, int64(350), p.PriceCents)
	})

	t.Run("malformed id", func(t *testing.T) {
		resp, _ := doJSON(t, ts, http.MethodGet, "/api/v1/products/not-a-uuid", nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("unknown product", func(t *testing.T) {
		resp, _ := doJSON(t, ts, http.MethodGet, "/api/v1/products/"+uuid.NewString(), nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestSearchProductsEndpoint(t *testing.T) {
	var gotQuery *product.SearchQuery
	catalogMock := &catalogServiceMock{
		SearchProductsFn: func(ctx context.Context, q *product.SearchQuery) ([]*product.Product, error) {
			gotQuery = q
			return []*product.Product{{Name: "Kale"}, {Name: "Chard"}}, nil
		},
	}
	ts := newTestServer(t, httpserver.ServerDeps{
		CacheService:       &cacheServiceMock{},
		CatalogService:     catalogMock,
		RateLimiterService: &rateLimiterServiceMock{},
	})

	resp, body := doJSON(t, ts, http.MethodGet, "/api/v1/products?q=kale&category=greens&organic=true&limit=20&offset=5", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.NotNil(t, gotQuery)
	assert.Equal(t, "kale", gotQuery.Term)
	assert.Equal(t, "greens", gotQuery.Category)
	require.NotNil(t, gotQuery.Organic)
	assert.True(t, *gotQuery.Organic)
	assert.Equal(t, 20, gotQuery.Limit)
	assert.Equal(t, 5, gotQuery.Offset)

	var out struct {
		Products []*product.Product `json:"products"`
		Count    int                `json:"count"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, 2, out.Count)
	assert.Len(t, out.Products, 2)
}

func TestUpdateProductEndpoint(t *testing.T) {
	id := uuid.New()
	var gotReq *product.UpdateProductRequest
	catalogMock := &catalogServiceMock{
		UpdateProductFn: func(ctx context.Context, gotID uuid.UUID, req *product.UpdateProductRequest) (*product.Product, error) {
			require.Equal(t, id, gotID)
			gotReq = req
			return &product.Product{ID: id, Name: *req.Name, PriceCents: *req.PriceCents}, nil
		},
	}
	ts := newTestServer(t, httpserver.ServerDeps{
		CacheService:       &cacheServiceMock{},
		CatalogService:     catalogMock,
		RateLimiterService: &rateLimiterServiceMock{},
	})

	t.Run("valid update", func(t *testing.T) {
		resp, body := doJSON(t, ts, http.MethodPut, "/api/v1/products/"+id.String(), map[string]any{
			"name":        "Lacinato Kale",
			"price_cents": 425,
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		require.NotNil(t, gotReq)
		require.NotNil(t, gotReq.Name)
		assert.Equal(t, "Lacinato Kale", *gotReq.Name)
		require.NotNil(t, gotReq.PriceCents)
		assert.Equal(t, int64(425), *gotReq.PriceCents)
		assert.Nil(t, gotReq.Status, "unsent fields stay nil")

		var p product.Product
		require.NoError(t, json.Unmarshal(body, &p))
		assert.Equal(t, "Lacinato Kale", p.Name)
	})

	t.Run("malformed id", func(t *testing.T) {
		resp, _ := doJSON(t, ts, http.MethodPut, "/api/v1/products/nope", map[string]any{"name": "x"})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestUpdateProductEndpoint_ServiceError(t *testing.T) {
	catalogMock := &catalogServiceMock{
		UpdateProductFn: func(ctx context.Context, id uuid.UUID, req *product.UpdateProductRequest) (*product.Product, error) {
			return nil, errors.New("failed to update product")
		},
	}
	ts := newTestServer(t, httpserver.ServerDeps{
		CacheService:       &cacheServiceMock{},
		CatalogService:     catalogMock,
		RateLimiterService: &rateLimiterServiceMock{},
	})

	resp, _ := doJSON(t, ts, http.MethodPut, "/api/v1/products/"+uuid.NewString(), map[string]any{"name": "x"})
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestGetFarmerEndpoints(t *testing.T) {
	farmerID := uuid.New()
	catalogMock := &catalogServiceMock{
		GetFarmerFn: func(ctx context.Context, got uuid.UUID) (*farmer.Farmer, error) {
			if got != farmerID {
				return nil, errors.New("farmer not found")
			}
			return &farmer.Farmer{ID: farmerID, FarmName: "Green Acres", Verified: true}, nil
		},
		GetFarmerProductsFn: func(ctx context.Context, got uuid.UUID) ([]*product.Product, error) {
			require.Equal(t, farmerID, got)
			return []*product.Product{{Name: "Kale"}, {Name: "Chard"}, {Name: "Leeks"}}, nil
		},
	}
	ts := newTestServer(t, httpserver.ServerDeps{
		CacheService:       &cacheServiceMock{},
		CatalogService:     catalogMock,
		RateLimiterService: &rateLimiterServiceMock{},
	})

	t.Run("existing farmer", func(t *testing.T) {
		resp, body := doJSON(t, ts, http.MethodGet, "/api/v1/farmers/"+farmerID.String(), nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var f farmer.Farmer
		require.NoError(t, json.Unmarshal(body, &f))
		assert.Equal(t, "Green Acres", f.FarmName)
	})

	t.Run("unknown farmer", func(t *testing.T) {
		resp, _ := doJSON(t, ts, http.MethodGet, "/api/v1/farmers/"+uuid.NewString(), nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("farmer products", func(t *testing.T) {
		resp, body := doJSON(t, ts, http.MethodGet, "/api/v1/farmers/"+farmerID.String()+"/products", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var out struct {
			Count int `json:"count"`
		}
		require.NoError(t, json.Unmarshal(body, &out))
		assert.Equal(t, 3, out.Count)
	})
}
