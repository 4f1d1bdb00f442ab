package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/harvestmarket/cache-service/internal/core/domain/farmer"
	"github.com/harvestmarket/cache-service/internal/core/domain/product"
	"github.com/harvestmarket/cache-service/internal/core/ports"
)

const (
	defaultSearchLimit = 50
	maxSearchLimit     = 100
)

// CatalogService serves the read-heavy catalog operations. It is wired with
// the caching repository decorators, so reads flow through the cache tiers
// and writes invalidate them.
type CatalogService struct {
	products ports.ProductRepository
	farmers  ports.FarmerRepository
	logger   *logrus.Logger
}

func NewCatalogService(products ports.ProductRepository, farmers ports.FarmerRepository, logger *logrus.Logger) ports.CatalogService {
	return &CatalogService{
		products: products,
		farmers:  farmers,
		logger:   logger,
	}
}

func (s *CatalogService) GetProduct(ctx context.Context, id uuid.UUID) (*product.Product, error) {
	return s.products.GetByID(ctx, id)
}

// SearchProducts normalizes the query before it reaches the caching layer so
// equivalent searches share one cache key.
func (s *CatalogService) SearchProducts(ctx context.Context, q *product.SearchQuery) ([]*product.Product, error) {
	query := product.SearchQuery{}
	if q != nil {
		query = *q
	}
	if query.Limit <= 0 || query.Limit > maxSearchLimit {
		query.Limit = defaultSearchLimit
	}
	if query.Offset < 0 {
		query.Offset = 0
	}
	return s.products.Search(ctx, &query)
}

func (s *CatalogService) UpdateProduct(ctx context.Context, id uuid.UUID, req *product.UpdateProductRequest) (*product.Product, error) {
	existing, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Update fields if provided
	if req.Name != nil {
		existing.Name = *req.Name
	}
	if req.Category != nil {
		existing.Category = *req.Category
	}
	if req.Description != nil {
		existing.Description = *req.Description
	}
	if req.PriceCents != nil {
		existing.PriceCents = *req.PriceCents
	}
	if req.Unit != nil {
		existing.Unit = *req.Unit
	}
	if req.Organic != nil {
		existing.Organic = *req.Organic
	}
	if req.Status != nil {
		existing.Status = *req.Status
	}

	// Update timestamp
	existing.UpdatedAt = time.Now()

	if err := s.products.Update(ctx, existing); err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	return existing, nil
}

func (s *CatalogService) GetFarmer(ctx context.Context, id uuid.UUID) (*farmer.Farmer, error) {
	return s.farmers.GetByID(ctx, id)
}

func (s *CatalogService) GetFarmerProducts(ctx context.Context, farmerID uuid.UUID) ([]*product.Product, error) {
	return s.products.ListByFarmer(ctx, farmerID)
}
