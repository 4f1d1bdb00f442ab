package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/harvestmarket/cache-service/internal/core/domain/farmer"
	"github.com/harvestmarket/cache-service/internal/core/domain/product"
)

// ProductRepository defines the interface for product data operations
type ProductRepository interface {
	Create(ctx context.Context, p *product.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*product.Product, error)
	Update(ctx context.Context, p *product.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	Search(ctx context.Context, q *product.SearchQuery) ([]*product.Product, error)
	ListByFarmer(ctx context.Context, farmerID uuid.UUID) ([]*product.Product, error)
}

// FarmerRepository defines the interface for farmer data operations
type FarmerRepository interface {
	Create(ctx context.Context, f *farmer.Farmer) error
	GetByID(ctx context.Context, id uuid.UUID) (*farmer.Farmer, error)
	Update(ctx context.Context, f *farmer.Farmer) error
	List(ctx context.Context, limit, offset int) ([]*farmer.Farmer, error)
}

// CatalogService defines the read-heavy catalog operations served through the cache
type CatalogService interface {
	GetProduct(ctx context.Context, id uuid.UUID) (*product.Product, error)
	SearchProducts(ctx context.Context, q *product.SearchQuery) ([]*product.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, req *product.UpdateProductRequest) (*product.Product, error)
	GetFarmer(ctx context.Context, id uuid.UUID) (*farmer.Farmer, error)
	GetFarmerProducts(ctx context.Context, farmerID uuid.UUID) ([]*product.Product, error)
}
