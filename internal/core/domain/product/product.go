package product

import (
	"time"

	"github.com/google/uuid"
)

type Product struct {
	ID          uuid.UUID     `json:"id" db:"id"`
	FarmerID    uuid.UUID     `json:"farmer_id" db:"farmer_id"`
	Name        string        `json:"name" db:"name"`
	Category    string        `json:"category" db:"category"`
	Description string        `json:"description" db:"description"`
	PriceCents  int64         `json:"price_cents" db:"price_cents"`
	Unit        string        `json:"unit" db:"unit"`
	Organic     bool          `json:"organic" db:"organic"`
	Status      ProductStatus `json:"status" db:"status"`
	CreatedAt   time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at" db:"updated_at"`
}

type ProductStatus string

const (
	ProductStatusAvailable   ProductStatus = "available"
	ProductStatusOutOfSeason ProductStatus = "out_of_season"
	ProductStatusDelisted    ProductStatus = "delisted"
)

// Purchasable returns true if the product can currently be ordered.
func (p *Product) Purchasable() bool {
	return p.Status == ProductStatusAvailable
}

// SearchQuery narrows a catalog search. Zero-value fields are ignored.
type SearchQuery struct {
	Term     string `json:"term"`
	Category string `json:"category"`
	Organic  *bool  `json:"organic,omitempty"`
	Limit    int    `json:"limit"`
	Offset   int    `json:"offset"`
}

// CreateProductRequest represents the request to list a new product
type CreateProductRequest struct {
	FarmerID    uuid.UUID `json:"farmer_id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	PriceCents  int64     `json:"price_cents"`
	Unit        string    `json:"unit"`
	Organic     bool      `json:"organic"`
}

// UpdateProductRequest represents the request to update a product
type UpdateProductRequest struct {
	Name        *string        `json:"name,omitempty"`
	Category    *string        `json:"category,omitempty"`
	Description *string        `json:"description,omitempty"`
	PriceCents  *int64         `json:"price_cents,omitempty"`
	Unit        *string        `json:"unit,omitempty"`
	Organic     *bool          `json:"organic,omitempty"`
	Status      *ProductStatus `json:"status,omitempty"`
}
