package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/harvestmarket/cache-service/internal/core/domain/product"
	"github.com/harvestmarket/cache-service/internal/core/ports"
	"github.com/harvestmarket/cache-service/internal/infrastructure/db"
)

// ProductRepository implements the product repository interface over Postgres
type ProductRepository struct {
	db     *db.Database
	logger *logrus.Logger
}

// NewProductRepository creates a new product repository
func NewProductRepository(database *db.Database, logger *logrus.Logger) ports.ProductRepository {
	return &ProductRepository{
		db:     database,
		logger: logger,
	}
}

// Create lists a new product in the catalog
func (r *ProductRepository) Create(ctx context.Context, p *product.Product) error {
	query := `
		INSERT INTO products (id, farmer_id, name, category, description, price_cents, unit, organic, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.DB.ExecContext(ctx, query,
		p.ID, p.FarmerID, p.Name, p.Category, p.Description,
		p.PriceCents, p.Unit, p.Organic, p.Status)
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"product_id": p.ID, "farmer_id": p.FarmerID}).WithError(err).Error("db: failed to create product")
		}
		return fmt.Errorf("failed to create product: %w", err)
	}
	if r.logger != nil {
		r.logger.WithFields(logrus.Fields{"product_id": p.ID, "name": p.Name}).Info("db: product created")
	}

	return nil
}

// GetByID retrieves a product by ID
func (r *ProductRepository) GetByID(ctx context.Context, id uuid.UUID) (*product.Product, error) {
	var p product.Product
	query := `
		SELECT id, farmer_id, name, category, description, price_cents, unit, organic, status, created_at, updated_at
		FROM products
		WHERE id = $1`

	err := r.db.DB.GetContext(ctx, &p, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			if r.logger != nil {
				r.logger.WithFields(logrus.Fields{"product_id": id}).Debug("db: product not found by ID")
			}
			return nil, fmt.Errorf("product with ID %s not found", id)
		}
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"product_id": id}).WithError(err).Error("db: failed to get product by ID")
		}
		return nil, fmt.Errorf("failed to get product by ID: %w", err)
	}

	return &p, nil
}

// Update updates an existing product
func (r *ProductRepository) Update(ctx context.Context, p *product.Product) error {
	query := `
		UPDATE products
		SET name = $2, category = $3, description = $4, price_cents = $5,
			unit = $6, organic = $7, status = $8, updated_at = $9
		WHERE id = $1`

	result, err := r.db.DB.ExecContext(ctx, query,
		p.ID, p.Name, p.Category, p.Description, p.PriceCents,
		p.Unit, p.Organic, p.Status, p.UpdatedAt)
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"product_id": p.ID}).WithError(err).Error("db: failed to update product")
		}
		return fmt.Errorf("failed to update product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"product_id": p.ID}).WithError(err).Error("db: failed to get rows affected on update")
		}
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"product_id": p.ID}).Debug("db: update affected 0 rows - product not found")
		}
		return fmt.Errorf("product with ID %s not found", p.ID)
	}

	return nil
}

// Delete removes a product from the catalog
func (r *ProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM products WHERE id = $1`

	result, err := r.db.DB.ExecContext(ctx, query, id)
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"product_id": id}).WithError(err).Error("db: failed to delete product")
		}
		return fmt.Errorf("failed to delete product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"product_id": id}).WithError(err).Error("db: failed to get rows affected on delete")
		}
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"product_id": id}).Debug("db: delete affected 0 rows - product not found")
		}
		return fmt.Errorf("product with ID %s not found", id)
	}

	return nil
}

// Search retrieves products matching the query. Delisted products never
// appear in search results.
func (r *ProductRepository) Search(ctx context.Context, q *product.SearchQuery) ([]*product.Product, error) {
	query, args := r.buildSearchQuery(q)
	if r.logger != nil {
		r.logger.WithFields(logrus.Fields{"query": query, "args": args}).Debug("db: executing product search query")
	}

	var products []*product.Product
	err := r.db.DB.SelectContext(ctx, &products, query, args...)
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"query": query}).WithError(err).Error("db: failed to execute product search query")
		}
		return nil, fmt.Errorf("failed to search products: %w", err)
	}

	return products, nil
}

// ListByFarmer retrieves all products listed by a farmer
func (r *ProductRepository) ListByFarmer(ctx context.Context, farmerID uuid.UUID) ([]*product.Product, error) {
	var products []*product.Product
	query := `
		SELECT id, farmer_id, name, category, description, price_cents, unit, organic, status, created_at, updated_at
		FROM products
		WHERE farmer_id = $1
		ORDER BY created_at DESC`

	err := r.db.DB.SelectContext(ctx, &products, query, farmerID)
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"farmer_id": farmerID}).WithError(err).Error("db: failed to list products by farmer")
		}
		return nil, fmt.Errorf("failed to list products by farmer: %w", err)
	}

	return products, nil
}

// buildSearchQuery constructs the SQL query and arguments for a product search
func (r *ProductRepository) buildSearchQuery(q *product.SearchQuery) (string, []interface{}) {
	query := `
		SELECT id, farmer_id, name, category, description, price_cents, unit, organic, status, created_at, updated_at
		FROM products`

	conditions := []string{"status <> 'delisted'"}
	var args []interface{}
	argIndex := 1

	if q != nil {
		if q.Term != "" {
			conditions = append(conditions, "(name ILIKE $"+strconv.Itoa(argIndex)+" OR description ILIKE $"+strconv.Itoa(argIndex)+")")
			args = append(args, "%"+q.Term+"%")
			argIndex++
		}

		if q.Category != "" {
			conditions = append(conditions, "category = $"+strconv.Itoa(argIndex))
			args = append(args, q.Category)
			argIndex++
		}

		if q.Organic != nil {
			conditions = append(conditions, "organic = $"+strconv.Itoa(argIndex))
			args = append(args, *q.Organic)
			argIndex++
		}
	}

	query += " WHERE " + strings.Join(conditions, " AND ")
	query += " ORDER BY name ASC"

	if q != nil {
		if q.Limit > 0 {
			query += " LIMIT $" + strconv.Itoa(argIndex)
			args = append(args, q.Limit)
			argIndex++
		}

		if q.Offset > 0 {
			query += " OFFSET $" + strconv.Itoa(argIndex)
			args = append(args, q.Offset)
			argIndex++
		}
	}

	return query, args
}
