package repositories

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/harvestmarket/cache-service/internal/core/domain/farmer"
	"github.com/harvestmarket/cache-service/internal/core/domain/product"
	"github.com/harvestmarket/cache-service/internal/core/keys"
	"github.com/harvestmarket/cache-service/internal/core/ports"
)

// decodeAs normalizes a cached value into T. Values served from the local
// tier keep their original Go type; values served from the remote tier arrive
// as generic JSON, so the fallback re-encodes through JSON.
func decodeAs[T any](v any) (T, error) {
	var out T
	if v == nil {
		return out, nil
	}
	if typed, ok := v.(T); ok {
		return typed, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(b, &out); err != nil {
		return out, err
	}
	return out, nil
}

func productKey(id uuid.UUID) string {
	return keys.Resource("product:" + id.String())
}

func farmerKey(id uuid.UUID) string {
	return keys.Resource("farmer:" + id.String())
}

// farmerProductsKey lives in the user namespace: farmers are platform users,
// so user:<farmerId>:* invalidation covers their cached product lists too.
func farmerProductsKey(farmerID uuid.UUID) string {
	return keys.User(farmerID.String(), "products")
}

func searchKey(q *product.SearchQuery) string {
	if q == nil {
		return keys.Search("", nil)
	}
	filters := map[string]any{}
	if q.Category != "" {
		filters["category"] = q.Category
	}
	if q.Organic != nil {
		filters["organic"] = *q.Organic
	}
	if q.Limit > 0 {
		filters["limit"] = q.Limit
	}
	if q.Offset > 0 {
		filters["offset"] = q.Offset
	}
	return keys.Search(q.Term, filters)
}

// CachingProductRepository decorates a ProductRepository with cache-aside
// reads and write-through invalidation. Search result sets cannot be targeted
// individually, so every write invalidates the whole search namespace.
type CachingProductRepository struct {
	inner ports.ProductRepository
	cache ports.CacheService
	opts  *ports.CacheOptions
}

func NewCachingProductRepository(inner ports.ProductRepository, cache ports.CacheService, opts *ports.CacheOptions) ports.ProductRepository {
	return &CachingProductRepository{inner: inner, cache: cache, opts: opts}
}

func (c *CachingProductRepository) Create(ctx context.Context, p *product.Product) error {
	if err := c.inner.Create(ctx, p); err != nil {
		return err
	}
	if c.cache == nil {
		return nil
	}
	c.cache.Invalidate(ctx, "search:*")
	c.cache.Delete(ctx, farmerProductsKey(p.FarmerID))
	c.cache.Set(ctx, productKey(p.ID), p, c.opts)
	return nil
}

func (c *CachingProductRepository) GetByID(ctx context.Context, id uuid.UUID) (*product.Product, error) {
	if c.cache == nil {
		return c.inner.GetByID(ctx, id)
	}
	v, err := c.cache.Get(ctx, productKey(id), func(ctx context.Context) (any, error) {
		return c.inner.GetByID(ctx, id)
	}, c.opts)
	if err != nil {
		return nil, err
	}
	p, derr := decodeAs[*product.Product](v)
	if derr != nil || p == nil {
		return c.inner.GetByID(ctx, id)
	}
	return p, nil
}

func (c *CachingProductRepository) Update(ctx context.Context, p *product.Product) error {
	if err := c.inner.Update(ctx, p); err != nil {
		return err
	}
	if c.cache == nil {
		return nil
	}
	c.cache.Invalidate(ctx, "search:*")
	c.cache.Delete(ctx, farmerProductsKey(p.FarmerID))
	// Overwrite cache
	c.cache.Set(ctx, productKey(p.ID), p, c.opts)
	return nil
}

func (c *CachingProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	// Need the current row to invalidate the farmer's list key
	current, _ := c.inner.GetByID(ctx, id)
	if err := c.inner.Delete(ctx, id); err != nil {
		return err
	}
	if c.cache == nil {
		return nil
	}
	c.cache.Invalidate(ctx, "search:*")
	c.cache.Delete(ctx, productKey(id))
	if current != nil {
		c.cache.Delete(ctx, farmerProductsKey(current.FarmerID))
	}
	return nil
}

// Search coalesces concurrent identical queries with singleflight so a cold
// popular search hits the database once.
func (c *CachingProductRepository) Search(ctx context.Context, q *product.SearchQuery) ([]*product.Product, error) {
	if c.cache == nil {
		return c.inner.Search(ctx, q)
	}
	key := searchKey(q)
	res, err, _ := sf.Do(key, func() (any, error) {
		v, err := c.cache.Get(ctx, key, func(ctx context.Context) (any, error) {
			return c.inner.Search(ctx, q)
		}, c.opts)
		if err != nil {
			return nil, err
		}
		list, derr := decodeAs[[]*product.Product](v)
		if derr != nil {
			return c.inner.Search(ctx, q)
		}
		return list, nil
	})
	if err != nil {
		return nil, err
	}
	list, ok := res.([]*product.Product)
	if !ok {
		return nil, fmt.Errorf("unexpected type from singleflight result")
	}
	return list, nil
}

// ListByFarmer coalesces concurrent loads of one farmer's product list.
func (c *CachingProductRepository) ListByFarmer(ctx context.Context, farmerID uuid.UUID) ([]*product.Product, error) {
	if c.cache == nil {
		return c.inner.ListByFarmer(ctx, farmerID)
	}
	key := farmerProductsKey(farmerID)
	res, err, _ := sf.Do(key, func() (any, error) {
		v, err := c.cache.Get(ctx, key, func(ctx context.Context) (any, error) {
			return c.inner.ListByFarmer(ctx, farmerID)
		}, c.opts)
		if err != nil {
			return nil, err
		}
		list, derr := decodeAs[[]*product.Product](v)
		if derr != nil {
			return c.inner.ListByFarmer(ctx, farmerID)
		}
		return list, nil
	})
	if err != nil {
		return nil, err
	}
	list, ok := res.([]*product.Product)
	if !ok {
		return nil, fmt.Errorf("unexpected type from singleflight result")
	}
	return list, nil
}

// CachingFarmerRepository: caches GetByID only; listings go to the database.
type CachingFarmerRepository struct {
	inner ports.FarmerRepository
	cache ports.CacheService
	opts  *ports.CacheOptions
}

func NewCachingFarmerRepository(inner ports.FarmerRepository, cache ports.CacheService, opts *ports.CacheOptions) ports.FarmerRepository {
	return &CachingFarmerRepository{inner: inner, cache: cache, opts: opts}
}

func (c *CachingFarmerRepository) Create(ctx context.Context, f *farmer.Farmer) error {
	if err := c.inner.Create(ctx, f); err != nil {
		return err
	}
	if c.cache != nil {
		c.cache.Set(ctx, farmerKey(f.ID), f, c.opts)
	}
	return nil
}

func (c *CachingFarmerRepository) GetByID(ctx context.Context, id uuid.UUID) (*farmer.Farmer, error) {
	if c.cache == nil {
		return c.inner.GetByID(ctx, id)
	}
	v, err := c.cache.Get(ctx, farmerKey(id), func(ctx context.Context) (any, error) {
		return c.inner.GetByID(ctx, id)
	}, c.opts)
	if err != nil {
		return nil, err
	}
	f, derr := decodeAs[*farmer.Farmer](v)
	if derr != nil || f == nil {
		return c.inner.GetByID(ctx, id)
	}
	return f, nil
}

func (c *CachingFarmerRepository) Update(ctx context.Context, f *farmer.Farmer) error {
	if err := c.inner.Update(ctx, f); err != nil {
		return err
	}
	if c.cache != nil {
		// Overwrite cache
		c.cache.Set(ctx, farmerKey(f.ID), f, c.opts)
	}
	return nil
}

func (c *CachingFarmerRepository) List(ctx context.Context, limit, offset int) ([]*farmer.Farmer, error) {
	return c.inner.List(ctx, limit, offset)
}

// Simple validation to ensure decorators implement interfaces at compile time
var _ ports.ProductRepository = (*CachingProductRepository)(nil)
var _ ports.FarmerRepository = (*CachingFarmerRepository)(nil)

// singleflight group for coalescing cache-miss loads in-process
var sf singleflight.Group
