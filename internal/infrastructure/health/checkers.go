package health

import (
	"context"

	"github.com/go-redis/redis/v8"

	"github.com/harvestmarket/cache-service/internal/core/ports"
	infraDB "github.com/harvestmarket/cache-service/internal/infrastructure/db"
)

// checker adapts a named probe function to ports.HealthChecker.
type checker struct {
	name  string
	probe func(ctx context.Context) error
}

func (c *checker) Name() string                    { return c.name }
func (c *checker) Check(ctx context.Context) error { return c.probe(ctx) }

// NewDBHealthChecker reports whether the catalog database answers pings.
func NewDBHealthChecker(db *infraDB.Database) ports.HealthChecker {
	return &checker{name: "database", probe: func(ctx context.Context) error {
		return db.DB.PingContext(ctx)
	}}
}

// NewRedisHealthChecker reports whether the shared cache tier answers pings.
func NewRedisHealthChecker(client *redis.Client) ports.HealthChecker {
	return &checker{name: "redis", probe: func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}}
}
