package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	config "github.com/harvestmarket/cache-service/configs"
	"github.com/harvestmarket/cache-service/internal/application/services"
	"github.com/harvestmarket/cache-service/internal/core/ports"
	"github.com/harvestmarket/cache-service/internal/infrastructure/db"
	"github.com/harvestmarket/cache-service/internal/infrastructure/health"
	"github.com/harvestmarket/cache-service/internal/infrastructure/httpserver"
	"github.com/harvestmarket/cache-service/internal/infrastructure/localstore"
	"github.com/harvestmarket/cache-service/internal/infrastructure/metrics"
	"github.com/harvestmarket/cache-service/internal/infrastructure/redis"
	"github.com/harvestmarket/cache-service/internal/infrastructure/repositories"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Setup logger
	logger := logrus.New()
	if cfg.Log.Format == "text" {
		logger.SetFormatter(&logrus.TextFormatter{})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		logger.SetLevel(logrus.InfoLevel)
	} else {
		logger.SetLevel(level)
	}

	logger.Info("Starting cache service...")

	// Initialize the catalog database (apply pool settings from config)
	database, err := db.NewDatabase(&cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database:", err)
	}
	defer database.Close()

	logger.Info("Connected to database successfully")

	// Run migrations
	if err := database.Migrate(cfg.Database.MigrationsPath); err != nil {
		logger.Warn("Failed to run migrations:", err)
	}

	// Initialize the Redis client. An unreachable Redis is not fatal: the
	// service starts degraded and serves from the local tier.
	redisClient := redis.NewClient(&cfg.Redis, logger)
	defer redisClient.Close()

	// Build the two cache tiers
	localStore := localstore.New(localstore.Config{
		MaxEntries:     cfg.Cache.LocalMaxEntries,
		MaxBytes:       cfg.Cache.LocalMaxBytes,
		SweepInterval:  cfg.Cache.SweepInterval,
		EvictionPolicy: cfg.Cache.EvictionPolicy,
	}, logger)
	defer localStore.Close()

	remoteStore := redis.NewStore(redisClient, &cfg.Redis)

	cacheMetrics := metrics.NewCacheMetrics()
	metrics.RegisterLocalStoreCollectors(localStore)

	cacheService := services.NewCacheService(localStore, remoteStore, &services.CacheServiceConfig{
		DefaultLocalTTL:  cfg.Cache.DefaultLocalTTL,
		DefaultRemoteTTL: cfg.Cache.DefaultRemoteTTL,
		BackfillTimeout:  cfg.Cache.BackfillTimeout,
		WarmConcurrency:  cfg.Cache.WarmConcurrency,
	}, cacheMetrics, logger)
	defer cacheService.Close()

	// Initialize catalog repositories and decorate them with caching
	baseProductRepo := repositories.NewProductRepository(database, logger)
	baseFarmerRepo := repositories.NewFarmerRepository(database, logger)

	productRepo := repositories.NewCachingProductRepository(baseProductRepo, cacheService, nil)
	farmerRepo := repositories.NewCachingFarmerRepository(baseFarmerRepo, cacheService, &ports.CacheOptions{
		LocalTTL:  10 * time.Minute,
		RemoteTTL: 2 * time.Hour,
	})

	catalogService := services.NewCatalogService(productRepo, farmerRepo, logger)

	// Rate limiter for the cache admin endpoints
	rateLimitRepo := repositories.NewRateLimitRedisRepository(redisClient)
	rateLimiterService := services.NewRateLimiterService(rateLimitRepo, &services.RateLimiterConfig{
		DefaultRequestsPerMinute: cfg.RateLimit.DefaultRequestsPerMinute,
		BurstMultiplier:          cfg.RateLimit.BurstMultiplier,
		Window:                   cfg.RateLimit.Window,
		KeyPrefix:                cfg.RateLimit.KeyPrefix,
	}, logger)

	hcSlice := []ports.HealthChecker{health.NewDBHealthChecker(database), health.NewRedisHealthChecker(redisClient)}

	// Create server configuration
	serverConfig := &httpserver.ServerConfig{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		TLSCertFile:  cfg.Server.TLSCertFile,
		TLSKeyFile:   cfg.Server.TLSKeyFile,
	}

	// Initialize HTTP server using ServerDeps for clearer wiring
	deps := httpserver.ServerDeps{
		CacheService:       cacheService,
		CatalogService:     catalogService,
		RateLimiterService: rateLimiterService,
		HealthCheckers:     hcSlice,
	}

	server := httpserver.NewServer(serverConfig, logger, deps)

	// Start server in a goroutine
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server:", err)
		}
	}()

	logger.Infof("Server started on %s:%s", cfg.Server.Host, cfg.Server.Port)

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout. The deferred closes then run in reverse
	// construction order: cache service, local store, redis, database.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
	}

	logger.Info("Server exited")
}
