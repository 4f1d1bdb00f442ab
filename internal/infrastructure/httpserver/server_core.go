package httpserver

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/harvestmarket/cache-service/internal/core/ports"
	mw "github.com/harvestmarket/cache-service/internal/infrastructure/httpserver/middleware"
)

type ServerConfig struct {
	Host         string
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	TLSCertFile  string
	TLSKeyFile   string
}

// ServerDeps carries the services the HTTP surface exposes. HealthCheckers
// may be empty; a nil RateLimiterService disables admin rate limiting.
type ServerDeps struct {
	CacheService       ports.CacheService
	CatalogService     ports.CatalogService
	RateLimiterService ports.RateLimiterService
	HealthCheckers     []ports.HealthChecker
}

type Server struct {
	echo           *echo.Echo
	config         *ServerConfig
	logger         *logrus.Logger
	cacheService   ports.CacheService
	catalogService ports.CatalogService
	middleware     *mw.Stack
	healthCheckers []ports.HealthChecker
}

func NewServer(serverConfig *ServerConfig, logger *logrus.Logger, deps ServerDeps) *Server {
	e := echo.New()
	e.HideBanner = true

	server := &Server{
		echo:           e,
		config:         serverConfig,
		logger:         logger,
		cacheService:   deps.CacheService,
		catalogService: deps.CatalogService,
		healthCheckers: deps.HealthCheckers,
		middleware:     mw.NewStack(deps.RateLimiterService, logger, httpRequestsTotal, httpRequestDuration),
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}
