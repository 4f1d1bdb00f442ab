package middleware

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/harvestmarket/cache-service/internal/core/ports"
)

// Stack bundles the request middleware the server wires in.
type Stack struct {
	Logging   *LoggingMiddleware
	RateLimit *RateLimitMiddleware
	Metrics   *MetricsMiddleware
}

func NewStack(rateLimiter ports.RateLimiterService, logger *logrus.Logger, requests *prometheus.CounterVec, durations *prometheus.HistogramVec) *Stack {
	return &Stack{
		Logging:   NewLoggingMiddleware(logger),
		RateLimit: NewRateLimitMiddleware(rateLimiter, logger),
		Metrics:   NewMetricsMiddleware(requests, durations),
	}
}
