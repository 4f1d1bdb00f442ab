package middleware

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
)

// MetricsMiddleware records request counts and latencies for the HTTP surface.
type MetricsMiddleware struct {
	requests  *prometheus.CounterVec
	durations *prometheus.HistogramVec
}

func NewMetricsMiddleware(requests *prometheus.CounterVec, durations *prometheus.HistogramVec) *MetricsMiddleware {
	return &MetricsMiddleware{requests: requests, durations: durations}
}

// CollectHTTPMetrics labels by method and route template so path parameters
// do not blow up the label cardinality.
func (m *MetricsMiddleware) CollectHTTPMetrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			route := c.Path()
			if route == "" {
				route = c.Request().URL.Path
			}
			method := c.Request().Method

			m.requests.WithLabelValues(method, route, strconv.Itoa(c.Response().Status)).Inc()
			m.durations.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
			return err
		}
	}
}
