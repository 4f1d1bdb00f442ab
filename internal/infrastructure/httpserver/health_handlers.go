package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

const healthCheckTimeout = 2 * time.Second

type healthStatus struct {
	Status       string            `json:"status"`
	Service      string            `json:"service"`
	Timestamp    time.Time         `json:"timestamp"`
	Dependencies map[string]string `json:"dependencies,omitempty"`
}

// healthCheck reports per-dependency status. Any failing dependency degrades
// the overall status and the endpoint answers 503 so load balancers rotate
// the instance out.
func (s *Server) healthCheck(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), healthCheckTimeout)
	defer cancel()

	status := healthStatus{
		Status:    "healthy",
		Service:   "cache-service",
		Timestamp: time.Now().UTC(),
	}
	if len(s.healthCheckers) > 0 {
		status.Dependencies = make(map[string]string, len(s.healthCheckers))
	}
	for _, hc := range s.healthCheckers {
		if hc == nil {
			continue
		}
		if err := hc.Check(ctx); err != nil {
			status.Dependencies[hc.Name()] = "unhealthy"
			status.Status = "degraded"
			if s.logger != nil {
				s.logger.WithError(err).WithField("dependency", hc.Name()).Warn("health check failed")
			}
			continue
		}
		status.Dependencies[hc.Name()] = "healthy"
	}

	code := http.StatusOK
	if status.Status != "healthy" {
		code = http.StatusServiceUnavailable
	}
	return c.JSON(code, status)
}
