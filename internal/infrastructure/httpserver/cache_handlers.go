package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/harvestmarket/cache-service/internal/core/ports"
)

type invalidateCacheRequest struct {
	Pattern string `json:"pattern"`
}

type warmCacheRequest struct {
	Entries []ports.WarmEntry `json:"entries"`
}

func (s *Server) getCacheStats(c echo.Context) error {
	stats := s.cacheService.Stats(c.Request().Context())
	return c.JSON(http.StatusOK, stats)
}

func (s *Server) invalidateCache(c echo.Context) error {
	var req invalidateCacheRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Pattern == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "pattern is required")
	}

	s.cacheService.Invalidate(c.Request().Context(), req.Pattern)
	return c.JSON(http.StatusOK, map[string]interface{}{"pattern": req.Pattern, "status": "invalidated"})
}

func (s *Server) warmCache(c echo.Context) error {
	var req warmCacheRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if len(req.Entries) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "entries are required")
	}
	for _, entry := range req.Entries {
		if entry.Key == "" {
			return echo.NewHTTPError(http.StatusBadRequest, "every entry needs a key")
		}
	}

	s.cacheService.Warm(c.Request().Context(), req.Entries)
	return c.JSON(http.StatusOK, map[string]interface{}{"warmed": len(req.Entries)})
}

func (s *Server) deleteCacheKey(c echo.Context) error {
	key := c.QueryParam("key")
	if key == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "key is required")
	}

	s.cacheService.Delete(c.Request().Context(), key)
	return c.NoContent(http.StatusNoContent)
}
