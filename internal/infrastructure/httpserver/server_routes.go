package httpserver

func (s *Server) setupRoutes() {
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/metrics", s.metricsEndpoint)

	api := s.echo.Group("/api/v1")

	// Cache admin. Mutations are rate limited per client: one misbehaving
	// caller must not be able to flush the shared tier in a loop.
	cache := api.Group("/cache")
	cache.GET("/stats", s.getCacheStats)

	cacheAdmin := cache.Group("")
	cacheAdmin.Use(s.middleware.RateLimit.Handler())
	cacheAdmin.POST("/invalidate", s.invalidateCache)
	cacheAdmin.POST("/warm", s.warmCache)
	cacheAdmin.DELETE("/keys", s.deleteCacheKey)

	// Cached catalog reads
	products := api.Group("/products")
	products.GET("", s.searchProducts)
	products.GET("/:id", s.getProduct)
	products.PUT("/:id", s.updateProduct)

	farmers := api.Group("/farmers")
	farmers.GET("/:id", s.getFarmer)
	farmers.GET("/:id/products", s.getFarmerProducts)
}
