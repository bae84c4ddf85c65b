package api

import (
	"memberd/internal/api/middleware"
	"memberd/internal/api/registry"
	"memberd/internal/routes"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) registerRoutes() {
	// Health check and Prometheus metrics
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Public auth routes plus /users/me
	routes.SetupAuthRoutes(s.echo, s.db, s.config, s.notifier)

	// API v1 group, everything below requires authentication
	api := s.echo.Group("/api/v1")
	auth := middleware.NewAuthMiddleware(s.config.JWT.Secret)
	api.Use(auth.Middleware())

	// Generic read endpoints for users, roles and permissions
	registry.RegisterReadRoutes(api, s.db)

	// Lifecycle, registry and audit mutations
	routes.SetupAdminRoutes(api, s.db, s.config, s.notifier)
}
