package routes

import (
	"memberd/internal/api/middleware"
	"memberd/internal/config"
	"memberd/internal/handlers"
	"memberd/internal/services"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

func SetupAuthRoutes(e *echo.Echo, db *gorm.DB, cfg *config.Config, notifier services.Notifier) {
	authHandler := handlers.NewAuthHandler(db, cfg, notifier)

	base := e.Group("/api/v1")

	// Public auth routes group
	auth := base.Group("/auth")

	// Public routes (no auth required)
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.GET("/verify-email/:token", authHandler.VerifyEmail)
	auth.POST("/password-reset", authHandler.RequestPasswordReset)
	auth.POST("/password-reset/verify", authHandler.VerifyResetCode)
	auth.POST("/refresh", authHandler.RefreshToken)

	// Current user route, accessible to any authenticated account
	users := base.Group("/users")
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)
	users.Use(authMiddleware.Middleware())
	users.GET("/me", authHandler.GetMe)
}
