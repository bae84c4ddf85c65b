package registry

import (
	"github.com/labstack/echo/v4"

	"memberd/internal/api/controllers"
	"memberd/internal/api/middleware"
	"memberd/internal/models"
	"memberd/internal/services"

	"gorm.io/gorm"
)

// RegisterReadRoutes wires the generic list/detail endpoints for the catalog
// models, each behind its read permission
func RegisterReadRoutes(g *echo.Group, db *gorm.DB) {
	// Users
	userService := services.NewQueryService(db, models.User{})
	userController := controllers.NewQueryController(userService, "status", "role_id", "email", "is_approved")
	userGroup := g.Group("/users")
	userGroup.Use(middleware.RequirePermission(db, "user", "read"))
	userGroup.GET("", userController.List)
	userGroup.GET("/:id", userController.Get)

	// Roles
	roleService := services.NewQueryService(db, models.Role{})
	roleController := controllers.NewQueryController(roleService, "name", "is_default")
	roleGroup := g.Group("/roles")
	roleGroup.Use(middleware.RequirePermission(db, "role", "read"))
	roleGroup.GET("", roleController.List)
	roleGroup.GET("/:id", roleController.Get)

	// Permissions
	permissionService := services.NewQueryService(db, models.Permission{})
	permissionController := controllers.NewQueryController(permissionService, "name", "resource", "action")
	permissionGroup := g.Group("/permissions")
	permissionGroup.Use(middleware.RequirePermission(db, "permission", "read"))
	permissionGroup.GET("", permissionController.List)
	permissionGroup.GET("/:id", permissionController.Get)
}
