package routes

import (
	"memberd/internal/api/middleware"
	"memberd/internal/config"
	"memberd/internal/handlers"
	"memberd/internal/repository"
	"memberd/internal/services"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// SetupAdminRoutes wires the privileged lifecycle, registry and audit
// endpoints. Every route sits behind the auth middleware of the parent group
// plus its own resource:action permission check.
func SetupAdminRoutes(g *echo.Group, db *gorm.DB, cfg *config.Config, notifier services.Notifier) {
	userRepo := repository.NewUserRepo(db)
	roleRepo := repository.NewRoleRepo(db)
	permRepo := repository.NewPermissionRepo(db)
	auditRepo := repository.NewAuditRepo(db)

	lifecycle := services.NewLifecycleService(
		userRepo, auditRepo, notifier,
		services.DefaultTransitionPolicy(),
		cfg.Lifecycle.StrictReapproval,
	)
	registry := services.NewRegistryService(roleRepo, permRepo, userRepo, auditRepo)
	bulk := services.NewBulkService(lifecycle, registry)

	userHandler := handlers.NewUserHandler(lifecycle, registry, bulk, auditRepo)
	roleHandler := handlers.NewRoleHandler(registry)
	permissionHandler := handlers.NewPermissionHandler(registry)

	// Lifecycle decisions on member accounts
	users := g.Group("/users")
	users.GET("/pending-approvals", userHandler.PendingApprovals, middleware.RequirePermission(db, "user", "read"))
	users.PUT("/:id/approve", userHandler.Approve, middleware.RequirePermission(db, "user", "approve"))
	users.PUT("/:id/deny", userHandler.Deny, middleware.RequirePermission(db, "user", "approve"))
	users.PUT("/:id/role", userHandler.AssignRole, middleware.RequirePermission(db, "user", "update"))
	users.DELETE("/:id", userHandler.Delete, middleware.RequirePermission(db, "user", "delete"))
	users.POST("", userHandler.Create, middleware.RequirePermission(db, "user", "create"))

	// Role registry mutations
	roles := g.Group("/roles")
	roles.POST("", roleHandler.Create, middleware.RequirePermission(db, "role", "create"))
	roles.PUT("/:id", roleHandler.Update, middleware.RequirePermission(db, "role", "update"))
	roles.DELETE("/:id", roleHandler.Delete, middleware.RequirePermission(db, "role", "delete"))

	// Permission catalog mutations
	permissions := g.Group("/permissions")
	permissions.POST("", permissionHandler.Create, middleware.RequirePermission(db, "permission", "create"))
	permissions.PUT("/:id", permissionHandler.Update, middleware.RequirePermission(db, "permission", "update"))
	permissions.DELETE("/:id", permissionHandler.Delete, middleware.RequirePermission(db, "permission", "delete"))

	// Direct status edits, bulk operations and the audit trail
	management := g.Group("/user-management")
	management.PUT("/:id/status", userHandler.ChangeStatus, middleware.RequirePermission(db, "user", "update"))
	management.PUT("/bulk/status", userHandler.BulkStatus, middleware.RequirePermission(db, "user", "update"))
	management.PUT("/bulk/role", userHandler.BulkRole, middleware.RequirePermission(db, "user", "update"))
	management.GET("/:id/audit-trail", userHandler.AuditTrail, middleware.RequirePermission(db, "audit", "read"))
}
