package middleware

import (
	"net/http"

	"memberd/internal/models"
	"memberd/internal/services"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// RequirePermission guards a route with a resource:action check. The caller's
// role and its permission set are loaded fresh on every request, so a role
// re-permission or reassignment takes effect immediately rather than at next
// login.
func RequirePermission(db *gorm.DB, resource, action string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID := GetUserID(c)
			if userID == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Authentication required")
			}

			user := &models.User{}
			err := db.Preload("Role.Permissions").
				Where("id = ? AND is_deleted = ?", userID, false).
				First(user).Error
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "User not found")
			}

			if user.Status != models.UserStatusActive {
				return echo.NewHTTPError(http.StatusForbidden, "Account is not active")
			}

			if !services.Authorize(user, resource, action) {
				return echo.NewHTTPError(http.StatusForbidden, "Insufficient permissions")
			}

			return next(c)
		}
	}
}
