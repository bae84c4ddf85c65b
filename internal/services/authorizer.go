package services

import (
	"memberd/internal/models"
)

// Authorize decides whether a user may perform an action on a resource.
// The decision is an exact (resource, action) match over the permission set
// of the user's loaded role snapshot — no wildcards, no hierarchy. Callers
// are responsible for loading a fresh role snapshot per request so that
// role or permission mutations take effect on the very next check.
func Authorize(user *models.User, resource, action string) bool {
	if user == nil || user.Role == nil {
		return false
	}
	if user.IsDeleted {
		return false
	}
	return user.Role.HasPermission(resource, action)
}
