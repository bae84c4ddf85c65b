package services

import (
	"testing"

	"memberd/internal/models"

	"github.com/stretchr/testify/assert"
)

func userWithPermissions(perms ...models.Permission) *models.User {
	role := &models.Role{Name: "clerk", Permissions: perms}
	role.ID = "r1"
	u := &models.User{RoleID: "r1", Role: role, Status: models.UserStatusActive}
	u.ID = "u1"
	return u
}

func TestAuthorizeExactMatch(t *testing.T) {
	u := userWithPermissions(*perm("p1", "user", "read"))

	assert.True(t, Authorize(u, "user", "read"))
	assert.False(t, Authorize(u, "user", "update"))
	assert.False(t, Authorize(u, "role", "read"))
}

func TestAuthorizeNoWildcards(t *testing.T) {
	u := userWithPermissions(*perm("p1", "user", "*"))

	// A literal "*" action is just another string, not a wildcard
	assert.True(t, Authorize(u, "user", "*"))
	assert.False(t, Authorize(u, "user", "read"))
}

func TestAuthorizeMissingRole(t *testing.T) {
	u := &models.User{Status: models.UserStatusActive}
	u.ID = "u1"

	assert.False(t, Authorize(nil, "user", "read"))
	assert.False(t, Authorize(u, "user", "read"))
}

func TestAuthorizeDeletedUser(t *testing.T) {
	u := userWithPermissions(*perm("p1", "user", "read"))
	u.IsDeleted = true

	assert.False(t, Authorize(u, "user", "read"))
}

func TestAuthorizeReflectsPermissionSetImmediately(t *testing.T) {
	u := userWithPermissions(*perm("p1", "user", "read"))
	assert.True(t, Authorize(u, "user", "read"))

	// A fresh snapshot without the permission denies on the very next check
	u.Role.Permissions = nil
	assert.False(t, Authorize(u, "user", "read"))
}
