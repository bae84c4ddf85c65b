package services

import (
	"context"
	"testing"

	"memberd/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBulkChangeStatusPartialFailure(t *testing.T) {
	u1 := pendingUser("u1")
	u1.Status = models.UserStatusActive
	u3 := pendingUser("u3")
	u3.Status = models.UserStatusActive
	users := newFakeUserRepo(u1, u3)
	audit := &fakeAudit{}
	lifecycle := newLifecycle(users, audit, &fakeNotifier{}, false)
	registry := newRegistry(newFakeRoleRepo(), newFakePermRepo(), users, audit)
	bulk := NewBulkService(lifecycle, registry)

	result := bulk.ChangeStatus(context.Background(), actor, []string{"u1", "missing", "u3"}, models.UserStatusSuspended)

	assert.Equal(t, 2, result.Succeeded)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Items, 3)

	assert.True(t, result.Items[0].Success)
	assert.False(t, result.Items[1].Success)
	assert.Equal(t, "not_found", result.Items[1].Code)
	assert.True(t, result.Items[2].Success)

	// Each successful item carries its own audit entry
	assert.Len(t, audit.entries, 2)
}

func TestBulkChangeStatusForbiddenTransitionSurfacesCode(t *testing.T) {
	u := pendingUser("u1")
	users := newFakeUserRepo(u)
	audit := &fakeAudit{}
	lifecycle := newLifecycle(users, audit, &fakeNotifier{}, false)
	registry := newRegistry(newFakeRoleRepo(), newFakePermRepo(), users, audit)
	bulk := NewBulkService(lifecycle, registry)

	result := bulk.ChangeStatus(context.Background(), actor, []string{"u1"}, models.UserStatusSuspended)

	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, "invalid_transition", result.Items[0].Code)
}

func TestBulkAssignRole(t *testing.T) {
	role := &models.Role{Name: "treasurer"}
	role.ID = "r1"
	users := newFakeUserRepo(pendingUser("u1"), pendingUser("u2"))
	audit := &fakeAudit{}
	lifecycle := newLifecycle(users, audit, &fakeNotifier{}, false)
	registry := newRegistry(newFakeRoleRepo(role), newFakePermRepo(), users, audit)
	bulk := NewBulkService(lifecycle, registry)

	result := bulk.AssignRole(context.Background(), actor, []string{"u1", "u2"}, "r1")

	assert.Equal(t, 2, result.Succeeded)
	assert.Zero(t, result.Failed)
	for _, id := range []string{"u1", "u2"} {
		u, err := users.GetByID(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, "r1", u.RoleID)
	}
}
