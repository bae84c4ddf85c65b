package services

import (
	"context"
	"errors"
	"testing"

	"memberd/internal/models"
	"memberd/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pendingUser(id string) *models.User {
	u := &models.User{
		Email:           id + "@example.org",
		FirstName:       "Test",
		LastName:        "Member",
		Status:          models.UserStatusPending,
		IsEmailVerified: true,
	}
	u.ID = id
	return u
}

func newLifecycle(users *fakeUserRepo, audit *fakeAudit, notifier *fakeNotifier, strict bool) *LifecycleService {
	return NewLifecycleService(users, audit, notifier, DefaultTransitionPolicy(), strict)
}

var actor = Actor{ID: "admin-1", IPAddress: "10.0.0.1"}

func TestApprovePendingAccount(t *testing.T) {
	users := newFakeUserRepo(pendingUser("u1"))
	audit := &fakeAudit{}
	notifier := &fakeNotifier{}
	svc := newLifecycle(users, audit, notifier, false)

	user, err := svc.Approve(context.Background(), actor, "u1")
	require.NoError(t, err)

	assert.Equal(t, models.UserStatusActive, user.Status)
	assert.True(t, user.IsApproved)

	require.Len(t, audit.entries, 1)
	assert.Equal(t, models.AuditActionApprove, audit.entries[0].Action)
	assert.Equal(t, "admin-1", audit.entries[0].UserID)
	assert.Equal(t, "u1", audit.entries[0].ResourceID)

	details, err := utils.JSONToMap(audit.entries[0].Details)
	require.NoError(t, err)
	assert.Equal(t, string(models.UserStatusPending), details["from"])
	assert.Equal(t, string(models.UserStatusActive), details["to"])

	assert.Equal(t, []string{"u1@example.org"}, notifier.approved)
}

func TestApproveAlreadyActiveIsNoOp(t *testing.T) {
	u := pendingUser("u1")
	u.Status = models.UserStatusActive
	u.IsApproved = true
	users := newFakeUserRepo(u)
	audit := &fakeAudit{}
	notifier := &fakeNotifier{}
	svc := newLifecycle(users, audit, notifier, false)

	user, err := svc.Approve(context.Background(), actor, "u1")
	require.NoError(t, err)
	assert.Equal(t, models.UserStatusActive, user.Status)

	// No state changed, so no audit entry and no email
	assert.Empty(t, audit.entries)
	assert.Empty(t, notifier.approved)
}

func TestApproveStrictReapprovalConflict(t *testing.T) {
	u := pendingUser("u1")
	u.Status = models.UserStatusActive
	u.IsApproved = true
	svc := newLifecycle(newFakeUserRepo(u), &fakeAudit{}, &fakeNotifier{}, true)

	_, err := svc.Approve(context.Background(), actor, "u1")
	assert.ErrorIs(t, err, ErrConflict)
}

func TestApproveUnverifiedEmail(t *testing.T) {
	u := pendingUser("u1")
	u.IsEmailVerified = false
	svc := newLifecycle(newFakeUserRepo(u), &fakeAudit{}, &fakeNotifier{}, false)

	_, err := svc.Approve(context.Background(), actor, "u1")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestApproveUnknownUser(t *testing.T) {
	svc := newLifecycle(newFakeUserRepo(), &fakeAudit{}, &fakeNotifier{}, false)

	_, err := svc.Approve(context.Background(), actor, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestApproveAuditFailureFailsOperation(t *testing.T) {
	audit := &fakeAudit{err: errors.New("audit store down")}
	svc := newLifecycle(newFakeUserRepo(pendingUser("u1")), audit, &fakeNotifier{}, false)

	_, err := svc.Approve(context.Background(), actor, "u1")
	assert.Error(t, err)
}

func TestApproveNotifierFailureDoesNotFailOperation(t *testing.T) {
	notifier := &fakeNotifier{fail: true}
	svc := newLifecycle(newFakeUserRepo(pendingUser("u1")), &fakeAudit{}, notifier, false)

	user, err := svc.Approve(context.Background(), actor, "u1")
	require.NoError(t, err)
	assert.Equal(t, models.UserStatusActive, user.Status)
	assert.Len(t, notifier.approved, 1)
}

func TestDenyPendingAccount(t *testing.T) {
	users := newFakeUserRepo(pendingUser("u1"))
	audit := &fakeAudit{}
	notifier := &fakeNotifier{}
	svc := newLifecycle(users, audit, notifier, false)

	user, err := svc.Deny(context.Background(), actor, "u1")
	require.NoError(t, err)

	assert.Equal(t, models.UserStatusRejected, user.Status)
	assert.False(t, user.IsApproved)
	require.Len(t, audit.entries, 1)
	assert.Equal(t, models.AuditActionDeny, audit.entries[0].Action)
	assert.Equal(t, []string{"u1@example.org"}, notifier.rejected)
}

func TestDenyAlreadyRejectedIsNoOp(t *testing.T) {
	u := pendingUser("u1")
	u.Status = models.UserStatusRejected
	audit := &fakeAudit{}
	notifier := &fakeNotifier{}
	svc := newLifecycle(newFakeUserRepo(u), audit, notifier, false)

	_, err := svc.Deny(context.Background(), actor, "u1")
	require.NoError(t, err)
	assert.Empty(t, audit.entries)
	assert.Empty(t, notifier.rejected)
}

func TestChangeStatusRejectsUnknownStatus(t *testing.T) {
	svc := newLifecycle(newFakeUserRepo(pendingUser("u1")), &fakeAudit{}, &fakeNotifier{}, false)

	_, err := svc.ChangeStatus(context.Background(), actor, "u1", models.UserStatus("FROZEN"))
	assert.ErrorIs(t, err, ErrValidation)
}

func TestChangeStatusForbiddenTransitions(t *testing.T) {
	cases := []struct {
		name string
		from models.UserStatus
		to   models.UserStatus
	}{
		{"active back to pending", models.UserStatusActive, models.UserStatusPending},
		{"rejected back to pending", models.UserStatusRejected, models.UserStatusPending},
		{"suspend a pending account", models.UserStatusPending, models.UserStatusSuspended},
		{"suspend a rejected account", models.UserStatusRejected, models.UserStatusSuspended},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			u := pendingUser("u1")
			u.Status = tc.from
			audit := &fakeAudit{}
			svc := newLifecycle(newFakeUserRepo(u), audit, &fakeNotifier{}, false)

			_, err := svc.ChangeStatus(context.Background(), actor, "u1", tc.to)
			assert.ErrorIs(t, err, ErrInvalidTransition)
			assert.Empty(t, audit.entries)
		})
	}
}

func TestChangeStatusKeepsApprovalInLockstep(t *testing.T) {
	u := pendingUser("u1")
	u.Status = models.UserStatusSuspended
	u.IsApproved = true
	svc := newLifecycle(newFakeUserRepo(u), &fakeAudit{}, &fakeNotifier{}, false)

	user, err := svc.ChangeStatus(context.Background(), actor, "u1", models.UserStatusActive)
	require.NoError(t, err)
	assert.True(t, user.IsApproved)

	user, err = svc.ChangeStatus(context.Background(), actor, "u1", models.UserStatusRejected)
	require.NoError(t, err)
	assert.False(t, user.IsApproved)
}

func TestChangeStatusSameStatusStillAudited(t *testing.T) {
	u := pendingUser("u1")
	u.Status = models.UserStatusActive
	u.IsApproved = true
	audit := &fakeAudit{}
	svc := newLifecycle(newFakeUserRepo(u), audit, &fakeNotifier{}, false)

	_, err := svc.ChangeStatus(context.Background(), actor, "u1", models.UserStatusActive)
	require.NoError(t, err)
	require.Len(t, audit.entries, 1)
	assert.Equal(t, models.AuditActionStatusChange, audit.entries[0].Action)
}

func TestCreateByAdminGrantsActiveApprovedVerified(t *testing.T) {
	users := newFakeUserRepo()
	audit := &fakeAudit{}
	svc := newLifecycle(users, audit, &fakeNotifier{}, false)

	user, err := svc.CreateByAdmin(context.Background(), actor, &models.User{
		Email:     "new@example.org",
		FirstName: "New",
		RoleID:    "role-1",
	})
	require.NoError(t, err)

	assert.Equal(t, models.UserStatusActive, user.Status)
	assert.True(t, user.IsApproved)
	assert.True(t, user.IsEmailVerified)
	require.Len(t, audit.entries, 1)
	assert.Equal(t, models.AuditActionUserCreate, audit.entries[0].Action)
}

func TestDeleteRemovesAccountAndAudits(t *testing.T) {
	users := newFakeUserRepo(pendingUser("u1"))
	audit := &fakeAudit{}
	svc := newLifecycle(users, audit, &fakeNotifier{}, false)

	require.NoError(t, svc.Delete(context.Background(), actor, "u1"))

	_, err := users.GetByID(context.Background(), "u1")
	assert.ErrorIs(t, err, ErrNotFound)
	require.Len(t, audit.entries, 1)
	assert.Equal(t, models.AuditActionUserDelete, audit.entries[0].Action)
}

func TestPendingApprovalsListsOnlyPending(t *testing.T) {
	active := pendingUser("u2")
	active.Status = models.UserStatusActive
	users := newFakeUserRepo(pendingUser("u1"), active)
	svc := newLifecycle(users, &fakeAudit{}, &fakeNotifier{}, false)

	list, total, err := svc.PendingApprovals(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, list, 1)
	assert.Equal(t, "u1", list[0].ID)
}
