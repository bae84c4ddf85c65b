package services

import (
	"testing"

	"memberd/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestDefaultTransitionPolicy(t *testing.T) {
	p := DefaultTransitionPolicy()

	// No way back to PENDING
	for _, from := range models.AllUserStatuses() {
		if from == models.UserStatusPending {
			continue
		}
		assert.False(t, p.Allowed(from, models.UserStatusPending), "from %s", from)
	}

	// Suspension requires having been active
	assert.False(t, p.Allowed(models.UserStatusPending, models.UserStatusSuspended))
	assert.False(t, p.Allowed(models.UserStatusRejected, models.UserStatusSuspended))

	// Administrator discretion for the rest
	assert.True(t, p.Allowed(models.UserStatusActive, models.UserStatusSuspended))
	assert.True(t, p.Allowed(models.UserStatusSuspended, models.UserStatusActive))
	assert.True(t, p.Allowed(models.UserStatusActive, models.UserStatusInactive))
	assert.True(t, p.Allowed(models.UserStatusRejected, models.UserStatusActive))
}

func TestTransitionPolicySameStatusAlwaysAllowed(t *testing.T) {
	p := DefaultTransitionPolicy()
	for _, status := range models.AllUserStatuses() {
		assert.True(t, p.Allowed(status, status), "status %s", status)
	}
}

func TestTransitionPolicyCustomization(t *testing.T) {
	p := DefaultTransitionPolicy()

	p.Forbid(models.UserStatusActive, models.UserStatusInactive)
	assert.False(t, p.Allowed(models.UserStatusActive, models.UserStatusInactive))

	p.Allow(models.UserStatusActive, models.UserStatusInactive)
	assert.True(t, p.Allowed(models.UserStatusActive, models.UserStatusInactive))
}

func TestErrorCodes(t *testing.T) {
	assert.Equal(t, "not_found", ErrorCode(NotFoundf("user %s", "u1")))
	assert.Equal(t, "conflict", ErrorCode(Conflictf("dup")))
	assert.Equal(t, "forbidden", ErrorCode(Forbiddenf("nope")))
	assert.Equal(t, "invalid_transition", ErrorCode(InvalidTransitionf("bad")))
	assert.Equal(t, "validation_error", ErrorCode(Validationf("bad input")))
	assert.Equal(t, "internal", ErrorCode(assert.AnError))
}
