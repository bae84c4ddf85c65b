package services

import (
	"memberd/internal/models"
)

type transition struct {
	From models.UserStatus
	To   models.UserStatus
}

// TransitionPolicy holds the set of forbidden status transitions. The guard
// table is advisory: administrators may force anything not explicitly
// forbidden here, and deployments can tighten or loosen the set.
type TransitionPolicy struct {
	forbidden map[transition]bool
}

// DefaultTransitionPolicy forbids re-entering PENDING from any other status
// and suspending an account that was never activated. Everything else is an
// administrator's call.
func DefaultTransitionPolicy() TransitionPolicy {
	p := TransitionPolicy{forbidden: make(map[transition]bool)}
	for _, from := range models.AllUserStatuses() {
		if from == models.UserStatusPending {
			continue
		}
		p.Forbid(from, models.UserStatusPending)
	}
	p.Forbid(models.UserStatusPending, models.UserStatusSuspended)
	p.Forbid(models.UserStatusRejected, models.UserStatusSuspended)
	return p
}

// Forbid marks a from -> to pair as disallowed
func (p TransitionPolicy) Forbid(from, to models.UserStatus) {
	p.forbidden[transition{From: from, To: to}] = true
}

// Allow removes a from -> to pair from the forbidden set
func (p TransitionPolicy) Allow(from, to models.UserStatus) {
	delete(p.forbidden, transition{From: from, To: to})
}

// Allowed reports whether the transition may proceed. Same-status requests
// are always allowed; they are still audited by the caller.
func (p TransitionPolicy) Allowed(from, to models.UserStatus) bool {
	if from == to {
		return true
	}
	return !p.forbidden[transition{From: from, To: to}]
}
