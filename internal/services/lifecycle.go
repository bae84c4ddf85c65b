package services

import (
	"context"

	"memberd/internal/events"
	"memberd/internal/metrics"
	"memberd/internal/models"
	"memberd/internal/utils"
	"memberd/internal/utils/logger"

	"gorm.io/datatypes"
)

// LifecycleService is the status state machine for member accounts. Every
// mutation persists the account, writes exactly one audit entry per logical
// operation and keeps status and isApproved in lockstep.
type LifecycleService struct {
	users    UserRepository
	audit    AuditRecorder
	notifier Notifier
	policy   TransitionPolicy
	// strictReapproval turns the idempotent no-op on re-approval into a
	// Conflict error, warning admins of accidental double submissions
	strictReapproval bool
	log              *logger.Logger
}

func NewLifecycleService(users UserRepository, audit AuditRecorder, notifier Notifier, policy TransitionPolicy, strictReapproval bool) *LifecycleService {
	return &LifecycleService{
		users:            users,
		audit:            audit,
		notifier:         notifier,
		policy:           policy,
		strictReapproval: strictReapproval,
		log:              logger.New("LIFECYCLE"),
	}
}

// Approve moves a pending (or previously rejected) account to ACTIVE.
// Re-approving an already active account is a no-op unless strict mode is
// configured. The approval email is dispatched outside the operation
// boundary and its outcome never affects the result.
func (s *LifecycleService) Approve(ctx context.Context, actor Actor, userID string) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if user.Status == models.UserStatusActive && user.IsApproved {
		if s.strictReapproval {
			return nil, Conflictf("user %s is already approved", userID)
		}
		return user, nil
	}

	if !user.IsEmailVerified {
		return nil, InvalidTransitionf("user %s has not verified their email", userID)
	}

	from := user.Status
	user.Status = models.UserStatusActive
	user.IsApproved = true

	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}

	if err := s.recordTransition(ctx, actor, user, models.AuditActionApprove, from); err != nil {
		return nil, err
	}

	metrics.StatusTransitions.WithLabelValues(string(from), string(models.UserStatusActive)).Inc()
	events.Emit("user.approved", user)

	if ok := s.notifier.AccountApproved(ctx, user.Email, user.FullName()); !ok {
		s.log.Warn("approval email for %s not dispatched", user.Email)
	}

	return user, nil
}

// Deny moves a pending account to REJECTED. Denying an already rejected
// account is a no-op.
func (s *LifecycleService) Deny(ctx context.Context, actor Actor, userID string) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if user.Status == models.UserStatusRejected {
		return user, nil
	}

	from := user.Status
	user.Status = models.UserStatusRejected
	user.IsApproved = false

	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}

	if err := s.recordTransition(ctx, actor, user, models.AuditActionDeny, from); err != nil {
		return nil, err
	}

	metrics.StatusTransitions.WithLabelValues(string(from), string(models.UserStatusRejected)).Inc()
	events.Emit("user.denied", user)

	if ok := s.notifier.AccountRejected(ctx, user.Email, user.FullName()); !ok {
		s.log.Warn("rejection email for %s not dispatched", user.Email)
	}

	return user, nil
}

// ChangeStatus applies an administrator status edit. Same-status requests
// are valid and still audited so the operational record stays complete.
func (s *LifecycleService) ChangeStatus(ctx context.Context, actor Actor, userID string, newStatus models.UserStatus) (*models.User, error) {
	if !models.IsValidUserStatus(newStatus) {
		return nil, Validationf("invalid status %q", newStatus)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	from := user.Status
	if !s.policy.Allowed(from, newStatus) {
		return nil, InvalidTransitionf("transition %s -> %s is not allowed", from, newStatus)
	}

	user.Status = newStatus
	switch newStatus {
	case models.UserStatusActive:
		user.IsApproved = true
	case models.UserStatusRejected:
		user.IsApproved = false
	}

	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}

	if err := s.recordTransition(ctx, actor, user, models.AuditActionStatusChange, from); err != nil {
		return nil, err
	}

	metrics.StatusTransitions.WithLabelValues(string(from), string(newStatus)).Inc()
	events.Emit("user.status_changed", user)

	return user, nil
}

// CreateByAdmin creates an account by administrator fiat: active, approved
// and email-verified without going through registration.
func (s *LifecycleService) CreateByAdmin(ctx context.Context, actor Actor, user *models.User) (*models.User, error) {
	user.Status = models.UserStatusActive
	user.IsApproved = true
	user.IsEmailVerified = true

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	entry := &models.AuditTrailEntry{
		UserID:       actor.ID,
		Action:       models.AuditActionUserCreate,
		ResourceType: "user",
		ResourceID:   user.ID,
		Details:      auditDetails(map[string]string{"email": user.Email}),
		IPAddress:    actor.IPAddress,
	}
	if err := s.audit.Record(ctx, entry); err != nil {
		return nil, err
	}

	return user, nil
}

// Delete removes an account permanently. The identity loses all future
// authorization; there is no undo.
func (s *LifecycleService) Delete(ctx context.Context, actor Actor, userID string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.users.Delete(ctx, user.ID); err != nil {
		return err
	}

	entry := &models.AuditTrailEntry{
		UserID:       actor.ID,
		Action:       models.AuditActionUserDelete,
		ResourceType: "user",
		ResourceID:   user.ID,
		Details:      auditDetails(map[string]string{"email": user.Email}),
		IPAddress:    actor.IPAddress,
	}
	return s.audit.Record(ctx, entry)
}

// PendingApprovals lists accounts waiting on an approval decision
func (s *LifecycleService) PendingApprovals(ctx context.Context, page, limit int) ([]models.User, int64, error) {
	return s.users.ListByStatus(ctx, models.UserStatusPending, page, limit)
}

func (s *LifecycleService) recordTransition(ctx context.Context, actor Actor, user *models.User, action string, from models.UserStatus) error {
	entry := &models.AuditTrailEntry{
		UserID:       actor.ID,
		Action:       action,
		ResourceType: "user",
		ResourceID:   user.ID,
		Details: auditDetails(map[string]string{
			"from": string(from),
			"to":   string(user.Status),
		}),
		IPAddress: actor.IPAddress,
	}
	return s.audit.Record(ctx, entry)
}

func auditDetails(kv map[string]string) datatypes.JSON {
	data, err := utils.MapToJSON(kv)
	if err != nil {
		return datatypes.JSON("{}")
	}
	return data
}
