package services

import (
	"context"

	"memberd/internal/models"
)

// Actor identifies the authenticated caller of a privileged operation for
// audit purposes
type Actor struct {
	ID        string
	IPAddress string
}

// UserRepository is the persistence port for member accounts
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Save(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id string) error
	ListByStatus(ctx context.Context, status models.UserStatus, page, limit int) ([]models.User, int64, error)
	CountByRole(ctx context.Context, roleID string) (int64, error)
}

// RoleRepository is the persistence port for roles. GetByID and GetByName
// load the role with its permission set.
type RoleRepository interface {
	GetByID(ctx context.Context, id string) (*models.Role, error)
	GetByName(ctx context.Context, name string) (*models.Role, error)
	Create(ctx context.Context, role *models.Role) error
	Save(ctx context.Context, role *models.Role) error
	ReplacePermissions(ctx context.Context, role *models.Role, perms []models.Permission) error
	Delete(ctx context.Context, id string) error
}

// PermissionRepository is the persistence port for the permission catalog
type PermissionRepository interface {
	GetByID(ctx context.Context, id string) (*models.Permission, error)
	GetByIDs(ctx context.Context, ids []string) ([]models.Permission, error)
	GetByName(ctx context.Context, name string) (*models.Permission, error)
	GetByResourceAction(ctx context.Context, resource, action string) (*models.Permission, error)
	Create(ctx context.Context, perm *models.Permission) error
	Save(ctx context.Context, perm *models.Permission) error
	Delete(ctx context.Context, id string) error
	CountRoleRefs(ctx context.Context, permissionID string) (int64, error)
}

// AuditRecorder appends immutable audit trail entries. A failed Record call
// fails the operation that triggered it.
type AuditRecorder interface {
	Record(ctx context.Context, entry *models.AuditTrailEntry) error
}

// Notifier is the notification side-channel. Implementations are best-effort:
// the returned bool is informational and callers must never fail an operation
// on a false return.
type Notifier interface {
	AccountApproved(ctx context.Context, email, name string) bool
	AccountRejected(ctx context.Context, email, name string) bool
	VerifyEmail(ctx context.Context, email, name, verificationURL string) bool
	PasswordReset(ctx context.Context, email, name, resetURL string) bool
}
