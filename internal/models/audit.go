package models

import (
	"gorm.io/datatypes"
)

// Audit actions recorded by the lifecycle and registry services
const (
	AuditActionApprove          = "approve"
	AuditActionDeny             = "deny"
	AuditActionStatusChange     = "status_change"
	AuditActionRoleAssign       = "role_assign"
	AuditActionUserCreate       = "user_create"
	AuditActionUserDelete       = "user_delete"
	AuditActionRoleCreate       = "role_create"
	AuditActionRoleUpdate       = "role_update"
	AuditActionRoleDelete       = "role_delete"
	AuditActionPermissionCreate = "permission_create"
	AuditActionPermissionUpdate = "permission_update"
	AuditActionPermissionDelete = "permission_delete"
)

// AuditTrailEntry is an append-only record of a privileged mutation.
// Entries are never updated or deleted; UserID is the acting administrator.
type AuditTrailEntry struct {
	Base
	UserID       string         `gorm:"type:uuid;not null;index" json:"userId"`
	User         *User          `json:"user,omitempty"`
	Action       string         `gorm:"not null" json:"action"`
	ResourceType string         `gorm:"not null" json:"resourceType"` // "user", "role", "permission"
	ResourceID   string         `gorm:"type:uuid;index" json:"resourceId,omitempty"`
	Details      datatypes.JSON `gorm:"type:jsonb" json:"details,omitempty"`
	IPAddress    string         `json:"ipAddress"`
}
