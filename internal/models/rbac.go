package models

// Permission is an atomic (resource, action) authorization unit.
// Name is a stable identifier referenced by roles, e.g. "user:approve".
type Permission struct {
	Base
	Name        string `gorm:"uniqueIndex;not null" json:"name"`
	Resource    string `gorm:"not null;index:idx_resource_action,unique" json:"resource"` // e.g. "users", "roles"
	Action      string `gorm:"not null;index:idx_resource_action,unique" json:"action"`   // "create", "read", "update", "delete", "approve"
	Description string `json:"description"`
}

// Role is a named, assignable bundle of permissions. Seeded system roles
// carry IsDefault=true and cannot be renamed, re-permissioned or deleted.
type Role struct {
	Base
	Name        string       `gorm:"uniqueIndex;not null" json:"name"`
	Description string       `json:"description"`
	IsDefault   bool         `gorm:"not null;default:false" json:"isDefault"`
	Permissions []Permission `gorm:"many2many:role_permissions" json:"permissions,omitempty"`
}

// HasPermission reports whether the role's loaded permission set contains
// an exact (resource, action) match. No wildcards, no hierarchy.
func (r *Role) HasPermission(resource, action string) bool {
	for _, p := range r.Permissions {
		if p.Resource == resource && p.Action == action {
			return true
		}
	}
	return false
}

// PermissionNames returns the stable permission identifiers held by the role
func (r *Role) PermissionNames() []string {
	names := make([]string, 0, len(r.Permissions))
	for _, p := range r.Permissions {
		names = append(names, p.Name)
	}
	return names
}
