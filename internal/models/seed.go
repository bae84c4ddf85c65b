package models

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/crypto/bcrypt"

	console "memberd/internal/utils/logger"

	"gorm.io/gorm"
)

var log = console.New("SEEDER")

// Default role names seeded at startup
const (
	RoleSuperAdmin = "super_admin"
	RoleAdmin      = "admin"
	RoleMember     = "member"
)

// Default permission catalog
var defaultPermissions = []Permission{
	// User lifecycle
	{Name: "user:create", Resource: "user", Action: "create", Description: "Create member accounts"},
	{Name: "user:read", Resource: "user", Action: "read", Description: "View member accounts"},
	{Name: "user:update", Resource: "user", Action: "update", Description: "Update member accounts and statuses"},
	{Name: "user:delete", Resource: "user", Action: "delete", Description: "Delete member accounts"},
	{Name: "user:approve", Resource: "user", Action: "approve", Description: "Approve or deny pending registrations"},

	// Role registry
	{Name: "role:create", Resource: "role", Action: "create", Description: "Create roles"},
	{Name: "role:read", Resource: "role", Action: "read", Description: "View roles"},
	{Name: "role:update", Resource: "role", Action: "update", Description: "Update roles and their permissions"},
	{Name: "role:delete", Resource: "role", Action: "delete", Description: "Delete roles"},

	// Permission catalog
	{Name: "permission:create", Resource: "permission", Action: "create", Description: "Create permissions"},
	{Name: "permission:read", Resource: "permission", Action: "read", Description: "View permissions"},
	{Name: "permission:update", Resource: "permission", Action: "update", Description: "Update permission descriptions"},
	{Name: "permission:delete", Resource: "permission", Action: "delete", Description: "Delete permissions"},

	// Audit trail
	{Name: "audit:read", Resource: "audit", Action: "read", Description: "View audit trail entries"},

	// Association events
	{Name: "event:create", Resource: "event", Action: "create", Description: "Create association events"},
	{Name: "event:read", Resource: "event", Action: "read", Description: "View association events"},
	{Name: "event:update", Resource: "event", Action: "update", Description: "Update association events"},
	{Name: "event:delete", Resource: "event", Action: "delete", Description: "Delete association events"},
}

// Default role to permission mappings. "resource:*" expands to every
// seeded action of that resource.
var defaultRolePermissions = map[string][]string{
	RoleSuperAdmin: {
		"user:*", "role:*", "permission:*", "audit:*", "event:*",
	},
	RoleAdmin: {
		"user:*", "role:read", "permission:read", "audit:read", "event:*",
	},
	RoleMember: {
		"event:read",
	},
}

var defaultRoleDescriptions = map[string]string{
	RoleSuperAdmin: "Full access to every resource, including role and permission management",
	RoleAdmin:      "Member lifecycle management and event administration",
	RoleMember:     "Regular association member",
}

// SeedRBAC creates the default permission catalog and system roles.
// Existing rows are left untouched so operator edits to descriptions survive restarts.
func SeedRBAC(db *gorm.DB) error {
	for _, perm := range defaultPermissions {
		if err := db.FirstOrCreate(&perm, Permission{
			Resource: perm.Resource,
			Action:   perm.Action,
		}).Error; err != nil {
			return fmt.Errorf("failed to create permission %s: %v", perm.Name, err)
		}
	}

	for roleName, scopes := range defaultRolePermissions {
		log.Info("Seeding role: %s", roleName)

		perms, err := expandScopes(db, scopes)
		if err != nil {
			return err
		}

		role := Role{
			Name:        roleName,
			Description: defaultRoleDescriptions[roleName],
			IsDefault:   true,
		}
		if err := db.FirstOrCreate(&role, Role{Name: roleName}).Error; err != nil {
			return fmt.Errorf("failed to create role %s: %v", roleName, err)
		}

		// Reconcile the permission set on every boot so seeded roles always
		// carry the full default catalog
		if err := db.Model(&role).Association("Permissions").Replace(perms); err != nil {
			return fmt.Errorf("failed to set permissions for role %s: %v", roleName, err)
		}
	}

	return nil
}

// expandScopes resolves "resource:action" and "resource:*" strings against
// the seeded permission catalog
func expandScopes(db *gorm.DB, scopes []string) ([]Permission, error) {
	var perms []Permission
	for _, scope := range scopes {
		parts := strings.Split(scope, ":")
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid permission scope format: %s", scope)
		}
		resource, action := parts[0], parts[1]

		if action == "*" {
			var matched []Permission
			if err := db.Where("resource = ?", resource).Find(&matched).Error; err != nil {
				return nil, fmt.Errorf("failed to find permissions for %s: %v", resource, err)
			}
			perms = append(perms, matched...)
			continue
		}

		var perm Permission
		if err := db.Where("resource = ? AND action = ?", resource, action).First(&perm).Error; err != nil {
			return nil, fmt.Errorf("failed to find permission %s: %v", scope, err)
		}
		perms = append(perms, perm)
	}
	return perms, nil
}

// CreateSuperAdminFromEnv bootstraps the first administrator account.
// The account is created active, approved and email-verified by fiat.
func CreateSuperAdminFromEnv(db *gorm.DB) error {
	var role Role
	if err := db.Where("name = ?", RoleSuperAdmin).First(&role).Error; err != nil {
		return fmt.Errorf("super admin role not seeded: %v", err)
	}

	var count int64
	db.Model(&User{}).Where("role_id = ?", role.ID).Count(&count)
	log.Info("Super admin count: %d", count)
	if count > 0 {
		return nil
	}

	email, ok := os.LookupEnv("SUPERADMIN_EMAIL")
	if !ok {
		return fmt.Errorf("SUPERADMIN_EMAIL not set")
	}

	password, ok := os.LookupEnv("SUPERADMIN_PASSWORD")
	if !ok {
		return fmt.Errorf("SUPERADMIN_PASSWORD not set")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %v", err)
	}

	name, ok := os.LookupEnv("SUPERADMIN_NAME")
	if !ok {
		return fmt.Errorf("SUPERADMIN_NAME not set")
	}

	user := User{
		FirstName:       name,
		LastName:        "",
		Email:           email,
		Password:        string(hashedPassword),
		RoleID:          role.ID,
		Status:          UserStatusActive,
		IsApproved:      true,
		IsEmailVerified: true,
	}

	if err := db.Create(&user).Error; err != nil {
		return fmt.Errorf("failed to create superadmin user: %v", err)
	}

	return nil
}
