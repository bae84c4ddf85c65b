package services

import (
	"context"
	"strings"

	"memberd/internal/events"
	"memberd/internal/models"
	"memberd/internal/utils/logger"
)

// RegistryService manages the role and permission catalog. Mutations take
// effect for authorization on the next check because permission snapshots
// are loaded per request.
type RegistryService struct {
	roles RoleRepository
	perms PermissionRepository
	users UserRepository
	audit AuditRecorder
	log   *logger.Logger
}

func NewRegistryService(roles RoleRepository, perms PermissionRepository, users UserRepository, audit AuditRecorder) *RegistryService {
	return &RegistryService{
		roles: roles,
		perms: perms,
		users: users,
		audit: audit,
		log:   logger.New("REGISTRY"),
	}
}

type PermissionInput struct {
	Name        string
	Resource    string
	Action      string
	Description string
}

// RolePatch carries a partial role update; nil fields are left untouched
type RolePatch struct {
	Name          *string
	Description   *string
	PermissionIDs *[]string
}

func (s *RegistryService) CreatePermission(ctx context.Context, actor Actor, input PermissionInput) (*models.Permission, error) {
	if input.Resource == "" || input.Action == "" {
		return nil, Validationf("resource and action are required")
	}
	if input.Name == "" {
		input.Name = strings.ToLower(input.Resource) + ":" + strings.ToLower(input.Action)
	}

	if _, err := s.perms.GetByName(ctx, input.Name); err == nil {
		return nil, Conflictf("permission %q already exists", input.Name)
	}
	if _, err := s.perms.GetByResourceAction(ctx, input.Resource, input.Action); err == nil {
		return nil, Conflictf("permission for %s:%s already exists", input.Resource, input.Action)
	}

	perm := &models.Permission{
		Name:        input.Name,
		Resource:    input.Resource,
		Action:      input.Action,
		Description: input.Description,
	}
	if err := s.perms.Create(ctx, perm); err != nil {
		return nil, err
	}

	if err := s.recordMutation(ctx, actor, models.AuditActionPermissionCreate, "permission", perm.ID, perm.Name); err != nil {
		return nil, err
	}
	return perm, nil
}

// UpdatePermission edits the description. Name, resource and action are
// stable identifiers and never change after creation.
func (s *RegistryService) UpdatePermission(ctx context.Context, actor Actor, id, description string) (*models.Permission, error) {
	perm, err := s.perms.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	perm.Description = description
	if err := s.perms.Save(ctx, perm); err != nil {
		return nil, err
	}

	if err := s.recordMutation(ctx, actor, models.AuditActionPermissionUpdate, "permission", perm.ID, perm.Name); err != nil {
		return nil, err
	}
	return perm, nil
}

// DeletePermission refuses to delete while any role references the
// permission, so roles can never hold a dangling reference.
func (s *RegistryService) DeletePermission(ctx context.Context, actor Actor, id string) error {
	perm, err := s.perms.GetByID(ctx, id)
	if err != nil {
		return err
	}

	refs, err := s.perms.CountRoleRefs(ctx, perm.ID)
	if err != nil {
		return err
	}
	if refs > 0 {
		return Conflictf("permission %q is referenced by %d role(s)", perm.Name, refs)
	}

	if err := s.perms.Delete(ctx, perm.ID); err != nil {
		return err
	}
	return s.recordMutation(ctx, actor, models.AuditActionPermissionDelete, "permission", perm.ID, perm.Name)
}

func (s *RegistryService) CreateRole(ctx context.Context, actor Actor, name, description string, permissionIDs []string) (*models.Role, error) {
	if name == "" {
		return nil, Validationf("role name is required")
	}

	if _, err := s.roles.GetByName(ctx, name); err == nil {
		return nil, Conflictf("role %q already exists", name)
	}

	perms, err := s.resolvePermissions(ctx, permissionIDs)
	if err != nil {
		return nil, err
	}

	role := &models.Role{
		Name:        name,
		Description: description,
	}
	if err := s.roles.Create(ctx, role); err != nil {
		return nil, err
	}
	if err := s.roles.ReplacePermissions(ctx, role, perms); err != nil {
		return nil, err
	}

	if err := s.recordMutation(ctx, actor, models.AuditActionRoleCreate, "role", role.ID, role.Name); err != nil {
		return nil, err
	}
	return role, nil
}

// UpdateRole applies a partial update. System roles (IsDefault) only accept
// description edits; renames and permission changes are Forbidden for every
// caller, superadmins included.
func (s *RegistryService) UpdateRole(ctx context.Context, actor Actor, id string, patch RolePatch) (*models.Role, error) {
	role, err := s.roles.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if role.IsDefault && (patch.Name != nil || patch.PermissionIDs != nil) {
		return nil, Forbiddenf("system role %q cannot be renamed or re-permissioned", role.Name)
	}

	// Resolve the whole patch before the first write so a bad patch
	// leaves the role untouched
	var perms []models.Permission
	if patch.PermissionIDs != nil {
		perms, err = s.resolvePermissions(ctx, *patch.PermissionIDs)
		if err != nil {
			return nil, err
		}
	}

	if patch.Name != nil && *patch.Name != role.Name {
		if _, err := s.roles.GetByName(ctx, *patch.Name); err == nil {
			return nil, Conflictf("role %q already exists", *patch.Name)
		}
		role.Name = *patch.Name
	}
	if patch.Description != nil {
		role.Description = *patch.Description
	}

	if err := s.roles.Save(ctx, role); err != nil {
		return nil, err
	}

	if patch.PermissionIDs != nil {
		if err := s.roles.ReplacePermissions(ctx, role, perms); err != nil {
			return nil, err
		}
	}

	if err := s.recordMutation(ctx, actor, models.AuditActionRoleUpdate, "role", role.ID, role.Name); err != nil {
		return nil, err
	}

	events.Emit("role.updated", role)
	return role, nil
}

func (s *RegistryService) DeleteRole(ctx context.Context, actor Actor, id string) error {
	role, err := s.roles.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if role.IsDefault {
		return Forbiddenf("system role %q cannot be deleted", role.Name)
	}

	holders, err := s.users.CountByRole(ctx, role.ID)
	if err != nil {
		return err
	}
	if holders > 0 {
		return Conflictf("role %q is assigned to %d user(s)", role.Name, holders)
	}

	if err := s.roles.Delete(ctx, role.ID); err != nil {
		return err
	}
	return s.recordMutation(ctx, actor, models.AuditActionRoleDelete, "role", role.ID, role.Name)
}

// AssignRole changes a user's role. The new permission set applies to the
// user's very next authorization check.
func (s *RegistryService) AssignRole(ctx context.Context, actor Actor, userID, roleID string) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	role, err := s.roles.GetByID(ctx, roleID)
	if err != nil {
		return nil, err
	}

	user.RoleID = role.ID
	user.Role = role
	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}

	entry := &models.AuditTrailEntry{
		UserID:       actor.ID,
		Action:       models.AuditActionRoleAssign,
		ResourceType: "user",
		ResourceID:   user.ID,
		Details:      auditDetails(map[string]string{"role": role.Name}),
		IPAddress:    actor.IPAddress,
	}
	if err := s.audit.Record(ctx, entry); err != nil {
		return nil, err
	}

	events.Emit("user.role_assigned", user)
	return user, nil
}

func (s *RegistryService) resolvePermissions(ctx context.Context, ids []string) ([]models.Permission, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	perms, err := s.perms.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(perms) != len(ids) {
		found := make(map[string]bool, len(perms))
		for _, p := range perms {
			found[p.ID] = true
		}
		for _, id := range ids {
			if !found[id] {
				return nil, NotFoundf("permission %s", id)
			}
		}
	}
	return perms, nil
}

func (s *RegistryService) recordMutation(ctx context.Context, actor Actor, action, resourceType, resourceID, name string) error {
	entry := &models.AuditTrailEntry{
		UserID:       actor.ID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Details:      auditDetails(map[string]string{"name": name}),
		IPAddress:    actor.IPAddress,
	}
	return s.audit.Record(ctx, entry)
}
