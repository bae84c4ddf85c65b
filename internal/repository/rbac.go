package repository

import (
	"context"
	"errors"
	"time"

	"memberd/internal/models"
	"memberd/internal/services"

	"gorm.io/gorm"
)

// RoleRepo is the gorm-backed implementation of services.RoleRepository
type RoleRepo struct {
	db *gorm.DB
}

func NewRoleRepo(db *gorm.DB) *RoleRepo {
	return &RoleRepo{db: db}
}

func (r *RoleRepo) GetByID(ctx context.Context, id string) (*models.Role, error) {
	role := &models.Role{}
	err := r.db.WithContext(ctx).
		Preload("Permissions").
		Where("id = ? AND is_deleted = ?", id, false).
		First(role).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, services.NotFoundf("role %s", id)
		}
		return nil, err
	}
	return role, nil
}

func (r *RoleRepo) GetByName(ctx context.Context, name string) (*models.Role, error) {
	role := &models.Role{}
	err := r.db.WithContext(ctx).
		Preload("Permissions").
		Where("name = ? AND is_deleted = ?", name, false).
		First(role).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, services.NotFoundf("role %q", name)
		}
		return nil, err
	}
	return role, nil
}

func (r *RoleRepo) Create(ctx context.Context, role *models.Role) error {
	if err := r.db.WithContext(ctx).Omit("Permissions").Create(role).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return services.Conflictf("role %q already exists", role.Name)
		}
		return err
	}
	return nil
}

func (r *RoleRepo) Save(ctx context.Context, role *models.Role) error {
	return r.db.WithContext(ctx).Omit("Permissions").Save(role).Error
}

func (r *RoleRepo) ReplacePermissions(ctx context.Context, role *models.Role, perms []models.Permission) error {
	if err := r.db.WithContext(ctx).Model(role).Association("Permissions").Replace(perms); err != nil {
		return err
	}
	role.Permissions = perms
	return nil
}

func (r *RoleRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Model(&models.Role{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Updates(map[string]interface{}{
			"deleted_at": time.Now(),
			"is_deleted": true,
		}).Error
}

// PermissionRepo is the gorm-backed implementation of services.PermissionRepository
type PermissionRepo struct {
	db *gorm.DB
}

func NewPermissionRepo(db *gorm.DB) *PermissionRepo {
	return &PermissionRepo{db: db}
}

func (r *PermissionRepo) GetByID(ctx context.Context, id string) (*models.Permission, error) {
	perm := &models.Permission{}
	err := r.db.WithContext(ctx).
		Where("id = ? AND is_deleted = ?", id, false).
		First(perm).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, services.NotFoundf("permission %s", id)
		}
		return nil, err
	}
	return perm, nil
}

func (r *PermissionRepo) GetByIDs(ctx context.Context, ids []string) ([]models.Permission, error) {
	var perms []models.Permission
	err := r.db.WithContext(ctx).
		Where("id IN ? AND is_deleted = ?", ids, false).
		Find(&perms).Error
	return perms, err
}

func (r *PermissionRepo) GetByName(ctx context.Context, name string) (*models.Permission, error) {
	perm := &models.Permission{}
	err := r.db.WithContext(ctx).
		Where("name = ? AND is_deleted = ?", name, false).
		First(perm).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, services.NotFoundf("permission %q", name)
		}
		return nil, err
	}
	return perm, nil
}

func (r *PermissionRepo) GetByResourceAction(ctx context.Context, resource, action string) (*models.Permission, error) {
	perm := &models.Permission{}
	err := r.db.WithContext(ctx).
		Where("resource = ? AND action = ? AND is_deleted = ?", resource, action, false).
		First(perm).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, services.NotFoundf("permission %s:%s", resource, action)
		}
		return nil, err
	}
	return perm, nil
}

func (r *PermissionRepo) Create(ctx context.Context, perm *models.Permission) error {
	if err := r.db.WithContext(ctx).Create(perm).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return services.Conflictf("permission %q already exists", perm.Name)
		}
		return err
	}
	return nil
}

func (r *PermissionRepo) Save(ctx context.Context, perm *models.Permission) error {
	return r.db.WithContext(ctx).Save(perm).Error
}

func (r *PermissionRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Model(&models.Permission{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Updates(map[string]interface{}{
			"deleted_at": time.Now(),
			"is_deleted": true,
		}).Error
}

func (r *PermissionRepo) CountRoleRefs(ctx context.Context, permissionID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Table("role_permissions").
		Where("permission_id = ?", permissionID).
		Count(&count).Error
	return count, err
}
