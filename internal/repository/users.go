package repository

import (
	"context"
	"errors"
	"time"

	"memberd/internal/models"
	"memberd/internal/services"

	"gorm.io/gorm"
)

// UserRepo is the gorm-backed implementation of services.UserRepository
type UserRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) *UserRepo {
	return &UserRepo{db: db}
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	user := &models.User{}
	err := r.db.WithContext(ctx).
		Preload("Role.Permissions").
		Where("id = ? AND is_deleted = ?", id, false).
		First(user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, services.NotFoundf("user %s", id)
		}
		return nil, err
	}
	return user, nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user := &models.User{}
	err := r.db.WithContext(ctx).
		Preload("Role.Permissions").
		Where("email = ? AND is_deleted = ?", email, false).
		First(user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, services.NotFoundf("user with email %s", email)
		}
		return nil, err
	}
	return user, nil
}

func (r *UserRepo) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return services.Conflictf("user with email %s already exists", user.Email)
		}
		return err
	}
	return nil
}

func (r *UserRepo) Save(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Omit("Role").Save(user).Error
}

func (r *UserRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Updates(map[string]interface{}{
			"deleted_at": time.Now(),
			"is_deleted": true,
		}).Error
}

func (r *UserRepo) ListByStatus(ctx context.Context, status models.UserStatus, page, limit int) ([]models.User, int64, error) {
	var users []models.User
	var total int64

	query := r.db.WithContext(ctx).Model(&models.User{}).
		Where("status = ? AND is_deleted = ?", status, false)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if page > 0 && limit > 0 {
		query = query.Offset((page - 1) * limit).Limit(limit)
	}

	if err := query.Preload("Role").Order("created_at asc").Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (r *UserRepo) CountByRole(ctx context.Context, roleID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("role_id = ? AND is_deleted = ?", roleID, false).
		Count(&count).Error
	return count, err
}
