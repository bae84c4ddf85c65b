package repository

import (
	"context"

	"memberd/internal/models"

	"gorm.io/gorm"
)

// AuditRepo appends and reads audit trail entries. Entries are append-only;
// the model's gorm hooks reject updates and deletes.
type AuditRepo struct {
	db *gorm.DB
}

func NewAuditRepo(db *gorm.DB) *AuditRepo {
	return &AuditRepo{db: db}
}

func (r *AuditRepo) Record(ctx context.Context, entry *models.AuditTrailEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// ListForResource returns the audit history of a single resource, newest first
func (r *AuditRepo) ListForResource(ctx context.Context, resourceType, resourceID string, page, limit int) ([]models.AuditTrailEntry, int64, error) {
	var entries []models.AuditTrailEntry
	var total int64

	query := r.db.WithContext(ctx).Model(&models.AuditTrailEntry{}).
		Where("resource_type = ? AND resource_id = ?", resourceType, resourceID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if page > 0 && limit > 0 {
		query = query.Offset((page - 1) * limit).Limit(limit)
	}

	if err := query.Order("created_at desc").Find(&entries).Error; err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}
