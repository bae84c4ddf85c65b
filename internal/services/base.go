package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// QueryService provides read-only access to a model for list and detail
// endpoints. Mutations deliberately have no generic path: every write goes
// through the lifecycle or registry services so it is authorized and audited.
type QueryService[T any] interface {
	Get(ctx context.Context, id string, includes ...string) (*T, error)
	List(ctx context.Context, page, limit int, filters map[string]interface{}, sortField, order string, includes ...string) ([]T, int64, error)
}

type queryServiceImpl[T any] struct {
	db        *gorm.DB
	modelType T
}

// NewQueryService creates a read-only query service for a model
func NewQueryService[T any](db *gorm.DB, modelType T) QueryService[T] {
	return &queryServiceImpl[T]{
		db:        db,
		modelType: modelType,
	}
}

func (s *queryServiceImpl[T]) applyIncludes(query *gorm.DB, includes ...string) *gorm.DB {
	for _, include := range includes {
		query = query.Preload(include)
	}
	return query
}

func (s *queryServiceImpl[T]) Get(ctx context.Context, id string, includes ...string) (*T, error) {
	var entity T
	query := s.db.WithContext(ctx)
	query = s.applyIncludes(query, includes...)

	// filter deleted entities
	query = query.Where("is_deleted = ?", false)

	if err := query.First(&entity, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, NotFoundf("entity %s", id)
		}
		return nil, err
	}
	return &entity, nil
}

func (s *queryServiceImpl[T]) List(ctx context.Context, page, limit int, filters map[string]interface{}, sortField, order string, includes ...string) ([]T, int64, error) {
	var entities []T
	var total int64

	query := s.db.WithContext(ctx).Model(s.modelType)

	for key, value := range filters {
		query = query.Where(key+" = ?", value)
	}

	query = query.Where("is_deleted = ?", false)

	// Total count before pagination
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = s.applyIncludes(query, includes...)

	if page > 0 && limit > 0 {
		offset := (page - 1) * limit
		query = query.Offset(offset).Limit(limit)
	}

	if sortField != "" {
		if order != "asc" && order != "desc" {
			order = "asc"
		}
		query = query.Order(fmt.Sprintf("%s %s", sortField, order))
	}

	if err := query.Find(&entities).Error; err != nil {
		return nil, 0, err
	}

	return entities, total, nil
}
