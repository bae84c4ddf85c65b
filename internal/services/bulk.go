package services

import (
	"context"

	"memberd/internal/metrics"
	"memberd/internal/models"
	"memberd/internal/utils/logger"
)

// BulkItemResult is the tagged per-item outcome of a bulk operation.
// Callers must inspect it; bulk operations never collapse partial failure
// into a single opaque error.
type BulkItemResult struct {
	ID      string `json:"id"`
	Success bool   `json:"success"`
	Code    string `json:"code,omitempty"`
	Error   string `json:"error,omitempty"`
}

type BulkResult struct {
	Succeeded int              `json:"succeeded"`
	Failed    int              `json:"failed"`
	Items     []BulkItemResult `json:"items"`
}

// BulkService applies a single-item lifecycle or registry operation to a
// set of users, one at a time. Each item carries its own audit entry and
// one item's failure never aborts the rest.
type BulkService struct {
	lifecycle *LifecycleService
	registry  *RegistryService
	log       *logger.Logger
}

func NewBulkService(lifecycle *LifecycleService, registry *RegistryService) *BulkService {
	return &BulkService{
		lifecycle: lifecycle,
		registry:  registry,
		log:       logger.New("BULK"),
	}
}

// ChangeStatus applies a status change to every id independently
func (s *BulkService) ChangeStatus(ctx context.Context, actor Actor, userIDs []string, status models.UserStatus) BulkResult {
	return s.apply(userIDs, func(id string) error {
		_, err := s.lifecycle.ChangeStatus(ctx, actor, id, status)
		return err
	})
}

// AssignRole applies a role assignment to every id independently
func (s *BulkService) AssignRole(ctx context.Context, actor Actor, userIDs []string, roleID string) BulkResult {
	return s.apply(userIDs, func(id string) error {
		_, err := s.registry.AssignRole(ctx, actor, id, roleID)
		return err
	})
}

func (s *BulkService) apply(ids []string, op func(id string) error) BulkResult {
	result := BulkResult{Items: make([]BulkItemResult, 0, len(ids))}
	for _, id := range ids {
		if err := op(id); err != nil {
			s.log.Warn("bulk item %s failed: %v", id, err)
			result.Failed++
			result.Items = append(result.Items, BulkItemResult{
				ID:    id,
				Code:  ErrorCode(err),
				Error: err.Error(),
			})
			metrics.BulkItems.WithLabelValues("error").Inc()
			continue
		}
		result.Succeeded++
		result.Items = append(result.Items, BulkItemResult{ID: id, Success: true})
		metrics.BulkItems.WithLabelValues("success").Inc()
	}
	return result
}
