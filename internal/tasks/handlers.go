package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"memberd/internal/config"
	"memberd/internal/mailer"
	"memberd/internal/models"
	"memberd/internal/tasks/rate"
	"memberd/internal/utils/logger"

	"github.com/hibiken/asynq"
	"gorm.io/gorm"
)

var (
	cfg, _ = config.Load()
)

// TaskHandler handles task processing with improved error handling and logging
type TaskHandler struct {
	db      *gorm.DB
	logger  *logger.Logger
	mail    *mailer.Service
	limiter *rate.RecipientRateLimiter
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(db *gorm.DB, mail *mailer.Service, limiter *rate.RecipientRateLimiter) *TaskHandler {
	return &TaskHandler{
		db:      db,
		logger:  logger.New("task_handler"),
		mail:    mail,
		limiter: limiter,
	}
}

// HandleEmailSend renders and delivers one queued email. Template failures
// are deployment defects and skip retry; delivery failures return an error
// so asynq retries with backoff.
func (h *TaskHandler) HandleEmailSend(ctx context.Context, t *asynq.Task) error {
	var payload EmailTaskPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("invalid email payload: %v: %w", err, asynq.SkipRetry)
	}

	if h.limiter != nil {
		allowed, err := h.limiter.Allow(ctx, payload.To)
		if err != nil {
			h.logger.Warn("rate limiter unavailable for %s, sending anyway: %v", payload.To, err)
		} else if !allowed {
			return fmt.Errorf("recipient %s over email rate limit", payload.To)
		}
	}

	delivered, err := h.mail.Send(ctx, payload.To, payload.Template, payload.Data)
	if err != nil {
		return fmt.Errorf("email task for %s: %v: %w", payload.To, err, asynq.SkipRetry)
	}
	if !delivered {
		return fmt.Errorf("all providers failed for %s email to %s", payload.Template, payload.To)
	}

	h.logger.Info("delivered %s email to %s", payload.Template, payload.To)
	return nil
}

// HandlePendingDigest emails the operations address a count of accounts
// still waiting for approval. Skipped when no address is configured or
// nothing is pending.
func (h *TaskHandler) HandlePendingDigest(ctx context.Context, t *asynq.Task) error {
	if cfg.Mail.OpsAddress == "" {
		return nil
	}

	var count int64
	err := h.db.WithContext(ctx).
		Model(&models.User{}).
		Where("status = ? AND is_deleted = ?", models.UserStatusPending, false).
		Count(&count).Error
	if err != nil {
		return fmt.Errorf("failed to count pending users: %w", err)
	}
	if count == 0 {
		return nil
	}

	delivered, err := h.mail.Send(ctx, cfg.Mail.OpsAddress, mailer.TemplatePendingDigest, map[string]string{
		"Count": strconv.FormatInt(count, 10),
		"Date":  time.Now().Format("2006-01-02"),
	})
	if err != nil {
		return fmt.Errorf("pending digest: %v: %w", err, asynq.SkipRetry)
	}
	if !delivered {
		return fmt.Errorf("failed to deliver pending digest to %s", cfg.Mail.OpsAddress)
	}

	h.logger.Info("sent pending approvals digest, %d accounts waiting", count)
	return nil
}
