package tasks

import (
	"context"
	"encoding/json"

	"memberd/internal/utils/logger"

	"github.com/hibiken/asynq"
)

// TaskClient handles task enqueuing
type TaskClient struct {
	client *asynq.Client
	logger *logger.Logger
}

// NewTaskClient creates a new TaskClient with the given Redis configuration
func NewTaskClient(redisAddr, username, password string, db int) *TaskClient {
	redisOpt := asynq.RedisClientOpt{
		Addr:     redisAddr,
		Username: username,
		Password: password,
		DB:       db,
	}

	return &TaskClient{
		client: asynq.NewClient(redisOpt),
		logger: logger.New("TASKS"),
	}
}

// Close closes the underlying asynq client
func (c *TaskClient) Close() error {
	return c.client.Close()
}

// EmailTaskPayload is the wire format of an email:send task
type EmailTaskPayload struct {
	To       string            `json:"to"`
	Template string            `json:"template"`
	Data     map[string]string `json:"data"`
}

// EnqueueEmail places an email on the critical queue. Enqueue failure is
// logged and reported via the bool; it never propagates to the caller's
// operation.
func (c *TaskClient) EnqueueEmail(ctx context.Context, payload EmailTaskPayload) bool {
	data, err := json.Marshal(payload)
	if err != nil {
		c.logger.Warn("failed to marshal email payload for %s: %v", payload.To, err)
		return false
	}

	task := asynq.NewTask(TaskTypeEmailSend, data)
	_, err = c.client.EnqueueContext(ctx, task,
		asynq.Queue(QueueCritical),
		asynq.MaxRetry(RetryDefault),
		asynq.Timeout(TimeoutShort),
	)
	if err != nil {
		c.logger.Warn("failed to enqueue %s email for %s: %v", payload.Template, payload.To, err)
		return false
	}
	return true
}
