package tasks

import (
	"fmt"

	"memberd/internal/utils/logger"

	"github.com/hibiken/asynq"
	"github.com/robfig/cron/v3"
)

const defaultDigestSpec = "0 8 * * *"

// Scheduler handles periodic task scheduling
type Scheduler struct {
	scheduler  *asynq.Scheduler
	digestSpec string
	logger     *logger.Logger
}

// NewScheduler creates a new task scheduler. digestSpec is the cron
// expression for the pending-approvals digest; an empty or unparsable
// expression falls back to the 08:00 daily default.
func NewScheduler(redisAddr, username, password string, db int, digestSpec string, logger *logger.Logger) *Scheduler {
	scheduler := asynq.NewScheduler(
		asynq.RedisClientOpt{
			Addr:     redisAddr,
			Username: username,
			Password: password,
			DB:       db,
		},
		&asynq.SchedulerOpts{},
	)

	return &Scheduler{
		scheduler:  scheduler,
		digestSpec: digestSpec,
		logger:     logger,
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	if err := s.registerTasks(); err != nil {
		return fmt.Errorf("failed to register tasks: %w", err)
	}

	s.logger.Info("starting task scheduler")
	return s.scheduler.Run()
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.scheduler.Shutdown()
	s.logger.Info("task scheduler stopped")
}

// registerTasks registers all periodic tasks
func (s *Scheduler) registerTasks() error {
	spec := s.digestSpec
	if !validCronSpec(spec) {
		if spec != "" {
			s.logger.Warn("invalid digest schedule %q, using %q", spec, defaultDigestSpec)
		}
		spec = defaultDigestSpec
	}

	entryID, err := s.scheduler.Register(
		spec,
		asynq.NewTask(TaskTypePendingDigest, nil),
		asynq.Queue(QueueLow),
		asynq.MaxRetry(RetryMin),
	)
	if err != nil {
		return fmt.Errorf("failed to register pending digest: %w", err)
	}
	s.logger.Info("registered pending digest task %s on %q", entryID, spec)

	return nil
}

// validCronSpec reports whether the expression parses as a standard
// five-field cron spec (descriptors like @daily included).
func validCronSpec(spec string) bool {
	if spec == "" {
		return false
	}
	_, err := cron.ParseStandard(spec)
	return err == nil
}
