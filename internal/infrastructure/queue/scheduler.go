package queue

import (
	"time"

	"github.com/hibiken/asynq"

	"cardfolio-backend/internal/shared"
	"cardfolio-backend/pkg/logger"
)

type Scheduler struct {
	scheduler *asynq.Scheduler
}

func NewScheduler(redisAddress string) *Scheduler {
	scheduler := asynq.NewScheduler(
		asynq.RedisClientOpt{Addr: redisAddress},
		&asynq.SchedulerOpts{
			Location: time.UTC,
			LogLevel: asynq.InfoLevel,
		},
	)

	return &Scheduler{
		scheduler: scheduler,
	}
}

// RegisterPeriodicJobs wires every cron-driven task.
func (s *Scheduler) RegisterPeriodicJobs() error {
	if err := s.registerPublishSweepJob(); err != nil {
		return err
	}

	if err := s.registerCleanupIllustrationsJob(); err != nil {
		return err
	}

	return nil
}

// ================================================
// JOB 1: Publish Sweep (Nightly at 3 AM UTC)
// ================================================
// The sweep is idempotent, so a missed or doubled run is harmless.
func (s *Scheduler) registerPublishSweepJob() error {
	task := asynq.NewTask(shared.TypePublishSweep, nil)

	_, err := s.scheduler.Register(
		"0 3 * * *",
		task,
		asynq.Queue(shared.QueueDefault),
		asynq.MaxRetry(1),
		asynq.Timeout(5*time.Minute),
	)

	if err != nil {
		logger.Error("Failed to register PublishSweep job", err)
		return err
	}

	logger.Info("✓ Registered PublishSweep: nightly at 3 AM UTC", map[string]interface{}{})
	return nil
}

// ================================================
// JOB 2: Cleanup Abandoned Illustrations (Weekly, Sunday 4 AM UTC)
// ================================================
func (s *Scheduler) registerCleanupIllustrationsJob() error {
	task := asynq.NewTask(shared.TypeCleanupThumbnails, nil)

	_, err := s.scheduler.Register(
		"0 4 * * 0",
		task,
		asynq.Queue(shared.QueueLow),
		asynq.MaxRetry(1),
		asynq.Timeout(15*time.Minute),
	)

	if err != nil {
		logger.Error("Failed to register CleanupIllustrations job", err)
		return err
	}

	logger.Info("✓ Registered CleanupIllustrations: weekly on Sunday at 4 AM UTC", map[string]interface{}{})
	return nil
}

func (s *Scheduler) Start() error {
	return s.scheduler.Start()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}
