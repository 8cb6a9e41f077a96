package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/edgard/saansbot/internal/bot/tasks"
	"github.com/edgard/saansbot/internal/config"
	"github.com/edgard/saansbot/internal/logger"
)

// ErrSchedulerRunning is returned by Start on a scheduler that is already running.
var ErrSchedulerRunning = errors.New("scheduler is already running")

// Scheduler runs the journal maintenance tasks on their cron schedules.
type Scheduler struct {
	cron    gocron.Scheduler
	logger  *slog.Logger
	cfg     *config.SchedulerConfig
	taskMap map[string]tasks.ScheduledTaskFunc

	// ctx is handed to every task run and cancelled by Stop.
	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	running bool
}

// NewScheduler creates a scheduler for the tasks in taskMap. Only tasks that
// are both registered and enabled in cfg are scheduled.
func NewScheduler(log *slog.Logger, cfg *config.SchedulerConfig, taskMap map[string]tasks.ScheduledTaskFunc) (*Scheduler, error) {
	if log == nil {
		log = slog.Default()
	}
	log = log.With("component", "scheduler")

	cron, err := gocron.NewScheduler(gocron.WithLogger(logger.NewGocronLogger(log)))
	if err != nil {
		return nil, fmt.Errorf("create gocron scheduler: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron:    cron,
		logger:  log,
		cfg:     cfg,
		taskMap: taskMap,
		ctx:     ctx,
		cancel:  cancel,
	}, nil
}

// Start schedules the tasks and starts ticking. A task that cannot be
// scheduled is logged and skipped.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return ErrSchedulerRunning
	}

	scheduled := 0
	if s.cfg != nil {
		for name, tc := range s.cfg.Tasks {
			if s.schedule(name, tc) {
				scheduled++
			}
		}
	}

	s.cron.Start()
	s.running = true
	s.logger.Info("Scheduler started", "registered", len(s.taskMap), "scheduled", scheduled)
	return nil
}

// schedule adds one task as a gocron job and reports whether it was added.
func (s *Scheduler) schedule(name string, tc config.TaskConfig) bool {
	log := s.logger.With("task", name)

	fn, ok := s.taskMap[name]
	switch {
	case !tc.Enabled:
		log.Debug("Task disabled")
		return false
	case !ok:
		log.Debug("Task configured but not registered")
		return false
	case tc.Schedule == "":
		log.Warn("Task enabled without a schedule")
		return false
	}

	_, err := s.cron.NewJob(
		gocron.CronJob(tc.Schedule, true),
		gocron.NewTask(s.wrap(name, fn), s.ctx),
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Error("Task schedule rejected", "schedule", tc.Schedule, "error", err)
		return false
	}

	log.Info("Task scheduled", "schedule", tc.Schedule)
	return true
}

// wrap logs the outcome and duration of every run of a task.
func (s *Scheduler) wrap(name string, fn tasks.ScheduledTaskFunc) func(ctx context.Context) {
	log := s.logger.With("task", name)
	return func(ctx context.Context) {
		began := time.Now()
		if err := fn(ctx); err != nil {
			log.ErrorContext(ctx, "Task run failed", "error", err, "duration", time.Since(began))
			return
		}
		log.InfoContext(ctx, "Task run finished", "duration", time.Since(began))
	}
}

// JobCount returns the number of scheduled jobs.
func (s *Scheduler) JobCount() int {
	return len(s.cron.Jobs())
}

// Stop cancels running tasks and waits for them to return. Stopping a
// scheduler that is not running is a no-op.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}
	s.running = false

	s.cancel()
	if err := s.cron.Shutdown(); err != nil {
		return fmt.Errorf("shutdown scheduler: %w", err)
	}
	s.logger.Info("Scheduler stopped")
	return nil
}
