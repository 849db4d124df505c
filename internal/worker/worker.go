package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Task is one periodic maintenance job.
type Task interface {
	Name() string
	Run(ctx context.Context) error
}

// TaskFunc adapts a function to Task.
type TaskFunc struct {
	TaskName string
	Fn       func(ctx context.Context) error
}

func (t TaskFunc) Name() string                  { return t.TaskName }
func (t TaskFunc) Run(ctx context.Context) error { return t.Fn(ctx) }

// Config holds worker configuration
type Config struct {
	// WorkerID uniquely identifies this worker instance
	WorkerID string

	// PollInterval is how often the tasks run
	PollInterval time.Duration

	// MaxConcurrency is the maximum number of tasks running at once
	MaxConcurrency int

	// TaskTimeout bounds a single task run
	TaskTimeout time.Duration
}

// Worker runs maintenance tasks on a ticker.
type Worker struct {
	config Config
	tasks  []Task
	logger *slog.Logger
}

// NewWorker creates a new background worker
func NewWorker(config Config, logger *slog.Logger, tasks ...Task) *Worker {
	// Set defaults
	if config.WorkerID == "" {
		config.WorkerID = fmt.Sprintf("worker-%s", uuid.New().String()[:8])
	}
	if config.PollInterval == 0 {
		config.PollInterval = time.Minute
	}
	if config.MaxConcurrency == 0 {
		config.MaxConcurrency = 2
	}
	if config.TaskTimeout == 0 {
		config.TaskTimeout = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Worker{
		config: config,
		tasks:  tasks,
		logger: logger,
	}
}

// Start runs tasks until the context is cancelled
func (w *Worker) Start(ctx context.Context) error {
	w.logger.Info("worker starting",
		"worker_id", w.config.WorkerID,
		"tasks", len(w.tasks),
		"poll_interval", w.config.PollInterval,
		"max_concurrency", w.config.MaxConcurrency,
	)

	ticker := time.NewTicker(w.config.PollInterval)
	defer ticker.Stop()

	// Semaphore for concurrency control
	sem := make(chan struct{}, w.config.MaxConcurrency)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("worker shutting down", "worker_id", w.config.WorkerID)
			// Wait for in-flight tasks
			for i := 0; i < cap(sem); i++ {
				sem <- struct{}{}
			}
			return nil

		case <-ticker.C:
			for _, task := range w.tasks {
				select {
				case sem <- struct{}{}:
					go func(task Task) {
						defer func() { <-sem }()
						w.runTask(ctx, task)
					}(task)
				default:
					// At max concurrency, skip this tick
					w.logger.Debug("worker busy, skipping task", "task", task.Name())
				}
			}
		}
	}
}

// RunOnce runs every task sequentially. Used at startup and in tests.
func (w *Worker) RunOnce(ctx context.Context) {
	for _, task := range w.tasks {
		w.runTask(ctx, task)
	}
}

func (w *Worker) runTask(ctx context.Context, task Task) {
	taskCtx, cancel := context.WithTimeout(ctx, w.config.TaskTimeout)
	defer cancel()

	start := time.Now()
	if err := task.Run(taskCtx); err != nil {
		w.logger.Error("task failed",
			"task", task.Name(),
			"error", err,
		)
		return
	}

	w.logger.Debug("task completed",
		"task", task.Name(),
		"duration", time.Since(start),
	)
}
