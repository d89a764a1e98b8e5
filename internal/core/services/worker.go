package services

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/storesync/internal/core/domain"
	"github.com/custodia-labs/storesync/internal/core/ports/driven"
	"github.com/custodia-labs/storesync/internal/core/ports/driving"
)

// Ensure Worker implements the interface.
var _ driving.Worker = (*Worker)(nil)

// WorkerConfig sizes a worker.
type WorkerConfig struct {
	// Concurrency is the number of jobs processed at once.
	Concurrency int

	// PollInterval is how long an idle slot waits before dequeuing again.
	PollInterval time.Duration
}

// Worker pulls jobs from the queue and hands them to the runner.
// Each slot runs one job at a time; slots share nothing but the queue.
type Worker struct {
	queue  driven.JobQueue
	runner *Runner
	cfg    WorkerConfig
	log    *zap.Logger
}

// NewWorker creates a worker.
func NewWorker(queue driven.JobQueue, runner *Runner, cfg WorkerConfig, log *zap.Logger) *Worker {
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = domain.DefaultAppSettings().Sync.PollInterval
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Worker{queue: queue, runner: runner, cfg: cfg, log: log.Named("worker")}
}

// Run processes jobs until ctx is cancelled. Cancellation is not an error.
func (w *Worker) Run(ctx context.Context) error {
	w.log.Info("worker started", zap.Int("concurrency", w.cfg.Concurrency))

	g, ctx := errgroup.WithContext(ctx)
	for range w.cfg.Concurrency {
		g.Go(func() error {
			ticker := time.NewTicker(w.cfg.PollInterval)
			defer ticker.Stop()

			for {
				if w.step(ctx) {
					continue
				}
				select {
				case <-ctx.Done():
					return nil
				case <-ticker.C:
				}
			}
		})
	}

	err := g.Wait()
	w.log.Info("worker stopped")
	return err
}

// Drain processes jobs until the queue reports empty and returns how many ran.
func (w *Worker) Drain(ctx context.Context) (int, error) {
	var processed atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	for range w.cfg.Concurrency {
		g.Go(func() error {
			for {
				if !w.step(ctx) {
					return nil
				}
				processed.Add(1)
			}
		})
	}

	err := g.Wait()
	return int(processed.Load()), err
}

// step dequeues and runs at most one job. It reports whether a job ran.
// Job failures are logged, never returned.
func (w *Worker) step(ctx context.Context) bool {
	if ctx.Err() != nil {
		return false
	}

	job, err := w.queue.Dequeue(ctx)
	if errors.Is(err, domain.ErrQueueEmpty) {
		return false
	}
	if err != nil {
		if ctx.Err() == nil {
			w.log.Error("dequeue failed", zap.Error(err))
		}
		return false
	}

	result, err := w.runner.Run(ctx, *job)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			w.log.Error("job left for redelivery",
				zap.String("job_id", job.ID),
				zap.String("action", job.Action),
				zap.Error(err),
			)
		}
		return true
	}
	if result.Buried {
		w.log.Warn("job buried", zap.String("job_id", job.ID), zap.String("action", job.Action))
	}
	return true
}
