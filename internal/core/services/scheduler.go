package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/custodia-labs/storesync/internal/core/domain"
	"github.com/custodia-labs/storesync/internal/core/ports/driving"
	"github.com/custodia-labs/storesync/internal/logger"
)

// Ensure Scheduler implements the interface.
var _ driving.Scheduler = (*Scheduler)(nil)

// Scheduler starts a full sync on a fixed interval alongside a worker.
// A tick that finds jobs still queued is skipped.
type Scheduler struct {
	interval time.Duration
	syncOrch driving.SyncOrchestrator
	log      *zap.Logger

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	wg      sync.WaitGroup

	lastRun time.Time
	lastErr error
}

// NewScheduler creates a scheduler triggering syncOrch every interval.
func NewScheduler(interval time.Duration, syncOrch driving.SyncOrchestrator, log *zap.Logger) *Scheduler {
	return &Scheduler{
		interval: interval,
		syncOrch: syncOrch,
		log:      logger.Channel(log, "scheduler"),
	}
}

// Start runs the scheduler loop. It blocks until Stop is called or ctx ends.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.interval <= 0 {
		return nil
	}

	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = true
	s.stopCh = make(chan struct{})
	stopCh := s.stopCh
	s.wg.Add(1)
	s.mu.Unlock()
	defer s.wg.Done()

	s.tick(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-stopCh:
			return nil
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

// Stop ends the loop and waits for an in-flight tick.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	close(s.stopCh)
	s.mu.Unlock()

	s.wg.Wait()
	return nil
}

// LastRun returns when the last tick fired and the error it produced.
func (s *Scheduler) LastRun() (time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRun, s.lastErr
}

func (s *Scheduler) tick(ctx context.Context) {
	started := time.Now()
	jobs, err := s.syncOrch.StartFullSync(ctx, driving.SyncOptions{})

	switch {
	case errors.Is(err, domain.ErrSyncInProgress):
		s.log.Debug("previous sync still queued, skipping tick")
		err = nil
	case err != nil:
		s.log.Error("scheduled sync failed", zap.Error(err))
	default:
		s.log.Info("scheduled sync started", zap.Int("jobs", len(jobs)))
	}

	s.mu.Lock()
	s.lastRun = started
	s.lastErr = err
	s.mu.Unlock()
}
