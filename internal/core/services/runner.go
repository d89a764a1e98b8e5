package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/custodia-labs/storesync/internal/core/domain"
	"github.com/custodia-labs/storesync/internal/core/ports/driven"
	"github.com/custodia-labs/storesync/internal/logger"
)

// RunnerConfig bounds page size and transport retries.
type RunnerConfig struct {
	// PerPage is the number of entities one job processes.
	PerPage int

	// MaxAttempts is the number of deliveries a page gets before it is buried.
	MaxAttempts int
}

// leaseMargin covers catalog reads and bookkeeping around a page's requests.
const leaseMargin = time.Minute

// LeaseTimeout is how long a page job may stay leased before the queue hands
// it to another worker. Every item of a page may issue two requests, each
// bounded by requestTimeout.
func LeaseTimeout(perPage int, requestTimeout time.Duration) time.Duration {
	if perPage < 1 {
		perPage = domain.DefaultAppSettings().Sync.PerPage
	}
	return time.Duration(perPage)*2*requestTimeout + leaseMargin
}

// PageResult is the outcome of running one job.
type PageResult struct {
	Succeeded int
	Failed    int

	// Continued is set when the next page was enqueued.
	Continued bool

	// Completed is set when this page finished the run.
	Completed bool

	// Retried is set when a transport failure re-enqueued the page.
	Retried bool

	// Buried is set when the page exhausted its attempts.
	Buried bool
}

// Runner executes sync jobs: one page of one resource per call.
type Runner struct {
	stages  *StageRegistry
	catalog driven.CatalogSource
	queue   driven.JobQueue
	runs    driven.SyncRunStore
	cfg     RunnerConfig
	log     *zap.Logger
	now     func() time.Time
}

// NewRunner creates a job runner.
func NewRunner(
	stages *StageRegistry,
	catalog driven.CatalogSource,
	queue driven.JobQueue,
	runs driven.SyncRunStore,
	cfg RunnerConfig,
	log *zap.Logger,
) *Runner {
	if cfg.PerPage < 1 {
		cfg.PerPage = domain.DefaultAppSettings().Sync.PerPage
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{
		stages:  stages,
		catalog: catalog,
		queue:   queue,
		runs:    runs,
		cfg:     cfg,
		log:     log,
		now:     time.Now,
	}
}

// Run processes job and acknowledges it in the queue.
//
// Item failures are logged and counted; the page carries on. A transport
// failure aborts the page and hands it to the retry policy. When the page
// was the last one, the stage is completed once per run and the run is
// recorded as complete. A returned error means the job was left leased and
// will be redelivered by the queue.
func (r *Runner) Run(ctx context.Context, job domain.SyncJob) (PageResult, error) {
	var result PageResult

	stage, err := r.stages.ByAction(job.Action)
	if err != nil {
		r.log.Error("job has no stage", zap.String("action", job.Action), zap.String("job_id", job.ID))
		if buryErr := r.queue.Bury(ctx, job.ID, err.Error()); buryErr != nil {
			return result, buryErr
		}
		result.Buried = true
		return result, nil
	}
	if job.Page < 1 {
		job.Page = 1
	}

	log := logger.Channel(r.log, "sync."+stage.Resource().String()).With(
		zap.String("store_id", job.StoreID),
		zap.String("run_id", job.RunID),
		zap.Int("page", job.Page),
		zap.Int("attempt", job.Attempt),
	)

	page, err := r.catalog.Page(ctx, job.StoreID, stage.Resource(), job.Page, r.cfg.PerPage)
	if err != nil {
		return r.retry(ctx, job, fmt.Errorf("load page: %w", err), log)
	}

	event := "sync." + stage.Resource().String()
	for _, entity := range page.Items {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		err := stage.Iterate(ctx, job.StoreID, entity)
		switch {
		case err == nil:
			result.Succeeded++
			log.Debug(event+".success", zap.String("id", entity.EntityID()))
		case domain.IsTransport(err):
			log.Warn("transport failure, aborting page", zap.String("id", entity.EntityID()), zap.Error(err))
			return r.retry(ctx, job, err, log)
		default:
			result.Failed++
			log.Warn(event+".error",
				zap.String("id", entity.EntityID()),
				zap.Int("status", domain.StatusCode(err)),
				zap.Error(err),
			)
		}
	}

	state, err := r.runs.Get(ctx, job.StoreID, stage.Resource())
	if err != nil {
		return result, fmt.Errorf("get run state: %w", err)
	}
	if state == nil {
		state = &domain.SyncRunState{StoreID: job.StoreID, Resource: stage.Resource()}
	}
	if state.IsComplete(job.RunID) {
		// Redelivered after the run already completed; the chain must not fire twice.
		log.Info("run already complete, skipping duplicate")
		return result, r.queue.Complete(ctx, job.ID)
	}

	now := r.now()
	state.RecordPage(job.RunID, result.Succeeded, result.Failed, now)

	if page.HasMore() {
		// The continuation may run on another worker as soon as it is
		// enqueued, so this page's counters are saved first.
		if err := r.save(ctx, state); err != nil {
			return result, err
		}
		if err := r.enqueue(ctx, job.NextPage()); err != nil {
			return result, err
		}
		result.Continued = true
	} else {
		if err := stage.Complete(ctx, job); err != nil {
			return result, fmt.Errorf("complete %s: %w", stage.Resource(), err)
		}
		state.CompletedAt = now
		state.CompletedRunID = job.RunID
		if err := r.save(ctx, state); err != nil {
			return result, err
		}
		result.Completed = true
	}

	log.Info(event+".page",
		zap.Int("succeeded", result.Succeeded),
		zap.Int("failed", result.Failed),
		zap.Int("total", page.Total),
		zap.Bool("completed", result.Completed),
	)
	return result, r.queue.Complete(ctx, job.ID)
}

// retry re-enqueues the same cursor while attempts remain and buries the job
// once they are exhausted.
func (r *Runner) retry(ctx context.Context, job domain.SyncJob, cause error, log *zap.Logger) (PageResult, error) {
	var result PageResult

	if job.Attempt+1 < r.cfg.MaxAttempts {
		if err := r.enqueue(ctx, job.Retry()); err != nil {
			return result, err
		}
		result.Retried = true
		log.Info("page scheduled for retry", zap.Int("next_attempt", job.Attempt+1), zap.Error(cause))
		return result, r.queue.Complete(ctx, job.ID)
	}

	reason := fmt.Errorf("%w after %d attempts: %w", domain.ErrJobExhausted, job.Attempt+1, cause)
	if err := r.queue.Bury(ctx, job.ID, reason.Error()); err != nil {
		return result, err
	}
	result.Buried = true
	log.Error("page permanently failed", zap.Error(reason))
	return result, nil
}

func (r *Runner) save(ctx context.Context, state *domain.SyncRunState) error {
	if err := r.runs.Save(ctx, *state); err != nil {
		return fmt.Errorf("save run state: %w", err)
	}
	return nil
}

func (r *Runner) enqueue(ctx context.Context, job domain.SyncJob) error {
	if err := r.queue.Enqueue(ctx, job); err != nil {
		return fmt.Errorf("enqueue %s page %d: %w", job.Resource, job.Page, err)
	}
	return nil
}
