package services

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/custodia-labs/storesync/internal/core/domain"
	"github.com/custodia-labs/storesync/internal/core/ports/driven"
	"github.com/custodia-labs/storesync/internal/core/ports/driving"
	"github.com/custodia-labs/storesync/internal/logger"
)

// Ensure SyncOrchestrator implements the interface.
var _ driving.SyncOrchestrator = (*SyncOrchestrator)(nil)

// Platform identifies this connector on remote store records.
const Platform = "storesync"

// SyncOrchestrator registers the store remotely and seeds sync runs.
type SyncOrchestrator struct {
	api   driven.MarketingAPI
	chain *Chain
	queue driven.JobQueue
	runs  driven.SyncRunStore
	store domain.StoreSettings
	sync  domain.SyncSettings
	log   *zap.Logger
	now   func() time.Time
}

// NewSyncOrchestrator creates a new sync orchestrator for one store.
func NewSyncOrchestrator(
	api driven.MarketingAPI,
	chain *Chain,
	queue driven.JobQueue,
	runs driven.SyncRunStore,
	store domain.StoreSettings,
	syncCfg domain.SyncSettings,
	log *zap.Logger,
) *SyncOrchestrator {
	return &SyncOrchestrator{
		api:   api,
		chain: chain,
		queue: queue,
		runs:  runs,
		store: store,
		sync:  syncCfg,
		log:   logger.Channel(log, "sync"),
		now:   time.Now,
	}
}

// StartFullSync registers the store and enqueues the first page of each
// chain head. Heads completed within the resync window are skipped unless
// forced; a sync is refused while jobs are still queued unless forced.
func (o *SyncOrchestrator) StartFullSync(ctx context.Context, opts driving.SyncOptions) ([]domain.SyncJob, error) {
	storeID := o.store.StoreID()
	if storeID == "" {
		return nil, fmt.Errorf("%w: store site URL or id not configured", domain.ErrInvalidInput)
	}

	heads := Heads(o.store.ListID != "")
	if opts.Resource != "" {
		if !opts.Resource.IsValid() {
			return nil, fmt.Errorf("%w: %q", domain.ErrUnknownResource, opts.Resource)
		}
		if opts.Resource == domain.ResourceMembers && o.store.ListID == "" {
			return nil, fmt.Errorf("%w: members sync needs store.list_id", domain.ErrInvalidInput)
		}
		heads = []domain.ResourceType{opts.Resource}
	}

	if !opts.Force {
		stats, err := o.queue.Stats(ctx)
		if err != nil {
			return nil, fmt.Errorf("queue stats: %w", err)
		}
		if stats.Pending+stats.Running > 0 {
			return nil, fmt.Errorf("%w: %d jobs queued", domain.ErrSyncInProgress, stats.Pending+stats.Running)
		}
	}

	if _, err := o.EnsureStore(ctx); err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	var jobs []domain.SyncJob
	for _, resource := range heads {
		if !opts.Force && o.sync.ResyncAfter > 0 {
			state, err := o.runs.Get(ctx, storeID, resource)
			if err != nil {
				return jobs, fmt.Errorf("get run state: %w", err)
			}
			if state.CompletedWithin(o.sync.ResyncAfter, o.now()) {
				o.log.Info("resource synced recently, skipping",
					zap.String("resource", resource.String()),
					zap.Time("completed_at", state.CompletedAt),
				)
				continue
			}
		}

		job, err := o.chain.Enqueue(ctx, resource, storeID, runID, 1)
		if err != nil {
			return jobs, err
		}
		jobs = append(jobs, job)
	}

	o.log.Info("full sync started",
		zap.String("store_id", storeID),
		zap.String("run_id", runID),
		zap.Int("jobs", len(jobs)),
	)
	return jobs, nil
}

// EnsureStore creates the remote store or updates it from local settings.
func (o *SyncOrchestrator) EnsureStore(ctx context.Context) (*domain.Store, error) {
	want := o.StoreRecord()

	existing, err := o.api.GetStore(ctx, want.ID)
	if err != nil {
		return nil, fmt.Errorf("get store: %w", err)
	}

	var store *domain.Store
	if existing != nil {
		store, err = o.api.UpdateStore(ctx, want)
	} else {
		store, err = o.api.AddStore(ctx, want)
	}
	if err != nil {
		return nil, fmt.Errorf("register store: %w", err)
	}
	o.log.Info("store registered", zap.String("store_id", want.ID), zap.Bool("created", existing == nil))
	return store, nil
}

// StoreRecord builds the remote store document from local settings.
func (o *SyncOrchestrator) StoreRecord() *domain.Store {
	name := o.store.Name
	host := ""
	if u, err := url.Parse(o.store.SiteURL); err == nil {
		host = u.Host
	}
	if name == "" {
		name = host
	}
	return &domain.Store{
		ID:           o.store.StoreID(),
		ListID:       o.store.ListID,
		Name:         name,
		Platform:     Platform,
		Domain:       host,
		EmailAddress: o.store.EmailAddress,
		CurrencyCode: o.store.CurrencyCode,
		Timezone:     o.store.Timezone,
	}
}

// Status returns recorded progress for the configured store.
func (o *SyncOrchestrator) Status(ctx context.Context) (*driving.SyncStatus, error) {
	storeID := o.store.StoreID()
	states, err := o.runs.List(ctx, storeID)
	if err != nil {
		return nil, fmt.Errorf("list run states: %w", err)
	}
	stats, err := o.queue.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("queue stats: %w", err)
	}
	return &driving.SyncStatus{StoreID: storeID, Resources: states, Queue: stats}, nil
}
