package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/custodia-labs/storesync/internal/core/domain"
	"github.com/custodia-labs/storesync/internal/core/ports/driven"
	"github.com/custodia-labs/storesync/internal/logger"
)

// successors lists the resources started when a resource completes.
// Orders reference products, so they wait for the products run.
var successors = map[domain.ResourceType][]domain.ResourceType{
	domain.ResourceProducts: {domain.ResourceOrders},
}

// Chain enqueues sync jobs and advances resource chains.
// Delivery is at-least-once: duplicate jobs are tolerated downstream.
type Chain struct {
	queue driven.JobQueue
	log   *zap.Logger
}

// NewChain creates a chain scheduler over queue.
func NewChain(queue driven.JobQueue, log *zap.Logger) *Chain {
	return &Chain{queue: queue, log: logger.Channel(log, "chain")}
}

// Enqueue schedules page of resource for storeID as part of runID.
// An empty runID starts a new run.
func (c *Chain) Enqueue(ctx context.Context, resource domain.ResourceType, storeID, runID string, page int) (domain.SyncJob, error) {
	if !resource.IsValid() {
		return domain.SyncJob{}, fmt.Errorf("%w: %q", domain.ErrUnknownResource, resource)
	}
	job := domain.NewSyncJob(storeID, resource, runID, page)
	if err := c.queue.Enqueue(ctx, job); err != nil {
		return domain.SyncJob{}, fmt.Errorf("enqueue %s page %d: %w", resource, job.Page, err)
	}
	c.log.Debug("job enqueued",
		zap.String("resource", resource.String()),
		zap.String("store_id", storeID),
		zap.String("run_id", job.RunID),
		zap.Int("page", job.Page),
	)
	return job, nil
}

// Advance enqueues the first page of every successor of job's resource.
func (c *Chain) Advance(ctx context.Context, job domain.SyncJob) ([]domain.SyncJob, error) {
	var jobs []domain.SyncJob
	for _, next := range successors[job.Resource] {
		j, err := c.Enqueue(ctx, next, job.StoreID, job.RunID, 1)
		if err != nil {
			return jobs, err
		}
		c.log.Info("chain advanced",
			zap.String("from", job.Resource.String()),
			zap.String("to", next.String()),
			zap.String("run_id", job.RunID),
		)
		jobs = append(jobs, j)
	}
	return jobs, nil
}

// Heads returns the resources a full sync seeds: every resource that is
// not a successor of another. Members are included only with a list.
func Heads(withMembers bool) []domain.ResourceType {
	dependent := make(map[domain.ResourceType]bool)
	for _, next := range successors {
		for _, r := range next {
			dependent[r] = true
		}
	}

	var heads []domain.ResourceType
	for _, r := range domain.AllResources() {
		if dependent[r] || (r == domain.ResourceMembers && !withMembers) {
			continue
		}
		heads = append(heads, r)
	}
	return heads
}
