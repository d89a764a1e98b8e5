package domain

import (
	"time"

	"github.com/google/uuid"
)

// SyncJob is one execution of one stage against one store: a single page
// of a single resource. Jobs are created when enqueued and consumed once.
type SyncJob struct {
	// ID uniquely identifies this job instance.
	ID string `json:"id"`

	// RunID groups every job belonging to one full sync of a resource chain.
	RunID string `json:"run_id"`

	// StoreID is the target store identifier.
	StoreID string `json:"store_id"`

	// Resource is the resource type the job processes.
	Resource ResourceType `json:"resource_type"`

	// Action is the queue dispatch name of the stage.
	Action string `json:"action"`

	// Page is the 1-based resume cursor.
	Page int `json:"cursor"`

	// Attempt counts retries of this page; zero on first delivery.
	Attempt int `json:"attempt"`

	// EnqueuedAt is when the job was handed to the queue.
	EnqueuedAt time.Time `json:"enqueued_at"`
}

// NewSyncJob creates the first job of a resource sync.
// An empty runID starts a new run.
func NewSyncJob(storeID string, resource ResourceType, runID string, page int) SyncJob {
	if runID == "" {
		runID = uuid.NewString()
	}
	if page < 1 {
		page = 1
	}
	return SyncJob{
		ID:         uuid.NewString(),
		RunID:      runID,
		StoreID:    storeID,
		Resource:   resource,
		Action:     resource.Action(),
		Page:       page,
		EnqueuedAt: time.Now().UTC(),
	}
}

// NextPage returns the continuation job for the following page.
func (j SyncJob) NextPage() SyncJob {
	return NewSyncJob(j.StoreID, j.Resource, j.RunID, j.Page+1)
}

// Retry returns a job for the same cursor with the attempt counter advanced.
func (j SyncJob) Retry() SyncJob {
	retry := NewSyncJob(j.StoreID, j.Resource, j.RunID, j.Page)
	retry.Attempt = j.Attempt + 1
	return retry
}

// Page is one bounded slice of a local resource collection.
type Page struct {
	Items   []Entity
	Number  int
	PerPage int
	Total   int
}

// HasMore reports whether pages remain after this one.
func (p Page) HasMore() bool {
	if p.PerPage <= 0 {
		return false
	}
	return p.Number*p.PerPage < p.Total
}
