package domain

import "time"

// SyncRunState is the persisted progress of a resource sync for one store.
type SyncRunState struct {
	// StoreID and Resource together key the state.
	StoreID  string
	Resource ResourceType

	// RunID identifies the run the counters belong to.
	RunID string

	// StartedAt is when the first page of the run was recorded.
	StartedAt time.Time

	// PagesDone counts pages fully attempted in this run.
	PagesDone int

	// Succeeded and Failed count per-item outcomes in this run.
	Succeeded int
	Failed    int

	// CompletedAt is set once every page of the resource has been attempted.
	CompletedAt time.Time

	// CompletedRunID is the run that set CompletedAt.
	CompletedRunID string
}

// IsComplete reports whether the run identified by runID has completed.
func (s *SyncRunState) IsComplete(runID string) bool {
	return s != nil && !s.CompletedAt.IsZero() && s.CompletedRunID == runID
}

// CompletedWithin reports whether the resource last completed less than d ago.
func (s *SyncRunState) CompletedWithin(d time.Duration, now time.Time) bool {
	if s == nil || s.CompletedAt.IsZero() {
		return false
	}
	return now.Sub(s.CompletedAt) < d
}

// RecordPage folds one page's outcome into the state, resetting counters when
// a new run begins.
func (s *SyncRunState) RecordPage(runID string, succeeded, failed int, now time.Time) {
	if s.RunID != runID {
		s.RunID = runID
		s.StartedAt = now
		s.PagesDone = 0
		s.Succeeded = 0
		s.Failed = 0
	}
	s.PagesDone++
	s.Succeeded += succeeded
	s.Failed += failed
}

// QueueStats summarises queue depth by job status.
type QueueStats struct {
	Pending int
	Running int
	Done    int
	Buried  int
}
