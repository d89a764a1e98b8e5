package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSyncRunState_RecordPage(t *testing.T) {
	now := time.Now()
	state := &SyncRunState{StoreID: "s", Resource: ResourceProducts}

	state.RecordPage("run-1", 10, 0, now)
	state.RecordPage("run-1", 9, 1, now)

	assert.Equal(t, "run-1", state.RunID)
	assert.Equal(t, 2, state.PagesDone)
	assert.Equal(t, 19, state.Succeeded)
	assert.Equal(t, 1, state.Failed)

	// A new run resets the counters.
	state.RecordPage("run-2", 3, 0, now.Add(time.Hour))
	assert.Equal(t, 1, state.PagesDone)
	assert.Equal(t, 3, state.Succeeded)
	assert.Equal(t, 0, state.Failed)
	assert.Equal(t, now.Add(time.Hour), state.StartedAt)
}

func TestSyncRunState_Completion(t *testing.T) {
	now := time.Now()
	var nilState *SyncRunState
	assert.False(t, nilState.IsComplete("run-1"))
	assert.False(t, nilState.CompletedWithin(time.Hour, now))

	state := &SyncRunState{CompletedAt: now.Add(-10 * time.Minute), CompletedRunID: "run-1"}
	assert.True(t, state.IsComplete("run-1"))
	assert.False(t, state.IsComplete("run-2"))
	assert.True(t, state.CompletedWithin(time.Hour, now))
	assert.False(t, state.CompletedWithin(5*time.Minute, now))
}
