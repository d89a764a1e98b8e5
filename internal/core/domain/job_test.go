package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewSyncJob(t *testing.T) {
	job := NewSyncJob("store-1", ResourceProducts, "", 0)

	assert.NotEmpty(t, job.ID)
	assert.NotEmpty(t, job.RunID)
	assert.Equal(t, "store-1", job.StoreID)
	assert.Equal(t, ResourceProducts, job.Resource)
	assert.Equal(t, ResourceProducts.Action(), job.Action)
	assert.Equal(t, 1, job.Page)
	assert.Equal(t, 0, job.Attempt)
	assert.False(t, job.EnqueuedAt.IsZero())
}

func TestSyncJob_NextPage(t *testing.T) {
	job := NewSyncJob("store-1", ResourceOrders, "run-1", 2)
	job.Attempt = 2

	next := job.NextPage()

	assert.NotEqual(t, job.ID, next.ID)
	assert.Equal(t, "run-1", next.RunID)
	assert.Equal(t, 3, next.Page)
	assert.Equal(t, 0, next.Attempt)
}

func TestSyncJob_Retry(t *testing.T) {
	job := NewSyncJob("store-1", ResourceOrders, "run-1", 4)

	retry := job.Retry()

	assert.NotEqual(t, job.ID, retry.ID)
	assert.Equal(t, job.RunID, retry.RunID)
	assert.Equal(t, 4, retry.Page)
	assert.Equal(t, 1, retry.Attempt)
	assert.Equal(t, 2, retry.Retry().Attempt)
}

func TestPage_HasMore(t *testing.T) {
	tests := []struct {
		name string
		page Page
		want bool
	}{
		{"first of three", Page{Number: 1, PerPage: 10, Total: 25}, true},
		{"second of three", Page{Number: 2, PerPage: 10, Total: 25}, true},
		{"last partial page", Page{Number: 3, PerPage: 10, Total: 25}, false},
		{"exact boundary", Page{Number: 2, PerPage: 10, Total: 20}, false},
		{"empty resource", Page{Number: 1, PerPage: 10, Total: 0}, false},
		{"zero page size", Page{Number: 1, PerPage: 0, Total: 5}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.page.HasMore())
		})
	}
}
