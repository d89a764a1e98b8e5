package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/custodia-labs/storesync/internal/core/domain"
	"github.com/custodia-labs/storesync/internal/core/ports/driven"
)

// syncRunStore implements driven.SyncRunStore.
type syncRunStore struct {
	store *Store
}

var _ driven.SyncRunStore = (*syncRunStore)(nil)

// Save stores or replaces the state of a resource.
func (s *syncRunStore) Save(ctx context.Context, state domain.SyncRunState) error {
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO sync_runs (store_id, resource, run_id, started_at, pages_done, succeeded, failed,
			completed_at, completed_run_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(store_id, resource) DO UPDATE SET
			run_id = excluded.run_id,
			started_at = excluded.started_at,
			pages_done = excluded.pages_done,
			succeeded = excluded.succeeded,
			failed = excluded.failed,
			completed_at = excluded.completed_at,
			completed_run_id = excluded.completed_run_id
	`, state.StoreID, string(state.Resource), nullString(state.RunID), formatNullableTime(state.StartedAt),
		state.PagesDone, state.Succeeded, state.Failed,
		formatNullableTime(state.CompletedAt), nullString(state.CompletedRunID))
	if err != nil {
		return fmt.Errorf("saving sync run: %w", err)
	}
	return nil
}

// Get returns the state of a resource, or nil if it never ran.
func (s *syncRunStore) Get(ctx context.Context, storeID string, resource domain.ResourceType) (*domain.SyncRunState, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT store_id, resource, run_id, started_at, pages_done, succeeded, failed, completed_at, completed_run_id
		FROM sync_runs WHERE store_id = ? AND resource = ?
	`, storeID, string(resource))

	state, err := scanSyncRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return state, nil
}

// List returns every resource state of a store ordered by resource.
func (s *syncRunStore) List(ctx context.Context, storeID string) ([]domain.SyncRunState, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT store_id, resource, run_id, started_at, pages_done, succeeded, failed, completed_at, completed_run_id
		FROM sync_runs WHERE store_id = ? ORDER BY resource
	`, storeID)
	if err != nil {
		return nil, fmt.Errorf("querying sync runs: %w", err)
	}
	defer rows.Close()

	var states []domain.SyncRunState //nolint:prealloc // size unknown from query
	for rows.Next() {
		state, err := scanSyncRun(rows)
		if err != nil {
			return nil, err
		}
		states = append(states, *state)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sync runs: %w", err)
	}
	return states, nil
}

// Delete removes the state of a resource.
func (s *syncRunStore) Delete(ctx context.Context, storeID string, resource domain.ResourceType) error {
	_, err := s.store.db.ExecContext(ctx,
		"DELETE FROM sync_runs WHERE store_id = ? AND resource = ?", storeID, string(resource))
	if err != nil {
		return fmt.Errorf("deleting sync run: %w", err)
	}
	return nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanSyncRun(row rowScanner) (*domain.SyncRunState, error) {
	var state domain.SyncRunState
	var resource string
	var runID, startedAt, completedAt, completedRunID sql.NullString

	err := row.Scan(&state.StoreID, &resource, &runID, &startedAt,
		&state.PagesDone, &state.Succeeded, &state.Failed, &completedAt, &completedRunID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scanning sync run: %w", err)
	}

	state.Resource = domain.ResourceType(resource)
	state.RunID = runID.String
	state.StartedAt = parseNullableTime(startedAt)
	state.CompletedAt = parseNullableTime(completedAt)
	state.CompletedRunID = completedRunID.String
	return &state, nil
}
