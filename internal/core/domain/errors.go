package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnknownResource indicates a resource type or action with no registered stage.
	ErrUnknownResource = errors.New("unknown resource type")

	// ErrCredentialMissing indicates no API key has been configured.
	ErrCredentialMissing = errors.New("api credential not configured")

	// ErrQueueEmpty indicates there is no job ready to be dequeued.
	ErrQueueEmpty = errors.New("queue empty")

	// ErrJobExhausted indicates a job used up its retry budget and was buried.
	ErrJobExhausted = errors.New("job retry budget exhausted")

	// ErrSyncInProgress indicates a sync run is already active for the store.
	ErrSyncInProgress = errors.New("sync in progress")
)
