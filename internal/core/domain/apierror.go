package domain

import (
	"errors"
	"fmt"
	"strings"
)

// TransportError indicates the remote API could not be reached at all.
// A transport failure aborts the current page and is retried by the queue.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport: %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// BusinessError is a rejection by the remote API of a well-formed request:
// validation, not found, conflict or authorisation. It is never retried.
type BusinessError struct {
	Status  int
	Message string
}

func (e *BusinessError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// ServerError is a remote failure with a status above 500.
type ServerError struct {
	Status  int
	Message string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("api server error %d: %s", e.Status, e.Message)
}

// ValidationError reports a payload rejected locally before submission.
type ValidationError struct {
	Resource ResourceType
	ID       string
	Fields   []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Resource, e.ID, strings.Join(e.Fields, ", "))
}

// Is lets errors.Is(err, ErrInvalidInput) match validation failures.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// IsTransport checks if the error is a transport failure.
func IsTransport(err error) bool {
	var t *TransportError
	return errors.As(err, &t)
}

// IsBusiness checks if the error is a remote business rejection.
func IsBusiness(err error) bool {
	var b *BusinessError
	return errors.As(err, &b)
}

// IsServer checks if the error is a remote server failure.
func IsServer(err error) bool {
	var s *ServerError
	return errors.As(err, &s)
}

// IsValidation checks if the error is a local validation failure.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// StatusCode returns the HTTP status carried by a business or server error,
// or zero for anything else.
func StatusCode(err error) int {
	var b *BusinessError
	if errors.As(err, &b) {
		return b.Status
	}
	var s *ServerError
	if errors.As(err, &s) {
		return s.Status
	}
	return 0
}

// IsNotFound checks if the error is a remote 404 or a local ErrNotFound.
func IsNotFound(err error) bool {
	return StatusCode(err) == 404 || errors.Is(err, ErrNotFound)
}
