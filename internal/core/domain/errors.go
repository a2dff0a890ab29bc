package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotImplemented indicates functionality is not yet available.
	ErrNotImplemented = errors.New("not implemented")

	// ErrNoFabricSelected indicates an operation needs a selected fabric.
	ErrNoFabricSelected = errors.New("no fabric selected")

	// ErrNoLLMSelected indicates chat was attempted without choosing a model.
	ErrNoLLMSelected = errors.New("no LLM selected")

	// ErrSendInFlight indicates a chat send was attempted while another
	// send is still awaiting its response. Concurrent sends are rejected
	// rather than queued.
	ErrSendInFlight = errors.New("a message send is already in flight")
)

// NetworkError is a transport failure or client-side timeout. Always
// retryable by user action; no automatic retry is performed anywhere.
type NetworkError struct {
	// Op names the operation that failed (e.g. "list fabrics").
	Op  string
	Err error
}

// Error returns the failure description.
func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error during %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying transport error.
func (e *NetworkError) Unwrap() error { return e.Err }

// ServerError is a non-2xx response with a server-supplied message.
// The message is surfaced to the user verbatim.
type ServerError struct {
	StatusCode int
	Message    string
}

// Error returns the server-supplied message.
func (e *ServerError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("server returned status %d", e.StatusCode)
}

// PreconditionError is a local validation failure caught before any
// request is issued. It never reaches the network layer.
type PreconditionError struct {
	Reason string
	Err    error
}

// Error returns the validation failure reason.
func (e *PreconditionError) Error() string { return e.Reason }

// Unwrap returns the underlying sentinel, so callers can match with
// errors.Is against ErrInvalidInput, ErrNoFabricSelected, etc.
func (e *PreconditionError) Unwrap() error { return e.Err }

// BuildTriggerError means the fabric exists but its build could not start.
// This is deliberately distinct from creation failure: the fabric remains
// visible in Draft or Error for retry.
type BuildTriggerError struct {
	FabricID string
	Message  string
	Err      error
}

// Error returns the human-readable reason the build did not start.
func (e *BuildTriggerError) Error() string {
	return fmt.Sprintf("build could not start for fabric %s: %s", e.FabricID, e.Message)
}

// Unwrap returns the underlying cause.
func (e *BuildTriggerError) Unwrap() error { return e.Err }
