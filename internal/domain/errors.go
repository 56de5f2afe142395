package domain

import "errors"

// Error categories. Callers classify failures with errors.Is and the HTTP
// layer maps them to status codes.
var (
	// ErrValidation marks rejected input: empty question, non-positive limit.
	ErrValidation = errors.New("validation error")

	// ErrNotFound marks a lookup for a session that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUpstream marks a failed or timed-out model call. No turn is
	// persisted for the request that hit it.
	ErrUpstream = errors.New("upstream model error")

	// ErrPersistence marks a failed store write or read.
	ErrPersistence = errors.New("persistence error")
)
