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

	// ErrSearchUnavailable indicates the search engine could not be started.
	// Callers degrade to an empty result set.
	ErrSearchUnavailable = errors.New("search engine unavailable")

	// Search worker errors.

	// ErrWorkerUnsupported indicates the isolated search worker cannot be
	// created in the current environment. There is no in-process fallback.
	ErrWorkerUnsupported = errors.New("search worker not supported")

	// ErrWorkerTerminated indicates the search worker stopped before replying.
	ErrWorkerTerminated = errors.New("search worker terminated")

	// ErrCorrelation indicates a worker reply did not match its request.
	ErrCorrelation = errors.New("search worker reply correlation mismatch")
)
