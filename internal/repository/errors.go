package repository

import "errors"

var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("repository: not found")
	// ErrConflict indicates a uniqueness constraint was violated.
	ErrConflict = errors.New("repository: conflict")
	// ErrStorageUnavailable indicates the underlying storage medium could not
	// be reached or created. Retryable from the caller's point of view.
	ErrStorageUnavailable = errors.New("repository: storage unavailable")
	// ErrPersistence indicates a write failed after the retry budget was
	// exhausted.
	ErrPersistence = errors.New("repository: write failed")
)
