package domain

import "errors"

// Domain errors represent pipeline failures.
// These are distinct from infrastructure errors and are matched with errors.Is.
var (
	// ErrNotFound indicates a requested entity does not exist: a missing
	// repository root, or a load against a collection that was never built.
	ErrNotFound = errors.New("not found")

	// ErrNotADirectory indicates the loader root path is not a directory.
	ErrNotADirectory = errors.New("not a directory")

	// ErrAlreadyExists indicates a collection with the same name is already
	// persisted and overwrite was not requested.
	ErrAlreadyExists = errors.New("already exists")

	// ErrEmptyInput indicates an index build was attempted with zero chunks.
	ErrEmptyInput = errors.New("empty input")

	// ErrNotInitialized indicates search or stats was called before the
	// index was built or loaded. This is a programming error, not retried.
	ErrNotInitialized = errors.New("index not initialized")

	// ErrInvalidInput indicates malformed or out-of-range arguments.
	ErrInvalidInput = errors.New("invalid input")

	// ErrMissingAPIKey indicates a required credential is absent at
	// construction time.
	ErrMissingAPIKey = errors.New("API key not set")
)
