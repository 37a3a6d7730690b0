package snapshot

import "errors"

var (
	// ErrInvalidSnapshot is returned when a snapshot document cannot be decoded.
	ErrInvalidSnapshot = errors.New("invalid snapshot")

	// ErrInvalidMaxAttempts is returned when maxAttempts is <= 0
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")

	// ErrOpenFuncRequired is returned by NewImporter when no OpenFunc is given.
	ErrOpenFuncRequired = errors.New("open function is required")

	// ErrRepositoryUnavailable is returned when a repository could not be opened
	// within the retry budget.
	ErrRepositoryUnavailable = errors.New("repository unavailable")
)
