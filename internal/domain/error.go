package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound           = errors.New("entity not found")
	ErrAlreadyExists      = errors.New("entity already exists")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrOperationFailed    = errors.New("operation failed")
	ErrReadDatabaseRow    = errors.New("failed to read database row")
	ErrInvalidExecContext = errors.New("invalid sql executor context")
	ErrLockNotAcquired    = errors.New("lock not acquired")

	// Video pipeline errors
	ErrJobTerminal        = errors.New("video job is already in a terminal state")
	ErrSubmissionRejected = errors.New("generation capability rejected the submission")
	ErrGenerationTimeout  = errors.New("generation did not finish before the deadline")
	ErrGenerationFailed   = errors.New("generation capability reported failure")
	ErrDownloadFailed     = errors.New("generated clip could not be downloaded")
	ErrMergeFailed        = errors.New("merging day clips failed")
	ErrJobCancelled       = errors.New("video job was cancelled")

	// Itinerary errors
	ErrInsufficientBudget = errors.New("budget below the minimum viable cost")
)
