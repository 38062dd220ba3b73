package repository

import (
	"context"
	"time"

	"tripreel/internal/domain/model"
)

// VideoJobRepository is the job half of the progress store. Every write is a
// single atomic statement (or runs inside a caller-provided tx), so a reader
// never observes a partially applied transition.
type VideoJobRepository interface {
	Save(ctx context.Context, tx Tx, job *model.VideoJob) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.VideoJob, error)

	// FetchAndMarkProcessing atomically claims the oldest queued job and marks
	// it 'processing'. Claiming uses FOR UPDATE SKIP LOCKED so no two workers
	// ever run the same job.
	FetchAndMarkProcessing(ctx context.Context) (*model.VideoJob, error)

	// Touch refreshes updated_at while a job is mid-processing so the recovery
	// sweep does not mistake it for an abandoned job.
	Touch(ctx context.Context, tx Tx, id string) error

	// RequestCancel sets the persisted cancel flag on a non-terminal job.
	// Returns ErrJobTerminal when the job already reached a terminal status.
	RequestCancel(ctx context.Context, tx Tx, id string) error

	// CancelRequested reads the persisted cancel flag.
	CancelRequested(ctx context.Context, tx Tx, id string) (bool, error)

	// RequeueStale flips 'processing' jobs whose heartbeat is older than the
	// cutoff back to 'queued' and returns how many were requeued.
	RequeueStale(ctx context.Context, tx Tx, cutoff time.Time) (int, error)

	// ListTerminalUnnotified returns terminal jobs with a notify chat id that
	// have not been notified yet.
	ListTerminalUnnotified(ctx context.Context, tx Tx, limit int) ([]*model.VideoJob, error)

	CountByStatus(ctx context.Context, tx Tx) (map[string]int, error)
}
