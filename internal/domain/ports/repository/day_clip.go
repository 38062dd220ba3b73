package repository

import (
	"context"

	"tripreel/internal/domain/model"
)

// DayClipRepository is the day half of the progress store, keyed by
// (job id, day number).
type DayClipRepository interface {
	Save(ctx context.Context, tx Tx, clip *model.DayClip) error
	Find(ctx context.Context, tx Tx, jobID string, dayNumber int) (*model.DayClip, error)
	// ListByJob returns the job's clips ordered by day number.
	ListByJob(ctx context.Context, tx Tx, jobID string) ([]*model.DayClip, error)
	CountDownloaded(ctx context.Context, tx Tx, jobID string) (int, error)
	CountAll(ctx context.Context, tx Tx) (int, error)
}
