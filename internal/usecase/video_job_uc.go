// File: internal/usecase/video_job_uc.go
package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"tripreel/internal/domain"
	"tripreel/internal/domain/model"
	"tripreel/internal/domain/ports/repository"
	"tripreel/internal/infra/metrics"
)

// Compile-time check
var _ VideoJobUseCase = (*videoJobUC)(nil)

// ClipStatus is the per-day view inside a job status projection.
type ClipStatus struct {
	Day      int    `json:"day"`
	Status   string `json:"status"`
	VideoURL string `json:"video_url,omitempty"`
	Error    string `json:"error,omitempty"`
}

// JobStatus is the read model served to status pollers.
type JobStatus struct {
	JobID           string       `json:"job_id"`
	ItineraryID     string       `json:"itinerary_id"`
	Destination     string       `json:"destination"`
	Status          string       `json:"status"`
	Progress        int          `json:"progress"`
	CurrentDay      int          `json:"current_day,omitempty"`
	CompletedDays   int          `json:"completed_days"`
	TotalDays       int          `json:"total_days"`
	CurrentStage    string       `json:"current_stage,omitempty"`
	FinalVideoURL   string       `json:"final_video_url,omitempty"`
	ErrorMessage    string       `json:"error_message,omitempty"`
	CancelRequested bool         `json:"cancel_requested,omitempty"`
	Clips           []ClipStatus `json:"clips,omitempty"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

// VideoJobUseCase owns the job lifecycle as seen from the API: enqueue,
// cancel, and the status projection. Actual clip generation happens in the
// worker, which talks to the repositories directly.
type VideoJobUseCase interface {
	// Start validates the itinerary and enqueues a job for it. The worker
	// picks queued jobs up in creation order.
	Start(ctx context.Context, itineraryID, userPhotoURL string, notifyChatID int64) (*model.VideoJob, error)

	// Cancel requests cancellation. A queued job is cancelled immediately; a
	// processing job gets its cancel flag set and the worker stops at the
	// next day boundary or poll tick.
	Cancel(ctx context.Context, jobID string) error

	// Status returns the job projection with per-day clip states.
	Status(ctx context.Context, jobID string) (*JobStatus, error)

	// Requeue puts a failed or cancelled job back on the queue. Downloaded
	// day clips are kept, so the worker resumes instead of starting over.
	Requeue(ctx context.Context, jobID string) error
}

type videoJobUC struct {
	jobs        repository.VideoJobRepository
	clips       repository.DayClipRepository
	itineraries repository.ItineraryRepository
	tm          repository.TransactionManager
	log         *zerolog.Logger
}

func NewVideoJobUseCase(
	jobs repository.VideoJobRepository,
	clips repository.DayClipRepository,
	itineraries repository.ItineraryRepository,
	tm repository.TransactionManager,
	logger *zerolog.Logger,
) *videoJobUC {
	return &videoJobUC{jobs: jobs, clips: clips, itineraries: itineraries, tm: tm, log: logger}
}

func (uc *videoJobUC) Start(ctx context.Context, itineraryID, userPhotoURL string, notifyChatID int64) (*model.VideoJob, error) {
	it, err := uc.itineraries.FindByID(ctx, repository.NoTX, itineraryID)
	if err != nil {
		return nil, fmt.Errorf("load itinerary: %w", err)
	}
	if len(it.Days) == 0 {
		return nil, fmt.Errorf("%w: itinerary has no day plans", domain.ErrInvalidArgument)
	}

	job, err := model.NewVideoJob(it.ID, it.Destination.Label, len(it.Days), userPhotoURL, notifyChatID)
	if err != nil {
		return nil, err
	}
	if err := uc.jobs.Save(ctx, repository.NoTX, job); err != nil {
		return nil, fmt.Errorf("save job: %w", err)
	}

	metrics.IncVideoJob("queued")
	uc.log.Info().Str("job_id", job.ID).Str("itinerary_id", it.ID).Int("days", job.TotalDays).Msg("video job queued")
	return job, nil
}

func (uc *videoJobUC) Cancel(ctx context.Context, jobID string) error {
	if strings.TrimSpace(jobID) == "" {
		return domain.ErrInvalidArgument
	}
	if err := uc.jobs.RequestCancel(ctx, repository.NoTX, jobID); err != nil {
		return err
	}
	uc.log.Info().Str("job_id", jobID).Msg("cancel requested")
	return nil
}

func (uc *videoJobUC) Status(ctx context.Context, jobID string) (*JobStatus, error) {
	var (
		job   *model.VideoJob
		clips []*model.DayClip
	)
	// One repeatable-read snapshot: a day-completion commit between the two
	// reads must not surface more downloaded clips than the job counters say.
	err := uc.tm.WithTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}, func(ctx context.Context, tx repository.Tx) error {
		var err error
		if job, err = uc.jobs.FindByID(ctx, tx, jobID); err != nil {
			return err
		}
		clips, err = uc.clips.ListByJob(ctx, tx, jobID)
		return err
	})
	if err != nil {
		return nil, err
	}

	st := &JobStatus{
		JobID:           job.ID,
		ItineraryID:     job.ItineraryID,
		Destination:     job.Destination,
		Status:          string(job.Status),
		Progress:        job.Progress,
		CurrentDay:      job.CurrentDay,
		CompletedDays:   job.CompletedDays,
		TotalDays:       job.TotalDays,
		CurrentStage:    job.CurrentStage,
		FinalVideoURL:   job.FinalVideoURL,
		ErrorMessage:    job.ErrorMessage,
		CancelRequested: job.CancelRequested,
		CreatedAt:       job.CreatedAt,
		UpdatedAt:       job.UpdatedAt,
	}
	for _, c := range clips {
		st.Clips = append(st.Clips, ClipStatus{
			Day:      c.DayNumber,
			Status:   string(c.Status),
			VideoURL: c.VideoURL,
			Error:    c.ErrorMessage,
		})
	}
	return st, nil
}

func (uc *videoJobUC) Requeue(ctx context.Context, jobID string) error {
	err := uc.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		job, err := uc.jobs.FindByID(ctx, tx, jobID)
		if err != nil {
			return err
		}
		switch job.Status {
		case model.VideoJobStatusFailed, model.VideoJobStatusCancelled:
		default:
			return fmt.Errorf("%w: only failed or cancelled jobs can be requeued (status %s)", domain.ErrInvalidArgument, job.Status)
		}

		// A failed clip still carries its dead task reference; reset it so the
		// worker resubmits the day instead of polling a task that already
		// failed. Downloaded clips are untouched and stay resumable.
		clips, err := uc.clips.ListByJob(ctx, tx, jobID)
		if err != nil {
			return err
		}
		for _, clip := range clips {
			if clip.Status != model.DayClipStatusFailed {
				continue
			}
			clip.Status = model.DayClipStatusPending
			clip.TaskID = ""
			clip.ErrorMessage = ""
			clip.UpdatedAt = time.Now()
			if err := uc.clips.Save(ctx, tx, clip); err != nil {
				return fmt.Errorf("reset clip for day %d: %w", clip.DayNumber, err)
			}
		}

		job.Status = model.VideoJobStatusQueued
		job.ErrorMessage = ""
		job.CurrentStage = "Waiting for a worker..."
		job.CancelRequested = false
		job.Notified = false
		job.UpdatedAt = time.Now()
		return uc.jobs.Save(ctx, tx, job)
	})
	if err != nil {
		return err
	}

	metrics.IncVideoJob("requeued")
	uc.log.Info().Str("job_id", jobID).Msg("job requeued")
	return nil
}
