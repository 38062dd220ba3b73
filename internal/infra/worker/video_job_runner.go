// File: internal/infra/worker/video_job_runner.go
package worker

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"tripreel/internal/domain"
	"tripreel/internal/domain/model"
	"tripreel/internal/domain/ports/adapter"
	"tripreel/internal/domain/ports/repository"
	"tripreel/internal/infra/media"
	"tripreel/internal/infra/metrics"
	"tripreel/internal/infra/storage"
)

// VideoJobRunner claims queued video jobs and drives them to a terminal
// state: one clip per itinerary day, generated sequentially, then merged into
// the final video. A failed day fails the whole job; already-downloaded clips
// survive restarts and are skipped on resume.
type VideoJobRunner struct {
	jobs        repository.VideoJobRepository
	clips       repository.DayClipRepository
	itineraries repository.ItineraryRepository
	tm          repository.TransactionManager
	videogen    adapter.VideoGenAdapter
	places      adapter.PlacesAdapter
	prompts     *PromptBuilder
	dayGen      *DayGenerator
	merger      *media.Merger
	layout      *storage.Layout

	claimInterval time.Duration
	log           *zerolog.Logger
}

func NewVideoJobRunner(
	jobs repository.VideoJobRepository,
	clips repository.DayClipRepository,
	itineraries repository.ItineraryRepository,
	tm repository.TransactionManager,
	videogen adapter.VideoGenAdapter,
	places adapter.PlacesAdapter,
	prompts *PromptBuilder,
	dayGen *DayGenerator,
	merger *media.Merger,
	layout *storage.Layout,
	claimInterval time.Duration,
	logger *zerolog.Logger,
) *VideoJobRunner {
	if claimInterval <= 0 {
		claimInterval = time.Second
	}
	return &VideoJobRunner{
		jobs:          jobs,
		clips:         clips,
		itineraries:   itineraries,
		tm:            tm,
		videogen:      videogen,
		places:        places,
		prompts:       prompts,
		dayGen:        dayGen,
		merger:        merger,
		layout:        layout,
		claimInterval: claimInterval,
		log:           logger,
	}
}

// Start runs the claim loop. This should be run in a goroutine.
func (r *VideoJobRunner) Start(ctx context.Context, pool *Pool) {
	r.log.Info().Msg("video job runner started")
	ticker := time.NewTicker(r.claimInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.log.Info().Msg("video job runner stopping")
			return
		case <-ticker.C:
			_ = pool.Submit(func(ctx context.Context) error {
				r.processOne(ctx)
				return nil
			})
		}
	}
}

func (r *VideoJobRunner) processOne(ctx context.Context) {
	job, err := r.jobs.FetchAndMarkProcessing(ctx)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			r.log.Error().Err(err).Msg("failed to claim video job")
		}
		return
	}

	r.log.Info().Str("job_id", job.ID).Str("destination", job.Destination).Int("days", job.TotalDays).Msg("processing video job")
	start := time.Now()

	// The filesystem lock guards the clip directory against a second process
	// working the same job (for example after a stale requeue raced a slow
	// worker that is actually still alive).
	lock, err := storage.AcquireJobLock(r.layout.JobClipDir(job.ID))
	if err != nil {
		if errors.Is(err, domain.ErrLockNotAcquired) {
			r.log.Warn().Str("job_id", job.ID).Msg("job directory locked by another process, requeueing")
			job.Status = model.VideoJobStatusQueued
			_ = r.jobs.Save(context.Background(), repository.NoTX, job)
			return
		}
		r.finish(job, model.VideoJobStatusFailed, fmt.Sprintf("could not lock job directory: %v", err))
		return
	}
	defer lock.Release()

	err = r.runGuarded(ctx, job)

	elapsed := time.Since(start)
	switch {
	case err == nil:
		job.Progress = 100
		job.CurrentStage = "Completed!"
		r.finish(job, model.VideoJobStatusCompleted, "")
		metrics.ObserveJobDuration("completed", elapsed.Seconds())
	case errors.Is(err, domain.ErrJobCancelled):
		job.CurrentStage = "Cancelled"
		r.finish(job, model.VideoJobStatusCancelled, "")
		metrics.ObserveJobDuration("cancelled", elapsed.Seconds())
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		// Shutdown mid-job: leave the row in processing. The heartbeat stops,
		// so the recovery sweep requeues it and the next run resumes.
		r.log.Info().Str("job_id", job.ID).Msg("interrupted by shutdown, leaving job for recovery")
	default:
		r.log.Error().Err(err).Str("job_id", job.ID).Msg("video job failed")
		r.finish(job, model.VideoJobStatusFailed, err.Error())
		metrics.ObserveJobDuration("failed", elapsed.Seconds())
	}
}

// runGuarded converts a panic in the pipeline into a job failure instead of
// taking the worker down.
func (r *VideoJobRunner) runGuarded(ctx context.Context, job *model.VideoJob) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("internal error: %v", rec)
		}
	}()
	return r.run(ctx, job)
}

func (r *VideoJobRunner) run(ctx context.Context, job *model.VideoJob) error {
	it, err := r.itineraries.FindByID(ctx, repository.NoTX, job.ItineraryID)
	if err != nil {
		return fmt.Errorf("load itinerary: %w", err)
	}
	if len(it.Days) < job.TotalDays {
		return fmt.Errorf("itinerary has %d day plans, job expects %d", len(it.Days), job.TotalDays)
	}

	// Resume point: count already-downloaded clips from previous attempts.
	done, err := r.clips.CountDownloaded(ctx, repository.NoTX, job.ID)
	if err != nil {
		return fmt.Errorf("count downloaded clips: %w", err)
	}
	job.CompletedDays = done
	if done > 0 {
		r.log.Info().Str("job_id", job.ID).Int("downloaded", done).Msg("resuming job with existing clips")
	}

	userPhoto, err := r.resolveUserPhoto(ctx, job)
	if err != nil {
		return fmt.Errorf("prepare user photo: %w", err)
	}

	// Best effort; photo sets still work with just the user photo.
	attractions, err := r.places.TopAttractions(ctx, job.Destination, 6)
	if err != nil {
		r.log.Warn().Err(err).Str("destination", job.Destination).Msg("attraction photos unavailable")
	}

	for day := 1; day <= job.TotalDays; day++ {
		if cancelled, err := r.jobs.CancelRequested(ctx, repository.NoTX, job.ID); err == nil && cancelled {
			return domain.ErrJobCancelled
		}

		clip, err := r.loadOrCreateClip(ctx, job, it.Days[day-1], userPhoto, attractions, day)
		if err != nil {
			return err
		}
		if clip.Status == model.DayClipStatusDownloaded {
			continue
		}

		job.CurrentDay = day
		job.CurrentStage = fmt.Sprintf("Generating day %d of %d...", day, job.TotalDays)
		job.Progress = model.ProgressFor(job.CompletedDays, job.TotalDays)
		job.UpdatedAt = time.Now()
		if err := r.jobs.Save(ctx, repository.NoTX, job); err != nil {
			return fmt.Errorf("persist job progress: %w", err)
		}

		if err := r.dayGen.Generate(ctx, job, clip); err != nil {
			if errors.Is(err, domain.ErrJobCancelled) || errors.Is(err, context.Canceled) {
				return err
			}
			return fmt.Errorf("day %d failed: %w", day, err)
		}

		// Clip terminal state and job counters move together so a crash
		// between them cannot desync progress from the clip rows.
		job.CompletedDays++
		job.Progress = model.ProgressFor(job.CompletedDays, job.TotalDays)
		job.UpdatedAt = time.Now()
		err = r.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
			if err := r.clips.Save(ctx, tx, clip); err != nil {
				return err
			}
			return r.jobs.Save(ctx, tx, job)
		})
		if err != nil {
			return fmt.Errorf("persist day %d completion: %w", day, err)
		}
	}

	return r.merge(ctx, job)
}

func (r *VideoJobRunner) loadOrCreateClip(
	ctx context.Context,
	job *model.VideoJob,
	plan model.DayPlan,
	userPhoto string,
	attractions []model.Place,
	day int,
) (*model.DayClip, error) {
	clip, err := r.clips.Find(ctx, repository.NoTX, job.ID, day)
	if err == nil {
		return clip, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("load clip for day %d: %w", day, err)
	}

	now := time.Now()
	clip = &model.DayClip{
		JobID:     job.ID,
		DayNumber: day,
		Photos:    BuildPhotoSet(userPhoto, plan, attractions),
		Prompt:    r.prompts.Build(plan),
		Status:    model.DayClipStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := r.clips.Save(ctx, repository.NoTX, clip); err != nil {
		return nil, fmt.Errorf("persist clip for day %d: %w", day, err)
	}
	return clip, nil
}

func (r *VideoJobRunner) merge(ctx context.Context, job *model.VideoJob) error {
	job.CurrentStage = "Merging day clips..."
	job.Progress = 99
	job.UpdatedAt = time.Now()
	if err := r.jobs.Save(ctx, repository.NoTX, job); err != nil {
		return fmt.Errorf("persist merge stage: %w", err)
	}

	clips, err := r.clips.ListByJob(ctx, repository.NoTX, job.ID)
	if err != nil {
		return fmt.Errorf("list clips: %w", err)
	}
	paths := make([]string, 0, len(clips))
	for _, c := range clips {
		if c.Status != model.DayClipStatusDownloaded {
			return fmt.Errorf("%w: day %d clip is %s", domain.ErrMergeFailed, c.DayNumber, c.Status)
		}
		paths = append(paths, c.LocalPath)
	}
	if len(paths) != job.TotalDays {
		return fmt.Errorf("%w: have %d clips, want %d", domain.ErrMergeFailed, len(paths), job.TotalDays)
	}

	out := r.layout.FinalVideoPath(job.ID)
	if err := r.merger.Merge(ctx, paths, out); err != nil {
		return err
	}

	job.FinalVideoPath = out
	job.FinalVideoURL = "/videos/" + job.ID + ".mp4"
	return nil
}

// resolveUserPhoto publishes locally uploaded photos so the generation
// capability can fetch them. Already-public URLs pass through untouched.
func (r *VideoJobRunner) resolveUserPhoto(ctx context.Context, job *model.VideoJob) (string, error) {
	url := job.UserPhotoURL
	if !isLocalPhotoURL(url) {
		return url, nil
	}
	local := r.layout.UploadPath(path.Base(url))
	public, err := r.videogen.UploadFile(ctx, local)
	if err != nil {
		return "", err
	}
	r.log.Info().Str("job_id", job.ID).Str("url", public).Msg("user photo published")
	return public, nil
}

func isLocalPhotoURL(url string) bool {
	if strings.HasPrefix(url, "http://localhost") || strings.HasPrefix(url, "http://127.0.0.1") {
		return true
	}
	return !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://")
}

// finish writes the terminal state with a background context so shutdown
// cannot strand a finished job in processing.
func (r *VideoJobRunner) finish(job *model.VideoJob, status model.VideoJobStatus, errMsg string) {
	job.Status = status
	job.ErrorMessage = errMsg
	job.UpdatedAt = time.Now()
	if err := r.jobs.Save(context.Background(), repository.NoTX, job); err != nil {
		r.log.Error().Err(err).Str("job_id", job.ID).Msg("failed to persist terminal job state")
		return
	}
	metrics.IncVideoJob(string(status))
	r.log.Info().Str("job_id", job.ID).Str("status", string(status)).Msg("video job finished")
}
