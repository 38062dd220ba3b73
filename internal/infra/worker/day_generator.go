// File: internal/infra/worker/day_generator.go
package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"tripreel/internal/domain"
	"tripreel/internal/domain/model"
	"tripreel/internal/domain/ports/adapter"
	"tripreel/internal/domain/ports/repository"
	"tripreel/internal/infra/metrics"
	"tripreel/internal/infra/storage"
)

// DayGenerator drives one day clip from its persisted state to downloaded:
// submit if there is no task yet, then poll the capability until the task
// finishes, then fetch the result. It is resumable: a clip that already has a
// task id skips submission, a downloaded clip is a no-op.
type DayGenerator struct {
	videogen adapter.VideoGenAdapter
	jobs     repository.VideoJobRepository
	clips    repository.DayClipRepository
	layout   *storage.Layout

	pollInterval time.Duration
	pollDeadline time.Duration

	log *zerolog.Logger
}

func NewDayGenerator(
	videogen adapter.VideoGenAdapter,
	jobs repository.VideoJobRepository,
	clips repository.DayClipRepository,
	layout *storage.Layout,
	pollInterval, pollDeadline time.Duration,
	logger *zerolog.Logger,
) *DayGenerator {
	if pollInterval <= 0 {
		pollInterval = 10 * time.Second
	}
	if pollDeadline <= 0 {
		pollDeadline = 10 * time.Minute
	}
	return &DayGenerator{
		videogen:     videogen,
		jobs:         jobs,
		clips:        clips,
		layout:       layout,
		pollInterval: pollInterval,
		pollDeadline: pollDeadline,
		log:          logger,
	}
}

// Generate runs the clip to a downloaded state. The returned error is one of
// the domain generation errors (or a context error); the caller decides what
// it means for the job.
func (g *DayGenerator) Generate(ctx context.Context, job *model.VideoJob, clip *model.DayClip) error {
	if clip.Status == model.DayClipStatusDownloaded {
		return nil
	}

	start := time.Now()

	if clip.TaskID == "" {
		taskID, err := g.videogen.Submit(ctx, clip.Prompt, clip.Photos)
		if err != nil {
			g.failClip(ctx, clip, err.Error())
			metrics.IncDayClip("failed", "submit")
			return err
		}
		clip.TaskID = taskID
		clip.Status = model.DayClipStatusSubmitted
		clip.UpdatedAt = time.Now()
		if err := g.clips.Save(ctx, repository.NoTX, clip); err != nil {
			return fmt.Errorf("persist submitted clip: %w", err)
		}
		g.log.Info().Str("job_id", job.ID).Int("day", clip.DayNumber).Str("task_id", taskID).Msg("day clip submitted")
	} else {
		g.log.Info().Str("job_id", job.ID).Int("day", clip.DayNumber).Str("task_id", clip.TaskID).Msg("resuming poll for existing task")
	}

	if clip.Status != model.DayClipStatusPolling {
		clip.Status = model.DayClipStatusPolling
		clip.UpdatedAt = time.Now()
		if err := g.clips.Save(ctx, repository.NoTX, clip); err != nil {
			return fmt.Errorf("persist polling clip: %w", err)
		}
	}

	resultURL, err := g.pollUntilDone(ctx, job, clip)
	if err != nil {
		metrics.ObserveClipGeneration("failed", time.Since(start).Seconds())
		return err
	}

	destPath := g.layout.DayClipPath(job.ID, clip.DayNumber)
	if err := g.videogen.Fetch(ctx, resultURL, destPath); err != nil {
		g.failClip(ctx, clip, err.Error())
		metrics.IncDayClip("failed", "download")
		metrics.ObserveClipGeneration("failed", time.Since(start).Seconds())
		return err
	}

	clip.Status = model.DayClipStatusDownloaded
	clip.VideoURL = resultURL
	clip.LocalPath = destPath
	clip.ErrorMessage = ""
	clip.UpdatedAt = time.Now()
	if err := g.clips.Save(ctx, repository.NoTX, clip); err != nil {
		return fmt.Errorf("persist downloaded clip: %w", err)
	}

	metrics.IncDayClip("downloaded", "")
	metrics.ObserveClipGeneration("downloaded", time.Since(start).Seconds())
	g.log.Info().Str("job_id", job.ID).Int("day", clip.DayNumber).Dur("took", time.Since(start)).Msg("day clip downloaded")
	return nil
}

// pollUntilDone also carries the job heartbeat: every tick refreshes
// updated_at so the recovery sweep leaves this job alone, and re-reads the
// persisted cancel flag so cancellation lands mid-day, not only at day
// boundaries.
func (g *DayGenerator) pollUntilDone(ctx context.Context, job *model.VideoJob, clip *model.DayClip) (string, error) {
	deadline := time.Now().Add(g.pollDeadline)
	ticker := time.NewTicker(g.pollInterval)
	defer ticker.Stop()

	cycles := 0
	defer func() { metrics.ObservePollCycles(cycles) }()

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-ticker.C:
		}

		if time.Now().After(deadline) {
			msg := fmt.Sprintf("generation did not finish within %s", g.pollDeadline)
			g.failClip(ctx, clip, msg)
			metrics.IncDayClip("failed", "timeout")
			return "", fmt.Errorf("%w: day %d", domain.ErrGenerationTimeout, clip.DayNumber)
		}

		if err := g.jobs.Touch(ctx, repository.NoTX, job.ID); err != nil {
			g.log.Warn().Err(err).Str("job_id", job.ID).Msg("heartbeat failed")
		}
		if cancelled, err := g.jobs.CancelRequested(ctx, repository.NoTX, job.ID); err == nil && cancelled {
			return "", domain.ErrJobCancelled
		}

		cycles++
		res, err := g.videogen.Poll(ctx, clip.TaskID)
		if err != nil {
			// transient; keep polling until the deadline
			g.log.Warn().Err(err).Str("task_id", clip.TaskID).Msg("poll failed")
			continue
		}

		switch res.Status {
		case adapter.GenerationSuccess:
			return res.ResultURL, nil
		case adapter.GenerationFailed:
			msg := res.Error
			if msg == "" {
				msg = "generation failed"
			}
			g.failClip(ctx, clip, msg)
			metrics.IncDayClip("failed", "capability")
			return "", fmt.Errorf("%w: day %d: %s", domain.ErrGenerationFailed, clip.DayNumber, msg)
		default:
			// still pending or processing
		}
	}
}

// failClip records the failure on the clip row. A background context keeps the
// write alive when the caller's context is already cancelled.
func (g *DayGenerator) failClip(ctx context.Context, clip *model.DayClip, msg string) {
	if ctx.Err() != nil {
		ctx = context.Background()
	}
	clip.Status = model.DayClipStatusFailed
	clip.ErrorMessage = msg
	clip.UpdatedAt = time.Now()
	if err := g.clips.Save(ctx, repository.NoTX, clip); err != nil {
		g.log.Error().Err(err).Str("job_id", clip.JobID).Int("day", clip.DayNumber).Msg("failed to persist clip failure")
	}
}
