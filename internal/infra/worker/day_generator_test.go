//go:build !integration

package worker

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"tripreel/internal/config"
	"tripreel/internal/domain"
	"tripreel/internal/domain/model"
	"tripreel/internal/domain/ports/repository"
	"tripreel/internal/infra/storage"
)

type dayGenFixture struct {
	store *memStore
	jobs  *memJobRepo
	clips *memClipRepo
	gen   *fakeVideoGen
	g     *DayGenerator
}

func newDayGenFixture(t *testing.T, deadline time.Duration) *dayGenFixture {
	t.Helper()
	logger := zerolog.New(io.Discard)

	root := t.TempDir()
	layout := storage.NewLayout(&config.StorageConfig{
		UploadsDir: filepath.Join(root, "uploads"),
		ClipsDir:   filepath.Join(root, "clips"),
		VideosDir:  filepath.Join(root, "videos"),
	})
	if err := layout.EnsureDirs(); err != nil {
		t.Fatalf("ensure dirs: %v", err)
	}

	store := newMemStore()
	jobs := &memJobRepo{s: store}
	clips := &memClipRepo{s: store}
	gen := &fakeVideoGen{}

	return &dayGenFixture{
		store: store,
		jobs:  jobs,
		clips: clips,
		gen:   gen,
		g:     NewDayGenerator(gen, jobs, clips, layout, time.Millisecond, deadline, &logger),
	}
}

func (f *dayGenFixture) seedClip(t *testing.T) (*model.VideoJob, *model.DayClip) {
	t.Helper()
	ctx := context.Background()

	job, err := model.NewVideoJob("it-1", "Bali, Indonesia", 1, "https://cdn.example.com/me.jpg", 0)
	if err != nil {
		t.Fatalf("new job: %v", err)
	}
	job.Status = model.VideoJobStatusProcessing
	_ = f.jobs.Save(ctx, repository.NoTX, job)

	now := time.Now()
	clip := &model.DayClip{
		JobID:     job.ID,
		DayNumber: 1,
		Photos:    []string{"https://cdn.example.com/me.jpg"},
		Prompt:    "[0.0s-8.0s] a day at the beach",
		Status:    model.DayClipStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	_ = f.clips.Save(ctx, repository.NoTX, clip)
	return job, clip
}

func TestDayGenerator_Generate(t *testing.T) {
	ctx := context.Background()

	t.Run("should fail the clip with a timeout message when the deadline passes", func(t *testing.T) {
		f := newDayGenFixture(t, 25*time.Millisecond)
		f.gen.pendingDay = 1 // the task never reports a terminal state
		job, clip := f.seedClip(t)

		err := f.g.Generate(ctx, job, clip)

		if !errors.Is(err, domain.ErrGenerationTimeout) {
			t.Fatalf("expected ErrGenerationTimeout, got %v", err)
		}
		stored, findErr := f.clips.Find(ctx, repository.NoTX, job.ID, 1)
		if findErr != nil || stored.Status != model.DayClipStatusFailed {
			t.Fatalf("expected a failed clip row, got %+v (%v)", stored, findErr)
		}
		if !strings.Contains(stored.ErrorMessage, "did not finish within") {
			t.Errorf("expected a timeout-specific message, got %q", stored.ErrorMessage)
		}
	})

	t.Run("should record the capability verdict distinctly from a timeout", func(t *testing.T) {
		f := newDayGenFixture(t, time.Second)
		f.gen.failDay = 1
		job, clip := f.seedClip(t)

		err := f.g.Generate(ctx, job, clip)

		if !errors.Is(err, domain.ErrGenerationFailed) {
			t.Fatalf("expected ErrGenerationFailed, got %v", err)
		}
		stored, _ := f.clips.Find(ctx, repository.NoTX, job.ID, 1)
		if stored.Status != model.DayClipStatusFailed {
			t.Fatalf("expected a failed clip row, got %s", stored.Status)
		}
		if stored.ErrorMessage != "flagged content" {
			t.Errorf("expected the capability's own reason, got %q", stored.ErrorMessage)
		}
		if strings.Contains(stored.ErrorMessage, "did not finish") {
			t.Errorf("capability failure must not read like a timeout: %q", stored.ErrorMessage)
		}
	})

	t.Run("should stop polling when the persisted cancel flag flips", func(t *testing.T) {
		f := newDayGenFixture(t, time.Second)
		f.gen.pendingDay = 1
		job, clip := f.seedClip(t)
		_ = f.jobs.RequestCancel(ctx, repository.NoTX, job.ID)

		err := f.g.Generate(ctx, job, clip)

		if !errors.Is(err, domain.ErrJobCancelled) {
			t.Fatalf("expected ErrJobCancelled, got %v", err)
		}
	})
}
