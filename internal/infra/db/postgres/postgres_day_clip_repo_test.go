//go:build integration

package postgres

import (
	"context"
	"errors"
	"testing"

	"tripreel/internal/domain"
	"tripreel/internal/domain/model"
)

func TestDayClipRepo_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode.")
	}

	ctx := context.Background()
	repo := NewDayClipRepo(testPool)

	t.Run("should save and find a clip with photos intact", func(t *testing.T) {
		cleanup(t)
		seedItinerary(t, "it-1")
		job := seedJob(t, "it-1")

		clip := &model.DayClip{
			JobID:     job.ID,
			DayNumber: 1,
			Photos:    []string{"https://cdn.example.com/me.jpg", "https://cdn.example.com/beach.jpg"},
			Prompt:    "Day 1 travel vlog in Bali",
			Status:    model.DayClipStatusPending,
		}
		if err := repo.Save(ctx, nil, clip); err != nil {
			t.Fatalf("Save failed: %v", err)
		}

		found, err := repo.Find(ctx, nil, job.ID, 1)
		if err != nil {
			t.Fatalf("Find failed: %v", err)
		}
		if len(found.Photos) != 2 || found.Photos[0] != clip.Photos[0] {
			t.Errorf("photos did not round-trip: %v", found.Photos)
		}
		if found.Status != model.DayClipStatusPending {
			t.Errorf("expected pending, got %s", found.Status)
		}
	})

	t.Run("should update a clip in place", func(t *testing.T) {
		cleanup(t)
		seedItinerary(t, "it-1")
		job := seedJob(t, "it-1")

		clip := &model.DayClip{JobID: job.ID, DayNumber: 1, Status: model.DayClipStatusPending}
		if err := repo.Save(ctx, nil, clip); err != nil {
			t.Fatalf("first Save failed: %v", err)
		}

		clip.TaskID = "task-abc"
		clip.Status = model.DayClipStatusSubmitted
		if err := repo.Save(ctx, nil, clip); err != nil {
			t.Fatalf("update Save failed: %v", err)
		}

		found, err := repo.Find(ctx, nil, job.ID, 1)
		if err != nil {
			t.Fatalf("Find failed: %v", err)
		}
		if found.TaskID != "task-abc" || found.Status != model.DayClipStatusSubmitted {
			t.Errorf("update not persisted: %+v", found)
		}
	})

	t.Run("should return ErrNotFound for a missing day", func(t *testing.T) {
		cleanup(t)
		seedItinerary(t, "it-1")
		job := seedJob(t, "it-1")

		_, err := repo.Find(ctx, nil, job.ID, 7)
		if !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("should list clips in day order and count downloads", func(t *testing.T) {
		cleanup(t)
		seedItinerary(t, "it-1")
		job := seedJob(t, "it-1")

		// Inserted out of order on purpose.
		for _, day := range []int{3, 1, 2} {
			status := model.DayClipStatusDownloaded
			if day == 3 {
				status = model.DayClipStatusPolling
			}
			clip := &model.DayClip{JobID: job.ID, DayNumber: day, Status: status}
			if err := repo.Save(ctx, nil, clip); err != nil {
				t.Fatalf("Save day %d failed: %v", day, err)
			}
		}

		clips, err := repo.ListByJob(ctx, nil, job.ID)
		if err != nil {
			t.Fatalf("ListByJob failed: %v", err)
		}
		if len(clips) != 3 {
			t.Fatalf("expected 3 clips, got %d", len(clips))
		}
		for i, c := range clips {
			if c.DayNumber != i+1 {
				t.Errorf("clips out of order: position %d has day %d", i, c.DayNumber)
			}
		}

		n, err := repo.CountDownloaded(ctx, nil, job.ID)
		if err != nil {
			t.Fatalf("CountDownloaded failed: %v", err)
		}
		if n != 2 {
			t.Errorf("expected 2 downloaded clips, got %d", n)
		}
	})
}
