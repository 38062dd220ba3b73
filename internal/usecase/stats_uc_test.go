//go:build !integration

package usecase_test

import (
	"context"
	"errors"
	"testing"

	"tripreel/internal/domain/ports/repository"
	"tripreel/internal/usecase"
)

func TestStatsUseCase(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()

	t.Run("Totals should return aggregated data from repositories", func(t *testing.T) {
		itRepo := NewMockItineraryRepo()
		itRepo.CountFunc = func(ctx context.Context, tx repository.Tx) (int, error) {
			return 42, nil
		}
		jobRepo := NewMockVideoJobRepo()
		expectedJobs := map[string]int{"queued": 3, "processing": 1, "completed": 17}
		jobRepo.CountByStatusFunc = func(ctx context.Context, tx repository.Tx) (map[string]int, error) {
			return expectedJobs, nil
		}
		clipRepo := NewMockDayClipRepo()
		clipRepo.CountAllFunc = func(ctx context.Context, tx repository.Tx) (int, error) {
			return 61, nil
		}

		uc := usecase.NewStatsUseCase(itRepo, jobRepo, clipRepo, logger)

		itineraries, jobs, clips, err := uc.Totals(ctx)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if itineraries != 42 {
			t.Errorf("expected 42 itineraries, got %d", itineraries)
		}
		if jobs["completed"] != 17 || len(jobs) != 3 {
			t.Errorf("mismatch in job status counts: %v", jobs)
		}
		if clips != 61 {
			t.Errorf("expected 61 clips, got %d", clips)
		}
	})

	t.Run("Totals should propagate repository failures", func(t *testing.T) {
		itRepo := NewMockItineraryRepo()
		itRepo.CountFunc = func(ctx context.Context, tx repository.Tx) (int, error) {
			return 0, errors.New("db down")
		}
		uc := usecase.NewStatsUseCase(itRepo, NewMockVideoJobRepo(), NewMockDayClipRepo(), logger)

		if _, _, _, err := uc.Totals(ctx); err == nil {
			t.Fatalf("expected error to propagate")
		}
	})
}
