//go:build integration

package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"tripreel/internal/domain"
	"tripreel/internal/domain/model"
)

func TestItineraryRepo_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode.")
	}

	ctx := context.Background()
	repo := NewItineraryRepo(testPool)

	t.Run("should round-trip the full itinerary payload", func(t *testing.T) {
		cleanup(t)

		it := &model.Itinerary{
			ID:          "it-rt",
			Destination: model.DestinationInfo{Name: "Paris", Country: "France", Label: "Paris, France", Confidence: 0.95},
			Duration:    2,
			Travelers:   2,
			TotalBudget: 3000,
			Budget: model.BudgetBreakdown{
				Categories: map[string]model.BudgetCategory{
					"food": {Amount: 160, Percentage: 5.33},
				},
				TotalAllocated:  160,
				RemainingBudget: 2840,
			},
			Days: []model.DayPlan{
				{Day: 1, Title: "Arrival and Montmartre"},
				{Day: 2, Title: "Louvre and Seine cruise"},
			},
			CreatedAt: time.Now(),
		}
		if err := repo.Save(ctx, nil, it); err != nil {
			t.Fatalf("Save failed: %v", err)
		}

		found, err := repo.FindByID(ctx, nil, "it-rt")
		if err != nil {
			t.Fatalf("FindByID failed: %v", err)
		}
		if found.Destination.Label != "Paris, France" {
			t.Errorf("destination did not round-trip: %+v", found.Destination)
		}
		if len(found.Days) != 2 || found.Days[1].Title != "Louvre and Seine cruise" {
			t.Errorf("day plans did not round-trip: %+v", found.Days)
		}
		if found.Budget.Categories["food"].Amount != 160 {
			t.Errorf("budget did not round-trip: %+v", found.Budget)
		}
	})

	t.Run("should overwrite on second save", func(t *testing.T) {
		cleanup(t)
		seedItinerary(t, "it-1")

		updated := &model.Itinerary{
			ID:          "it-1",
			Destination: model.DestinationInfo{Name: "Bali", Country: "Indonesia", Label: "Bali, Indonesia"},
			Duration:    5,
			Travelers:   4,
			CreatedAt:   time.Now(),
		}
		if err := repo.Save(ctx, nil, updated); err != nil {
			t.Fatalf("update Save failed: %v", err)
		}

		found, err := repo.FindByID(ctx, nil, "it-1")
		if err != nil {
			t.Fatalf("FindByID failed: %v", err)
		}
		if found.Duration != 5 || found.Travelers != 4 {
			t.Errorf("update not persisted: %+v", found)
		}
	})

	t.Run("should return ErrNotFound for an unknown id", func(t *testing.T) {
		cleanup(t)
		_, err := repo.FindByID(ctx, nil, "no-such-itinerary")
		if !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("should count saved itineraries", func(t *testing.T) {
		cleanup(t)
		seedItinerary(t, "it-a")
		seedItinerary(t, "it-b")

		n, err := repo.Count(ctx, nil)
		if err != nil {
			t.Fatalf("Count failed: %v", err)
		}
		if n != 2 {
			t.Errorf("expected 2 itineraries, got %d", n)
		}
	})
}
