package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/oklog/ulid/v2"

	"tripreel/internal/config"
	"tripreel/internal/domain/model"
	"tripreel/internal/domain/ports/repository"
	pg "tripreel/internal/infra/db/postgres"
)

func main() {
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, false)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 4)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	itineraryRepo := pg.NewItineraryRepo(pool)

	// If itineraries already exist, do nothing
	count, err := itineraryRepo.Count(ctx, repository.NoTX)
	if err != nil {
		log.Fatalf("count itineraries: %v", err)
	}
	if count > 0 {
		fmt.Printf("%d itineraries already present. No changes.\n", count)
		return
	}

	it := sampleItinerary()
	if err := itineraryRepo.Save(ctx, repository.NoTX, it); err != nil {
		log.Fatalf("save itinerary: %v", err)
	}
	fmt.Printf("seeded: %s (%s, %d days, %d travelers, budget $%.0f)\n",
		it.ID, it.Destination.Label, it.Duration, it.Travelers, it.TotalBudget)

	fmt.Println("✅ Seeding complete.")
}

// sampleItinerary is a small Bali trip, enough to exercise the video
// pipeline end to end without calling any AI provider.
func sampleItinerary() *model.Itinerary {
	return &model.Itinerary{
		ID: ulid.Make().String(),
		Destination: model.DestinationInfo{
			Name:       "Bali",
			Country:    "Indonesia",
			Label:      "Bali, Indonesia",
			Confidence: "high",
		},
		Duration:    2,
		Travelers:   2,
		TotalBudget: 2000,
		Budget: model.BudgetBreakdown{
			Categories: map[string]model.BudgetCategory{
				"hotels":     {Amount: 480, Percentage: 24, Note: "avg $120/night"},
				"food":       {Amount: 480, Percentage: 24},
				"travel":     {Amount: 320, Percentage: 16},
				"activities": {Amount: 560, Percentage: 28},
				"buffer":     {Amount: 160, Percentage: 8},
			},
			TotalAllocated: 2000,
		},
		Days: []model.DayPlan{
			{
				Day:       1,
				Title:     "Arrival and First Impressions",
				Morning:   model.Activity{Name: "Arrive and Check In", Category: "logistics"},
				Afternoon: model.Activity{Name: "Uluwatu Temple", Category: "sightseeing", EstimatedCost: 10},
				Evening:   model.Activity{Name: "Welcome Dinner", Category: "dining", EstimatedCost: 40},
			},
			{
				Day:       2,
				Title:     "Departure Day",
				Morning:   model.Activity{Name: "Morning Stroll", Category: "leisure"},
				Afternoon: model.Activity{Name: "Last-Minute Shopping", Category: "shopping", EstimatedCost: 30},
				Evening:   model.Activity{Name: "Departure", Category: "logistics"},
			},
		},
		AttractionsSummary: "Uluwatu Temple",
		CreatedAt:          time.Now(),
	}
}
