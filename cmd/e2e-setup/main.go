package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"tripreel/internal/config"
	"tripreel/internal/domain/model"
	"tripreel/internal/domain/ports/repository"
	"tripreel/internal/infra/db/postgres"
	"tripreel/internal/infra/redis"
	"tripreel/internal/infra/storage"

	"github.com/oklog/ulid/v2"
)

// This script is for setting up a clean, predictable database state
// for manual end-to-end testing.
func main() {
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.LoadConfig(*cfgPath, false)
	if err != nil {
		log.Fatalf("config load: %v", err)
	}

	// --- Connect to Postgres ---
	pool, err := postgres.NewPgxPool(ctx, cfg.Database.URL, 5)
	if err != nil {
		log.Fatalf("postgres connection failed: %v", err)
	}
	defer pool.Close()

	// --- Connect to Redis ---
	redisClient, err := redis.NewClient(ctx, &cfg.Redis)
	if err != nil {
		log.Fatalf("redis connection failed: %v", err)
	}
	defer redisClient.Close()

	log.Println("--- Starting E2E Environment Setup ---")

	// 1. Clean the Redis cache to remove any stale data.
	log.Println("[1/4] Wiping Redis cache...")
	if err := redisClient.FlushDB(ctx); err != nil {
		log.Fatalf("failed to flush redis: %v", err)
	}

	// 2. Clean the database completely.
	log.Println("[2/4] Wiping all existing database data...")
	_, err = pool.Exec(ctx, `
		TRUNCATE itineraries, video_jobs, day_clips, job_notifications
		RESTART IDENTITY CASCADE;
	`)
	if err != nil {
		log.Fatalf("failed to truncate tables: %v", err)
	}

	// 3. Reset the media directories so no stale clips survive.
	log.Println("[3/4] Resetting media directories...")
	for _, dir := range []string{cfg.Storage.ClipsDir, cfg.Storage.VideosDir} {
		if dir != "" {
			if err := os.RemoveAll(dir); err != nil {
				log.Printf("failed to remove %s: %v", dir, err)
			}
		}
	}
	layout := storage.NewLayout(&cfg.Storage)
	if err := layout.EnsureDirs(); err != nil {
		log.Fatalf("failed to recreate media directories: %v", err)
	}

	// 4. Seed a known itinerary so the pipeline can be kicked off by hand.
	log.Println("[4/4] Seeding test itinerary...")
	seedItinerary(ctx, postgres.NewItineraryRepo(pool))

	log.Println("--- ✅ E2E Environment Setup Complete ---")
}

// seedItinerary saves a fixed two-day trip used by the manual test plan.
func seedItinerary(ctx context.Context, repo repository.ItineraryRepository) {
	it := &model.Itinerary{
		ID: ulid.Make().String(),
		Destination: model.DestinationInfo{
			Name: "Rome", Country: "Italy", Label: "Rome, Italy", Confidence: "high",
		},
		Duration:    2,
		Travelers:   1,
		TotalBudget: 1200,
		Budget: model.BudgetBreakdown{
			Categories:     map[string]model.BudgetCategory{"hotels": {Amount: 180, Percentage: 15}},
			TotalAllocated: 1200,
		},
		Days: []model.DayPlan{
			{Day: 1, Title: "Arrival and First Impressions",
				Morning: model.Activity{Name: "Arrive and Check In"},
				Evening: model.Activity{Name: "Welcome Dinner"}},
			{Day: 2, Title: "Departure Day",
				Morning: model.Activity{Name: "Morning Stroll"},
				Evening: model.Activity{Name: "Departure"}},
		},
		CreatedAt: time.Now(),
	}
	if err := repo.Save(ctx, repository.NoTX, it); err != nil {
		log.Printf("failed to seed itinerary: %v", err)
		return
	}
	log.Printf("seeded itinerary %s (%s)", it.ID, it.Destination.Label)
}
