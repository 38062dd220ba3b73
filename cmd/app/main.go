// File: cmd/app/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tripreel/internal/config"
	"tripreel/internal/domain/ports/adapter"
	aiAdapters "tripreel/internal/infra/adapters/ai"
	"tripreel/internal/infra/adapters/notify"
	"tripreel/internal/infra/adapters/places"
	"tripreel/internal/infra/adapters/videogen"
	"tripreel/internal/infra/api"
	pg "tripreel/internal/infra/db/postgres"
	"tripreel/internal/infra/logging"
	"tripreel/internal/infra/media"
	"tripreel/internal/infra/metrics"
	red "tripreel/internal/infra/redis"
	"tripreel/internal/infra/sched"
	"tripreel/internal/infra/storage"
	"tripreel/internal/infra/web"
	"tripreel/internal/infra/worker"
	"tripreel/internal/usecase"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (pretty logs, noop fallbacks)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Warn().Msg("developer mode enabled")
	}

	metrics.MustRegister()
	metrics.SetBuildInfo(version, commit)

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 10)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres connection failed")
	}
	defer pool.Close()

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis connection failed")
	}
	rateLimiter := red.NewRateLimiter(redisClient)
	locker := red.NewLocker(redisClient)

	// ---- Storage layout ----
	layout := storage.NewLayout(&cfg.Storage)
	if err := layout.EnsureDirs(); err != nil {
		logger.Fatal().Err(err).Msg("storage directories")
	}

	// ---- Repositories ----
	txManager := pg.NewTxManager(pool)
	itineraryRepo := pg.NewItineraryRepo(pool)
	// Status pollers hammer the job row; serve them through redis.
	jobRepo := pg.NewVideoJobRepoCacheDecorator(pg.NewVideoJobRepo(pool, txManager), redisClient, cfg.Redis.TTL)
	clipRepo := pg.NewDayClipRepo(pool)
	notifLogRepo := pg.NewNotificationLogRepo(pool)

	// ---- AI Adapter (Gemini and/or OpenAI) ----
	byProvider := map[string]adapter.AIServiceAdapter{}
	defaultProvider := ""
	if cfg.AI.GeminiKey != "" {
		gem, err := aiAdapters.NewGeminiAdapter(ctx, cfg.AI.GeminiKey, cfg.AI.GeminiURL, cfg.AI.DefaultModel, cfg.AI.MaxOutputTokens)
		if err != nil {
			logger.Fatal().Err(err).Msg("gemini adapter")
		}
		byProvider["gemini"] = gem
		defaultProvider = "gemini"
	}
	if cfg.AI.OpenAIKey != "" {
		oa, err := aiAdapters.NewOpenAIAdapter(cfg.AI.OpenAIKey, cfg.AI.DefaultModel, cfg.AI.MaxOutputTokens)
		if err != nil {
			logger.Fatal().Err(err).Msg("openai adapter")
		}
		byProvider["openai"] = oa
		defaultProvider = "openai"
	}
	var ai adapter.AIServiceAdapter
	switch {
	case len(byProvider) > 0:
		ai = aiAdapters.NewLimitedAI(
			aiAdapters.NewMultiAIAdapter(defaultProvider, byProvider, nil),
			cfg.AI.ConcurrentLimit,
		)
		logger.Info().Str("provider", defaultProvider).Str("model", cfg.AI.DefaultModel).Msg("AI adapter ready")
	case cfg.Runtime.Dev:
		ai = aiAdapters.NewNoopAIAdapter()
		logger.Warn().Msg("no AI provider configured; using noop adapter (deterministic fallbacks only)")
	default:
		logger.Fatal().Msgf("no AI provider configured: set ai.gemini_key or ai.openai_key in %s", *cfgPath)
	}

	// ---- Places ----
	placesAdapter := places.NewPlacesAdapter(cfg.Places.GoogleAPIKey)

	// ---- Video generation ----
	kie, err := videogen.NewKieClient(cfg.VideoGen.APIKey, cfg.VideoGen.BaseURL, cfg.VideoGen.UploadBaseURL, cfg.VideoGen.Model, cfg.VideoGen.SubmitRetries)
	if err != nil {
		logger.Fatal().Err(err).Msg("videogen client")
	}

	// ---- Notifier ----
	var notifier adapter.Notifier
	if cfg.Notify.TelegramToken != "" {
		notifier, err = notify.NewTelegramNotifier(cfg.Notify.TelegramToken)
		if err != nil {
			logger.Fatal().Err(err).Msg("telegram notifier")
		}
	} else {
		notifier = notify.NewNoopNotifier(*logger)
	}

	// ---- Use cases ----
	destinationUC := usecase.NewDestinationUseCase(ai, placesAdapter, cfg.AI.DefaultModel, logger)
	itineraryUC := usecase.NewItineraryUseCase(itineraryRepo, destinationUC, placesAdapter, ai, cfg.AI.DefaultModel, logger)
	videoJobUC := usecase.NewVideoJobUseCase(jobRepo, clipRepo, itineraryRepo, txManager, logger)
	statsUC := usecase.NewStatsUseCase(itineraryRepo, jobRepo, clipRepo, logger)
	notifUC := usecase.NewNotificationUseCase(jobRepo, notifLogRepo, txManager, notifier, logger)

	// ---- Worker pipeline ----
	prompts := worker.NewPromptBuilder()
	dayGen := worker.NewDayGenerator(kie, jobRepo, clipRepo, layout, cfg.VideoGen.PollInterval, cfg.VideoGen.PollDeadline, logger)
	merger := media.NewMerger(*logger)
	runner := worker.NewVideoJobRunner(
		jobRepo, clipRepo, itineraryRepo, txManager,
		kie, placesAdapter, prompts, dayGen, merger, layout,
		cfg.Worker.ClaimInterval, logger,
	)
	workerPool := worker.NewPool(cfg.Worker.Workers, logger)
	workerPool.Start(ctx)
	go runner.Start(ctx, workerPool)

	// ---- Background sweeps ----
	recovery := sched.NewRecoveryWorker(cfg.Worker.SweepInterval, cfg.Worker.StaleAfter, jobRepo, logger)
	go func() { _ = recovery.Run(ctx) }()

	notifWorker := sched.NewNotificationWorker(cfg.Notify.Interval, notifUC, locker, logger)
	go func() { _ = notifWorker.Run(ctx) }()

	// ---- Public API ----
	apiServer := api.NewServer(&cfg.API, destinationUC, itineraryUC, videoJobUC, rateLimiter, layout, logger)
	go func() {
		if err := apiServer.Start(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("public API server stopped")
		}
	}()

	// ---- Admin API + metrics ----
	adminServer := web.NewServer(statsUC, videoJobUC, &cfg.Admin, logger)
	adminMux := http.NewServeMux()
	adminServer.RegisterRoutes(adminMux)
	admin := &http.Server{Addr: fmt.Sprintf(":%d", cfg.Admin.Port), Handler: adminMux, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		logger.Info().Int("port", cfg.Admin.Port).Msg("admin API listening")
		if err := admin.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("admin server stopped")
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")

	cancel()
	workerPool.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("public API shutdown")
	}
	if err := admin.Shutdown(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("admin shutdown")
	}
}
