// File: internal/infra/sched/recovery_worker.go
package sched

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"tripreel/internal/domain/ports/repository"
	"tripreel/internal/infra/metrics"
)

// RecoveryWorker periodically sweeps 'processing' jobs whose heartbeat went
// silent and puts them back on the queue. This is what turns a crashed worker
// into a delayed job instead of a lost one.
type RecoveryWorker struct {
	interval   time.Duration
	staleAfter time.Duration
	jobs       repository.VideoJobRepository
	log        *zerolog.Logger
}

func NewRecoveryWorker(interval, staleAfter time.Duration, jobs repository.VideoJobRepository, logger *zerolog.Logger) *RecoveryWorker {
	if interval <= 0 {
		interval = time.Minute
	}
	if staleAfter <= 0 {
		staleAfter = 10 * time.Minute
	}
	compLog := logger.With().Str("component", "RecoveryWorker").Logger()
	return &RecoveryWorker{
		interval:   interval,
		staleAfter: staleAfter,
		jobs:       jobs,
		log:        &compLog,
	}
}

func (w *RecoveryWorker) Run(ctx context.Context) error {
	w.log.Info().Msg("Starting recovery worker")
	// Sweep once on startup so jobs stranded by the previous process restart
	// without waiting a full interval.
	w.sweep(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Stopping recovery worker")
			return ctx.Err()
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *RecoveryWorker) sweep(ctx context.Context) {
	cutoff := time.Now().Add(-w.staleAfter)
	n, err := w.jobs.RequeueStale(ctx, repository.NoTX, cutoff)
	if err != nil {
		w.log.Error().Err(err).Msg("recovery sweep failed")
		return
	}
	if n > 0 {
		metrics.AddJobsRequeued(n)
		w.log.Warn().Int("count", n).Msg("stale jobs requeued")
	}
}
