// File: internal/infra/sched/notification_worker.go
package sched

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"tripreel/internal/domain"
	red "tripreel/internal/infra/redis"
	"tripreel/internal/usecase"
)

const notifyLockKey = "lock:notification_sweep"

// NotificationWorker periodically delivers completion notices for finished
// jobs. The optional locker keeps replicas from sweeping at the same time;
// the notification log makes a lost race harmless either way.
type NotificationWorker struct {
	interval time.Duration
	notifUC  usecase.NotificationUseCase
	locker   red.Locker // nil when running a single instance
	log      *zerolog.Logger
}

func NewNotificationWorker(interval time.Duration, notifUC usecase.NotificationUseCase, locker red.Locker, logger *zerolog.Logger) *NotificationWorker {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	compLog := logger.With().Str("component", "NotificationWorker").Logger()
	return &NotificationWorker{
		interval: interval,
		notifUC:  notifUC,
		locker:   locker,
		log:      &compLog,
	}
}

func (w *NotificationWorker) Run(ctx context.Context) error {
	w.log.Info().Msg("Starting notification worker")
	// Run once on startup, then on every tick
	w.runSweep(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Stopping notification worker")
			return ctx.Err()
		case <-ticker.C:
			w.runSweep(ctx)
		}
	}
}

func (w *NotificationWorker) runSweep(ctx context.Context) {
	if w.locker != nil {
		token, err := w.locker.TryLock(ctx, notifyLockKey, w.interval)
		if err != nil {
			if !errors.Is(err, domain.ErrLockNotAcquired) {
				w.log.Error().Err(err).Msg("notification lock failed")
			}
			return // another replica is sweeping
		}
		defer func() { _ = w.locker.Unlock(ctx, notifyLockKey, token) }()
	}

	sent, err := w.notifUC.SendPending(ctx)
	if err != nil {
		w.log.Error().Err(err).Msg("notification sweep failed")
	}
	if sent > 0 {
		w.log.Info().Int("count", sent).Msg("completion notifications sent")
	}
}
