// File: internal/usecase/notification_uc.go
package usecase

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"tripreel/internal/domain/model"
	"tripreel/internal/domain/ports/adapter"
	"tripreel/internal/domain/ports/repository"
)

// Compile-time check
var _ NotificationUseCase = (*notificationUC)(nil)

type NotificationUseCase interface {
	// SendPending delivers completion notices for terminal jobs that carry a
	// notify chat id and have not been notified yet. Returns how many were
	// sent. Safe to call from concurrent sweeps: the notification log
	// deduplicates per (job, status).
	SendPending(ctx context.Context) (int, error)
}

type notificationUC struct {
	jobs     repository.VideoJobRepository
	sent     repository.NotificationLogRepository
	tx       repository.TransactionManager
	notifier adapter.Notifier
	log      *zerolog.Logger
}

func NewNotificationUseCase(
	jobs repository.VideoJobRepository,
	sent repository.NotificationLogRepository,
	tx repository.TransactionManager,
	notifier adapter.Notifier,
	logger *zerolog.Logger,
) *notificationUC {
	return &notificationUC{jobs: jobs, sent: sent, tx: tx, notifier: notifier, log: logger}
}

const notifyBatchSize = 20

func (n *notificationUC) SendPending(ctx context.Context) (int, error) {
	jobs, err := n.jobs.ListTerminalUnnotified(ctx, repository.NoTX, notifyBatchSize)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, job := range jobs {
		kind := string(job.Status)
		already, err := n.sent.Exists(ctx, repository.NoTX, job.ID, kind)
		if err != nil {
			return sent, err
		}
		if !already {
			if err := n.notifier.Send(ctx, job.NotifyChatID, composeJobNotice(job)); err != nil {
				// Leave the job unnotified; the next sweep retries it.
				n.log.Warn().Err(err).Str("job_id", job.ID).Msg("notification send failed")
				continue
			}
		}

		// Record delivery and flip the flag together so a crash between the
		// two cannot leave the job eligible for a duplicate send.
		job := job
		err = n.tx.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
			if err := n.sent.Save(ctx, tx, job.ID, kind); err != nil {
				return err
			}
			job.Notified = true
			return n.jobs.Save(ctx, tx, job)
		})
		if err != nil {
			return sent, err
		}
		sent++
	}
	return sent, nil
}

func composeJobNotice(job *model.VideoJob) string {
	switch job.Status {
	case model.VideoJobStatusCompleted:
		return fmt.Sprintf("Your travel video for %s is ready! %s", job.Destination, job.FinalVideoURL)
	case model.VideoJobStatusFailed:
		msg := job.ErrorMessage
		if msg == "" {
			msg = "an internal error occurred"
		}
		return fmt.Sprintf("Video generation for %s failed: %s", job.Destination, msg)
	case model.VideoJobStatusCancelled:
		return fmt.Sprintf("Video generation for %s was cancelled.", job.Destination)
	}
	return fmt.Sprintf("Video job for %s finished with status %s.", job.Destination, job.Status)
}
