//go:build !integration

package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"tripreel/internal/domain/model"
	"tripreel/internal/domain/ports/repository"
	"tripreel/internal/usecase"
)

func terminalJob(id string, status model.VideoJobStatus) *model.VideoJob {
	return &model.VideoJob{
		ID:            id,
		Destination:   "Bali, Indonesia",
		Status:        status,
		NotifyChatID:  4242,
		FinalVideoURL: "https://videos.example.com/" + id + ".mp4",
		ErrorMessage:  "day 2 failed",
	}
}

func TestNotificationUseCase_SendPending(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()

	t.Run("should notify completed jobs and mark them", func(t *testing.T) {
		jobRepo := NewMockVideoJobRepo()
		jobRepo.ListTerminalUnnotifiedFunc = func(ctx context.Context, tx repository.Tx, limit int) ([]*model.VideoJob, error) {
			return []*model.VideoJob{terminalJob("job-1", model.VideoJobStatusCompleted)}, nil
		}
		logRepo := NewMockNotificationLogRepo()
		var loggedKind string
		logRepo.SaveFunc = func(ctx context.Context, tx repository.Tx, jobID, kind string) error {
			loggedKind = kind
			return nil
		}
		notifier := NewMockNotifier()

		uc := usecase.NewNotificationUseCase(jobRepo, logRepo, NewMockTxManager(), notifier, logger)

		sent, err := uc.SendPending(ctx)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if sent != 1 {
			t.Errorf("expected 1 notification, got %d", sent)
		}
		if len(notifier.Sent) != 1 || notifier.Sent[0].ChatID != 4242 {
			t.Fatalf("expected one message to chat 4242, got %+v", notifier.Sent)
		}
		if !strings.Contains(notifier.Sent[0].Text, "videos.example.com/job-1.mp4") {
			t.Errorf("expected final video link in the message, got %q", notifier.Sent[0].Text)
		}
		if loggedKind != "completed" {
			t.Errorf("expected log kind 'completed', got %q", loggedKind)
		}
		if len(jobRepo.Saved) != 1 || !jobRepo.Saved[0].Notified {
			t.Errorf("expected job saved with Notified set")
		}
	})

	t.Run("should include the error in failure notices", func(t *testing.T) {
		jobRepo := NewMockVideoJobRepo()
		jobRepo.ListTerminalUnnotifiedFunc = func(ctx context.Context, tx repository.Tx, limit int) ([]*model.VideoJob, error) {
			return []*model.VideoJob{terminalJob("job-2", model.VideoJobStatusFailed)}, nil
		}
		notifier := NewMockNotifier()
		uc := usecase.NewNotificationUseCase(jobRepo, NewMockNotificationLogRepo(), NewMockTxManager(), notifier, logger)

		if _, err := uc.SendPending(ctx); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(notifier.Sent[0].Text, "day 2 failed") {
			t.Errorf("expected failure reason in notice, got %q", notifier.Sent[0].Text)
		}
	})

	t.Run("should not resend when the log already has an entry", func(t *testing.T) {
		jobRepo := NewMockVideoJobRepo()
		jobRepo.ListTerminalUnnotifiedFunc = func(ctx context.Context, tx repository.Tx, limit int) ([]*model.VideoJob, error) {
			return []*model.VideoJob{terminalJob("job-3", model.VideoJobStatusCompleted)}, nil
		}
		logRepo := NewMockNotificationLogRepo()
		logRepo.ExistsFunc = func(ctx context.Context, tx repository.Tx, jobID, kind string) (bool, error) {
			return true, nil
		}
		notifier := NewMockNotifier()
		uc := usecase.NewNotificationUseCase(jobRepo, logRepo, NewMockTxManager(), notifier, logger)

		sent, err := uc.SendPending(ctx)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(notifier.Sent) != 0 {
			t.Errorf("expected no message for an already-logged job")
		}
		// The flag still gets repaired so the job leaves the pending list.
		if sent != 1 || len(jobRepo.Saved) != 1 || !jobRepo.Saved[0].Notified {
			t.Errorf("expected the job to be marked notified anyway")
		}
	})

	t.Run("should leave the job pending when delivery fails", func(t *testing.T) {
		jobRepo := NewMockVideoJobRepo()
		jobRepo.ListTerminalUnnotifiedFunc = func(ctx context.Context, tx repository.Tx, limit int) ([]*model.VideoJob, error) {
			return []*model.VideoJob{
				terminalJob("job-4", model.VideoJobStatusCompleted),
				terminalJob("job-5", model.VideoJobStatusCompleted),
			}, nil
		}
		notifier := NewMockNotifier()
		notifier.SendFunc = func(ctx context.Context, chatID int64, text string) error {
			if strings.Contains(text, "job-4") {
				return errors.New("telegram unreachable")
			}
			return nil
		}
		uc := usecase.NewNotificationUseCase(jobRepo, NewMockNotificationLogRepo(), NewMockTxManager(), notifier, logger)

		sent, err := uc.SendPending(ctx)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if sent != 1 {
			t.Errorf("expected only the deliverable job counted, got %d", sent)
		}
		if len(jobRepo.Saved) != 1 || jobRepo.Saved[0].ID != "job-5" {
			t.Errorf("expected only job-5 marked notified, got %+v", jobRepo.Saved)
		}
	})
}
