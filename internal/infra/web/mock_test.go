//go:build !integration

package web

import (
	"context"

	"tripreel/internal/domain"
	"tripreel/internal/domain/model"
	"tripreel/internal/usecase"
)

// --- Mock Use Cases ---

type mockStatsUC struct {
	Itineraries  int
	JobsByStatus map[string]int
	Clips        int
	Err          error // To simulate errors
}

func (m *mockStatsUC) Totals(ctx context.Context) (int, map[string]int, int, error) {
	if m.Err != nil {
		return 0, nil, 0, m.Err
	}
	return m.Itineraries, m.JobsByStatus, m.Clips, nil
}

type mockVideoJobUC struct {
	StatusFunc  func(ctx context.Context, jobID string) (*usecase.JobStatus, error)
	RequeueFunc func(ctx context.Context, jobID string) error

	Requeued []string
}

func (m *mockVideoJobUC) Start(ctx context.Context, itineraryID, userPhotoURL string, notifyChatID int64) (*model.VideoJob, error) {
	return nil, domain.ErrOperationFailed
}

func (m *mockVideoJobUC) Cancel(ctx context.Context, jobID string) error {
	return domain.ErrNotFound
}

func (m *mockVideoJobUC) Status(ctx context.Context, jobID string) (*usecase.JobStatus, error) {
	if m.StatusFunc != nil {
		return m.StatusFunc(ctx, jobID)
	}
	return nil, domain.ErrNotFound
}

func (m *mockVideoJobUC) Requeue(ctx context.Context, jobID string) error {
	if m.RequeueFunc != nil {
		if err := m.RequeueFunc(ctx, jobID); err != nil {
			return err
		}
	}
	m.Requeued = append(m.Requeued, jobID)
	return nil
}

// Compile-time checks.
var (
	_ usecase.StatsUseCase    = (*mockStatsUC)(nil)
	_ usecase.VideoJobUseCase = (*mockVideoJobUC)(nil)
)
