//go:build !integration

package usecase_test

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"tripreel/internal/domain"
	"tripreel/internal/domain/model"
	"tripreel/internal/domain/ports/adapter"
	"tripreel/internal/domain/ports/repository"
)

func newTestLogger() *zerolog.Logger {
	l := zerolog.New(io.Discard)
	return &l
}

// =============================
// Repositories
// =============================

// ---- Mock ItineraryRepository ----

type MockItineraryRepo struct {
	SaveFunc     func(ctx context.Context, tx repository.Tx, it *model.Itinerary) error
	FindByIDFunc func(ctx context.Context, tx repository.Tx, id string) (*model.Itinerary, error)
	CountFunc    func(ctx context.Context, tx repository.Tx) (int, error)

	mu    sync.Mutex
	Saved []*model.Itinerary // capture of every Save call
}

var _ repository.ItineraryRepository = (*MockItineraryRepo)(nil)

func NewMockItineraryRepo() *MockItineraryRepo { return &MockItineraryRepo{} }

func (m *MockItineraryRepo) Save(ctx context.Context, tx repository.Tx, it *model.Itinerary) error {
	m.mu.Lock()
	cp := *it
	m.Saved = append(m.Saved, &cp)
	m.mu.Unlock()
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, tx, it)
	}
	return nil
}

func (m *MockItineraryRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Itinerary, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, tx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *MockItineraryRepo) Count(ctx context.Context, tx repository.Tx) (int, error) {
	if m.CountFunc != nil {
		return m.CountFunc(ctx, tx)
	}
	return 0, nil
}

// ---- Mock VideoJobRepository ----

type MockVideoJobRepo struct {
	SaveFunc                   func(ctx context.Context, tx repository.Tx, job *model.VideoJob) error
	FindByIDFunc               func(ctx context.Context, tx repository.Tx, id string) (*model.VideoJob, error)
	FetchAndMarkProcessingFunc func(ctx context.Context) (*model.VideoJob, error)
	TouchFunc                  func(ctx context.Context, tx repository.Tx, id string) error
	RequestCancelFunc          func(ctx context.Context, tx repository.Tx, id string) error
	CancelRequestedFunc        func(ctx context.Context, tx repository.Tx, id string) (bool, error)
	RequeueStaleFunc           func(ctx context.Context, tx repository.Tx, cutoff time.Time) (int, error)
	ListTerminalUnnotifiedFunc func(ctx context.Context, tx repository.Tx, limit int) ([]*model.VideoJob, error)
	CountByStatusFunc          func(ctx context.Context, tx repository.Tx) (map[string]int, error)

	mu    sync.Mutex
	Saved []*model.VideoJob
}

var _ repository.VideoJobRepository = (*MockVideoJobRepo)(nil)

func NewMockVideoJobRepo() *MockVideoJobRepo { return &MockVideoJobRepo{} }

func (m *MockVideoJobRepo) Save(ctx context.Context, tx repository.Tx, job *model.VideoJob) error {
	m.mu.Lock()
	cp := *job
	m.Saved = append(m.Saved, &cp)
	m.mu.Unlock()
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, tx, job)
	}
	return nil
}

func (m *MockVideoJobRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.VideoJob, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, tx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *MockVideoJobRepo) FetchAndMarkProcessing(ctx context.Context) (*model.VideoJob, error) {
	if m.FetchAndMarkProcessingFunc != nil {
		return m.FetchAndMarkProcessingFunc(ctx)
	}
	return nil, domain.ErrNotFound
}

func (m *MockVideoJobRepo) Touch(ctx context.Context, tx repository.Tx, id string) error {
	if m.TouchFunc != nil {
		return m.TouchFunc(ctx, tx, id)
	}
	return nil
}

func (m *MockVideoJobRepo) RequestCancel(ctx context.Context, tx repository.Tx, id string) error {
	if m.RequestCancelFunc != nil {
		return m.RequestCancelFunc(ctx, tx, id)
	}
	return nil
}

func (m *MockVideoJobRepo) CancelRequested(ctx context.Context, tx repository.Tx, id string) (bool, error) {
	if m.CancelRequestedFunc != nil {
		return m.CancelRequestedFunc(ctx, tx, id)
	}
	return false, nil
}

func (m *MockVideoJobRepo) RequeueStale(ctx context.Context, tx repository.Tx, cutoff time.Time) (int, error) {
	if m.RequeueStaleFunc != nil {
		return m.RequeueStaleFunc(ctx, tx, cutoff)
	}
	return 0, nil
}

func (m *MockVideoJobRepo) ListTerminalUnnotified(ctx context.Context, tx repository.Tx, limit int) ([]*model.VideoJob, error) {
	if m.ListTerminalUnnotifiedFunc != nil {
		return m.ListTerminalUnnotifiedFunc(ctx, tx, limit)
	}
	return nil, nil
}

func (m *MockVideoJobRepo) CountByStatus(ctx context.Context, tx repository.Tx) (map[string]int, error) {
	if m.CountByStatusFunc != nil {
		return m.CountByStatusFunc(ctx, tx)
	}
	return map[string]int{}, nil
}

// ---- Mock DayClipRepository ----

type MockDayClipRepo struct {
	SaveFunc            func(ctx context.Context, tx repository.Tx, clip *model.DayClip) error
	FindFunc            func(ctx context.Context, tx repository.Tx, jobID string, dayNumber int) (*model.DayClip, error)
	ListByJobFunc       func(ctx context.Context, tx repository.Tx, jobID string) ([]*model.DayClip, error)
	CountDownloadedFunc func(ctx context.Context, tx repository.Tx, jobID string) (int, error)
	CountAllFunc        func(ctx context.Context, tx repository.Tx) (int, error)
}

var _ repository.DayClipRepository = (*MockDayClipRepo)(nil)

func NewMockDayClipRepo() *MockDayClipRepo { return &MockDayClipRepo{} }

func (m *MockDayClipRepo) Save(ctx context.Context, tx repository.Tx, clip *model.DayClip) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, tx, clip)
	}
	return nil
}

func (m *MockDayClipRepo) Find(ctx context.Context, tx repository.Tx, jobID string, dayNumber int) (*model.DayClip, error) {
	if m.FindFunc != nil {
		return m.FindFunc(ctx, tx, jobID, dayNumber)
	}
	return nil, domain.ErrNotFound
}

func (m *MockDayClipRepo) ListByJob(ctx context.Context, tx repository.Tx, jobID string) ([]*model.DayClip, error) {
	if m.ListByJobFunc != nil {
		return m.ListByJobFunc(ctx, tx, jobID)
	}
	return nil, nil
}

func (m *MockDayClipRepo) CountDownloaded(ctx context.Context, tx repository.Tx, jobID string) (int, error) {
	if m.CountDownloadedFunc != nil {
		return m.CountDownloadedFunc(ctx, tx, jobID)
	}
	return 0, nil
}

func (m *MockDayClipRepo) CountAll(ctx context.Context, tx repository.Tx) (int, error) {
	if m.CountAllFunc != nil {
		return m.CountAllFunc(ctx, tx)
	}
	return 0, nil
}

// ---- Mock NotificationLogRepository ----

type MockNotificationLogRepo struct {
	SaveFunc   func(ctx context.Context, tx repository.Tx, jobID, kind string) error
	ExistsFunc func(ctx context.Context, tx repository.Tx, jobID, kind string) (bool, error)
}

var _ repository.NotificationLogRepository = (*MockNotificationLogRepo)(nil)

func NewMockNotificationLogRepo() *MockNotificationLogRepo { return &MockNotificationLogRepo{} }

func (m *MockNotificationLogRepo) Save(ctx context.Context, tx repository.Tx, jobID, kind string) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, tx, jobID, kind)
	}
	return nil
}

func (m *MockNotificationLogRepo) Exists(ctx context.Context, tx repository.Tx, jobID, kind string) (bool, error) {
	if m.ExistsFunc != nil {
		return m.ExistsFunc(ctx, tx, jobID, kind)
	}
	return false, nil
}

// ---- Mock TransactionManager ----

// MockTxManager runs the callback inline with a nil tx unless overridden.
type MockTxManager struct {
	WithTxFunc func(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error
}

var _ repository.TransactionManager = (*MockTxManager)(nil)

func NewMockTxManager() *MockTxManager { return &MockTxManager{} }

func (m *MockTxManager) WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	if m.WithTxFunc != nil {
		return m.WithTxFunc(ctx, txOpt, fn)
	}
	return fn(ctx, repository.NoTX)
}

// =============================
// Adapters
// =============================

// ---- Mock AIServiceAdapter ----

type MockAI struct {
	ChatFunc func(ctx context.Context, model string, messages []adapter.Message) (string, error)

	mu    sync.Mutex
	Calls [][]adapter.Message // capture of message lists passed to Chat
}

var _ adapter.AIServiceAdapter = (*MockAI)(nil)

func NewMockAI() *MockAI { return &MockAI{} }

func (m *MockAI) ListModels(ctx context.Context) ([]string, error) { return nil, nil }

func (m *MockAI) GetModelInfo(model string) (adapter.ModelInfo, error) {
	return adapter.ModelInfo{Name: model}, nil
}

func (m *MockAI) CountTokens(ctx context.Context, model string, messages []adapter.Message) (int, error) {
	n := 0
	for _, msg := range messages {
		n += len(msg.Content) / 4
	}
	return n, nil
}

func (m *MockAI) Chat(ctx context.Context, model string, messages []adapter.Message) (string, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, messages)
	m.mu.Unlock()
	if m.ChatFunc != nil {
		return m.ChatFunc(ctx, model, messages)
	}
	return "", nil
}

func (m *MockAI) ChatWithUsage(ctx context.Context, model string, messages []adapter.Message) (string, adapter.Usage, error) {
	reply, err := m.Chat(ctx, model, messages)
	return reply, adapter.Usage{}, err
}

// ---- Mock PlacesAdapter ----

type MockPlaces struct {
	DestinationInfoFunc func(ctx context.Context, destination string) (*model.DestinationInfo, error)
	TopAttractionsFunc  func(ctx context.Context, destination string, limit int) ([]model.Place, error)
	TopActivitiesFunc   func(ctx context.Context, destination string, limit int) ([]model.Place, error)
	HotelsFunc          func(ctx context.Context, destination string) ([]model.Hotel, error)
	RestaurantsFunc     func(ctx context.Context, destination string) ([]model.Restaurant, error)
}

var _ adapter.PlacesAdapter = (*MockPlaces)(nil)

func NewMockPlaces() *MockPlaces { return &MockPlaces{} }

func (m *MockPlaces) DestinationInfo(ctx context.Context, destination string) (*model.DestinationInfo, error) {
	if m.DestinationInfoFunc != nil {
		return m.DestinationInfoFunc(ctx, destination)
	}
	return &model.DestinationInfo{Name: destination, Label: destination, Confidence: "medium"}, nil
}

func (m *MockPlaces) TopAttractions(ctx context.Context, destination string, limit int) ([]model.Place, error) {
	if m.TopAttractionsFunc != nil {
		return m.TopAttractionsFunc(ctx, destination, limit)
	}
	return nil, nil
}

func (m *MockPlaces) TopActivities(ctx context.Context, destination string, limit int) ([]model.Place, error) {
	if m.TopActivitiesFunc != nil {
		return m.TopActivitiesFunc(ctx, destination, limit)
	}
	return nil, nil
}

func (m *MockPlaces) Hotels(ctx context.Context, destination string) ([]model.Hotel, error) {
	if m.HotelsFunc != nil {
		return m.HotelsFunc(ctx, destination)
	}
	return nil, nil
}

func (m *MockPlaces) Restaurants(ctx context.Context, destination string) ([]model.Restaurant, error) {
	if m.RestaurantsFunc != nil {
		return m.RestaurantsFunc(ctx, destination)
	}
	return nil, nil
}

// ---- Mock Notifier ----

type sentNotice struct {
	ChatID int64
	Text   string
}

type MockNotifier struct {
	SendFunc func(ctx context.Context, chatID int64, text string) error

	mu   sync.Mutex
	Sent []sentNotice
}

var _ adapter.Notifier = (*MockNotifier)(nil)

func NewMockNotifier() *MockNotifier { return &MockNotifier{} }

func (m *MockNotifier) Send(ctx context.Context, chatID int64, text string) error {
	if m.SendFunc != nil {
		if err := m.SendFunc(ctx, chatID, text); err != nil {
			return err
		}
	}
	m.mu.Lock()
	m.Sent = append(m.Sent, sentNotice{ChatID: chatID, Text: text})
	m.mu.Unlock()
	return nil
}
