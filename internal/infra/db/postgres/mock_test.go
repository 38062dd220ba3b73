//go:build !integration

package postgres

import (
	"context"
	"time"

	"tripreel/internal/domain/model"
	"tripreel/internal/domain/ports/repository"
	red "tripreel/internal/infra/redis"
)

// --- Mocks for Cache Decorator Tests ---

// mockInnerVideoJobRepo mocks the database repository that the decorator wraps.
type mockInnerVideoJobRepo struct {
	SaveFunc                   func(ctx context.Context, tx repository.Tx, job *model.VideoJob) error
	FindByIDFunc               func(ctx context.Context, tx repository.Tx, id string) (*model.VideoJob, error)
	FetchAndMarkProcessingFunc func(ctx context.Context) (*model.VideoJob, error)
	TouchFunc                  func(ctx context.Context, tx repository.Tx, id string) error
	RequestCancelFunc          func(ctx context.Context, tx repository.Tx, id string) error
	CancelRequestedFunc        func(ctx context.Context, tx repository.Tx, id string) (bool, error)
	RequeueStaleFunc           func(ctx context.Context, tx repository.Tx, cutoff time.Time) (int, error)
	ListTerminalUnnotifiedFunc func(ctx context.Context, tx repository.Tx, limit int) ([]*model.VideoJob, error)
	CountByStatusFunc          func(ctx context.Context, tx repository.Tx) (map[string]int, error)
}

func (m *mockInnerVideoJobRepo) Save(ctx context.Context, tx repository.Tx, job *model.VideoJob) error {
	return m.SaveFunc(ctx, tx, job)
}
func (m *mockInnerVideoJobRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.VideoJob, error) {
	return m.FindByIDFunc(ctx, tx, id)
}
func (m *mockInnerVideoJobRepo) FetchAndMarkProcessing(ctx context.Context) (*model.VideoJob, error) {
	return m.FetchAndMarkProcessingFunc(ctx)
}
func (m *mockInnerVideoJobRepo) Touch(ctx context.Context, tx repository.Tx, id string) error {
	return m.TouchFunc(ctx, tx, id)
}
func (m *mockInnerVideoJobRepo) RequestCancel(ctx context.Context, tx repository.Tx, id string) error {
	return m.RequestCancelFunc(ctx, tx, id)
}
func (m *mockInnerVideoJobRepo) CancelRequested(ctx context.Context, tx repository.Tx, id string) (bool, error) {
	return m.CancelRequestedFunc(ctx, tx, id)
}
func (m *mockInnerVideoJobRepo) RequeueStale(ctx context.Context, tx repository.Tx, cutoff time.Time) (int, error) {
	return m.RequeueStaleFunc(ctx, tx, cutoff)
}
func (m *mockInnerVideoJobRepo) ListTerminalUnnotified(ctx context.Context, tx repository.Tx, limit int) ([]*model.VideoJob, error) {
	return m.ListTerminalUnnotifiedFunc(ctx, tx, limit)
}
func (m *mockInnerVideoJobRepo) CountByStatus(ctx context.Context, tx repository.Tx) (map[string]int, error) {
	return m.CountByStatusFunc(ctx, tx)
}

// mockRedisClient mocks our Redis client wrapper.
type mockRedisClient struct {
	GetFunc    func(ctx context.Context, key string) (string, error)
	SetFunc    func(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	DelFunc    func(ctx context.Context, keys ...string) error
	PingFunc   func(ctx context.Context) error
	IncrFunc   func(ctx context.Context, key string) (int64, error)
	ExpireFunc func(ctx context.Context, key string, expiration time.Duration) error
	CloseFunc  func() error
}

var _ red.RedisClient = &mockRedisClient{}

func (m *mockRedisClient) Get(ctx context.Context, key string) (string, error) {
	return m.GetFunc(ctx, key)
}
func (m *mockRedisClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return m.SetFunc(ctx, key, value, expiration)
}
func (m *mockRedisClient) Del(ctx context.Context, keys ...string) error {
	return m.DelFunc(ctx, keys...)
}
func (m *mockRedisClient) Ping(ctx context.Context) error { return m.PingFunc(ctx) }
func (m *mockRedisClient) Incr(ctx context.Context, key string) (int64, error) {
	return m.IncrFunc(ctx, key)
}
func (m *mockRedisClient) Expire(ctx context.Context, key string, expiration time.Duration) error {
	return m.ExpireFunc(ctx, key, expiration)
}
func (m *mockRedisClient) FlushDB(ctx context.Context) error { return nil }
func (m *mockRedisClient) Close() error                      { return m.CloseFunc() }
