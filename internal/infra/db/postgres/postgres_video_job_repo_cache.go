package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"tripreel/internal/domain/model"
	"tripreel/internal/domain/ports/repository"
	"tripreel/internal/infra/metrics"
	red "tripreel/internal/infra/redis"
)

var _ repository.VideoJobRepository = (*videoJobRepoCacheDecorator)(nil)

// videoJobRepoCacheDecorator serves the status-poll read path from redis.
// Every write path invalidates the key first, so a poller never reads a
// snapshot older than the last persisted transition. The store stays the sole
// source of truth; the cache holds copies only.
type videoJobRepoCacheDecorator struct {
	inner repository.VideoJobRepository
	cache red.RedisClient
	ttl   time.Duration
}

func NewVideoJobRepoCacheDecorator(inner repository.VideoJobRepository, cache red.RedisClient, ttl time.Duration) repository.VideoJobRepository {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &videoJobRepoCacheDecorator{inner: inner, cache: cache, ttl: ttl}
}

func jobCacheKey(id string) string { return fmt.Sprintf("video_job:id:%s", id) }

func (d *videoJobRepoCacheDecorator) Save(ctx context.Context, tx repository.Tx, job *model.VideoJob) error {
	_ = d.cache.Del(ctx, jobCacheKey(job.ID))
	return d.inner.Save(ctx, tx, job)
}

func (d *videoJobRepoCacheDecorator) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.VideoJob, error) {
	// Inside a transaction the row may be locked FOR UPDATE; bypass the cache.
	if tx != nil {
		return d.inner.FindByID(ctx, tx, id)
	}

	key := jobCacheKey(id)
	if val, err := d.cache.Get(ctx, key); err == nil {
		var job model.VideoJob
		if json.Unmarshal([]byte(val), &job) == nil {
			metrics.IncCacheRequest("video_job", "hit")
			return &job, nil
		}
	}

	metrics.IncCacheRequest("video_job", "miss")
	job, err := d.inner.FindByID(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if job != nil {
		if bytes, err := json.Marshal(job); err == nil {
			_ = d.cache.Set(ctx, key, bytes, d.ttl)
		}
	}
	return job, nil
}

func (d *videoJobRepoCacheDecorator) FetchAndMarkProcessing(ctx context.Context) (*model.VideoJob, error) {
	job, err := d.inner.FetchAndMarkProcessing(ctx)
	if job != nil {
		_ = d.cache.Del(ctx, jobCacheKey(job.ID))
	}
	return job, err
}

func (d *videoJobRepoCacheDecorator) Touch(ctx context.Context, tx repository.Tx, id string) error {
	return d.inner.Touch(ctx, tx, id)
}

func (d *videoJobRepoCacheDecorator) RequestCancel(ctx context.Context, tx repository.Tx, id string) error {
	_ = d.cache.Del(ctx, jobCacheKey(id))
	return d.inner.RequestCancel(ctx, tx, id)
}

func (d *videoJobRepoCacheDecorator) CancelRequested(ctx context.Context, tx repository.Tx, id string) (bool, error) {
	// The flag must reflect the store, not a cached projection.
	return d.inner.CancelRequested(ctx, tx, id)
}

func (d *videoJobRepoCacheDecorator) RequeueStale(ctx context.Context, tx repository.Tx, cutoff time.Time) (int, error) {
	// Requeued ids are unknown here; affected entries expire via TTL.
	return d.inner.RequeueStale(ctx, tx, cutoff)
}

func (d *videoJobRepoCacheDecorator) ListTerminalUnnotified(ctx context.Context, tx repository.Tx, limit int) ([]*model.VideoJob, error) {
	return d.inner.ListTerminalUnnotified(ctx, tx, limit)
}

func (d *videoJobRepoCacheDecorator) CountByStatus(ctx context.Context, tx repository.Tx) (map[string]int, error) {
	return d.inner.CountByStatus(ctx, tx)
}
