package redis

import (
	"context"
	"fmt"
	"time"
)

// RateLimiter is a fixed-window counter. The first hit in a window creates the
// key with an expiry; once the counter passes the limit the caller is refused
// until the window rolls over.
type RateLimiter struct {
	client RedisClient
}

func NewRateLimiter(client RedisClient) *RateLimiter {
	return &RateLimiter{client: client}
}

func (r *RateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	count, err := r.client.Incr(ctx, key)
	if err != nil {
		return false, err
	}

	if count == 1 {
		err = r.client.Expire(ctx, key, window)
		if err != nil {
			return false, err
		}
	}

	if count > int64(limit) {
		return false, nil
	}

	return true, nil
}

// JobCreateKey scopes the video generation rate limit to a single client IP.
func JobCreateKey(clientIP string) string {
	return fmt.Sprintf("rate_limit:job_create:%s", clientIP)
}
