package security

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimiter is a fixed-window counter backed by Redis. One counter
// per (scope, caller) key, reset every window.
type RateLimiter struct {
	redis  *redis.Client
	limit  int64
	window time.Duration
}

func NewRateLimiter(redisClient *redis.Client, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		redis:  redisClient,
		limit:  int64(limit),
		window: window,
	}
}

// Allow reports whether the caller identified by key may proceed. Redis
// outages fail open: purchases should not stop because the limiter is
// down.
func (r *RateLimiter) Allow(ctx context.Context, scope, key string) bool {
	counterKey := fmt.Sprintf("ratelimit:%s:%s", scope, key)

	count, err := r.redis.Incr(ctx, counterKey).Result()
	if err != nil {
		slog.Warn("rate limiter unavailable", "scope", scope, "error", err)
		return true
	}
	if count == 1 {
		r.redis.Expire(ctx, counterKey, r.window)
	}
	return count <= r.limit
}
