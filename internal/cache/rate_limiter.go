package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RateLimiter counts calls per key in fixed one-minute windows.
type RateLimiter struct {
	client *redis.Client
	prefix string
	limit  int
	window time.Duration
	now    func() time.Time
	logger *zap.Logger
}

// NewRateLimiter allows limit calls per key per minute. A nil client or a
// non-positive limit allows everything.
func NewRateLimiter(client *redis.Client, prefix string, limit int, logger *zap.Logger) *RateLimiter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RateLimiter{
		client: client,
		prefix: prefix,
		limit:  limit,
		window: time.Minute,
		now:    time.Now,
		logger: logger,
	}
}

// Allow records one call for key and reports whether it is within the limit.
func (l *RateLimiter) Allow(ctx context.Context, key string) bool {
	if l == nil || l.client == nil || l.limit <= 0 {
		return true
	}

	bucket := l.now().Unix() / int64(l.window/time.Second)
	redisKey := fmt.Sprintf("%s:%s:%d", l.prefix, key, bucket)

	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		l.logger.Warn("rate limiter unavailable; allowing request", zap.String("key", redisKey), zap.Error(err))
		return true
	}
	return incr.Val() <= int64(l.limit)
}
