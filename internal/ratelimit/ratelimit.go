// Package ratelimit implements a fixed-window request counter in Redis.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type Rule struct {
	Name    string
	Limit   int
	Window  time.Duration
	Enabled bool
}

type Limiter interface {
	Allow(ctx context.Context, key string, rule Rule) (bool, error)
}

type RedisLimiter struct {
	client redis.Cmdable
	now    func() time.Time
}

func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if _, err := client.Ping(ctx).Result(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return client, nil
}

func NewRedisLimiter(client redis.Cmdable) *RedisLimiter {
	return &RedisLimiter{client: client, now: time.Now}
}

// Allow counts the request in the current window and reports whether the
// count is still within the rule's limit.
func (l *RedisLimiter) Allow(ctx context.Context, key string, rule Rule) (bool, error) {
	if !rule.Enabled || rule.Limit <= 0 || rule.Window <= 0 {
		return true, nil
	}

	window := l.now().UnixNano() / int64(rule.Window)
	redisKey := fmt.Sprintf("ratelimit:%s:%s:%d", rule.Name, key, window)

	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, rule.Window)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("rate limit %s: %w", rule.Name, err)
	}

	return incr.Val() <= int64(rule.Limit), nil
}
