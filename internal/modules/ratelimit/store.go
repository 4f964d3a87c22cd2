package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "ratelimit:"

// RedisStore is a fixed-window counter shared by every API instance.
type RedisStore struct {
	redis *redis.Client
	cfg   Config
}

func NewRedisStore(redis *redis.Client, cfg Config) *RedisStore {
	return &RedisStore{redis: redis, cfg: cfg.normalized()}
}

func (s *RedisStore) Allow(ctx context.Context, key string) (Decision, error) {
	k := keyPrefix + key

	pipe := s.redis.TxPipeline()
	incr := pipe.Incr(ctx, k)
	ttl := pipe.PTTL(ctx, k)
	if _, err := pipe.Exec(ctx); err != nil {
		return Decision{}, err
	}

	count := incr.Val()
	reset := ttl.Val()
	// First hit of a window, or a key that lost its expiry.
	if reset < 0 {
		if err := s.redis.PExpire(ctx, k, s.cfg.Window).Err(); err != nil {
			return Decision{}, err
		}
		reset = s.cfg.Window
	}

	return decide(s.cfg, int(count), reset), nil
}

func decide(cfg Config, count int, reset time.Duration) Decision {
	remaining := cfg.Max - count
	if remaining < 0 {
		remaining = 0
	}
	return Decision{
		Allowed:    count <= cfg.Max,
		Limit:      cfg.Max,
		Remaining:  remaining,
		ResetAfter: reset,
		Window:     cfg.Window,
	}
}
