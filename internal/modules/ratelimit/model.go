// README: Per-client request limiting with a Redis fixed window or an in-process token bucket.
package ratelimit

import (
	"context"
	"time"
)

// Decision is the verdict for one request.
type Decision struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetAfter time.Duration
	// Window is the configured window length, for client-facing messages.
	Window time.Duration
}

// Limiter counts a request against key and decides whether it may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}

// Config is the quota: Max requests per Window.
type Config struct {
	Max    int
	Window time.Duration
}

func (c Config) normalized() Config {
	if c.Max <= 0 {
		c.Max = 10
	}
	if c.Window <= 0 {
		c.Window = 15 * time.Minute
	}
	return c
}
