package ratelimit

import (
	"context"
	"sync"
	"time"
)

type window struct {
	start time.Time
	count int
}

// MemoryStore keeps one fixed window per key in process memory, with the same
// counting rules as RedisStore. Expired windows are swept at most once per
// Window.
type MemoryStore struct {
	cfg       Config
	now       func() time.Time
	mu        sync.Mutex
	windows   map[string]*window
	lastSweep time.Time
}

func NewMemoryStore(cfg Config) *MemoryStore {
	return &MemoryStore{
		cfg:     cfg.normalized(),
		now:     time.Now,
		windows: make(map[string]*window),
	}
}

func (s *MemoryStore) Allow(_ context.Context, key string) (Decision, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweep(now)

	w, ok := s.windows[key]
	if !ok || now.Sub(w.start) >= s.cfg.Window {
		w = &window{start: now}
		s.windows[key] = w
	}
	w.count++

	return decide(s.cfg, w.count, w.start.Add(s.cfg.Window).Sub(now)), nil
}

func (s *MemoryStore) sweep(now time.Time) {
	if now.Sub(s.lastSweep) < s.cfg.Window {
		return
	}
	for k, w := range s.windows {
		if now.Sub(w.start) >= s.cfg.Window {
			delete(s.windows, k)
		}
	}
	s.lastSweep = now
}
