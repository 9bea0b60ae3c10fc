package util

import (
	"context"
	"sync"
	"time"
)

// RateLimiter enforces a calls-per-minute quota the way market-data
// vendors meter their APIs: at most perMinute calls inside any rolling
// sixty-second window, matching how the Tushare free tier counts
// requests.
type RateLimiter struct {
	perMinute int
	window    time.Duration

	mu    sync.Mutex
	calls []time.Time
}

// NewRateLimiter creates a limiter allowing perMinute calls per minute.
// A value below 1 is treated as 1.
func NewRateLimiter(perMinute int) *RateLimiter {
	if perMinute < 1 {
		perMinute = 1
	}
	return &RateLimiter{
		perMinute: perMinute,
		window:    time.Minute,
	}
}

// Wait blocks until the quota admits another call or the context is
// cancelled. The call is counted against the window on return.
func (rl *RateLimiter) Wait(ctx context.Context) error {
	for {
		rl.mu.Lock()
		now := time.Now()
		cutoff := now.Add(-rl.window)

		// Drop calls that have aged out of the window.
		kept := rl.calls[:0]
		for _, t := range rl.calls {
			if t.After(cutoff) {
				kept = append(kept, t)
			}
		}
		rl.calls = kept

		if len(rl.calls) < rl.perMinute {
			rl.calls = append(rl.calls, now)
			rl.mu.Unlock()
			return nil
		}

		// Full window: the next slot opens when the oldest call ages out.
		wait := rl.calls[0].Sub(cutoff)
		rl.mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}
