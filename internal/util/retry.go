package util

import (
	"context"
	"fmt"
	"time"
)

// maxRetryDelay caps the backoff so a throttled data vendor does not
// push waits past a minute.
const maxRetryDelay = time.Minute

// Retry calls fn up to maxAttempts times, doubling the delay between
// attempts starting from baseDelay and capping it at maxRetryDelay.
// It returns nil on the first success; after the last failure the
// error comes back wrapped with the attempt count. Cancellation is
// checked before every attempt and during every wait.
func Retry(ctx context.Context, maxAttempts int, baseDelay time.Duration, fn func() error) error {
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		if lastErr = fn(); lastErr == nil {
			return nil
		}
		if attempt == maxAttempts {
			break
		}

		delay := baseDelay << (attempt - 1)
		if delay > maxRetryDelay {
			delay = maxRetryDelay
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}

	return fmt.Errorf("after %d attempts: %w", maxAttempts, lastErr)
}
