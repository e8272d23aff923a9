package util

import (
	"context"
	"time"
)

// Retry runs fn until it succeeds, up to maxAttempts times, doubling the
// wait between attempts starting from baseDelay. When every attempt fails
// the last error is returned. Cancelling the context aborts the wait and
// returns ctx.Err().
func Retry(ctx context.Context, maxAttempts int, baseDelay time.Duration, fn func() error) error {
	delay := baseDelay
	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if attempt == maxAttempts {
			break
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		delay *= 2
	}

	return lastErr
}
