package resilience

import (
	"context"
	"time"
)

// RetryPolicy runs an operation with linearly increasing backoff between
// attempts: the wait after attempt n (0-based) is (n+1)*BackoffStep.
type RetryPolicy struct {
	MaxAttempts int
	BackoffStep time.Duration
	// Retryable decides whether a failed attempt may be retried. Nil retries nothing.
	Retryable func(error) bool
	// Sleep waits between attempts; nil uses a context-aware timer.
	Sleep   func(ctx context.Context, d time.Duration) error
	OnRetry func(attempt int, wait time.Duration, err error)
}

func (p RetryPolicy) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = SleepContext
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if p.Retryable == nil || !p.Retryable(lastErr) {
			return lastErr
		}
		if attempt == attempts-1 {
			break
		}

		wait := time.Duration(attempt+1) * p.BackoffStep
		if p.OnRetry != nil {
			p.OnRetry(attempt+1, wait, lastErr)
		}
		if err := sleep(ctx, wait); err != nil {
			return err
		}
	}

	return lastErr
}

func SleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
