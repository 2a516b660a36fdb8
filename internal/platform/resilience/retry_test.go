package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

var errFlaky = errors.New("flaky")

func TestRetryPolicy_LinearBackoffUntilSuccess(t *testing.T) {
	t.Parallel()

	var waits []time.Duration
	policy := RetryPolicy{
		MaxAttempts: 3,
		BackoffStep: 2 * time.Second,
		Retryable:   func(err error) bool { return errors.Is(err, errFlaky) },
		Sleep: func(_ context.Context, d time.Duration) error {
			waits = append(waits, d)
			return nil
		},
	}

	calls := 0
	err := policy.Do(context.Background(), func(context.Context) error {
		calls++
		if calls < 3 {
			return errFlaky
		}
		return nil
	})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if calls != 3 {
		t.Fatalf("unexpected call count: got=%d want=3", calls)
	}
	if len(waits) != 2 || waits[0] != 2*time.Second || waits[1] != 4*time.Second {
		t.Fatalf("unexpected waits: %v", waits)
	}
}

func TestRetryPolicy_StopsAfterMaxAttempts(t *testing.T) {
	t.Parallel()

	policy := RetryPolicy{
		MaxAttempts: 3,
		BackoffStep: time.Second,
		Retryable:   func(error) bool { return true },
		Sleep:       func(context.Context, time.Duration) error { return nil },
	}

	calls := 0
	err := policy.Do(context.Background(), func(context.Context) error {
		calls++
		return errFlaky
	})
	if !errors.Is(err, errFlaky) {
		t.Fatalf("expected last error, got %v", err)
	}
	if calls != 3 {
		t.Fatalf("unexpected call count: got=%d want=3", calls)
	}
}

func TestRetryPolicy_NonRetryableReturnsImmediately(t *testing.T) {
	t.Parallel()

	permanent := errors.New("status 404")
	policy := RetryPolicy{
		MaxAttempts: 3,
		BackoffStep: time.Second,
		Retryable:   func(err error) bool { return errors.Is(err, errFlaky) },
		Sleep: func(context.Context, time.Duration) error {
			t.Fatalf("sleep must not be called for non-retryable errors")
			return nil
		},
	}

	calls := 0
	err := policy.Do(context.Background(), func(context.Context) error {
		calls++
		return permanent
	})
	if !errors.Is(err, permanent) {
		t.Fatalf("expected permanent error, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("unexpected call count: got=%d want=1", calls)
	}
}

func TestRetryPolicy_ContextCancelledDuringBackoff(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	policy := RetryPolicy{
		MaxAttempts: 3,
		BackoffStep: time.Hour,
		Retryable:   func(error) bool { return true },
	}

	err := policy.Do(ctx, func(context.Context) error { return errFlaky })
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
