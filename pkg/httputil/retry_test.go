package httputil

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRetryExhausted(t *testing.T) {
	calls := 0
	want := &RetryableError{Err: errors.New("timeout")}
	err := Retry(context.Background(), 2, time.Millisecond, func() error {
		calls++
		return want
	})
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
	if !errors.Is(err, want.Err) {
		t.Errorf("Retry() = %v, want the last error", err)
	}
}

func TestRetryZeroAttempts(t *testing.T) {
	calls := 0
	_ = Retry(context.Background(), 0, time.Millisecond, func() error {
		calls++
		return nil
	})
	if calls != 1 {
		t.Errorf("calls = %d, want at least one attempt", calls)
	}
}

func TestRetryContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Retry(ctx, 3, time.Hour, func() error {
		return &RetryableError{Err: errors.New("unavailable")}
	})
	if err != context.Canceled {
		t.Errorf("Retry() = %v, want context.Canceled", err)
	}
}

type waitError struct{ d time.Duration }

func (e waitError) Error() string        { return "busy" }
func (e waitError) Delay() time.Duration { return e.d }

func TestRetryHonorsRequestedDelay(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), 2, time.Hour, func() error {
		calls++
		if calls == 1 {
			return &RetryableError{Err: waitError{time.Millisecond}}
		}
		return nil
	})
	if err != nil || calls != 2 {
		t.Errorf("Retry() = %v after %d calls, want success after 2", err, calls)
	}
}
