package retry

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"
)

type statusErr int

func (e statusErr) Error() string      { return http.StatusText(int(e)) }
func (e statusErr) GetStatusCode() int { return int(e) }

type tempErr struct{ temporary, timeout bool }

func (e tempErr) Error() string   { return "temp" }
func (e tempErr) Temporary() bool { return e.temporary }
func (e tempErr) Timeout() bool   { return e.timeout }

func fastConfig(attempts int) Config {
	cfg := DefaultConfig()
	cfg.MaxAttempts = attempts
	cfg.InitialBackoff = time.Millisecond
	cfg.MaxBackoff = 5 * time.Millisecond
	return cfg
}

func TestWithRetry_SingleAttemptByDefault(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), DefaultConfig(), func() error {
		calls++
		return statusErr(http.StatusServiceUnavailable)
	})
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
	if !errors.Is(err, statusErr(http.StatusServiceUnavailable)) {
		t.Errorf("expected original error, got %v", err)
	}
}

func TestWithRetry_RetriesRetryableStatus(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), fastConfig(3), func() error {
		calls++
		if calls < 3 {
			return statusErr(http.StatusBadGateway)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestWithRetry_StopsOnNonRetryable(t *testing.T) {
	cases := []error{
		statusErr(http.StatusNotFound),
		tempErr{timeout: true},
		errors.New("plain"),
	}
	for _, want := range cases {
		calls := 0
		err := WithRetry(context.Background(), fastConfig(5), func() error {
			calls++
			return want
		})
		if calls != 1 {
			t.Errorf("%v: expected 1 call, got %d", want, calls)
		}
		if !errors.Is(err, want) {
			t.Errorf("expected %v, got %v", want, err)
		}
	}
}

func TestWithRetry_ExhaustsAttempts(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), fastConfig(3), func() error {
		calls++
		return tempErr{temporary: true}
	})
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
	var te tempErr
	if !errors.As(err, &te) {
		t.Errorf("expected wrapped tempErr, got %v", err)
	}
}

func TestWithRetry_ContextDoneReturnsLastError(t *testing.T) {
	cfg := fastConfig(5)
	cfg.InitialBackoff = time.Second
	cfg.MaxBackoff = time.Second

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := WithRetry(ctx, cfg, func() error { return tempErr{temporary: true} })
	if time.Since(start) > 500*time.Millisecond {
		t.Error("backoff did not observe context cancellation")
	}
	var te tempErr
	if !errors.As(err, &te) {
		t.Errorf("expected last error, got %v", err)
	}
}

func TestCalculateBackoff_Capped(t *testing.T) {
	cfg := Config{InitialBackoff: time.Second, MaxBackoff: 3 * time.Second, Multiplier: 2}
	if got := calculateBackoff(0, cfg); got != time.Second {
		t.Errorf("attempt 0: got %s", got)
	}
	if got := calculateBackoff(1, cfg); got != 2*time.Second {
		t.Errorf("attempt 1: got %s", got)
	}
	if got := calculateBackoff(5, cfg); got != 3*time.Second {
		t.Errorf("attempt 5: got %s", got)
	}
}
