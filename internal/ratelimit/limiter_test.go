package ratelimit

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

func fixedClock(l *Limiter, now *time.Time) {
	l.nowFunc = func() time.Time { return *now }
}

func TestAllow_Burst(t *testing.T) {
	tests := []struct {
		name    string
		burst   int
		calls   int
		allowed int
	}{
		{"within burst", 3, 3, 3},
		{"exceeds burst", 2, 5, 2},
		{"zero burst", 0, 2, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			now := time.Now()
			l := NewLimiter(1.0, tt.burst)
			fixedClock(l, &now)

			got := 0
			for i := 0; i < tt.calls; i++ {
				if l.Allow("key") {
					got++
				}
			}
			if got != tt.allowed {
				t.Errorf("allowed %d of %d calls, want %d", got, tt.calls, tt.allowed)
			}
		})
	}
}

func TestAllow_Refill(t *testing.T) {
	now := time.Now()
	l := NewLimiter(10.0, 2)
	fixedClock(l, &now)

	l.Allow("key")
	l.Allow("key")
	if l.Allow("key") {
		t.Fatal("expected rejection after burst")
	}

	// 50ms at 10/s is half a token.
	now = now.Add(50 * time.Millisecond)
	if l.Allow("key") {
		t.Error("half a token should not be enough")
	}

	now = now.Add(50 * time.Millisecond)
	if !l.Allow("key") {
		t.Error("expected a token after 100ms")
	}

	// Refill never exceeds the burst.
	now = now.Add(time.Hour)
	for i := 0; i < 2; i++ {
		if !l.Allow("key") {
			t.Errorf("request %d should be allowed after long idle", i+1)
		}
	}
	if l.Allow("key") {
		t.Error("refill exceeded burst")
	}
}

func TestAllow_IndependentKeys(t *testing.T) {
	l := NewLimiter(0, 1)
	if !l.Allow("a") || !l.Allow("b") {
		t.Fatal("each key starts with a full bucket")
	}
	if l.Allow("a") {
		t.Error("key a should be exhausted")
	}
}

func TestRetryAfter(t *testing.T) {
	now := time.Now()
	l := NewLimiter(2.0, 1)
	fixedClock(l, &now)

	if got, ok := l.RetryAfter("key"); got != 0 || !ok {
		t.Errorf("RetryAfter on full bucket = (%v, %v), want (0, true)", got, ok)
	}
	l.Allow("key")
	if got, ok := l.RetryAfter("key"); got != 500*time.Millisecond || !ok {
		t.Errorf("RetryAfter = (%v, %v), want (500ms, true)", got, ok)
	}

	z := NewLimiter(0, 1)
	z.Allow("key")
	if got, ok := z.RetryAfter("key"); got != 0 || ok {
		t.Errorf("zero-rate RetryAfter = (%v, %v), want (0, false)", got, ok)
	}
}

func TestCheckLimit_ZeroRateOmitsRetryHint(t *testing.T) {
	limiters := ToolLimiters{"saccade_evaluate": NewLimiter(0, 1)}

	if err := CheckLimit(limiters, "saccade_evaluate"); err != nil {
		t.Fatalf("first call: %v", err)
	}
	err := CheckLimit(limiters, "saccade_evaluate")
	if !errors.Is(err, ErrRateLimited) {
		t.Fatalf("err = %v, want ErrRateLimited", err)
	}
	if msg := err.Error(); strings.Contains(msg, "retry in") || strings.Contains(msg, "-1") {
		t.Errorf("message %q should not carry a retry hint", msg)
	}
}

func TestAllow_ConcurrentAccess(t *testing.T) {
	now := time.Now()
	l := NewLimiter(1.0, 100)
	fixedClock(l, &now)

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowed := 0
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if l.Allow("concurrent-key") {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if allowed != 100 {
		t.Errorf("allowed %d requests, want exactly 100 with a frozen clock", allowed)
	}
}

func TestNewToolLimiters(t *testing.T) {
	limiters := NewToolLimiters(nil)

	tests := []struct {
		tool  string
		burst int
	}{
		{"saccade_encode", 20},
		{"saccade_decode", 20},
		{"saccade_evaluate", 3},
		{"saccade_runs", 10},
		{"saccade_export", 5},
	}
	for _, tt := range tests {
		t.Run(tt.tool, func(t *testing.T) {
			limiter, ok := limiters[tt.tool]
			if !ok {
				t.Fatalf("missing rate limiter for tool: %s", tt.tool)
			}
			if limiter.burst != tt.burst {
				t.Errorf("burst = %d, want %d", limiter.burst, tt.burst)
			}
		})
	}

	custom := NewToolLimiters(map[string]Limit{"x": {PerMinute: 30, Burst: 1}})
	if len(custom) != 1 || custom["x"].rate != 0.5 {
		t.Errorf("custom limiters = %+v", custom)
	}
}

func TestCheckLimit(t *testing.T) {
	limiters := NewToolLimiters(map[string]Limit{"saccade_evaluate": {PerMinute: 6, Burst: 1}})

	if err := CheckLimit(limiters, "saccade_evaluate"); err != nil {
		t.Errorf("unexpected error for first call: %v", err)
	}
	if err := CheckLimit(limiters, "unknown_tool"); err != nil {
		t.Errorf("unexpected error for unknown tool: %v", err)
	}

	err := CheckLimit(limiters, "saccade_evaluate")
	if !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited after burst exhaustion, got %v", err)
	}
	if !strings.Contains(err.Error(), "retry in") {
		t.Errorf("expected retry hint, got %q", err)
	}
}
