// Package ratelimit throttles MCP tool calls with per-tool token buckets.
package ratelimit

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"
)

// ErrRateLimited is wrapped by CheckLimit when a call is rejected.
var ErrRateLimited = errors.New("rate limit exceeded")

// Limiter implements a per-key token bucket rate limiter.
// It is safe for concurrent use.
type Limiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	rate    float64 // tokens per second
	burst   int     // bucket capacity and initial token count
	nowFunc func() time.Time
}

type bucket struct {
	tokens    float64
	lastCheck time.Time
}

// NewLimiter creates a rate limiter with the given rate (tokens/sec) and burst size.
func NewLimiter(rate float64, burst int) *Limiter {
	return &Limiter{
		buckets: make(map[string]*bucket),
		rate:    rate,
		burst:   burst,
		nowFunc: time.Now,
	}
}

// refill returns the key's bucket topped up to now. Caller holds l.mu.
func (l *Limiter) refill(key string) *bucket {
	now := l.nowFunc()

	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{tokens: float64(l.burst), lastCheck: now}
		l.buckets[key] = b
		return b
	}

	if elapsed := now.Sub(b.lastCheck).Seconds(); elapsed > 0 {
		b.tokens = math.Min(b.tokens+l.rate*elapsed, float64(l.burst))
		b.lastCheck = now
	}
	return b
}

// Allow consumes a token for key and reports whether one was available.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	b := l.refill(key)
	if b.tokens < 1.0 {
		return false
	}
	b.tokens--
	return true
}

// RetryAfter returns how long until key has a full token again.
// A zero wait means a call would be allowed now. ok is false when the
// limiter has zero rate and key is exhausted, since it never refills.
func (l *Limiter) RetryAfter(key string) (wait time.Duration, ok bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	b := l.refill(key)
	missing := 1.0 - b.tokens
	if missing <= 0 {
		return 0, true
	}
	if l.rate <= 0 {
		return 0, false
	}
	return time.Duration(missing / l.rate * float64(time.Second)), true
}

// Limit is the rate and burst of one tool.
type Limit struct {
	PerMinute float64
	Burst     int
}

// DefaultLimits returns the per-tool limits of the saccade MCP server.
// Evaluations run a full simulation and get the tightest budget.
func DefaultLimits() map[string]Limit {
	return map[string]Limit{
		"saccade_encode":   {PerMinute: 120, Burst: 20},
		"saccade_decode":   {PerMinute: 120, Burst: 20},
		"saccade_evaluate": {PerMinute: 10, Burst: 3},
		"saccade_runs":     {PerMinute: 60, Burst: 10},
		"saccade_export":   {PerMinute: 30, Burst: 5},
	}
}

// ToolLimiters maps tool names to their rate limiters.
type ToolLimiters map[string]*Limiter

// NewToolLimiters creates limiters for the given limits. A nil map uses
// DefaultLimits.
func NewToolLimiters(limits map[string]Limit) ToolLimiters {
	if limits == nil {
		limits = DefaultLimits()
	}
	out := make(ToolLimiters, len(limits))
	for tool, lim := range limits {
		out[tool] = NewLimiter(lim.PerMinute/60.0, lim.Burst)
	}
	return out
}

// CheckLimit checks the rate limit for a given tool name.
// Tools without a configured limiter are always allowed.
func CheckLimit(limiters ToolLimiters, toolName string) error {
	limiter, ok := limiters[toolName]
	if !ok {
		return nil
	}

	if limiter.Allow(toolName) {
		return nil
	}
	if wait, ok := limiter.RetryAfter(toolName); ok && wait > 0 {
		return fmt.Errorf("%w for %s, retry in %s", ErrRateLimited, toolName, wait.Round(time.Second))
	}
	return fmt.Errorf("%w for %s", ErrRateLimited, toolName)
}
