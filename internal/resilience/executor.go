// Package resilience wraps unreliable operations in degrade-not-fail
// execution strategies. Every variant guarantees the caller gets a usable
// value back: bounded retry with exponential backoff falls back to a
// caller-supplied default, cache-backed execution falls back through the
// cache, and quality-gated generation returns the best attempt seen.
//
// The executor is stateless apart from cumulative counters, so a single
// instance is safe for concurrent use across goroutines.
package resilience

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// ErrInvalidPolicy indicates a retry policy with out-of-range fields.
var ErrInvalidPolicy = errors.New("invalid retry policy")

// Policy bounds a retry loop. The delay before retry k (1-based) is
// InitialDelay * Multiplier^(k-1), with the multiplier clamped to at least
// 1.0 so the interval never decreases.
type Policy struct {
	// MaxRetries is the number of additional attempts after the first.
	// A permanently failing operation runs exactly MaxRetries+1 times.
	MaxRetries int

	// InitialDelay is the pause before the first retry.
	InitialDelay time.Duration

	// Multiplier grows the delay between consecutive retries.
	Multiplier float64
}

// DefaultPolicy matches the documented production defaults.
func DefaultPolicy() Policy {
	return Policy{
		MaxRetries:   3,
		InitialDelay: time.Second,
		Multiplier:   2.0,
	}
}

// Validate checks policy bounds.
func (p Policy) Validate() error {
	if p.MaxRetries < 0 {
		return fmt.Errorf("%w: max retries %d is negative", ErrInvalidPolicy, p.MaxRetries)
	}
	if p.InitialDelay < 0 {
		return fmt.Errorf("%w: initial delay %v is negative", ErrInvalidPolicy, p.InitialDelay)
	}
	if p.Multiplier <= 0 {
		return fmt.Errorf("%w: multiplier %v must be positive", ErrInvalidPolicy, p.Multiplier)
	}
	return nil
}

// backoff computes the delay before retry attempt (1-based).
func (p Policy) backoff(retry int) time.Duration {
	delay := p.InitialDelay
	if delay <= 0 {
		delay = time.Millisecond // Minimum 1ms to prevent hot loop.
	}
	for i := 1; i < retry; i++ {
		multiplier := p.Multiplier
		if multiplier < 1.0 {
			multiplier = 1.0 // Ensure multiplier doesn't decrease interval.
		}
		delay = time.Duration(float64(delay) * multiplier)
	}
	return delay
}

// Executor runs operations under a retry policy and accumulates counters.
type Executor struct {
	policy Policy
	logger *slog.Logger
	stats  stats
}

// NewExecutor validates the policy and returns a ready executor.
func NewExecutor(policy Policy) (*Executor, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	return &Executor{
		policy: policy,
		logger: slog.Default().With("component", "resilience"),
	}, nil
}

// Policy returns the executor's retry policy.
func (e *Executor) Policy() Policy { return e.policy }

// Stats returns a snapshot of the cumulative counters.
func (e *Executor) Stats() StatsSnapshot { return e.stats.snapshot() }

// ExecuteWithRetry runs work up to MaxRetries+1 times and returns its value
// on first success. Exhaustion and context cancellation both yield the
// caller-supplied fallback; this function never returns an error. The op
// string labels log records only.
func ExecuteWithRetry[T any](ctx context.Context, e *Executor, op string, work func(context.Context) (T, error), fallback T) T {
	var lastErr error

	for attempt := 0; attempt <= e.policy.MaxRetries; attempt++ {
		if attempt > 0 {
			if !e.sleep(ctx, e.policy.backoff(attempt)) {
				e.stats.fallbacksUsed.Add(1)
				e.logger.Warn("context cancelled during backoff, using fallback",
					"op", op, "attempt", attempt, "error", ctx.Err())
				return fallback
			}
		}

		e.stats.totalAttempts.Add(1)
		value, err := work(ctx)
		if err == nil {
			if attempt > 0 {
				e.logger.Info("operation recovered after retry",
					"op", op, "attempt", attempt)
			}
			return value
		}
		lastErr = err
		e.logger.Warn("operation attempt failed",
			"op", op,
			"attempt", attempt,
			"max_retries", e.policy.MaxRetries,
			"error", err)
	}

	e.stats.fallbacksUsed.Add(1)
	e.logger.Error("operation exhausted retries, using fallback",
		"op", op,
		"attempts", e.policy.MaxRetries+1,
		"error", lastErr)
	return fallback
}

// sleep waits for d or until the context is done. Reports whether the full
// delay elapsed.
func (e *Executor) sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
