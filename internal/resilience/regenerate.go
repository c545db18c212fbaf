package resilience

import (
	"context"
	"errors"
	"fmt"
)

// ErrNoAttemptSucceeded indicates every generation attempt errored, leaving
// no candidate to return.
var ErrNoAttemptSucceeded = errors.New("no generation attempt succeeded")

// Scored is anything carrying a quality score in [0, 1] that the regenerate
// loop can compare against its threshold.
type Scored interface {
	QualityScore() float64
}

// ExecuteWithRegenerate runs generate until an attempt meets the quality
// threshold or the regeneration budget is spent. The budget is separate from
// error retry: maxRegenerates counts additional attempts after the first,
// regardless of whether the prior attempt errored or merely scored low.
//
// The best-scoring attempt seen is returned even when nothing reached the
// threshold. Only when every attempt errored does the call return
// ErrNoAttemptSucceeded (wrapping the last error).
func ExecuteWithRegenerate[S Scored](ctx context.Context, e *Executor, generate func(context.Context) (S, error), threshold float64, maxRegenerates int) (S, error) {
	var (
		best     S
		haveBest bool
		lastErr  error
	)

	for attempt := 0; attempt <= maxRegenerates; attempt++ {
		if err := ctx.Err(); err != nil {
			break
		}
		if attempt > 0 {
			e.stats.regenerations.Add(1)
		}
		e.stats.totalAttempts.Add(1)

		candidate, err := generate(ctx)
		if err != nil {
			lastErr = err
			e.logger.Warn("generation attempt failed",
				"attempt", attempt, "error", err)
			continue
		}

		score := candidate.QualityScore()
		if !haveBest || score > best.QualityScore() {
			best, haveBest = candidate, true
		}
		if score >= threshold {
			return candidate, nil
		}
		e.logger.Info("generation below quality threshold, regenerating",
			"attempt", attempt,
			"score", score,
			"threshold", threshold,
			"remaining", maxRegenerates-attempt)
	}

	if !haveBest {
		var zero S
		if lastErr == nil {
			lastErr = ctx.Err()
		}
		return zero, fmt.Errorf("%w: %w", ErrNoAttemptSucceeded, lastErr)
	}

	e.logger.Warn("regeneration budget exhausted, returning best attempt",
		"best_score", best.QualityScore(), "threshold", threshold)
	return best, nil
}
