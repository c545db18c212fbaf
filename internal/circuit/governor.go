// Package circuit decides, per call, whether a grading request may ask the
// model for structured (schema-constrained) output. The governor is a pure
// decision function over its inputs: it holds no counters, performs no I/O
// beyond a decision log record, and the same inputs always produce the same
// answer. Failure counting lives with the supervising caller, which passes
// the current count into every decision.
package circuit

import (
	"log/slog"
	"strings"
	"sync/atomic"
)

// Config controls the governor. Loaded once at process start and immutable
// thereafter.
type Config struct {
	// Enabled gates the whole feature. When false every decision is no.
	Enabled bool `koanf:"enabled"`

	// MaxFailuresBeforeDisable trips the circuit: once the caller-reported
	// failure count reaches this threshold, structured output is withheld
	// regardless of model.
	MaxFailuresBeforeDisable int `koanf:"max_failures_before_disable"`
}

// DefaultConfig returns the production defaults: enabled with a threshold of 3.
func DefaultConfig() Config {
	return Config{Enabled: true, MaxFailuresBeforeDisable: 3}
}

// Governor makes structured-output routing decisions.
type Governor struct {
	cfg    Config
	logger *slog.Logger
}

// NewGovernor returns a governor for the given config.
func NewGovernor(cfg Config) *Governor {
	return &Governor{
		cfg:    cfg,
		logger: slog.Default().With("component", "circuit"),
	}
}

// ShouldUseStructuredOutput reports whether the next call to model may use
// structured output, given the caller's current consecutive failure count.
//
// Precedence: the enabled flag is checked first, then the failure threshold,
// and only then model routing. Routing is by case-insensitive substring:
// gemini-family models support structured output, deepseek-family models are
// hard-excluded, and unrecognized models default to no.
func (g *Governor) ShouldUseStructuredOutput(model string, failureCount int) bool {
	if !g.cfg.Enabled {
		g.logger.Info("structured output disabled by configuration", "model", model)
		return false
	}

	if failureCount >= g.cfg.MaxFailuresBeforeDisable {
		g.logger.Warn("structured output circuit tripped",
			"model", model,
			"failure_count", failureCount,
			"threshold", g.cfg.MaxFailuresBeforeDisable)
		return false
	}

	name := strings.ToLower(model)
	switch {
	case strings.Contains(name, "deepseek"):
		// Known to mangle schema-constrained responses. Never enabled.
		g.logger.Info("structured output withheld for deepseek model", "model", model)
		return false
	case strings.Contains(name, "gemini"):
		g.logger.Debug("structured output enabled", "model", model)
		return true
	default:
		g.logger.Info("structured output withheld for unrecognized model", "model", model)
		return false
	}
}

// FailureCounter is a small atomic counter for supervising loops that track
// consecutive structured-output failures. The governor never reads it; the
// caller snapshots Count and passes it into each decision.
type FailureCounter struct {
	n atomic.Int64
}

// Record increments the counter and returns the new count.
func (c *FailureCounter) Record() int { return int(c.n.Add(1)) }

// Reset clears the counter after a success.
func (c *FailureCounter) Reset() { c.n.Store(0) }

// Count returns the current count.
func (c *FailureCounter) Count() int { return int(c.n.Load()) }
