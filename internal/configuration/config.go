// Package configuration loads process settings from the environment once at
// startup. Variables use the EXAMKIT_ prefix with a double underscore between
// nesting levels, so EXAMKIT_LLM__BASE_URL sets llm.base_url. The resulting
// Config is immutable for the life of the process.
package configuration

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"

	"github.com/examkit/examkit/internal/circuit"
	"github.com/examkit/examkit/internal/llm"
	"github.com/examkit/examkit/internal/resilience"
)

const envPrefix = "EXAMKIT_"

// Config is the root process configuration.
type Config struct {
	Temporal TemporalConfig `koanf:"temporal"`
	Database DatabaseConfig `koanf:"database"`
	LLM      llm.Config     `koanf:"llm"`
	Circuit  circuit.Config `koanf:"circuit"`
	Retry    RetryConfig    `koanf:"retry"`
	Scoring  ScoringConfig  `koanf:"scoring"`
}

// TemporalConfig locates the Temporal server and task queue.
type TemporalConfig struct {
	HostPort  string `koanf:"host_port"`
	Namespace string `koanf:"namespace"`
	TaskQueue string `koanf:"task_queue"`
}

// DatabaseConfig selects the persistence backend. An empty DSN selects the
// in-memory stores, which is the development default.
type DatabaseConfig struct {
	DSN string `koanf:"dsn"`
}

// RetryConfig mirrors resilience.Policy in environment-friendly units.
type RetryConfig struct {
	MaxRetries     int     `koanf:"max_retries"`
	InitialDelayMS int     `koanf:"initial_delay_ms"`
	Multiplier     float64 `koanf:"multiplier"`
}

// Policy converts to a resilience.Policy.
func (r RetryConfig) Policy() resilience.Policy {
	return resilience.Policy{
		MaxRetries:   r.MaxRetries,
		InitialDelay: time.Duration(r.InitialDelayMS) * time.Millisecond,
		Multiplier:   r.Multiplier,
	}
}

// ScoringConfig bounds batch fan-out and per-call grading deadlines.
type ScoringConfig struct {
	BatchConcurrency int `koanf:"batch_concurrency"`
	CallTimeoutMS    int `koanf:"call_timeout_ms"`
}

// CallTimeout returns the per-call grading deadline.
func (s ScoringConfig) CallTimeout() time.Duration {
	return time.Duration(s.CallTimeoutMS) * time.Millisecond
}

// DefaultConfig returns the development defaults applied underneath any
// environment overrides.
func DefaultConfig() Config {
	return Config{
		Temporal: TemporalConfig{
			HostPort:  "localhost:7233",
			Namespace: "default",
			TaskQueue: "examkit-rounds",
		},
		LLM:     llm.DefaultConfig(),
		Circuit: circuit.DefaultConfig(),
		Retry: RetryConfig{
			MaxRetries:     3,
			InitialDelayMS: 1000,
			Multiplier:     2.0,
		},
		Scoring: ScoringConfig{
			BatchConcurrency: 10,
			CallTimeoutMS:    30000,
		},
	}
}

// Load reads the environment on top of defaults.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	// Unmarshal into a pre-populated struct so absent variables keep their
	// defaults.
	cfg := DefaultConfig()
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field requirements before the process commits to a
// configuration.
func (c *Config) Validate() error {
	if c.Temporal.HostPort == "" {
		return fmt.Errorf("temporal host_port is required")
	}
	if c.Temporal.TaskQueue == "" {
		return fmt.Errorf("temporal task_queue is required")
	}
	if c.LLM.BaseURL == "" {
		return fmt.Errorf("llm base_url is required")
	}
	if err := c.Retry.Policy().Validate(); err != nil {
		return err
	}
	if c.Scoring.BatchConcurrency <= 0 {
		return fmt.Errorf("scoring batch_concurrency must be positive")
	}
	if c.Scoring.CallTimeoutMS <= 0 {
		return fmt.Errorf("scoring call_timeout_ms must be positive")
	}
	return nil
}
