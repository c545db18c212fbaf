package configuration

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "localhost:7233", cfg.Temporal.HostPort)
	assert.Equal(t, "examkit-rounds", cfg.Temporal.TaskQueue)
	assert.True(t, cfg.Circuit.Enabled)
	assert.Equal(t, 10, cfg.Scoring.BatchConcurrency)
	assert.Equal(t, 30*time.Second, cfg.Scoring.CallTimeout())
	assert.Equal(t, time.Second, cfg.Retry.Policy().InitialDelay)
}

func TestLoadOverridesFromEnvironment(t *testing.T) {
	t.Setenv("EXAMKIT_TEMPORAL__HOST_PORT", "temporal.internal:7233")
	t.Setenv("EXAMKIT_LLM__BASE_URL", "http://litellm:4000")
	t.Setenv("EXAMKIT_CIRCUIT__MAX_FAILURES_BEFORE_DISABLE", "5")
	t.Setenv("EXAMKIT_SCORING__BATCH_CONCURRENCY", "25")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "temporal.internal:7233", cfg.Temporal.HostPort)
	assert.Equal(t, "http://litellm:4000", cfg.LLM.BaseURL)
	assert.Equal(t, 5, cfg.Circuit.MaxFailuresBeforeDisable)
	assert.Equal(t, 25, cfg.Scoring.BatchConcurrency)

	// Untouched values keep defaults.
	assert.Equal(t, "default", cfg.Temporal.Namespace)
	assert.Equal(t, 3, cfg.Retry.MaxRetries)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := map[string]func(*Config){
		"missing host port":     func(c *Config) { c.Temporal.HostPort = "" },
		"missing task queue":    func(c *Config) { c.Temporal.TaskQueue = "" },
		"missing llm base url":  func(c *Config) { c.LLM.BaseURL = "" },
		"zero concurrency":      func(c *Config) { c.Scoring.BatchConcurrency = 0 },
		"zero call timeout":     func(c *Config) { c.Scoring.CallTimeoutMS = 0 },
		"negative retry budget": func(c *Config) { c.Retry.MaxRetries = -1 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultConfig()
			mutate(&cfg)
			require.Error(t, cfg.Validate())
		})
	}
}
