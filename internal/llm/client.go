// Package llm talks to the remote grading and validation tools over an
// OpenAI-compatible chat completions API. Responses are JSON payloads that
// frequently arrive slightly malformed, so decoding applies a one-shot repair
// pass (markdown fence extraction, trailing commas, unquoted keys) before
// schema validation.
package llm

import (
	"context"

	"github.com/examkit/examkit/internal/domain"
)

// ScoreOptions carries per-call routing decisions made by the orchestrator.
type ScoreOptions struct {
	// StructuredOutput asks the provider for schema-constrained JSON. The
	// circuit governor decides this per call; the client only relays it.
	StructuredOutput bool
}

// Client is the remote tool boundary used by scoring and generation.
// Implementations classify failures with llmerrors so callers can branch on
// timeout versus provider versus validation failures.
type Client interface {
	// Score grades one answer remotely.
	Score(ctx context.Context, req domain.ScoreRequest, opts ScoreOptions) (*domain.ScoreResult, error)

	// ValidateQuestion judges the quality of a generated question.
	ValidateQuestion(ctx context.Context, in domain.ValidateQuestionInput) (*domain.ValidationReport, error)
}
