// Package scoring grades user answers, remotely when the grading tool is
// healthy and locally when it is not. The single-answer orchestrator owns the
// validate, dispatch, and timeout-fallback sequence; the batch orchestrator
// fans requests out with per-item failure isolation so one bad answer never
// sinks the rest of an exam.
package scoring

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/examkit/examkit/internal/circuit"
	"github.com/examkit/examkit/internal/domain"
	"github.com/examkit/examkit/internal/llm"
	"github.com/examkit/examkit/internal/llm/llmerrors"
)

// DefaultCallTimeout bounds one grading call when the caller configures none.
const DefaultCallTimeout = 30 * time.Second

// Orchestrator grades one answer at a time.
type Orchestrator struct {
	client   llm.Client
	governor *circuit.Governor
	failures *circuit.FailureCounter
	timeout  time.Duration
	logger   *slog.Logger
}

// NewOrchestrator wires the grading client and structured-output governor.
// The failure counter is caller-owned so several orchestrators can share one
// view of tool health.
func NewOrchestrator(client llm.Client, governor *circuit.Governor, failures *circuit.FailureCounter, timeout time.Duration) *Orchestrator {
	if timeout <= 0 {
		timeout = DefaultCallTimeout
	}
	return &Orchestrator{
		client:   client,
		governor: governor,
		failures: failures,
		timeout:  timeout,
		logger:   slog.Default().With("component", "scoring"),
	}
}

// ScoreAnswer validates the request, dispatches it to the remote grading
// tool, and falls back to local grading when the tool times out.
//
// Error contract: validation failures return domain.ErrInvalidScoreRequest
// wrapped; timeouts never surface (the degraded local result does instead);
// any other tool failure propagates for the caller's retry machinery.
func (o *Orchestrator) ScoreAnswer(ctx context.Context, req domain.ScoreRequest) (*domain.ScoreResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	structured := o.governor.ShouldUseStructuredOutput(req.Model, o.failures.Count())

	callCtx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	result, err := o.client.Score(callCtx, req, llm.ScoreOptions{StructuredOutput: structured})
	if err != nil {
		if llmerrors.IsTimeout(err) {
			o.logger.Warn("grading tool timed out, grading locally",
				"question_id", req.QuestionID,
				"question_type", req.QuestionType)
			return localFallback(req), nil
		}
		if structured {
			count := o.failures.Record()
			o.logger.Warn("structured grading call failed",
				"question_id", req.QuestionID,
				"failure_count", count,
				"error", err)
		}
		return nil, fmt.Errorf("score answer %q: %w", req.QuestionID, err)
	}

	if structured {
		o.failures.Reset()
	}
	return result, nil
}
