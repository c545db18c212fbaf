package scoring

import (
	"context"
	"errors"

	"go.temporal.io/sdk/temporal"

	"github.com/examkit/examkit/internal/domain"
	"github.com/examkit/examkit/internal/llm/llmerrors"
	"github.com/examkit/examkit/internal/store"
	pkgactivity "github.com/examkit/examkit/pkg/activity"
)

// Activities exposes grading as Temporal activities. It layers persistence
// and event emission on top of the orchestrators: graded attempts are saved
// through the attempt store, and save failures land in the caller-owned
// failed-save queue instead of being lost.
type Activities struct {
	pkgactivity.BaseActivities
	orch        *Orchestrator
	batch       *BatchOrchestrator
	attempts    store.AttemptStore
	failedSaves *store.FailedSaveQueue
	events      *EventEmitter
}

// NewActivities wires the scoring activity set.
func NewActivities(
	base pkgactivity.BaseActivities,
	orch *Orchestrator,
	batch *BatchOrchestrator,
	attempts store.AttemptStore,
	failedSaves *store.FailedSaveQueue,
) *Activities {
	return &Activities{
		BaseActivities: base,
		orch:           orch,
		batch:          batch,
		attempts:       attempts,
		failedSaves:    failedSaves,
		events:         NewEventEmitter(base),
	}
}

// ScoreAnswer grades one answer and persists the attempt.
func (a *Activities) ScoreAnswer(ctx context.Context, req domain.ScoreRequest) (*domain.ScoreResult, error) {
	result, err := a.orch.ScoreAnswer(ctx, req)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidScoreRequest) {
			return nil, nonRetryable("ScoreAnswer", err, "invalid score request")
		}
		if llmerrors.IsRetryable(err) {
			return nil, retryable("ScoreAnswer", err, "transient grading failure")
		}
		return nil, nonRetryable("ScoreAnswer", err, "grading failed")
	}

	a.saveAttempt(ctx, result)
	a.events.EmitAnswerScored(ctx, result, a.GetWorkflowContext(ctx))
	return result, nil
}

// ScoreBatch grades a batch in parallel and persists every successful
// attempt. Per-item failures are already folded into the batch result, so
// the activity itself only fails on systemic problems.
func (a *Activities) ScoreBatch(ctx context.Context, reqs []domain.ScoreRequest) (*domain.BatchResult, error) {
	a.RecordHeartbeat(ctx, "scoring batch", len(reqs))

	result, err := a.batch.ScoreBatchParallel(ctx, reqs)
	if err != nil {
		return nil, retryable("ScoreBatch", err, "batch scoring failed")
	}

	for _, r := range result.Results {
		a.saveAttempt(ctx, r)
	}

	sessionID := ""
	if len(reqs) > 0 {
		sessionID = reqs[0].SessionID
	}
	a.events.EmitBatchCompleted(ctx, sessionID, result.Stats, a.GetWorkflowContext(ctx))
	return result, nil
}

// saveAttempt persists one graded attempt, queueing it for replay when the
// store rejects it.
func (a *Activities) saveAttempt(ctx context.Context, result *domain.ScoreResult) {
	if a.attempts == nil {
		return
	}
	if err := a.attempts.SaveAttempt(ctx, result); err != nil {
		pkgactivity.SafeLogError(ctx, "Failed to save attempt, queueing for replay",
			"attempt_id", result.AttemptID, "error", err)
		if a.failedSaves != nil {
			a.failedSaves.Enqueue(store.FailedSave{
				Kind:     "attempt",
				RecordID: result.AttemptID,
				Payload:  result,
				Reason:   err.Error(),
			})
		}
	}
}

// nonRetryable wraps terminal failures so Temporal stops retrying.
func nonRetryable(tag string, cause error, msg string) error {
	return temporal.NewNonRetryableApplicationError(msg, tag, cause)
}

// retryable wraps transient failures for Temporal's retry policy.
func retryable(tag string, cause error, msg string) error {
	return temporal.NewApplicationError(msg, tag, cause)
}
