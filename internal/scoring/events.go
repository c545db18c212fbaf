package scoring

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/examkit/examkit/internal/domain"
	"github.com/examkit/examkit/pkg/activity"
	"github.com/examkit/examkit/pkg/events"
)

const (
	eventSourceScoring     = "scoring-activity"
	eventVersion           = "1.0.0"
	eventTypeAnswerScored  = "scoring.answer_scored"
	eventTypeBatchComplete = "scoring.batch_completed"
)

// EventEmitter publishes scoring events through the shared activity
// infrastructure. Emission is best effort and never fails the grading call.
type EventEmitter struct{ base activity.BaseActivities }

// NewEventEmitter wraps the base activity infrastructure.
func NewEventEmitter(base activity.BaseActivities) *EventEmitter {
	return &EventEmitter{base: base}
}

type answerScoredPayload struct {
	AttemptID  string `json:"attempt_id"`
	QuestionID string `json:"question_id"`
	UserID     string `json:"user_id"`
	Score      int    `json:"score"`
	IsCorrect  bool   `json:"is_correct"`
}

// EmitAnswerScored publishes one graded attempt.
func (e *EventEmitter) EmitAnswerScored(ctx context.Context, result *domain.ScoreResult, wfCtx activity.WorkflowContext) {
	payload, err := json.Marshal(answerScoredPayload{
		AttemptID:  result.AttemptID,
		QuestionID: result.QuestionID,
		UserID:     result.UserID,
		Score:      result.Score,
		IsCorrect:  result.IsCorrect,
	})
	if err != nil {
		activity.SafeLogError(ctx, "Failed to encode AnswerScored payload",
			"attempt_id", result.AttemptID, "error", err)
		return
	}

	e.base.EmitEventSafe(ctx, events.Envelope{
		ID:             uuid.NewString(),
		Type:           eventTypeAnswerScored,
		Source:         eventSourceScoring,
		Version:        eventVersion,
		Timestamp:      time.Now().UTC(),
		IdempotencyKey: fmt.Sprintf("%s:%s:%s", wfCtx.WorkflowID, eventTypeAnswerScored, result.AttemptID),
		SessionID:      result.SessionID,
		WorkflowID:     wfCtx.WorkflowID,
		RunID:          wfCtx.RunID,
		Payload:        payload,
	}, "AnswerScored")
}

// EmitBatchCompleted publishes aggregate stats for one finished batch.
func (e *EventEmitter) EmitBatchCompleted(ctx context.Context, sessionID string, stats domain.BatchStats, wfCtx activity.WorkflowContext) {
	payload, err := json.Marshal(stats)
	if err != nil {
		activity.SafeLogError(ctx, "Failed to encode BatchCompleted payload",
			"session_id", sessionID, "error", err)
		return
	}

	e.base.EmitEventSafe(ctx, events.Envelope{
		ID:             uuid.NewString(),
		Type:           eventTypeBatchComplete,
		Source:         eventSourceScoring,
		Version:        eventVersion,
		Timestamp:      time.Now().UTC(),
		IdempotencyKey: fmt.Sprintf("%s:%s:%s", wfCtx.WorkflowID, eventTypeBatchComplete, sessionID),
		SessionID:      sessionID,
		WorkflowID:     wfCtx.WorkflowID,
		RunID:          wfCtx.RunID,
		Payload:        payload,
	}, "BatchCompleted")
}
