package generation

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/examkit/examkit/internal/domain"
	"github.com/examkit/examkit/internal/roundid"
	"github.com/examkit/examkit/pkg/activity"
	"github.com/examkit/examkit/pkg/events"
)

const (
	eventSourceGeneration  = "generation-activity"
	eventVersion           = "1.0.0"
	eventTypeQuestionSaved = "generation.question_saved"
)

// EventEmitter publishes generation events through the shared activity
// infrastructure.
type EventEmitter struct{ base activity.BaseActivities }

// NewEventEmitter wraps the base activity infrastructure.
func NewEventEmitter(base activity.BaseActivities) *EventEmitter {
	return &EventEmitter{base: base}
}

type questionSavedPayload struct {
	QuestionID string              `json:"question_id"`
	Type       domain.QuestionType `json:"type"`
	Difficulty int                 `json:"difficulty"`
}

// EmitQuestionSaved publishes one persisted question.
func (e *EventEmitter) EmitQuestionSaved(ctx context.Context, q *domain.Question, wfCtx activity.WorkflowContext) {
	payload, err := json.Marshal(questionSavedPayload{
		QuestionID: q.ID,
		Type:       q.Type,
		Difficulty: q.Difficulty,
	})
	if err != nil {
		activity.SafeLogError(ctx, "Failed to encode QuestionSaved payload",
			"question_id", q.ID, "error", err)
		return
	}

	sessionID := ""
	if parsed, err := roundid.Parse(q.RoundID); err == nil {
		sessionID = parsed.SessionID
	}

	e.base.EmitEventSafe(ctx, events.Envelope{
		ID:             uuid.NewString(),
		Type:           eventTypeQuestionSaved,
		Source:         eventSourceGeneration,
		Version:        eventVersion,
		Timestamp:      time.Now().UTC(),
		IdempotencyKey: fmt.Sprintf("%s:%s:%s", wfCtx.WorkflowID, eventTypeQuestionSaved, q.ID),
		SessionID:      sessionID,
		RoundID:        q.RoundID,
		WorkflowID:     wfCtx.WorkflowID,
		RunID:          wfCtx.RunID,
		Payload:        payload,
	}, "QuestionSaved")
}
