// Package events carries the generic envelope and sink used to publish
// domain events from activities. Emission is best effort: events feed
// observability and analytics, and never gate the operation that produced
// them.
package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"
)

// Envelope wraps a domain event with the metadata consumers need for
// routing, deduplication, and correlation.
type Envelope struct {
	// ID uniquely identifies this event instance, generated per emission.
	ID string `json:"id"`

	// Type routes the event, e.g. "scoring.answer_scored" or
	// "generation.question_saved".
	Type string `json:"type"`

	// Source names the emitting component, e.g. "scoring-activity".
	Source string `json:"source"`

	// Version tracks payload schema evolution, starting at "1.0.0".
	Version string `json:"version"`

	// Timestamp is the wall-clock emission time.
	Timestamp time.Time `json:"timestamp"`

	// IdempotencyKey deduplicates re-emissions caused by activity retries.
	IdempotencyKey string `json:"idempotency_key"`

	// SessionID scopes the event to one assessment session.
	SessionID string `json:"session_id"`

	// RoundID correlates the event with a generation or scoring round.
	RoundID string `json:"round_id,omitempty"`

	// WorkflowID and RunID tie the event back to the Temporal execution.
	WorkflowID string `json:"workflow_id"`
	RunID      string `json:"run_id"`

	// Payload holds the type-specific event body.
	Payload json.RawMessage `json:"payload"`
}

// EventSink receives emitted envelopes. Implementations must treat duplicate
// idempotency keys as no-ops and return quickly; callers never fail their
// primary operation on a sink error.
type EventSink interface {
	Append(ctx context.Context, envelope Envelope) error
}

// NoOpEventSink discards every event. Used in tests and when emission is
// disabled.
type NoOpEventSink struct{}

// Append implements EventSink.
func (n *NoOpEventSink) Append(_ context.Context, _ Envelope) error { return nil }

// NewNoOpEventSink returns a sink that discards everything.
func NewNoOpEventSink() EventSink { return &NoOpEventSink{} }

// LogEventSink writes every event to the process logger. It is the default
// sink for development workers where no event bus is configured.
type LogEventSink struct {
	logger *slog.Logger
}

// NewLogEventSink returns a sink logging through slog.
func NewLogEventSink() *LogEventSink {
	return &LogEventSink{logger: slog.Default().With("component", "events")}
}

// Append implements EventSink by logging the envelope metadata.
func (s *LogEventSink) Append(_ context.Context, envelope Envelope) error {
	s.logger.Info("event emitted",
		"event_id", envelope.ID,
		"type", envelope.Type,
		"source", envelope.Source,
		"session_id", envelope.SessionID,
		"round_id", envelope.RoundID,
		"idempotency_key", envelope.IdempotencyKey)
	return nil
}
