package store

import (
	"log/slog"
	"sync"
	"time"
)

// FailedSave is one record that could not be persisted, held for later replay.
type FailedSave struct {
	Kind     string    `json:"kind"`
	RecordID string    `json:"record_id"`
	Payload  any       `json:"payload"`
	Reason   string    `json:"reason"`
	FailedAt time.Time `json:"failed_at"`
}

// FailedSaveQueue holds save failures so a supervising loop can replay them.
// The queue is caller-owned and injected into activities; it is bounded, and
// once full the oldest entry is dropped to admit the newest.
type FailedSaveQueue struct {
	mu      sync.Mutex
	items   []FailedSave
	maxSize int
	logger  *slog.Logger
}

// DefaultFailedSaveQueueSize bounds the queue when the caller passes no size.
const DefaultFailedSaveQueueSize = 1000

// NewFailedSaveQueue returns a queue bounded at maxSize entries.
func NewFailedSaveQueue(maxSize int) *FailedSaveQueue {
	if maxSize <= 0 {
		maxSize = DefaultFailedSaveQueueSize
	}
	return &FailedSaveQueue{
		maxSize: maxSize,
		logger:  slog.Default().With("component", "failed-save-queue"),
	}
}

// Enqueue records a failed save.
func (q *FailedSaveQueue) Enqueue(item FailedSave) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if item.FailedAt.IsZero() {
		item.FailedAt = time.Now().UTC()
	}
	if len(q.items) >= q.maxSize {
		dropped := q.items[0]
		q.items = q.items[1:]
		q.logger.Warn("failed-save queue full, dropping oldest",
			"dropped_kind", dropped.Kind,
			"dropped_record_id", dropped.RecordID)
	}
	q.items = append(q.items, item)
	q.logger.Warn("queued failed save for replay",
		"kind", item.Kind,
		"record_id", item.RecordID,
		"reason", item.Reason,
		"queue_depth", len(q.items))
}

// Drain removes and returns all queued records.
func (q *FailedSaveQueue) Drain() []FailedSave {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.items
	q.items = nil
	return out
}

// Len reports the current queue depth.
func (q *FailedSaveQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
