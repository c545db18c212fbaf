package scoring

import (
	"context"
	"log/slog"
	"sync"

	"github.com/examkit/examkit/internal/domain"
)

// DefaultBatchConcurrency bounds parallel fan-out when the caller configures
// nothing.
const DefaultBatchConcurrency = 10

// BatchOrchestrator grades many answers with per-item failure isolation.
type BatchOrchestrator struct {
	orch        *Orchestrator
	concurrency int
	logger      *slog.Logger
}

// NewBatchOrchestrator wraps a single-answer orchestrator. concurrency <= 0
// selects the default bound.
func NewBatchOrchestrator(orch *Orchestrator, concurrency int) *BatchOrchestrator {
	if concurrency <= 0 {
		concurrency = DefaultBatchConcurrency
	}
	return &BatchOrchestrator{
		orch:        orch,
		concurrency: concurrency,
		logger:      slog.Default().With("component", "scoring-batch"),
	}
}

// ScoreBatchParallel grades every request concurrently through a bounded
// semaphore. Results are appended in completion order, which is not
// submission order. A failed item lands in FailedQuestionIDs and never
// aborts its siblings. An empty batch returns a zero-valued result.
func (b *BatchOrchestrator) ScoreBatchParallel(ctx context.Context, reqs []domain.ScoreRequest) (*domain.BatchResult, error) {
	out := &domain.BatchResult{
		Results:           []*domain.ScoreResult{},
		FailedQuestionIDs: []string{},
	}
	if len(reqs) == 0 {
		return out, nil
	}

	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		sem = make(chan struct{}, b.concurrency)
	)

	for _, req := range reqs {
		wg.Add(1)
		go func(req domain.ScoreRequest) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			result, err := b.orch.ScoreAnswer(ctx, req)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				b.logger.Warn("batch item failed",
					"question_id", req.QuestionID, "error", err)
				out.FailedQuestionIDs = append(out.FailedQuestionIDs, req.QuestionID)
				return
			}
			out.Results = append(out.Results, result)
		}(req)
	}
	wg.Wait()

	out.Stats = domain.ComputeBatchStats(out.Results, len(reqs))
	b.logger.Info("batch scoring completed",
		"total", out.Stats.TotalCount,
		"successful", out.Stats.SuccessfulCount,
		"failed", out.Stats.FailedCount,
		"average_score", out.Stats.AverageScore)
	return out, nil
}

// ScoreBatchSequential grades the batch one item at a time with the same
// isolation and aggregate semantics as the parallel variant. Useful when the
// tool endpoint is rate-constrained.
func (b *BatchOrchestrator) ScoreBatchSequential(ctx context.Context, reqs []domain.ScoreRequest) (*domain.BatchResult, error) {
	out := &domain.BatchResult{
		Results:           []*domain.ScoreResult{},
		FailedQuestionIDs: []string{},
	}

	for _, req := range reqs {
		result, err := b.orch.ScoreAnswer(ctx, req)
		if err != nil {
			b.logger.Warn("batch item failed",
				"question_id", req.QuestionID, "error", err)
			out.FailedQuestionIDs = append(out.FailedQuestionIDs, req.QuestionID)
			continue
		}
		out.Results = append(out.Results, result)
	}

	out.Stats = domain.ComputeBatchStats(out.Results, len(reqs))
	return out, nil
}
