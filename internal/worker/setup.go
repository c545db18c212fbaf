package worker

import (
	"fmt"
	"log/slog"

	"github.com/examkit/examkit/internal/circuit"
	"github.com/examkit/examkit/internal/configuration"
	"github.com/examkit/examkit/internal/generation"
	"github.com/examkit/examkit/internal/llm"
	"github.com/examkit/examkit/internal/resilience"
	"github.com/examkit/examkit/internal/scoring"
	"github.com/examkit/examkit/internal/store"
	"github.com/examkit/examkit/pkg/activity"
	"github.com/examkit/examkit/pkg/events"
)

// Setup builds every activity dependency from configuration. Questions and
// attempts go to MySQL when a DSN is configured; profiles, templates, and
// keyword vocabularies are served from the in-memory store either way.
func Setup(cfg *configuration.Config) (*Dependencies, error) {
	logger := slog.Default().With("component", "worker-setup")

	mem := store.NewMemoryStore()
	var questions store.QuestionStore = mem
	var attempts store.AttemptStore = mem
	if cfg.Database.DSN != "" {
		gs, err := store.NewGormStore(cfg.Database.DSN)
		if err != nil {
			return nil, fmt.Errorf("initialize database: %w", err)
		}
		questions = gs
		attempts = gs
		logger.Info("using MySQL persistence for questions and attempts")
	} else {
		logger.Info("no database DSN configured, using in-memory stores")
	}

	client, err := llm.NewHTTPClient(cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("initialize LLM client: %w", err)
	}

	exec, err := resilience.NewExecutor(cfg.Retry.Policy())
	if err != nil {
		return nil, fmt.Errorf("initialize retry executor: %w", err)
	}

	governor := circuit.NewGovernor(cfg.Circuit)
	failures := &circuit.FailureCounter{}

	orch := scoring.NewOrchestrator(client, governor, failures, cfg.Scoring.CallTimeout())
	batch := scoring.NewBatchOrchestrator(orch, cfg.Scoring.BatchConcurrency)

	base := activity.NewBaseActivities(events.NewLogEventSink())
	failedSaves := store.NewFailedSaveQueue(store.DefaultFailedSaveQueueSize)
	keywordCache := store.NewKeywordCache()

	return &Dependencies{
		Generation: generation.NewActivities(
			base, mem, mem, mem, questions, keywordCache, failedSaves, client, exec),
		Scoring: scoring.NewActivities(base, orch, batch, attempts, failedSaves),
	}, nil
}
