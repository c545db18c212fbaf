// Package worker wires configuration, stores, and clients into a runnable
// Temporal worker. It owns the composition root so activity packages stay
// focused on their own logic.
package worker

import (
	sdkworker "go.temporal.io/sdk/worker"

	"github.com/examkit/examkit/internal/generation"
	"github.com/examkit/examkit/internal/scoring"
	"github.com/examkit/examkit/internal/workflow"
)

// RegisterAll registers the round workflow and every activity with the
// Temporal worker. Call it once during startup before the worker runs; the
// registration is not thread-safe.
func RegisterAll(w sdkworker.Worker, deps *Dependencies) {
	w.RegisterWorkflow(workflow.RoundWorkflow)

	w.RegisterActivity(deps.Generation.MintRoundID)
	w.RegisterActivity(deps.Generation.FetchUserProfile)
	w.RegisterActivity(deps.Generation.SearchQuestionTemplates)
	w.RegisterActivity(deps.Generation.FetchDifficultyKeywords)
	w.RegisterActivity(deps.Generation.ValidateQuestionQuality)
	w.RegisterActivity(deps.Generation.SaveGeneratedQuestion)

	w.RegisterActivity(deps.Scoring.ScoreAnswer)
	w.RegisterActivity(deps.Scoring.ScoreBatch)
}

// Dependencies carries the activity sets built by Setup.
type Dependencies struct {
	Generation *generation.Activities
	Scoring    *scoring.Activities
}
