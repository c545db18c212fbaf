package generation

import (
	"context"
	"sync"

	"github.com/examkit/examkit/internal/domain"
	"github.com/examkit/examkit/internal/llm"
)

// validationStep scripts one ValidateQuestion call.
type validationStep struct {
	report *domain.ValidationReport
	err    error
}

// scriptedClient replays a fixed sequence of validation outcomes. Score is
// unused by generation activities.
type scriptedClient struct {
	mu    sync.Mutex
	steps []validationStep
	calls int
}

func (c *scriptedClient) Score(context.Context, domain.ScoreRequest, llm.ScoreOptions) (*domain.ScoreResult, error) {
	panic("generation activities never score answers")
}

func (c *scriptedClient) ValidateQuestion(_ context.Context, _ domain.ValidateQuestionInput) (*domain.ValidationReport, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	idx := c.calls
	if idx >= len(c.steps) {
		idx = len(c.steps) - 1 // repeat the final step
	}
	c.calls++
	return c.steps[idx].report, c.steps[idx].err
}

func (c *scriptedClient) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

func report(finalScore float64) *domain.ValidationReport {
	return &domain.ValidationReport{
		QuestionID:     "q-1",
		IsValid:        finalScore >= QualityThreshold,
		Score:          finalScore,
		RuleScore:      finalScore,
		FinalScore:     finalScore,
		Recommendation: domain.RecommendationForScore(finalScore),
		Issues:         []string{},
	}
}
