package scoring

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/examkit/examkit/internal/domain"
	"github.com/examkit/examkit/internal/llm"
)

// scorePlan scripts the mock client's behavior for one question ID.
type scorePlan struct {
	// Result is returned when Err is nil. A nil Result synthesizes a
	// correct-answer result on the fly.
	Result *domain.ScoreResult

	// Err is returned instead of a result.
	Err error

	// Delay simulates a slow tool call.
	Delay time.Duration
}

// scriptedClient is a scriptable llm.Client for orchestrator tests.
type scriptedClient struct {
	mu    sync.Mutex
	plans map[string]scorePlan

	// calls records every request in arrival order.
	calls []domain.ScoreRequest

	// lastOpts records the options of the most recent call.
	lastOpts llm.ScoreOptions
}

func newScriptedClient() *scriptedClient {
	return &scriptedClient{plans: make(map[string]scorePlan)}
}

func (c *scriptedClient) plan(questionID string, p scorePlan) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.plans[questionID] = p
}

func (c *scriptedClient) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.calls)
}

func (c *scriptedClient) Score(ctx context.Context, req domain.ScoreRequest, opts llm.ScoreOptions) (*domain.ScoreResult, error) {
	c.mu.Lock()
	c.calls = append(c.calls, req)
	c.lastOpts = opts
	p := c.plans[req.QuestionID]
	c.mu.Unlock()

	if p.Delay > 0 {
		select {
		case <-time.After(p.Delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if p.Err != nil {
		return nil, p.Err
	}
	if p.Result != nil {
		return p.Result.Clone(), nil
	}
	return &domain.ScoreResult{
		AttemptID:      uuid.NewString(),
		SessionID:      req.SessionID,
		QuestionID:     req.QuestionID,
		UserID:         req.UserID,
		IsCorrect:      true,
		Score:          100,
		Explanation:    "scripted result",
		KeywordMatches: []string{},
		GradedAt:       time.Now().UTC(),
	}, nil
}

func (c *scriptedClient) ValidateQuestion(_ context.Context, in domain.ValidateQuestionInput) (*domain.ValidationReport, error) {
	return &domain.ValidationReport{
		QuestionID:     in.Question.ID,
		IsValid:        true,
		Score:          0.9,
		RuleScore:      0.9,
		FinalScore:     0.9,
		Recommendation: domain.RecommendationPass,
		Issues:         []string{},
	}, nil
}
