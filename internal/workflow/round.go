// Package workflow sequences one assessment round deterministically:
// mint a round identifier, fetch the learner profile and keyword
// vocabulary, then grade the submitted answers as a batch. All control flow
// uses workflow-safe APIs only; everything effectful happens in activities.
package workflow

import (
	"fmt"
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/examkit/examkit/internal/domain"
	"github.com/examkit/examkit/internal/generation"
	"github.com/examkit/examkit/internal/scoring"
)

// RoundInput starts one round for a session.
type RoundInput struct {
	SessionID  string                `json:"session_id"`
	Round      int                   `json:"round"`
	UserID     string                `json:"user_id"`
	Category   string                `json:"category"`
	Difficulty int                   `json:"difficulty"`
	Answers    []domain.ScoreRequest `json:"answers"`
}

// Validate fails fast on input a retry can never fix.
func (in *RoundInput) Validate() error {
	if in.SessionID == "" {
		return fmt.Errorf("session_id is required")
	}
	if in.Round != 1 && in.Round != 2 {
		return fmt.Errorf("round must be 1 or 2, got %d", in.Round)
	}
	if in.UserID == "" {
		return fmt.Errorf("user_id is required")
	}
	return nil
}

// RoundOutput summarizes the round.
type RoundOutput struct {
	RoundID  string                     `json:"round_id"`
	Profile  *domain.UserProfile        `json:"profile"`
	Keywords *domain.DifficultyKeywords `json:"keywords,omitempty"`
	Batch    *domain.BatchResult        `json:"batch,omitempty"`
}

// RoundWorkflow runs one assessment round. Answers are optional: a round
// started before the learner submits grades nothing and still produces the
// round identifier and generation context.
func RoundWorkflow(ctx workflow.Context, in RoundInput) (*RoundOutput, error) {
	const currentVersion = 1
	_ = workflow.GetVersion(ctx, "round.v", workflow.DefaultVersion, currentVersion)

	if err := in.Validate(); err != nil {
		return nil, temporal.NewNonRetryableApplicationError(
			"invalid round input", "Validation", err)
	}

	ao := workflow.ActivityOptions{
		StartToCloseTimeout: 2 * time.Minute,
		HeartbeatTimeout:    30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    time.Minute,
			MaximumAttempts:    3,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, ao)

	var acts *generation.Activities
	out := &RoundOutput{}

	if err := workflow.ExecuteActivity(ctx, acts.MintRoundID, generation.MintRoundIDInput{
		SessionID: in.SessionID,
		Round:     in.Round,
	}).Get(ctx, &out.RoundID); err != nil {
		return nil, err
	}

	if err := workflow.ExecuteActivity(ctx, acts.FetchUserProfile, in.UserID).
		Get(ctx, &out.Profile); err != nil {
		return nil, err
	}

	if in.Category != "" {
		if err := workflow.ExecuteActivity(ctx, acts.FetchDifficultyKeywords, generation.KeywordsInput{
			Difficulty: in.Difficulty,
			Category:   in.Category,
		}).Get(ctx, &out.Keywords); err != nil {
			return nil, err
		}
	}

	if len(in.Answers) > 0 {
		var scoringActs *scoring.Activities
		if err := workflow.ExecuteActivity(ctx, scoringActs.ScoreBatch, in.Answers).
			Get(ctx, &out.Batch); err != nil {
			return nil, err
		}
	}

	return out, nil
}
