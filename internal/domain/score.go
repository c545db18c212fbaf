package domain

import (
	"fmt"
	"time"
)

// ScoreRequest carries one user answer to be graded. The answer schema is
// type-conditional: multiple choice and true/false grading needs a correct
// answer to compare against, short answer grading needs the keyword list the
// grader should look for.
type ScoreRequest struct {
	SessionID    string       `json:"session_id" validate:"required"`
	QuestionID   string       `json:"question_id" validate:"required"`
	UserID       string       `json:"user_id" validate:"required"`
	QuestionType QuestionType `json:"question_type" validate:"required"`
	QuestionStem string       `json:"question_stem" validate:"required"`
	UserAnswer   string       `json:"user_answer" validate:"required"`

	// CorrectAnswer is required for multiple_choice and true_false.
	CorrectAnswer string `json:"correct_answer,omitempty"`

	// CorrectKeywords is required (non-empty) for short_answer.
	CorrectKeywords []string `json:"correct_keywords,omitempty"`

	// Model names the grading model the caller wants; the orchestrator passes
	// it to the circuit governor for structured-output routing.
	Model string `json:"model,omitempty"`
}

// Validate checks structural requirements plus the type-conditional answer
// schema. All failures wrap ErrInvalidScoreRequest.
func (r *ScoreRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidScoreRequest, err)
	}
	if !r.QuestionType.Valid() {
		return fmt.Errorf("%w: %w: %q", ErrInvalidScoreRequest, ErrUnknownQuestionType, r.QuestionType)
	}

	switch r.QuestionType {
	case MultipleChoice, TrueFalse:
		if r.CorrectAnswer == "" {
			return fmt.Errorf("%w: correct_answer required for %s",
				ErrInvalidScoreRequest, r.QuestionType)
		}
	case ShortAnswer:
		if len(r.CorrectKeywords) == 0 {
			return fmt.Errorf("%w: correct_keywords required for short_answer",
				ErrInvalidScoreRequest)
		}
	}
	return nil
}

// ScoreResult is the graded outcome for a single answer. Results are fully
// populated regardless of origin: a degraded local-fallback result carries the
// same field set as a remote one, with KeywordMatches empty but never nil.
type ScoreResult struct {
	AttemptID      string    `json:"attempt_id" validate:"required"`
	SessionID      string    `json:"session_id" validate:"required"`
	QuestionID     string    `json:"question_id" validate:"required"`
	UserID         string    `json:"user_id" validate:"required"`
	IsCorrect      bool      `json:"is_correct"`
	Score          int       `json:"score" validate:"min=0,max=100"`
	Explanation    string    `json:"explanation"`
	KeywordMatches []string  `json:"keyword_matches"`
	Feedback       string    `json:"feedback"`
	GradedAt       time.Time `json:"graded_at" validate:"required"`
}

// Validate checks that a result is complete and its score within bounds.
func (s *ScoreResult) Validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("invalid score result: %w", err)
	}
	return nil
}

// Clone returns a deep copy safe to hand across goroutine boundaries.
func (s *ScoreResult) Clone() *ScoreResult {
	if s == nil {
		return nil
	}
	out := *s
	out.KeywordMatches = cloneStringSlice(s.KeywordMatches)
	return &out
}

// BatchStats summarizes a completed batch. AverageScore is computed over
// successful results only and is 0.0 when there are none.
type BatchStats struct {
	TotalCount      int     `json:"total_count"`
	SuccessfulCount int     `json:"successful_count"`
	FailedCount     int     `json:"failed_count"`
	AverageScore    float64 `json:"average_score"`
	CorrectCount    int     `json:"correct_count"`
	CorrectRate     float64 `json:"correct_rate"`
}

// BatchResult is the outcome of scoring a batch of answers. Results appear in
// completion order, which for parallel execution is not submission order;
// FailedQuestionIDs records every item that produced no result.
type BatchResult struct {
	Results           []*ScoreResult `json:"results"`
	FailedQuestionIDs []string       `json:"failed_question_ids"`
	Stats             BatchStats     `json:"stats"`
}

// ComputeBatchStats derives aggregate statistics from per-item outcomes.
// total is the number of requests submitted, which may exceed the number of
// results when items failed.
func ComputeBatchStats(results []*ScoreResult, total int) BatchStats {
	stats := BatchStats{
		TotalCount:      total,
		SuccessfulCount: len(results),
		FailedCount:     total - len(results),
	}
	if len(results) == 0 {
		return stats
	}

	var sum int
	for _, r := range results {
		sum += r.Score
		if r.IsCorrect {
			stats.CorrectCount++
		}
	}
	stats.AverageScore = float64(sum) / float64(len(results))
	stats.CorrectRate = float64(stats.CorrectCount) / float64(len(results))
	return stats
}
