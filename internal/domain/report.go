package domain

import "fmt"

// Recommendation is the closed set of dispositions a validation report can
// carry for a generated question.
type Recommendation string

const (
	// RecommendationPass accepts the question as generated.
	RecommendationPass Recommendation = "pass"
	// RecommendationRevise accepts the question but flags it for improvement.
	RecommendationRevise Recommendation = "revise"
	// RecommendationReject discards the question.
	RecommendationReject Recommendation = "reject"
)

// Thresholds separating the recommendation bands on a final score in [0, 1].
const (
	PassThreshold   = 0.85
	ReviseThreshold = 0.70
)

// RecommendationForScore maps a final validation score onto the closed
// recommendation set. Boundaries are inclusive: 0.85 passes, 0.70 revises.
func RecommendationForScore(finalScore float64) Recommendation {
	switch {
	case finalScore >= PassThreshold:
		return RecommendationPass
	case finalScore >= ReviseThreshold:
		return RecommendationRevise
	default:
		return RecommendationReject
	}
}

// ValidateQuestionInput asks the validation tool to judge a generated
// question's quality.
type ValidateQuestionInput struct {
	RoundID  string    `json:"round_id" validate:"required"`
	Question *Question `json:"question" validate:"required"`
	Model    string    `json:"model,omitempty"`
}

// Validate checks the input before dispatch.
func (v *ValidateQuestionInput) Validate() error {
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("invalid validate-question input: %w", err)
	}
	return v.Question.Validate()
}

// ValidationReport is the quality judgement for one generated question.
// FinalScore blends the model score with deterministic rule checks and drives
// the recommendation.
type ValidationReport struct {
	QuestionID     string         `json:"question_id"`
	IsValid        bool           `json:"is_valid"`
	Score          float64        `json:"score" validate:"min=0,max=1"`
	RuleScore      float64        `json:"rule_score" validate:"min=0,max=1"`
	FinalScore     float64        `json:"final_score" validate:"min=0,max=1"`
	Recommendation Recommendation `json:"recommendation"`
	Feedback       string         `json:"feedback"`
	Issues         []string       `json:"issues"`
}

// Validate checks score bounds and recommendation membership.
func (r *ValidationReport) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("invalid validation report: %w", err)
	}
	switch r.Recommendation {
	case RecommendationPass, RecommendationRevise, RecommendationReject:
		return nil
	default:
		return fmt.Errorf("invalid validation report: unknown recommendation %q", r.Recommendation)
	}
}
