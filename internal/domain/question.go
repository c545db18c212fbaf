// Package domain defines the validated value types and operation contracts for
// assessment question generation and answer scoring. Types are created
// per-request, immutable after construction, and carry no hidden state; the
// orchestration packages own all sequencing and resilience behavior.
package domain

import (
	"fmt"
	"time"
)

// QuestionType is the closed set of supported question formats. Values are
// validated at the boundary so downstream code never branches on free-form
// strings.
type QuestionType string

const (
	// MultipleChoice questions have enumerated choices and one correct key.
	MultipleChoice QuestionType = "multiple_choice"
	// TrueFalse questions have a True/False correct key.
	TrueFalse QuestionType = "true_false"
	// ShortAnswer questions are graded semantically against keywords.
	ShortAnswer QuestionType = "short_answer"
)

// Valid reports whether the question type belongs to the closed set.
func (q QuestionType) Valid() bool {
	switch q {
	case MultipleChoice, TrueFalse, ShortAnswer:
		return true
	default:
		return false
	}
}

// RequiresCorrectAnswer reports whether the type is graded by exact-match
// against a single correct answer.
func (q QuestionType) RequiresCorrectAnswer() bool {
	return q == MultipleChoice || q == TrueFalse
}

// Question is a generated assessment item ready for persistence.
// RoundID correlates the item with the generation round that produced it.
type Question struct {
	ID              string       `json:"id"`
	RoundID         string       `json:"round_id" validate:"required"`
	Type            QuestionType `json:"type" validate:"required"`
	Stem            string       `json:"stem" validate:"required,min=1"`
	Difficulty      int          `json:"difficulty" validate:"min=1,max=10"`
	Categories      []string     `json:"categories" validate:"required,min=1,dive,min=1"`
	Choices         []string     `json:"choices,omitempty"`
	CorrectKey      string       `json:"correct_key,omitempty"`
	CorrectKeywords []string     `json:"correct_keywords,omitempty"`
	ValidationScore float64      `json:"validation_score,omitempty"`
	Explanation     string       `json:"explanation,omitempty"`
	CreatedAt       time.Time    `json:"created_at"`
}

// Validate checks structural requirements plus the type-conditional answer
// schema: multiple choice needs a correct key among its choices, true/false
// needs a True/False key, and short answer needs non-empty keywords.
func (q *Question) Validate() error {
	if err := validate.Struct(q); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidQuestion, err)
	}
	if !q.Type.Valid() {
		return fmt.Errorf("%w: %w: %q", ErrInvalidQuestion, ErrUnknownQuestionType, q.Type)
	}

	switch q.Type {
	case MultipleChoice:
		if q.CorrectKey == "" {
			return fmt.Errorf("%w: correct_key required for multiple_choice", ErrInvalidQuestion)
		}
		if !containsString(q.Choices, q.CorrectKey) {
			return fmt.Errorf("%w: correct_key must be one of the choices", ErrInvalidQuestion)
		}
	case TrueFalse:
		switch q.CorrectKey {
		case "True", "False", "true", "false":
		default:
			return fmt.Errorf("%w: correct_key must be True or False, got %q",
				ErrInvalidQuestion, q.CorrectKey)
		}
	case ShortAnswer:
		if len(q.CorrectKeywords) == 0 {
			return fmt.Errorf("%w: correct_keywords required for short_answer", ErrInvalidQuestion)
		}
		for _, k := range q.CorrectKeywords {
			if k == "" {
				return fmt.Errorf("%w: correct_keywords must be non-empty strings", ErrInvalidQuestion)
			}
		}
	}
	return nil
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
