// Package store is the persistence boundary for questions, scoring attempts,
// user profiles, templates, and keyword vocabularies. Orchestration code
// depends only on the interfaces here; production wiring uses the gorm-backed
// implementation and tests use the in-memory one.
package store

import (
	"context"
	"errors"

	"github.com/examkit/examkit/internal/domain"
)

// ErrNotFound indicates the requested record does not exist.
var ErrNotFound = errors.New("record not found")

// QuestionStore persists generated questions.
type QuestionStore interface {
	SaveQuestion(ctx context.Context, q *domain.Question) error
	GetQuestion(ctx context.Context, id string) (*domain.Question, error)
	ListQuestionsByRound(ctx context.Context, roundID string) ([]*domain.Question, error)
}

// AttemptStore persists graded scoring attempts.
type AttemptStore interface {
	SaveAttempt(ctx context.Context, r *domain.ScoreResult) error
	ListAttemptsBySession(ctx context.Context, sessionID string) ([]*domain.ScoreResult, error)
}

// ProfileStore reads learner profiles.
type ProfileStore interface {
	GetProfile(ctx context.Context, userID string) (*domain.UserProfile, error)
}

// TemplateStore searches question templates. An empty result is a valid
// outcome, not an error.
type TemplateStore interface {
	SearchTemplates(ctx context.Context, qType domain.QuestionType, category string, difficulty int) ([]*domain.QuestionTemplate, error)
}

// KeywordStore reads difficulty keyword vocabularies.
type KeywordStore interface {
	GetKeywords(ctx context.Context, difficulty int, category string) (*domain.DifficultyKeywords, error)
}
