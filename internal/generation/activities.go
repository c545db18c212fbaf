// Package generation implements the question-generation side of a round as
// Temporal activities: profile lookup, template search, keyword vocabulary
// fetch, quality validation with regeneration, and persistence. Lookups
// degrade to documented fallbacks instead of failing the round.
package generation

import (
	"context"
	"fmt"

	"go.temporal.io/sdk/temporal"

	"github.com/examkit/examkit/internal/domain"
	"github.com/examkit/examkit/internal/llm"
	"github.com/examkit/examkit/internal/llm/llmerrors"
	"github.com/examkit/examkit/internal/resilience"
	"github.com/examkit/examkit/internal/roundid"
	"github.com/examkit/examkit/internal/store"
	pkgactivity "github.com/examkit/examkit/pkg/activity"
)

// Quality gate for generated questions: below the threshold the question is
// regenerated, at most twice.
const (
	QualityThreshold = 0.70
	MaxRegenerations = 2
)

// Activities is the Temporal activity set for question generation.
type Activities struct {
	pkgactivity.BaseActivities
	profiles     store.ProfileStore
	templates    store.TemplateStore
	keywords     store.KeywordStore
	questions    store.QuestionStore
	keywordCache *store.KeywordCache
	failedSaves  *store.FailedSaveQueue
	client       llm.Client
	exec         *resilience.Executor
	events       *EventEmitter
}

// NewActivities wires the generation activity set. The keyword cache and
// failed-save queue are caller-owned so rounds share warm entries and a
// single replay loop.
func NewActivities(
	base pkgactivity.BaseActivities,
	profiles store.ProfileStore,
	templates store.TemplateStore,
	keywords store.KeywordStore,
	questions store.QuestionStore,
	keywordCache *store.KeywordCache,
	failedSaves *store.FailedSaveQueue,
	client llm.Client,
	exec *resilience.Executor,
) *Activities {
	return &Activities{
		BaseActivities: base,
		profiles:       profiles,
		templates:      templates,
		keywords:       keywords,
		questions:      questions,
		keywordCache:   keywordCache,
		failedSaves:    failedSaves,
		client:         client,
		exec:           exec,
		events:         NewEventEmitter(base),
	}
}

// MintRoundIDInput names the session and round to identify.
type MintRoundIDInput struct {
	SessionID string `json:"session_id"`
	Round     int    `json:"round"`
}

// MintRoundID creates the round identifier every artifact of this round will
// carry. Invalid input is terminal.
func (a *Activities) MintRoundID(_ context.Context, in MintRoundIDInput) (string, error) {
	id, err := roundid.Format(in.SessionID, in.Round)
	if err != nil {
		return "", nonRetryable("MintRoundID", err, "invalid round coordinates")
	}
	return id, nil
}

// FetchUserProfile loads the learner profile, retrying transient store
// failures and falling back to a beginner profile when the budget is spent.
// This activity never fails.
func (a *Activities) FetchUserProfile(ctx context.Context, userID string) (*domain.UserProfile, error) {
	profile := resilience.ExecuteWithRetry(ctx, a.exec, "fetch-user-profile",
		func(ctx context.Context) (*domain.UserProfile, error) {
			return a.profiles.GetProfile(ctx, userID)
		},
		domain.BeginnerProfile(userID))
	return profile, nil
}

// SearchTemplatesInput narrows the template search.
type SearchTemplatesInput struct {
	Type       domain.QuestionType `json:"type"`
	Category   string              `json:"category"`
	Difficulty int                 `json:"difficulty"`
}

// SearchQuestionTemplates returns matching templates. An empty result is a
// valid outcome the generator handles by free-form generation.
func (a *Activities) SearchQuestionTemplates(ctx context.Context, in SearchTemplatesInput) ([]*domain.QuestionTemplate, error) {
	found, err := a.templates.SearchTemplates(ctx, in.Type, in.Category, in.Difficulty)
	if err != nil {
		return nil, retryable("SearchQuestionTemplates", err, "template search failed")
	}
	if found == nil {
		found = []*domain.QuestionTemplate{}
	}
	pkgactivity.SafeLog(ctx, "Template search completed",
		"type", in.Type, "category", in.Category, "matches", len(found))
	return found, nil
}

// KeywordsInput names one vocabulary cell.
type KeywordsInput struct {
	Difficulty int    `json:"difficulty"`
	Category   string `json:"category"`
}

// FetchDifficultyKeywords returns the keyword vocabulary for a difficulty
// and category, served through the shared cache. A store failure degrades to
// the built-in default set for the category.
func (a *Activities) FetchDifficultyKeywords(ctx context.Context, in KeywordsInput) (*domain.DifficultyKeywords, error) {
	if err := domain.ValidateKeywordQuery(in.Difficulty, in.Category); err != nil {
		return nil, nonRetryable("FetchDifficultyKeywords", err, "invalid keyword query")
	}

	key := fmt.Sprintf("%d/%s", in.Difficulty, in.Category)
	result := resilience.ExecuteWithCacheFallback(ctx, a.exec, a.keywordCache, key,
		func(ctx context.Context) (*domain.DifficultyKeywords, error) {
			return a.keywords.GetKeywords(ctx, in.Difficulty, in.Category)
		},
		defaultKeywords(in.Difficulty, in.Category))
	return result, nil
}

// reportAttempt adapts a validation report to the regenerate loop's quality
// comparison.
type reportAttempt struct{ report *domain.ValidationReport }

func (r reportAttempt) QualityScore() float64 { return r.report.FinalScore }

// ValidateQuestionQuality judges a generated question, regenerating the
// judgement up to MaxRegenerations times while it scores below
// QualityThreshold and keeping the best report seen.
func (a *Activities) ValidateQuestionQuality(ctx context.Context, in domain.ValidateQuestionInput) (*domain.ValidationReport, error) {
	if err := in.Validate(); err != nil {
		return nil, nonRetryable("ValidateQuestionQuality", err, "invalid validation input")
	}

	attempt, err := resilience.ExecuteWithRegenerate(ctx, a.exec,
		func(ctx context.Context) (reportAttempt, error) {
			report, err := a.client.ValidateQuestion(ctx, in)
			if err != nil {
				return reportAttempt{}, err
			}
			return reportAttempt{report: report}, nil
		},
		QualityThreshold, MaxRegenerations)
	if err != nil {
		if llmerrors.IsRetryable(err) {
			return nil, retryable("ValidateQuestionQuality", err, "validation tool unavailable")
		}
		return nil, nonRetryable("ValidateQuestionQuality", err, "validation failed")
	}

	return attempt.report, nil
}

// SaveGeneratedQuestion validates and persists one question. On a store
// failure the question is queued for replay and the error propagates so
// Temporal retries the save.
func (a *Activities) SaveGeneratedQuestion(ctx context.Context, q *domain.Question) error {
	if err := q.Validate(); err != nil {
		return nonRetryable("SaveGeneratedQuestion", err, "invalid question")
	}
	if _, err := roundid.Parse(q.RoundID); err != nil {
		return nonRetryable("SaveGeneratedQuestion", err, "malformed round id")
	}

	if err := a.questions.SaveQuestion(ctx, q); err != nil {
		pkgactivity.SafeLogError(ctx, "Failed to save question, queueing for replay",
			"question_id", q.ID, "error", err)
		a.failedSaves.Enqueue(store.FailedSave{
			Kind:     "question",
			RecordID: q.ID,
			Payload:  q,
			Reason:   err.Error(),
		})
		return retryable("SaveGeneratedQuestion", err, "question save failed")
	}

	a.events.EmitQuestionSaved(ctx, q, a.GetWorkflowContext(ctx))
	return nil
}

// nonRetryable wraps terminal failures so Temporal stops retrying.
func nonRetryable(tag string, cause error, msg string) error {
	return temporal.NewNonRetryableApplicationError(msg, tag, cause)
}

// retryable wraps transient failures for Temporal's retry policy.
func retryable(tag string, cause error, msg string) error {
	return temporal.NewApplicationError(msg, tag, cause)
}
