package scoring

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/examkit/examkit/internal/domain"
)

// shortAnswerFallbackScore is the neutral score for short answers graded
// without the tool: there is no local semantic grading, so the answer gets
// half credit and an explanation saying so.
const shortAnswerFallbackScore = 50

// localFallback grades an answer without the remote tool. Multiple choice
// and true/false grade by case-insensitive trimmed comparison; short answers
// get a fixed neutral score. The result carries the full field set so
// downstream consumers cannot tell it apart structurally from a remote one.
func localFallback(req domain.ScoreRequest) *domain.ScoreResult {
	result := &domain.ScoreResult{
		AttemptID:      uuid.NewString(),
		SessionID:      req.SessionID,
		QuestionID:     req.QuestionID,
		UserID:         req.UserID,
		KeywordMatches: []string{},
		GradedAt:       time.Now().UTC(),
	}

	switch req.QuestionType {
	case domain.MultipleChoice, domain.TrueFalse:
		correct := strings.EqualFold(
			strings.TrimSpace(req.UserAnswer),
			strings.TrimSpace(req.CorrectAnswer))
		result.IsCorrect = correct
		if correct {
			result.Score = 100
			result.Explanation = "Answer matches the correct answer (graded locally)."
		} else {
			result.Score = 0
			result.Explanation = "Answer does not match the correct answer (graded locally)."
		}
		result.Feedback = "Grading service was unavailable; exact-match grading applied."
	case domain.ShortAnswer:
		result.IsCorrect = false
		result.Score = shortAnswerFallbackScore
		result.Explanation = "Grading service timed out; short answers cannot be graded locally."
		result.Feedback = "This answer received a provisional score and may be regraded."
	}

	return result
}
