package llm

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/examkit/examkit/internal/llm/llmerrors"
)

func decodeScore(t *testing.T, raw string) (*scorePayload, error) {
	t.Helper()
	var p scorePayload
	err := decodePayload(raw, &p, p.validate)
	return &p, err
}

func TestDecodePayload(t *testing.T) {
	t.Run("clean JSON parses directly", func(t *testing.T) {
		p, err := decodeScore(t, `{"is_correct": true, "score": 100, "explanation": "exact match", "keyword_matches": [], "feedback": "good"}`)
		require.NoError(t, err)
		assert.True(t, p.IsCorrect)
		assert.Equal(t, 100, p.Score)
	})

	t.Run("markdown fenced JSON is extracted", func(t *testing.T) {
		raw := "Here is the grading:\n```json\n{\"is_correct\": false, \"score\": 0, \"explanation\": \"wrong answer\"}\n```\nDone."
		p, err := decodeScore(t, raw)
		require.NoError(t, err)
		assert.False(t, p.IsCorrect)
		assert.Equal(t, "wrong answer", p.Explanation)
	})

	t.Run("trailing comma is repaired", func(t *testing.T) {
		p, err := decodeScore(t, `{"is_correct": true, "score": 80, "explanation": "close enough",}`)
		require.NoError(t, err)
		assert.Equal(t, 80, p.Score)
	})

	t.Run("unquoted keys are repaired", func(t *testing.T) {
		p, err := decodeScore(t, `{is_correct: true, score: 70, explanation: "ok"}`)
		require.NoError(t, err)
		assert.Equal(t, 70, p.Score)
	})

	t.Run("single-quoted document is normalized", func(t *testing.T) {
		p, err := decodeScore(t, `{'is_correct': true, 'score': 60, 'explanation': 'fine'}`)
		require.NoError(t, err)
		assert.Equal(t, 60, p.Score)
	})

	t.Run("unbalanced braces are closed", func(t *testing.T) {
		p, err := decodeScore(t, `{"is_correct": true, "score": 50, "explanation": "truncated"`)
		require.NoError(t, err)
		assert.Equal(t, 50, p.Score)
	})

	t.Run("irreparable content fails with validation classification", func(t *testing.T) {
		_, err := decodeScore(t, "the answer seems mostly right to me")
		require.Error(t, err)

		var toolErr *llmerrors.ToolError
		require.True(t, errors.As(err, &toolErr))
		assert.Equal(t, llmerrors.ErrorTypeValidation, toolErr.Type)
	})

	t.Run("out-of-range score fails validation even when well formed", func(t *testing.T) {
		_, err := decodeScore(t, `{"is_correct": true, "score": 150, "explanation": "x"}`)
		require.Error(t, err)

		var toolErr *llmerrors.ToolError
		require.True(t, errors.As(err, &toolErr))
		assert.Equal(t, llmerrors.ErrorTypeValidation, toolErr.Type)
	})
}

func TestReportPayloadValidate(t *testing.T) {
	good := reportPayload{IsValid: true, Score: 0.9, RuleScore: 0.8, FinalScore: 0.88}
	require.NoError(t, good.validate())

	bad := reportPayload{Score: 1.5}
	require.Error(t, bad.validate())
}
