package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validMCQuestion() *Question {
	return &Question{
		ID:         "q-001",
		RoundID:    "sess-001_1_2025-11-09T14:30:45.123456+00:00",
		Type:       MultipleChoice,
		Stem:       "Which protocol guarantees ordered delivery?",
		Difficulty: 3,
		Categories: []string{"technical"},
		Choices:    []string{"TCP", "UDP", "ICMP"},
		CorrectKey: "TCP",
		CreatedAt:  time.Now().UTC(),
	}
}

func TestQuestionTypeValid(t *testing.T) {
	assert.True(t, MultipleChoice.Valid())
	assert.True(t, TrueFalse.Valid())
	assert.True(t, ShortAnswer.Valid())
	assert.False(t, QuestionType("essay").Valid())
	assert.False(t, QuestionType("").Valid())

	assert.True(t, MultipleChoice.RequiresCorrectAnswer())
	assert.True(t, TrueFalse.RequiresCorrectAnswer())
	assert.False(t, ShortAnswer.RequiresCorrectAnswer())
}

func TestQuestionValidate(t *testing.T) {
	t.Run("accepts valid multiple choice", func(t *testing.T) {
		require.NoError(t, validMCQuestion().Validate())
	})

	t.Run("rejects multiple choice with key outside choices", func(t *testing.T) {
		q := validMCQuestion()
		q.CorrectKey = "SCTP"
		err := q.Validate()
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidQuestion)
	})

	t.Run("rejects true false with arbitrary key", func(t *testing.T) {
		q := validMCQuestion()
		q.Type = TrueFalse
		q.Choices = nil
		q.CorrectKey = "maybe"
		err := q.Validate()
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidQuestion)
	})

	t.Run("accepts true false with boolean keys", func(t *testing.T) {
		for _, key := range []string{"True", "False", "true", "false"} {
			q := validMCQuestion()
			q.Type = TrueFalse
			q.Choices = nil
			q.CorrectKey = key
			require.NoError(t, q.Validate(), "key %q", key)
		}
	})

	t.Run("rejects short answer without keywords", func(t *testing.T) {
		q := validMCQuestion()
		q.Type = ShortAnswer
		q.Choices = nil
		q.CorrectKey = ""
		q.CorrectKeywords = nil
		err := q.Validate()
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidQuestion)
	})

	t.Run("rejects empty keyword entries", func(t *testing.T) {
		q := validMCQuestion()
		q.Type = ShortAnswer
		q.Choices = nil
		q.CorrectKey = ""
		q.CorrectKeywords = []string{"tcp", ""}
		err := q.Validate()
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidQuestion)
	})

	t.Run("rejects missing round id", func(t *testing.T) {
		q := validMCQuestion()
		q.RoundID = ""
		err := q.Validate()
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidQuestion)
	})

	t.Run("rejects difficulty out of range", func(t *testing.T) {
		q := validMCQuestion()
		q.Difficulty = 11
		err := q.Validate()
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidQuestion)
	})
}

func TestRecommendationForScore(t *testing.T) {
	cases := []struct {
		score float64
		want  Recommendation
	}{
		{1.0, RecommendationPass},
		{0.85, RecommendationPass},
		{0.8499, RecommendationRevise},
		{0.70, RecommendationRevise},
		{0.6999, RecommendationReject},
		{0.0, RecommendationReject},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, RecommendationForScore(tc.score), "score %v", tc.score)
	}
}

func TestValidateKeywordQuery(t *testing.T) {
	require.NoError(t, ValidateKeywordQuery(1, CategoryTechnical))
	require.NoError(t, ValidateKeywordQuery(10, CategoryGeneral))

	err := ValidateKeywordQuery(0, CategoryTechnical)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidKeywordQuery)

	err = ValidateKeywordQuery(5, "trivia")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidKeywordQuery)
}

func TestBeginnerProfile(t *testing.T) {
	p := BeginnerProfile("user-9")
	require.NoError(t, p.Validate())
	assert.Equal(t, 1, p.Level)
	assert.NotNil(t, p.Interests)
	assert.Zero(t, p.CompletedCount)
}
