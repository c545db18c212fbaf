package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/examkit/examkit/internal/domain"
	"github.com/examkit/examkit/internal/llm/llmerrors"
)

func chatReply(t *testing.T, w http.ResponseWriter, content string) {
	t.Helper()
	resp := map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
	}
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(resp))
}

func scoreRequest() domain.ScoreRequest {
	return domain.ScoreRequest{
		SessionID:     "sess-001",
		QuestionID:    "q-001",
		UserID:        "user-001",
		QuestionType:  domain.MultipleChoice,
		QuestionStem:  "Pick one",
		UserAnswer:    "A",
		CorrectAnswer: "A",
		Model:         "gemini-2.0-flash",
	}
}

func TestHTTPClientScore(t *testing.T) {
	t.Run("maps payload onto fully populated result", func(t *testing.T) {
		var captured chatRequest
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
			chatReply(t, w, `{"is_correct": true, "score": 100, "explanation": "exact match", "keyword_matches": null, "feedback": "well done"}`)
		}))
		defer srv.Close()

		client, err := NewHTTPClient(Config{BaseURL: srv.URL, CallTimeout: 5 * time.Second})
		require.NoError(t, err)

		result, err := client.Score(context.Background(), scoreRequest(), ScoreOptions{StructuredOutput: true})
		require.NoError(t, err)

		assert.NotEmpty(t, result.AttemptID)
		assert.Equal(t, "sess-001", result.SessionID)
		assert.Equal(t, "q-001", result.QuestionID)
		assert.Equal(t, "user-001", result.UserID)
		assert.True(t, result.IsCorrect)
		assert.Equal(t, 100, result.Score)
		assert.NotNil(t, result.KeywordMatches, "matches must be empty, never nil")
		assert.Empty(t, result.KeywordMatches)
		assert.False(t, result.GradedAt.IsZero())

		assert.Equal(t, "gemini-2.0-flash", captured.Model)
		require.NotNil(t, captured.ResponseFormat)
		assert.Equal(t, "json_object", captured.ResponseFormat.Type)
	})

	t.Run("structured output off omits response format", func(t *testing.T) {
		var captured chatRequest
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
			chatReply(t, w, `{"is_correct": false, "score": 0, "explanation": "wrong"}`)
		}))
		defer srv.Close()

		client, err := NewHTTPClient(Config{BaseURL: srv.URL, CallTimeout: 5 * time.Second})
		require.NoError(t, err)

		_, err = client.Score(context.Background(), scoreRequest(), ScoreOptions{})
		require.NoError(t, err)
		assert.Nil(t, captured.ResponseFormat)
	})

	t.Run("slow endpoint surfaces timeout classification", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(5 * time.Second):
			}
		}))
		defer srv.Close()

		client, err := NewHTTPClient(Config{BaseURL: srv.URL, CallTimeout: 50 * time.Millisecond})
		require.NoError(t, err)

		_, err = client.Score(context.Background(), scoreRequest(), ScoreOptions{})
		require.Error(t, err)
		assert.True(t, llmerrors.IsTimeout(err), "got %v", err)
	})

	t.Run("server error surfaces provider classification", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "upstream exploded", http.StatusBadGateway)
		}))
		defer srv.Close()

		client, err := NewHTTPClient(Config{BaseURL: srv.URL, CallTimeout: 5 * time.Second})
		require.NoError(t, err)

		_, err = client.Score(context.Background(), scoreRequest(), ScoreOptions{})
		require.Error(t, err)

		var toolErr *llmerrors.ToolError
		require.True(t, errors.As(err, &toolErr))
		assert.Equal(t, llmerrors.ErrorTypeProvider, toolErr.Type)
		assert.Equal(t, http.StatusBadGateway, toolErr.StatusCode)
		assert.True(t, llmerrors.IsRetryable(err))
	})

	t.Run("garbage content surfaces validation classification", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			chatReply(t, w, "I think the answer is probably fine")
		}))
		defer srv.Close()

		client, err := NewHTTPClient(Config{BaseURL: srv.URL, CallTimeout: 5 * time.Second})
		require.NoError(t, err)

		_, err = client.Score(context.Background(), scoreRequest(), ScoreOptions{})
		require.Error(t, err)

		var toolErr *llmerrors.ToolError
		require.True(t, errors.As(err, &toolErr))
		assert.Equal(t, llmerrors.ErrorTypeValidation, toolErr.Type)
		assert.False(t, llmerrors.IsRetryable(err))
	})

	t.Run("requires base url", func(t *testing.T) {
		_, err := NewHTTPClient(Config{})
		require.Error(t, err)
	})
}

func TestHTTPClientValidateQuestion(t *testing.T) {
	question := &domain.Question{
		ID:         "q-001",
		RoundID:    "sess-001_1_2025-11-09T14:30:45.123456+00:00",
		Type:       domain.ShortAnswer,
		Stem:       "Explain TCP retransmission.",
		Difficulty: 4,
		Categories: []string{"technical"},
		CorrectKeywords: []string{
			"timeout", "acknowledgement",
		},
	}

	t.Run("derives recommendation from final score", func(t *testing.T) {
		cases := []struct {
			finalScore float64
			want       domain.Recommendation
		}{
			{0.92, domain.RecommendationPass},
			{0.75, domain.RecommendationRevise},
			{0.40, domain.RecommendationReject},
		}
		for _, tc := range cases {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				payload, err := json.Marshal(map[string]any{
					"is_valid":    tc.finalScore >= 0.70,
					"score":       tc.finalScore,
					"rule_score":  tc.finalScore,
					"final_score": tc.finalScore,
					"feedback":    "review",
				})
				require.NoError(t, err)
				chatReply(t, w, string(payload))
			}))

			client, err := NewHTTPClient(Config{BaseURL: srv.URL, CallTimeout: 5 * time.Second})
			require.NoError(t, err)

			report, err := client.ValidateQuestion(context.Background(), domain.ValidateQuestionInput{
				RoundID:  question.RoundID,
				Question: question,
			})
			srv.Close()
			require.NoError(t, err)

			assert.Equal(t, tc.want, report.Recommendation, "final score %v", tc.finalScore)
			assert.Equal(t, "q-001", report.QuestionID)
			assert.NotNil(t, report.Issues)
		}
	})
}
