package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/examkit/examkit/internal/domain"
	"github.com/examkit/examkit/internal/llm/llmerrors"
)

// Config holds HTTP client settings for the tool endpoint.
type Config struct {
	// BaseURL is the OpenAI-compatible API root, e.g. a LiteLLM proxy.
	BaseURL string `koanf:"base_url"`
	// APIKey authenticates requests. Optional for local proxies.
	APIKey string `koanf:"api_key"`
	// Model is the default model when a request does not name one.
	Model string `koanf:"model"`
	// CallTimeout bounds each tool call end to end.
	CallTimeout time.Duration `koanf:"call_timeout"`
}

// DefaultConfig returns conservative client defaults.
func DefaultConfig() Config {
	return Config{
		BaseURL:     "http://localhost:4000",
		Model:       "gemini-2.0-flash",
		CallTimeout: 30 * time.Second,
	}
}

// HTTPClient implements Client against an OpenAI-compatible chat API.
type HTTPClient struct {
	cfg    Config
	http   *http.Client
	logger *slog.Logger
}

// NewHTTPClient builds a client. The underlying http.Client carries no
// timeout of its own; each call gets a context deadline from CallTimeout.
func NewHTTPClient(cfg Config) (*HTTPClient, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("llm: base URL is required")
	}
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = DefaultConfig().CallTimeout
	}
	return &HTTPClient{
		cfg:    cfg,
		http:   &http.Client{},
		logger: slog.Default().With("component", "llm"),
	}, nil
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Score grades one answer remotely. Timeouts surface as
// llmerrors.ErrorTypeTimeout so the orchestrator can fall back locally.
func (c *HTTPClient) Score(ctx context.Context, req domain.ScoreRequest, opts ScoreOptions) (*domain.ScoreResult, error) {
	model := req.Model
	if model == "" {
		model = c.cfg.Model
	}

	content, err := c.complete(ctx, model, scorePrompt(req), opts.StructuredOutput)
	if err != nil {
		return nil, err
	}

	var payload scorePayload
	if err := decodePayload(content, &payload, payload.validate); err != nil {
		return nil, err
	}

	matches := payload.KeywordMatches
	if matches == nil {
		matches = []string{}
	}
	return &domain.ScoreResult{
		AttemptID:      uuid.NewString(),
		SessionID:      req.SessionID,
		QuestionID:     req.QuestionID,
		UserID:         req.UserID,
		IsCorrect:      payload.IsCorrect,
		Score:          payload.Score,
		Explanation:    payload.Explanation,
		KeywordMatches: matches,
		Feedback:       payload.Feedback,
		GradedAt:       time.Now().UTC(),
	}, nil
}

// ValidateQuestion judges a generated question's quality and derives the
// recommendation from the blended final score.
func (c *HTTPClient) ValidateQuestion(ctx context.Context, in domain.ValidateQuestionInput) (*domain.ValidationReport, error) {
	model := in.Model
	if model == "" {
		model = c.cfg.Model
	}

	content, err := c.complete(ctx, model, validatePrompt(in), false)
	if err != nil {
		return nil, err
	}

	var payload reportPayload
	if err := decodePayload(content, &payload, payload.validate); err != nil {
		return nil, err
	}

	issues := payload.Issues
	if issues == nil {
		issues = []string{}
	}
	return &domain.ValidationReport{
		QuestionID:     in.Question.ID,
		IsValid:        payload.IsValid,
		Score:          payload.Score,
		RuleScore:      payload.RuleScore,
		FinalScore:     payload.FinalScore,
		Recommendation: domain.RecommendationForScore(payload.FinalScore),
		Feedback:       payload.Feedback,
		Issues:         issues,
	}, nil
}

// complete performs one chat completion round trip and returns the raw
// assistant content.
func (c *HTTPClient) complete(ctx context.Context, model, prompt string, structured bool) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.CallTimeout)
	defer cancel()

	body := chatRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "user", Content: prompt},
		},
	}
	if structured {
		body.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	encoded, err := json.Marshal(body)
	if err != nil {
		return "", llmerrors.Validation("encode request", err)
	}

	url := strings.TrimSuffix(c.cfg.BaseURL, "/") + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(encoded))
	if err != nil {
		return "", llmerrors.Network("build request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		toolErr := llmerrors.Classify(err)
		c.logger.Warn("tool call failed",
			"model", model,
			"error_type", toolErr.Type,
			"elapsed", time.Since(start),
			"error", err)
		return "", toolErr
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", llmerrors.Classify(err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", llmerrors.Provider(
			fmt.Sprintf("unexpected status: %.200s", raw), resp.StatusCode, nil)
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", llmerrors.Validation("decode completion envelope", err)
	}
	if len(parsed.Choices) == 0 {
		return "", llmerrors.Validation("completion has no choices", nil)
	}

	c.logger.Debug("tool call completed",
		"model", model,
		"structured", structured,
		"elapsed", time.Since(start))
	return parsed.Choices[0].Message.Content, nil
}
