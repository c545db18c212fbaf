package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/examkit/examkit/internal/llm/llmerrors"
)

// scorePayload is the JSON schema the grading tool must return.
type scorePayload struct {
	IsCorrect      bool     `json:"is_correct"`
	Score          int      `json:"score"`
	Explanation    string   `json:"explanation"`
	KeywordMatches []string `json:"keyword_matches"`
	Feedback       string   `json:"feedback"`
}

func (p *scorePayload) validate() error {
	if p.Score < 0 || p.Score > 100 {
		return fmt.Errorf("score %d outside [0, 100]", p.Score)
	}
	if strings.TrimSpace(p.Explanation) == "" {
		return fmt.Errorf("explanation is empty")
	}
	return nil
}

// reportPayload is the JSON schema the validation tool must return.
type reportPayload struct {
	IsValid    bool     `json:"is_valid"`
	Score      float64  `json:"score"`
	RuleScore  float64  `json:"rule_score"`
	FinalScore float64  `json:"final_score"`
	Feedback   string   `json:"feedback"`
	Issues     []string `json:"issues"`
}

func (p *reportPayload) validate() error {
	for name, v := range map[string]float64{
		"score":       p.Score,
		"rule_score":  p.RuleScore,
		"final_score": p.FinalScore,
	} {
		if v < 0 || v > 1 {
			return fmt.Errorf("%s %v outside [0, 1]", name, v)
		}
	}
	return nil
}

// decodePayload parses raw tool output into out, applying one-shot repair
// when the strict parse fails: first syntax repair, then extraction from
// markdown or prose. validate runs after each successful parse. Failure after
// both passes is a validation-classified error.
func decodePayload(raw string, out any, validate func() error) error {
	if err := json.Unmarshal([]byte(raw), out); err == nil {
		if err := validate(); err == nil {
			return nil
		}
	}

	if repaired := repairJSON(raw); repaired != raw {
		if err := json.Unmarshal([]byte(repaired), out); err == nil {
			if err := validate(); err == nil {
				return nil
			}
		}
	}

	extracted := extractJSON(raw)
	if extracted != raw {
		candidates := []string{extracted, repairJSON(extracted)}
		for _, c := range candidates {
			if err := json.Unmarshal([]byte(c), out); err == nil {
				if err := validate(); err == nil {
					return nil
				}
			}
		}
	}

	return llmerrors.Validation(
		fmt.Sprintf("tool response failed schema validation after repair: %.200s", raw), nil)
}
