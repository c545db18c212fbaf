package llm

import (
	"fmt"
	"strings"

	"github.com/examkit/examkit/internal/domain"
)

// scorePrompt renders the grading instruction for one answer. The prompt
// pins the response schema so repair has a stable target.
func scorePrompt(req domain.ScoreRequest) string {
	var b strings.Builder
	b.WriteString("You are grading an exam answer. Respond with a single JSON object:\n")
	b.WriteString(`{"is_correct": bool, "score": int 0-100, "explanation": string, "keyword_matches": [string], "feedback": string}`)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Question type: %s\n", req.QuestionType)
	fmt.Fprintf(&b, "Question: %s\n", req.QuestionStem)
	fmt.Fprintf(&b, "Student answer: %s\n", req.UserAnswer)

	if req.QuestionType.RequiresCorrectAnswer() {
		fmt.Fprintf(&b, "Correct answer: %s\n", req.CorrectAnswer)
	} else {
		fmt.Fprintf(&b, "Expected keywords: %s\n", strings.Join(req.CorrectKeywords, ", "))
		b.WriteString("List matched keywords in keyword_matches.\n")
	}
	return b.String()
}

// validatePrompt renders the quality-judgement instruction for a generated
// question.
func validatePrompt(in domain.ValidateQuestionInput) string {
	var b strings.Builder
	b.WriteString("You are reviewing a generated exam question for quality. Respond with a single JSON object:\n")
	b.WriteString(`{"is_valid": bool, "score": float 0-1, "rule_score": float 0-1, "final_score": float 0-1, "feedback": string, "issues": [string]}`)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Question type: %s\n", in.Question.Type)
	fmt.Fprintf(&b, "Difficulty: %d\n", in.Question.Difficulty)
	fmt.Fprintf(&b, "Stem: %s\n", in.Question.Stem)
	if len(in.Question.Choices) > 0 {
		fmt.Fprintf(&b, "Choices: %s\n", strings.Join(in.Question.Choices, " | "))
		fmt.Fprintf(&b, "Correct key: %s\n", in.Question.CorrectKey)
	}
	if len(in.Question.CorrectKeywords) > 0 {
		fmt.Fprintf(&b, "Expected keywords: %s\n", strings.Join(in.Question.CorrectKeywords, ", "))
	}
	b.WriteString("Judge clarity, correctness, and difficulty fit.\n")
	return b.String()
}
