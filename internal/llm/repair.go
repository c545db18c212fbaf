package llm

import (
	"regexp"
	"strings"
)

var (
	trailingCommaPattern = regexp.MustCompile(`,\s*([}\]])`)
	unquotedKeyPattern   = regexp.MustCompile(`(\{|,)\s*([a-zA-Z_][a-zA-Z0-9_]*)\s*:`)

	fencePatterns = []*regexp.Regexp{
		regexp.MustCompile("(?s)```json\\s*\\n(.*?)\\n```"),
		regexp.MustCompile("(?s)```\\s*\\n(.*?)\\n```"),
		regexp.MustCompile("`(\\{.*?\\})`"),
	}
)

// repairJSON fixes common JSON syntax errors in tool responses: trailing
// commas, unbalanced braces, unquoted keys, and single-quoted documents.
func repairJSON(content string) string {
	repaired := trailingCommaPattern.ReplaceAllString(content, "$1")

	openBraces := strings.Count(repaired, "{") - strings.Count(repaired, "}")
	openBrackets := strings.Count(repaired, "[") - strings.Count(repaired, "]")
	for i := 0; i < openBraces; i++ {
		repaired += "}"
	}
	for i := 0; i < openBrackets; i++ {
		repaired += "]"
	}

	repaired = unquotedKeyPattern.ReplaceAllString(repaired, `$1"$2":`)

	// Single-quoted documents only; mixed quoting is left alone because
	// apostrophes inside double-quoted strings are legitimate.
	if !strings.Contains(repaired, `"`) && strings.Contains(repaired, `'`) {
		repaired = strings.ReplaceAll(repaired, `'`, `"`)
	}

	repaired = strings.TrimPrefix(repaired, "\ufeff")
	return strings.TrimSpace(repaired)
}

// extractJSON pulls a JSON object out of markdown fences or surrounding
// prose. Falls back to the outermost brace span, then to the input unchanged.
func extractJSON(content string) string {
	for _, pattern := range fencePatterns {
		if m := pattern.FindStringSubmatch(content); len(m) > 1 {
			return m[1]
		}
	}

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start != -1 && end > start {
		return content[start : end+1]
	}
	return content
}
