package generation

import "github.com/examkit/examkit/internal/domain"

// defaultKeywordSets is the built-in vocabulary used when the keyword store
// is unreachable. Deliberately small and generic; real vocabularies live in
// the store.
var defaultKeywordSets = map[string][]string{
	domain.CategoryTechnical: {"protocol", "algorithm", "system", "network", "database"},
	domain.CategoryBusiness:  {"strategy", "revenue", "market", "customer", "process"},
	domain.CategoryGeneral:   {"concept", "definition", "example", "comparison", "cause"},
}

// defaultKeywords returns the fallback vocabulary for one cell.
func defaultKeywords(difficulty int, category string) *domain.DifficultyKeywords {
	return &domain.DifficultyKeywords{
		Difficulty: difficulty,
		Category:   category,
		Keywords:   defaultKeywordSets[category],
	}
}
