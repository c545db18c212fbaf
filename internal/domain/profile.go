package domain

import "fmt"

// Keyword category names accepted by keyword lookups.
const (
	CategoryTechnical = "technical"
	CategoryBusiness  = "business"
	CategoryGeneral   = "general"
)

// ValidCategory reports whether the category belongs to the closed set.
func ValidCategory(c string) bool {
	switch c {
	case CategoryTechnical, CategoryBusiness, CategoryGeneral:
		return true
	default:
		return false
	}
}

// UserProfile describes a learner's level and interests, used to steer
// question generation. A zero-valued beginner profile is the documented
// fallback when the profile store is unavailable.
type UserProfile struct {
	UserID         string   `json:"user_id" validate:"required"`
	Level          int      `json:"level" validate:"min=1,max=10"`
	Interests      []string `json:"interests"`
	CompletedCount int      `json:"completed_count" validate:"min=0"`
	CorrectRate    float64  `json:"correct_rate" validate:"min=0,max=1"`
}

// Validate checks profile bounds. Failures wrap ErrInvalidProfile.
func (p *UserProfile) Validate() error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidProfile, err)
	}
	return nil
}

// BeginnerProfile returns the fallback profile used when a lookup fails after
// retries. Level 1, no history.
func BeginnerProfile(userID string) *UserProfile {
	return &UserProfile{
		UserID:    userID,
		Level:     1,
		Interests: []string{},
	}
}

// QuestionTemplate is a reusable pattern for generating questions of one type
// at one difficulty band.
type QuestionTemplate struct {
	ID         string       `json:"id" validate:"required"`
	Type       QuestionType `json:"type" validate:"required"`
	Category   string       `json:"category" validate:"required"`
	Difficulty int          `json:"difficulty" validate:"min=1,max=10"`
	Pattern    string       `json:"pattern" validate:"required"`
}

// DifficultyKeywords is the keyword vocabulary for one (difficulty, category)
// cell, used to seed generation prompts.
type DifficultyKeywords struct {
	Difficulty int      `json:"difficulty"`
	Category   string   `json:"category"`
	Keywords   []string `json:"keywords"`
}

// ValidateKeywordQuery checks a keyword lookup's coordinates. Failures wrap
// ErrInvalidKeywordQuery.
func ValidateKeywordQuery(difficulty int, category string) error {
	if difficulty < 1 || difficulty > 10 {
		return fmt.Errorf("%w: difficulty %d outside [1, 10]", ErrInvalidKeywordQuery, difficulty)
	}
	if !ValidCategory(category) {
		return fmt.Errorf("%w: unknown category %q", ErrInvalidKeywordQuery, category)
	}
	return nil
}
