package domain

import "errors"

// ErrInvalidScoreRequest indicates a scoring request that failed structural or
// type-conditional validation. Requests carrying it are never retried.
var ErrInvalidScoreRequest = errors.New("invalid score request")

// ErrInvalidQuestion indicates a generated question that failed validation
// before save.
var ErrInvalidQuestion = errors.New("invalid question")

// ErrUnknownQuestionType indicates a question type outside the closed set.
var ErrUnknownQuestionType = errors.New("unknown question type")

// ErrInvalidProfile indicates a user profile that failed validation.
var ErrInvalidProfile = errors.New("invalid user profile")

// ErrInvalidKeywordQuery indicates an out-of-range difficulty or unknown
// category on a keyword lookup.
var ErrInvalidKeywordQuery = errors.New("invalid keyword query")
