package domain

import (
	"github.com/go-playground/validator/v10"
)

// validate is the package-level validator instance used for struct validation.
var validate = validator.New(validator.WithRequiredStructEnabled())

// cloneStringSlice creates a copy of a string slice to prevent aliasing.
// Returns an empty non-nil slice for nil input so JSON encodes [] rather
// than null.
func cloneStringSlice(s []string) []string {
	out := make([]string, len(s))
	copy(out, s)
	return out
}
