// Package classify provides text classification for free-text onboarding
// answers: correcting spelling and standardizing industry, location, and
// role values.
//
// The remote OpenAI-backed client carries a local keyword fast path that
// short-circuits the call for unambiguous inputs, and degrades to the local
// classifier on any remote failure. Classification is never fatal to the
// onboarding flow.
package classify

import "context"

// Field identifies which onboarding answer is being classified.
type Field string

const (
	FieldIndustry Field = "industry"
	FieldLocation Field = "location"
	FieldRole     Field = "role"
)

// Result is a standardized value with a confidence estimate and alternative
// readings.
type Result struct {
	Value        string   `json:"value"`
	Confidence   float64  `json:"confidence"`
	Alternatives []string `json:"alternatives,omitempty"`
}

// Classifier standardizes a free-text answer for a field. Implementations
// must degrade rather than fail: a low-confidence local result is always
// preferable to an error.
type Classifier interface {
	Classify(ctx context.Context, field Field, text string) (Result, error)
}
