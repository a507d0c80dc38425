// Package evaluate runs the four independent quality evaluators over a
// content artifact. Each evaluator consults an external scoring oracle and
// appends a normalized, immutable result to the evaluation context. Oracle
// failures are cycle-fatal here: a quality decision cannot be made without
// its score.
package evaluate

import (
	"context"
	"fmt"
)

// AuthenticityOracle scores how human-like a piece of content reads.
// Scores are on the 0-1 scale everywhere in this system; implementations
// backed by 0-100 services must normalize at the boundary.
type AuthenticityOracle interface {
	Score(ctx context.Context, body string) (float64, error)
}

// RealismOracle judges voice and tonal realism for a subject and component,
// returning a 0-10 score plus qualitative detail the pattern recorder needs.
type RealismOracle interface {
	Evaluate(ctx context.Context, body, subject, componentType string) (RealismResult, error)
}

// ReadabilityValidator reports a boolean readability verdict. The upstream
// policy does not expose a continuous readability score.
type ReadabilityValidator interface {
	Validate(ctx context.Context, body string) (bool, error)
}

// SubjectiveValidator detects subjective marketing language. Any violation
// fails the gate - this is a zero-tolerance policy, not a threshold.
type SubjectiveValidator interface {
	Validate(ctx context.Context, body, componentType string) (SubjectiveResult, error)
}

// AuthenticityResult is the AI-authenticity evaluator's output.
// Score is 0-1; higher is more human-like.
type AuthenticityResult struct {
	Score float64 `json:"score"`
}

// RealismResult is the realism/voice evaluator's output. Score is 0-10.
// AITendencies lists qualitative patterns the oracle flagged (e.g.,
// "hedging", "formulaic_transitions"); the pattern recorder persists them.
type RealismResult struct {
	Score             float64  `json:"score"`
	VoiceAuthenticity float64  `json:"voice_authenticity"`
	TonalConsistency  float64  `json:"tonal_consistency"`
	AITendencies      []string `json:"ai_tendencies"`
}

// ReadabilityResult is the readability checker's output.
type ReadabilityResult struct {
	Passed bool `json:"passed"`
}

// Violation is one offending subjective-language span.
type Violation struct {
	Span     string `json:"span"`     // The offending text
	Position int    `json:"position"` // Byte offset of the span in the body
}

// SubjectiveResult is the subjective-language checker's output.
type SubjectiveResult struct {
	Violations []Violation `json:"violations"`
}

// Count returns the number of violations.
func (r SubjectiveResult) Count() int { return len(r.Violations) }

// OracleError wraps a failure from an external scoring oracle. Inside an
// evaluator this is cycle-fatal; adjustment strategies treat the identical
// failure mode as recoverable instead.
type OracleError struct {
	Evaluator string // Which evaluator's oracle failed
	Err       error
}

func (e *OracleError) Error() string {
	return fmt.Sprintf("%s oracle failed: %v", e.Evaluator, e.Err)
}

func (e *OracleError) Unwrap() error { return e.Err }
