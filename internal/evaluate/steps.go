package evaluate

import (
	"context"
	"fmt"

	"github.com/pagewright/burnish/internal/content"
	"github.com/pagewright/burnish/internal/pipeline"
)

// artifactFor fetches the artifact under evaluation for a step.
func artifactFor(step string, ec *pipeline.Context) (*content.Artifact, error) {
	return pipeline.RequireAs[*content.Artifact](ec, step, pipeline.KeyArtifact)
}

// AuthenticityStep scores human-likeness via the AI-authenticity oracle.
type AuthenticityStep struct {
	oracle AuthenticityOracle
}

// NewAuthenticityStep creates the authenticity evaluator step.
func NewAuthenticityStep(oracle AuthenticityOracle) *AuthenticityStep {
	return &AuthenticityStep{oracle: oracle}
}

func (s *AuthenticityStep) Name() string           { return "authenticity-evaluator" }
func (s *AuthenticityStep) RequiredKeys() []string { return []string{pipeline.KeyArtifact} }

func (s *AuthenticityStep) Execute(ctx context.Context, ec *pipeline.Context) error {
	artifact, err := artifactFor(s.Name(), ec)
	if err != nil {
		return err
	}

	score, err := s.oracle.Score(ctx, artifact.Body)
	if err != nil {
		return &OracleError{Evaluator: "authenticity", Err: err}
	}
	if score < 0 || score > 1 {
		return fmt.Errorf("authenticity oracle returned %v, outside the 0-1 scale", score)
	}

	return ec.Set(pipeline.KeyAuthenticity, AuthenticityResult{Score: score})
}

// RealismStep judges voice and tonal realism via the realism oracle.
type RealismStep struct {
	oracle RealismOracle
}

// NewRealismStep creates the realism evaluator step.
func NewRealismStep(oracle RealismOracle) *RealismStep {
	return &RealismStep{oracle: oracle}
}

func (s *RealismStep) Name() string           { return "realism-evaluator" }
func (s *RealismStep) RequiredKeys() []string { return []string{pipeline.KeyArtifact} }

func (s *RealismStep) Execute(ctx context.Context, ec *pipeline.Context) error {
	artifact, err := artifactFor(s.Name(), ec)
	if err != nil {
		return err
	}

	result, err := s.oracle.Evaluate(ctx, artifact.Body, artifact.Subject, artifact.ComponentType)
	if err != nil {
		return &OracleError{Evaluator: "realism", Err: err}
	}
	if result.Score < 0 || result.Score > 10 {
		return fmt.Errorf("realism oracle returned %v, outside the 0-10 scale", result.Score)
	}
	if result.AITendencies == nil {
		result.AITendencies = []string{}
	}

	return ec.Set(pipeline.KeyRealism, result)
}

// ReadabilityStep runs the boolean readability check.
type ReadabilityStep struct {
	validator ReadabilityValidator
}

// NewReadabilityStep creates the readability evaluator step.
func NewReadabilityStep(validator ReadabilityValidator) *ReadabilityStep {
	return &ReadabilityStep{validator: validator}
}

func (s *ReadabilityStep) Name() string           { return "readability-evaluator" }
func (s *ReadabilityStep) RequiredKeys() []string { return []string{pipeline.KeyArtifact} }

func (s *ReadabilityStep) Execute(ctx context.Context, ec *pipeline.Context) error {
	artifact, err := artifactFor(s.Name(), ec)
	if err != nil {
		return err
	}

	passed, err := s.validator.Validate(ctx, artifact.Body)
	if err != nil {
		return &OracleError{Evaluator: "readability", Err: err}
	}

	return ec.Set(pipeline.KeyReadability, ReadabilityResult{Passed: passed})
}

// SubjectiveStep runs the subjective-language check.
type SubjectiveStep struct {
	validator SubjectiveValidator
}

// NewSubjectiveStep creates the subjective-language evaluator step.
func NewSubjectiveStep(validator SubjectiveValidator) *SubjectiveStep {
	return &SubjectiveStep{validator: validator}
}

func (s *SubjectiveStep) Name() string           { return "subjective-evaluator" }
func (s *SubjectiveStep) RequiredKeys() []string { return []string{pipeline.KeyArtifact} }

func (s *SubjectiveStep) Execute(ctx context.Context, ec *pipeline.Context) error {
	artifact, err := artifactFor(s.Name(), ec)
	if err != nil {
		return err
	}

	result, err := s.validator.Validate(ctx, artifact.Body, artifact.ComponentType)
	if err != nil {
		return &OracleError{Evaluator: "subjective", Err: err}
	}
	if result.Violations == nil {
		result.Violations = []Violation{}
	}

	return ec.Set(pipeline.KeySubjective, result)
}
