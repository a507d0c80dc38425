// Package gate turns evaluator results into boolean pass/fail decisions and
// aggregates them into the composite verdict that drives the adjust/regenerate
// loop. Gates never call external services - they only compare results already
// in the evaluation context against documented policies.
package gate

import (
	"context"

	"github.com/pagewright/burnish/internal/evaluate"
	"github.com/pagewright/burnish/internal/pipeline"
)

// Gate names, also the members of a composite result's FailedGates list.
const (
	NameAuthenticity = "authenticity"
	NameRealism      = "realism"
	NameReadability  = "readability"
	NameSubjective   = "subjective"
)

// DefaultRealismThreshold is the inclusive minimum realism score (0-10 scale)
// for the realism gate to pass.
const DefaultRealismThreshold = 7.0

// Result is one gate's decision: the metric value it examined, the threshold
// or policy it applied, and the verdict.
type Result struct {
	Name      string  `json:"name"`
	Passed    bool    `json:"passed"`
	Value     float64 `json:"metric_value"`
	Threshold float64 `json:"threshold"`
}

// AuthenticityGate records the authenticity score for reporting. It has no
// failing policy - authenticity feeds the composite scorer and the
// temperature calculator, not the accept/reject decision - so it always
// passes. It exists so the composite gate sees all four named gate results.
type AuthenticityGate struct{}

// NewAuthenticityGate creates the advisory authenticity gate.
func NewAuthenticityGate() *AuthenticityGate { return &AuthenticityGate{} }

func (g *AuthenticityGate) Name() string           { return "authenticity-gate" }
func (g *AuthenticityGate) RequiredKeys() []string { return []string{pipeline.KeyAuthenticity} }

func (g *AuthenticityGate) Execute(_ context.Context, ec *pipeline.Context) error {
	result, err := pipeline.RequireAs[evaluate.AuthenticityResult](ec, g.Name(), pipeline.KeyAuthenticity)
	if err != nil {
		return err
	}

	return ec.Set(pipeline.KeyGateAuthenticity, Result{
		Name:   NameAuthenticity,
		Passed: true, // advisory: no standalone authenticity policy
		Value:  result.Score,
	})
}

// RealismGate passes iff the realism score meets the threshold (inclusive).
type RealismGate struct {
	threshold float64
}

// NewRealismGate creates a realism gate with the given inclusive threshold on
// the 0-10 scale.
func NewRealismGate(threshold float64) *RealismGate {
	return &RealismGate{threshold: threshold}
}

func (g *RealismGate) Name() string           { return "realism-gate" }
func (g *RealismGate) RequiredKeys() []string { return []string{pipeline.KeyRealism} }

func (g *RealismGate) Execute(_ context.Context, ec *pipeline.Context) error {
	result, err := pipeline.RequireAs[evaluate.RealismResult](ec, g.Name(), pipeline.KeyRealism)
	if err != nil {
		return err
	}

	return ec.Set(pipeline.KeyGateRealism, Result{
		Name:      NameRealism,
		Passed:    result.Score >= g.threshold,
		Value:     result.Score,
		Threshold: g.threshold,
	})
}

// ReadabilityGate passes iff the readability evaluator reported true.
type ReadabilityGate struct{}

// NewReadabilityGate creates the readability gate.
func NewReadabilityGate() *ReadabilityGate { return &ReadabilityGate{} }

func (g *ReadabilityGate) Name() string           { return "readability-gate" }
func (g *ReadabilityGate) RequiredKeys() []string { return []string{pipeline.KeyReadability} }

func (g *ReadabilityGate) Execute(_ context.Context, ec *pipeline.Context) error {
	result, err := pipeline.RequireAs[evaluate.ReadabilityResult](ec, g.Name(), pipeline.KeyReadability)
	if err != nil {
		return err
	}

	value := 0.0
	if result.Passed {
		value = 1.0
	}

	return ec.Set(pipeline.KeyGateReadability, Result{
		Name:      NameReadability,
		Passed:    result.Passed,
		Value:     value,
		Threshold: 1.0,
	})
}

// SubjectiveGate passes only at zero violations. This is a strict
// no-tolerance policy, not a threshold gate.
type SubjectiveGate struct{}

// NewSubjectiveGate creates the subjective-language gate.
func NewSubjectiveGate() *SubjectiveGate { return &SubjectiveGate{} }

func (g *SubjectiveGate) Name() string           { return "subjective-gate" }
func (g *SubjectiveGate) RequiredKeys() []string { return []string{pipeline.KeySubjective} }

func (g *SubjectiveGate) Execute(_ context.Context, ec *pipeline.Context) error {
	result, err := pipeline.RequireAs[evaluate.SubjectiveResult](ec, g.Name(), pipeline.KeySubjective)
	if err != nil {
		return err
	}

	return ec.Set(pipeline.KeyGateSubjective, Result{
		Name:      NameSubjective,
		Passed:    result.Count() == 0,
		Value:     float64(result.Count()),
		Threshold: 0,
	})
}
