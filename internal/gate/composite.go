package gate

import (
	"context"

	"github.com/pagewright/burnish/internal/pipeline"
)

// CompositeResult aggregates the four individual gate decisions. FailedGates
// lists the names of the gates that failed, in gate-declaration order, so
// downstream adjustment selection can target fixes narrowly.
type CompositeResult struct {
	Passed      bool     `json:"passed"`
	FailedGates []string `json:"failed_gates"`
	Gates       []Result `json:"gates"`
}

// compositeInputs pairs each required gate key with its order in the output.
var compositeInputs = []string{
	pipeline.KeyGateAuthenticity,
	pipeline.KeyGateRealism,
	pipeline.KeyGateReadability,
	pipeline.KeyGateSubjective,
}

// CompositeGate requires all four named gate results to be present and passes
// iff every one of them passed.
type CompositeGate struct{}

// NewCompositeGate creates the composite gate.
func NewCompositeGate() *CompositeGate { return &CompositeGate{} }

func (g *CompositeGate) Name() string           { return "composite-gate" }
func (g *CompositeGate) RequiredKeys() []string { return compositeInputs }

func (g *CompositeGate) Execute(_ context.Context, ec *pipeline.Context) error {
	composite := CompositeResult{
		Passed:      true,
		FailedGates: []string{},
		Gates:       make([]Result, 0, len(compositeInputs)),
	}

	for _, key := range compositeInputs {
		result, err := pipeline.RequireAs[Result](ec, g.Name(), key)
		if err != nil {
			return err
		}

		composite.Gates = append(composite.Gates, result)
		if !result.Passed {
			composite.Passed = false
			composite.FailedGates = append(composite.FailedGates, result.Name)
		}
	}

	return ec.Set(pipeline.KeyGateComposite, composite)
}
