// Package engine wires the pipeline stages into evaluation cycles and runs
// the bounded evaluate/adjust/regenerate loop for one content item.
package engine

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/pagewright/burnish/internal/adjust"
	"github.com/pagewright/burnish/internal/content"
	"github.com/pagewright/burnish/internal/evaluate"
	"github.com/pagewright/burnish/internal/gate"
	"github.com/pagewright/burnish/internal/pipeline"
	"github.com/pagewright/burnish/internal/record"
)

// Generator is the external content-generation engine. The overrides map is
// superset-tolerant on the generator side: unknown keys are ignored, not an
// error, so adjustment strategies can evolve independently of the generator.
// Returns the generated body plus the effective parameters used.
type Generator interface {
	Generate(ctx context.Context, subject, componentType string, overrides map[string]float64) (body string, params map[string]float64, err error)
}

// Oracles bundles the external scoring services the evaluators consume.
type Oracles struct {
	Authenticity evaluate.AuthenticityOracle
	Realism      evaluate.RealismOracle
	Readability  evaluate.ReadabilityValidator
	Subjective   evaluate.SubjectiveValidator
}

// PatternReads is the read-side of the pattern store the adjustment
// strategies consume. Satisfied by *patternstore.Client.
type PatternReads interface {
	adjust.SweetSpotSource
	adjust.TendencySource
}

// Policy holds the quality thresholds and loop budget for an engine.
type Policy struct {
	RealismThreshold   float64 // inclusive minimum realism score (0-10)
	AuthenticityWeight float64 // composite score weight for authenticity
	RealismWeight      float64 // composite score weight for normalized realism
	MaxAttempts        int     // total cycles per item, including the first (termination policy)
}

// DefaultPolicy returns the standard thresholds and a three-attempt budget.
func DefaultPolicy() Policy {
	return Policy{
		RealismThreshold:   gate.DefaultRealismThreshold,
		AuthenticityWeight: gate.DefaultAuthenticityWeight,
		RealismWeight:      gate.DefaultRealismWeight,
		MaxAttempts:        3,
	}
}

// CycleResult is the outcome of a single evaluation cycle.
type CycleResult struct {
	CycleID        string            `json:"cycle_id"`
	Accepted       bool              `json:"accepted"`
	CompositeScore float64           `json:"composite_score"`
	Gates          []gate.Result     `json:"gates"`
	FailedGates    []string          `json:"failed_gates"`
	Adjustments    adjust.Set        `json:"adjustments_applied,omitempty"`
	Artifact       *content.Artifact `json:"artifact"`
}

// RunResult is the outcome of the full retry loop for one content item.
type RunResult struct {
	Accepted bool           `json:"accepted"`
	Attempts int            `json:"attempts"`
	Final    *CycleResult   `json:"final"`
	Cycles   []*CycleResult `json:"cycles"`
}

// Engine runs evaluation cycles. It owns no cross-cycle state itself - the
// pattern store it is constructed with is the only state that outlives a
// cycle, and only the recorder writes to it.
type Engine struct {
	policy     Policy
	oracles    Oracles
	generator  Generator
	scorer     *gate.ScorerStep
	strategies []adjust.Strategy
	recorder   *record.Recorder
}

// New creates a fully wired engine. store serves the sweet-spot and pattern
// strategies read-only; writes go exclusively through the recorder built on
// writer. advisor maps authenticity scores to temperature recommendations -
// pass adjust.BandedAdvisor{} for the default banding.
func New(policy Policy, oracles Oracles, generator Generator, store PatternReads, writer record.OutcomeWriter, advisor adjust.TemperatureAdvisor) (*Engine, error) {
	if policy.MaxAttempts < 1 {
		return nil, fmt.Errorf("max attempts must be >= 1, got %d", policy.MaxAttempts)
	}
	if generator == nil {
		return nil, fmt.Errorf("generator is required")
	}

	scorer, err := gate.NewScorerStep(policy.AuthenticityWeight, policy.RealismWeight)
	if err != nil {
		return nil, err
	}

	// Fixed priority order: sweet-spot, temperature, realism, pattern.
	// ProposeAll merges last-wins, so this order is load-bearing.
	strategies := []adjust.Strategy{
		adjust.NewSweetSpotStrategy(store),
		adjust.NewTemperatureStrategy(advisor),
		adjust.NewRealismStrategy(policy.RealismThreshold),
		adjust.NewPatternStrategy(store),
	}

	return &Engine{
		policy:     policy,
		oracles:    oracles,
		generator:  generator,
		scorer:     scorer,
		strategies: strategies,
		recorder:   record.NewRecorder(writer),
	}, nil
}

// RunCycle executes one full evaluation cycle over an artifact: acquisition,
// concurrent evaluation, gating, and scoring. A passing composite gate
// records an accepted outcome; a failing one additionally runs the
// adjustment strategies and records the rejection. RunCycle never
// regenerates - that belongs to the caller-owned loop in Run.
func (e *Engine) RunCycle(ctx context.Context, artifact *content.Artifact) (*CycleResult, error) {
	ec := pipeline.NewContext()

	if err := pipeline.Run(ctx, content.NewAcquisitionStep(artifact), ec); err != nil {
		return nil, err
	}

	evaluators := []pipeline.Step{
		evaluate.NewAuthenticityStep(e.oracles.Authenticity),
		evaluate.NewRealismStep(e.oracles.Realism),
		evaluate.NewReadabilityStep(e.oracles.Readability),
		evaluate.NewSubjectiveStep(e.oracles.Subjective),
	}
	if err := evaluate.RunAll(ctx, ec, evaluators...); err != nil {
		return nil, err
	}

	gates := []pipeline.Step{
		gate.NewAuthenticityGate(),
		gate.NewRealismGate(e.policy.RealismThreshold),
		gate.NewReadabilityGate(),
		gate.NewSubjectiveGate(),
		gate.NewCompositeGate(),
		e.scorer,
	}
	for _, step := range gates {
		if err := pipeline.Run(ctx, step, ec); err != nil {
			return nil, err
		}
	}

	composite, err := pipeline.RequireAs[gate.CompositeResult](ec, "engine", pipeline.KeyGateComposite)
	if err != nil {
		return nil, err
	}
	score, err := pipeline.RequireAs[float64](ec, "engine", pipeline.KeyCompositeScore)
	if err != nil {
		return nil, err
	}
	authenticity, err := pipeline.RequireAs[evaluate.AuthenticityResult](ec, "engine", pipeline.KeyAuthenticity)
	if err != nil {
		return nil, err
	}
	realism, err := pipeline.RequireAs[evaluate.RealismResult](ec, "engine", pipeline.KeyRealism)
	if err != nil {
		return nil, err
	}

	result := &CycleResult{
		CycleID:        uuid.New().String(),
		Accepted:       composite.Passed,
		CompositeScore: score,
		Gates:          composite.Gates,
		FailedGates:    composite.FailedGates,
		Artifact:       artifact,
	}

	if composite.Passed {
		log.Printf("[Engine] %s/%s v%d accepted (composite=%.3f)",
			artifact.Subject, artifact.ComponentType, artifact.Version, score)
		e.recorder.Record(ctx, artifact, realism, authenticity.Score, score, true)
		return result, nil
	}

	log.Printf("[Engine] %s/%s v%d rejected (composite=%.3f, failed=%v)",
		artifact.Subject, artifact.ComponentType, artifact.Version, score, composite.FailedGates)

	adjustments := adjust.ProposeAll(ctx, ec, e.strategies...)
	if err := ec.Set(pipeline.KeyAdjustments, adjustments); err != nil {
		return nil, err
	}
	result.Adjustments = adjustments

	e.recorder.Record(ctx, artifact, realism, authenticity.Score, score, false)

	return result, nil
}

// Run drives the retry loop for one content item: evaluate, and on rejection
// regenerate with the merged adjustments and re-enter evaluation, until
// acceptance or the attempt budget is exhausted. Budget exhaustion is not an
// error - the caller gets Accepted == false and decides what to do with the
// item. A regeneration failure is an error: the caller's batch loop decides
// whether to retry, skip, or abort.
func (e *Engine) Run(ctx context.Context, subject, componentType, body string) (*RunResult, error) {
	artifact := content.New(subject, componentType, body, nil)
	run := &RunResult{}

	for attempt := 1; attempt <= e.policy.MaxAttempts; attempt++ {
		run.Attempts = attempt

		cycle, err := e.RunCycle(ctx, artifact)
		if err != nil {
			return nil, fmt.Errorf("cycle %d failed: %w", attempt, err)
		}
		run.Cycles = append(run.Cycles, cycle)
		run.Final = cycle

		if cycle.Accepted {
			run.Accepted = true
			return run, nil
		}

		if attempt == e.policy.MaxAttempts {
			log.Printf("[Engine] %s/%s: attempt budget (%d) exhausted, giving up",
				subject, componentType, e.policy.MaxAttempts)
			break
		}

		newBody, params, err := e.generator.Generate(ctx, subject, componentType, cycle.Adjustments)
		if err != nil {
			return nil, fmt.Errorf("regeneration failed after attempt %d: %w", attempt, err)
		}
		artifact = artifact.NextVersion(newBody, params)

		log.Printf("[Engine] %s/%s regenerated as v%d with %d adjustments",
			subject, componentType, artifact.Version, len(cycle.Adjustments))
	}

	return run, nil
}
