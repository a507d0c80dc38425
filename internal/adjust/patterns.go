package adjust

import (
	"context"
	"fmt"

	"github.com/pagewright/burnish/internal/content"
	"github.com/pagewright/burnish/internal/pipeline"
)

// minTendencySamples is how often a tendency must have been flagged on
// rejected content before the pattern adjuster acts on it. Below this the
// signal is noise.
const minTendencySamples = 5

// TendencySource is the read-side of the pattern store the pattern adjuster
// needs. Satisfied by *patternstore.Client.
type TendencySource interface {
	TendencyCounts(ctx context.Context, componentType string) (map[string]int64, error)
}

// PatternStrategy proposes component-type-specific adjustments derived from
// accumulated rejection history: tendencies the realism oracle keeps flagging
// for this component get their declared counter-parameter applied
// preemptively. These are the most authoritative adjustments in the merge
// order because they rest on repeated evidence rather than a single cycle.
type PatternStrategy struct {
	source TendencySource
}

// NewPatternStrategy creates the pattern adjuster over a pattern store.
func NewPatternStrategy(source TendencySource) *PatternStrategy {
	return &PatternStrategy{source: source}
}

// Name implements Strategy.
func (s *PatternStrategy) Name() string { return "pattern" }

// Propose implements Strategy.
func (s *PatternStrategy) Propose(ctx context.Context, ec *pipeline.Context) (Set, error) {
	artifact, err := pipeline.RequireAs[*content.Artifact](ec, s.Name(), pipeline.KeyArtifact)
	if err != nil {
		return nil, err
	}

	counts, err := s.source.TendencyCounts(ctx, artifact.ComponentType)
	if err != nil {
		return nil, fmt.Errorf("tendency query failed: %w", err)
	}

	set := Set{}
	for tendency, count := range counts {
		if count < minTendencySamples {
			continue
		}
		if override, known := tendencyOverrides[tendency]; known {
			set[override.Param] = override.Value
		}
	}
	return set, nil
}
