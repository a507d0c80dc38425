package adjust

import (
	"context"

	"github.com/pagewright/burnish/internal/evaluate"
	"github.com/pagewright/burnish/internal/pipeline"
)

// RealismStrategy proposes corrections only when the realism score is below
// the threshold. Content that already passes gets an empty set without any
// computation - correcting it would overcorrect.
type RealismStrategy struct {
	threshold float64
}

// NewRealismStrategy creates the realism adjuster with the given activation
// threshold on the 0-10 scale (the same threshold the realism gate applies).
func NewRealismStrategy(threshold float64) *RealismStrategy {
	return &RealismStrategy{threshold: threshold}
}

// Name implements Strategy.
func (s *RealismStrategy) Name() string { return "realism" }

// Propose implements Strategy. Active only below the threshold: the proposed
// voice emphasis scales with how far realism fell short, and each flagged AI
// tendency contributes its declared counter-parameter.
func (s *RealismStrategy) Propose(_ context.Context, ec *pipeline.Context) (Set, error) {
	result, err := pipeline.RequireAs[evaluate.RealismResult](ec, s.Name(), pipeline.KeyRealism)
	if err != nil {
		return nil, err
	}

	if result.Score >= s.threshold {
		return Set{}, nil
	}

	deficit := s.threshold - result.Score

	voiceEmphasis := 0.4 + deficit*0.1
	if voiceEmphasis > 1.0 {
		voiceEmphasis = 1.0
	}

	set := Set{"voice_emphasis": voiceEmphasis}
	for _, tendency := range result.AITendencies {
		if override, known := tendencyOverrides[tendency]; known {
			set[override.Param] = override.Value
		}
	}
	return set, nil
}
