package gate

import (
	"context"
	"fmt"

	"github.com/pagewright/burnish/internal/evaluate"
	"github.com/pagewright/burnish/internal/pipeline"
)

// Default composite score weights.
const (
	DefaultAuthenticityWeight = 0.6
	DefaultRealismWeight      = 0.4
)

// ScorerStep combines the authenticity and realism results into one weighted
// quality score for reporting and ranking, independent of the boolean gates:
//
//	score = authenticity*authWeight + (realism/10)*realismWeight
//
// Both inputs are on the 0-1 scale at the point of combination - authenticity
// already is, and realism is normalized from its 0-10 scale here. The oracle
// boundary guarantees no 0-100 authenticity score ever reaches this formula.
type ScorerStep struct {
	authWeight    float64
	realismWeight float64
}

// NewScorerStep creates a composite scorer with the given weights.
// The weights must sum to 1.
func NewScorerStep(authWeight, realismWeight float64) (*ScorerStep, error) {
	if diff := authWeight + realismWeight - 1; diff > 1e-9 || diff < -1e-9 {
		return nil, fmt.Errorf("composite score weights must sum to 1, got %v + %v", authWeight, realismWeight)
	}
	return &ScorerStep{authWeight: authWeight, realismWeight: realismWeight}, nil
}

func (s *ScorerStep) Name() string { return "composite-scorer" }

func (s *ScorerStep) RequiredKeys() []string {
	return []string{pipeline.KeyAuthenticity, pipeline.KeyRealism}
}

func (s *ScorerStep) Execute(_ context.Context, ec *pipeline.Context) error {
	authenticity, err := pipeline.RequireAs[evaluate.AuthenticityResult](ec, s.Name(), pipeline.KeyAuthenticity)
	if err != nil {
		return err
	}

	realism, err := pipeline.RequireAs[evaluate.RealismResult](ec, s.Name(), pipeline.KeyRealism)
	if err != nil {
		return err
	}

	score := authenticity.Score*s.authWeight + (realism.Score/10)*s.realismWeight
	return ec.Set(pipeline.KeyCompositeScore, score)
}
