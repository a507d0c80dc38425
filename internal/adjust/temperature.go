package adjust

import (
	"context"

	"github.com/pagewright/burnish/internal/evaluate"
	"github.com/pagewright/burnish/internal/pipeline"
)

// TemperatureAdvisor maps an authenticity score (0-1) to a recommended
// generation temperature. ok is false when no recommendation applies.
type TemperatureAdvisor interface {
	Recommend(authenticity float64) (temperature float64, ok bool)
}

// BandedAdvisor is the default advisor: the less human the content reads,
// the hotter the recommended temperature, on the theory that low-temperature
// sampling produces the flat, predictable prose detectors flag.
type BandedAdvisor struct{}

// Recommend implements TemperatureAdvisor.
func (BandedAdvisor) Recommend(authenticity float64) (float64, bool) {
	switch {
	case authenticity < 0.5:
		return 1.0, true
	case authenticity < 0.7:
		return 0.9, true
	case authenticity < 0.85:
		return 0.82, true
	default:
		return 0, false // already reads human enough; leave temperature alone
	}
}

// TemperatureStrategy derives a temperature override from the AI-authenticity
// score via an injected advisor.
type TemperatureStrategy struct {
	advisor TemperatureAdvisor
}

// NewTemperatureStrategy creates the temperature calculator.
func NewTemperatureStrategy(advisor TemperatureAdvisor) *TemperatureStrategy {
	return &TemperatureStrategy{advisor: advisor}
}

// Name implements Strategy.
func (s *TemperatureStrategy) Name() string { return "temperature" }

// Propose implements Strategy. Returns an empty set when the advisor has no
// recommendation.
func (s *TemperatureStrategy) Propose(_ context.Context, ec *pipeline.Context) (Set, error) {
	result, err := pipeline.RequireAs[evaluate.AuthenticityResult](ec, s.Name(), pipeline.KeyAuthenticity)
	if err != nil {
		return nil, err
	}

	temperature, ok := s.advisor.Recommend(result.Score)
	if !ok {
		return Set{}, nil
	}
	return Set{"temperature": temperature}, nil
}
