package adjust

import (
	"context"
	"fmt"

	"github.com/pagewright/burnish/internal/content"
	"github.com/pagewright/burnish/internal/pipeline"
	"github.com/pagewright/burnish/pkg/patternstore"
)

// SweetSpotSource is the read-side of the pattern store the retriever needs.
// Satisfied by *patternstore.Client.
type SweetSpotSource interface {
	SweetSpots(ctx context.Context, componentType string) ([]patternstore.SweetSpot, error)
}

// SweetSpotStrategy proposes each parameter's optimal median value among the
// top 25% historical performers for the component type. Only parameters
// backed by high or medium confidence contribute - low-confidence history is
// too thin to act on.
type SweetSpotStrategy struct {
	source SweetSpotSource
}

// NewSweetSpotStrategy creates the sweet-spot retriever over a pattern store.
func NewSweetSpotStrategy(source SweetSpotSource) *SweetSpotStrategy {
	return &SweetSpotStrategy{source: source}
}

// Name implements Strategy.
func (s *SweetSpotStrategy) Name() string { return "sweet-spot" }

// Propose implements Strategy.
func (s *SweetSpotStrategy) Propose(ctx context.Context, ec *pipeline.Context) (Set, error) {
	artifact, err := pipeline.RequireAs[*content.Artifact](ec, s.Name(), pipeline.KeyArtifact)
	if err != nil {
		return nil, err
	}

	spots, err := s.source.SweetSpots(ctx, artifact.ComponentType)
	if err != nil {
		return nil, fmt.Errorf("sweet-spot query failed: %w", err)
	}

	set := Set{}
	for _, spot := range spots {
		switch spot.Confidence {
		case patternstore.ConfidenceHigh, patternstore.ConfidenceMedium:
			set[spot.Param] = spot.Median
		}
	}
	return set, nil
}
