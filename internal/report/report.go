// Package report summarizes the learned-pattern store for the patterns CLI
// command: per component type, the accept/reject record, the discovered
// parameter sweet spots, and the most common AI tendencies.
package report

import (
	"context"
	"fmt"
	"sort"

	"github.com/pagewright/burnish/pkg/patternstore"
)

// OutputFormat specifies how to format the patterns report output.
type OutputFormat string

const (
	// OutputFormatDefault uses a table format
	OutputFormatDefault OutputFormat = "default"

	// OutputFormatJSONL outputs complete summaries as line-delimited JSON
	OutputFormatJSONL OutputFormat = "jsonl"
)

// PatternReader is the slice of the pattern store the report needs.
// Satisfied by *patternstore.Client.
type PatternReader interface {
	Components(ctx context.Context) ([]string, error)
	Stats(ctx context.Context, componentType string) (patternstore.Stats, error)
	SweetSpots(ctx context.Context, componentType string) ([]patternstore.SweetSpot, error)
	TendencyCounts(ctx context.Context, componentType string) (map[string]int64, error)
}

// TendencyCount is one flagged AI tendency and how often rejected content
// exhibited it.
type TendencyCount struct {
	Tendency string `json:"tendency"`
	Count    int64  `json:"count"`
}

// ComponentSummary is everything the store has learned about one component
// type.
type ComponentSummary struct {
	ComponentType string                   `json:"component_type"`
	Accepted      int64                    `json:"accepted"`
	Rejected      int64                    `json:"rejected"`
	SweetSpots    []patternstore.SweetSpot `json:"sweet_spots"`
	Tendencies    []TendencyCount          `json:"tendencies"`
}

// Summarize reads the store and builds one summary per known component type,
// sorted by component type name for stable output.
func Summarize(ctx context.Context, store PatternReader) ([]ComponentSummary, error) {
	components, err := store.Components(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list component types: %w", err)
	}
	sort.Strings(components)

	summaries := make([]ComponentSummary, 0, len(components))
	for _, componentType := range components {
		stats, err := store.Stats(ctx, componentType)
		if err != nil {
			return nil, fmt.Errorf("failed to read stats for %s: %w", componentType, err)
		}

		spots, err := store.SweetSpots(ctx, componentType)
		if err != nil {
			return nil, fmt.Errorf("failed to read sweet spots for %s: %w", componentType, err)
		}
		sort.Slice(spots, func(i, j int) bool { return spots[i].Param < spots[j].Param })

		counts, err := store.TendencyCounts(ctx, componentType)
		if err != nil {
			return nil, fmt.Errorf("failed to read tendencies for %s: %w", componentType, err)
		}

		summaries = append(summaries, ComponentSummary{
			ComponentType: componentType,
			Accepted:      stats.Accepted,
			Rejected:      stats.Rejected,
			SweetSpots:    spots,
			Tendencies:    sortedTendencies(counts),
		})
	}

	return summaries, nil
}

// sortedTendencies orders tendency counts most-frequent first, breaking ties
// by name so output is deterministic.
func sortedTendencies(counts map[string]int64) []TendencyCount {
	tendencies := make([]TendencyCount, 0, len(counts))
	for tendency, count := range counts {
		tendencies = append(tendencies, TendencyCount{Tendency: tendency, Count: count})
	}
	sort.Slice(tendencies, func(i, j int) bool {
		if tendencies[i].Count != tendencies[j].Count {
			return tendencies[i].Count > tendencies[j].Count
		}
		return tendencies[i].Tendency < tendencies[j].Tendency
	})
	return tendencies
}
