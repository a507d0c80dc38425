// Package adjust computes generation-parameter adjustments from a failed
// evaluation cycle. Four independent strategies each propose an adjustment
// set; the merger combines them under a fixed priority order. Strategies are
// optimizations, not correctness requirements: a strategy that fails degrades
// to an empty set with a logged warning instead of aborting the cycle.
package adjust

import (
	"context"
	"log"

	"github.com/pagewright/burnish/internal/pipeline"
)

// Set maps a generation parameter name to its proposed override value.
// Each strategy produces its own Set; they are combined by Merge, never
// individually persisted.
type Set map[string]float64

// Strategy proposes parameter adjustments from the current cycle's
// evaluation context.
type Strategy interface {
	// Name identifies the strategy in logs.
	Name() string

	// Propose computes an adjustment set. An empty set means the strategy
	// has nothing to contribute this cycle.
	Propose(ctx context.Context, ec *pipeline.Context) (Set, error)
}

// Merge combines adjustment sets in the order given, with later sets
// overwriting earlier ones on key collision ("last wins"). Callers pass sets
// in the fixed priority order sweet-spot, temperature, realism, pattern:
// broad historical defaults are base values, the realism-specific correction
// dominates them, and proven per-pattern adjustments override everything.
func Merge(sets ...Set) Set {
	merged := Set{}
	for _, set := range sets {
		for param, value := range set {
			merged[param] = value
		}
	}
	return merged
}

// ProposeAll runs each strategy in the order given and merges the results
// under the last-wins rule. A strategy error is recoverable: it is logged and
// the strategy contributes an empty set. The strategy order is therefore also
// the merge priority order.
func ProposeAll(ctx context.Context, ec *pipeline.Context, strategies ...Strategy) Set {
	sets := make([]Set, 0, len(strategies))
	for _, strategy := range strategies {
		set, err := strategy.Propose(ctx, ec)
		if err != nil {
			log.Printf("[WARN] adjustment strategy %s failed, continuing without it: %v", strategy.Name(), err)
			set = Set{}
		}
		sets = append(sets, set)
	}
	return Merge(sets...)
}
