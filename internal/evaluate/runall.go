package evaluate

import (
	"context"
	"sync"

	"github.com/pagewright/burnish/internal/pipeline"
)

// RunAll executes the given evaluator steps concurrently and waits for all of
// them to complete before returning. The four evaluators have no ordering
// dependency among themselves - this fan-out is the one legitimate
// concurrency point within a cycle. Every step's result must be merged into
// the context before gating proceeds, so RunAll never returns early: all
// goroutines finish even when one errors.
//
// Returns the first error encountered (in step order), which for an oracle
// failure is cycle-fatal.
func RunAll(ctx context.Context, ec *pipeline.Context, steps ...pipeline.Step) error {
	var wg sync.WaitGroup
	errs := make([]error, len(steps))

	for i, step := range steps {
		wg.Add(1)
		go func(i int, step pipeline.Step) {
			defer wg.Done()
			errs[i] = pipeline.Run(ctx, step, ec)
		}(i, step)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
