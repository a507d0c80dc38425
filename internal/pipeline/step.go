package pipeline

import "context"

// Step is one stage of an evaluation cycle. Steps are stateless except where
// they wrap a long-lived collaborator (a pattern store, an advisor) injected
// at construction time - that collaborator's state is external and shared
// across cycles, not owned by the step.
type Step interface {
	// Name identifies the step in errors and logs.
	Name() string

	// RequiredKeys declares the context keys the step reads. Run verifies
	// they are all present before Execute is called.
	RequiredKeys() []string

	// Execute performs the step's work, reading declared inputs from the
	// evaluation context and appending its result under the step's output
	// key. ctx carries cancellation for any external calls the step makes.
	Execute(ctx context.Context, ec *Context) error
}

// Run executes a step under the two-phase contract: first validate that every
// declared input key is present (failing fast with a MissingKeyError), then
// execute. The separation keeps input-contract violations distinguishable
// from evaluator/domain failures.
func Run(ctx context.Context, step Step, ec *Context) error {
	if err := ValidateInputs(step, ec); err != nil {
		return err
	}
	return step.Execute(ctx, ec)
}

// ValidateInputs checks that every key the step declares as required is
// present in the context. Returns a MissingKeyError for the first absent key.
func ValidateInputs(step Step, ec *Context) error {
	for _, key := range step.RequiredKeys() {
		if !ec.Has(key) {
			return &MissingKeyError{Step: step.Name(), Key: key}
		}
	}
	return nil
}
