// Package pipeline defines the evaluation context and step contract shared by
// every stage of a quality cycle. Steps communicate exclusively through the
// context: each one reads the keys left by prior steps and appends its own
// result under a namespaced key.
package pipeline

import (
	"fmt"
	"sync"
)

// Well-known context keys. Each step's output lives under exactly one key,
// namespaced by the package that produces it.
const (
	KeyArtifact = "content.artifact"

	KeyAuthenticity = "evaluate.authenticity"
	KeyRealism      = "evaluate.realism"
	KeyReadability  = "evaluate.readability"
	KeySubjective   = "evaluate.subjective"

	KeyGateAuthenticity = "gate.authenticity"
	KeyGateRealism      = "gate.realism"
	KeyGateReadability  = "gate.readability"
	KeyGateSubjective   = "gate.subjective"
	KeyGateComposite    = "gate.composite"

	KeyCompositeScore = "score.composite"
	KeyAdjustments    = "adjust.merged"
)

// MissingKeyError reports that a step's required context key is absent.
// This is always a caller-ordering bug, never a data problem, so it is fatal
// to the cycle and never silently defaulted.
type MissingKeyError struct {
	Step string // Name of the step whose input contract was violated
	Key  string // The required key that was absent
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("step %q: required context key %q is missing (step ordering bug)", e.Step, e.Key)
}

// Context is the mutable, append-only key/value record threaded through every
// step of one evaluation cycle. Keys may be written exactly once; attempting
// to overwrite is an error, which keeps every step's output immutable for the
// rest of the cycle.
//
// The context is safe for concurrent use - the evaluator fan-out writes four
// distinct keys from four goroutines.
type Context struct {
	mu     sync.RWMutex
	values map[string]any
}

// NewContext creates an empty evaluation context for one cycle.
func NewContext() *Context {
	return &Context{values: make(map[string]any)}
}

// Set appends a value under key. Returns an error if the key already exists -
// the context is append-only and step outputs are immutable within a cycle.
func (c *Context) Set(key string, value any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.values[key]; exists {
		return fmt.Errorf("context key %q already set: step outputs are immutable within a cycle", key)
	}
	c.values[key] = value
	return nil
}

// Has reports whether key has been set.
func (c *Context) Has(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	_, exists := c.values[key]
	return exists
}

// Get returns the value stored under key, or false if absent.
func (c *Context) Get(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	value, exists := c.values[key]
	return value, exists
}

// Require returns the value stored under key, or a MissingKeyError naming the
// requesting step if the key is absent. Steps use this for every declared
// input so contract violations surface immediately instead of producing
// garbage results downstream.
func (c *Context) Require(step, key string) (any, error) {
	value, exists := c.Get(key)
	if !exists {
		return nil, &MissingKeyError{Step: step, Key: key}
	}
	return value, nil
}

// RequireAs fetches a required key and asserts its concrete type. A type
// mismatch is reported as a distinct error from a missing key, since it means
// two steps disagree about a key's contract rather than one running out of
// order.
func RequireAs[T any](c *Context, step, key string) (T, error) {
	var zero T

	value, err := c.Require(step, key)
	if err != nil {
		return zero, err
	}

	typed, ok := value.(T)
	if !ok {
		return zero, fmt.Errorf("step %q: context key %q holds %T, not %T", step, key, value, zero)
	}
	return typed, nil
}
