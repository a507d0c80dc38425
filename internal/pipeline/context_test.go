package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextAppendOnly(t *testing.T) {
	ec := NewContext()

	require.NoError(t, ec.Set(KeyAuthenticity, 0.9))

	err := ec.Set(KeyAuthenticity, 0.1)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "already set")

	// Original value untouched
	value, ok := ec.Get(KeyAuthenticity)
	require.True(t, ok)
	assert.Equal(t, 0.9, value)
}

func TestContextRequire(t *testing.T) {
	ec := NewContext()

	t.Run("missing key yields MissingKeyError", func(t *testing.T) {
		_, err := ec.Require("realism-gate", KeyRealism)
		require.Error(t, err)

		var missing *MissingKeyError
		require.True(t, errors.As(err, &missing))
		assert.Equal(t, "realism-gate", missing.Step)
		assert.Equal(t, KeyRealism, missing.Key)
		assert.Contains(t, err.Error(), KeyRealism)
	})

	t.Run("present key returned", func(t *testing.T) {
		require.NoError(t, ec.Set(KeyRealism, 8.5))
		value, err := ec.Require("realism-gate", KeyRealism)
		require.NoError(t, err)
		assert.Equal(t, 8.5, value)
	})
}

func TestRequireAs(t *testing.T) {
	ec := NewContext()
	require.NoError(t, ec.Set(KeyCompositeScore, 0.91))

	t.Run("correct type", func(t *testing.T) {
		score, err := RequireAs[float64](ec, "report", KeyCompositeScore)
		require.NoError(t, err)
		assert.Equal(t, 0.91, score)
	})

	t.Run("type mismatch is not a missing key", func(t *testing.T) {
		_, err := RequireAs[string](ec, "report", KeyCompositeScore)
		require.Error(t, err)

		var missing *MissingKeyError
		assert.False(t, errors.As(err, &missing))
		assert.Contains(t, err.Error(), "holds float64")
	})

	t.Run("missing key is a MissingKeyError", func(t *testing.T) {
		_, err := RequireAs[float64](ec, "report", KeyAdjustments)
		var missing *MissingKeyError
		assert.True(t, errors.As(err, &missing))
	})
}

// stubStep is a minimal Step for contract tests.
type stubStep struct {
	name     string
	required []string
	executed bool
}

func (s *stubStep) Name() string            { return s.name }
func (s *stubStep) RequiredKeys() []string  { return s.required }
func (s *stubStep) Execute(_ context.Context, _ *Context) error {
	s.executed = true
	return nil
}

func TestRunTwoPhaseContract(t *testing.T) {
	t.Run("missing input fails fast without executing", func(t *testing.T) {
		step := &stubStep{name: "needy", required: []string{KeyArtifact}}
		ec := NewContext()

		err := Run(context.Background(), step, ec)
		require.Error(t, err)

		var missing *MissingKeyError
		require.True(t, errors.As(err, &missing))
		assert.Equal(t, "needy", missing.Step)
		assert.False(t, step.executed)
	})

	t.Run("all inputs present executes", func(t *testing.T) {
		step := &stubStep{name: "needy", required: []string{KeyArtifact}}
		ec := NewContext()
		require.NoError(t, ec.Set(KeyArtifact, "content"))

		require.NoError(t, Run(context.Background(), step, ec))
		assert.True(t, step.executed)
	})

	t.Run("no required keys always executes", func(t *testing.T) {
		step := &stubStep{name: "leaf"}
		require.NoError(t, Run(context.Background(), step, NewContext()))
		assert.True(t, step.executed)
	})
}

func TestContextConcurrentWriters(t *testing.T) {
	ec := NewContext()
	keys := []string{KeyAuthenticity, KeyRealism, KeyReadability, KeySubjective}

	done := make(chan error, len(keys))
	for _, key := range keys {
		go func(k string) {
			done <- ec.Set(k, 1.0)
		}(key)
	}
	for range keys {
		require.NoError(t, <-done)
	}

	for _, key := range keys {
		assert.True(t, ec.Has(key))
	}
}
