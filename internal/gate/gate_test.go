package gate

import (
	"context"
	"errors"
	"testing"

	"github.com/pagewright/burnish/internal/evaluate"
	"github.com/pagewright/burnish/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runGates executes the four per-metric gates over a context pre-loaded with
// the given evaluator results, then returns the context.
func runGates(t *testing.T, auth float64, realism float64, readable bool, violations int) *pipeline.Context {
	t.Helper()
	ec := pipeline.NewContext()

	vs := make([]evaluate.Violation, violations)
	for i := range vs {
		vs[i] = evaluate.Violation{Span: "cutting-edge", Position: i * 20}
	}

	require.NoError(t, ec.Set(pipeline.KeyAuthenticity, evaluate.AuthenticityResult{Score: auth}))
	require.NoError(t, ec.Set(pipeline.KeyRealism, evaluate.RealismResult{Score: realism}))
	require.NoError(t, ec.Set(pipeline.KeyReadability, evaluate.ReadabilityResult{Passed: readable}))
	require.NoError(t, ec.Set(pipeline.KeySubjective, evaluate.SubjectiveResult{Violations: vs}))

	ctx := context.Background()
	require.NoError(t, pipeline.Run(ctx, NewAuthenticityGate(), ec))
	require.NoError(t, pipeline.Run(ctx, NewRealismGate(DefaultRealismThreshold), ec))
	require.NoError(t, pipeline.Run(ctx, NewReadabilityGate(), ec))
	require.NoError(t, pipeline.Run(ctx, NewSubjectiveGate(), ec))

	return ec
}

func gateResult(t *testing.T, ec *pipeline.Context, key string) Result {
	t.Helper()
	result, err := pipeline.RequireAs[Result](ec, "test", key)
	require.NoError(t, err)
	return result
}

func TestRealismGateBoundary(t *testing.T) {
	t.Run("exactly 7.0 passes (inclusive threshold)", func(t *testing.T) {
		ec := runGates(t, 0.9, 7.0, true, 0)
		result := gateResult(t, ec, pipeline.KeyGateRealism)
		assert.True(t, result.Passed)
		assert.Equal(t, 7.0, result.Value)
		assert.Equal(t, 7.0, result.Threshold)
	})

	t.Run("6.999 fails", func(t *testing.T) {
		ec := runGates(t, 0.9, 6.999, true, 0)
		assert.False(t, gateResult(t, ec, pipeline.KeyGateRealism).Passed)
	})
}

func TestSubjectiveGateZeroTolerance(t *testing.T) {
	t.Run("zero violations passes", func(t *testing.T) {
		ec := runGates(t, 0.9, 8.0, true, 0)
		assert.True(t, gateResult(t, ec, pipeline.KeyGateSubjective).Passed)
	})

	t.Run("one violation fails", func(t *testing.T) {
		ec := runGates(t, 0.9, 8.0, true, 1)
		result := gateResult(t, ec, pipeline.KeyGateSubjective)
		assert.False(t, result.Passed)
		assert.Equal(t, 1.0, result.Value)
	})
}

func TestReadabilityGate(t *testing.T) {
	ec := runGates(t, 0.9, 8.0, false, 0)
	assert.False(t, gateResult(t, ec, pipeline.KeyGateReadability).Passed)

	ec = runGates(t, 0.9, 8.0, true, 0)
	assert.True(t, gateResult(t, ec, pipeline.KeyGateReadability).Passed)
}

func TestAuthenticityGateIsAdvisory(t *testing.T) {
	// Even a terrible authenticity score never fails its gate - it feeds the
	// composite scorer and the temperature calculator instead.
	ec := runGates(t, 0.05, 8.0, true, 0)
	result := gateResult(t, ec, pipeline.KeyGateAuthenticity)
	assert.True(t, result.Passed)
	assert.Equal(t, 0.05, result.Value)
}

func TestCompositeGate(t *testing.T) {
	compositeOf := func(t *testing.T, ec *pipeline.Context) CompositeResult {
		require.NoError(t, pipeline.Run(context.Background(), NewCompositeGate(), ec))
		result, err := pipeline.RequireAs[CompositeResult](ec, "test", pipeline.KeyGateComposite)
		require.NoError(t, err)
		return result
	}

	t.Run("passes iff every gate passed", func(t *testing.T) {
		ec := runGates(t, 0.95, 8.5, true, 0)
		result := compositeOf(t, ec)
		assert.True(t, result.Passed)
		assert.Empty(t, result.FailedGates)
		assert.Len(t, result.Gates, 4)
	})

	t.Run("single failure named in failed_gates", func(t *testing.T) {
		tests := []struct {
			name       string
			realism    float64
			readable   bool
			violations int
			failed     []string
		}{
			{"realism fails", 5.0, true, 0, []string{NameRealism}},
			{"readability fails", 8.0, false, 0, []string{NameReadability}},
			{"subjective fails", 8.0, true, 3, []string{NameSubjective}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				ec := runGates(t, 0.9, tt.realism, tt.readable, tt.violations)
				result := compositeOf(t, ec)
				assert.False(t, result.Passed)
				assert.Equal(t, tt.failed, result.FailedGates)
			})
		}
	})

	t.Run("multiple failures in declaration order", func(t *testing.T) {
		ec := runGates(t, 0.3, 5.0, true, 2)
		result := compositeOf(t, ec)
		assert.False(t, result.Passed)
		assert.Equal(t, []string{NameRealism, NameSubjective}, result.FailedGates)
	})

	t.Run("missing gate result is a contract violation", func(t *testing.T) {
		ec := pipeline.NewContext()
		require.NoError(t, ec.Set(pipeline.KeyGateAuthenticity, Result{Name: NameAuthenticity, Passed: true}))

		err := pipeline.Run(context.Background(), NewCompositeGate(), ec)
		var missing *pipeline.MissingKeyError
		require.True(t, errors.As(err, &missing))
		assert.Equal(t, pipeline.KeyGateRealism, missing.Key)
	})
}

func TestScorerStep(t *testing.T) {
	score := func(t *testing.T, auth, realism float64) float64 {
		ec := pipeline.NewContext()
		require.NoError(t, ec.Set(pipeline.KeyAuthenticity, evaluate.AuthenticityResult{Score: auth}))
		require.NoError(t, ec.Set(pipeline.KeyRealism, evaluate.RealismResult{Score: realism}))

		scorer, err := NewScorerStep(DefaultAuthenticityWeight, DefaultRealismWeight)
		require.NoError(t, err)
		require.NoError(t, pipeline.Run(context.Background(), scorer, ec))

		result, err := pipeline.RequireAs[float64](ec, "test", pipeline.KeyCompositeScore)
		require.NoError(t, err)
		return result
	}

	t.Run("weighted combination on the 0-1 scale", func(t *testing.T) {
		// (0.95 * 0.6) + (8.5/10 * 0.4) = 0.91
		assert.InDelta(t, 0.91, score(t, 0.95, 8.5), 1e-9)
	})

	t.Run("perfect scores yield 1.0", func(t *testing.T) {
		assert.InDelta(t, 1.0, score(t, 1.0, 10.0), 1e-9)
	})

	t.Run("weights must sum to one", func(t *testing.T) {
		_, err := NewScorerStep(0.6, 0.6)
		assert.ErrorContains(t, err, "must sum to 1")
	})
}
