package engine

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pagewright/burnish/internal/adjust"
	"github.com/pagewright/burnish/internal/content"
	"github.com/pagewright/burnish/internal/evaluate"
	"github.com/pagewright/burnish/internal/gate"
	"github.com/pagewright/burnish/pkg/patternstore"
)

// verdict is one scripted per-body evaluation outcome.
type verdict struct {
	authenticity float64
	realism      evaluate.RealismResult
	readable     bool
	violations   []evaluate.Violation
}

// scriptedOracles keys evaluation results off the artifact body, so a test
// can make regenerated drafts score differently from the originals.
type scriptedOracles struct {
	verdicts map[string]verdict
	authErr  error
}

func (s *scriptedOracles) lookup(body string) (verdict, error) {
	v, ok := s.verdicts[body]
	if !ok {
		return verdict{}, fmt.Errorf("no scripted verdict for body %q", body)
	}
	return v, nil
}

func (s *scriptedOracles) Score(_ context.Context, body string) (float64, error) {
	if s.authErr != nil {
		return 0, s.authErr
	}
	v, err := s.lookup(body)
	return v.authenticity, err
}

func (s *scriptedOracles) Evaluate(_ context.Context, body, _, _ string) (evaluate.RealismResult, error) {
	v, err := s.lookup(body)
	return v.realism, err
}

func (s *scriptedOracles) Validate(_ context.Context, body string) (bool, error) {
	v, err := s.lookup(body)
	return v.readable, err
}

func (s *scriptedOracles) oracles() Oracles {
	return Oracles{
		Authenticity: s,
		Realism:      s,
		Readability:  s,
		Subjective:   subjectiveFunc(func(body string) (evaluate.SubjectiveResult, error) {
			v, err := s.lookup(body)
			return evaluate.SubjectiveResult{Violations: v.violations}, err
		}),
	}
}

// subjectiveFunc adapts a closure to the SubjectiveValidator interface,
// which has the same method name as ReadabilityValidator.
type subjectiveFunc func(body string) (evaluate.SubjectiveResult, error)

func (f subjectiveFunc) Validate(_ context.Context, body, _ string) (evaluate.SubjectiveResult, error) {
	return f(body)
}

// scriptedGenerator returns queued bodies in order and captures the
// override sets it was called with.
type scriptedGenerator struct {
	bodies   []string
	err      error
	received []map[string]float64
}

func (g *scriptedGenerator) Generate(_ context.Context, _, _ string, overrides map[string]float64) (string, map[string]float64, error) {
	g.received = append(g.received, overrides)
	if g.err != nil {
		return "", nil, g.err
	}
	if len(g.bodies) == 0 {
		return "", nil, fmt.Errorf("generator exhausted")
	}
	body := g.bodies[0]
	g.bodies = g.bodies[1:]
	return body, map[string]float64{"temperature": overrides["temperature"]}, nil
}

func setupStore(t *testing.T) *patternstore.Client {
	mr := miniredis.NewMiniRedis()
	require.NoError(t, mr.Start())
	t.Cleanup(mr.Close)

	store, err := patternstore.NewClient(&redis.Options{Addr: mr.Addr()}, "engine-test")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return store
}

func newTestEngine(t *testing.T, oracles *scriptedOracles, gen Generator, store *patternstore.Client) *Engine {
	eng, err := New(DefaultPolicy(), oracles.oracles(), gen, store, store, adjust.BandedAdvisor{})
	require.NoError(t, err)
	return eng
}

func TestNewValidation(t *testing.T) {
	store := setupStore(t)
	oracles := (&scriptedOracles{}).oracles()
	gen := &scriptedGenerator{}

	t.Run("zero attempt budget", func(t *testing.T) {
		policy := DefaultPolicy()
		policy.MaxAttempts = 0
		_, err := New(policy, oracles, gen, store, store, adjust.BandedAdvisor{})
		assert.ErrorContains(t, err, "max attempts")
	})

	t.Run("nil generator", func(t *testing.T) {
		_, err := New(DefaultPolicy(), oracles, nil, store, store, adjust.BandedAdvisor{})
		assert.ErrorContains(t, err, "generator")
	})

	t.Run("weights must sum to one", func(t *testing.T) {
		policy := DefaultPolicy()
		policy.AuthenticityWeight = 0.7
		_, err := New(policy, oracles, gen, store, store, adjust.BandedAdvisor{})
		assert.Error(t, err)
	})
}

func TestRunCycleAccepted(t *testing.T) {
	store := setupStore(t)
	oracles := &scriptedOracles{verdicts: map[string]verdict{
		"a perfectly serviceable product description": {
			authenticity: 0.95,
			realism:      evaluate.RealismResult{Score: 8.5},
			readable:     true,
		},
	}}
	eng := newTestEngine(t, oracles, &scriptedGenerator{}, store)

	artifact := content.New("acme-turbine-9000", "product_description",
		"a perfectly serviceable product description", nil)

	cycle, err := eng.RunCycle(context.Background(), artifact)
	require.NoError(t, err)

	assert.True(t, cycle.Accepted)
	assert.InDelta(t, 0.91, cycle.CompositeScore, 1e-9)
	assert.Empty(t, cycle.FailedGates)
	assert.Len(t, cycle.Gates, 4)
	assert.Empty(t, cycle.Adjustments)
	assert.NotEmpty(t, cycle.CycleID)

	stats, err := store.Stats(context.Background(), "product_description")
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Accepted)
	assert.Equal(t, int64(0), stats.Rejected)
}

func TestRunCycleRejected(t *testing.T) {
	store := setupStore(t)
	oracles := &scriptedOracles{verdicts: map[string]verdict{
		"reads like a press release written by a chatbot": {
			authenticity: 0.3,
			realism:      evaluate.RealismResult{Score: 5.0, AITendencies: []string{"hedging"}},
			readable:     true,
			violations: []evaluate.Violation{
				{Span: "industry-leading", Position: 0},
				{Span: "best-in-class", Position: 20},
			},
		},
	}}
	eng := newTestEngine(t, oracles, &scriptedGenerator{}, store)

	artifact := content.New("acme-turbine-9000", "product_description",
		"reads like a press release written by a chatbot", nil)

	cycle, err := eng.RunCycle(context.Background(), artifact)
	require.NoError(t, err)

	assert.False(t, cycle.Accepted)
	assert.Equal(t, []string{gate.NameRealism, gate.NameSubjective}, cycle.FailedGates)

	// Low authenticity drives temperature up; the realism deficit of 2.0
	// raises voice emphasis to 0.4 + 2.0*0.1.
	assert.InDelta(t, 1.0, cycle.Adjustments["temperature"], 1e-9)
	assert.InDelta(t, 0.6, cycle.Adjustments["voice_emphasis"], 1e-9)

	stats, err := store.Stats(context.Background(), "product_description")
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Rejected)

	counts, err := store.TendencyCounts(context.Background(), "product_description")
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts["hedging"])
}

func TestRunRetriesUntilAccepted(t *testing.T) {
	store := setupStore(t)
	oracles := &scriptedOracles{verdicts: map[string]verdict{
		"first draft, flat and robotic sounding": {
			authenticity: 0.4,
			realism:      evaluate.RealismResult{Score: 6.0},
			readable:     true,
		},
		"second draft, warmer and more specific": {
			authenticity: 0.9,
			realism:      evaluate.RealismResult{Score: 8.0},
			readable:     true,
		},
	}}
	gen := &scriptedGenerator{bodies: []string{"second draft, warmer and more specific"}}
	eng := newTestEngine(t, oracles, gen, store)

	run, err := eng.Run(context.Background(), "acme-turbine-9000", "product_description",
		"first draft, flat and robotic sounding")
	require.NoError(t, err)

	assert.True(t, run.Accepted)
	assert.Equal(t, 2, run.Attempts)
	assert.Len(t, run.Cycles, 2)

	// Regeneration preserves lineage.
	first, second := run.Cycles[0].Artifact, run.Cycles[1].Artifact
	assert.Equal(t, first.LogicalID, second.LogicalID)
	assert.Equal(t, 1, first.Version)
	assert.Equal(t, 2, second.Version)
	assert.NotEqual(t, first.ID, second.ID)

	// The generator saw the merged adjustments from the failed cycle.
	require.Len(t, gen.received, 1)
	assert.InDelta(t, 1.0, gen.received[0]["temperature"], 1e-9)
}

func TestRunBudgetExhausted(t *testing.T) {
	store := setupStore(t)
	oracles := &scriptedOracles{verdicts: map[string]verdict{
		"hopeless draft that never improves": {
			authenticity: 0.2,
			realism:      evaluate.RealismResult{Score: 3.0},
			readable:     false,
		},
	}}
	gen := &scriptedGenerator{bodies: []string{
		"hopeless draft that never improves",
		"hopeless draft that never improves",
	}}
	eng := newTestEngine(t, oracles, gen, store)

	run, err := eng.Run(context.Background(), "acme-turbine-9000", "product_description",
		"hopeless draft that never improves")
	require.NoError(t, err)

	assert.False(t, run.Accepted)
	assert.Equal(t, 3, run.Attempts)
	assert.Len(t, run.Cycles, 3)
	// No regeneration after the final attempt.
	assert.Len(t, gen.received, 2)

	stats, err := store.Stats(context.Background(), "product_description")
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.Rejected)
}

func TestRunRegenerationErrorPropagates(t *testing.T) {
	store := setupStore(t)
	oracles := &scriptedOracles{verdicts: map[string]verdict{
		"a draft the generator cannot improve on": {
			authenticity: 0.2,
			realism:      evaluate.RealismResult{Score: 3.0},
			readable:     true,
		},
	}}
	genErr := errors.New("generation service unavailable")
	gen := &scriptedGenerator{err: genErr}
	eng := newTestEngine(t, oracles, gen, store)

	_, err := eng.Run(context.Background(), "acme-turbine-9000", "product_description",
		"a draft the generator cannot improve on")
	require.Error(t, err)
	assert.ErrorIs(t, err, genErr)
	assert.ErrorContains(t, err, "regeneration failed")
}

func TestRunCycleOracleFailureIsFatal(t *testing.T) {
	store := setupStore(t)
	oracles := &scriptedOracles{
		authErr: errors.New("detector timed out"),
		verdicts: map[string]verdict{
			"any body long enough to validate": {realism: evaluate.RealismResult{Score: 8.0}, readable: true},
		},
	}
	eng := newTestEngine(t, oracles, &scriptedGenerator{}, store)

	artifact := content.New("acme-turbine-9000", "product_description",
		"any body long enough to validate", nil)

	_, err := eng.RunCycle(context.Background(), artifact)
	require.Error(t, err)

	var oracleErr *evaluate.OracleError
	assert.True(t, errors.As(err, &oracleErr))
}
