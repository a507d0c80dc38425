package report

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pagewright/burnish/pkg/patternstore"
)

func setupStore(t *testing.T) *patternstore.Client {
	mr := miniredis.NewMiniRedis()
	require.NoError(t, mr.Start())
	t.Cleanup(mr.Close)

	store, err := patternstore.NewClient(&redis.Options{Addr: mr.Addr()}, "report-test")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return store
}

// seedOutcome records one outcome for the given component type
func seedOutcome(t *testing.T, store *patternstore.Client, componentType string, accepted bool, composite float64, tendencies []string) {
	t.Helper()
	err := store.RecordOutcome(context.Background(), &patternstore.OutcomeRecord{
		ID:            uuid.New().String(),
		Subject:       "acme-turbine-9000",
		ComponentType: componentType,
		Accepted:      accepted,
		Params:        map[string]float64{"temperature": 0.8},
		Authenticity:  0.8,
		Realism:       7.5,
		Composite:     composite,
		AITendencies:  tendencies,
		Fingerprint:   strings.Repeat("ab", 32),
		CreatedAtMs:   1700000000000,
	})
	require.NoError(t, err)
}

func TestSummarize(t *testing.T) {
	store := setupStore(t)
	seedOutcome(t, store, "product_description", true, 0.9, nil)
	seedOutcome(t, store, "product_description", false, 0.5, []string{"hedging", "hedging", "buzzword_density"})
	seedOutcome(t, store, "tagline", true, 0.85, nil)

	summaries, err := Summarize(context.Background(), store)
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	// Sorted by component type
	assert.Equal(t, "product_description", summaries[0].ComponentType)
	assert.Equal(t, "tagline", summaries[1].ComponentType)

	assert.Equal(t, int64(1), summaries[0].Accepted)
	assert.Equal(t, int64(1), summaries[0].Rejected)

	// Most frequent tendency first
	require.Len(t, summaries[0].Tendencies, 2)
	assert.Equal(t, TendencyCount{Tendency: "hedging", Count: 2}, summaries[0].Tendencies[0])
	assert.Equal(t, TendencyCount{Tendency: "buzzword_density", Count: 1}, summaries[0].Tendencies[1])
}

func TestSummarize_EmptyStore(t *testing.T) {
	store := setupStore(t)

	summaries, err := Summarize(context.Background(), store)
	require.NoError(t, err)
	assert.Empty(t, summaries)
}

func TestFormatTable(t *testing.T) {
	summaries := []ComponentSummary{
		{
			ComponentType: "product_description",
			Accepted:      3,
			Rejected:      1,
			SweetSpots: []patternstore.SweetSpot{
				{Param: "temperature", Median: 0.85, Confidence: patternstore.ConfidenceMedium, Samples: 12},
			},
			Tendencies: []TendencyCount{{Tendency: "hedging", Count: 4}},
		},
	}

	var buf bytes.Buffer
	count := FormatTable(&buf, summaries)

	assert.Equal(t, 1, count)
	output := buf.String()
	assert.Contains(t, output, "product_description")
	assert.Contains(t, output, "75%")
	assert.Contains(t, output, "temperature=0.85(medium)")
	assert.Contains(t, output, "hedging:4")
	assert.Contains(t, output, "1 component type tracked")
}

func TestFormatTable_Empty(t *testing.T) {
	var buf bytes.Buffer
	count := FormatTable(&buf, nil)

	assert.Equal(t, 0, count)
	assert.Contains(t, buf.String(), "No learned patterns yet")
}

func TestFormatJSONL(t *testing.T) {
	summaries := []ComponentSummary{
		{ComponentType: "tagline", Accepted: 2},
		{ComponentType: "product_description", Rejected: 1},
	}

	var buf bytes.Buffer
	require.NoError(t, FormatJSONL(&buf, summaries))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var first ComponentSummary
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, "tagline", first.ComponentType)
	assert.Equal(t, int64(2), first.Accepted)
}

func TestFormatHelpers(t *testing.T) {
	t.Run("rate with no outcomes", func(t *testing.T) {
		assert.Equal(t, "-", formatRate(0, 0))
	})

	t.Run("long component name truncated", func(t *testing.T) {
		name := strings.Repeat("x", 30)
		formatted := formatComponent(name)
		assert.Len(t, formatted, 22)
		assert.True(t, strings.HasSuffix(formatted, "..."))
	})

	t.Run("sweet spot overflow marker", func(t *testing.T) {
		spots := []patternstore.SweetSpot{
			{Param: "a", Median: 0.1, Confidence: patternstore.ConfidenceHigh},
			{Param: "b", Median: 0.2, Confidence: patternstore.ConfidenceHigh},
			{Param: "c", Median: 0.3, Confidence: patternstore.ConfidenceHigh},
		}
		assert.Contains(t, formatSweetSpots(spots), "+1 more")
	})
}
