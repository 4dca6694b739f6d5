package sweep

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectOptimal_LowestScoreWins(t *testing.T) {
	// GIVEN records already in canonical order
	recs := []MetricRecord{
		{Benchmark: "b", NSets: 2, Assoc: 1, IL1Miss: 0.125, DL1Miss: 0.0625},
		{Benchmark: "b", NSets: 1, Assoc: 2, IL1Miss: 0.25, DL1Miss: 0.0625},
	}

	// WHEN selecting by il1+dl1
	best, idx, ok := SelectOptimal(recs, MetricRecord.Total)

	// THEN the lower total is chosen
	assert.True(t, ok)
	assert.Equal(t, 0, idx)
	assert.Equal(t, ConfigKey{NSets: 2, Assoc: 1}, best.Key())
}

func TestSelectOptimal_TieKeepsFirstCandidate(t *testing.T) {
	// GIVEN equal total miss 0.25 at (assoc=1,nsets=4) and (assoc=2,nsets=2)
	configs := []AggregatedConfig{
		{NSets: 4, Assoc: 1, AvgTotalMiss: 0.25},
		{NSets: 2, Assoc: 2, AvgTotalMiss: 0.25},
	}

	// WHEN selecting
	best, idx, ok := SelectOptimal(configs, func(c AggregatedConfig) float64 { return c.AvgTotalMiss })

	// THEN the earlier candidate (fewer ways) is kept
	assert.True(t, ok)
	assert.Equal(t, 0, idx)
	assert.Equal(t, 1, best.Assoc)
	assert.Equal(t, 4, best.NSets)
}

func TestSelectOptimal_LaterStrictlySmallerReplaces(t *testing.T) {
	scores := []float64{0.5, 0.5, 0.25, 0.25, 0.125, 0.5}

	_, idx, ok := SelectOptimal(scores, func(s float64) float64 { return s })

	assert.True(t, ok)
	assert.Equal(t, 4, idx)
}

func TestSelectOptimal_Empty(t *testing.T) {
	best, idx, ok := SelectOptimal([]AggregatedConfig(nil), func(c AggregatedConfig) float64 { return c.AvgTotalMiss })

	assert.False(t, ok)
	assert.Equal(t, -1, idx)
	assert.Equal(t, AggregatedConfig{}, best)
}

func TestSelectOptimal_NaNNeverWins(t *testing.T) {
	id := func(s float64) float64 { return s }

	_, idx, _ := SelectOptimal([]float64{math.NaN(), 0.5, math.NaN(), 0.25}, id)
	assert.Equal(t, 3, idx)

	_, idx, _ = SelectOptimal([]float64{0.5, math.NaN()}, id)
	assert.Equal(t, 0, idx)
}
