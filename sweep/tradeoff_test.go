package sweep

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyTradeoff_SizeIndexEight(t *testing.T) {
	// GIVEN (4,2)=0.10 and (2,4)=0.20 at size_index 8
	configs := []AggregatedConfig{
		{NSets: 4, Assoc: 2, AvgTotalMiss: 0.10, Samples: 1},
		{NSets: 2, Assoc: 4, AvgTotalMiss: 0.20, Samples: 1},
	}

	// WHEN classified
	res := ClassifyTradeoff(configs)

	// THEN bucket 8 reports sets-dominant 0.10 and assoc-dominant 0.20
	require.Equal(t, []int{8}, res.SizeIndices)
	require.NotNil(t, res.SetsDominant[0])
	require.NotNil(t, res.AssocDominant[0])
	assert.InDelta(t, 0.10, *res.SetsDominant[0], 1e-12)
	assert.InDelta(t, 0.20, *res.AssocDominant[0], 1e-12)
	assert.Equal(t, []Preference{PreferSets}, res.Preferred)
}

func TestClassifyTradeoff_EqualOnlyBucketOmittedFromSeries(t *testing.T) {
	configs := []AggregatedConfig{
		{NSets: 4, Assoc: 4, AvgTotalMiss: 0.3},
		{NSets: 8, Assoc: 1, AvgTotalMiss: 0.4},
	}

	res := ClassifyTradeoff(configs)

	// THEN size 16 (equal only) stays in Buckets but not in the series
	require.Len(t, res.Buckets, 2)
	assert.Equal(t, 8, res.Buckets[0].SizeIndex)
	assert.Equal(t, 16, res.Buckets[1].SizeIndex)
	assert.False(t, res.Buckets[1].Comparable())
	require.NotNil(t, res.Buckets[1].EqualMean())
	assert.Equal(t, 0.3, *res.Buckets[1].EqualMean())

	assert.Equal(t, []int{8}, res.SizeIndices)
	assert.Len(t, res.SetsDominant, 1)
	assert.Len(t, res.AssocDominant, 1)
}

func TestClassifyTradeoff_EmptyClassIsAbsentNotZero(t *testing.T) {
	configs := []AggregatedConfig{
		{NSets: 32, Assoc: 2, AvgTotalMiss: 0.25},
		{NSets: 64, Assoc: 1, AvgTotalMiss: 0.5},
		{NSets: 8, Assoc: 8, AvgTotalMiss: 0.125},
	}

	res := ClassifyTradeoff(configs)

	require.Equal(t, []int{64}, res.SizeIndices)
	require.NotNil(t, res.SetsDominant[0])
	assert.Equal(t, 0.375, *res.SetsDominant[0])
	assert.Nil(t, res.AssocDominant[0])
	assert.Equal(t, []Preference{Undetermined}, res.Preferred)
}

func TestClassifyTradeoff_AscendingSizeIndices(t *testing.T) {
	configs := []AggregatedConfig{
		{NSets: 1, Assoc: 64, AvgTotalMiss: 0.1},
		{NSets: 2, Assoc: 1, AvgTotalMiss: 0.2},
		{NSets: 1, Assoc: 8, AvgTotalMiss: 0.3},
		{NSets: 8, Assoc: 1, AvgTotalMiss: 0.3},
	}

	res := ClassifyTradeoff(configs)

	assert.Equal(t, []int{2, 8, 64}, res.SizeIndices)
	assert.Equal(t, []Preference{Undetermined, PreferNeither, Undetermined}, res.Preferred)
	assert.Nil(t, res.AssocDominant[0])
	assert.Nil(t, res.SetsDominant[2])
}

func TestClassifyTradeoff_Empty(t *testing.T) {
	res := ClassifyTradeoff(nil)

	assert.Empty(t, res.Buckets)
	assert.Empty(t, res.SizeIndices)
}

func TestDominanceOf(t *testing.T) {
	assert.Equal(t, SetsDominant, DominanceOf(ConfigKey{NSets: 4, Assoc: 2}))
	assert.Equal(t, AssocDominant, DominanceOf(ConfigKey{NSets: 2, Assoc: 4}))
	assert.Equal(t, Equal, DominanceOf(ConfigKey{NSets: 2, Assoc: 2}))
	assert.Equal(t, "assoc_dominant", AssocDominant.String())
}
