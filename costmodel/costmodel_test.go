package costmodel_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rowdedup/costmodel"
)

func baseConfig() costmodel.Config {
	return costmodel.Config{
		IOSize:       4096,
		SeekCost:     1.0,
		CompareTime:  1.0,
		NodeOverhead: 48,
	}
}

func TestEstimateIncreasesWithN(t *testing.T) {
	cfg := baseConfig()
	small := costmodel.Estimate(1_000, 8, 64*1024, cfg)
	large := costmodel.Estimate(1_000_000, 8, 64*1024, cfg)
	assert.Less(t, small, large)
}

func TestEstimateDecreasesWithMemBudget(t *testing.T) {
	cfg := baseConfig()
	n := int64(1_000_000)
	width := 8

	costTiny := costmodel.Estimate(n, width, 64*1024, cfg)
	costMid := costmodel.Estimate(n, width, 64*1024*1024, cfg)
	costHuge := costmodel.Estimate(n, width, 1024*1024*1024, cfg)

	require.Greater(t, costTiny, costMid)
	require.Greater(t, costMid, costHuge)
}

func TestEstimateAllInMemoryHasNoSpillOrMergeTerm(t *testing.T) {
	cfg := baseConfig()
	// A budget comfortably larger than n*(width+overhead) means the whole
	// stream fits the in-memory tree: n_full == 0, so spillWriteCost is
	// zero and mergeReductionCost has no more than one "run" to begin with.
	n := int64(1000)
	width := 8
	hugeMem := int64(1 << 30)

	cost := costmodel.Estimate(n, width, hugeMem, cfg)
	outputRead := math.Ceil(float64(width) * float64(n) / float64(cfg.IOSize))
	assert.GreaterOrEqual(t, cost, outputRead)

	// What remains is one tree build of n keys (Stirling's log2((n+1)!))
	// plus the output read.
	x := float64(n) + 1
	treeBuild := (math.Log(2*math.Pi*x)/2 + x*math.Log(x/math.E)) / math.Ln2 / cfg.CompareTime
	assert.InDelta(t, treeBuild+outputRead, cost, 1e-6)
}

func TestEstimateInvalidArgumentsReturnInfinity(t *testing.T) {
	cfg := baseConfig()
	assert.True(t, math.IsInf(costmodel.Estimate(10, 0, 1024, cfg), 1))
	assert.True(t, math.IsInf(costmodel.Estimate(10, 8, 1, cfg), 1))
}

func TestEstimateZeroCompareTimeOmitsComparisonCost(t *testing.T) {
	cfg := baseConfig()
	cfg.CompareTime = 0
	// Should not panic on divide-by-zero and must stay finite.
	cost := costmodel.Estimate(10_000, 8, 4096, cfg)
	assert.False(t, math.IsInf(cost, 0))
	assert.False(t, math.IsNaN(cost))
}
