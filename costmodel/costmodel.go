// Package costmodel implements the pure planner-facing cost function: it
// predicts the disk-seek cost of inserting N fixed-width keys under a
// memory budget M, without constructing a Deduper. It mirrors the
// Deduper's actual algorithm (tree build, spill, bounded-fan-in
// reduction, final merge, output read) closely enough that the query
// planner in rowdedup's surrounding engine can compare this strategy
// against alternatives before committing to it.
package costmodel

import (
	"math"

	"rowdedup/merge"
)

// Config carries the engine-wide cost constants the formulas are scaled
// by. None of these are hard-coded in this package: the surrounding
// engine owns its own measured I/O size, seek cost, and comparator
// timing, and supplies them here.
type Config struct {
	// IOSize is the block size, in bytes, the cost model charges one
	// I/O unit per.
	IOSize int64
	// SeekCost is the cost, in seek-equivalents, of one IOSize-sized
	// disk transfer.
	SeekCost float64
	// CompareTime scales comparator cost into the same seek-equivalent
	// units as I/O cost.
	CompareTime float64
	// NodeOverhead is the in-memory ordered set's per-key bookkeeping
	// cost; pass orderedset.NodeOverhead for the container this module
	// actually uses.
	NodeOverhead int64
}

const (
	defaultFanIn          = 7
	defaultFanInThreshold = 15
)

// Estimate predicts the total seek-equivalent cost of deduplicating n
// keys of width bytes under memBudget. It returns +Inf if the
// configuration cannot hold even a single key (width <= 0, or memBudget
// too small for one element plus its container overhead).
func Estimate(n int64, width int, memBudget int64, cfg Config) float64 {
	if width <= 0 {
		return math.Inf(1)
	}
	kMax := memBudget / (int64(width) + cfg.NodeOverhead)
	if kMax <= 0 {
		return math.Inf(1)
	}

	nFull := n / kMax
	nLast := n % kMax

	treeBuild := treeBuildCost(nFull, nLast, kMax, cfg)
	spillWrite := spillWriteCost(nFull, nLast, kMax, width, cfg)
	mergeCost := mergeReductionCost(nFull, nLast, kMax, width, cfg)
	outputRead := math.Ceil(float64(width) * float64(n) / float64(cfg.IOSize))

	return treeBuild + spillWrite + mergeCost + outputRead
}

// logFactorialBits approximates log2(n!) via Stirling's approximation,
// matching the formula the cost model is spec'd against:
// log2(n!) ~= (log(2*pi*n)/2 + n*log(n/e)) / ln2.
func logFactorialBits(n float64) float64 {
	if n <= 1 {
		return 0
	}
	return (math.Log(2*math.Pi*n)/2 + n*math.Log(n/math.E)) / math.Ln2
}

// treeBuildCost estimates the comparisons spent building the in-memory
// ordered set across nFull full trees of kMax keys plus one final
// partial tree of nLast keys: log2((kMax+1)!) comparisons per full tree
// plus log2((nLast+1)!) for the last one, scaled by CompareTime.
func treeBuildCost(nFull, nLast, kMax int64, cfg Config) float64 {
	if cfg.CompareTime <= 0 {
		return 0
	}
	full := float64(nFull) * logFactorialBits(float64(kMax)+1)
	last := logFactorialBits(float64(nLast) + 1)
	return (full + last) / cfg.CompareTime
}

// spillWriteCost estimates the seek cost of writing nFull full runs of
// kMax keys plus one partial run of nLast keys. No spills occur at all
// when nFull == 0: everything fits in the in-memory set.
func spillWriteCost(nFull, nLast, kMax int64, width int, cfg Config) float64 {
	if nFull == 0 {
		return 0
	}
	blocksPerFullRun := math.Ceil(float64(width) * float64(kMax) / float64(cfg.IOSize))
	blocksForLastRun := math.Ceil(float64(width) * float64(nLast) / float64(cfg.IOSize))
	return cfg.SeekCost * (float64(nFull)*blocksPerFullRun + blocksForLastRun)
}

// mergeReductionCost simulates merge_many over the (nFull+1)-length
// vector of per-run sizes [kMax, kMax, ..., nLast], summing the cost of
// every bounded-fan-in reduction pass plus the final merge, until one
// run remains.
func mergeReductionCost(nFull, nLast, kMax int64, width int, cfg Config) float64 {
	sizes := make([]float64, 0, nFull+1)
	for i := int64(0); i < nFull; i++ {
		sizes = append(sizes, float64(kMax))
	}
	sizes = append(sizes, float64(nLast))

	if len(sizes) <= 1 {
		return 0
	}

	total := 0.0
	runs := sizes
	for len(runs) > defaultFanInThreshold {
		groupSizes := merge.GroupSizes(len(runs), defaultFanIn)
		newRuns := make([]float64, 0, len(groupSizes))

		idx := 0
		for _, gc := range groupSizes {
			group := runs[idx : idx+gc]
			idx += gc
			total += mergeBuffersCost(group, width, cfg)
			newRuns = append(newRuns, sum(group))
		}
		runs = newRuns
	}

	if len(runs) > 1 {
		total += mergeBuffersCost(runs, width, cfg)
	}
	return total
}

// mergeBuffersCost is merge_buffers_cost(group) from the spec: the I/O
// cost of reading and writing every key in the group once, plus a
// comparison cost proportional to log(group size) per key (a balanced
// tournament of len(group) iterators costs O(log len(group)) per key
// emitted).
func mergeBuffersCost(group []float64, width int, cfg Config) float64 {
	s := sum(group)
	ioCost := 2 * s * float64(width) / float64(cfg.IOSize)
	if cfg.CompareTime <= 0 || len(group) <= 1 {
		return ioCost
	}
	cmpCost := s * math.Log(float64(len(group))) / (cfg.CompareTime * math.Ln2)
	return ioCost + cmpCost
}

func sum(xs []float64) float64 {
	var s float64
	for _, x := range xs {
		s += x
	}
	return s
}
