package rowdedup

import "rowdedup/costmodel"

// EstimateCost predicts the seek-equivalent cost of deduplicating n keys
// of width bytes under memBudget, without constructing a Deduper. It is
// the planner-facing entry point a query optimiser calls ahead of
// choosing this strategy; see costmodel.Estimate for the formula.
func EstimateCost(n int64, width int, memBudget int64, cfg costmodel.Config) float64 {
	return costmodel.Estimate(n, width, memBudget, cfg)
}
