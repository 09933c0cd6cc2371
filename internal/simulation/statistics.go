package simulation

import (
	"math"
	"sort"
)

// calculateStatistics reduces a sequence of per-trial outcomes into a
// Result. The input slice is embedded unmodified so downstream callers
// can render histograms; percentiles and the median come from a sorted
// copy. Shared by every model.
func calculateStatistics(outcomes []int) *Result {
	n := len(outcomes)

	sorted := make([]float64, n)
	sum := 0.0
	over40, over50, over60 := 0, 0, 0
	for i, v := range outcomes {
		sorted[i] = float64(v)
		sum += float64(v)
		if v > 40 {
			over40++
		}
		if v > 50 {
			over50++
		}
		if v > 60 {
			over60++
		}
	}
	sort.Float64s(sorted)

	mean := sum / float64(n)

	// Population standard deviation, matching the usual reduction over
	// a full empirical distribution.
	sumSq := 0.0
	for _, v := range sorted {
		diff := v - mean
		sumSq += diff * diff
	}
	std := math.Sqrt(sumSq / float64(n))

	return &Result{
		MeanHRs:      mean,
		MedianHRs:    percentile(sorted, 50),
		StdHRs:       std,
		ProbOver40:   float64(over40) / float64(n),
		ProbOver50:   float64(over50) / float64(n),
		ProbOver60:   float64(over60) / float64(n),
		Percentile5:  percentile(sorted, 5),
		Percentile95: percentile(sorted, 95),
		Distribution: outcomes,
	}
}

// percentile returns the p-th percentile of sorted values using linear
// interpolation between adjacent order statistics.
func percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return sorted[0]
	}

	rank := p / 100 * float64(n-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}

	frac := rank - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}
