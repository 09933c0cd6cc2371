package simulation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateStatisticsKnownValues(t *testing.T) {
	outcomes := []int{2, 4, 4, 4, 5, 5, 7, 9}

	result := calculateStatistics(outcomes)

	assert.InDelta(t, 5.0, result.MeanHRs, 1e-9)
	assert.InDelta(t, 4.5, result.MedianHRs, 1e-9)
	// Population (not sample) standard deviation.
	assert.InDelta(t, 2.0, result.StdHRs, 1e-9)
	assert.Zero(t, result.ProbOver40)
	assert.Zero(t, result.ProbOver50)
	assert.Zero(t, result.ProbOver60)
}

func TestCalculateStatisticsThresholdsAreStrict(t *testing.T) {
	// Exactly 40 does not count as "over 40".
	outcomes := []int{40, 40, 41, 50, 51, 60, 61, 61}

	result := calculateStatistics(outcomes)

	assert.InDelta(t, 6.0/8.0, result.ProbOver40, 1e-9)
	assert.InDelta(t, 4.0/8.0, result.ProbOver50, 1e-9)
	assert.InDelta(t, 2.0/8.0, result.ProbOver60, 1e-9)
}

func TestCalculateStatisticsMedian(t *testing.T) {
	tests := []struct {
		name     string
		outcomes []int
		median   float64
	}{
		{"odd length", []int{3, 1, 2}, 2},
		{"even length interpolates", []int{1, 2, 3, 4}, 2.5},
		{"single element", []int{7}, 7},
		{"unsorted input", []int{9, 1, 5, 3, 7}, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := calculateStatistics(tt.outcomes)
			assert.InDelta(t, tt.median, result.MedianHRs, 1e-9)
		})
	}
}

func TestPercentileLinearInterpolation(t *testing.T) {
	sorted := []float64{10, 20, 30, 40, 50}

	tests := []struct {
		p        float64
		expected float64
	}{
		{0, 10},
		{25, 20},
		{50, 30},
		{100, 50},
		// rank 0.05*(5-1) = 0.2 -> 10 + 0.2*(20-10)
		{5, 12},
		// rank 0.95*4 = 3.8 -> 40 + 0.8*(50-40)
		{95, 48},
	}

	for _, tt := range tests {
		assert.InDelta(t, tt.expected, percentile(sorted, tt.p), 1e-9)
	}
}

func TestCalculateStatisticsEmbedsOriginalSequence(t *testing.T) {
	outcomes := []int{5, 1, 3}

	result := calculateStatistics(outcomes)

	// The embedded distribution keeps the draw order; sorting happens
	// on an internal copy only.
	require.Equal(t, []int{5, 1, 3}, result.Distribution)
	assert.Equal(t, []int{5, 1, 3}, outcomes)
}
