package simulation

import (
	"math/rand"
)

// uniformRange draws a float64 uniformly from [min, max).
func uniformRange(rng *rand.Rand, min, max float64) float64 {
	return min + rng.Float64()*(max-min)
}

// sampleBinomial draws the number of successes in n Bernoulli trials
// with success probability p. Direct sampling keeps every outcome an
// exact non-negative integer; n is a few hundred at most here, so the
// O(n) loop is not worth replacing with an approximation.
func sampleBinomial(rng *rand.Rand, n int, p float64) int {
	if n <= 0 || p <= 0 {
		return 0
	}
	if p >= 1 {
		return n
	}

	successes := 0
	for i := 0; i < n; i++ {
		if rng.Float64() < p {
			successes++
		}
	}
	return successes
}
