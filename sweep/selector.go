package sweep

import "math"

// SelectOptimal returns the lowest-scoring candidate in one linear pass.
//
// items must already be in canonical (assoc, nsets) order. A later candidate
// replaces the current best only when its score is strictly less, so among
// equal scores the first one wins: the smallest assoc, then the smallest
// nsets. A NaN score never replaces the best; a NaN first candidate is
// replaced by the first comparable one.
//
// Returns the zero value, -1 and false for an empty slice.
func SelectOptimal[T any](items []T, score func(T) float64) (best T, idx int, ok bool) {
	idx = -1
	var bestScore float64
	for i, it := range items {
		s := score(it)
		if idx < 0 || s < bestScore || (math.IsNaN(bestScore) && !math.IsNaN(s)) {
			best, idx, bestScore = it, i, s
		}
	}
	return best, idx, idx >= 0
}
