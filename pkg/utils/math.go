package utils

import (
	"sort"

	"gonum.org/v1/gonum/floats"
)

// NormalizeL2 scales x in place to unit L2 norm.
// If the norm is zero, the slice is unchanged.
func NormalizeL2(x []float64) {
	if norm := floats.Norm(x, 2); norm != 0 {
		floats.Scale(1/norm, x)
	}
}

// NormalizeL1 scales x in place so its absolute values sum to one.
// If the sum is zero, the slice is unchanged.
func NormalizeL1(x []float64) {
	if sum := floats.Norm(x, 1); sum != 0 {
		floats.Scale(1/sum, x)
	}
}

// Median returns the median of values without modifying them; the mean of the
// two middle values for even lengths. Returns 0 for an empty slice.
func Median(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
