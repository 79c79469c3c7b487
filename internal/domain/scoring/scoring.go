// Package scoring converts finishing orders into championship points and
// applies per-category weight adjustments.
package scoring

import (
	"fmt"
	"math"

	"github.com/okian/champsim/internal/domain/model"
)

// Default FIA tables: ten scoring places for a grand prix, eight for a sprint.
var (
	DefaultMainPoints      = model.PointsTable{25, 18, 15, 12, 10, 8, 6, 4, 2, 1}
	DefaultSecondaryPoints = model.PointsTable{8, 7, 6, 5, 4, 3, 2, 1}
)

// Allocate awards table[rank] to the competitor finishing at rank. The order
// is a permutation of competitor indices, 0 being the winner; its length is
// the competitor count. Ranks past the table score 0. Inputs are not modified.
func Allocate(order []int, table model.PointsTable) []int {
	points := make([]int, len(order))
	n := min(len(table), len(order))
	for rank := 0; rank < n; rank++ {
		points[order[rank]] += table[rank]
	}
	return points
}

// Reweight multiplies base by modifier elementwise and renormalises the
// product to sum to 1.
func Reweight(base, modifier []float64) ([]float64, error) {
	if len(base) != len(modifier) {
		return nil, fmt.Errorf("reweight %d weights with %d modifiers: %w", len(base), len(modifier), ErrLengthMismatch)
	}
	adj := make([]float64, len(base))
	var sum float64
	for i := range base {
		adj[i] = base[i] * modifier[i]
		sum += adj[i]
	}
	switch {
	case math.IsInf(sum, 0) || math.IsNaN(sum):
		return nil, fmt.Errorf("reweight: sum %g: %w", sum, ErrNonFiniteWeight)
	case sum <= 0:
		return nil, ErrZeroWeight
	}
	for i := range adj {
		adj[i] /= sum
	}
	return adj, nil
}

// Total sums a points vector.
func Total(points []int) int {
	var t int
	for _, p := range points {
		t += p
	}
	return t
}
