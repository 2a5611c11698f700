// Package vecmath holds the similarity arithmetic shared by the vector
// index adapters that rank in process.
package vecmath

import (
	"cmp"
	"math"
	"slices"
)

// CosineDistance returns 1 minus the cosine similarity of a and b.
// Vectors of different length or zero magnitude are maximally distant.
func CosineDistance(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 2
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 2
	}
	return 1 - dot/(math.Sqrt(normA)*math.Sqrt(normB))
}

// Candidate is an item being ranked by distance.
type Candidate[T any] struct {
	Item     T
	Distance float64
}

// Nearest scores every item against query and returns the k closest,
// nearest first. Ties keep input order.
func Nearest[T any](query []float32, items []T, vector func(T) []float32, k int) []Candidate[T] {
	if k <= 0 || len(items) == 0 {
		return nil
	}

	scored := make([]Candidate[T], len(items))
	for i, item := range items {
		scored[i] = Candidate[T]{Item: item, Distance: CosineDistance(query, vector(item))}
	}
	slices.SortStableFunc(scored, func(a, b Candidate[T]) int {
		return cmp.Compare(a.Distance, b.Distance)
	})

	if len(scored) > k {
		scored = scored[:k]
	}
	return scored
}
