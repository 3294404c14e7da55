// ABOUTME: Flat append-only vector index with exact L2 nearest-neighbor search
// ABOUTME: Handles are assigned in insertion order and never reused
package index

import (
	"fmt"
	"sort"
)

// VectorIndex holds embedding vectors and answers k-nearest-neighbor
// queries by brute-force scan. It is append-only: there is no delete or
// update, rebuilding means constructing a fresh index.
type VectorIndex struct {
	dimension int
	vectors   [][]float64
}

// Hit is one search result: the handle of a stored vector and its
// distance from the query.
type Hit struct {
	Handle   int
	Distance float64
}

// NewVectorIndex creates an empty index. The dimension is established by
// the first vector added.
func NewVectorIndex() *VectorIndex {
	return &VectorIndex{}
}

// Count returns the number of stored vectors.
func (vi *VectorIndex) Count() int {
	return len(vi.vectors)
}

// Dimension returns the established vector dimension, or 0 while empty.
func (vi *VectorIndex) Dimension() int {
	return vi.dimension
}

// Add appends vectors, assigning contiguous handles in input order.
// Nothing is appended if any vector's dimension disagrees with the
// established one.
func (vi *VectorIndex) Add(vectors [][]float64) error {
	if len(vectors) == 0 {
		return nil
	}

	dim := vi.dimension
	if dim == 0 {
		dim = len(vectors[0])
		if dim == 0 {
			return fmt.Errorf("%w: zero-length vector", ErrDimensionMismatch)
		}
	}
	for i, v := range vectors {
		if len(v) != dim {
			return fmt.Errorf("%w: vector %d has dimension %d, index has %d",
				ErrDimensionMismatch, i, len(v), dim)
		}
	}

	vi.dimension = dim
	vi.vectors = append(vi.vectors, vectors...)
	return nil
}

// Search returns the min(k, Count) stored vectors closest to query,
// ascending by squared L2 distance. Squared distance preserves the true
// Euclidean ordering and matches a flat-L2 index's raw scores; callers
// compare scores only within one index. Ties break on ascending handle.
// Searching an empty index returns an empty result set, not an error.
func (vi *VectorIndex) Search(query []float64, k int) ([]Hit, error) {
	if len(vi.vectors) == 0 {
		return nil, nil
	}
	if len(query) != vi.dimension {
		return nil, fmt.Errorf("%w: query has dimension %d, index has %d",
			ErrDimensionMismatch, len(query), vi.dimension)
	}
	if k <= 0 {
		return nil, nil
	}

	hits := make([]Hit, len(vi.vectors))
	for i, v := range vi.vectors {
		hits[i] = Hit{Handle: i, Distance: squaredL2(query, v)}
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Distance != hits[j].Distance {
			return hits[i].Distance < hits[j].Distance
		}
		return hits[i].Handle < hits[j].Handle
	})

	if k < len(hits) {
		hits = hits[:k]
	}
	return hits, nil
}

// vectorAt returns the stored vector for a handle. Used by persistence.
func (vi *VectorIndex) vectorAt(handle int) []float64 {
	return vi.vectors[handle]
}

// squaredL2 computes the sum of per-dimension squared differences.
func squaredL2(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
