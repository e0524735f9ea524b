package vectorspace

import (
	"math"
	"sort"
)

// Vector is a sparse, non-negative term-weight vector. Indices are sorted and
// unique; every Vector produced by a Space shares the Space's dimension.
type Vector struct {
	dim     int
	indices []int
	values  []float64
}

// newVector builds an L2-normalized vector from index->weight pairs.
// Zero weights are dropped; an all-zero input yields the zero vector.
func newVector(dim int, weights map[int]float64) Vector {
	indices := make([]int, 0, len(weights))
	for idx, w := range weights {
		if w > 0 {
			indices = append(indices, idx)
		}
	}
	sort.Ints(indices)

	values := make([]float64, len(indices))
	var sumSq float64
	for i, idx := range indices {
		values[i] = weights[idx]
		sumSq += values[i] * values[i]
	}
	if sumSq == 0 {
		return Vector{dim: dim}
	}
	norm := math.Sqrt(sumSq)
	for i := range values {
		values[i] /= norm
	}
	return Vector{dim: dim, indices: indices, values: values}
}

// Dim returns the vector dimension (the vocabulary size).
func (v Vector) Dim() int { return v.dim }

// NNZ returns the number of non-zero entries.
func (v Vector) NNZ() int { return len(v.indices) }

// IsZero reports whether the vector has no non-zero entries.
func (v Vector) IsZero() bool { return len(v.indices) == 0 }

// At returns the weight at the given vocabulary index.
func (v Vector) At(idx int) float64 {
	i := sort.SearchInts(v.indices, idx)
	if i < len(v.indices) && v.indices[i] == idx {
		return v.values[i]
	}
	return 0
}

// Entries returns copies of the non-zero indices and their weights.
func (v Vector) Entries() ([]int, []float64) {
	indices := make([]int, len(v.indices))
	copy(indices, v.indices)
	values := make([]float64, len(v.values))
	copy(values, v.values)
	return indices, values
}

// Dense expands the vector into a slice of length Dim.
func (v Vector) Dense() []float64 {
	out := make([]float64, v.dim)
	for i, idx := range v.indices {
		out[idx] = v.values[i]
	}
	return out
}

// Norm returns the Euclidean norm.
func (v Vector) Norm() float64 {
	var sumSq float64
	for _, x := range v.values {
		sumSq += x * x
	}
	return math.Sqrt(sumSq)
}

// Dot returns the inner product of two sparse vectors.
func (v Vector) Dot(o Vector) float64 {
	var dot float64
	i, j := 0, 0
	for i < len(v.indices) && j < len(o.indices) {
		switch {
		case v.indices[i] == o.indices[j]:
			dot += v.values[i] * o.values[j]
			i++
			j++
		case v.indices[i] < o.indices[j]:
			i++
		default:
			j++
		}
	}
	return dot
}

// Cosine returns the cosine similarity of a and b clamped to [0, 1].
// It is 0 when either vector has zero norm or the dimensions differ.
func Cosine(a, b Vector) float64 {
	if a.dim != b.dim {
		return 0
	}
	na, nb := a.Norm(), b.Norm()
	if na == 0 || nb == 0 {
		return 0
	}
	sim := a.Dot(b) / (na * nb)
	switch {
	case sim < 0:
		return 0
	case sim > 1:
		return 1
	}
	return sim
}
