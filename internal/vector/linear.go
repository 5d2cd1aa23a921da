package vector

import (
	"fmt"
	"sort"
)

// linearBackend is the raw fallback: a plain list of rows with cosine
// similarity computed manually per query against every row. It has no build
// step and can always initialize, making it the last probe candidate.
type linearBackend struct {
	dim  int
	rows [][]float32
}

func newLinearBackend() (*linearBackend, error) {
	return &linearBackend{}, nil
}

func (l *linearBackend) Tag() BackendTag { return BackendLinear }

func (l *linearBackend) Add(vectors [][]float32) error {
	for _, vec := range vectors {
		if l.dim == 0 {
			l.dim = len(vec)
		}
		if len(vec) != l.dim {
			return fmt.Errorf("%w: got %d, expected %d", ErrDimensionMismatch, len(vec), l.dim)
		}
		cp := make([]float32, len(vec))
		copy(cp, vec)
		l.rows = append(l.rows, cp)
	}
	return nil
}

func (l *linearBackend) Search(query []float32, k int) ([]Hit, error) {
	if len(l.rows) == 0 || k <= 0 {
		return nil, nil
	}
	if len(query) != l.dim {
		return nil, fmt.Errorf("%w: query has %d, index has %d", ErrDimensionMismatch, len(query), l.dim)
	}
	hits := make([]Hit, len(l.rows))
	for i, row := range l.rows {
		// zero-vector comparisons are similarity 0 by definition
		hits[i] = Hit{Index: i, Similarity: CosineSimilarity(query, row)}
	}
	// stable sort: equal scores keep original insertion order
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Similarity > hits[j].Similarity })
	if k > len(hits) {
		k = len(hits)
	}
	return hits[:k], nil
}

func (l *linearBackend) Size() int { return len(l.rows) }
