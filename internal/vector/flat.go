package vector

import (
	"fmt"
	"sort"
)

// flatBackend is the exact index: a dense list of vectors scanned linearly with
// squared-Euclidean distance. Adds are O(1) appends.
type flatBackend struct {
	dim     int
	vectors [][]float32
}

func newFlatBackend() (*flatBackend, error) {
	return &flatBackend{}, nil
}

func (f *flatBackend) Tag() BackendTag { return BackendFlat }

func (f *flatBackend) Add(vectors [][]float32) error {
	for _, vec := range vectors {
		if f.dim == 0 {
			f.dim = len(vec)
		}
		if len(vec) != f.dim {
			return fmt.Errorf("%w: got %d, expected %d", ErrDimensionMismatch, len(vec), f.dim)
		}
		cp := make([]float32, len(vec))
		copy(cp, vec)
		f.vectors = append(f.vectors, cp)
	}
	return nil
}

func (f *flatBackend) Search(query []float32, k int) ([]Hit, error) {
	if len(f.vectors) == 0 || k <= 0 {
		return nil, nil
	}
	if len(query) != f.dim {
		return nil, fmt.Errorf("%w: query has %d, index has %d", ErrDimensionMismatch, len(query), f.dim)
	}
	dists := make([]Hit, len(f.vectors))
	for i, vec := range f.vectors {
		d2 := SquaredL2(query, vec)
		dists[i] = Hit{Index: i, Similarity: 1.0 / (1.0 + d2)}
	}
	// exact top-k by ascending distance == descending similarity; stable sort
	// keeps insertion order for equal distances
	sort.SliceStable(dists, func(i, j int) bool { return dists[i].Similarity > dists[j].Similarity })
	if k > len(dists) {
		k = len(dists)
	}
	return dists[:k], nil
}

func (f *flatBackend) Size() int { return len(f.vectors) }
