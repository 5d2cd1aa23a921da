package vector

import (
	"fmt"
	"sort"
)

// neighborsBackend is the brute-force neighbor search: an in-memory matrix with
// the cosine metric, refit on every add (magnitudes recomputed for all rows,
// O(n*d)). Searches are exact.
type neighborsBackend struct {
	dim        int
	matrix     [][]float32
	magnitudes []float64
}

func newNeighborsBackend() (*neighborsBackend, error) {
	return &neighborsBackend{}, nil
}

func (n *neighborsBackend) Tag() BackendTag { return BackendNeighbors }

func (n *neighborsBackend) Add(vectors [][]float32) error {
	for _, vec := range vectors {
		if n.dim == 0 {
			n.dim = len(vec)
		}
		if len(vec) != n.dim {
			return fmt.Errorf("%w: got %d, expected %d", ErrDimensionMismatch, len(vec), n.dim)
		}
		cp := make([]float32, len(vec))
		copy(cp, vec)
		n.matrix = append(n.matrix, cp)
	}
	n.refit()
	return nil
}

// refit recomputes the magnitude of every row.
func (n *neighborsBackend) refit() {
	n.magnitudes = make([]float64, len(n.matrix))
	for i, row := range n.matrix {
		n.magnitudes[i] = Magnitude(row)
	}
}

func (n *neighborsBackend) Search(query []float32, k int) ([]Hit, error) {
	if len(n.matrix) == 0 || k <= 0 {
		return nil, nil
	}
	if len(query) != n.dim {
		return nil, fmt.Errorf("%w: query has %d, index has %d", ErrDimensionMismatch, len(query), n.dim)
	}
	qm := Magnitude(query)
	hits := make([]Hit, 0, len(n.matrix))
	for i, row := range n.matrix {
		var sim float64
		if qm != 0 && n.magnitudes[i] != 0 {
			sim = dotF32(query, row) / (qm * n.magnitudes[i])
		}
		// similarity = 1 - cosine distance
		hits = append(hits, Hit{Index: i, Similarity: sim})
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Similarity > hits[j].Similarity })
	if k > len(hits) {
		k = len(hits)
	}
	return hits[:k], nil
}

func (n *neighborsBackend) Size() int { return len(n.matrix) }
