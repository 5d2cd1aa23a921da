// Package vector provides the pluggable vector index at the heart of LogSentry:
// a single add/search/size contract over interchangeable nearest-neighbor
// backends, selected once at construction by ordered capability probing.
package vector

import (
	"errors"
	"fmt"
)

// BackendTag identifies one concrete nearest-neighbor strategy. The tag is
// persisted with the index so reload always resolves the strategy that built it.
type BackendTag string

const (
	// BackendFlat is an exact index: dense vector list, linear scan with
	// squared-Euclidean distance.
	BackendFlat BackendTag = "flat"
	// BackendTree is an approximate index: random-projection trees over
	// angular distance, rebuilt on every add.
	BackendTree BackendTag = "tree"
	// BackendNeighbors is a brute-force neighbor search: in-memory matrix with
	// precomputed magnitudes and cosine metric, refit on every add.
	BackendNeighbors BackendTag = "neighbors"
	// BackendLinear is the raw fallback: plain rows, manual cosine per query.
	BackendLinear BackendTag = "linear"
)

var (
	// ErrNoBackendAvailable reports that no backend could be initialized.
	ErrNoBackendAvailable = errors.New("no vector backend available")
	// ErrBackendMismatch reports a persisted index whose backend tag does not
	// match the requested one. Searching it with a different strategy is
	// undefined, so this is fatal.
	ErrBackendMismatch = errors.New("vector backend mismatch")
	// ErrDimensionMismatch reports a vector whose dimension differs from the index.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")
)

// Hit is a single backend search hit: the document position in insertion order
// and its similarity under the backend's metric.
type Hit struct {
	Index      int
	Similarity float64
}

// Backend is one nearest-neighbor strategy. Callers never depend on which
// concrete strategy is active: similarity values are only meaningful for
// relative ranking within one backend.
type Backend interface {
	Tag() BackendTag
	// Add appends a batch of vectors. Vectors keep their insertion order; the
	// position in that order is the implicit document ID.
	Add(vectors [][]float32) error
	// Search returns up to k hits ordered by descending similarity.
	Search(query []float32, k int) ([]Hit, error)
	Size() int
}

// probeOrder is the fixed backend priority: exact first, then approximate,
// then brute force, then the raw fallback that can always run.
var probeOrder = []struct {
	tag  BackendTag
	init func() (Backend, error)
}{
	{BackendFlat, func() (Backend, error) { return newFlatBackend() }},
	{BackendTree, func() (Backend, error) { return newTreeBackend() }},
	{BackendNeighbors, func() (Backend, error) { return newNeighborsBackend() }},
	{BackendLinear, func() (Backend, error) { return newLinearBackend() }},
}

// probeBackends tries each candidate backend in priority order and returns the
// first that initializes. Failing everything is fatal.
func probeBackends() (Backend, error) {
	var errs []error
	for _, candidate := range probeOrder {
		b, err := candidate.init()
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", candidate.tag, err))
			continue
		}
		return b, nil
	}
	return nil, fmt.Errorf("%w: %v", ErrNoBackendAvailable, errors.Join(errs...))
}

// newBackend resolves a specific tag to a fresh backend instance.
func newBackend(tag BackendTag) (Backend, error) {
	switch tag {
	case BackendFlat:
		return newFlatBackend()
	case BackendTree:
		return newTreeBackend()
	case BackendNeighbors:
		return newNeighborsBackend()
	case BackendLinear:
		return newLinearBackend()
	case "":
		return probeBackends()
	default:
		return nil, fmt.Errorf("unknown vector backend: %s (supported: flat, tree, neighbors, linear)", tag)
	}
}
