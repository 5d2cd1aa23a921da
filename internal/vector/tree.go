package vector

import (
	"fmt"
	"math/rand"
	"sort"
)

const (
	treeCount    = 10
	treeLeafSize = 16
	// rebuilds must be reproducible so persisted indexes rank identically on reload
	treeSeed = 42
)

// treeBackend is the approximate index: a forest of random-projection trees
// over angular distance. Adding requires a full rebuild, whose cost grows with
// corpus size; acceptable here because log/KB corpora are small.
type treeBackend struct {
	dim     int
	vectors [][]float32
	roots   []*treeNode
}

type treeNode struct {
	// internal node: hyperplane normal and threshold
	normal    []float32
	threshold float64
	left      *treeNode
	right     *treeNode
	// leaf node: vector positions in insertion order
	items []int
}

func newTreeBackend() (*treeBackend, error) {
	return &treeBackend{}, nil
}

func (t *treeBackend) Tag() BackendTag { return BackendTree }

func (t *treeBackend) Add(vectors [][]float32) error {
	for _, vec := range vectors {
		if t.dim == 0 {
			t.dim = len(vec)
		}
		if len(vec) != t.dim {
			return fmt.Errorf("%w: got %d, expected %d", ErrDimensionMismatch, len(vec), t.dim)
		}
		cp := make([]float32, len(vec))
		copy(cp, vec)
		t.vectors = append(t.vectors, cp)
	}
	t.rebuild()
	return nil
}

// rebuild regenerates the whole forest from the current vectors.
func (t *treeBackend) rebuild() {
	t.roots = t.roots[:0]
	if len(t.vectors) == 0 {
		return
	}
	rng := rand.New(rand.NewSource(treeSeed))
	all := make([]int, len(t.vectors))
	for i := range all {
		all[i] = i
	}
	for i := 0; i < treeCount; i++ {
		items := make([]int, len(all))
		copy(items, all)
		t.roots = append(t.roots, t.buildNode(items, rng, 0))
	}
}

func (t *treeBackend) buildNode(items []int, rng *rand.Rand, depth int) *treeNode {
	if len(items) <= treeLeafSize || depth > 30 {
		return &treeNode{items: items}
	}
	a := items[rng.Intn(len(items))]
	b := items[rng.Intn(len(items))]
	if a == b {
		return &treeNode{items: items}
	}
	normal := make([]float32, t.dim)
	var threshold float64
	for i := 0; i < t.dim; i++ {
		normal[i] = t.vectors[a][i] - t.vectors[b][i]
		mid := float64(t.vectors[a][i]+t.vectors[b][i]) / 2
		threshold += float64(normal[i]) * mid
	}
	var left, right []int
	for _, item := range items {
		if dotF32(normal, t.vectors[item]) <= threshold {
			left = append(left, item)
		} else {
			right = append(right, item)
		}
	}
	if len(left) == 0 || len(right) == 0 {
		return &treeNode{items: items}
	}
	return &treeNode{
		normal:    normal,
		threshold: threshold,
		left:      t.buildNode(left, rng, depth+1),
		right:     t.buildNode(right, rng, depth+1),
	}
}

func (t *treeBackend) Search(query []float32, k int) ([]Hit, error) {
	if len(t.vectors) == 0 || k <= 0 {
		return nil, nil
	}
	if len(query) != t.dim {
		return nil, fmt.Errorf("%w: query has %d, index has %d", ErrDimensionMismatch, len(query), t.dim)
	}
	// collect candidates across the forest, then rank them exactly
	budget := k * treeCount
	if budget < 4*treeLeafSize {
		budget = 4 * treeLeafSize
	}
	seen := make(map[int]struct{})
	for _, root := range t.roots {
		remaining := budget / treeCount
		t.collect(root, query, seen, &remaining)
	}
	candidates := make([]int, 0, len(seen))
	for idx := range seen {
		candidates = append(candidates, idx)
	}
	// ties in similarity resolve to index build order
	sort.Ints(candidates)
	hits := make([]Hit, len(candidates))
	for i, idx := range candidates {
		d := AngularDistance(query, t.vectors[idx])
		hits[i] = Hit{Index: idx, Similarity: 1.0 / (1.0 + d)}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Similarity > hits[j].Similarity })
	if k > len(hits) {
		k = len(hits)
	}
	return hits[:k], nil
}

// collect descends toward the query's side of each hyperplane first, spilling
// into the far side while the candidate budget allows.
func (t *treeBackend) collect(node *treeNode, query []float32, seen map[int]struct{}, remaining *int) {
	if node == nil || *remaining <= 0 {
		return
	}
	if node.items != nil {
		for _, idx := range node.items {
			if _, ok := seen[idx]; !ok {
				seen[idx] = struct{}{}
				*remaining--
			}
		}
		return
	}
	near, far := node.left, node.right
	if dotF32(node.normal, query) > node.threshold {
		near, far = node.right, node.left
	}
	t.collect(near, query, seen, remaining)
	t.collect(far, query, seen, remaining)
}

func (t *treeBackend) Size() int { return len(t.vectors) }

func dotF32(a, b []float32) float64 {
	var dot float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
	}
	return dot
}
