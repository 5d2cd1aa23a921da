package vector

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sync"

	"github.com/hyperjump/logsentry/internal/embedding"
	"go.uber.org/zap"
)

// IndexedDocument couples a vector with its metadata in one container, so the
// two can never drift out of sync. The position in the store's document slice
// is the implicit document ID.
type IndexedDocument struct {
	Vector   []float32      `json:"vector"`
	Metadata map[string]any `json:"metadata"`
}

// SearchResult is one similarity hit: the score under the active backend's
// metric and the matched document's metadata.
type SearchResult struct {
	Similarity float64        `json:"similarity"`
	Metadata   map[string]any `json:"metadata"`
}

// artifact is the on-disk index state: one serialized blob per index name.
type artifact struct {
	Backend   BackendTag        `json:"backend"`
	Dimension int               `json:"dimension"`
	Documents []IndexedDocument `json:"documents"`
}

// FlexibleStore is a vector index that degrades gracefully across backends
// while exposing one search contract. The active backend is chosen once at
// construction (ordered probing, or pinned via config) and persisted with the
// index; reloading an index built by a different backend fails.
//
// The store persists its full state after every mutation. Load/mutate/save is
// deliberately non-atomic: this is a single-operator tool and the corpora are
// small.
type FlexibleStore struct {
	name     string
	dir      string
	embedder embedding.Embedder
	backend  Backend

	mu        sync.Mutex
	docs      []IndexedDocument
	dimension int

	logger *zap.Logger
}

// NewFlexibleStore opens or creates the index named name under dir. When tag
// is empty, candidate backends are probed in priority order; otherwise the tag
// is required to match any persisted state.
func NewFlexibleStore(dir, name string, embedder embedding.Embedder, tag BackendTag, logger *zap.Logger) (*FlexibleStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &FlexibleStore{
		name:     name,
		dir:      dir,
		embedder: embedder,
		logger:   logger,
	}

	art, err := s.loadArtifact()
	if err != nil {
		return nil, err
	}
	if art != nil {
		if tag != "" && tag != art.Backend {
			return nil, fmt.Errorf("%w: index %q was built with %q, requested %q", ErrBackendMismatch, name, art.Backend, tag)
		}
		backend, err := newBackend(art.Backend)
		if err != nil {
			return nil, fmt.Errorf("%w: cannot resolve persisted backend %q", ErrBackendMismatch, art.Backend)
		}
		vectors := make([][]float32, len(art.Documents))
		for i, doc := range art.Documents {
			vectors[i] = doc.Vector
		}
		if len(vectors) > 0 {
			if err := backend.Add(vectors); err != nil {
				return nil, fmt.Errorf("rebuild backend from persisted index: %w", err)
			}
		}
		s.backend = backend
		s.docs = art.Documents
		s.dimension = art.Dimension
		logger.Info("loaded existing index",
			zap.String("index", name),
			zap.String("backend", string(art.Backend)),
			zap.Int("documents", len(art.Documents)),
		)
		return s, nil
	}

	backend, err := newBackend(tag)
	if err != nil {
		return nil, err
	}
	s.backend = backend
	logger.Info("vector backend selected",
		zap.String("index", name),
		zap.String("backend", string(backend.Tag())),
	)
	return s, nil
}

// AddDocuments encodes texts, appends the resulting vectors and metadata to
// the index, and persists the new state. A no-op when texts is empty.
func (s *FlexibleStore) AddDocuments(ctx context.Context, texts []string, metadatas []map[string]any) error {
	if len(texts) == 0 {
		return nil
	}
	if len(texts) != len(metadatas) {
		return fmt.Errorf("texts and metadatas length mismatch: %d != %d", len(texts), len(metadatas))
	}
	embeddings, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("encode documents: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, emb := range embeddings {
		if s.dimension == 0 {
			s.dimension = len(emb)
		}
		if len(emb) != s.dimension {
			return fmt.Errorf("%w: got %d, index has %d", ErrDimensionMismatch, len(emb), s.dimension)
		}
	}
	if err := s.backend.Add(embeddings); err != nil {
		return err
	}
	for i := range embeddings {
		s.docs = append(s.docs, IndexedDocument{Vector: embeddings[i], Metadata: metadatas[i]})
	}
	return s.saveLocked()
}

// Search encodes the query and returns up to topK results ordered by
// descending similarity. When filter is non-nil, only documents whose metadata
// is a superset of filter are returned; candidates are fetched unfiltered from
// the backend first, so a filtered result set may be shorter than topK.
// An empty index yields an empty result.
func (s *FlexibleStore) Search(ctx context.Context, query string, topK int, filter map[string]any) ([]SearchResult, error) {
	s.mu.Lock()
	size := len(s.docs)
	s.mu.Unlock()
	if size == 0 {
		return nil, nil
	}
	if topK > size {
		topK = size
	}

	queryEmbedding, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("encode query: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	hits, err := s.backend.Search(queryEmbedding, topK)
	if err != nil {
		return nil, err
	}
	results := make([]SearchResult, 0, len(hits))
	for _, hit := range hits {
		if hit.Index < 0 || hit.Index >= len(s.docs) {
			continue
		}
		metadata := s.docs[hit.Index].Metadata
		if filter != nil && !metadataMatches(metadata, filter) {
			continue
		}
		results = append(results, SearchResult{Similarity: hit.Similarity, Metadata: metadata})
	}
	return results, nil
}

// Size returns the current document count.
func (s *FlexibleStore) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.docs)
}

// Backend returns the active backend tag.
func (s *FlexibleStore) Backend() BackendTag {
	return s.backend.Tag()
}

// Dimension returns the index dimension, or 0 before the first add.
func (s *FlexibleStore) Dimension() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dimension
}

// Reset drops all documents, keeps the active backend, and persists the empty
// state. Used by callers that re-index a whole corpus from scratch.
func (s *FlexibleStore) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	backend, err := newBackend(s.backend.Tag())
	if err != nil {
		return err
	}
	s.backend = backend
	s.docs = nil
	s.dimension = 0
	return s.saveLocked()
}

func (s *FlexibleStore) artifactPath() string {
	return filepath.Join(s.dir, s.name+".json")
}

func (s *FlexibleStore) loadArtifact() (*artifact, error) {
	data, err := os.ReadFile(s.artifactPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read index artifact: %w", err)
	}
	var art artifact
	if err := json.Unmarshal(data, &art); err != nil {
		return nil, fmt.Errorf("parse index artifact: %w", err)
	}
	return &art, nil
}

func (s *FlexibleStore) saveLocked() error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("create index dir: %w", err)
	}
	art := artifact{
		Backend:   s.backend.Tag(),
		Dimension: s.dimension,
		Documents: s.docs,
	}
	data, err := json.Marshal(&art)
	if err != nil {
		return fmt.Errorf("marshal index artifact: %w", err)
	}
	if err := os.WriteFile(s.artifactPath(), data, 0644); err != nil {
		return fmt.Errorf("write index artifact: %w", err)
	}
	return nil
}

// metadataMatches reports whether metadata is a superset of filter.
func metadataMatches(metadata, filter map[string]any) bool {
	for key, want := range filter {
		got, ok := metadata[key]
		if !ok || !equalValue(got, want) {
			return false
		}
	}
	return true
}

// equalValue compares metadata values, tolerating the numeric widening a JSON
// round-trip introduces (ints become float64 on reload).
func equalValue(a, b any) bool {
	if reflect.DeepEqual(a, b) {
		return true
	}
	af, aok := toFloat(a)
	bf, bok := toFloat(b)
	return aok && bok && af == bf
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
