// Package embedding provides text embedding via ONNX with a deterministic hash fallback.
package embedding

import (
	"context"
	"errors"
	"fmt"
)

// ErrModelUnavailable reports that the embedding backend could not be loaded.
// This is fatal to the whole system: nothing downstream can function without it.
var ErrModelUnavailable = errors.New("embedding model unavailable")

// Embedder produces vector embeddings for text. Embeddings are deterministic
// for a given implementation and input, and all vectors share one dimension.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
	Close() error
}

// Options configure the embedding provider.
type Options struct {
	// ModelPath points at an ONNX sentence-embedding model. Empty selects the
	// hash embedder.
	ModelPath  string
	Dimensions int
	MaxTokens  int
	CacheSize  int
}

// NewEmbedder constructs the embedding provider. When ModelPath is set the
// ONNX embedder is required and a load failure is returned wrapped in
// ErrModelUnavailable; when unset the hash embedder is used.
func NewEmbedder(opts Options) (Embedder, error) {
	if opts.ModelPath == "" {
		return NewHashEmbedder(opts.Dimensions), nil
	}
	emb, err := NewONNXEmbedder(opts.ModelPath, opts.Dimensions, opts.MaxTokens, opts.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}
	return emb, nil
}
