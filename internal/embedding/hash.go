package embedding

import "context"

// HashEmbedder produces deterministic embeddings without a model: each word is
// feature-hashed into the vector and the result normalized to unit length.
// Texts sharing words get correlated vectors, which is enough for the small
// log and knowledge-base corpora this tool handles. It also serves as the
// test embedder.
type HashEmbedder struct {
	dimensions int
}

// NewHashEmbedder returns an embedder producing deterministic embeddings of the given dimensions.
func NewHashEmbedder(dimensions int) *HashEmbedder {
	if dimensions <= 0 {
		dimensions = 384
	}
	return &HashEmbedder{dimensions: dimensions}
}

// Embed returns a deterministic embedding derived from the text's words.
func (e *HashEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	emb := make([]float32, e.dimensions)
	for _, word := range SplitWords(text) {
		h := HashString(word)
		idx := h % e.dimensions
		sign := float32(1)
		if (h/e.dimensions)%2 == 1 {
			sign = -1
		}
		emb[idx] += sign
		// second probe reduces hash collisions washing each other out
		emb[(h*31+7)%e.dimensions] += sign * 0.5
	}
	NormalizeL2(emb)
	return emb, nil
}

// EmbedBatch calls Embed for each text.
func (e *HashEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	embeddings := make([][]float32, len(texts))
	for i, text := range texts {
		emb, err := e.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		embeddings[i] = emb
	}
	return embeddings, nil
}

// Dimensions returns the embedding dimension.
func (e *HashEmbedder) Dimensions() int {
	return e.dimensions
}

// Close is a no-op for HashEmbedder.
func (e *HashEmbedder) Close() error {
	return nil
}
