//go:build cgo
// +build cgo

package embedding

import (
	"context"
	"fmt"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

// ONNXEmbedder runs a sentence-embedding model through ONNX Runtime. It
// requires CGO and the onnxruntime shared library. Tensors are allocated once
// and refilled per call, so inference is serialized by the mutex.
type ONNXEmbedder struct {
	session   *ort.AdvancedSession
	dims      int
	maxTokens int
	cache     *EmbeddingCache
	tokenizer Tokenizer

	mu     sync.Mutex
	inputs [3]*ort.Tensor[int64] // input_ids, attention_mask, token_type_ids
	output *ort.Tensor[float32]
}

var onnxInputNames = []string{"input_ids", "attention_mask", "token_type_ids"}

// NewONNXEmbedder loads the model at modelPath. The ONNX environment is
// initialized on first use.
func NewONNXEmbedder(modelPath string, dimensions, maxTokens, cacheSize int) (*ONNXEmbedder, error) {
	if err := ort.InitializeEnvironment(); err != nil {
		return nil, fmt.Errorf("initialize ONNX runtime: %w", err)
	}

	e := &ONNXEmbedder{
		dims:      dimensions,
		maxTokens: maxTokens,
		cache:     NewEmbeddingCache(cacheSize),
		tokenizer: &SimpleTokenizer{},
	}

	var created []ort.ArbitraryTensor
	fail := func(err error) (*ONNXEmbedder, error) {
		for _, t := range created {
			_ = t.Destroy()
		}
		return nil, err
	}

	tokenShape := ort.NewShape(1, int64(maxTokens))
	for i, name := range onnxInputNames {
		t, err := ort.NewTensor(tokenShape, make([]int64, maxTokens))
		if err != nil {
			return fail(fmt.Errorf("create %s tensor: %w", name, err))
		}
		e.inputs[i] = t
		created = append(created, t)
	}
	out, err := ort.NewTensor(ort.NewShape(1, int64(dimensions)), make([]float32, dimensions))
	if err != nil {
		return fail(fmt.Errorf("create output tensor: %w", err))
	}
	e.output = out
	created = append(created, out)

	session, err := ort.NewAdvancedSession(
		modelPath,
		onnxInputNames,
		[]string{"output"},
		[]ort.ArbitraryTensor{e.inputs[0], e.inputs[1], e.inputs[2]},
		[]ort.ArbitraryTensor{e.output},
		nil,
	)
	if err != nil {
		return fail(fmt.Errorf("create ONNX session for %s: %w", modelPath, err))
	}
	e.session = session
	return e, nil
}

// Embed returns the normalized embedding for text, consulting the cache first.
func (e *ONNXEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if vec, ok := e.cache.Get(text); ok {
		return vec, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	ids, mask, types := e.tokenizer.Tokenize(text, e.maxTokens)
	for i, data := range [][]int64{ids, mask, types} {
		copy(e.inputs[i].GetData(), data)
	}
	if err := e.session.Run(); err != nil {
		return nil, fmt.Errorf("onnx inference: %w", err)
	}

	vec := append([]float32(nil), e.output.GetData()[:e.dims]...)
	NormalizeL2(vec)
	e.cache.Set(text, vec)
	return vec, nil
}

// EmbedBatch embeds each text in order.
func (e *ONNXEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := e.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

// Dimensions returns the embedding dimension.
func (e *ONNXEmbedder) Dimensions() int {
	return e.dims
}

// Close releases the session and all tensors.
func (e *ONNXEmbedder) Close() error {
	var err error
	if e.session != nil {
		err = e.session.Destroy()
		e.session = nil
	}
	for i, t := range e.inputs {
		if t != nil {
			_ = t.Destroy()
			e.inputs[i] = nil
		}
	}
	if e.output != nil {
		_ = e.output.Destroy()
		e.output = nil
	}
	return err
}
