//go:build !cgo
// +build !cgo

package embedding

import (
	"context"
	"errors"
)

var errONNXUnavailable = errors.New("ONNX embedder requires CGO; build with CGO_ENABLED=1 and onnxruntime")

// ONNXEmbedder stub type when built without CGO (see onnx.go for the real implementation).
type ONNXEmbedder struct{}

// NewONNXEmbedder returns an error when built without CGO (ONNX not available).
func NewONNXEmbedder(_ string, _, _, _ int) (*ONNXEmbedder, error) {
	return nil, errONNXUnavailable
}

// Embed is unreachable in the stub; it exists so the type satisfies Embedder.
func (e *ONNXEmbedder) Embed(context.Context, string) ([]float32, error) {
	return nil, errONNXUnavailable
}

// EmbedBatch is unreachable in the stub.
func (e *ONNXEmbedder) EmbedBatch(context.Context, []string) ([][]float32, error) {
	return nil, errONNXUnavailable
}

// Dimensions returns 0 in the stub.
func (e *ONNXEmbedder) Dimensions() int { return 0 }

// Close is a no-op in the stub.
func (e *ONNXEmbedder) Close() error { return nil }
