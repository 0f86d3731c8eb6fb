// Package embedder converts text to fixed-dimension vectors for the
// semantic memory layer.
package embedder

import (
	"context"

	"github.com/mnemo-ai/mnemo/internal/embedder/mock"
	merrors "github.com/mnemo-ai/mnemo/internal/errors"
)

// Embedder converts text to vector embeddings.
type Embedder interface {
	// Embed converts a single text to an embedding vector.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Dimensions returns the embedding vector size.
	Dimensions() int
}

// Config selects and configures an embedding backend.
type Config struct {
	// Model is the embedding model identifier. "mock" selects the
	// deterministic hash embedder; anything else runs through ONNX.
	Model string

	// ModelPath is the path to the ONNX model file.
	ModelPath string

	// TokenizerPath is the path to the tokenizer.json file.
	TokenizerPath string

	// Dimensions is the embedding vector size (default 384).
	Dimensions int
}

// ErrRuntimeUnavailable reports that no embedding runtime is compiled in
// or loadable. Callers treat it as a permanent degraded mode, not a fault.
var ErrRuntimeUnavailable = merrors.New(merrors.CodeEmbedderUnavailable,
	"embedding runtime not available").
	WithSuggestion("build with -tags onnx and set semantic.model_path, or use model \"mock\"")

// New creates the embedder named by cfg.Model. Construction may fail when
// the embedding runtime is missing; the caller is expected to degrade.
func New(cfg Config) (Embedder, error) {
	if cfg.Dimensions == 0 {
		cfg.Dimensions = 384
	}
	if cfg.Model == "mock" {
		return mock.New(cfg.Dimensions), nil
	}
	return newONNX(cfg)
}
