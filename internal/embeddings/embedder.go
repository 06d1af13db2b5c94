// Package embeddings turns cover text documents into dense vectors for
// similarity ranking.
package embeddings

import (
	"context"
	"fmt"

	"github.com/booksnap/booksnap/internal/config"
)

// Embedder generates vector embeddings for text documents.
//
// The interface is batch-only on purpose: the pipeline embeds every eligible
// document in a single call so the cost of reaching the model is paid once,
// not per image.
type Embedder interface {
	// EmbedBatch returns one vector per input text, in input order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimension returns the dimensionality of the output vectors.
	Dimension() int

	// Model returns the model identifier used by this embedder.
	Model() string
}

// New creates the embedder named by the configuration.
func New(cfg config.EmbeddingsConfig) (Embedder, error) {
	switch cfg.Provider {
	case "ollama":
		return NewOllamaEmbedder(cfg.Model, cfg.Dimension), nil
	case "openai":
		return NewOpenAIEmbedder(cfg.Model, cfg.Dimension)
	case "gemini":
		return NewGeminiEmbedder(cfg.Model, cfg.Dimension)
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.Provider)
	}
}

// checkDimensions verifies every returned vector has the expected length.
// Vectors from different models must never be mixed in one similarity
// computation, and a dimension mismatch is the cheapest way to catch that.
func checkDimensions(vectors [][]float32, dimension int) error {
	for i, vec := range vectors {
		if len(vec) != dimension {
			return fmt.Errorf("dimension mismatch at vector %d: expected %d, got %d", i, dimension, len(vec))
		}
	}
	return nil
}
