package embeddings

import (
	"context"
	"fmt"
	"os"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiEmbedder generates embeddings through the Google Gemini API.
type GeminiEmbedder struct {
	model     string
	dimension int
}

// NewGeminiEmbedder creates an embedder backed by Gemini's batch embedding
// API. GEMINI_API_KEY must be set.
func NewGeminiEmbedder(model string, dimension int) (*GeminiEmbedder, error) {
	if os.Getenv("GEMINI_API_KEY") == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable not set")
	}
	if model == "" {
		model = "text-embedding-004"
	}
	return &GeminiEmbedder{
		model:     model,
		dimension: dimension,
	}, nil
}

func (e *GeminiEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(os.Getenv("GEMINI_API_KEY")))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	defer client.Close()

	em := client.EmbeddingModel(e.model)
	batch := em.NewBatch()
	for _, text := range texts {
		batch = batch.AddContent(genai.Text(text))
	}

	resp, err := em.BatchEmbedContents(ctx, batch)
	if err != nil {
		return nil, fmt.Errorf("failed to embed contents: %w", err)
	}

	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(texts), len(resp.Embeddings))
	}

	vectors := make([][]float32, len(resp.Embeddings))
	for i, emb := range resp.Embeddings {
		if emb == nil {
			return nil, fmt.Errorf("empty embedding returned for document %d", i)
		}
		vectors[i] = emb.Values
	}

	if err := checkDimensions(vectors, e.dimension); err != nil {
		return nil, err
	}

	return vectors, nil
}

func (e *GeminiEmbedder) Dimension() int {
	return e.dimension
}

func (e *GeminiEmbedder) Model() string {
	return e.model
}
