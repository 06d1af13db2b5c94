package embeddings

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
)

// OllamaEmbedder generates embeddings through a local Ollama instance.
type OllamaEmbedder struct {
	model     string
	dimension int
}

// NewOllamaEmbedder creates an embedder backed by Ollama's /api/embed
// endpoint. The host is taken from OLLAMA_URL or OLLAMA_HOST, defaulting to
// http://localhost:11434.
func NewOllamaEmbedder(model string, dimension int) *OllamaEmbedder {
	return &OllamaEmbedder{
		model:     model,
		dimension: dimension,
	}
}

func (e *OllamaEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	ollamaHost := os.Getenv("OLLAMA_URL")
	if ollamaHost == "" {
		ollamaHost = os.Getenv("OLLAMA_HOST")
	}
	if ollamaHost == "" {
		ollamaHost = "http://localhost:11434"
	}

	requestBody := map[string]interface{}{
		"model": e.model,
		"input": texts,
	}

	jsonData, err := json.Marshal(requestBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal embed request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", ollamaHost+"/api/embed", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create embed request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call Ollama embed API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("ollama embed API returned status %d: %s", resp.StatusCode, string(body))
	}

	var ollamaResp struct {
		Embeddings [][]float32 `json:"embeddings"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&ollamaResp); err != nil {
		return nil, fmt.Errorf("failed to decode Ollama embed response: %w", err)
	}

	if len(ollamaResp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(texts), len(ollamaResp.Embeddings))
	}

	if err := checkDimensions(ollamaResp.Embeddings, e.dimension); err != nil {
		return nil, err
	}

	return ollamaResp.Embeddings, nil
}

func (e *OllamaEmbedder) Dimension() int {
	return e.dimension
}

func (e *OllamaEmbedder) Model() string {
	return e.model
}
