// Package recommend ranks cover images by the semantic similarity of their
// extracted text and produces a fixed-size neighbor list per image.
package recommend

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/booksnap/booksnap/internal/embeddings"
	"github.com/booksnap/booksnap/internal/ocr"
)

// Cosine returns the cosine similarity of two vectors, in [-1, 1]. A zero
// vector has no direction, so its similarity to anything is 0.
func Cosine(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// Matrix computes the full pairwise similarity matrix. The result is square
// and symmetric with a unit diagonal.
func Matrix(vectors [][]float32) [][]float64 {
	n := len(vectors)
	matrix := make([][]float64, n)
	for i := range matrix {
		matrix[i] = make([]float64, n)
		matrix[i][i] = 1
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			sim := Cosine(vectors[i], vectors[j])
			matrix[i][j] = sim
			matrix[j][i] = sim
		}
	}
	return matrix
}

// TopK produces up to k recommendations per key from a similarity matrix.
// keys[i] labels row i. Each list is sorted by descending similarity, ties
// keep enumeration order, and a key never recommends itself. Lists are
// capped at min(k, N-1); nothing is padded.
func TopK(keys []string, matrix [][]float64, k int) map[string][]string {
	recommendations := make(map[string][]string, len(keys))

	for i, key := range keys {
		row := matrix[i]

		order := make([]int, len(keys))
		for j := range order {
			order[j] = j
		}
		sort.SliceStable(order, func(x, y int) bool {
			return row[order[x]] > row[order[y]]
		})

		recs := make([]string, 0, k)
		for _, j := range order {
			if j == i {
				continue
			}
			recs = append(recs, keys[j])
			if len(recs) == k {
				break
			}
		}
		recommendations[key] = recs
	}

	return recommendations
}

// Build runs the full ranking stage: images with no extracted text are
// excluded, the remaining documents are embedded in one batch call, and the
// similarity matrix is ranked into per-image recommendation lists. Keys are
// enumerated in sorted order so reruns over the same data are deterministic.
func Build(ctx context.Context, ocrData map[string]ocr.TokenSequence, embedder embeddings.Embedder, k int) (map[string][]string, error) {
	keys := make([]string, 0, len(ocrData))
	for key := range ocrData {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	eligible := make([]string, 0, len(keys))
	documents := make([]string, 0, len(keys))
	for _, key := range keys {
		tokens := ocrData[key]
		if len(tokens) == 0 {
			slog.Info("Excluding image with no extracted text", "image", key)
			continue
		}
		eligible = append(eligible, key)
		documents = append(documents, tokens.Document())
	}

	if len(eligible) == 0 {
		return map[string][]string{}, nil
	}

	vectors, err := embedder.EmbedBatch(ctx, documents)
	if err != nil {
		return nil, fmt.Errorf("failed to embed documents: %w", err)
	}
	if len(vectors) != len(documents) {
		return nil, fmt.Errorf("expected %d vectors, got %d", len(documents), len(vectors))
	}

	matrix := Matrix(vectors)
	recommendations := TopK(eligible, matrix, k)

	slog.Info("Built recommendations", "model", embedder.Model(), "images", len(eligible), "top_k", k)
	return recommendations, nil
}
