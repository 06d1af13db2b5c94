package recommend

import (
	"context"
	"fmt"
	"math"
	"reflect"
	"testing"

	"github.com/booksnap/booksnap/internal/ocr"
)

const tolerance = 1e-9

// fakeEmbedder returns canned vectors keyed by document text.
type fakeEmbedder struct {
	vectors   map[string][]float32
	dimension int
	calls     int
}

func (f *fakeEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	f.calls++
	result := make([][]float32, len(texts))
	for i, text := range texts {
		vec, ok := f.vectors[text]
		if !ok {
			return nil, fmt.Errorf("no canned vector for %q", text)
		}
		result[i] = vec
	}
	return result, nil
}

func (f *fakeEmbedder) Dimension() int { return f.dimension }
func (f *fakeEmbedder) Model() string  { return "fake" }

func TestCosine(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []float32
		expected float64
	}{
		{
			name:     "identical unit vectors",
			a:        []float32{1, 0, 0},
			b:        []float32{1, 0, 0},
			expected: 1,
		},
		{
			name:     "orthogonal vectors",
			a:        []float32{1, 0},
			b:        []float32{0, 1},
			expected: 0,
		},
		{
			name:     "opposite vectors",
			a:        []float32{1, 0},
			b:        []float32{-1, 0},
			expected: -1,
		},
		{
			name:     "scale invariant",
			a:        []float32{2, 2},
			b:        []float32{5, 5},
			expected: 1,
		},
		{
			name:     "zero vector",
			a:        []float32{0, 0},
			b:        []float32{1, 1},
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Cosine(tt.a, tt.b); math.Abs(got-tt.expected) > tolerance {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestMatrixSymmetricWithUnitDiagonal(t *testing.T) {
	vectors := [][]float32{
		{1, 0, 0},
		{0.8, 0.6, 0},
		{0, 0, 1},
		{0.5, 0.5, 0.5},
	}

	matrix := Matrix(vectors)

	if len(matrix) != len(vectors) {
		t.Fatalf("Expected %d rows, got %d", len(vectors), len(matrix))
	}
	for i := range matrix {
		if len(matrix[i]) != len(vectors) {
			t.Fatalf("Expected row %d to have %d columns, got %d", i, len(vectors), len(matrix[i]))
		}
		if math.Abs(matrix[i][i]-1) > tolerance {
			t.Errorf("Expected diagonal entry (%d,%d) to be 1, got %v", i, i, matrix[i][i])
		}
		for j := range matrix[i] {
			if math.Abs(matrix[i][j]-matrix[j][i]) > tolerance {
				t.Errorf("Matrix not symmetric at (%d,%d): %v vs %v", i, j, matrix[i][j], matrix[j][i])
			}
			if matrix[i][j] < -1-tolerance || matrix[i][j] > 1+tolerance {
				t.Errorf("Entry (%d,%d) out of [-1,1]: %v", i, j, matrix[i][j])
			}
		}
	}
}

func TestTopK(t *testing.T) {
	keys := []string{"a.jpg", "b.jpg", "c.jpg", "d.jpg"}
	matrix := [][]float64{
		{1.0, 0.9, 0.2, 0.5},
		{0.9, 1.0, 0.3, 0.4},
		{0.2, 0.3, 1.0, 0.1},
		{0.5, 0.4, 0.1, 1.0},
	}

	recs := TopK(keys, matrix, 3)

	expected := map[string][]string{
		"a.jpg": {"b.jpg", "d.jpg", "c.jpg"},
		"b.jpg": {"a.jpg", "d.jpg", "c.jpg"},
		"c.jpg": {"b.jpg", "a.jpg", "d.jpg"},
		"d.jpg": {"a.jpg", "b.jpg", "c.jpg"},
	}
	if !reflect.DeepEqual(recs, expected) {
		t.Errorf("Expected %v, got %v", expected, recs)
	}
}

func TestTopKProperties(t *testing.T) {
	keys := []string{"a", "b", "c", "d", "e"}
	vectors := [][]float32{
		{1, 0, 0},
		{0.9, 0.1, 0},
		{0, 1, 0},
		{0, 0.9, 0.1},
		{0, 0, 1},
	}
	matrix := Matrix(vectors)

	recs := TopK(keys, matrix, 3)

	for i, key := range keys {
		list := recs[key]

		if len(list) > 3 {
			t.Errorf("List for %s longer than 3: %v", key, list)
		}
		if len(list) > len(keys)-1 {
			t.Errorf("List for %s longer than N-1: %v", key, list)
		}

		scores := make([]float64, len(list))
		for n, rec := range list {
			if rec == key {
				t.Errorf("List for %s contains itself: %v", key, list)
			}
			for j, other := range keys {
				if other == rec {
					scores[n] = matrix[i][j]
				}
			}
		}
		for n := 1; n < len(scores); n++ {
			if scores[n] > scores[n-1]+tolerance {
				t.Errorf("Scores for %s not non-increasing: %v", key, scores)
			}
		}
	}
}

func TestTopKTiesKeepEnumerationOrder(t *testing.T) {
	keys := []string{"a", "b", "c", "d"}
	matrix := [][]float64{
		{1.0, 0.5, 0.5, 0.5},
		{0.5, 1.0, 0.5, 0.5},
		{0.5, 0.5, 1.0, 0.5},
		{0.5, 0.5, 0.5, 1.0},
	}

	recs := TopK(keys, matrix, 3)

	expected := map[string][]string{
		"a": {"b", "c", "d"},
		"b": {"a", "c", "d"},
		"c": {"a", "b", "d"},
		"d": {"a", "b", "c"},
	}
	if !reflect.DeepEqual(recs, expected) {
		t.Errorf("Expected stable tie order %v, got %v", expected, recs)
	}
}

func TestTopKSmallSets(t *testing.T) {
	tests := []struct {
		name     string
		keys     []string
		expected map[string][]string
	}{
		{
			name:     "single image has no candidates",
			keys:     []string{"only.jpg"},
			expected: map[string][]string{"only.jpg": {}},
		},
		{
			name: "two images recommend each other",
			keys: []string{"x.jpg", "y.jpg"},
			expected: map[string][]string{
				"x.jpg": {"y.jpg"},
				"y.jpg": {"x.jpg"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := len(tt.keys)
			matrix := make([][]float64, n)
			for i := range matrix {
				matrix[i] = make([]float64, n)
				for j := range matrix[i] {
					if i == j {
						matrix[i][j] = 1
					} else {
						matrix[i][j] = 0.5
					}
				}
			}

			recs := TopK(tt.keys, matrix, 3)
			if len(recs) != n {
				t.Fatalf("Expected %d lists, got %d", n, len(recs))
			}
			for key, want := range tt.expected {
				if !reflect.DeepEqual(recs[key], want) {
					t.Errorf("Expected %s -> %v, got %v", key, want, recs[key])
				}
			}
		})
	}
}

func TestBuildNearestNeighborScenario(t *testing.T) {
	ocrData := map[string]ocr.TokenSequence{
		"a.jpg": {"Dune"},
		"b.jpg": {"Dune", "Herbert"},
		"c.jpg": {"Cooking"},
	}
	embedder := &fakeEmbedder{
		dimension: 3,
		vectors: map[string][]float32{
			"Dune":         {1, 0.1, 0},
			"Dune Herbert": {0.9, 0.3, 0},
			"Cooking":      {0, 0, 1},
		},
	}

	recs, err := Build(context.Background(), ocrData, embedder, 3)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	// The two Dune covers are closer to each other than to the cookbook.
	expected := map[string][]string{
		"a.jpg": {"b.jpg", "c.jpg"},
		"b.jpg": {"a.jpg", "c.jpg"},
	}
	if !reflect.DeepEqual(recs["a.jpg"], expected["a.jpg"]) {
		t.Errorf("Expected a.jpg -> %v, got %v", expected["a.jpg"], recs["a.jpg"])
	}
	if !reflect.DeepEqual(recs["b.jpg"], expected["b.jpg"]) {
		t.Errorf("Expected b.jpg -> %v, got %v", expected["b.jpg"], recs["b.jpg"])
	}

	if embedder.calls != 1 {
		t.Errorf("Expected a single batch embed call, got %d", embedder.calls)
	}
}

func TestBuildExcludesEmptyTokenSequences(t *testing.T) {
	ocrData := map[string]ocr.TokenSequence{
		"a.jpg":     {"Dune"},
		"b.jpg":     {"Cooking"},
		"blank.jpg": {},
	}
	embedder := &fakeEmbedder{
		dimension: 2,
		vectors: map[string][]float32{
			"Dune":    {1, 0},
			"Cooking": {0, 1},
		},
	}

	recs, err := Build(context.Background(), ocrData, embedder, 3)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if _, ok := recs["blank.jpg"]; ok {
		t.Error("Image with no extracted text should have no recommendations")
	}
	for key, list := range recs {
		for _, rec := range list {
			if rec == "blank.jpg" {
				t.Errorf("List for %s recommends the excluded image: %v", key, list)
			}
		}
	}
}

func TestBuildAllEmpty(t *testing.T) {
	ocrData := map[string]ocr.TokenSequence{
		"a.jpg": {},
		"b.jpg": nil,
	}
	embedder := &fakeEmbedder{dimension: 2, vectors: map[string][]float32{}}

	recs, err := Build(context.Background(), ocrData, embedder, 3)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(recs) != 0 {
		t.Errorf("Expected no recommendations, got %v", recs)
	}
	if embedder.calls != 0 {
		t.Errorf("Embedder should not be called with no eligible documents, got %d calls", embedder.calls)
	}
}

func TestBuildIdempotent(t *testing.T) {
	ocrData := map[string]ocr.TokenSequence{
		"a.jpg": {"Dune"},
		"b.jpg": {"Dune", "Herbert"},
		"c.jpg": {"Cooking"},
		"d.jpg": {"Baking"},
	}
	embedder := &fakeEmbedder{
		dimension: 3,
		vectors: map[string][]float32{
			"Dune":         {1, 0.1, 0},
			"Dune Herbert": {0.9, 0.3, 0},
			"Cooking":      {0, 0.1, 1},
			"Baking":       {0, 0.2, 0.9},
		},
	}

	first, err := Build(context.Background(), ocrData, embedder, 3)
	if err != nil {
		t.Fatalf("First build failed: %v", err)
	}
	second, err := Build(context.Background(), ocrData, embedder, 3)
	if err != nil {
		t.Fatalf("Second build failed: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Builds over unchanged input differ:\nfirst:  %v\nsecond: %v", first, second)
	}
}
