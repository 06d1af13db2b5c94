package ocr

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/booksnap/booksnap/internal/config"

	_ "image/png"
)

// Service extracts text tokens from book cover images using LLM vision
// capabilities. This is faster and more reliable than traditional OCR for
// the short, stylized text found on covers.
type Service struct {
	provider string
	model    string
}

// NewService creates an OCR service for the configured provider. An empty
// provider falls back to the BOOKSNAP_OCR_PROVIDER environment variable,
// then to ollama.
func NewService(cfg config.OCRConfig) *Service {
	provider := cfg.Provider
	if provider == "" {
		provider = os.Getenv("BOOKSNAP_OCR_PROVIDER")
		if provider == "" {
			provider = "ollama"
		}
	}

	model := cfg.Model
	if model == "" {
		model = defaultModel(provider)
	}

	return &Service{
		provider: provider,
		model:    model,
	}
}

func defaultModel(provider string) string {
	switch provider {
	case "openai":
		model := os.Getenv("OPENAI_MODEL")
		if model == "" {
			return "gpt-4o"
		}
		return model
	case "ollama":
		model := os.Getenv("OLLAMA_MODEL")
		if model == "" {
			return "mistral-small3.2:24b"
		}
		return model
	default:
		return ""
	}
}

// ExtractTokens extracts the text tokens from a single cover image. The
// image is converted to grayscale before recognition; cover color carries
// no signal for text extraction and grayscale keeps the input predictable.
func (s *Service) ExtractTokens(ctx context.Context, imagePath string) (TokenSequence, error) {
	imageData, err := os.ReadFile(imagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}

	grayData, err := grayscale(imageData)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", filepath.Base(imagePath), err)
	}

	base64Image := base64.StdEncoding.EncodeToString(grayData)

	var text string
	switch s.provider {
	case "openai":
		text, err = s.extractWithOpenAI(ctx, base64Image)
	case "ollama":
		text, err = s.extractWithOllama(ctx, base64Image)
	default:
		return nil, fmt.Errorf("unsupported OCR provider: %s", s.provider)
	}
	if err != nil {
		return nil, err
	}

	tokens := TokenSequence(strings.Fields(text))
	slog.Info("Extracted cover text", "provider", s.provider, "model", s.model, "image", filepath.Base(imagePath), "tokens", len(tokens))
	return tokens, nil
}

// ExtractDir runs extraction over every .jpg/.png file in dir, in name
// order. An image that cannot be read or decoded is skipped and extraction
// of the remaining images continues. Every detected token is kept; no
// confidence filtering is applied.
func (s *Service) ExtractDir(ctx context.Context, dir string) (map[string]TokenSequence, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read images directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".jpg", ".jpeg", ".png":
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	results := make(map[string]TokenSequence, len(names))
	for _, name := range names {
		tokens, err := s.ExtractTokens(ctx, filepath.Join(dir, name))
		if err != nil {
			slog.Warn("Skipping image", "image", name, "err", err)
			continue
		}
		results[name] = tokens
	}

	return results, nil
}

// grayscale decodes an image and re-encodes it as a grayscale JPEG.
func grayscale(data []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	gray := image.NewGray(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			gray.Set(x, y, img.At(x, y))
		}
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, gray, &jpeg.Options{Quality: 90}); err != nil {
		return nil, fmt.Errorf("failed to encode grayscale image: %w", err)
	}

	return buf.Bytes(), nil
}

func buildOCRPrompt() string {
	return `You are performing OCR (Optical Character Recognition) on a book cover image.

Your task is to extract ALL visible text from the image exactly as it appears, preserving:
- Capitalization
- Punctuation
- Order of text elements from top to bottom

INSTRUCTIONS:
1. Read the image carefully from top to bottom
2. Transcribe every piece of visible text
3. Do not add any interpretation, commentary, or explanations
4. Do not skip any text, no matter how small or decorative

OUTPUT FORMAT:
Provide ONLY the extracted text. Do not include phrases like "Here is the text:" or "The image contains:".
Start immediately with the transcribed text from the cover.`
}

func (s *Service) extractWithOllama(ctx context.Context, base64Image string) (string, error) {
	ollamaHost := os.Getenv("OLLAMA_URL")
	if ollamaHost == "" {
		ollamaHost = os.Getenv("OLLAMA_HOST")
	}
	if ollamaHost == "" {
		ollamaHost = "http://localhost:11434"
	}

	requestBody := map[string]interface{}{
		"model":  s.model,
		"prompt": buildOCRPrompt(),
		"images": []string{base64Image},
		"stream": false,
		"options": map[string]interface{}{
			"temperature": 0.0, // Zero temperature for exact OCR
		},
	}

	jsonData, err := json.Marshal(requestBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal OCR request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", ollamaHost+"/api/generate", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create OCR request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call Ollama API for OCR: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("ollama OCR API returned status %d: %s", resp.StatusCode, string(body))
	}

	var ollamaResp struct {
		Response string `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&ollamaResp); err != nil {
		return "", fmt.Errorf("failed to decode Ollama OCR response: %w", err)
	}

	return ollamaResp.Response, nil
}

func (s *Service) extractWithOpenAI(ctx context.Context, base64Image string) (string, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return "", fmt.Errorf("OPENAI_API_KEY not set")
	}

	baseURL := os.Getenv("OPENAI_BASE_URL")
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}

	requestBody := map[string]interface{}{
		"model": s.model,
		"messages": []map[string]interface{}{
			{
				"role": "user",
				"content": []map[string]interface{}{
					{
						"type": "text",
						"text": buildOCRPrompt(),
					},
					{
						"type": "image_url",
						"image_url": map[string]string{
							"url": "data:image/jpeg;base64," + base64Image,
						},
					},
				},
			},
		},
		"max_tokens":  2000,
		"temperature": 0.0, // Zero temperature for exact OCR
	}

	jsonData, err := json.Marshal(requestBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal OCR request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", baseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create OCR request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call OpenAI API for OCR: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("openAI OCR API returned status %d: %s", resp.StatusCode, string(body))
	}

	var openaiResp struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&openaiResp); err != nil {
		return "", fmt.Errorf("failed to decode OpenAI OCR response: %w", err)
	}

	if len(openaiResp.Choices) == 0 {
		return "", fmt.Errorf("no OCR response from OpenAI")
	}

	return openaiResp.Choices[0].Message.Content, nil
}
