package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DataConfig names every data location the application reads or writes.
// Paths live in configuration so nothing in the pipeline hard-codes them.
type DataConfig struct {
	ImagesDir           string `yaml:"images_dir"`
	OCRStorePath        string `yaml:"ocr_store"`
	RecommendationsPath string `yaml:"recommendations_store"`
	LibraryPath         string `yaml:"library_store"`
	UploadsDir          string `yaml:"uploads_dir,omitempty"`
}

// OCRConfig selects the vision provider used for text extraction.
type OCRConfig struct {
	Provider string `yaml:"provider"`
	Model    string `yaml:"model,omitempty"`
}

// EmbeddingsConfig selects the embedding provider and model.
type EmbeddingsConfig struct {
	Provider  string `yaml:"provider"`
	Model     string `yaml:"model"`
	Dimension int    `yaml:"dimension"`
}

// RecommendConfig controls the similarity ranking output.
type RecommendConfig struct {
	TopK int `yaml:"top_k"`
}

type Config struct {
	Data       DataConfig       `yaml:"data"`
	OCR        OCRConfig        `yaml:"ocr"`
	Embeddings EmbeddingsConfig `yaml:"embeddings"`
	Recommend  RecommendConfig  `yaml:"recommend"`
}

// Default returns the configuration matching the conventional data layout.
func Default() *Config {
	dataDir := "data"
	return &Config{
		Data: DataConfig{
			ImagesDir:           filepath.Join(dataDir, "raw_images"),
			OCRStorePath:        filepath.Join(dataDir, "ocr_results", "ocr_output.json"),
			RecommendationsPath: filepath.Join(dataDir, "ocr_results", "recommendations.json"),
			LibraryPath:         filepath.Join(dataDir, "library.json"),
			UploadsDir:          filepath.Join(dataDir, "raw_images"),
		},
		OCR: OCRConfig{
			Provider: "ollama",
		},
		Embeddings: EmbeddingsConfig{
			Provider:  "ollama",
			Model:     "all-minilm",
			Dimension: 384,
		},
		Recommend: RecommendConfig{
			TopK: 3,
		},
	}
}

// Load reads a YAML config file. A missing file yields the defaults; a
// malformed file is an error. Fields omitted from the file keep their
// default values.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.Recommend.TopK <= 0 {
		cfg.Recommend.TopK = 3
	}
	if cfg.Data.UploadsDir == "" {
		cfg.Data.UploadsDir = cfg.Data.ImagesDir
	}

	return cfg, nil
}
