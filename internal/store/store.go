// Package store reads and writes the three flat JSON stores: OCR output,
// recommendations, and the user library. Every write is a whole-file
// overwrite; there is no locking for concurrent writers.
package store

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/booksnap/booksnap/internal/library"
	"github.com/booksnap/booksnap/internal/ocr"
)

// LoadOCR reads the OCR store. A missing or malformed file is an error:
// the interactive layers cannot run before the pipeline has produced it.
func LoadOCR(path string) (map[string]ocr.TokenSequence, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read OCR store: %w", err)
	}

	var results map[string]ocr.TokenSequence
	if err := json.Unmarshal(data, &results); err != nil {
		return nil, fmt.Errorf("failed to parse OCR store: %w", err)
	}
	return results, nil
}

// SaveOCR writes the OCR store, creating parent directories as needed.
func SaveOCR(path string, results map[string]ocr.TokenSequence) error {
	return writeJSON(path, results)
}

// LoadRecommendations reads the recommendation store. Missing or malformed
// is an error, same as the OCR store.
func LoadRecommendations(path string) (map[string][]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read recommendation store: %w", err)
	}

	var recommendations map[string][]string
	if err := json.Unmarshal(data, &recommendations); err != nil {
		return nil, fmt.Errorf("failed to parse recommendation store: %w", err)
	}
	return recommendations, nil
}

// SaveRecommendations writes the recommendation store.
func SaveRecommendations(path string, recommendations map[string][]string) error {
	return writeJSON(path, recommendations)
}

// LoadLibrary reads the library store. A missing or unparsable file is not
// fatal: the user simply starts with an empty library.
func LoadLibrary(path string) library.Library {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("Unable to read library store, starting empty", "path", path, "err", err)
		}
		return library.Library{}
	}

	var lib library.Library
	if err := json.Unmarshal(data, &lib); err != nil {
		slog.Warn("Unable to parse library store, starting empty", "path", path, "err", err)
		return library.Library{}
	}
	return lib
}

// SaveLibrary writes the library store.
func SaveLibrary(path string, lib library.Library) error {
	if lib == nil {
		lib = library.Library{}
	}
	return writeJSON(path, lib)
}

func writeJSON(path string, v interface{}) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create store directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal store: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write store: %w", err)
	}
	return nil
}
