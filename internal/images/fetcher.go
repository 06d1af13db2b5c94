// Package images downloads book cover images to seed the raw-images
// directory.
package images

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// Fetcher retrieves book cover images from the Open Library Covers API.
type Fetcher struct {
	HTTPClient *http.Client
}

// NewFetcher creates a new cover fetcher.
func NewFetcher() *Fetcher {
	return &Fetcher{
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// FetchCover downloads the cover for an ISBN into outputDir and returns the
// path it was written to.
func (f *Fetcher) FetchCover(isbn, outputDir string) (string, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	outputPath := filepath.Join(outputDir, fmt.Sprintf("%s.jpg", isbn))

	// Open Library Covers API: https://covers.openlibrary.org/b/isbn/{ISBN}-L.jpg
	url := fmt.Sprintf("https://covers.openlibrary.org/b/isbn/%s-L.jpg", isbn)

	resp, err := f.HTTPClient.Get(url)
	if err != nil {
		return "", fmt.Errorf("failed to fetch cover: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("cover API returned status %d", resp.StatusCode)
	}

	imageData, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read cover data: %w", err)
	}

	// If the image is too small, it's probably a placeholder
	if len(imageData) < 1000 {
		return "", fmt.Errorf("cover image too small (likely placeholder)")
	}

	if err := os.WriteFile(outputPath, imageData, 0644); err != nil {
		return "", fmt.Errorf("failed to write cover file: %w", err)
	}

	slog.Info("Downloaded cover image", "isbn", isbn, "path", outputPath)
	return outputPath, nil
}

// FetchCovers downloads covers for a list of ISBNs, pausing between calls.
// Open Library allows 100 req/5min, so ~1 req/sec is safe. A failed ISBN is
// logged and skipped; the rest continue.
func (f *Fetcher) FetchCovers(isbns []string, outputDir string) []string {
	paths := make([]string, 0, len(isbns))
	for i, isbn := range isbns {
		path, err := f.FetchCover(isbn, outputDir)
		if err != nil {
			slog.Warn("Failed to download cover", "isbn", isbn, "error", err)
		} else {
			paths = append(paths, path)
		}

		if i < len(isbns)-1 {
			time.Sleep(1 * time.Second)
		}
	}
	return paths
}
