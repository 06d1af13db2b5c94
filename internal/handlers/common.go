package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/booksnap/booksnap/internal/config"
	"github.com/booksnap/booksnap/internal/library"
	"github.com/booksnap/booksnap/internal/metadata"
	"github.com/booksnap/booksnap/internal/ocr"
	"github.com/booksnap/booksnap/internal/store"
)

// Handler holds the application state for the web interface: the derived
// stores produced by the pipeline, the user library, and the metadata
// client. All state is explicit here; nothing lives in package globals.
type Handler struct {
	cfg      *config.Config
	ocrData  map[string]ocr.TokenSequence
	recs     map[string][]string
	metadata *metadata.Client

	mu  sync.RWMutex
	lib library.Library
}

// New loads the stores and builds the handler. The OCR and recommendation
// stores are hard preconditions: the interface cannot run before the
// pipeline has produced them. A missing or broken library store just means
// an empty library.
func New(cfg *config.Config) (*Handler, error) {
	ocrData, err := store.LoadOCR(cfg.Data.OCRStorePath)
	if err != nil {
		return nil, fmt.Errorf("OCR data not available, run the pipeline first: %w", err)
	}

	recs, err := store.LoadRecommendations(cfg.Data.RecommendationsPath)
	if err != nil {
		return nil, fmt.Errorf("recommendation data not available, run the pipeline first: %w", err)
	}

	return &Handler{
		cfg:      cfg,
		ocrData:  ocrData,
		recs:     recs,
		metadata: metadata.NewClient(),
		lib:      store.LoadLibrary(cfg.Data.LibraryPath),
	}, nil
}

// Response helpers
func (h *Handler) writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Unable to encode JSON response", "err", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	slog.Error(message)
	http.Error(w, message, code)
}
