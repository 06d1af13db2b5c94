package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/booksnap/booksnap/internal/metadata"
	"github.com/booksnap/booksnap/internal/ocr"
)

// BookDetail is the full view of one cover: its extracted text, the
// title/author guess, the catalog metadata, and its recommended neighbors.
type BookDetail struct {
	Filename        string            `json:"filename"`
	Tokens          ocr.TokenSequence `json:"tokens"`
	Text            string            `json:"text"`
	Title           string            `json:"title"`
	Author          string            `json:"author"`
	Metadata        *metadata.Book    `json:"metadata,omitempty"`
	MetadataError   string            `json:"metadata_error,omitempty"`
	Recommendations []string          `json:"recommendations"`
}

// HandleBookDetail serves GET /api/books/{filename}. A filename with no OCR
// record is a 404: the pipeline never saw that image.
func (h *Handler) HandleBookDetail(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	filename := strings.TrimPrefix(r.URL.Path, "/api/books/")
	tokens, ok := h.ocrData[filename]
	if !ok {
		h.writeError(w, "No OCR data found for this image", http.StatusNotFound)
		return
	}

	title, author := ocr.GuessTitleAuthor(tokens)

	detail := BookDetail{
		Filename:        filename,
		Tokens:          tokens,
		Text:            tokens.Document(),
		Title:           title,
		Author:          author,
		Recommendations: []string{},
	}

	if recs, ok := h.recs[filename]; ok {
		detail.Recommendations = recs
	}

	book, err := h.metadata.Lookup(r.Context(), title, author)
	switch {
	case errors.Is(err, metadata.ErrNotFound):
		detail.MetadataError = "Book not found"
	case err != nil:
		slog.Warn("Metadata lookup failed", "title", title, "err", err)
		detail.MetadataError = err.Error()
	default:
		detail.Metadata = book
	}

	h.writeJSON(w, detail)
}
