package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/booksnap/booksnap/internal/library"
	"github.com/booksnap/booksnap/internal/store"
)

// HandleLibrary serves the library collection: GET filters it, POST saves a
// book, DELETE removes one. Mutations persist the whole store and return
// the updated library in the response, so the caller knows the state
// changed without re-fetching.
func (h *Handler) HandleLibrary(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case "GET":
		h.handleLibraryList(w, r)
	case "POST":
		h.handleLibrarySave(w, r)
	case "DELETE":
		h.handleLibraryDelete(w, r)
	default:
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) handleLibraryList(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	tag := r.URL.Query().Get("tag")

	minRating := 0
	if raw := r.URL.Query().Get("min_rating"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			h.writeError(w, "Invalid min_rating: "+raw, http.StatusBadRequest)
			return
		}
		minRating = parsed
	}

	h.mu.RLock()
	books := h.lib.Filter(query, tag, minRating)
	tags := h.lib.Tags()
	h.mu.RUnlock()

	h.writeJSON(w, map[string]any{
		"books": books,
		"tags":  tags,
	})
}

func (h *Handler) handleLibrarySave(w http.ResponseWriter, r *http.Request) {
	var entry library.Entry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	if entry.Title == "" && entry.Author == "" {
		h.writeError(w, "Entry must have a title or author", http.StatusBadRequest)
		return
	}
	if entry.Rating < 1 || entry.Rating > 5 {
		h.writeError(w, "Rating must be between 1 and 5", http.StatusBadRequest)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.lib.Add(entry); err != nil {
		if errors.Is(err, library.ErrDuplicate) {
			// Informational no-op, not an error.
			h.writeJSON(w, map[string]any{
				"status":  "already_present",
				"message": "This book is already in your library.",
				"library": h.lib,
			})
			return
		}
		h.writeError(w, "Failed to save book: "+err.Error(), http.StatusInternalServerError)
		return
	}

	if err := store.SaveLibrary(h.cfg.Data.LibraryPath, h.lib); err != nil {
		h.writeError(w, "Failed to persist library: "+err.Error(), http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, map[string]any{
		"status":  "saved",
		"message": "Book saved to your library.",
		"library": h.lib,
	})
}

func (h *Handler) handleLibraryDelete(w http.ResponseWriter, r *http.Request) {
	var entry library.Entry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.lib.Remove(entry); err != nil {
		h.writeError(w, "Book not found in library", http.StatusNotFound)
		return
	}

	if err := store.SaveLibrary(h.cfg.Data.LibraryPath, h.lib); err != nil {
		h.writeError(w, "Failed to persist library: "+err.Error(), http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, map[string]any{
		"status":  "removed",
		"message": "Book removed from your library.",
		"library": h.lib,
	})
}
