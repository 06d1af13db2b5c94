package handlers

import (
	"net/http"
	"path/filepath"
	"strings"
)

// HandleStatic serves the web UI and the cover images referenced by it.
func (h *Handler) HandleStatic(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/static/")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		path = "index.html"
	}

	// Prevent directory traversal attacks
	if strings.Contains(path, "..") {
		http.Error(w, "Invalid file path", http.StatusBadRequest)
		return
	}

	// Cover images are served from the configured images directory so the
	// UI can render recommendations.
	if name, ok := strings.CutPrefix(path, "images/"); ok {
		http.ServeFile(w, r, filepath.Join(h.cfg.Data.ImagesDir, filepath.Base(name)))
		return
	}

	// Set appropriate content type based on file extension
	switch {
	case strings.HasSuffix(path, ".css"):
		w.Header().Set("Content-Type", "text/css")
	case strings.HasSuffix(path, ".js"):
		w.Header().Set("Content-Type", "application/javascript")
	case strings.HasSuffix(path, ".html"):
		w.Header().Set("Content-Type", "text/html")
	}

	http.ServeFile(w, r, filepath.Join("static", path))
}
