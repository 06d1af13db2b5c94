package handlers

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// HandleUpload accepts a cover image and stores it in the raw-images
// directory under its original filename, which becomes the image key. The
// response reports whether the pipeline has already produced OCR data for
// that key.
func (h *Handler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	file, header, err := r.FormFile("files")
	if err != nil {
		file, header, err = r.FormFile("file")
		if err != nil {
			h.writeError(w, "Failed to read file: "+err.Error(), http.StatusBadRequest)
			return
		}
	}
	defer file.Close()

	switch strings.ToLower(filepath.Ext(header.Filename)) {
	case ".jpg", ".jpeg", ".png":
	default:
		h.writeError(w, "Unsupported file type (must be .jpg or .png)", http.StatusBadRequest)
		return
	}

	// Limit file size to 10MB
	fileData, err := io.ReadAll(io.LimitReader(file, 10*1024*1024))
	if err != nil {
		h.writeError(w, "Failed to read file contents: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if len(fileData) >= 10*1024*1024 {
		h.writeError(w, "File too large (max 10MB)", http.StatusBadRequest)
		return
	}

	if err := os.MkdirAll(h.cfg.Data.UploadsDir, 0755); err != nil {
		h.writeError(w, "Failed to create uploads directory: "+err.Error(), http.StatusInternalServerError)
		return
	}

	filename := filepath.Base(header.Filename)
	if err := os.WriteFile(filepath.Join(h.cfg.Data.UploadsDir, filename), fileData, 0644); err != nil {
		h.writeError(w, "Failed to save file: "+err.Error(), http.StatusInternalServerError)
		return
	}

	_, hasOCR := h.ocrData[filename]

	h.writeJSON(w, map[string]any{
		"filename": filename,
		"has_ocr":  hasOCR,
		"message":  "Successfully uploaded 1 image",
	})
}
