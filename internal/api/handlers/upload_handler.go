package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/tabilog/tabilog/backend/internal/application/services"
)

// UploadHandler handles file upload requests
type UploadHandler struct {
	uploadService *services.UploadService
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(uploadService *services.UploadService) *UploadHandler {
	return &UploadHandler{
		uploadService: uploadService,
	}
}

type uploadRequest struct {
	Files []services.UploadFile `json:"files"`
}

// UploadFiles handles POST /api/files/upload. Each file is decoded and
// stored independently; the response reports a result per file.
func (h *UploadHandler) UploadFiles(w http.ResponseWriter, r *http.Request) {
	var req uploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Files) == 0 {
		respondWithError(w, http.StatusBadRequest, "at least one file is required")
		return
	}

	results := h.uploadService.SaveAll(r.Context(), req.Files)

	succeeded := 0
	for _, result := range results {
		if result.Error == "" {
			succeeded++
		}
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"files":     results,
		"succeeded": succeeded,
		"failed":    len(results) - succeeded,
	})
}
