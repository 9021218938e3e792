package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/tabilog/tabilog/backend/internal/application/services"
	"github.com/tabilog/tabilog/backend/internal/domain/entities"
)

// VisitHistoryHandler handles the composite visit-plus-photos endpoint
type VisitHistoryHandler struct {
	visitService *services.VisitService
}

// NewVisitHistoryHandler creates a new visit history handler
func NewVisitHistoryHandler(visitService *services.VisitService) *VisitHistoryHandler {
	return &VisitHistoryHandler{
		visitService: visitService,
	}
}

// visitHistoryFile references a file already stored via the upload
// endpoint. The handler never touches the file store itself.
type visitHistoryFile struct {
	FilePath    string `json:"file_path"`
	Description string `json:"description"`
}

type visitHistoryRequest struct {
	LocationID int64              `json:"location_id"`
	VisitDate  string             `json:"visit_date"`
	Notes      string             `json:"notes"`
	Rating     int                `json:"rating"`
	CreatedBy  int64              `json:"created_by"`
	Files      []visitHistoryFile `json:"files"`
}

// CreateVisitHistory handles POST /api/visit-history. The visit and its
// photo rows are inserted in one transaction.
func (h *VisitHistoryHandler) CreateVisitHistory(w http.ResponseWriter, r *http.Request) {
	var req visitHistoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	visitDate, err := time.Parse("2006-01-02", req.VisitDate)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "visit_date must be formatted as YYYY-MM-DD")
		return
	}

	photos := make([]*entities.VisitPhoto, 0, len(req.Files))
	for _, file := range req.Files {
		photos = append(photos, &entities.VisitPhoto{
			FilePath:    file.FilePath,
			Description: file.Description,
			CreatedBy:   req.CreatedBy,
			UpdatedBy:   req.CreatedBy,
		})
	}

	visit := &entities.Visit{
		LocationID: req.LocationID,
		VisitDate:  visitDate,
		Notes:      req.Notes,
		Rating:     req.Rating,
		CreatedBy:  req.CreatedBy,
		UpdatedBy:  req.CreatedBy,
	}

	result, err := h.visitService.CreateWithPhotos(r.Context(), visit, photos)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, result)
}
