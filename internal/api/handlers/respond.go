package handlers

import (
	"encoding/json"
	"net/http"

	apperrors "github.com/tabilog/tabilog/backend/pkg/errors"
)

func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]string{
		"error": message,
	})
}

// respondWithAppError maps the error taxonomy onto HTTP statuses.
// Internal details are never leaked to the client.
func respondWithAppError(w http.ResponseWriter, err error) {
	if appErr, ok := apperrors.AsAppError(err); ok {
		status := appErr.HTTPStatus()
		if status >= 500 {
			respondWithError(w, status, "internal server error")
			return
		}
		respondWithError(w, status, appErr.Message)
		return
	}
	respondWithError(w, http.StatusInternalServerError, "internal server error")
}
