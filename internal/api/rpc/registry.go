// Package rpc exposes the application services as named procedures over
// a single JSON-over-HTTP endpoint, POST /api/rpc/{procedure}.
package rpc

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"
	apperrors "github.com/tabilog/tabilog/backend/pkg/errors"
)

// Handler executes one procedure. Input is the raw JSON request body.
type Handler func(ctx context.Context, input json.RawMessage) (interface{}, error)

// Registry maps procedure names to handlers
type Registry struct {
	procedures map[string]Handler
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		procedures: map[string]Handler{},
	}
}

// Register adds a procedure under its dotted name, e.g. "locations.getAll"
func (r *Registry) Register(name string, handler Handler) {
	r.procedures[name] = handler
}

// Procedures returns the registered procedure names
func (r *Registry) Procedures() []string {
	names := make([]string, 0, len(r.procedures))
	for name := range r.procedures {
		names = append(names, name)
	}
	return names
}

// ServeHTTP dispatches POST /api/rpc/{procedure}
func (r *Registry) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	name := req.PathValue("procedure")
	handler, ok := r.procedures[name]
	if !ok {
		respondWithError(w, http.StatusNotFound, "unknown procedure: "+name)
		return
	}

	body, err := io.ReadAll(req.Body)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "failed to read request body")
		return
	}
	if len(body) == 0 {
		body = []byte("{}")
	}
	if !json.Valid(body) {
		respondWithError(w, http.StatusBadRequest, "request body must be valid JSON")
		return
	}

	result, err := handler(req.Context(), body)
	if err != nil {
		if appErr, ok := apperrors.AsAppError(err); ok {
			status := appErr.HTTPStatus()
			if status >= 500 {
				log.Error().Err(err).Str("procedure", name).Msg("procedure failed")
				respondWithError(w, status, "internal server error")
				return
			}
			respondWithError(w, status, appErr.Message)
			return
		}
		log.Error().Err(err).Str("procedure", name).Msg("procedure failed")
		respondWithError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"result": result,
	})
}

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

func decode(input json.RawMessage, target interface{}) error {
	if err := json.Unmarshal(input, target); err != nil {
		return apperrors.NewValidationError("invalid procedure input: " + err.Error())
	}
	return nil
}
