package routes

import (
	"net/http"

	"github.com/tabilog/tabilog/backend/internal/api/handlers"
	"github.com/tabilog/tabilog/backend/internal/api/middleware"
	"github.com/tabilog/tabilog/backend/internal/api/rpc"
	"github.com/tabilog/tabilog/backend/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	locationHandler     *handlers.LocationHandler
	visitHistoryHandler *handlers.VisitHistoryHandler
	uploadHandler       *handlers.UploadHandler
	rpcRegistry         *rpc.Registry

	cacheMiddleware *middleware.CacheMiddleware
	metrics         *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	locationHandler *handlers.LocationHandler,
	visitHistoryHandler *handlers.VisitHistoryHandler,
	uploadHandler *handlers.UploadHandler,
	rpcRegistry *rpc.Registry,
	cacheMiddleware *middleware.CacheMiddleware,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:                 http.NewServeMux(),
		locationHandler:     locationHandler,
		visitHistoryHandler: visitHistoryHandler,
		uploadHandler:       uploadHandler,
		rpcRegistry:         rpcRegistry,
		cacheMiddleware:     cacheMiddleware,
		metrics:             metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	// Health check endpoint
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// RPC endpoint: every procedure dispatches through one route
	r.mux.HandleFunc("POST /api/rpc/{procedure}", r.rpcRegistry.ServeHTTP)

	// REST mirror for locations
	r.mux.HandleFunc("GET /api/locations", r.locationHandler.ListLocations)
	r.mux.HandleFunc("POST /api/locations", r.locationHandler.CreateLocation)
	r.mux.HandleFunc("GET /api/locations/{id}", r.locationHandler.GetLocation)

	// Composite visit + photos endpoint
	r.mux.HandleFunc("POST /api/visit-history", r.visitHistoryHandler.CreateVisitHistory)

	// File uploads
	r.mux.HandleFunc("POST /api/files/upload", r.uploadHandler.UploadFiles)

	// Apply middleware in reverse order (last middleware wraps first).
	// CORS must be outermost so cached responses also get CORS headers.
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)

	if r.cacheMiddleware != nil {
		handler = r.cacheMiddleware.Middleware(handler)
	}

	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	handler = middleware.ResponseOptimization(handler)
	handler = middleware.CORSMiddleware(handler)

	return handler
}
