package routes

import (
	"net/http"

	"github.com/zoyasiddiqui7867/ai-agent-Health-Assistant/internal/api/handlers"
	"github.com/zoyasiddiqui7867/ai-agent-Health-Assistant/internal/api/middleware"
	"github.com/zoyasiddiqui7867/ai-agent-Health-Assistant/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	homeHandler      *handlers.HomeHandler
	assistantHandler *handlers.AssistantHandler
	recordHandler    *handlers.RecordHandler

	allowedOrigins []string
	metrics        *observability.Metrics
}

// NewRouter creates a new router. metrics may be nil.
func NewRouter(
	homeHandler *handlers.HomeHandler,
	assistantHandler *handlers.AssistantHandler,
	recordHandler *handlers.RecordHandler,
	allowedOrigins []string,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:              http.NewServeMux(),
		homeHandler:      homeHandler,
		assistantHandler: assistantHandler,
		recordHandler:    recordHandler,
		allowedOrigins:   allowedOrigins,
		metrics:          metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	// Status endpoints
	r.mux.HandleFunc("GET /{$}", r.homeHandler.Home)
	r.mux.HandleFunc("GET /health", r.homeHandler.Health)

	// Assistant endpoints
	r.mux.HandleFunc("POST /api/ask", r.assistantHandler.Ask)
	r.mux.HandleFunc("POST /api/analyze", r.assistantHandler.Analyze)

	// Record endpoints
	if r.recordHandler != nil {
		r.mux.HandleFunc("PUT /api/records/{patient_id}", r.recordHandler.PutRecord)
		r.mux.HandleFunc("GET /api/records/{patient_id}", r.recordHandler.GetRecord)
	}

	// Apply middleware in reverse order (last middleware wraps first)
	var handler http.Handler = r.mux
	handler = middleware.RecoveryMiddleware(handler)
	handler = middleware.Compression(handler)
	handler = middleware.CacheControl(handler)
	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.CORSMiddleware(r.allowedOrigins)(handler)
	handler = middleware.RequestIDMiddleware(handler)

	return handler
}
