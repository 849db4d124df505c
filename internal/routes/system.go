package routes

import (
	"net/http"

	"github.com/dukerupert/numlookup/internal/router"
)

// RegisterSystemRoutes registers static assets, health and metrics.
func RegisterSystemRoutes(r *router.Router, deps SystemDeps) {
	// Static files
	if deps.Static != nil {
		r.Static("/static/", deps.Static)
	}

	// Metrics endpoint (should be protected in production via firewall)
	if deps.MetricsHandler != nil {
		r.Get("/metrics", deps.MetricsHandler.ServeHTTP)
	}

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}
