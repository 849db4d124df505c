package routes

import (
	"github.com/dukerupert/numlookup/internal/middleware"
	"github.com/dukerupert/numlookup/internal/router"
)

// RegisterLookupRoutes registers the lookup page and its fragments.
// These routes rely on the browser session middleware being installed on r.
func RegisterLookupRoutes(r *router.Router, deps LookupDeps) {
	// Page
	r.Get("/{$}", deps.PageHandler.ServeHTTP)

	// Validation (full page or fragment)
	limit := middleware.MaxBodySize()
	if deps.MaxBodySize > 0 {
		limit = middleware.MaxBodySize(deps.MaxBodySize)
	}
	r.Post("/validate", deps.ValidateHandler.ServeHTTP, limit)

	// Recent lookups fragment
	r.Get("/history", deps.HistoryHandler.ServeHTTP)
}
