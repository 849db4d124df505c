package routes

import (
	"net/http"

	"github.com/dukerupert/numlookup/internal/router"
)

// RegisterAPIRoutes registers the JSON API.
// These routes are stateless: they never read or write a page session.
func RegisterAPIRoutes(r *router.Router, deps APIDeps) {
	api := r.Group(router.CORS(deps.AllowedOrigins))

	api.Get("/api/validate/{phone}", deps.ValidateHandler.ServeHTTP)

	// Preflight is answered by the CORS middleware
	api.Handle(http.MethodOptions, "/api/validate/{phone}", http.NotFoundHandler())
}
