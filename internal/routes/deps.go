package routes

import (
	"io/fs"
	"net/http"
)

// LookupDeps contains dependencies for the lookup page routes
type LookupDeps struct {
	PageHandler     http.Handler
	ValidateHandler http.Handler
	HistoryHandler  http.Handler

	// MaxBodySize caps the POST /validate form body. Zero uses the middleware default.
	MaxBodySize int64
}

// APIDeps contains dependencies for the JSON API routes
type APIDeps struct {
	ValidateHandler http.Handler

	// AllowedOrigins may call the API cross-origin. Empty disables CORS.
	AllowedOrigins []string
}

// SystemDeps contains dependencies for operational routes
type SystemDeps struct {
	MetricsHandler http.Handler
	Static         fs.FS
}
