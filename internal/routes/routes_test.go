package routes_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/dukerupert/numlookup/internal/router"
	"github.com/dukerupert/numlookup/internal/routes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func named(name string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(name))
	})
}

func newRouter() *router.Router {
	r := router.New()
	routes.RegisterLookupRoutes(r, routes.LookupDeps{
		PageHandler:     named("page"),
		ValidateHandler: named("validate"),
		HistoryHandler:  named("history"),
		MaxBodySize:     64,
	})
	routes.RegisterAPIRoutes(r, routes.APIDeps{
		ValidateHandler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("api:" + r.PathValue("phone")))
		}),
		AllowedOrigins: []string{"https://example.com"},
	})
	routes.RegisterSystemRoutes(r, routes.SystemDeps{
		MetricsHandler: named("metrics"),
		Static: fstest.MapFS{
			"css/app.css": {Data: []byte("body{}")},
		},
	})
	return r
}

func serve(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestRoutes_Dispatch(t *testing.T) {
	r := newRouter()

	tests := []struct {
		method string
		path   string
		body   string
	}{
		{http.MethodGet, "/", "page"},
		{http.MethodPost, "/validate", "validate"},
		{http.MethodGet, "/history", "history"},
		{http.MethodGet, "/api/validate/+34600000000", "api:+34600000000"},
		{http.MethodGet, "/metrics", "metrics"},
		{http.MethodGet, "/health", "OK"},
		{http.MethodGet, "/static/css/app.css", "body{}"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := serve(r, httptest.NewRequest(tt.method, tt.path, nil))
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.body, rec.Body.String())
		})
	}
}

func TestRoutes_UnknownPath(t *testing.T) {
	rec := serve(newRouter(), httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRoutes_ValidateRequiresPost(t *testing.T) {
	rec := serve(newRouter(), httptest.NewRequest(http.MethodGet, "/validate", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRoutes_ValidateBodyLimit(t *testing.T) {
	body := "phone=" + strings.Repeat("1", 100)
	req := httptest.NewRequest(http.MethodPost, "/validate", strings.NewReader(body))

	rec := serve(newRouter(), req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestRoutes_APIPreflight(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/api/validate/123", nil)
	req.Header.Set("Origin", "https://example.com")

	rec := serve(newRouter(), req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "GET, OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"))
}

func TestRoutes_APIForeignOrigin(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/validate/123", nil)
	req.Header.Set("Origin", "https://evil.example")

	rec := serve(newRouter(), req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
