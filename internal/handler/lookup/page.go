package lookup

import (
	"net/http"

	"github.com/dukerupert/numlookup/internal/handler"
	"github.com/dukerupert/numlookup/internal/mapsync"
	"github.com/dukerupert/numlookup/internal/middleware"
	"github.com/dukerupert/numlookup/internal/service"
	"github.com/google/uuid"
)

// PageHandler renders the lookup page.
type PageHandler struct {
	service        service.ValidationService
	renderer       *handler.Renderer
	tiles          mapsync.TileLayer
	historyEnabled bool
}

// NewPageHandler creates a new page handler
func NewPageHandler(svc service.ValidationService, renderer *handler.Renderer, tiles mapsync.TileLayer, historyEnabled bool) *PageHandler {
	return &PageHandler{
		service:        svc,
		renderer:       renderer,
		tiles:          tiles,
		historyEnabled: historyEnabled,
	}
}

// ServeHTTP handles GET /
// Every load mints a page ID with a fresh map, so tabs never share one.
func (h *PageHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sess, err := h.service.NewPage(ctx, uuid.New())
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	data := PageData{
		Title:          pageTitle,
		PageID:         sess.ID.String(),
		Result:         messageResult("", sess.Map),
		Tiles:          h.tiles,
		HistoryEnabled: h.historyEnabled,
	}
	data.History = loadHistory(r, h.service, h.historyEnabled)

	h.renderer.RenderHTTP(w, "index", data)
}

func loadHistory(r *http.Request, svc service.ValidationService, enabled bool) []HistoryItem {
	if !enabled {
		return nil
	}
	entries, err := svc.Recent(r.Context())
	if err != nil {
		// Log error but render the page without history
		middleware.GetLogger(r.Context()).Warn("failed to load history", "error", err)
		return nil
	}
	return historyItems(entries)
}
