package lookup

import (
	"net/http"
	"time"

	"github.com/dukerupert/numlookup/internal/domain"
	"github.com/dukerupert/numlookup/internal/geo"
	"github.com/dukerupert/numlookup/internal/handler"
	"github.com/dukerupert/numlookup/internal/presenter"
	"github.com/dukerupert/numlookup/internal/service"
)

// APIValidateHandler is the JSON form of a validation. It has no page
// session and never touches a map.
type APIValidateHandler struct {
	service service.ValidationService
}

// NewAPIValidateHandler creates a new API validate handler
func NewAPIValidateHandler(svc service.ValidationService) *APIValidateHandler {
	return &APIValidateHandler{service: svc}
}

// APIValidateResponse is the body of a successful lookup.
type APIValidateResponse struct {
	Result     domain.LookupSuccess `json:"result"`
	Fields     []presenter.Field    `json:"fields"`
	Coordinate *geo.Coordinate      `json:"coordinate,omitempty"`
}

// ServeHTTP handles GET /api/validate/{phone}
// Lookup failures are answered with their mapped status code.
func (h *APIValidateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	out, err := h.service.Validate(r.Context(), service.ValidateRequest{
		Phone: r.PathValue("phone"),
	})
	if err != nil {
		handler.ValidationErrorResponse(w, r, err)
		return
	}

	switch res := out.Result.(type) {
	case domain.LookupSuccess:
		handler.WriteJSON(w, http.StatusOK, APIValidateResponse{
			Result:     res,
			Fields:     out.View.Fields,
			Coordinate: out.Coordinate,
		})
	case domain.LookupFailure:
		code, message := res.Code, res.Message
		if code == "" {
			code = domain.ERESPONSE
		}
		if message == "" {
			message = presenter.UnknownError
		}
		handler.ErrorResponse(w, r, &domain.Error{Code: code, Op: "api.validate", Message: message})
	}
}

// HistoryHandler serves recent lookups.
type HistoryHandler struct {
	service  service.ValidationService
	renderer *handler.Renderer
}

// NewHistoryHandler creates a new history handler
func NewHistoryHandler(svc service.ValidationService, renderer *handler.Renderer) *HistoryHandler {
	return &HistoryHandler{service: svc, renderer: renderer}
}

type historyJSON struct {
	Phone     string    `json:"phone"`
	Outcome   string    `json:"outcome"`
	Summary   string    `json:"summary"`
	CreatedAt time.Time `json:"created_at"`
}

// ServeHTTP handles GET /history
// JSON for API clients, otherwise the history fragment.
func (h *HistoryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.Recent(r.Context())
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	items := historyItems(entries)

	if r.Header.Get("Accept") == "application/json" {
		out := make([]historyJSON, 0, len(items))
		for _, it := range items {
			out = append(out, historyJSON(it))
		}
		handler.WriteJSON(w, http.StatusOK, out)
		return
	}

	h.renderer.RenderPartial(w, http.StatusOK, "history", items)
}
