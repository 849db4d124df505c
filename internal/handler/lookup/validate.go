package lookup

import (
	"errors"
	"net/http"

	"github.com/dukerupert/numlookup/internal/domain"
	"github.com/dukerupert/numlookup/internal/handler"
	"github.com/dukerupert/numlookup/internal/mapsync"
	"github.com/dukerupert/numlookup/internal/middleware"
	"github.com/dukerupert/numlookup/internal/service"
	"github.com/google/uuid"
)

// pageIDField carries the ID minted for the page that posted the form.
const pageIDField = "page_id"

// ValidateHandler validates a submitted phone number for the posting page.
type ValidateHandler struct {
	service        service.ValidationService
	renderer       *handler.Renderer
	tiles          mapsync.TileLayer
	historyEnabled bool
}

// NewValidateHandler creates a new validate handler
func NewValidateHandler(svc service.ValidationService, renderer *handler.Renderer, tiles mapsync.TileLayer, historyEnabled bool) *ValidateHandler {
	return &ValidateHandler{
		service:        svc,
		renderer:       renderer,
		tiles:          tiles,
		historyEnabled: historyEnabled,
	}
}

// ServeHTTP handles POST /validate
//
// With HX-Request set it answers with the result fragment and the map
// commands of this validation, errors included. Otherwise it re-renders the
// whole page and replays the page's map.
func (h *ValidateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := r.ParseForm(); err != nil {
		status := http.StatusBadRequest
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		middleware.GetLogger(ctx).Info("invalid form submission", "error", err, "status", status)
		h.renderMessage(w, r, uuid.New(), "", status, "Invalid form submission")
		return
	}
	phone := r.PostFormValue("phone")
	id := pageID(r)

	out, err := h.service.Validate(ctx, service.ValidateRequest{
		PageID:       id,
		Phone:        phone,
		HasContainer: hasContainer(r),
	})
	if err != nil {
		h.renderError(w, r, id, phone, err)
		return
	}

	if isPartial(r) {
		h.renderer.RenderPartial(w, http.StatusOK, "result", newResultData(out.View, out.Commands, out.Map))
		return
	}

	cmds, err := h.service.ReplayCommands(out.Map)
	if err != nil {
		middleware.GetLogger(ctx).Warn("failed to replay map", "error", err)
	}
	h.renderPage(w, r, id, out.Phone, http.StatusOK, newResultData(out.View, cmds, out.Map))
}

// renderError shows err in the result area. Validation outcomes keep their
// own status; everything else is logged and mapped by its error code.
func (h *ValidateHandler) renderError(w http.ResponseWriter, r *http.Request, id uuid.UUID, phone string, err error) {
	status := http.StatusOK
	var message string

	switch {
	case domain.IsCode(err, domain.EINVALID):
		message = domain.ErrorMessage(err)
	case domain.IsValidationError(err):
		status = http.StatusBadRequest
		for _, msg := range domain.GetValidationFields(err) {
			message = msg
		}
	case domain.IsCode(err, domain.ECONFLICT):
		status = http.StatusConflict
		message = domain.ErrorMessage(err)
	default:
		status = handler.LogError(r, err)
		message = domain.ErrorMessage(err)
	}

	h.renderMessage(w, r, id, phone, status, message)
}

// renderMessage answers with message in place of a result. The partial
// leaves the map alone; the full page replays whatever the page already had.
func (h *ValidateHandler) renderMessage(w http.ResponseWriter, r *http.Request, id uuid.UUID, phone string, status int, message string) {
	if isPartial(r) {
		h.renderer.RenderPartial(w, status, "result", messageResult(message, mapsync.MapState{}))
		return
	}

	ctx := r.Context()
	state, stateErr := h.service.MapState(ctx, id)
	if stateErr != nil {
		middleware.GetLogger(ctx).Warn("failed to load map state", "error", stateErr)
	}
	cmds, replayErr := h.service.ReplayCommands(state)
	if replayErr != nil {
		middleware.GetLogger(ctx).Warn("failed to replay map", "error", replayErr)
	}

	result := messageResult(message, state)
	result.CommandsJSON = commandsJSON(cmds)
	h.renderPage(w, r, id, phone, status, result)
}

func (h *ValidateHandler) renderPage(w http.ResponseWriter, r *http.Request, id uuid.UUID, phone string, status int, result ResultData) {
	data := PageData{
		Title:          pageTitle,
		PageID:         id.String(),
		Phone:          phone,
		Result:         result,
		Tiles:          h.tiles,
		HistoryEnabled: h.historyEnabled,
	}
	data.History = loadHistory(r, h.service, h.historyEnabled)

	h.renderer.RenderHTTPStatus(w, status, "index", data)
}

// pageID returns the page ID posted with the form. A missing or malformed
// value starts a new page with a fresh map.
func pageID(r *http.Request) uuid.UUID {
	id, err := uuid.Parse(r.PostFormValue(pageIDField))
	if err != nil || id == uuid.Nil {
		return uuid.New()
	}
	return id
}
