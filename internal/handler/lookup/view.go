// Package lookup serves the phone lookup page and its fragments.
package lookup

import (
	"net/http"
	"strings"
	"time"

	"github.com/dukerupert/numlookup/internal/domain"
	"github.com/dukerupert/numlookup/internal/history"
	"github.com/dukerupert/numlookup/internal/mapsync"
	"github.com/dukerupert/numlookup/internal/presenter"
)

const pageTitle = "Phone number lookup"

// PageData is the data of the index page.
type PageData struct {
	Title string

	// PageID keys this page's map state. Each page load mints a new one.
	PageID string

	Phone          string
	Result         ResultData
	Tiles          mapsync.TileLayer
	HistoryEnabled bool
	History        []HistoryItem
}

// ResultData is the data of the result partial.
type ResultData struct {
	View presenter.View

	// Message replaces the view, e.g. the empty-input prompt.
	Message string

	// CommandsJSON holds the map commands the page replays.
	CommandsJSON string

	// MapVisible is true once the map holds a marker.
	MapVisible bool
}

// HistoryItem is one line of the history partial.
type HistoryItem struct {
	Phone     string
	Outcome   string
	Summary   string
	CreatedAt time.Time
}

func newResultData(view presenter.View, cmds []mapsync.Command, state mapsync.MapState) ResultData {
	return ResultData{
		View:         view,
		CommandsJSON: commandsJSON(cmds),
		MapVisible:   state.Marker != nil,
	}
}

func messageResult(message string, state mapsync.MapState) ResultData {
	return ResultData{
		Message:      message,
		CommandsJSON: "[]",
		MapVisible:   state.Marker != nil,
	}
}

func commandsJSON(cmds []mapsync.Command) string {
	out, err := mapsync.EncodeCommands(cmds)
	if err != nil {
		return "[]"
	}
	return out
}

func historyItems(entries []history.Entry) []HistoryItem {
	items := make([]HistoryItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, HistoryItem{
			Phone:     e.Phone,
			Outcome:   e.Outcome(),
			Summary:   summarize(e.Result),
			CreatedAt: e.CreatedAt,
		})
	}
	return items
}

func summarize(r domain.LookupResult) string {
	switch v := r.(type) {
	case domain.LookupSuccess:
		valid := "invalid"
		if v.Valid {
			valid = "valid"
		}
		country := v.CountryName
		if country == "" {
			country = presenter.NotAvailable
		}
		return country + ", " + valid
	default:
		return presenter.Present(r).Error
	}
}

// isPartial reports whether the page script asked for a fragment.
func isPartial(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// hasContainer reads the page's report of its map container. Full page posts
// come from the rendered index, which always has one.
func hasContainer(r *http.Request) bool {
	return !strings.EqualFold(r.Header.Get("X-Map-Container"), "missing")
}
