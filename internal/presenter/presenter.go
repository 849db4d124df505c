// Package presenter decides what a lookup result looks like on the page and
// whether it moves the map.
package presenter

import (
	"log/slog"
	"strings"

	"github.com/dukerupert/numlookup/internal/domain"
	"github.com/dukerupert/numlookup/internal/geo"
)

// User-facing strings.
const (
	NotAvailable   = "Not available"
	UnknownError   = "Unknown error while validating the number"
	ErrorPrefix    = "Error: "
	Affirmative    = "Yes"
	Negative       = "No"
	LabelNumber    = "Number"
	LabelCountry   = "Country"
	LabelPrefix    = "Country code"
	LabelIntlFmt   = "International format"
	LabelValid     = "Valid"
	EmptyPhoneHint = "Please enter a phone number"
)

// Field is one labeled line of a successful result.
type Field struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// View is the rendered form of a LookupResult.
// Exactly one of Error and Fields is set.
type View struct {
	Error  string  `json:"error,omitempty"`
	Fields []Field `json:"fields,omitempty"`

	// CountryCode is the code to plot, if any. Not rendered.
	CountryCode string `json:"-"`
}

// IsError reports whether the view is a single error line.
func (v View) IsError() bool {
	return v.Error != ""
}

// Present converts result into a View. It has no side effects.
func Present(result domain.LookupResult) View {
	switch r := result.(type) {
	case domain.LookupSuccess:
		valid := Negative
		if r.Valid {
			valid = Affirmative
		}
		return View{
			Fields: []Field{
				{Label: LabelNumber, Value: orPlaceholder(r.Phone)},
				{Label: LabelCountry, Value: orPlaceholder(r.CountryName)},
				{Label: LabelPrefix, Value: orPlaceholder(r.CountryPrefix)},
				{Label: LabelIntlFmt, Value: orPlaceholder(r.InternationalFormat)},
				{Label: LabelValid, Value: valid},
			},
			CountryCode: strings.TrimSpace(r.CountryCode),
		}
	case domain.LookupFailure:
		return errorView(r.Message)
	default:
		return errorView("")
	}
}

func errorView(message string) View {
	if strings.TrimSpace(message) == "" {
		message = UnknownError
	}
	return View{Error: ErrorPrefix + message}
}

func orPlaceholder(s string) string {
	if strings.TrimSpace(s) == "" {
		return NotAvailable
	}
	return s
}

// MapUpdate describes what Show did to the map.
type MapUpdate string

const (
	MapUnchanged      MapUpdate = "unchanged"
	MapMarkerPlaced   MapUpdate = "marker_placed"
	MapUnknownCountry MapUpdate = "unknown_country"
	MapUnavailable    MapUpdate = "unavailable"
)

// MarkerPlacer is the part of the map synchronizer the presenter drives.
type MarkerPlacer interface {
	PlaceMarker(coord geo.Coordinate, label string)
	Ready() bool
}

// Presenter renders results and keeps the map in sync with them.
type Presenter struct {
	logger *slog.Logger
}

// New creates a Presenter.
func New(logger *slog.Logger) *Presenter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Presenter{logger: logger}
}

// Show renders result and, for a success carrying a known country code, moves
// the map marker. A nil placer skips the map entirely.
func (p *Presenter) Show(result domain.LookupResult, placer MarkerPlacer) (View, MapUpdate) {
	view := Present(result)
	if view.IsError() || view.CountryCode == "" || placer == nil {
		return view, MapUnchanged
	}

	coord, ok := geo.Lookup(view.CountryCode)
	if !ok {
		p.logger.Warn("coordinates not available for country", "country_code", view.CountryCode)
		return view, MapUnknownCountry
	}

	label := ""
	if s, ok := result.(domain.LookupSuccess); ok {
		label = s.CountryName
	}
	placer.PlaceMarker(coord, label)
	if !placer.Ready() {
		return view, MapUnavailable
	}
	return view, MapMarkerPlaced
}
