package presenter_test

import (
	"io"
	"log/slog"
	"testing"

	"github.com/dukerupert/numlookup/internal/domain"
	"github.com/dukerupert/numlookup/internal/geo"
	"github.com/dukerupert/numlookup/internal/presenter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type placeCall struct {
	coord geo.Coordinate
	label string
}

type fakePlacer struct {
	calls []placeCall
	ready bool
}

func (f *fakePlacer) PlaceMarker(coord geo.Coordinate, label string) {
	f.calls = append(f.calls, placeCall{coord: coord, label: label})
}

func (f *fakePlacer) Ready() bool { return f.ready }

func newPresenter() *presenter.Presenter {
	return presenter.New(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func labels(v presenter.View) []string {
	out := make([]string, 0, len(v.Fields))
	for _, f := range v.Fields {
		out = append(out, f.Label)
	}
	return out
}

func TestPresent_Success_FiveFieldsInOrder(t *testing.T) {
	view := presenter.Present(domain.LookupSuccess{
		Phone:               "+34600000000",
		CountryName:         "Spain",
		CountryPrefix:       "+34",
		CountryCode:         "ES",
		InternationalFormat: "+34 600 000 000",
		Valid:               true,
	})

	require.False(t, view.IsError())
	assert.Equal(t, []presenter.Field{
		{Label: "Number", Value: "+34600000000"},
		{Label: "Country", Value: "Spain"},
		{Label: "Country code", Value: "+34"},
		{Label: "International format", Value: "+34 600 000 000"},
		{Label: "Valid", Value: "Yes"},
	}, view.Fields)
	assert.Equal(t, "ES", view.CountryCode)
}

func TestPresent_Success_Placeholders(t *testing.T) {
	view := presenter.Present(domain.LookupSuccess{Phone: "12345", Valid: false})

	require.Len(t, view.Fields, 5)
	assert.Equal(t, []string{"Number", "Country", "Country code", "International format", "Valid"}, labels(view))
	assert.Equal(t, "12345", view.Fields[0].Value)
	for _, f := range view.Fields[1:4] {
		assert.Equal(t, presenter.NotAvailable, f.Value, f.Label)
	}
	assert.Equal(t, "No", view.Fields[4].Value)
}

func TestPresent_Failure(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    string
	}{
		{name: "verbatim message", message: "credential not configured", want: "Error: credential not configured"},
		{name: "empty message", message: "", want: "Error: " + presenter.UnknownError},
		{name: "blank message", message: "   ", want: "Error: " + presenter.UnknownError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := presenter.Present(domain.LookupFailure{Message: tt.message})
			assert.True(t, view.IsError())
			assert.Equal(t, tt.want, view.Error)
			assert.Empty(t, view.Fields)
		})
	}
}

func TestPresent_NilResult(t *testing.T) {
	view := presenter.Present(nil)
	assert.Equal(t, "Error: "+presenter.UnknownError, view.Error)
}

func TestShow_KnownCountryPlacesMarker(t *testing.T) {
	placer := &fakePlacer{ready: true}
	result := domain.LookupSuccess{Phone: "+34600000000", CountryName: "Spain", CountryCode: "ES", Valid: true}

	_, update := newPresenter().Show(result, placer)

	assert.Equal(t, presenter.MapMarkerPlaced, update)
	require.Len(t, placer.calls, 1)
	assert.Equal(t, geo.Coordinate{Lat: 40.4637, Lng: -3.7492}, placer.calls[0].coord)
	assert.Equal(t, "Spain", placer.calls[0].label)
}

func TestShow_UnknownCountrySkipsMap(t *testing.T) {
	placer := &fakePlacer{ready: true}
	result := domain.LookupSuccess{Phone: "12345", CountryName: "Nowhere", CountryCode: "XX"}

	view, update := newPresenter().Show(result, placer)

	assert.False(t, view.IsError(), "unknown country is not an error")
	assert.Equal(t, "Nowhere", view.Fields[1].Value)
	assert.Equal(t, presenter.MapUnknownCountry, update)
	assert.Empty(t, placer.calls)
}

func TestShow_FailureNeverTouchesMap(t *testing.T) {
	placer := &fakePlacer{ready: true}

	view, update := newPresenter().Show(domain.LookupFailure{Message: "Error in the API response"}, placer)

	assert.Equal(t, "Error: Error in the API response", view.Error)
	assert.Equal(t, presenter.MapUnchanged, update)
	assert.Empty(t, placer.calls)
}

func TestShow_NoCountryCode(t *testing.T) {
	placer := &fakePlacer{ready: true}
	_, update := newPresenter().Show(domain.LookupSuccess{Phone: "1"}, placer)
	assert.Equal(t, presenter.MapUnchanged, update)
	assert.Empty(t, placer.calls)
}

func TestShow_MapUnavailable(t *testing.T) {
	placer := &fakePlacer{ready: false}
	_, update := newPresenter().Show(domain.LookupSuccess{CountryCode: "US"}, placer)
	assert.Equal(t, presenter.MapUnavailable, update)
}

func TestShow_Idempotent(t *testing.T) {
	p := newPresenter()
	placer := &fakePlacer{ready: true}
	result := domain.LookupSuccess{Phone: "+1 555", CountryName: "United States", CountryCode: "US", Valid: true}

	first, _ := p.Show(result, placer)
	second, _ := p.Show(result, placer)

	assert.Equal(t, first, second)
	require.Len(t, placer.calls, 2)
	assert.Equal(t, placer.calls[0], placer.calls[1])
}
