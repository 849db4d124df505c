// Package mapsync owns the map of a page session: lazy initialization,
// single-marker replacement and viewport centering.
//
// The browser map is driven through the narrow Renderer contract. The
// Synchronizer is not safe for concurrent use; callers serialize access per
// page session.
package mapsync

import (
	"errors"
	"log/slog"

	"github.com/dukerupert/numlookup/internal/geo"
	"github.com/google/uuid"
)

const (
	// BaseZoom is the zoom of a freshly initialized map.
	BaseZoom = 2

	// MarkerZoom is the zoom used when centering on a placed marker.
	MarkerZoom = 4

	DefaultTileURL     = "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png"
	DefaultAttribution = "© OpenStreetMap contributors"
)

// Origin is the neutral center of a freshly initialized map.
var Origin = geo.Coordinate{Lat: 0, Lng: 0}

// ErrContainerMissing is returned by Init when the page has no map container.
var ErrContainerMissing = errors.New("map container not found")

// Renderer is the map rendering collaborator.
type Renderer interface {
	// Init creates the base map view. Returns ErrContainerMissing when the
	// page has nowhere to mount it.
	Init(center geo.Coordinate, zoom int) error
	AttachTileLayer(layer TileLayer)
	AddMarker(id string, at geo.Coordinate, label string)
	RemoveMarker(id string)
	SetView(center geo.Coordinate, zoom int)
}

// TileLayer describes the single background layer attached on Init.
type TileLayer struct {
	URL         string `json:"url"`
	Attribution string `json:"attribution"`
}

// DefaultTileLayer is the OpenStreetMap layer.
func DefaultTileLayer() TileLayer {
	return TileLayer{URL: DefaultTileURL, Attribution: DefaultAttribution}
}

// Marker is the single pin currently shown on the map.
type Marker struct {
	ID       string         `json:"id"`
	Position geo.Coordinate `json:"position"`
	Label    string         `json:"label,omitempty"`
}

// MapState is the per-session map state. It is mutated only by a Synchronizer.
type MapState struct {
	Initialized      bool    `json:"initialized"`
	ContainerMissing bool    `json:"container_missing,omitempty"`
	Marker           *Marker `json:"marker,omitempty"`
}

// Synchronizer applies map transitions to a MapState and mirrors them to a Renderer.
type Synchronizer struct {
	state    *MapState
	renderer Renderer
	tiles    TileLayer
	logger   *slog.Logger
}

// New returns a Synchronizer that mutates state in place.
func New(state *MapState, renderer Renderer, tiles TileLayer, logger *slog.Logger) *Synchronizer {
	if tiles.URL == "" {
		tiles = DefaultTileLayer()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Synchronizer{
		state:    state,
		renderer: renderer,
		tiles:    tiles,
		logger:   logger,
	}
}

// Ready reports whether the map has been initialized.
func (s *Synchronizer) Ready() bool {
	return s.state.Initialized
}

// Init moves the map from Uninitialized to Ready. Calling it while Ready is a no-op.
func (s *Synchronizer) Init() error {
	if s.state.Initialized {
		return nil
	}

	if err := s.renderer.Init(Origin, BaseZoom); err != nil {
		if errors.Is(err, ErrContainerMissing) {
			s.state.ContainerMissing = true
		}
		s.logger.Error("map initialization failed", "error", err)
		return err
	}

	s.renderer.AttachTileLayer(s.tiles)
	s.state.Initialized = true
	s.state.ContainerMissing = false
	return nil
}

// PlaceMarker replaces the current marker with one at coord and centers the
// view on it. It initializes the map first when needed. When the map cannot be
// initialized the call is a no-op.
func (s *Synchronizer) PlaceMarker(coord geo.Coordinate, label string) {
	if !s.state.Initialized {
		if s.state.ContainerMissing {
			s.logger.Warn("map unavailable, skipping marker", "lat", coord.Lat, "lng", coord.Lng)
			return
		}
		if err := s.Init(); err != nil {
			s.logger.Warn("map unavailable, skipping marker", "lat", coord.Lat, "lng", coord.Lng)
			return
		}
	}

	if s.state.Marker != nil {
		s.renderer.RemoveMarker(s.state.Marker.ID)
		s.state.Marker = nil
	}

	m := &Marker{ID: uuid.NewString(), Position: coord, Label: label}
	s.renderer.AddMarker(m.ID, m.Position, m.Label)
	s.renderer.SetView(coord, MarkerZoom)
	s.state.Marker = m
}

// Replay re-creates state on a fresh renderer, e.g. after a full page render.
// Uninitialized state emits nothing.
func Replay(state MapState, renderer Renderer, tiles TileLayer) error {
	if !state.Initialized {
		return nil
	}
	if tiles.URL == "" {
		tiles = DefaultTileLayer()
	}

	if err := renderer.Init(Origin, BaseZoom); err != nil {
		return err
	}
	renderer.AttachTileLayer(tiles)

	if m := state.Marker; m != nil {
		renderer.AddMarker(m.ID, m.Position, m.Label)
		renderer.SetView(m.Position, MarkerZoom)
	}
	return nil
}
