package mapsync

import (
	"encoding/json"

	"github.com/dukerupert/numlookup/internal/geo"
)

// Command operations understood by the page script (web/static/js/map.js).
const (
	OpInit         = "init"
	OpTileLayer    = "tileLayer"
	OpAddMarker    = "addMarker"
	OpRemoveMarker = "removeMarker"
	OpSetView      = "setView"
)

// Command is one Leaflet primitive for the browser to replay.
type Command struct {
	Op          string  `json:"op"`
	Lat         float64 `json:"lat,omitempty"`
	Lng         float64 `json:"lng,omitempty"`
	Zoom        int     `json:"zoom,omitempty"`
	MarkerID    string  `json:"markerId,omitempty"`
	Label       string  `json:"label,omitempty"`
	URL         string  `json:"url,omitempty"`
	Attribution string  `json:"attribution,omitempty"`
}

// CommandRenderer records map primitives as Commands.
// HasContainer tells it whether the rendered page carries a map container.
type CommandRenderer struct {
	HasContainer bool
	commands     []Command
}

// Compile-time check to ensure CommandRenderer implements Renderer.
var _ Renderer = (*CommandRenderer)(nil)

// NewCommandRenderer creates a recorder for a page with or without a map container.
func NewCommandRenderer(hasContainer bool) *CommandRenderer {
	return &CommandRenderer{HasContainer: hasContainer}
}

func (r *CommandRenderer) Init(center geo.Coordinate, zoom int) error {
	if !r.HasContainer {
		return ErrContainerMissing
	}
	r.commands = append(r.commands, Command{Op: OpInit, Lat: center.Lat, Lng: center.Lng, Zoom: zoom})
	return nil
}

func (r *CommandRenderer) AttachTileLayer(layer TileLayer) {
	r.commands = append(r.commands, Command{Op: OpTileLayer, URL: layer.URL, Attribution: layer.Attribution})
}

func (r *CommandRenderer) AddMarker(id string, at geo.Coordinate, label string) {
	r.commands = append(r.commands, Command{Op: OpAddMarker, MarkerID: id, Lat: at.Lat, Lng: at.Lng, Label: label})
}

func (r *CommandRenderer) RemoveMarker(id string) {
	r.commands = append(r.commands, Command{Op: OpRemoveMarker, MarkerID: id})
}

func (r *CommandRenderer) SetView(center geo.Coordinate, zoom int) {
	r.commands = append(r.commands, Command{Op: OpSetView, Lat: center.Lat, Lng: center.Lng, Zoom: zoom})
}

// Commands returns the recorded commands in order.
func (r *CommandRenderer) Commands() []Command {
	return append([]Command(nil), r.commands...)
}

// JSON encodes the recorded commands for embedding in the page.
// An empty recording encodes as "[]".
func (r *CommandRenderer) JSON() (string, error) {
	return EncodeCommands(r.commands)
}

// EncodeCommands encodes cmds as a JSON array; nil encodes as "[]".
func EncodeCommands(cmds []Command) (string, error) {
	if cmds == nil {
		cmds = []Command{}
	}
	b, err := json.Marshal(cmds)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
