// Package geo maps ISO country codes to the coordinates used to place the
// country marker on the map.
package geo

import (
	"sort"
	"strings"
)

// Coordinate is a point on the map.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// countries holds the approximate center of every supported country.
var countries = map[string]Coordinate{
	"US": {Lat: 37.0902, Lng: -95.7129},
	"GB": {Lat: 55.3781, Lng: -3.4360},
	"ES": {Lat: 40.4637, Lng: -3.7492},
	"CL": {Lat: -35.6751, Lng: -71.5430},
}

// Lookup returns the coordinate for an ISO 3166-1 alpha-2 country code.
// ok is false for codes outside the table; that is not an error.
func Lookup(countryCode string) (Coordinate, bool) {
	c, ok := countries[strings.ToUpper(strings.TrimSpace(countryCode))]
	return c, ok
}

// Codes returns the supported country codes in sorted order.
func Codes() []string {
	codes := make([]string, 0, len(countries))
	for code := range countries {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
