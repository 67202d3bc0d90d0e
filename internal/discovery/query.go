// Package discovery implements the station discovery engine: query
// composition, the result store, and the list/map orchestration state.
package discovery

import (
	"strconv"
	"strings"
)

// Radius defaults in kilometres. A known user position searches nearby;
// without one the search widens to the whole city.
const (
	RadiusNearby   = 12
	RadiusCityWide = 50
)

// Descriptor is the canonical form of one list query. Two descriptors are
// equivalent iff their fingerprints are equal; equivalence gates re-fetch.
type Descriptor struct {
	Search    string
	Lat       float64
	Lng       float64
	Radius    float64
	HasCoords bool
}

// NewDescriptor builds a descriptor from free text and optional coordinates,
// applying the radius defaults. Empty search text means "no filter".
func NewDescriptor(search string, lat, lng float64, hasCoords bool) Descriptor {
	d := Descriptor{
		Search:    strings.TrimSpace(search),
		HasCoords: hasCoords,
		Radius:    RadiusCityWide,
	}
	if hasCoords {
		d.Lat = lat
		d.Lng = lng
		d.Radius = RadiusNearby
	}
	return d
}

// Fingerprint returns the serialized form used to detect redundant fetches.
func (d Descriptor) Fingerprint() string {
	var b strings.Builder
	b.WriteString("search=")
	b.WriteString(d.Search)
	b.WriteString("&lat=")
	if d.HasCoords {
		b.WriteString(strconv.FormatFloat(d.Lat, 'f', -1, 64))
	}
	b.WriteString("&lng=")
	if d.HasCoords {
		b.WriteString(strconv.FormatFloat(d.Lng, 'f', -1, 64))
	}
	b.WriteString("&radius=")
	b.WriteString(strconv.FormatFloat(d.Radius, 'f', -1, 64))
	return b.String()
}
