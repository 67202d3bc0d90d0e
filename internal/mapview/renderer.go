// Package mapview projects the current station set onto the basemap and
// drives the camera. The concrete map library sits behind RenderPort; the
// logic here never touches its types.
package mapview

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/chargescout/chargescout/internal/location"
	"github.com/chargescout/chargescout/internal/station"
)

// Camera zoom levels.
const (
	// ZoomDetail frames a single station.
	ZoomDetail = 16

	// ZoomArea frames a neighbourhood around the user.
	ZoomArea = 13
)

// Camera is a basemap camera target.
type Camera struct {
	Lat  float64
	Lng  float64
	Zoom int
}

// Marker is one station glyph on the map layer.
type Marker struct {
	StationID int
	Lat       float64
	Lng       float64

	// Label carries the power rating, e.g. "60 kW".
	Label string

	// Available drives glyph colour; Active enlarges the glyph and adds
	// the accent border.
	Available bool
	Active    bool
}

// RenderPort is the narrow interface to the concrete map library.
type RenderPort interface {
	// RenderMarkers replaces the marker layer.
	RenderMarkers(markers []Marker)

	// SetCamera jumps the camera instantly.
	SetCamera(c Camera)

	// FlyTo animates the camera. The renderer falls back to SetCamera when
	// the animation fails; the camera must never fail to move.
	FlyTo(c Camera) error

	// OpenPopup opens the popup anchored at a station's marker.
	OpenPopup(stationID int)
}

// RendererConfig holds configuration for the map renderer.
type RendererConfig struct {
	Port   RenderPort
	Logger zerolog.Logger

	// Choose receives marker taps; wired to the discovery view's selection
	// algorithm.
	Choose func(stationID int)
}

// Renderer owns the marker layer and the camera priority policy.
type Renderer struct {
	port   RenderPort
	logger zerolog.Logger
	choose func(int)
}

// NewRenderer creates a new map renderer.
func NewRenderer(cfg RendererConfig) *Renderer {
	return &Renderer{
		port:   cfg.Port,
		logger: cfg.Logger,
		choose: cfg.Choose,
	}
}

// Sync re-renders the marker layer and re-evaluates the camera. Called
// whenever the station list, the active station id, or the user coordinates
// change.
//
// Camera priority, in strict order:
//  1. Active station with valid coordinates: detail zoom.
//  2. Valid user coordinates: area zoom.
//  3. Otherwise the camera stays where it is.
func (r *Renderer) Sync(stations []station.Station, activeID *int, user *location.Point) {
	r.port.RenderMarkers(buildMarkers(stations, activeID))

	if activeID != nil {
		if target, ok := findStation(stations, *activeID); ok && target.HasValidCoords() {
			r.moveCamera(Camera{Lat: target.Lat, Lng: target.Lng, Zoom: ZoomDetail})
			return
		}
	}

	if user != nil && station.ValidCoords(user.Lat, user.Lng) {
		r.moveCamera(Camera{Lat: user.Lat, Lng: user.Lng, Zoom: ZoomArea})
	}
}

// FindMe recenters on the user regardless of the active station. It is a
// no-op when coordinates are unavailable or invalid.
func (r *Renderer) FindMe(user *location.Point) bool {
	if user == nil || !station.ValidCoords(user.Lat, user.Lng) {
		return false
	}
	r.moveCamera(Camera{Lat: user.Lat, Lng: user.Lng, Zoom: ZoomArea})
	return true
}

// TapMarker routes a marker tap into the selection algorithm and opens the
// marker popup.
func (r *Renderer) TapMarker(stationID int) {
	r.port.OpenPopup(stationID)
	if r.choose != nil {
		r.choose(stationID)
	}
}

// DirectionsEmbedURL builds the embedded directions sub-view target for a
// station, independent of the main camera state.
func DirectionsEmbedURL(s *station.Station) string {
	return fmt.Sprintf("https://www.google.com/maps?q=%f,%f&output=embed", s.Lat, s.Lng)
}

func (r *Renderer) moveCamera(c Camera) {
	if err := r.port.FlyTo(c); err != nil {
		r.logger.Debug().Err(err).Msg("camera animation failed, jumping instead")
		r.port.SetCamera(c)
	}
}

// buildMarkers projects stations with valid coordinates into glyphs.
// Records failing the coordinate check stay in the list pane but are
// excluded here.
func buildMarkers(stations []station.Station, activeID *int) []Marker {
	markers := make([]Marker, 0, len(stations))
	for i := range stations {
		s := &stations[i]
		if !s.HasValidCoords() {
			continue
		}
		markers = append(markers, Marker{
			StationID: s.ID,
			Lat:       s.Lat,
			Lng:       s.Lng,
			Label:     powerLabel(s.PowerKW),
			Available: s.Status == station.StatusAvailable,
			Active:    activeID != nil && *activeID == s.ID,
		})
	}
	return markers
}

func powerLabel(kw float64) string {
	if kw == float64(int(kw)) {
		return fmt.Sprintf("%d kW", int(kw))
	}
	return fmt.Sprintf("%.1f kW", kw)
}

func findStation(stations []station.Station, id int) (*station.Station, bool) {
	for i := range stations {
		if stations[i].ID == id {
			return &stations[i], true
		}
	}
	return nil, false
}
