// Package station provides the charging station domain model and
// normalization rules shared by the discovery engine.
package station

import (
	"errors"
	"math"
	"time"
)

// Station errors.
var (
	ErrStationNotFound = errors.New("station not found")
	ErrDetailFetch     = errors.New("station detail fetch failed")
)

// Status represents the live operational status of a station.
type Status string

const (
	StatusAvailable   Status = "AVAILABLE"
	StatusOccupied    Status = "OCCUPIED"
	StatusMaintenance Status = "MAINTENANCE"
)

// Availability describes the open/closed state derived from opening hours.
type Availability string

const (
	// AvailabilityOpen means the current time falls within the posted hours.
	AvailabilityOpen Availability = "OPEN"

	// AvailabilityClosed means the current time falls outside the posted hours.
	AvailabilityClosed Availability = "CLOSED"

	// AvailabilityUnknown means no hours are posted; callers should show a
	// neutral "check hours" label rather than guessing.
	AvailabilityUnknown Availability = "CHECK_HOURS"
)

// MediaRole tags an image by what it shows.
type MediaRole string

const (
	MediaRolePrimary  MediaRole = "PRIMARY"
	MediaRoleExterior MediaRole = "EXTERIOR"
	MediaRolePlug     MediaRole = "PLUG"
	MediaRoleInterior MediaRole = "INTERIOR"
)

// DefaultPowerKW is assumed when a station reports no charger powers.
const DefaultPowerKW = 60

// Charger represents one physical connector at a station.
type Charger struct {
	ConnectorType string
	VoltageClass  string
	PowerKW       float64
	Active        bool
}

// Media is one station image, ordered by Position.
type Media struct {
	URL      string
	Role     MediaRole
	Position int
}

// Review is a single user review on a station's detail record.
type Review struct {
	Author    string
	Rating    float64
	Comment   string
	CreatedAt time.Time
}

// RatingBreakdown is a histogram of ratings over the 1-5 scale.
// Index 0 holds one-star counts, index 4 five-star counts.
type RatingBreakdown [5]int

// Station represents a physical EV charging location.
//
// Lat/Lng may be invalid on records coming from the backend; such stations
// stay in list results but are excluded from the map layer (see HasValidCoords).
type Station struct {
	ID       int
	Name     string
	Address  string
	Locality string
	Lat      float64
	Lng      float64

	Chargers []Charger
	Media    []Media
	Reviews  []Review

	OverallRating   float64
	RatingBreakdown RatingBreakdown

	Status Status

	// Opening hours as "HH:MM" wall-clock strings; empty when not posted.
	OpeningTime string
	ClosingTime string
	Is24x7      bool

	// PowerKW is the highest charger power at the station, defaulted to
	// DefaultPowerKW when no charger reports one.
	PowerKW float64

	// Client-side computed fields, zero unless user coordinates were known
	// at normalization time.
	DistanceKM float64
	ETAMinutes int
}

// HasValidCoords reports whether the station can be projected onto a map.
func (s *Station) HasValidCoords() bool {
	return ValidCoords(s.Lat, s.Lng)
}

// ValidCoords reports whether lat/lng are finite and within range.
func ValidCoords(lat, lng float64) bool {
	if math.IsNaN(lat) || math.IsInf(lat, 0) || math.IsNaN(lng) || math.IsInf(lng, 0) {
		return false
	}
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

// OpenNow derives the open/closed state at the given wall-clock time.
// A 24x7 station is always open. With posted hours, the station is open when
// the current minutes-of-day fall within [opening, closing] inclusive.
// Without hours the state is unknown.
func (s *Station) OpenNow(now time.Time) Availability {
	if s.Is24x7 {
		return AvailabilityOpen
	}
	if s.OpeningTime == "" || s.ClosingTime == "" {
		return AvailabilityUnknown
	}

	open, ok := parseMinutes(s.OpeningTime)
	if !ok {
		return AvailabilityUnknown
	}
	closing, ok := parseMinutes(s.ClosingTime)
	if !ok {
		return AvailabilityUnknown
	}

	minutes := now.Hour()*60 + now.Minute()
	if minutes >= open && minutes <= closing {
		return AvailabilityOpen
	}
	return AvailabilityClosed
}

// parseMinutes parses "HH:MM" into minutes-of-day.
func parseMinutes(hhmm string) (int, bool) {
	if len(hhmm) != 5 || hhmm[2] != ':' {
		return 0, false
	}
	h := int(hhmm[0]-'0')*10 + int(hhmm[1]-'0')
	m := int(hhmm[3]-'0')*10 + int(hhmm[4]-'0')
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, false
	}
	for _, c := range hhmm {
		if c != ':' && (c < '0' || c > '9') {
			return 0, false
		}
	}
	return h*60 + m, true
}

// MaxChargerPower returns the highest power among the station's chargers,
// or 0 when no charger reports one.
func (s *Station) MaxChargerPower() float64 {
	var maxPower float64
	for _, c := range s.Chargers {
		if c.PowerKW > maxPower {
			maxPower = c.PowerKW
		}
	}
	return maxPower
}

// PrimaryImage returns the URL of the primary image, falling back to the
// first image in display order, or "" when the station has no media.
func (s *Station) PrimaryImage() string {
	for _, m := range s.Media {
		if m.Role == MediaRolePrimary {
			return m.URL
		}
	}
	if len(s.Media) > 0 {
		return s.Media[0].URL
	}
	return ""
}
