// Package worker provides background job processing for ChargeScout.
package worker

import (
	"time"

	"github.com/chargescout/chargescout/internal/discovery"
)

// PrewarmTarget represents a locality whose station list gets warmed.
type PrewarmTarget struct {
	// Name is the locality name, matching the search chips in the app.
	Name string

	// Lat/Lng is the locality center.
	Lat float64
	Lng float64

	// Priority determines warm order (lower = higher priority).
	Priority int
}

// PrewarmConfig holds configuration for the station prewarm job.
type PrewarmConfig struct {
	// Targets are the localities to warm.
	// If empty, uses DefaultPrewarmTargets.
	Targets []PrewarmTarget

	// Radius is the search radius in kilometers around each target.
	// Default: the nearby radius used by the app.
	Radius float64

	// Concurrency is the number of concurrent warm operations.
	// Default: 3
	Concurrency int

	// Timeout is the timeout for each warm operation.
	// Default: 30 seconds
	Timeout time.Duration

	// WarmDetails fetches full detail records for the top stations of
	// each locality in addition to the list page.
	// Default: true
	WarmDetails bool

	// DetailLimit caps the number of detail fetches per locality.
	// Default: 5
	DetailLimit int
}

// DefaultPrewarmConfig returns the default prewarm configuration.
func DefaultPrewarmConfig() PrewarmConfig {
	return PrewarmConfig{
		Targets:     DefaultPrewarmTargets(),
		Radius:      discovery.RadiusNearby,
		Concurrency: 3,
		Timeout:     30 * time.Second,
		WarmDetails: true,
		DetailLimit: 5,
	}
}

// DefaultPrewarmTargets returns the default targets for Hyderabad.
// Matches the locality chips offered in the app's search bar.
func DefaultPrewarmTargets() []PrewarmTarget {
	return []PrewarmTarget{
		{Name: "Banjara Hills", Priority: 1, Lat: 17.4126, Lng: 78.4482},
		{Name: "Hitech City", Priority: 1, Lat: 17.4435, Lng: 78.3772},
		{Name: "Gachibowli", Priority: 1, Lat: 17.4401, Lng: 78.3489},
		{Name: "Jubilee Hills", Priority: 1, Lat: 17.4239, Lng: 78.4138},
		{Name: "Madhapur", Priority: 2, Lat: 17.4483, Lng: 78.3915},
		{Name: "Kukatpally", Priority: 2, Lat: 17.4849, Lng: 78.4138},
		{Name: "Secunderabad", Priority: 2, Lat: 17.4399, Lng: 78.4983},
		{Name: "Begumpet", Priority: 3, Lat: 17.4448, Lng: 78.4645},
		{Name: "Kondapur", Priority: 3, Lat: 17.4622, Lng: 78.3568},
		{Name: "Miyapur", Priority: 3, Lat: 17.4924, Lng: 78.3818},
	}
}

// TotalTargets returns the number of localities to warm.
func (c PrewarmConfig) TotalTargets() int {
	return len(c.Targets)
}
