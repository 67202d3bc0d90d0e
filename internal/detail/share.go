package detail

import (
	"fmt"

	"github.com/chargescout/chargescout/internal/station"
)

// SharePort is the platform's native share capability, absent on most
// desktop browsers.
type SharePort interface {
	Share(title, url string) error
}

// ClipboardPort copies text for the share fallback.
type ClipboardPort interface {
	Copy(text string) error
}

// ShareOutcome tells the caller what confirmation to show.
type ShareOutcome string

const (
	ShareOutcomeShared ShareOutcome = "SHARED"
	ShareOutcomeCopied ShareOutcome = "COPIED"
	ShareOutcomeFailed ShareOutcome = "FAILED"
)

// DirectionsURL builds the external maps deep link for a station, pre-set
// to driving mode.
func DirectionsURL(s *station.Station) string {
	return fmt.Sprintf(
		"https://www.google.com/maps/dir/?api=1&destination=%f,%f&travelmode=driving",
		s.Lat, s.Lng,
	)
}

// ShareURL is the shareable per-station link.
func ShareURL(baseURL string, stationID int) string {
	return fmt.Sprintf("%s/stations/%d", baseURL, stationID)
}

// ShareStation shares a station link through the native capability when
// present, otherwise copies it to the clipboard. The outcome drives the
// user-facing confirmation.
func ShareStation(share SharePort, clipboard ClipboardPort, s *station.Station, baseURL string) ShareOutcome {
	url := ShareURL(baseURL, s.ID)

	if share != nil {
		if err := share.Share(s.Name, url); err == nil {
			return ShareOutcomeShared
		}
	}
	if clipboard != nil {
		if err := clipboard.Copy(url); err == nil {
			return ShareOutcomeCopied
		}
	}
	return ShareOutcomeFailed
}
