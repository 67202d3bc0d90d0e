// Package detail implements the station detail surfaces: the slide-in
// drawer used on wide layouts and the standalone page used on compact ones.
package detail

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/chargescout/chargescout/internal/discovery"
	"github.com/chargescout/chargescout/internal/station"
)

// Phase is the loader's render phase.
type Phase string

const (
	// PhaseEmpty renders nothing: no id, or the fetch failed. Failures are
	// logged, never surfaced as an error banner, and never retried
	// automatically.
	PhaseEmpty Phase = "EMPTY"

	// PhaseLoading renders the placeholder.
	PhaseLoading Phase = "LOADING"

	// PhaseReady renders the full detail.
	PhaseReady Phase = "READY"
)

// Tab is one of the three local display tabs. Switching tabs changes only
// display state, never data.
type Tab string

const (
	TabOverview Tab = "OVERVIEW"
	TabReviews  Tab = "REVIEWS"
	TabAbout    Tab = "ABOUT"
)

// LoaderState is a snapshot of the loader.
type LoaderState struct {
	Phase   Phase
	Station *station.Station
	Tab     Tab
}

// Loader is the fetch-on-demand core shared by both detail variants: given
// a station id it issues one detail fetch and tracks the render phase.
// Only the most recent fetch may commit; a stale response after a newer
// load has started is discarded.
type Loader struct {
	repo   discovery.Repository
	logger zerolog.Logger

	mu         sync.Mutex
	phase      Phase
	station    *station.Station
	tab        Tab
	generation uint64
}

// NewLoader creates a detail loader.
func NewLoader(repo discovery.Repository, logger zerolog.Logger) *Loader {
	return &Loader{
		repo:   repo,
		logger: logger,
		phase:  PhaseEmpty,
		tab:    TabOverview,
	}
}

// Load fetches the detail record for id. A nil id resets to the empty
// shell. Each Load supersedes any still-pending one.
func (l *Loader) Load(ctx context.Context, id *int) {
	l.mu.Lock()
	l.generation++
	gen := l.generation

	if id == nil {
		l.phase = PhaseEmpty
		l.station = nil
		l.mu.Unlock()
		return
	}
	l.phase = PhaseLoading
	l.station = nil
	l.tab = TabOverview
	l.mu.Unlock()

	detail, err := l.repo.FetchDetail(ctx, *id)

	l.mu.Lock()
	defer l.mu.Unlock()
	if gen != l.generation {
		return
	}

	if err != nil {
		l.logger.Warn().Err(err).Int("station_id", *id).Msg("station detail fetch failed")
		l.phase = PhaseEmpty
		l.station = nil
		return
	}

	station.Normalize(detail, 0, 0, false)
	l.phase = PhaseReady
	l.station = detail
}

// State returns a snapshot of the loader.
func (l *Loader) State() LoaderState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return LoaderState{Phase: l.phase, Station: l.station, Tab: l.tab}
}

// SetTab switches the local display tab.
func (l *Loader) SetTab(tab Tab) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.tab = tab
}
