package discovery

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/chargescout/chargescout/internal/station"
)

// Repository fetches station data for the store and the detail surfaces.
type Repository interface {
	// FetchList returns the stations matching a descriptor. Implementations
	// absorb transport failures by substituting a fallback dataset; an error
	// here means the request itself could not be made (e.g. cancellation).
	FetchList(ctx context.Context, d Descriptor) ([]station.Station, error)

	// FetchDetail returns one station's full record. Failures propagate.
	FetchDetail(ctx context.Context, id int) (*station.Station, error)
}

// State is a point-in-time snapshot of the store.
type State struct {
	Stations []station.Station
	Loading  bool

	// Error is the last fetch failure as a plain message, "" when the last
	// fetch succeeded. The station list is never cleared on error; stale
	// data beats a blank pane.
	Error string
}

// StoreConfig holds configuration for the station store.
type StoreConfig struct {
	Repository Repository
	Logger     zerolog.Logger

	// OnChange, if set, is invoked with a snapshot after every state change.
	OnChange func(State)
}

// Store owns the list-fetch lifecycle: loading and error state, record
// normalization, and fingerprint memoization. Each consumer gets copies of
// the station slice; the store is the only writer.
type Store struct {
	repo     Repository
	logger   zerolog.Logger
	onChange func(State)

	mu              sync.Mutex
	stations        []station.Station
	loading         bool
	lastError       string
	lastFingerprint string

	// generation guards commits: only the newest in-flight fetch may write.
	generation uint64
}

// NewStore creates a new station store.
func NewStore(cfg StoreConfig) *Store {
	return &Store{
		repo:     cfg.Repository,
		logger:   cfg.Logger,
		onChange: cfg.OnChange,
	}
}

// State returns a snapshot of the current store state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Fetch runs a list fetch for the descriptor. A descriptor whose fingerprint
// matches the previous one is skipped, unless the store holds zero records
// (first load must never be skipped). Returns true when a fetch was issued.
//
// Concurrent calls are safe: only the most recent call's result commits;
// slower, older responses are silently discarded.
func (s *Store) Fetch(ctx context.Context, d Descriptor) bool {
	fingerprint := d.Fingerprint()

	s.mu.Lock()
	if fingerprint == s.lastFingerprint && len(s.stations) > 0 {
		s.mu.Unlock()
		return false
	}
	s.lastFingerprint = fingerprint
	s.generation++
	gen := s.generation
	s.loading = true
	snapshot := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snapshot)

	stations, err := s.repo.FetchList(ctx, d)

	s.mu.Lock()
	if gen != s.generation {
		// A newer fetch started while this one was in flight.
		s.mu.Unlock()
		return true
	}

	s.loading = false
	if err != nil {
		s.lastError = err.Error()
		s.logger.Warn().Err(err).Str("fingerprint", fingerprint).Msg("station list fetch failed")
	} else {
		station.NormalizeAll(stations, d.Lat, d.Lng, d.HasCoords)
		s.stations = stations
		s.lastError = ""
	}
	snapshot = s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snapshot)

	return true
}

// Invalidate clears the fingerprint so the next Fetch always issues a call.
func (s *Store) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastFingerprint = ""
}

// Find returns the station with the given id from the current list.
func (s *Store) Find(id int) (station.Station, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, st := range s.stations {
		if st.ID == id {
			return st, true
		}
	}
	return station.Station{}, false
}

func (s *Store) snapshotLocked() State {
	stations := make([]station.Station, len(s.stations))
	copy(stations, s.stations)
	return State{
		Stations: stations,
		Loading:  s.loading,
		Error:    s.lastError,
	}
}

func (s *Store) notify(state State) {
	if s.onChange != nil {
		s.onChange(state)
	}
}
