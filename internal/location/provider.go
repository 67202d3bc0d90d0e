// Package location provides on-demand device coordinates and the persisted
// location-permission preference.
package location

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"
)

// Location errors.
var (
	// ErrUnavailable means the platform has no location capability.
	ErrUnavailable = errors.New("location capability unavailable")

	// ErrDenied means the user refused the permission prompt.
	ErrDenied = errors.New("location permission denied")
)

// Point is a geographic coordinate pair.
type Point struct {
	Lat float64
	Lng float64
}

// Locator is the platform's one-shot location capability.
type Locator interface {
	// Current resolves the device position once. The call is already
	// one-shot; callers never need to cancel it explicitly.
	Current(ctx context.Context) (Point, error)
}

// Snapshot is the observable location state.
type Snapshot struct {
	// Coords is the last successfully obtained position, nil before the
	// first success. A later failure does not clear it.
	Coords *Point

	// HasErrored is set when the most recent request failed.
	HasErrored bool
}

// ProviderConfig holds configuration for the location provider.
type ProviderConfig struct {
	Locator Locator
	Prefs   PreferenceRepository
	Logger  zerolog.Logger
}

// Provider obtains device coordinates on demand. Request is idempotent and
// safe to call repeatedly; each completed call supersedes the previous
// one's effect (last writer wins). Both outcomes mark the permission prompt
// as asked in persisted storage, so the prompt never fires twice for the
// same client.
type Provider struct {
	locator Locator
	prefs   PreferenceRepository
	logger  zerolog.Logger

	mu         sync.Mutex
	coords     *Point
	hasErrored bool
}

// NewProvider creates a new location provider.
func NewProvider(cfg ProviderConfig) *Provider {
	return &Provider{
		locator: cfg.Locator,
		prefs:   cfg.Prefs,
		logger:  cfg.Logger,
	}
}

// Request triggers the one-shot location capability. On success the
// coordinates are stored and the error flag cleared; on failure the flag is
// set and the previous coordinates are kept.
func (p *Provider) Request(ctx context.Context) Snapshot {
	defer p.markPromptAsked(ctx)

	if p.locator == nil {
		return p.fail(ErrUnavailable)
	}

	point, err := p.locator.Current(ctx)
	if err != nil {
		return p.fail(err)
	}

	p.mu.Lock()
	p.coords = &point
	p.hasErrored = false
	snapshot := p.snapshotLocked()
	p.mu.Unlock()
	return snapshot
}

// Snapshot returns the current location state.
func (p *Provider) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshotLocked()
}

// Coords returns the last-known coordinates for query composition.
// Matches the discovery.CoordsSource signature.
func (p *Provider) Coords() (float64, float64, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.coords == nil {
		return 0, 0, false
	}
	return p.coords.Lat, p.coords.Lng, true
}

func (p *Provider) fail(err error) Snapshot {
	p.logger.Warn().Err(err).Msg("location request failed")

	p.mu.Lock()
	p.hasErrored = true
	snapshot := p.snapshotLocked()
	p.mu.Unlock()
	return snapshot
}

func (p *Provider) markPromptAsked(ctx context.Context) {
	if p.prefs == nil {
		return
	}
	if err := p.prefs.SetPromptAsked(ctx, true); err != nil {
		p.logger.Warn().Err(err).Msg("failed to persist permission prompt flag")
	}
}

func (p *Provider) snapshotLocked() Snapshot {
	snapshot := Snapshot{HasErrored: p.hasErrored}
	if p.coords != nil {
		point := *p.coords
		snapshot.Coords = &point
	}
	return snapshot
}
