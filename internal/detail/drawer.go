package detail

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/chargescout/chargescout/internal/discovery"
)

// Drawer is the wide-layout detail variant: a slide-in overlay fed the
// active station id by the discovery view. It owns its open/close animation
// state and re-fetches whenever the id it is given changes, including from
// one non-nil id directly to another.
type Drawer struct {
	loader *Loader

	mu        sync.Mutex
	currentID *int
	open      bool
}

// NewDrawer creates a drawer over the given repository.
func NewDrawer(repo discovery.Repository, logger zerolog.Logger) *Drawer {
	return &Drawer{loader: NewLoader(repo, logger)}
}

// SetStationID reacts to a change of the active id. A nil id closes the
// drawer; any id change triggers an independent detail fetch.
func (d *Drawer) SetStationID(ctx context.Context, id *int) {
	d.mu.Lock()
	if !idChanged(d.currentID, id) {
		d.mu.Unlock()
		return
	}
	d.currentID = copyID(id)
	d.open = id != nil
	d.mu.Unlock()

	d.loader.Load(ctx, id)
}

// Open reports whether the drawer is shown.
func (d *Drawer) Open() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.open
}

// State returns the loader snapshot for rendering.
func (d *Drawer) State() LoaderState {
	return d.loader.State()
}

// SetTab switches the drawer's local display tab.
func (d *Drawer) SetTab(tab Tab) {
	d.loader.SetTab(tab)
}

func idChanged(a, b *int) bool {
	if a == nil && b == nil {
		return false
	}
	if a == nil || b == nil {
		return true
	}
	return *a != *b
}

func copyID(id *int) *int {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
