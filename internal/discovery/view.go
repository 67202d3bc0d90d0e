package discovery

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// Layout is the viewport-driven presentation mode.
type Layout string

const (
	// LayoutCompact is the single-pane mode: list or map, one at a time,
	// with detail reached by navigation.
	LayoutCompact Layout = "COMPACT"

	// LayoutWide is the side-by-side mode with an overlay detail drawer.
	LayoutWide Layout = "WIDE"
)

// Pane is the visible pane in compact layout.
type Pane string

const (
	PaneList Pane = "LIST"
	PaneMap  Pane = "MAP"
)

// ChoiceSource identifies which pane a selection came from. The two sources
// navigate to textually different URLs that resolve to the same detail page.
type ChoiceSource int

const (
	SourceListCard ChoiceSource = iota
	SourceMarker
)

// ViewportQuery reports the current layout. It is invoked freshly on every
// interaction, never cached: the window can be resized between renders.
type ViewportQuery func() Layout

// Navigator performs a browser-style navigation to a per-station URL.
type Navigator interface {
	Navigate(url string)
}

// SelectionIntent is the resolved outcome of choosing a station. Exactly one
// variant applies per choice; the two mechanisms are never combined.
type SelectionIntent interface {
	isSelectionIntent()
}

// DrawerSelect opens the detail drawer for a station (wide layout).
type DrawerSelect struct {
	StationID int
}

// NavigateSelect navigates to a per-station URL (compact layout).
// The in-memory active id is left untouched.
type NavigateSelect struct {
	StationID int
	URL       string
}

func (DrawerSelect) isSelectionIntent()   {}
func (NavigateSelect) isSelectionIntent() {}

// ViewConfig holds configuration for the discovery view.
type ViewConfig struct {
	Viewport  ViewportQuery
	Navigator Navigator
	Logger    zerolog.Logger
}

// View orchestrates the discovery surface: layout and pane modes, overlay
// visibility, and the selection state machine. It is the sole writer of the
// active station id shared by the list and map panes.
type View struct {
	viewport  ViewportQuery
	navigator Navigator
	logger    zerolog.Logger

	mu               sync.Mutex
	pane             Pane
	activeStationID  *int
	searchOverlay    bool
	permissionPrompt bool
}

// NewView creates a new discovery view. The compact pane starts at the list.
func NewView(cfg ViewConfig) *View {
	return &View{
		viewport:  cfg.Viewport,
		navigator: cfg.Navigator,
		logger:    cfg.Logger,
		pane:      PaneList,
	}
}

// Resolve evaluates the viewport and returns the selection intent for a
// station choice without applying it. Exposed for the panes' tap handlers
// and for tests; Choose applies the returned intent.
func (v *View) Resolve(id int, source ChoiceSource) SelectionIntent {
	if v.viewport() == LayoutWide {
		return DrawerSelect{StationID: id}
	}
	return NavigateSelect{StationID: id, URL: stationURL(id, source)}
}

// Choose handles "a station was chosen" from either pane. The viewport is
// re-evaluated at this moment; a stale layout decision would route a click
// to the wrong surface after a window resize.
func (v *View) Choose(id int, source ChoiceSource) SelectionIntent {
	intent := v.Resolve(id, source)

	switch intent := intent.(type) {
	case DrawerSelect:
		v.mu.Lock()
		v.activeStationID = &intent.StationID
		v.mu.Unlock()
	case NavigateSelect:
		v.navigator.Navigate(intent.URL)
	}

	return intent
}

// CloseDrawer tears the drawer down by clearing the active id.
func (v *View) CloseDrawer() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.activeStationID = nil
}

// ActiveStationID returns the id behind the open drawer, or nil.
func (v *View) ActiveStationID() *int {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.activeStationID == nil {
		return nil
	}
	id := *v.activeStationID
	return &id
}

// Pane returns the visible compact pane.
func (v *View) Pane() Pane {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.pane
}

// TogglePane switches between the list and map panes (compact layout only).
func (v *View) TogglePane() Pane {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.pane == PaneList {
		v.pane = PaneMap
	} else {
		v.pane = PaneList
	}
	return v.pane
}

// SetSearchOverlay shows or hides the search overlay.
func (v *View) SetSearchOverlay(visible bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.searchOverlay = visible
}

// SearchOverlayVisible reports the search overlay state.
func (v *View) SearchOverlayVisible() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.searchOverlay
}

// SetPermissionPrompt shows or hides the location permission prompt.
func (v *View) SetPermissionPrompt(visible bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.permissionPrompt = visible
}

// PermissionPromptVisible reports the permission prompt state.
func (v *View) PermissionPromptVisible() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.permissionPrompt
}

// stationURL builds the per-station URL for a compact-layout navigation.
// List cards use the path-style route, markers the hash-style route; both
// resolve to the same detail surface.
func stationURL(id int, source ChoiceSource) string {
	if source == SourceMarker {
		return fmt.Sprintf("/#/station/%d", id)
	}
	return fmt.Sprintf("/stations/%d", id)
}
