package discovery

import (
	"sync"
	"time"
)

// DefaultDebounce is the trailing debounce applied to free-text input.
const DefaultDebounce = 300 * time.Millisecond

// CoordsSource supplies the current user coordinates at emission time.
// Returning false means no coordinates are available.
type CoordsSource func() (lat, lng float64, ok bool)

// ComposerConfig holds configuration for the query composer.
type ComposerConfig struct {
	// Emit receives each composed descriptor. Required.
	Emit func(Descriptor)

	// Coords supplies user coordinates; nil means never available.
	Coords CoordsSource

	// Debounce is the trailing quiet period for text input (default: 300ms).
	Debounce time.Duration
}

// Composer combines free-text search and user coordinates into canonical
// query descriptors. Text input is trailing-debounced: a burst of keystrokes
// collapses to one emission after the user pauses. Locality chip selection
// emits immediately, cancelling any pending text emission.
type Composer struct {
	emit     func(Descriptor)
	coords   CoordsSource
	debounce time.Duration

	mu      sync.Mutex
	pending *time.Timer
	text    string
}

// NewComposer creates a new query composer.
func NewComposer(cfg ComposerConfig) *Composer {
	debounce := cfg.Debounce
	if debounce == 0 {
		debounce = DefaultDebounce
	}

	coords := cfg.Coords
	if coords == nil {
		coords = func() (float64, float64, bool) { return 0, 0, false }
	}

	return &Composer{
		emit:     cfg.Emit,
		coords:   coords,
		debounce: debounce,
	}
}

// SetSearch records a new text value and restarts the debounce timer.
// The timer is the only explicit cancellation point in the engine: each
// keystroke cancels and rearms it.
func (c *Composer) SetSearch(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.text = text
	if c.pending != nil {
		c.pending.Stop()
	}
	c.pending = time.AfterFunc(c.debounce, c.fire)
}

// SelectLocality short-circuits the debounce: the chip's name becomes the
// search text and the descriptor is emitted immediately.
func (c *Composer) SelectLocality(name string) {
	c.mu.Lock()
	c.text = name
	if c.pending != nil {
		c.pending.Stop()
		c.pending = nil
	}
	c.mu.Unlock()

	c.fire()
}

// Flush emits the current text immediately, cancelling any pending timer.
// Used on explicit submit (enter key).
func (c *Composer) Flush() {
	c.mu.Lock()
	if c.pending != nil {
		c.pending.Stop()
		c.pending = nil
	}
	c.mu.Unlock()

	c.fire()
}

// Close cancels any pending emission.
func (c *Composer) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending != nil {
		c.pending.Stop()
		c.pending = nil
	}
}

func (c *Composer) fire() {
	c.mu.Lock()
	text := c.text
	c.pending = nil
	c.mu.Unlock()

	lat, lng, ok := c.coords()
	c.emit(NewDescriptor(text, lat, lng, ok))
}
