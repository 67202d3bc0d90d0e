package discovery_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chargescout/chargescout/internal/discovery"
)

// descriptorRecorder collects emitted descriptors.
type descriptorRecorder struct {
	mu      sync.Mutex
	emitted []discovery.Descriptor
}

func (r *descriptorRecorder) emit(d discovery.Descriptor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.emitted = append(r.emitted, d)
}

func (r *descriptorRecorder) all() []discovery.Descriptor {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]discovery.Descriptor, len(r.emitted))
	copy(out, r.emitted)
	return out
}

func TestComposer_DebounceCollapsesBurst(t *testing.T) {
	rec := &descriptorRecorder{}
	composer := discovery.NewComposer(discovery.ComposerConfig{
		Emit:     rec.emit,
		Debounce: 30 * time.Millisecond,
	})
	defer composer.Close()

	for _, text := range []string{"h", "hy", "hyd", "hyde", "hyder"} {
		composer.SetSearch(text)
		time.Sleep(2 * time.Millisecond)
	}

	time.Sleep(80 * time.Millisecond)

	emitted := rec.all()
	require.Len(t, emitted, 1, "a keystroke burst must collapse to one emission")
	assert.Equal(t, "hyder", emitted[0].Search)
}

func TestComposer_LocalityChipEmitsImmediately(t *testing.T) {
	rec := &descriptorRecorder{}
	composer := discovery.NewComposer(discovery.ComposerConfig{
		Emit:     rec.emit,
		Debounce: 200 * time.Millisecond,
	})
	defer composer.Close()

	composer.SetSearch("gach") // pending debounce
	composer.SelectLocality("Gachibowli")

	emitted := rec.all()
	require.Len(t, emitted, 1, "chip selection must bypass the debounce")
	assert.Equal(t, "Gachibowli", emitted[0].Search)

	// The superseded text timer must stay cancelled.
	time.Sleep(250 * time.Millisecond)
	assert.Len(t, rec.all(), 1)
}

func TestComposer_RadiusDefaults(t *testing.T) {
	t.Run("nearby radius with coordinates", func(t *testing.T) {
		rec := &descriptorRecorder{}
		composer := discovery.NewComposer(discovery.ComposerConfig{
			Emit:   rec.emit,
			Coords: func() (float64, float64, bool) { return 17.385, 78.4867, true },
		})
		composer.SelectLocality("Madhapur")

		emitted := rec.all()
		require.Len(t, emitted, 1)
		assert.Equal(t, float64(discovery.RadiusNearby), emitted[0].Radius)
		assert.True(t, emitted[0].HasCoords)
		assert.Equal(t, 17.385, emitted[0].Lat)
	})

	t.Run("city-wide radius without coordinates", func(t *testing.T) {
		rec := &descriptorRecorder{}
		composer := discovery.NewComposer(discovery.ComposerConfig{Emit: rec.emit})
		composer.SelectLocality("Madhapur")

		emitted := rec.all()
		require.Len(t, emitted, 1)
		assert.Equal(t, float64(discovery.RadiusCityWide), emitted[0].Radius)
		assert.False(t, emitted[0].HasCoords)
	})
}

func TestComposer_FlushCancelsPendingTimer(t *testing.T) {
	rec := &descriptorRecorder{}
	composer := discovery.NewComposer(discovery.ComposerConfig{
		Emit:     rec.emit,
		Debounce: 100 * time.Millisecond,
	})
	defer composer.Close()

	composer.SetSearch("fast dc")
	composer.Flush()

	require.Len(t, rec.all(), 1)
	assert.Equal(t, "fast dc", rec.all()[0].Search)

	time.Sleep(150 * time.Millisecond)
	assert.Len(t, rec.all(), 1)
}

func TestDescriptor_Fingerprint(t *testing.T) {
	a := discovery.NewDescriptor("charge", 17.3, 78.5, true)
	b := discovery.NewDescriptor("charge", 17.3, 78.5, true)
	c := discovery.NewDescriptor("charge", 17.3, 78.5, false)

	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
	assert.NotEqual(t, a.Fingerprint(), c.Fingerprint())

	// Whitespace-only input is "no filter".
	d := discovery.NewDescriptor("   ", 0, 0, false)
	assert.Empty(t, d.Search)
}
