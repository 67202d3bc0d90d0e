package location_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chargescout/chargescout/internal/location"
)

// mockLocator is a scriptable one-shot locator.
type mockLocator struct {
	point location.Point
	err   error
	calls int
}

func (m *mockLocator) Current(_ context.Context) (location.Point, error) {
	m.calls++
	if m.err != nil {
		return location.Point{}, m.err
	}
	return m.point, nil
}

func newTestProvider(locator location.Locator, prefs location.PreferenceRepository) *location.Provider {
	return location.NewProvider(location.ProviderConfig{
		Locator: locator,
		Prefs:   prefs,
		Logger:  zerolog.Nop(),
	})
}

func TestProvider_RequestSuccess(t *testing.T) {
	locator := &mockLocator{point: location.Point{Lat: 17.385, Lng: 78.4867}}
	prefs := location.NewInMemoryRepository()
	provider := newTestProvider(locator, prefs)

	snap := provider.Request(context.Background())

	require.NotNil(t, snap.Coords)
	assert.Equal(t, 17.385, snap.Coords.Lat)
	assert.False(t, snap.HasErrored)

	asked, err := prefs.PromptAsked(context.Background())
	require.NoError(t, err)
	assert.True(t, asked, "success must mark the prompt as asked")
}

func TestProvider_RequestFailureKeepsPriorCoords(t *testing.T) {
	locator := &mockLocator{point: location.Point{Lat: 17.385, Lng: 78.4867}}
	prefs := location.NewInMemoryRepository()
	provider := newTestProvider(locator, prefs)

	provider.Request(context.Background())

	locator.err = location.ErrDenied
	snap := provider.Request(context.Background())

	assert.True(t, snap.HasErrored)
	require.NotNil(t, snap.Coords, "a failure leaves coordinates as they were")
	assert.Equal(t, 17.385, snap.Coords.Lat)

	asked, err := prefs.PromptAsked(context.Background())
	require.NoError(t, err)
	assert.True(t, asked, "failure must also mark the prompt as asked")
}

func TestProvider_SuccessClearsErrorFlag(t *testing.T) {
	locator := &mockLocator{err: errors.New("gps timeout")}
	provider := newTestProvider(locator, location.NewInMemoryRepository())

	snap := provider.Request(context.Background())
	assert.True(t, snap.HasErrored)
	assert.Nil(t, snap.Coords)

	locator.err = nil
	locator.point = location.Point{Lat: 1, Lng: 2}
	snap = provider.Request(context.Background())

	assert.False(t, snap.HasErrored)
	require.NotNil(t, snap.Coords)
}

func TestProvider_NoCapability(t *testing.T) {
	prefs := location.NewInMemoryRepository()
	provider := newTestProvider(nil, prefs)

	snap := provider.Request(context.Background())
	assert.True(t, snap.HasErrored)
	assert.Nil(t, snap.Coords)

	asked, _ := prefs.PromptAsked(context.Background())
	assert.True(t, asked)
}

func TestProvider_RepeatedRequestsLastWriterWins(t *testing.T) {
	locator := &mockLocator{point: location.Point{Lat: 10, Lng: 20}}
	provider := newTestProvider(locator, location.NewInMemoryRepository())

	provider.Request(context.Background())
	locator.point = location.Point{Lat: 30, Lng: 40}
	provider.Request(context.Background())

	lat, lng, ok := provider.Coords()
	require.True(t, ok)
	assert.Equal(t, 30.0, lat)
	assert.Equal(t, 40.0, lng)
	assert.Equal(t, 2, locator.calls)
}

func TestProvider_CoordsBeforeFirstRequest(t *testing.T) {
	provider := newTestProvider(&mockLocator{}, nil)

	_, _, ok := provider.Coords()
	assert.False(t, ok)
}
