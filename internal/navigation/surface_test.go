package navigation

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pointCollection(lon, lat float64) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	fc.Append(geojson.NewFeature(orb.Point{lon, lat}))
	return fc
}

func TestMemorySurface_DuplicateIDs(t *testing.T) {
	s := NewMemorySurface()

	require.NoError(t, s.AddSource("a", pointCollection(1, 2)))
	require.ErrorIs(t, s.AddSource("a", pointCollection(1, 2)), ErrDuplicateID)

	require.NoError(t, s.AddLayer(Layer{ID: "a", Type: "circle", Source: "a"}))
	require.ErrorIs(t, s.AddLayer(Layer{ID: "a", Type: "circle", Source: "a"}), ErrDuplicateID)
}

func TestMemorySurface_References(t *testing.T) {
	s := NewMemorySurface()

	require.ErrorIs(t, s.AddLayer(Layer{ID: "l", Source: "missing"}), ErrUnknownID)
	require.ErrorIs(t, s.RemoveLayer("missing"), ErrUnknownID)
	require.ErrorIs(t, s.RemoveSource("missing"), ErrUnknownID)

	require.NoError(t, s.AddSource("src", nil))
	require.NoError(t, s.AddLayer(Layer{ID: "l", Source: "src"}))
	require.Error(t, s.RemoveSource("src"), "source still drawn by a layer")

	require.NoError(t, s.RemoveLayer("l"))
	require.NoError(t, s.RemoveSource("src"))
	assert.False(t, s.HasSource("src"))
	assert.False(t, s.HasLayer("l"))
}

func TestMemorySurface_FeatureCollection(t *testing.T) {
	s := NewMemorySurface()
	require.NoError(t, s.AddSource("hidden", pointCollection(0, 0)))
	require.NoError(t, s.AddSource("pins", pointCollection(136.6, 36.5)))
	require.NoError(t, s.AddLayer(Layer{ID: "pins-layer", Type: "symbol", Source: "pins"}))

	fc := s.FeatureCollection()

	require.Len(t, fc.Features, 1, "sources without a layer are not drawn")
	assert.Equal(t, "pins-layer", fc.Features[0].Properties["layer"])
	assert.Equal(t, orb.Point{136.6, 36.5}, fc.Features[0].Geometry)
	assert.Equal(t, []Layer{{ID: "pins-layer", Type: "symbol", Source: "pins"}}, s.Layers())
}
