package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindClosest_Empty(t *testing.T) {
	i, ok := FindClosest(tokyo, nil)
	assert.False(t, ok)
	assert.Equal(t, -1, i)

	_, _, idx, err := ClosestShelter(tokyo, []Shelter{})
	require.ErrorIs(t, err, ErrNoShelters)
	assert.Equal(t, -1, idx)
}

func TestFindClosest_Minimal(t *testing.T) {
	user := Coordinate{Lon: 136.6279, Lat: 36.5306}
	shelters := []Shelter{
		{Name: "far", Coordinates: Coordinate{Lon: 136.70, Lat: 36.60}},
		{Name: "near", Coordinates: Coordinate{Lon: 136.628, Lat: 36.531}},
		{Name: "middle", Coordinates: Coordinate{Lon: 136.64, Lat: 36.54}},
	}

	i, ok := FindClosest(user, shelters)
	require.True(t, ok)
	assert.Equal(t, 1, i)
	for _, s := range shelters {
		assert.LessOrEqual(t, DistanceKm(user, shelters[i].Coordinates), DistanceKm(user, s.Coordinates))
	}
}

func TestFindClosest_TieKeepsFirst(t *testing.T) {
	user := Coordinate{Lon: 0, Lat: 0}
	shelters := []Shelter{
		{Name: "east", Coordinates: Coordinate{Lon: 0.01, Lat: 0}},
		{Name: "west", Coordinates: Coordinate{Lon: -0.01, Lat: 0}},
		{Name: "east again", Coordinates: Coordinate{Lon: 0.01, Lat: 0}},
	}

	i, ok := FindClosest(user, shelters)
	require.True(t, ok)
	assert.Equal(t, 0, i)
}

func TestFindClosest_AntipodalSingleShelter(t *testing.T) {
	user := Coordinate{Lon: 59.2416, Lat: -11.2114}
	shelters := []Shelter{{Name: "far side", Coordinates: Coordinate{Lon: -120.7584, Lat: 11.2114}}}

	i, ok := FindClosest(user, shelters)
	require.True(t, ok)
	assert.Equal(t, 0, i)

	_, dist, idx, err := ClosestShelter(user, shelters)
	require.NoError(t, err)
	assert.Equal(t, 0, idx)
	assert.InDelta(t, math.Pi*EarthRadiusKm, dist, 0.001)
}

func TestFindClosest_TokyoScenario(t *testing.T) {
	user := Coordinate{Lon: 139.70, Lat: 35.70}
	shelters := []Shelter{
		{Name: "A", Coordinates: Coordinate{Lon: 139.7007, Lat: 35.6895}},
		{Name: "B", Coordinates: Coordinate{Lon: 139.7107, Lat: 35.6995}},
		{Name: "C", Coordinates: Coordinate{Lon: 139.6907, Lat: 35.6795}},
	}

	// A ≈ 1.169 km, B ≈ 0.968 km, C ≈ 2.429 km.
	for run := 0; run < 5; run++ {
		s, dist, i, err := ClosestShelter(user, shelters)
		require.NoError(t, err)
		assert.Equal(t, "B", s.Name)
		assert.Equal(t, 1, i)
		assert.InDelta(t, 0.968, dist, 0.001)
	}
	assert.InDelta(t, 1.169, DistanceKm(user, shelters[0].Coordinates), 0.001)
	assert.InDelta(t, 2.429, DistanceKm(user, shelters[2].Coordinates), 0.001)
}
