package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

var (
	tokyo = Coordinate{Lon: 139.6917, Lat: 35.6895}
	osaka = Coordinate{Lon: 135.5023, Lat: 34.6937}
)

func TestDistanceKm(t *testing.T) {
	t.Run("one degree of latitude", func(t *testing.T) {
		assert.InDelta(t, 111.195, DistanceKm(Coordinate{0, 0}, Coordinate{0, 1}), 0.001)
	})

	t.Run("tokyo to osaka", func(t *testing.T) {
		assert.InDelta(t, 396.4, DistanceKm(tokyo, osaka), 0.5)
	})

	t.Run("same point is zero", func(t *testing.T) {
		assert.Equal(t, 0.0, DistanceKm(tokyo, tokyo))
	})
}

func TestDistanceKm_Symmetric(t *testing.T) {
	points := []Coordinate{
		tokyo, osaka,
		{Lon: 0, Lat: 0},
		{Lon: -122.4194, Lat: 37.7749},
		{Lon: 179.9, Lat: -45.1},
		{Lon: -179.9, Lat: 89.9},
		{Lon: 136.62787965448547, Lat: 36.53056704162511},
		{Lon: 59.2416, Lat: -11.2114},
		{Lon: -120.7584, Lat: 11.2114},
	}
	for _, a := range points {
		assert.Equal(t, 0.0, DistanceKm(a, a))
		for _, b := range points {
			assert.Equal(t, DistanceKm(a, b), DistanceKm(b, a), "distance %s <-> %s", a, b)
		}
	}
}

func TestDistanceKm_Antipodal(t *testing.T) {
	halfCircumference := math.Pi * EarthRadiusKm
	pairs := [][2]Coordinate{
		{{Lon: 59.2416, Lat: -11.2114}, {Lon: -120.7584, Lat: 11.2114}},
		{{Lon: 0, Lat: 0}, {Lon: 180, Lat: 0}},
		{{Lon: 0, Lat: 90}, {Lon: 0, Lat: -90}},
		{{Lon: 139.70, Lat: 35.70}, {Lon: -40.30, Lat: -35.70}},
	}
	for lon := -180.0; lon <= 0; lon += 7.3 {
		for lat := -89.0; lat <= 89; lat += 11.7 {
			pairs = append(pairs, [2]Coordinate{{Lon: lon, Lat: lat}, {Lon: lon + 180, Lat: -lat}})
		}
	}
	for _, p := range pairs {
		d := DistanceKm(p[0], p[1])
		assert.False(t, math.IsNaN(d), "distance %s <-> %s", p[0], p[1])
		assert.InDelta(t, halfCircumference, d, 0.001, "distance %s <-> %s", p[0], p[1])
		assert.Equal(t, d, DistanceKm(p[1], p[0]))
	}
}

func TestBearingDegrees(t *testing.T) {
	origin := Coordinate{0, 0}
	tests := []struct {
		name     string
		to       Coordinate
		expected float64
	}{
		{"north", Coordinate{Lon: 0, Lat: 1}, 0},
		{"east", Coordinate{Lon: 1, Lat: 0}, 90},
		{"south", Coordinate{Lon: 0, Lat: -1}, 180},
		{"west", Coordinate{Lon: -1, Lat: 0}, 270},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, BearingDegrees(origin, tt.to), 1e-9)
		})
	}
}

func TestBearingDegrees_Range(t *testing.T) {
	points := []Coordinate{tokyo, osaka, {0, 0}, {-70.1, -33.4}, {151.2, -33.8}}
	for _, a := range points {
		for _, b := range points {
			got := BearingDegrees(a, b)
			assert.GreaterOrEqual(t, got, 0.0)
			assert.Less(t, got, 360.0)
		}
	}
}

func TestBearingDegrees_SamePoint(t *testing.T) {
	assert.Equal(t, 0.0, BearingDegrees(tokyo, tokyo))
}

func TestDegreeRadianConversion(t *testing.T) {
	assert.InDelta(t, 3.141592653589793, DegreesToRadians(180), 1e-12)
	assert.InDelta(t, 90.0, RadiansToDegrees(DegreesToRadians(90)), 1e-12)
	assert.Equal(t, 0.0, DegreesToRadians(0))
}
