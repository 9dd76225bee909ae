package domain

import (
	"context"

	"github.com/paulmach/orb"
)

// RouteSource records how a RouteGeometry was produced.
type RouteSource string

const (
	// RouteDirections is a path returned by the Directions service.
	RouteDirections RouteSource = "directions"
	// RouteDirect is the straight two-point fallback.
	RouteDirect RouteSource = "direct"
)

// RouteGeometry is an ordered path between two endpoints.
type RouteGeometry struct {
	Path            []Coordinate `json:"path"`
	Start           Coordinate   `json:"start"`
	End             Coordinate   `json:"end"`
	Source          RouteSource  `json:"source"`
	Profile         Profile      `json:"profile"`
	DistanceKm      float64      `json:"distance_km"`
	DurationSeconds float64      `json:"duration_seconds,omitempty"`
}

// LineString converts the path into an orb geometry for GeoJSON output.
func (g RouteGeometry) LineString() orb.LineString {
	ls := make(orb.LineString, len(g.Path))
	for i, c := range g.Path {
		ls[i] = orb.Point{c.Lon, c.Lat}
	}
	return ls
}

// RouteResult is the outcome of a route request. Degraded is set when the
// Directions call failed and Geometry is the direct-line fallback; Warning is
// then a user-facing explanation and Cause holds the underlying error.
type RouteResult struct {
	Geometry RouteGeometry `json:"geometry"`
	Degraded bool          `json:"degraded"`
	Warning  string        `json:"warning,omitempty"`
	Cause    error         `json:"-"`
}

// DirectLine builds the two-point fallback geometry between start and end.
func DirectLine(start, end Coordinate, profile Profile) RouteGeometry {
	return RouteGeometry{
		Path:       []Coordinate{start, end},
		Start:      start,
		End:        end,
		Source:     RouteDirect,
		Profile:    profile,
		DistanceKm: DistanceKm(start, end),
	}
}

// DirectionsRoute is the first route of a Directions response.
type DirectionsRoute struct {
	Path            []Coordinate
	DistanceMeters  float64
	DurationSeconds float64
}

// DirectionsProvider requests a routed path between two points.
type DirectionsProvider interface {
	// Directions returns the first candidate route. Zero candidates yield an
	// error wrapping ErrEmptyResult.
	Directions(ctx context.Context, profile Profile, start, end Coordinate) (DirectionsRoute, error)
}
