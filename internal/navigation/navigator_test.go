package navigation

import (
	"context"
	"fmt"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/shelter-nav/internal/domain"
	"github.com/couchcryptid/shelter-nav/internal/observability"
)

func newTestNavigator(shelters []domain.Shelter, directions domain.DirectionsProvider) (*Navigator, *MemorySurface) {
	surface := NewMemorySurface()
	metrics := observability.NewMetricsForTesting()
	provider := NewProvider(directions, discardLogger(), metrics)
	return NewNavigator(shelters, provider, surface, discardLogger(), metrics), surface
}

func TestNavigator_Nearest_TokyoScenario(t *testing.T) {
	n, _ := newTestNavigator(tokyoShelters, nil)

	for range 5 {
		got, err := n.Nearest(tokyoUser)
		require.NoError(t, err)
		assert.Equal(t, 1, got.Index)
		assert.Equal(t, "B", got.Shelter.Name)
		assert.InDelta(t, 0.968, got.DistanceKm, 0.001)
	}
}

func TestNavigator_Nearest_Errors(t *testing.T) {
	n, _ := newTestNavigator(nil, nil)
	_, err := n.Nearest(tokyoUser)
	require.ErrorIs(t, err, domain.ErrNoShelters)
	require.ErrorIs(t, n.CheckReadiness(t.Context()), domain.ErrNoShelters)

	n, _ = newTestNavigator(tokyoShelters, nil)
	_, err = n.Nearest(domain.Coordinate{Lon: 500, Lat: 0})
	require.ErrorIs(t, err, domain.ErrSensorUnavailable)
	require.NoError(t, n.CheckReadiness(t.Context()))
}

func TestNavigator_Navigate_ClosestWithFallback(t *testing.T) {
	dir := &fakeDirections{err: fmt.Errorf("%w: no routes", domain.ErrEmptyResult)}
	n, surface := newTestNavigator(tokyoShelters, dir)

	plan, err := n.Navigate(t.Context(), tokyoUser, -1, domain.ProfileDriving)
	require.NoError(t, err)

	assert.Equal(t, 1, plan.ShelterIndex)
	assert.Equal(t, "B", plan.Shelter.Name)
	assert.True(t, plan.Displayed)
	assert.True(t, plan.Route.Degraded)
	assert.Equal(t, []domain.Coordinate{tokyoUser, tokyoShelters[1].Coordinates}, plan.Route.Geometry.Path)

	assert.Equal(t, tokyoUser, plan.View.Center)
	assert.InDelta(t, 93.29, plan.View.BearingDegrees, 0.01)
	assert.InDelta(t, 14, plan.View.Zoom, 0)
	assert.InDelta(t, domain.DefaultPitchDegrees, plan.View.PitchDegrees, 0)

	require.Len(t, plan.Markers, 4)
	assert.Equal(t, ColorUser, plan.Markers[0].Color)
	assert.Equal(t, []string{ColorShelter, ColorClosest, ColorShelter},
		[]string{plan.Markers[1].Color, plan.Markers[2].Color, plan.Markers[3].Color})

	assert.True(t, surface.HasLayer(RouteID))
	assert.True(t, surface.HasLayer(MarkersID))
}

func TestNavigator_Navigate_ExplicitShelter(t *testing.T) {
	path := []domain.Coordinate{tokyoUser, {Lon: 139.699, Lat: 35.69}, tokyoShelters[2].Coordinates}
	dir := &fakeDirections{route: domain.DirectionsRoute{Path: path, DistanceMeters: 2600}}
	n, _ := newTestNavigator(tokyoShelters, dir)

	plan, err := n.Navigate(t.Context(), tokyoUser, 2, domain.ProfileWalking)
	require.NoError(t, err)

	assert.Equal(t, "C", plan.Shelter.Name)
	assert.False(t, plan.Route.Degraded)
	assert.Equal(t, path, plan.Route.Geometry.Path)
	assert.Equal(t, domain.PlanView(tokyoUser, tokyoShelters[2].Coordinates), plan.View)
	assert.Equal(t, ColorClosest, plan.Markers[2].Color, "closest stays highlighted")
}

func TestNavigator_Navigate_RepeatedLeavesOneRoute(t *testing.T) {
	n, surface := newTestNavigator(tokyoShelters, nil)

	for range 3 {
		_, err := n.Navigate(t.Context(), tokyoUser, -1, domain.ProfileDriving)
		require.NoError(t, err)
	}

	assert.Equal(t, 1, routeArtifacts(surface))
	layers := surface.Layers()
	require.Len(t, layers, 2)
	assert.Equal(t, MarkersID, layers[0].ID)
	assert.Equal(t, RouteID, layers[1].ID)
	assert.Len(t, surface.FeatureCollection().Features, 5, "one route plus four markers")
}

func TestNavigator_Navigate_Errors(t *testing.T) {
	n, _ := newTestNavigator(tokyoShelters, nil)

	_, err := n.Navigate(t.Context(), domain.Coordinate{Lon: 0, Lat: 100}, -1, domain.ProfileDriving)
	require.ErrorIs(t, err, domain.ErrSensorUnavailable)

	_, err = n.Navigate(t.Context(), tokyoUser, 3, domain.ProfileDriving)
	require.ErrorIs(t, err, ErrUnknownShelter)

	empty, _ := newTestNavigator(nil, nil)
	_, err = empty.Navigate(t.Context(), tokyoUser, -1, domain.ProfileDriving)
	require.ErrorIs(t, err, domain.ErrNoShelters)
}

func TestMarkers_IdenticalSheltersDistinguishedByIndex(t *testing.T) {
	twin := domain.Shelter{Name: "twin", Coordinates: domain.Coordinate{Lon: 1, Lat: 1}}
	markers := Markers(domain.Coordinate{}, []domain.Shelter{twin, twin}, 1)

	require.Len(t, markers, 3)
	assert.Equal(t, ColorShelter, markers[1].Color)
	assert.Equal(t, ColorClosest, markers[2].Color)
	assert.Equal(t, -1, markers[0].ShelterIndex)

	fc := MarkerFeatures(markers)
	require.Len(t, fc.Features, 3)
	assert.Equal(t, "blue", fc.Features[2].Properties["marker-color"])
}

// gatedDirections holds requests starting at a gated coordinate until
// release is closed.
type gatedDirections struct {
	gate    domain.Coordinate
	entered chan struct{}
	release chan struct{}
}

func (g *gatedDirections) Directions(_ context.Context, _ domain.Profile, start, _ domain.Coordinate) (domain.DirectionsRoute, error) {
	if start == g.gate {
		close(g.entered)
		<-g.release
	}
	return domain.DirectionsRoute{}, domain.ErrEmptyResult
}

func TestNavigator_Navigate_LateResultKeepsNewerMarkers(t *testing.T) {
	older := domain.Coordinate{Lon: 139.69, Lat: 35.68}
	dir := &gatedDirections{gate: older, entered: make(chan struct{}), release: make(chan struct{})}
	n, surface := newTestNavigator(tokyoShelters, dir)

	done := make(chan Plan, 1)
	go func() {
		plan, err := n.Navigate(context.Background(), older, -1, domain.ProfileDriving)
		assert.NoError(t, err)
		done <- plan
	}()
	<-dir.entered

	newer, err := n.Navigate(t.Context(), tokyoUser, -1, domain.ProfileDriving)
	require.NoError(t, err)
	require.True(t, newer.Displayed)

	close(dir.release)
	late := <-done
	assert.False(t, late.Displayed)

	var user []orb.Point
	for _, f := range surface.FeatureCollection().Features {
		if f.Properties["layer"] == MarkersID && f.Properties["marker-color"] == ColorUser {
			user = append(user, f.Geometry.(orb.Point))
		}
	}
	assert.Equal(t, []orb.Point{{tokyoUser.Lon, tokyoUser.Lat}}, user)

	route, ok := n.display.Current()
	require.True(t, ok)
	assert.Equal(t, tokyoUser, route.Start)
}
