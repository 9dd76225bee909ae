package navigation

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/couchcryptid/shelter-nav/internal/domain"
	"github.com/couchcryptid/shelter-nav/internal/observability"
)

// --- mocks ---

type fakeDirections struct {
	mu    sync.Mutex
	route domain.DirectionsRoute
	err   error
	calls int
}

func (f *fakeDirections) Directions(_ context.Context, _ domain.Profile, _, _ domain.Coordinate) (domain.DirectionsRoute, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.route, f.err
}

// --- fixtures ---

var (
	tokyoUser = domain.Coordinate{Lon: 139.70, Lat: 35.70}

	tokyoShelters = []domain.Shelter{
		{Name: "A", Coordinates: domain.Coordinate{Lon: 139.7007, Lat: 35.6895}, Description: "A"},
		{Name: "B", Coordinates: domain.Coordinate{Lon: 139.7107, Lat: 35.6995}, Description: "B"},
		{Name: "C", Coordinates: domain.Coordinate{Lon: 139.6907, Lat: 35.6795}, Description: "C"},
	}
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testProvider(directions domain.DirectionsProvider) (*Provider, *observability.Metrics) {
	metrics := observability.NewMetricsForTesting()
	return NewProvider(directions, discardLogger(), metrics), metrics
}
