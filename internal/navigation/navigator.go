package navigation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/shelter-nav/internal/domain"
	"github.com/couchcryptid/shelter-nav/internal/observability"
)

// MarkersID names the source and layer holding the marker pins.
const MarkersID = "markers"

// ErrUnknownShelter is returned for a shelter index outside the loaded set.
var ErrUnknownShelter = errors.New("unknown shelter")

// Nearest is the closest shelter to a position.
type Nearest struct {
	Shelter    domain.Shelter `json:"shelter"`
	Index      int            `json:"index"`
	DistanceKm float64        `json:"distance_km"`
}

// Plan is everything needed to present a route to one shelter. Route and
// View are derived from the same endpoints.
type Plan struct {
	User         domain.Coordinate  `json:"user"`
	Shelter      domain.Shelter     `json:"shelter"`
	ShelterIndex int                `json:"shelter_index"`
	DistanceKm   float64            `json:"distance_km"`
	Route        domain.RouteResult `json:"route"`
	View         domain.ViewPose    `json:"view"`
	Markers      []Marker           `json:"markers"`
	// Displayed is false when a newer request already replaced this route.
	Displayed bool `json:"displayed"`
}

// Navigator answers shelter and route queries against a fixed shelter set.
type Navigator struct {
	shelters []domain.Shelter
	provider *Provider
	display  *RouteDisplay
	logger   *slog.Logger
	metrics  *observability.Metrics
}

// NewNavigator creates a navigator. The shelter slice is not copied and must
// not be modified afterwards.
func NewNavigator(shelters []domain.Shelter, provider *Provider, surface MapSurface, logger *slog.Logger, metrics *observability.Metrics) *Navigator {
	return &Navigator{
		shelters: shelters,
		provider: provider,
		display:  NewRouteDisplay(surface),
		logger:   logger,
		metrics:  metrics,
	}
}

// Shelters returns the loaded shelter set.
func (n *Navigator) Shelters() []domain.Shelter {
	out := make([]domain.Shelter, len(n.shelters))
	copy(out, n.shelters)
	return out
}

// CheckReadiness returns nil once at least one shelter is loaded.
func (n *Navigator) CheckReadiness(_ context.Context) error {
	if len(n.shelters) == 0 {
		return domain.ErrNoShelters
	}
	return nil
}

// Nearest finds the shelter closest to user.
func (n *Navigator) Nearest(user domain.Coordinate) (Nearest, error) {
	if !user.Valid() {
		return Nearest{}, domain.ErrSensorUnavailable
	}
	s, km, i, err := domain.ClosestShelter(user, n.shelters)
	if err != nil {
		n.metrics.NearestLookups.WithLabelValues("empty").Inc()
		return Nearest{}, err
	}
	n.metrics.NearestLookups.WithLabelValues("found").Inc()
	return Nearest{Shelter: s, Index: i, DistanceKm: km}, nil
}

// Navigate routes user to the shelter at index, or to the closest shelter
// when index is negative, and installs the route on the map. Directions
// failures degrade the route rather than failing the call.
func (n *Navigator) Navigate(ctx context.Context, user domain.Coordinate, index int, profile domain.Profile) (Plan, error) {
	if !user.Valid() {
		return Plan{}, domain.ErrSensorUnavailable
	}

	closest, err := n.Nearest(user)
	if err != nil {
		return Plan{}, err
	}
	if index < 0 {
		index = closest.Index
	}
	if index >= len(n.shelters) {
		return Plan{}, fmt.Errorf("%w: index %d of %d", ErrUnknownShelter, index, len(n.shelters))
	}
	target := n.shelters[index]

	markers := Markers(user, n.shelters, closest.Index)

	ticket := n.display.Begin()
	result := n.provider.FetchRoute(ctx, user, target.Coordinates, profile)

	pins := Overlay{ID: MarkersID, Type: "symbol", Data: MarkerFeatures(markers)}
	displayed, err := n.display.Show(ticket, result.Geometry, pins)
	if err != nil {
		n.logger.Error("show route failed", "error", err, "shelter_index", index)
	}
	if !displayed && err == nil {
		n.logger.Debug("discarding superseded route", "ticket", ticket, "shelter_index", index)
	}

	return Plan{
		User:         user,
		Shelter:      target,
		ShelterIndex: index,
		DistanceKm:   domain.DistanceKm(user, target.Coordinates),
		Route:        result,
		View:         domain.PlanView(user, target.Coordinates),
		Markers:      markers,
		Displayed:    displayed,
	}, nil
}
