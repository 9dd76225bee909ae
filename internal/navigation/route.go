// Package navigation turns a user position and the shelter set into a
// displayable plan: the nearest shelter, a route to it and a camera pose.
package navigation

import (
	"context"
	"errors"
	"log/slog"

	"github.com/couchcryptid/shelter-nav/internal/domain"
	"github.com/couchcryptid/shelter-nav/internal/observability"
)

// errNoDirections is the fallback cause when no Directions provider is
// configured.
var errNoDirections = errors.New("directions provider not configured")

// Provider fetches routes, degrading to a direct line whenever the
// Directions provider fails or returns nothing usable.
type Provider struct {
	directions domain.DirectionsProvider
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewProvider creates a route provider. A nil directions provider makes
// every route a direct line.
func NewProvider(directions domain.DirectionsProvider, logger *slog.Logger, metrics *observability.Metrics) *Provider {
	return &Provider{directions: directions, logger: logger, metrics: metrics}
}

// FetchRoute performs at most one Directions request. It never fails: on any
// error the result carries the direct-line geometry with Degraded set.
func (p *Provider) FetchRoute(ctx context.Context, start, end domain.Coordinate, profile domain.Profile) domain.RouteResult {
	if p.directions == nil {
		return p.fallback(start, end, profile, errNoDirections)
	}

	route, err := p.directions.Directions(ctx, profile, start, end)
	if err != nil {
		return p.fallback(start, end, profile, err)
	}
	if len(route.Path) < 2 {
		return p.fallback(start, end, profile, domain.ErrEmptyResult)
	}

	distanceKm := route.DistanceMeters / 1000
	if distanceKm <= 0 {
		distanceKm = pathLengthKm(route.Path)
	}

	p.metrics.RouteRequests.WithLabelValues(string(profile), string(domain.RouteDirections)).Inc()
	return domain.RouteResult{
		Geometry: domain.RouteGeometry{
			Path:            route.Path,
			Start:           start,
			End:             end,
			Source:          domain.RouteDirections,
			Profile:         profile,
			DistanceKm:      distanceKm,
			DurationSeconds: route.DurationSeconds,
		},
	}
}

func (p *Provider) fallback(start, end domain.Coordinate, profile domain.Profile, cause error) domain.RouteResult {
	p.metrics.RouteRequests.WithLabelValues(string(profile), string(domain.RouteDirect)).Inc()
	if !errors.Is(cause, errNoDirections) {
		p.logger.Warn("directions failed, using direct line",
			"error", cause,
			"profile", profile,
			"start", start.String(),
			"end", end.String(),
		)
	}
	return domain.RouteResult{
		Geometry: domain.DirectLine(start, end, profile),
		Degraded: true,
		Warning:  domain.UserMessage(domain.ErrEmptyResult),
		Cause:    cause,
	}
}

func pathLengthKm(path []domain.Coordinate) float64 {
	total := 0.0
	for i := 1; i < len(path); i++ {
		total += domain.DistanceKm(path[i-1], path[i])
	}
	return total
}
