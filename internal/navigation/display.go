package navigation

import (
	"fmt"
	"sync"

	"github.com/paulmach/orb/geojson"

	"github.com/couchcryptid/shelter-nav/internal/domain"
)

// RouteID names both the source and the layer holding the displayed route.
const RouteID = "route"

// routePaint matches the route styling of the map page.
var routePaint = map[string]any{
	"line-color": "#FF0000",
	"line-width": 4,
}

// Overlay is a source and layer installed together with a route, such as
// the marker pins belonging to it. An overlay with the same ID is replaced.
type Overlay struct {
	ID   string
	Type string
	Data *geojson.FeatureCollection
}

// RouteDisplay is the single writer of the route artifact on a MapSurface.
// At most one route is installed at a time, and replacing it happens under
// one lock so no reader sees two routes or none mid-swap.
//
// Requests take a ticket with Begin before fetching a route and present it to
// Show. A result whose ticket is older than the last applied one arrived late
// and is discarded.
type RouteDisplay struct {
	mu      sync.Mutex
	surface MapSurface
	issued  uint64
	applied uint64
	current *domain.RouteGeometry
}

// NewRouteDisplay manages the route artifact on surface.
func NewRouteDisplay(surface MapSurface) *RouteDisplay {
	return &RouteDisplay{surface: surface}
}

// Begin issues a ticket for a new route request.
func (d *RouteDisplay) Begin() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.issued++
	return d.issued
}

// Show replaces the displayed route with g and installs overlays in the same
// critical section. It reports false without touching the surface when
// ticket is stale.
func (d *RouteDisplay) Show(ticket uint64, g domain.RouteGeometry, overlays ...Overlay) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if ticket < d.applied {
		return false, nil
	}
	if err := d.clearLocked(); err != nil {
		return false, err
	}

	fc := geojson.NewFeatureCollection()
	f := geojson.NewFeature(g.LineString())
	f.Properties["source"] = string(g.Source)
	f.Properties["profile"] = string(g.Profile)
	f.Properties["distance_km"] = g.DistanceKm
	fc.Append(f)

	if err := d.surface.AddSource(RouteID, fc); err != nil {
		return false, fmt.Errorf("install route: %w", err)
	}
	if err := d.surface.AddLayer(Layer{ID: RouteID, Type: "line", Source: RouteID, Paint: routePaint}); err != nil {
		_ = d.surface.RemoveSource(RouteID)
		return false, fmt.Errorf("install route: %w", err)
	}
	for _, o := range overlays {
		if err := d.replaceOverlayLocked(o); err != nil {
			return false, err
		}
	}

	d.applied = ticket
	d.current = &g
	return true, nil
}

func (d *RouteDisplay) replaceOverlayLocked(o Overlay) error {
	if d.surface.HasLayer(o.ID) {
		if err := d.surface.RemoveLayer(o.ID); err != nil {
			return fmt.Errorf("remove %s layer: %w", o.ID, err)
		}
	}
	if d.surface.HasSource(o.ID) {
		if err := d.surface.RemoveSource(o.ID); err != nil {
			return fmt.Errorf("remove %s source: %w", o.ID, err)
		}
	}
	if err := d.surface.AddSource(o.ID, o.Data); err != nil {
		return fmt.Errorf("install %s: %w", o.ID, err)
	}
	if err := d.surface.AddLayer(Layer{ID: o.ID, Type: o.Type, Source: o.ID}); err != nil {
		_ = d.surface.RemoveSource(o.ID)
		return fmt.Errorf("install %s: %w", o.ID, err)
	}
	return nil
}

// Clear removes the displayed route, if any.
func (d *RouteDisplay) Clear() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.clearLocked()
}

func (d *RouteDisplay) clearLocked() error {
	if d.surface.HasLayer(RouteID) {
		if err := d.surface.RemoveLayer(RouteID); err != nil {
			return fmt.Errorf("remove route layer: %w", err)
		}
	}
	if d.surface.HasSource(RouteID) {
		if err := d.surface.RemoveSource(RouteID); err != nil {
			return fmt.Errorf("remove route source: %w", err)
		}
	}
	d.current = nil
	return nil
}

// Current returns the displayed route.
func (d *RouteDisplay) Current() (domain.RouteGeometry, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.current == nil {
		return domain.RouteGeometry{}, false
	}
	return *d.current, true
}
