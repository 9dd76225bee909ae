package mapbox

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/twpayne/go-polyline"

	"github.com/couchcryptid/shelter-nav/internal/domain"
	"github.com/couchcryptid/shelter-nav/internal/observability"
)

// Geometry encodings supported by the Directions API.
const (
	GeometriesGeoJSON  = "geojson"
	GeometriesPolyline = "polyline"
)

const defaultBaseURL = "https://api.mapbox.com/directions/v5/mapbox"

// Client implements domain.DirectionsProvider using the Mapbox Directions API.
type Client struct {
	token      string
	httpClient *http.Client
	baseURL    string
	geometries string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a Mapbox Directions client. geometries selects the
// response encoding, GeometriesGeoJSON or GeometriesPolyline.
func NewClient(token string, timeout time.Duration, geometries string, metrics *observability.Metrics, logger *slog.Logger) *Client {
	if geometries != GeometriesPolyline {
		geometries = GeometriesGeoJSON
	}
	return &Client{
		token: token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL:    defaultBaseURL,
		geometries: geometries,
		metrics:    metrics,
		logger:     logger,
	}
}

// Directions requests a route and returns the first candidate.
func (c *Client) Directions(ctx context.Context, profile domain.Profile, start, end domain.Coordinate) (domain.DirectionsRoute, error) {
	// Mapbox uses lon,lat order with ';' between waypoints.
	u := fmt.Sprintf("%s/%s/%.6f,%.6f;%.6f,%.6f", c.baseURL, profile, start.Lon, start.Lat, end.Lon, end.Lat)
	params := url.Values{
		"access_token": {c.token},
		"geometries":   {c.geometries},
		"overview":     {"full"},
	}

	begin := time.Now()
	route, err := c.doRequest(ctx, u+"?"+params.Encode())
	if c.metrics != nil {
		c.metrics.DirectionsAPIDuration.Observe(time.Since(begin).Seconds())
	}
	return route, err
}

func (c *Client) doRequest(ctx context.Context, fullURL string) (domain.DirectionsRoute, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return domain.DirectionsRoute{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.DirectionsRoute{}, fmt.Errorf("%w: directions request: %w", domain.ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return domain.DirectionsRoute{}, fmt.Errorf("%w: mapbox API error: status %d: %s", domain.ErrTransport, resp.StatusCode, body)
	}

	var dirResp response
	if err := json.NewDecoder(resp.Body).Decode(&dirResp); err != nil {
		return domain.DirectionsRoute{}, fmt.Errorf("%w: decode response: %w", domain.ErrMalformedPayload, err)
	}

	if len(dirResp.Routes) == 0 {
		return domain.DirectionsRoute{}, fmt.Errorf("%w: no routes (code %q)", domain.ErrEmptyResult, dirResp.Code)
	}

	r := dirResp.Routes[0]
	path, err := c.decodeGeometry(r.Geometry)
	if err != nil {
		return domain.DirectionsRoute{}, err
	}
	if len(path) < 2 {
		return domain.DirectionsRoute{}, fmt.Errorf("%w: route geometry has %d points", domain.ErrMalformedPayload, len(path))
	}

	c.logger.Debug("directions received", "points", len(path), "distance_m", r.Distance, "duration_s", r.Duration)
	return domain.DirectionsRoute{
		Path:            path,
		DistanceMeters:  r.Distance,
		DurationSeconds: r.Duration,
	}, nil
}

func (c *Client) decodeGeometry(raw json.RawMessage) ([]domain.Coordinate, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: route has no geometry", domain.ErrMalformedPayload)
	}
	if c.geometries == GeometriesPolyline {
		return decodePolyline(raw)
	}
	return decodeGeoJSON(raw)
}

func decodeGeoJSON(raw json.RawMessage) ([]domain.Coordinate, error) {
	g, err := geojson.UnmarshalGeometry(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: decode geojson geometry: %w", domain.ErrMalformedPayload, err)
	}
	ls, ok := g.Geometry().(orb.LineString)
	if !ok {
		return nil, fmt.Errorf("%w: expected LineString geometry, got %s", domain.ErrMalformedPayload, g.Type)
	}
	path := make([]domain.Coordinate, len(ls))
	for i, p := range ls {
		path[i] = domain.Coordinate{Lon: p.Lon(), Lat: p.Lat()}
	}
	return path, nil
}

func decodePolyline(raw json.RawMessage) ([]domain.Coordinate, error) {
	var encoded string
	if err := json.Unmarshal(raw, &encoded); err != nil {
		return nil, fmt.Errorf("%w: polyline geometry is not a string: %w", domain.ErrMalformedPayload, err)
	}
	coords, _, err := polyline.DecodeCoords([]byte(encoded))
	if err != nil {
		return nil, fmt.Errorf("%w: decode polyline: %w", domain.ErrMalformedPayload, err)
	}
	path := make([]domain.Coordinate, len(coords))
	for i, c := range coords {
		// Encoded polylines store lat,lon.
		path[i] = domain.Coordinate{Lon: c[1], Lat: c[0]}
	}
	return path, nil
}

// Mapbox API response types.

type response struct {
	Code   string      `json:"code"`
	Routes []routeJSON `json:"routes"`
}

type routeJSON struct {
	Geometry json.RawMessage `json:"geometry"`
	Distance float64         `json:"distance"` // meters
	Duration float64         `json:"duration"` // seconds
}
