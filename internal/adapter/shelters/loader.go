// Package shelters loads the shelter document the service starts from.
package shelters

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/couchcryptid/shelter-nav/internal/domain"
)

// Skipped describes an entry that was left out of the loaded set.
type Skipped struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

// Report summarizes a load. Loaded shelters keep their document order, so a
// shelter's index in the returned slice is stable for the process lifetime.
type Report struct {
	Total   int       `json:"total"`
	Loaded  int       `json:"loaded"`
	Skipped []Skipped `json:"skipped,omitempty"`
}

// LoadFile reads a shelter document from disk.
func LoadFile(path string, logger *slog.Logger) ([]domain.Shelter, Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Report{}, fmt.Errorf("open shelters: %w", err)
	}
	defer f.Close()
	return Load(f, logger)
}

// Load decodes a shelter document. Two shapes are accepted: a JSON array of
// {name, coordinates: [lon, lat], description} objects, or a GeoJSON
// FeatureCollection of Points with name/description properties. Entries with
// missing or invalid coordinates or a blank name are skipped with a warning;
// a document that cannot be decoded at all is an error.
func Load(r io.Reader, logger *slog.Logger) ([]domain.Shelter, Report, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, Report{}, fmt.Errorf("read shelters: %w", err)
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		return loadFeatureCollection(trimmed, logger)
	}
	return loadArray(trimmed, logger)
}

type shelterEntry struct {
	Name        string             `json:"name"`
	Coordinates *domain.Coordinate `json:"coordinates"`
	Description string             `json:"description"`
}

func loadArray(data []byte, logger *slog.Logger) ([]domain.Shelter, Report, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, Report{}, fmt.Errorf("%w: shelters must be a JSON array: %w", domain.ErrMalformedPayload, err)
	}

	report := Report{Total: len(raw)}
	shelters := make([]domain.Shelter, 0, len(raw))
	for i, entry := range raw {
		var e shelterEntry
		if err := json.Unmarshal(entry, &e); err != nil {
			report.skip(logger, i, err.Error())
			continue
		}
		if e.Coordinates == nil {
			report.skip(logger, i, "missing coordinates")
			continue
		}
		if strings.TrimSpace(e.Name) == "" {
			report.skip(logger, i, "missing name")
			continue
		}
		shelters = append(shelters, domain.Shelter{
			Name:        e.Name,
			Coordinates: *e.Coordinates,
			Description: e.Description,
		})
	}
	report.Loaded = len(shelters)
	return shelters, report, nil
}

func loadFeatureCollection(data []byte, logger *slog.Logger) ([]domain.Shelter, Report, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, Report{}, fmt.Errorf("%w: decode shelter feature collection: %w", domain.ErrMalformedPayload, err)
	}

	report := Report{Total: len(fc.Features)}
	shelters := make([]domain.Shelter, 0, len(fc.Features))
	for i, f := range fc.Features {
		p, ok := f.Geometry.(orb.Point)
		if !ok {
			report.skip(logger, i, "geometry is not a Point")
			continue
		}
		c := domain.Coordinate{Lon: p.Lon(), Lat: p.Lat()}
		if !c.Valid() {
			report.skip(logger, i, "coordinates out of range: "+c.String())
			continue
		}
		name := f.Properties.MustString("name", "")
		if strings.TrimSpace(name) == "" {
			report.skip(logger, i, "missing name")
			continue
		}
		shelters = append(shelters, domain.Shelter{
			Name:        name,
			Coordinates: c,
			Description: f.Properties.MustString("description", ""),
		})
	}
	report.Loaded = len(shelters)
	return shelters, report, nil
}

func (r *Report) skip(logger *slog.Logger, index int, reason string) {
	r.Skipped = append(r.Skipped, Skipped{Index: index, Reason: reason})
	if logger != nil {
		logger.Warn("skipping shelter entry", "index", index, "reason", reason)
	}
}

// FeatureCollection renders shelters as GeoJSON Points, carrying the slice
// index as the "index" property.
func FeatureCollection(shelters []domain.Shelter) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for i, s := range shelters {
		f := geojson.NewFeature(orb.Point{s.Coordinates.Lon, s.Coordinates.Lat})
		f.Properties["index"] = i
		f.Properties["name"] = s.Name
		f.Properties["description"] = s.Description
		fc.Append(f)
	}
	return fc
}
