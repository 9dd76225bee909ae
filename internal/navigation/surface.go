package navigation

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/paulmach/orb/geojson"
)

var (
	// ErrDuplicateID is returned when adding a source or layer whose ID is
	// already in use.
	ErrDuplicateID = errors.New("id already in use")
	// ErrUnknownID is returned when removing or referencing a missing ID.
	ErrUnknownID = errors.New("unknown id")
)

// Layer draws one source on the map.
type Layer struct {
	ID     string         `json:"id"`
	Type   string         `json:"type"`
	Source string         `json:"source"`
	Paint  map[string]any `json:"paint,omitempty"`
}

// MapSurface is the subset of a map renderer's source/layer API the route
// display needs. IDs are unique per kind, and adding a taken ID fails.
type MapSurface interface {
	AddSource(id string, data *geojson.FeatureCollection) error
	AddLayer(layer Layer) error
	RemoveLayer(id string) error
	RemoveSource(id string) error
	HasSource(id string) bool
	HasLayer(id string) bool
}

// MemorySurface is an in-process MapSurface. It mirrors the renderer's
// duplicate-ID and dangling-reference errors so callers are held to the
// same rules a real map enforces.
type MemorySurface struct {
	mu      sync.RWMutex
	sources map[string]*geojson.FeatureCollection
	layers  map[string]Layer
}

// NewMemorySurface returns an empty surface.
func NewMemorySurface() *MemorySurface {
	return &MemorySurface{
		sources: make(map[string]*geojson.FeatureCollection),
		layers:  make(map[string]Layer),
	}
}

func (s *MemorySurface) AddSource(id string, data *geojson.FeatureCollection) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sources[id]; ok {
		return fmt.Errorf("add source %q: %w", id, ErrDuplicateID)
	}
	if data == nil {
		data = geojson.NewFeatureCollection()
	}
	s.sources[id] = data
	return nil
}

func (s *MemorySurface) AddLayer(layer Layer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.layers[layer.ID]; ok {
		return fmt.Errorf("add layer %q: %w", layer.ID, ErrDuplicateID)
	}
	if _, ok := s.sources[layer.Source]; !ok {
		return fmt.Errorf("add layer %q: source %q: %w", layer.ID, layer.Source, ErrUnknownID)
	}
	s.layers[layer.ID] = layer
	return nil
}

func (s *MemorySurface) RemoveLayer(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.layers[id]; !ok {
		return fmt.Errorf("remove layer %q: %w", id, ErrUnknownID)
	}
	delete(s.layers, id)
	return nil
}

// RemoveSource fails while a layer still draws the source.
func (s *MemorySurface) RemoveSource(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sources[id]; !ok {
		return fmt.Errorf("remove source %q: %w", id, ErrUnknownID)
	}
	for _, l := range s.layers {
		if l.Source == id {
			return fmt.Errorf("remove source %q: still used by layer %q", id, l.ID)
		}
	}
	delete(s.sources, id)
	return nil
}

func (s *MemorySurface) HasSource(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.sources[id]
	return ok
}

func (s *MemorySurface) HasLayer(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.layers[id]
	return ok
}

// Layers returns the installed layers sorted by ID.
func (s *MemorySurface) Layers() []Layer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Layer, 0, len(s.layers))
	for _, l := range s.layers {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// FeatureCollection flattens every drawn source into one collection. Each
// feature is tagged with the "layer" that draws it. Sources with no layer
// are not visible and are left out.
func (s *MemorySurface) FeatureCollection() *geojson.FeatureCollection {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.layers))
	for id := range s.layers {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := geojson.NewFeatureCollection()
	for _, id := range ids {
		layer := s.layers[id]
		for _, f := range s.sources[layer.Source].Features {
			clone := geojson.NewFeature(f.Geometry)
			for k, v := range f.Properties {
				clone.Properties[k] = v
			}
			clone.Properties["layer"] = layer.ID
			out.Append(clone)
		}
	}
	return out
}
