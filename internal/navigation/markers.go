package navigation

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/couchcryptid/shelter-nav/internal/domain"
)

// Marker colours.
const (
	ColorUser    = "red"
	ColorClosest = "blue"
	ColorShelter = "green"
)

// Marker is one pin on the map.
type Marker struct {
	Coordinates  domain.Coordinate `json:"coordinates"`
	Color        string            `json:"color"`
	Label        string            `json:"label"`
	Description  string            `json:"description,omitempty"`
	ShelterIndex int               `json:"shelter_index"` // -1 for the user marker
}

// Markers builds the user marker followed by one marker per shelter, with
// the shelter at closest highlighted. closest is compared by index, so two
// shelters with identical fields are still told apart.
func Markers(user domain.Coordinate, shelters []domain.Shelter, closest int) []Marker {
	out := make([]Marker, 0, len(shelters)+1)
	out = append(out, Marker{Coordinates: user, Color: ColorUser, Label: "現在地", ShelterIndex: -1})
	for i, s := range shelters {
		color := ColorShelter
		if i == closest {
			color = ColorClosest
		}
		out = append(out, Marker{
			Coordinates:  s.Coordinates,
			Color:        color,
			Label:        s.Name,
			Description:  s.Description,
			ShelterIndex: i,
		})
	}
	return out
}

// MarkerFeatures renders markers as GeoJSON Points.
func MarkerFeatures(markers []Marker) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, m := range markers {
		f := geojson.NewFeature(orb.Point{m.Coordinates.Lon, m.Coordinates.Lat})
		f.Properties["marker-color"] = m.Color
		f.Properties["title"] = m.Label
		if m.Description != "" {
			f.Properties["description"] = m.Description
		}
		f.Properties["shelter_index"] = m.ShelterIndex
		fc.Append(f)
	}
	return fc
}
