package domain

import (
	"encoding/json"
	"fmt"
	"math"
)

// Coordinate is a WGS-84 position in degrees. Field order follows the
// GeoJSON / Mapbox convention of longitude first.
type Coordinate struct {
	Lon float64
	Lat float64
}

// Valid reports whether both components are finite and inside the
// longitude [-180, 180] and latitude [-90, 90] ranges.
func (c Coordinate) Valid() bool {
	if math.IsNaN(c.Lon) || math.IsNaN(c.Lat) || math.IsInf(c.Lon, 0) || math.IsInf(c.Lat, 0) {
		return false
	}
	return c.Lon >= -180 && c.Lon <= 180 && c.Lat >= -90 && c.Lat <= 90
}

func (c Coordinate) String() string {
	return fmt.Sprintf("%.6f,%.6f", c.Lon, c.Lat)
}

// MarshalJSON encodes the coordinate as a [lon, lat] pair.
func (c Coordinate) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{c.Lon, c.Lat})
}

// UnmarshalJSON accepts exactly a two-element numeric [lon, lat] array.
func (c *Coordinate) UnmarshalJSON(data []byte) error {
	var pair []float64
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("%w: coordinates must be a [lon, lat] number pair", ErrMalformedPayload)
	}
	if len(pair) != 2 {
		return fmt.Errorf("%w: coordinates must have 2 elements, got %d", ErrMalformedPayload, len(pair))
	}
	parsed := Coordinate{Lon: pair[0], Lat: pair[1]}
	if !parsed.Valid() {
		return fmt.Errorf("%w: coordinates out of range: %s", ErrMalformedPayload, parsed)
	}
	*c = parsed
	return nil
}

// Shelter is an evacuation site loaded once at startup. Shelters carry no ID;
// callers identify one by its index in the loaded slice.
type Shelter struct {
	Name        string     `json:"name"`
	Coordinates Coordinate `json:"coordinates"`
	Description string     `json:"description"`
}

// Profile selects the Directions routing profile.
type Profile string

const (
	ProfileDriving Profile = "driving"
	ProfileWalking Profile = "walking"
)

// ParseProfile validates a routing profile name. An empty string yields driving.
func ParseProfile(s string) (Profile, error) {
	switch Profile(s) {
	case "", ProfileDriving:
		return ProfileDriving, nil
	case ProfileWalking:
		return ProfileWalking, nil
	default:
		return "", fmt.Errorf("unknown route profile %q", s)
	}
}
