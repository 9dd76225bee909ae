package domain

import "math"

// EarthRadiusKm is the mean Earth radius used by the haversine formula.
const EarthRadiusKm = 6371.0

// DegreesToRadians converts an angle from degrees to radians.
func DegreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

// RadiansToDegrees converts an angle from radians to degrees.
func RadiansToDegrees(rad float64) float64 {
	return rad * 180 / math.Pi
}

// DistanceKm returns the great-circle distance between a and b in kilometres
// using the haversine formula on a spherical Earth.
func DistanceKm(a, b Coordinate) float64 {
	if a == b {
		return 0
	}
	dLat := DegreesToRadians(b.Lat - a.Lat)
	dLon := DegreesToRadians(b.Lon - a.Lon)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(DegreesToRadians(a.Lat))*math.Cos(DegreesToRadians(b.Lat))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	// Rounding can push h just past 1 for antipodal points.
	h = math.Min(1, math.Max(0, h))

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return EarthRadiusKm * c
}

// BearingDegrees returns the initial compass bearing from a towards b,
// normalized to [0, 360). Identical points yield 0.
func BearingDegrees(a, b Coordinate) float64 {
	if a == b {
		return 0
	}
	lat1 := DegreesToRadians(a.Lat)
	lat2 := DegreesToRadians(b.Lat)
	dLon := DegreesToRadians(b.Lon - a.Lon)

	y := math.Sin(dLon) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLon)

	bearing := math.Mod(RadiansToDegrees(math.Atan2(y, x))+360, 360)
	// Mod can return exactly 360 for tiny negative inputs after rounding.
	if bearing >= 360 {
		bearing -= 360
	}
	return bearing
}
