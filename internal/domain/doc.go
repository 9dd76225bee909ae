// Package domain holds the pure logic of the shelter finder: geodesic math,
// nearest-shelter selection, camera planning, the alert record model and the
// urgency classifier.
//
// # Coordinates
//
// Positions follow the GeoJSON and Mapbox convention of longitude first.
// The shelter document stores them as a two-element array:
//
//	{"name": "Kanazawa Elementary", "coordinates": [136.6279, 36.5305], "description": "..."}
//
// Distances use the haversine formula on a sphere of radius 6371 km. Bearings
// are initial great-circle headings in [0, 360), 0 = north.
//
// # Shelter identity
//
// Shelters have no ID field. The closest shelter is identified by its index in
// the loaded slice, which stays stable because the set is read-only after
// startup. See [FindClosest].
//
// # Routes
//
// A [RouteGeometry] is either "directions" (from the routing service) or
// "direct" (a straight two-point line). [RouteResult.Degraded] tells callers a
// fallback was used without relying on an error return.
//
// # Camera pose
//
// [PlanView] anchors at the start point, faces the destination and picks a
// zoom from the straight-line distance:
//
//	< 0.5 km → 15 | < 1 km → 14 | < 2 km → 13 | < 5 km → 12 | otherwise 11
//
// # Alert urgency
//
// JMA seismic intensity (shindo) is written as 1–4, 5弱/5強, 6弱/6強, 7. The
// classifier also accepts "5-"/"5+" and "5 lower"/"5 upper", and full-width
// digits. Ranks are 5弱 = 5, 5強 = 5.5, 6弱 = 6, 6強 = 6.5. Alerts at or
// above the configured rank are urgent. Without an intensity token, warning
// keywords (警報, warning) mark an alert urgent and advisory keywords (注意報,
// advisory) do not. Both keyword lists are configuration.
package domain
