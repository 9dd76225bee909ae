package domain

// DefaultPitchDegrees tilts the camera so the route reads as a
// forward-looking perspective from the start point.
const DefaultPitchDegrees = 60.0

// ViewPose is an advisory camera target. The map renderer owns the animated
// transition; nothing here performs rendering.
type ViewPose struct {
	Center         Coordinate `json:"center"`
	BearingDegrees float64    `json:"bearing"`
	Zoom           float64    `json:"zoom"`
	PitchDegrees   float64    `json:"pitch"`
}

// PlanView anchors the camera at start, facing end, zoomed so the route fits.
func PlanView(start, end Coordinate) ViewPose {
	return ViewPose{
		Center:         start,
		BearingDegrees: BearingDegrees(start, end),
		Zoom:           ZoomForDistance(DistanceKm(start, end)),
		PitchDegrees:   DefaultPitchDegrees,
	}
}

// ZoomForDistance maps a route length to a zoom level:
//
//	< 0.5 km → 15
//	< 1 km   → 14
//	< 2 km   → 13
//	< 5 km   → 12
//	else     → 11
//
// A distance exactly on a threshold takes the lower zoom.
func ZoomForDistance(km float64) float64 {
	switch {
	case km < 0.5:
		return 15
	case km < 1:
		return 14
	case km < 2:
		return 13
	case km < 5:
		return 12
	default:
		return 11
	}
}
