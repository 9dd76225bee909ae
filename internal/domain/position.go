package domain

import "context"

// PositionSource performs a single on-demand read of the user's position.
// Implementations return an error wrapping ErrSensorUnavailable when no
// position can be obtained.
type PositionSource interface {
	CurrentPosition(ctx context.Context) (Coordinate, error)
}

// StaticPosition is a PositionSource with a fixed, preconfigured coordinate.
// A nil *StaticPosition reports ErrSensorUnavailable.
type StaticPosition struct {
	Coordinate Coordinate
}

func (p *StaticPosition) CurrentPosition(_ context.Context) (Coordinate, error) {
	if p == nil || !p.Coordinate.Valid() {
		return Coordinate{}, ErrSensorUnavailable
	}
	return p.Coordinate, nil
}
