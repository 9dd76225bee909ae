package domain

import "math"

// FindClosest returns the index of the shelter nearest to user. Ties keep the
// first shelter encountered. ok is false only when shelters is empty.
func FindClosest(user Coordinate, shelters []Shelter) (index int, ok bool) {
	index = -1
	best := math.Inf(1)
	for i := range shelters {
		d := DistanceKm(user, shelters[i].Coordinates)
		if index < 0 || d < best {
			best = d
			index = i
		}
	}
	return index, index >= 0
}

// ClosestShelter resolves FindClosest into the shelter value, its distance
// from user and its index. It returns ErrNoShelters for an empty set.
func ClosestShelter(user Coordinate, shelters []Shelter) (Shelter, float64, int, error) {
	i, ok := FindClosest(user, shelters)
	if !ok {
		return Shelter{}, 0, -1, ErrNoShelters
	}
	s := shelters[i]
	return s, DistanceKm(user, s.Coordinates), i, nil
}
