package model

import "math"

// Location represents coordinates in the game world.
// It is an immutable value type.
type Location struct {
	X           float64
	Y           float64
	Z           float64
	Orientation float64
}

// NewLocation creates a Location at the given coordinates.
func NewLocation(x, y, z, orientation float64) Location {
	return Location{X: x, Y: y, Z: z, Orientation: orientation}
}

// WithCoordinates returns a copy of l moved to the given coordinates.
func (l Location) WithCoordinates(x, y, z float64) Location {
	l.X = x
	l.Y = y
	l.Z = z
	return l
}

// DistanceSquared returns the squared distance to other, without a sqrt.
func (l Location) DistanceSquared(other Location) float64 {
	dx := l.X - other.X
	dy := l.Y - other.Y
	dz := l.Z - other.Z
	return dx*dx + dy*dy + dz*dz
}

// Distance returns the distance to other.
func (l Location) Distance(other Location) float64 {
	return math.Sqrt(l.DistanceSquared(other))
}

// WithinRadius reports whether other lies inside the sphere of the given radius around l.
func (l Location) WithinRadius(other Location, radius float64) bool {
	return l.DistanceSquared(other) <= radius*radius
}
