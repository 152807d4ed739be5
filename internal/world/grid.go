package world

import "math"

// Grid constants. A map is a square of MapSize units centred on the origin,
// split into square regions of RegionSize units.
const (
	MapSize    = 34133.33
	WorldMin   = -MapSize / 2
	WorldMax   = MapSize / 2
	RegionSize = 256.0

	// RegionsPerAxis = ceil(MapSize / RegionSize) = 134
	RegionsPerAxis = 134
)

// CoordToRegionIndex converts world coordinate to region index.
// Formula: floor((coord - WorldMin) / RegionSize)
func CoordToRegionIndex(x, y float64) (rx, ry int32) {
	rx = int32(math.Floor((x - WorldMin) / RegionSize))
	ry = int32(math.Floor((y - WorldMin) / RegionSize))
	return rx, ry
}

// IsValidRegionIndex checks if region index is within valid bounds
func IsValidRegionIndex(rx, ry int32) bool {
	return rx >= 0 && rx < RegionsPerAxis && ry >= 0 && ry < RegionsPerAxis
}

// RegionIndexToCoord converts region index to world coordinate (center of region)
func RegionIndexToCoord(rx, ry int32) (x, y float64) {
	x = WorldMin + float64(rx)*RegionSize + RegionSize/2
	y = WorldMin + float64(ry)*RegionSize + RegionSize/2
	return x, y
}

// regionSpan returns how many regions around the centre a radius query must visit.
func regionSpan(radius float64) int32 {
	if radius <= RegionSize {
		return 1
	}
	return int32(math.Ceil(radius / RegionSize))
}
