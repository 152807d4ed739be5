package world

import (
	"fmt"
	"slices"
	"sync"

	"github.com/udisondev/auracore/internal/model"
)

// World is the spatial/entity index: a 2D region grid plus an id → unit map.
// Safe for concurrent use; the simulation itself drives it from one goroutine.
type World struct {
	regions [][]*Region // 2D array [RegionsPerAxis][RegionsPerAxis]
	units   sync.Map    // objectID → *model.Unit
}

// New creates an empty world with an initialised region grid.
func New() *World {
	w := &World{}

	w.regions = make([][]*Region, RegionsPerAxis)
	for rx := range RegionsPerAxis {
		w.regions[rx] = make([]*Region, RegionsPerAxis)
		for ry := range RegionsPerAxis {
			w.regions[rx][ry] = NewRegion(int32(rx), int32(ry))
		}
	}

	// Set surrounding regions for each region (3×3 window)
	for rx := range RegionsPerAxis {
		for ry := range RegionsPerAxis {
			w.regions[rx][ry].SetSurroundingRegions(w.regionsAround(int32(rx), int32(ry), 1))
		}
	}
	return w
}

// regionsAround returns the (2*span+1)² window of regions around (rx, ry),
// excluding out-of-bounds indexes.
func (w *World) regionsAround(rx, ry, span int32) []*Region {
	side := 2*span + 1
	out := make([]*Region, 0, side*side)
	for dx := -span; dx <= span; dx++ {
		for dy := -span; dy <= span; dy++ {
			nx, ny := rx+dx, ry+dy
			if IsValidRegionIndex(nx, ny) {
				out = append(out, w.regions[nx][ny])
			}
		}
	}
	return out
}

// GetRegion returns region at world coordinates (x, y)
// Returns nil if coordinates are out of bounds
func (w *World) GetRegion(x, y float64) *Region {
	rx, ry := CoordToRegionIndex(x, y)
	if !IsValidRegionIndex(rx, ry) {
		return nil
	}
	return w.regions[rx][ry]
}

// AddUnit adds unit to world and its region.
// Returns error if coordinates are outside the map.
func (w *World) AddUnit(u *model.Unit) error {
	loc := u.Location()
	region := w.GetRegion(loc.X, loc.Y)
	if region == nil {
		return fmt.Errorf("invalid coordinates for unit %d: (%.1f, %.1f)", u.ObjectID(), loc.X, loc.Y)
	}

	w.units.Store(u.ObjectID(), u)
	region.AddUnit(u)
	u.SetInWorld(true)
	return nil
}

// RemoveUnit removes unit from world and its region.
func (w *World) RemoveUnit(objectID uint32) {
	value, ok := w.units.LoadAndDelete(objectID)
	if !ok {
		return
	}

	u := value.(*model.Unit)
	loc := u.Location()
	if region := w.GetRegion(loc.X, loc.Y); region != nil {
		region.RemoveUnit(objectID)
	}
	u.SetInWorld(false)
}

// MoveUnit relocates a unit, migrating it between regions when needed.
func (w *World) MoveUnit(objectID uint32, loc model.Location) error {
	value, ok := w.units.Load(objectID)
	if !ok {
		return fmt.Errorf("unit %d not in world", objectID)
	}
	u := value.(*model.Unit)

	to := w.GetRegion(loc.X, loc.Y)
	if to == nil {
		return fmt.Errorf("invalid coordinates for unit %d: (%.1f, %.1f)", objectID, loc.X, loc.Y)
	}

	old := u.Location()
	from := w.GetRegion(old.X, old.Y)
	u.SetLocation(loc)
	if from != to {
		if from != nil {
			from.RemoveUnit(objectID)
		}
		to.AddUnit(u)
	}
	return nil
}

// Unit returns unit by ID.
func (w *World) Unit(objectID uint32) (*model.Unit, bool) {
	value, ok := w.units.Load(objectID)
	if !ok {
		return nil, false
	}
	return value.(*model.Unit), true
}

// UnitsInRadius returns every unit within radius of center, ordered by object id.
func (w *World) UnitsInRadius(center model.Location, radius float64) []*model.Unit {
	rx, ry := CoordToRegionIndex(center.X, center.Y)
	if !IsValidRegionIndex(rx, ry) {
		return nil
	}

	var regions []*Region
	if span := regionSpan(radius); span == 1 {
		regions = w.regions[rx][ry].SurroundingRegions()
	} else {
		regions = w.regionsAround(rx, ry, span)
	}

	var out []*model.Unit
	for _, region := range regions {
		for _, u := range region.Snapshot() {
			if center.WithinRadius(u.Location(), radius) {
				out = append(out, u)
			}
		}
	}
	slices.SortFunc(out, func(a, b *model.Unit) int {
		return int(int64(a.ObjectID()) - int64(b.ObjectID()))
	})
	return out
}

// ForEachUnit calls fn for every unit until fn returns false.
func (w *World) ForEachUnit(fn func(*model.Unit) bool) {
	w.units.Range(func(_, value any) bool {
		return fn(value.(*model.Unit))
	})
}

// UnitCount returns total number of units in world (O(N)).
func (w *World) UnitCount() int {
	count := 0
	w.units.Range(func(_, _ any) bool {
		count++
		return true
	})
	return count
}
