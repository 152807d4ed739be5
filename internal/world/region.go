package world

import (
	"sync"
	"sync/atomic"

	"github.com/udisondev/auracore/internal/model"
)

// Region is one RegionSize×RegionSize grid cell. Units live in a sync.Map and
// radius queries read a lazily rebuilt snapshot.
type Region struct {
	rx, ry int32

	units     sync.Map // objectID → *model.Unit
	neighbors []*Region

	snapshot atomic.Pointer[[]*model.Unit]
	stale    atomic.Bool
}

func NewRegion(rx, ry int32) *Region {
	r := &Region{rx: rx, ry: ry}
	r.stale.Store(true)
	return r
}

func (r *Region) RX() int32 { return r.rx }
func (r *Region) RY() int32 { return r.ry }

func (r *Region) AddUnit(u *model.Unit) {
	r.units.Store(u.ObjectID(), u)
	r.stale.Store(true)
}

func (r *Region) RemoveUnit(objectID uint32) {
	r.units.Delete(objectID)
	r.stale.Store(true)
}

// SetSurroundingRegions is called once while the grid is built.
func (r *Region) SetSurroundingRegions(regions []*Region) {
	r.neighbors = regions
}

// SurroundingRegions returns the 3×3 window around r, r included.
// The slice is shared and must not be modified.
func (r *Region) SurroundingRegions() []*Region {
	return r.neighbors
}

// Snapshot returns the region's units. The slice is shared and must not be modified.
func (r *Region) Snapshot() []*model.Unit {
	if !r.stale.Load() {
		if snap := r.snapshot.Load(); snap != nil {
			return *snap
		}
	}
	units := make([]*model.Unit, 0, 16)
	r.units.Range(func(_, v any) bool {
		units = append(units, v.(*model.Unit))
		return true
	})
	r.snapshot.Store(&units)
	r.stale.Store(false)
	return units
}
