package model

import "sync"

// WorldObject is the identity and position shared by everything placed in the world.
// Name and object id never change after construction.
type WorldObject struct {
	objectID uint32
	name     string

	posMu sync.RWMutex
	loc   Location
}

// NewWorldObject creates an object at the given position.
func NewWorldObject(objectID uint32, name string, loc Location) *WorldObject {
	return &WorldObject{objectID: objectID, name: name, loc: loc}
}

func (o *WorldObject) ObjectID() uint32 { return o.objectID }
func (o *WorldObject) Name() string     { return o.name }

// Location returns a snapshot of the position.
func (o *WorldObject) Location() Location {
	o.posMu.RLock()
	defer o.posMu.RUnlock()
	return o.loc
}

// SetLocation moves the object. Region membership is updated by world.World.MoveUnit.
func (o *WorldObject) SetLocation(loc Location) {
	o.posMu.Lock()
	o.loc = loc
	o.posMu.Unlock()
}

// IsWithin reports whether other is within radius of o.
func (o *WorldObject) IsWithin(other *WorldObject, radius float64) bool {
	return o.Location().WithinRadius(other.Location(), radius)
}
