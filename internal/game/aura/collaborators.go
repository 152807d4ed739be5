package aura

//go:generate mockgen -destination=mock/mock_collaborators.go -package=mockaura -source=collaborators.go

import "github.com/udisondev/auracore/internal/model"

// World resolves units by object id and by position.
// A missing unit is a normal condition.
type World interface {
	Unit(objectID uint32) (*model.Unit, bool)
	// UnitsInRadius returns units within radius of center ordered by object id.
	UnitsInRadius(center model.Location, radius float64) []*model.Unit
}

// Sink receives batched aura state deltas of one unit.
type Sink interface {
	Send(unitID uint32, states []State)
}
