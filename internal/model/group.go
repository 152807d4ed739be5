package model

import (
	"errors"
	"sync"
)

const (
	// MaxGroupSize is the size of a regular group (one subgroup).
	MaxGroupSize = 5
	// MaxRaidSize is the size of a raid (8 subgroups of 5).
	MaxRaidSize = 40
	// MaxRaidSubGroups is the number of raid subgroups.
	MaxRaidSubGroups = MaxRaidSize / MaxGroupSize
)

var (
	ErrGroupFull     = errors.New("group is full")
	ErrAlreadyMember = errors.New("unit is already a member")
	ErrNotMember     = errors.New("unit is not a member")
	ErrSubGroupFull  = errors.New("sub-group is full")
)

// Group is a party or raid of units.
// Thread-safe: all methods acquire internal mutex.
// Membership is mirrored into each member via Unit.SetGroup, which feeds
// party/raid relationship predicates of area auras.
type Group struct {
	mu      sync.RWMutex
	id      int32
	leader  *Unit
	members []*Unit // leader is always first
	sub     map[uint32]uint8
	raid    bool
}

// NewGroup creates a group with the given leader.
func NewGroup(id int32, leader *Unit) *Group {
	g := &Group{
		id:      id,
		leader:  leader,
		members: make([]*Unit, 0, MaxGroupSize),
		sub:     make(map[uint32]uint8),
	}
	g.members = append(g.members, leader)
	g.sub[leader.ObjectID()] = 0
	leader.SetGroup(id, 0)
	return g
}

// ID returns immutable group ID.
func (g *Group) ID() int32 {
	return g.id
}

// Leader returns current group leader.
func (g *Group) Leader() *Unit {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.leader
}

// IsRaid reports whether the group was converted to a raid.
func (g *Group) IsRaid() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.raid
}

// ConvertToRaid lifts the size cap to MaxRaidSize.
func (g *Group) ConvertToRaid() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.raid = true
}

// AddMember adds a unit to the first sub-group with a free place.
func (g *Group) AddMember(u *Unit) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.sub[u.ObjectID()]; ok {
		return ErrAlreadyMember
	}
	limit := MaxGroupSize
	if g.raid {
		limit = MaxRaidSize
	}
	if len(g.members) >= limit {
		return ErrGroupFull
	}

	subGroup := uint8(0)
	if g.raid {
		subGroup = g.freeSubGroupLocked()
	}

	g.members = append(g.members, u)
	g.sub[u.ObjectID()] = subGroup
	u.SetGroup(g.id, subGroup)
	return nil
}

// RemoveMember removes a unit; the next member becomes leader if needed.
func (g *Group) RemoveMember(u *Unit) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.sub[u.ObjectID()]; !ok {
		return ErrNotMember
	}
	delete(g.sub, u.ObjectID())
	for i, m := range g.members {
		if m.ObjectID() == u.ObjectID() {
			g.members = append(g.members[:i], g.members[i+1:]...)
			break
		}
	}
	u.SetGroup(0, 0)

	if g.leader.ObjectID() == u.ObjectID() && len(g.members) > 0 {
		g.leader = g.members[0]
	}
	return nil
}

// ChangeSubGroup moves a raid member to another sub-group.
func (g *Group) ChangeSubGroup(u *Unit, subGroup uint8) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.sub[u.ObjectID()]; !ok {
		return ErrNotMember
	}
	if subGroup >= MaxRaidSubGroups || g.countInSubGroupLocked(subGroup) >= MaxGroupSize {
		return ErrSubGroupFull
	}
	g.sub[u.ObjectID()] = subGroup
	u.SetGroup(g.id, subGroup)
	return nil
}

// Members returns a copy of the member list.
func (g *Group) Members() []*Unit {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]*Unit, len(g.members))
	copy(out, g.members)
	return out
}

// MemberCount returns current number of members.
func (g *Group) MemberCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.members)
}

func (g *Group) freeSubGroupLocked() uint8 {
	for s := uint8(0); s < MaxRaidSubGroups; s++ {
		if g.countInSubGroupLocked(s) < MaxGroupSize {
			return s
		}
	}
	return MaxRaidSubGroups - 1
}

func (g *Group) countInSubGroupLocked(subGroup uint8) int {
	n := 0
	for _, s := range g.sub {
		if s == subGroup {
			n++
		}
	}
	return n
}
