package party

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/udisondev/auracore/internal/model"
)

// Manager manages all active groups on the server.
// Thread-safe: uses RWMutex for group map and atomic for ID generation.
type Manager struct {
	mu     sync.RWMutex
	groups map[int32]*model.Group
	nextID atomic.Int32
}

// NewManager creates a new group manager.
func NewManager() *Manager {
	return &Manager{
		groups: make(map[int32]*model.Group),
	}
}

// CreateGroup creates a new group with the given leader.
func (m *Manager) CreateGroup(leader *model.Unit) *model.Group {
	id := m.nextID.Add(1)
	g := model.NewGroup(id, leader)

	m.mu.Lock()
	m.groups[id] = g
	m.mu.Unlock()

	return g
}

// Form creates a group led by the first member and adds the rest.
// A raid group is converted before members are added.
func (m *Manager) Form(members []*model.Unit, raid bool) (*model.Group, error) {
	if len(members) == 0 {
		return nil, errors.New("form group: no members")
	}
	g := m.CreateGroup(members[0])
	if raid {
		g.ConvertToRaid()
	}
	for _, u := range members[1:] {
		if err := g.AddMember(u); err != nil {
			m.Disband(g.ID())
			return nil, fmt.Errorf("form group: adding unit %d: %w", u.ObjectID(), err)
		}
	}
	return g, nil
}

// Disband removes a group and clears membership of every member.
func (m *Manager) Disband(groupID int32) {
	m.mu.Lock()
	g, ok := m.groups[groupID]
	delete(m.groups, groupID)
	m.mu.Unlock()

	if !ok {
		return
	}
	for _, member := range g.Members() {
		member.SetGroup(0, 0)
	}
}

// Group returns a group by ID, or nil if not found.
func (m *Manager) Group(groupID int32) *model.Group {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.groups[groupID]
}

// GroupOf returns the group a unit belongs to, or nil.
func (m *Manager) GroupOf(u *model.Unit) *model.Group {
	id, _ := u.Group()
	if id == 0 {
		return nil
	}
	return m.Group(id)
}

// GroupCount returns the number of active groups.
func (m *Manager) GroupCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.groups)
}
