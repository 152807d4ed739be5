package aura

import (
	"sort"

	"github.com/udisondev/auracore/internal/data"
)

// unitAuras is the aura bookkeeping of one unit.
type unitAuras struct {
	id      uint32
	owned   map[Key]*Aura
	applied map[ID]*Application
	visible map[uint8]*Application

	// Spell modifiers granted by applied AddFlat/AddPct modifier effects.
	spellMods map[*Effect]struct{}

	pending []State
}

func newUnitAuras(id uint32) *unitAuras {
	return &unitAuras{
		id:        id,
		owned:     make(map[Key]*Aura),
		applied:   make(map[ID]*Application),
		visible:   make(map[uint8]*Application),
		spellMods: make(map[*Effect]struct{}),
	}
}

// ownedKey normalises the cast item: only enchant procs are told apart by item.
func ownedKey(spell *data.SpellInfo, casterID, castItemID uint32) Key {
	if !spell.HasAttr(data.AttrEnchantProc) {
		castItemID = 0
	}
	return Key{SpellID: spell.ID, CasterID: casterID, CastItemID: castItemID}
}

// applicationByKey finds a live binding of the given identity.
func (ua *unitAuras) applicationByKey(k Key) *Application {
	var found *Application
	for _, app := range ua.applied {
		if app.aura.key != k || app.removeMode != RemoveNone {
			continue
		}
		if found == nil || app.aura.id < found.aura.id {
			found = app
		}
	}
	return found
}

// ownedSorted returns owned auras ordered by id.
func (ua *unitAuras) ownedSorted() []*Aura {
	auras := make([]*Aura, 0, len(ua.owned))
	for _, a := range ua.owned {
		auras = append(auras, a)
	}
	sort.Slice(auras, func(i, j int) bool { return auras[i].id < auras[j].id })
	return auras
}

// appliedSorted returns bindings ordered by aura id.
func (ua *unitAuras) appliedSorted() []*Application {
	apps := make([]*Application, 0, len(ua.applied))
	for _, app := range ua.applied {
		apps = append(apps, app)
	}
	sort.Slice(apps, func(i, j int) bool { return apps[i].aura.id < apps[j].aura.id })
	return apps
}

// firstApplied returns the live binding with the lowest aura id.
func (ua *unitAuras) firstApplied(skip func(*Application) bool) *Application {
	var first *Application
	for _, app := range ua.applied {
		if skip != nil && skip(app) {
			continue
		}
		if first == nil || app.aura.id < first.aura.id {
			first = app
		}
	}
	return first
}

func (ua *unitAuras) empty() bool {
	return len(ua.owned) == 0 && len(ua.applied) == 0 && len(ua.pending) == 0
}

func (ua *unitAuras) emptyAuras() bool {
	return len(ua.owned) == 0 && len(ua.applied) == 0
}

// spellModsSorted returns modifier effects ordered by aura id and slot.
func (ua *unitAuras) spellModsSorted() []*Effect {
	effs := make([]*Effect, 0, len(ua.spellMods))
	for eff := range ua.spellMods {
		effs = append(effs, eff)
	}
	sort.Slice(effs, func(i, j int) bool {
		if effs[i].aura.id != effs[j].aura.id {
			return effs[i].aura.id < effs[j].aura.id
		}
		return effs[i].index < effs[j].index
	})
	return effs
}
