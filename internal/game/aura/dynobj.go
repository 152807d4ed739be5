package aura

import (
	"fmt"

	"github.com/udisondev/auracore/internal/model"
)

// AreaInfo describes a ground area cast.
type AreaInfo struct {
	SpellID  uint32
	CasterID uint32
	Location model.Location
	// Radius of the area; 0 takes the largest effect radius.
	Radius float64
}

// CreateAreaAura places a ground area owned by a new dynamic object and
// applies it to units inside. An overlapping area of the same spell and
// caster is refreshed instead; refreshed reports that case.
func (m *Manager) CreateAreaAura(info AreaInfo) (a *Aura, refreshed bool, err error) {
	m.enter()
	defer m.leave()

	if info.CasterID == 0 {
		panic(fmt.Sprintf("area aura of spell %d created without caster", info.SpellID))
	}
	spell := m.spells.Spell(info.SpellID)
	if spell == nil {
		return nil, false, fmt.Errorf("create area %d: %w", info.SpellID, ErrUnknownSpell)
	}
	if m.unit(info.CasterID) == nil {
		return nil, false, fmt.Errorf("create area %d by %d: %w", info.SpellID, info.CasterID, ErrUnknownOwner)
	}
	mask := dynObjEffectMask(spell)
	if mask == 0 {
		return nil, false, fmt.Errorf("create area %d: %w", info.SpellID, ErrNoEffects)
	}

	radius := info.Radius
	if radius <= 0 {
		for _, eff := range spell.Effects {
			if eff != nil && eff.Radius > radius {
				radius = eff.Radius
			}
		}
	}

	for _, id := range m.sortedDynObjIDs() {
		existing := m.dynObjs[id]
		if existing.IsRemoved() || existing.dyn.CasterID != info.CasterID || existing.dyn.SpellID != spell.ID {
			continue
		}
		if existing.dyn.overlaps(info.Location, radius) {
			m.refreshExisting(existing, CreateInfo{SpellID: spell.ID, CasterID: info.CasterID})
			return existing, true, nil
		}
	}

	m.nextDynID++
	dyn := &DynamicObject{
		ID:       m.nextDynID,
		CasterID: info.CasterID,
		SpellID:  spell.ID,
		Location: info.Location,
		Radius:   radius,
	}
	a = m.createAura(spell, KindDynObj, dyn.ID, dyn, info.CasterID, 0, mask, nil)
	m.updateTargetMap(a, true)
	return a, false, nil
}

// DynamicObjects returns live ground areas ordered by id.
func (m *Manager) DynamicObjects() []*DynamicObject {
	ids := m.sortedDynObjIDs()
	out := make([]*DynamicObject, 0, len(ids))
	for _, id := range ids {
		out = append(out, m.dynObjs[id].dyn)
	}
	return out
}
