package aura

import (
	"fmt"

	"github.com/udisondev/auracore/internal/data"
)

// CreateInfo describes an aura cast on a unit.
type CreateInfo struct {
	SpellID    uint32
	CasterID   uint32
	OwnerID    uint32
	CastItemID uint32
	// EffectMask limits the created effects; 0 takes every effect valid for a unit owner.
	EffectMask uint8
	// BaseAmounts overrides effect base points.
	BaseAmounts *[data.MaxEffects]int32
	// NoPeriodicReset keeps periodic timers running when an existing aura is refreshed.
	NoPeriodicReset bool
}

// unitEffectMask returns effects a unit-owned aura of spell carries.
func unitEffectMask(spell *data.SpellInfo) uint8 {
	var mask uint8
	for i, eff := range spell.Effects {
		if eff != nil && eff.IsUnitOwnedAuraEffect() {
			mask |= 1 << i
		}
	}
	return mask
}

// dynObjEffectMask returns effects a ground-area aura of spell carries.
func dynObjEffectMask(spell *data.SpellInfo) uint8 {
	var mask uint8
	for i, eff := range spell.Effects {
		if eff != nil && eff.Effect == data.EffectPersistentAreaAura {
			mask |= 1 << i
		}
	}
	return mask
}

// TryRefreshStackOrCreate refreshes or stacks an existing aura of the same
// identity on the owner, or creates and applies a new one.
// refreshed reports that an existing aura was reused.
func (m *Manager) TryRefreshStackOrCreate(info CreateInfo) (a *Aura, refreshed bool, err error) {
	m.enter()
	defer m.leave()

	spell, mask, err := m.prepareCreate(info)
	if err != nil {
		return nil, false, err
	}

	if found := m.findExisting(info.OwnerID, spell, info.CasterID, info.CastItemID); found != nil {
		if found.EffectMask() == mask {
			m.refreshExisting(found, info)
			return found, true, nil
		}
		// Effect masks differ: recreate.
		m.removeAura(found, RemoveDefault)
	}

	a = m.createAura(spell, KindUnit, info.OwnerID, nil, info.CasterID, info.CastItemID, mask, info.BaseAmounts)
	if a.IsRemoved() {
		return a, false, nil
	}
	m.updateTargetMap(a, true)
	return a, false, nil
}

func (m *Manager) prepareCreate(info CreateInfo) (*data.SpellInfo, uint8, error) {
	if info.CasterID == 0 {
		panic(fmt.Sprintf("aura of spell %d created without caster", info.SpellID))
	}
	spell := m.spells.Spell(info.SpellID)
	if spell == nil {
		return nil, 0, fmt.Errorf("create aura %d: %w", info.SpellID, ErrUnknownSpell)
	}
	owner := m.unit(info.OwnerID)
	if owner == nil {
		return nil, 0, fmt.Errorf("create aura %d on %d: %w", info.SpellID, info.OwnerID, ErrUnknownOwner)
	}
	if !owner.IsAlive() && !spell.IsDeathPersistent() {
		return nil, 0, fmt.Errorf("create aura %d on %d: %w", info.SpellID, info.OwnerID, ErrDeadOwner)
	}
	mask := unitEffectMask(spell)
	if info.EffectMask != 0 {
		mask &= info.EffectMask
	}
	if mask == 0 {
		return nil, 0, fmt.Errorf("create aura %d: %w", info.SpellID, ErrNoEffects)
	}
	return spell, mask, nil
}

// findExisting looks up the owned aura a new cast would refresh.
// Auras sharing one slot among casters match any caster.
func (m *Manager) findExisting(ownerID uint32, spell *data.SpellInfo, casterID, castItemID uint32) *Aura {
	ua, ok := m.units[ownerID]
	if !ok {
		return nil
	}
	if spell.IsStackableOnOneSlotWithDifferentCaster() {
		for _, a := range ua.ownedSorted() {
			if a.spell.ID == spell.ID && !a.IsRemoved() {
				return a
			}
		}
		return nil
	}
	a, ok := ua.owned[ownedKey(spell, casterID, castItemID)]
	if !ok || a.IsRemoved() {
		return nil
	}
	return a
}

// refreshExisting resets base amounts and adds one stack.
func (m *Manager) refreshExisting(a *Aura, info CreateInfo) {
	for i, eff := range a.effects {
		if eff == nil {
			continue
		}
		if info.BaseAmounts != nil {
			eff.baseAmount = info.BaseAmounts[i]
		} else {
			eff.baseAmount = eff.info.BasePoints
		}
	}
	a.castItemID = info.CastItemID
	m.modStackAmount(a, 1, RemoveDefault, !info.NoPeriodicReset)
	m.metrics.auraRefreshed()
}

// createAura builds an aura, registers it on its owner and resolves exclusivity.
// Targets are not resolved yet.
func (m *Manager) createAura(spell *data.SpellInfo, kind Kind, ownerID uint32, dyn *DynamicObject,
	casterID, castItemID uint32, mask uint8, baseAmounts *[data.MaxEffects]int32) *Aura {
	m.nextID++
	a := &Aura{
		id:           m.nextID,
		spell:        spell,
		key:          ownedKey(spell, casterID, castItemID),
		ownerID:      ownerID,
		kind:         kind,
		dyn:          dyn,
		castItemID:   castItemID,
		stackAmount:  1,
		applications: make(map[uint32]*Application),
	}
	if caster := m.unit(casterID); caster != nil {
		a.casterLevel = caster.Level()
	}
	if spell.ManaPerSecond > 0 {
		a.resourceTimer = int32(m.cfg.ResourceDrainInterval.Milliseconds())
	}
	a.maxDuration = m.calcMaxDuration(a)
	a.duration = a.maxDuration
	a.procCharges = m.calcMaxCharges(a)
	a.usingCharges = a.procCharges != 0

	m.loadScripts(a)
	for i, info := range spell.Effects {
		if info == nil || mask&(1<<i) == 0 {
			continue
		}
		var base *int32
		if baseAmounts != nil {
			base = &baseAmounts[i]
		}
		a.effects[i] = m.newEffect(a, info, base)
	}

	m.auras[a.id] = a
	m.metrics.auraCreated(spell.ID)
	m.logger(a).Debug("aura created", "effects", a.EffectMask())

	switch kind {
	case KindUnit:
		m.unitState(ownerID).owned[a.key] = a
		m.addAura(a)
	case KindDynObj:
		m.dynObjs[ownerID] = a
	}
	return a
}

// addAura resolves exclusivity on the owner and single-target limits of the caster.
func (m *Manager) addAura(a *Aura) {
	m.removeNoStackAuras(a.ownerID, a)
	if a.IsRemoved() {
		return
	}
	if !a.spell.IsSingleTarget() || m.casterOf(a) == nil {
		return
	}
	casterID := a.key.CasterID
	m.singleTarget[casterID] = append(m.singleTarget[casterID], a)
	for {
		var victim *Aura
		for _, other := range m.singleTarget[casterID] {
			if other != a && !other.IsRemoved() && other.isLimitedTargetWith(a) {
				victim = other
				break
			}
		}
		if victim == nil {
			return
		}
		m.removeAura(victim, RemoveDefault)
	}
}

// calcMaxDuration applies the caster's duration modifiers; passive auras are permanent.
func (m *Manager) calcMaxDuration(a *Aura) int32 {
	if a.IsPassive() {
		return -1
	}
	d := a.spell.Duration
	if d == -1 {
		return -1
	}
	d = int32(m.applySpellMod(a.key.CasterID, a.spell, data.SpellModDuration, float64(d)))
	if d < 0 {
		d = 0
	}
	return d
}

// calcMaxCharges takes charges from the proc entry, modified by the caster.
func (m *Manager) calcMaxCharges(a *Aura) uint8 {
	charges := int32(a.spell.ProcCharges)
	if entry := m.spells.ProcEntry(a.spell.ID); entry != nil {
		charges = int32(entry.Charges)
	}
	charges = int32(m.applySpellMod(a.key.CasterID, a.spell, data.SpellModCharges, float64(charges)))
	switch {
	case charges < 0:
		return 0
	case charges > 255:
		return 255
	}
	return uint8(charges)
}
