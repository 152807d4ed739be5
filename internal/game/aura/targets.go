package aura

import (
	"slices"

	"github.com/udisondev/auracore/internal/condition"
	"github.com/udisondev/auracore/internal/data"
	"github.com/udisondev/auracore/internal/model"
)

// targetMap maps unit id → effects targeting it.
type targetMap map[uint32]uint8

func (t targetMap) add(u *model.Unit, i int) {
	t[u.ObjectID()] |= 1 << i
}

// ApplyForTargets resolves targets and applies effects immediately.
func (m *Manager) ApplyForTargets(a *Aura) {
	m.enter()
	defer m.leave()
	m.updateTargetMap(a, true)
}

// updateTargetMap re-resolves the target set: stale bindings are removed
// first, new ones registered next and, with apply, their effects applied last.
func (m *Manager) updateTargetMap(a *Aura, apply bool) {
	if a.IsRemoved() {
		return
	}
	a.targetMapTimer = int32(m.cfg.TargetMapInterval.Milliseconds())

	targets := m.fillTargetMap(a)

	var toRemove []uint32
	for _, app := range a.Applications() {
		mask, ok := targets[app.targetID]
		if !ok {
			toRemove = append(toRemove, app.targetID)
			continue
		}
		target := m.unit(app.targetID)
		if target == nil || m.isImmuneToSpell(target, a.spell) || !m.canBeAppliedOn(a, target) {
			toRemove = append(toRemove, app.targetID)
			delete(targets, app.targetID)
			continue
		}
		mask &^= m.immuneEffects(target, a)
		if mask != app.effectsToApply {
			// Re-added on the next resolution.
			toRemove = append(toRemove, app.targetID)
		}
		delete(targets, app.targetID)
	}

	for _, id := range toRemove {
		if app, ok := a.applications[id]; ok && app.removeMode == RemoveNone {
			m.unapplyQueued(app, RemoveDefault)
		}
	}

	if a.IsRemoved() {
		return
	}

	ids := make([]uint32, 0, len(targets))
	for id := range targets {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	var registered []*Application
	for _, id := range ids {
		target := m.unit(id)
		if target == nil {
			continue
		}
		mask := targets[id] &^ m.immuneEffects(target, a)
		if mask == 0 || m.isImmuneToSpell(target, a.spell) || !m.canBeAppliedOn(a, target) {
			continue
		}
		if !m.isHighestExclusiveAura(id, a, true) {
			continue
		}
		if a.kind == KindDynObj && target.IsFlying() {
			continue
		}
		if id != a.ownerUnitID() && !m.canStackOnTarget(a, id) {
			continue
		}
		if app := m.registerApplication(a, target, mask); app != nil {
			registered = append(registered, app)
		}
	}

	if !apply {
		return
	}
	for _, app := range registered {
		if a.IsRemoved() {
			return
		}
		if app.removeMode == RemoveNone && a.applications[app.targetID] == app {
			m.applyAura(app)
		}
	}
}

// canStackOnTarget reports whether a stacks with everything already on a non-owner target.
func (m *Manager) canStackOnTarget(a *Aura, unitID uint32) bool {
	ua, ok := m.units[unitID]
	if !ok {
		return true
	}
	for _, app := range ua.appliedSorted() {
		if app.removeMode == RemoveNone && !m.CanStackWith(a, app.aura) {
			return false
		}
	}
	return true
}

// registerApplication binds a to target without applying effects.
func (m *Manager) registerApplication(a *Aura, target *model.Unit, mask uint8) *Application {
	if !target.IsAlive() && !a.spell.IsDeathPersistent() {
		return nil
	}
	id := target.ObjectID()
	if _, exists := a.applications[id]; exists {
		return nil
	}
	app := m.newApplication(a, id, mask)
	m.unitState(id).applied[a.id] = app
	a.applications[id] = app
	return app
}

// applyAura resolves exclusivity on the target, then applies resolved effects.
func (m *Manager) applyAura(app *Application) {
	a := app.aura
	m.removeNoStackAuras(app.targetID, a)
	for i := uint8(0); i < data.MaxEffects; i++ {
		if app.removeMode != RemoveNone || a.IsRemoved() {
			return
		}
		if app.effectsToApply&(1<<i) != 0 && !app.HasEffect(i) {
			m.handleEffect(app, i, true)
		}
	}
}

// fillTargetMap computes candidate targets per effect.
func (m *Manager) fillTargetMap(a *Aura) targetMap {
	if a.kind == KindDynObj {
		return m.fillDynObjTargets(a)
	}
	return m.fillUnitTargets(a)
}

func (m *Manager) fillUnitTargets(a *Aura) targetMap {
	targets := make(targetMap)
	owner := m.ownerOf(a)
	if owner == nil {
		return targets
	}
	ref := m.casterOf(a)
	if ref == nil {
		ref = owner
	}

	for i, eff := range a.effects {
		if eff == nil {
			continue
		}
		info := eff.info
		conds := m.spells.ConditionList(info.ConditionList)
		meets := func(u *model.Unit) bool {
			return m.conds.Meets(conds, condition.Source{Target: u, Invoker: ref})
		}

		if info.Effect == data.EffectApplyAura {
			if meets(owner) {
				targets.add(owner, i)
			}
			continue
		}
		if !owner.IsInWorld() {
			continue
		}

		check := data.TargetCheckDefault
		switch info.Effect {
		case data.EffectApplyAreaAuraParty:
			check = data.TargetCheckParty
		case data.EffectApplyAreaAuraRaid:
			check = data.TargetCheckRaid
		case data.EffectApplyAreaAuraFriend:
			check = data.TargetCheckAlly
		case data.EffectApplyAreaAuraEnemy:
			check = data.TargetCheckEnemy
		case data.EffectApplyAreaAuraPet:
			if meets(owner) {
				targets.add(owner, i)
			}
			fallthrough
		case data.EffectApplyAreaAuraOwner:
			if master := m.unit(owner.CharmerOrOwnerID()); master != nil &&
				owner.Location().WithinRadius(master.Location(), info.Radius) && meets(master) {
				targets.add(master, i)
			}
		}
		if check == data.TargetCheckDefault {
			continue
		}
		for _, u := range m.world.UnitsInRadius(owner.Location(), info.Radius) {
			if m.isValidAreaTarget(u, ref, check) && meets(u) {
				targets.add(u, i)
			}
		}
	}
	return targets
}

func (m *Manager) fillDynObjTargets(a *Aura) targetMap {
	targets := make(targetMap)
	ref := m.casterOf(a)
	if ref == nil || a.dyn == nil {
		return targets
	}
	for i, eff := range a.effects {
		if eff == nil {
			continue
		}
		conds := m.spells.ConditionList(eff.info.ConditionList)
		for _, u := range m.world.UnitsInRadius(a.dyn.Location, a.dyn.Radius) {
			if !m.isValidAreaTarget(u, ref, eff.info.TargetCheck) {
				continue
			}
			if m.conds.Meets(conds, condition.Source{Target: u, Invoker: ref}) {
				targets.add(u, i)
			}
		}
	}
	return targets
}

// isValidAreaTarget applies the relationship filter relative to ref.
func (m *Manager) isValidAreaTarget(u, ref *model.Unit, check data.TargetCheck) bool {
	if !u.IsAlive() {
		return false
	}
	switch check {
	case data.TargetCheckAlly:
		return ref.IsFriendlyTo(u)
	case data.TargetCheckEnemy:
		return ref.IsHostileTo(u)
	case data.TargetCheckParty:
		return ref.IsFriendlyTo(u) && ref.IsInPartyWith(u)
	case data.TargetCheckRaid:
		return ref.IsFriendlyTo(u) && ref.IsInRaidWith(u)
	}
	return true
}

// isImmuneToSpell reports whole-spell immunity of the target.
func (m *Manager) isImmuneToSpell(target *model.Unit, spell *data.SpellInfo) bool {
	if target.IsImmuneToMechanic(spell.Mechanic) {
		return true
	}
	return !spell.IsPositive() && target.IsImmuneToSchool(spell.SchoolMask)
}

// immuneEffects returns effects of a the target is immune to.
func (m *Manager) immuneEffects(target *model.Unit, a *Aura) uint8 {
	var mask uint8
	for i, eff := range a.effects {
		if eff == nil {
			continue
		}
		if target.IsImmuneToMechanic(eff.info.Mechanic) || target.IsImmuneToAuraType(uint32(eff.info.AuraType)) {
			mask |= 1 << i
		}
	}
	return mask
}

// canBeAppliedOn rejects units outside the world except the owner itself.
func (m *Manager) canBeAppliedOn(a *Aura, target *model.Unit) bool {
	if !target.IsInWorld() {
		if target.ObjectID() != a.ownerUnitID() {
			return false
		}
		return a.key.CasterID == a.ownerID || !a.spell.IsSingleTarget()
	}
	return m.hookCheckAreaTarget(a, target)
}
