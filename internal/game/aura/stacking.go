package aura

import (
	"log/slog"

	"github.com/udisondev/auracore/internal/data"
)

// CanStackWith reports whether a may coexist with existing on one target.
// Rules are checked in a fixed order and the first match decides.
func (m *Manager) CanStackWith(a, existing *Aura) bool {
	if a == existing {
		return true
	}

	sameCaster := a.key.CasterID == existing.key.CasterID
	spell, other := a.spell, existing.spell

	// Ground areas only conflict with their own copy.
	if a.kind == KindDynObj || existing.kind == KindDynObj {
		return !(sameCaster && spell.ID == other.ID)
	}

	if a.IsPassive() && sameCaster &&
		(spell.IsDifferentRankOf(other) || (spell.ID == other.ID && a.castItemID == 0)) {
		return false
	}

	// A trigger chain must not cancel itself.
	for i := range data.MaxEffects {
		if eff := other.Effects[i]; eff != nil && eff.TriggerSpell == spell.ID {
			return true
		}
		if eff := spell.Effects[i]; eff != nil && eff.TriggerSpell == other.ID {
			return true
		}
	}

	if spell.HasAura(data.AuraTrackResources) && other.HasAura(data.AuraTrackResources) {
		return m.cfg.AllowTrackBothResources
	}

	if exclusive := m.exclusiveByTables(spell, other, sameCaster); exclusive {
		if spell.Family != other.Family {
			slog.Debug("stack rule conflict: exclusive group across spell families",
				"spell", spell.ID, "existing", other.ID)
		}
		return false
	}

	if spell.Family != other.Family {
		return true
	}

	if !sameCaster {
		if other.IsChanneled() || spell.HasAttr(data.AttrStackForDiffCasters) {
			return true
		}
		for i := range data.MaxEffects {
			eff := spell.Effects[i]
			if eff == nil || !eff.AuraType.IsPeriodicOverTime() {
				continue
			}
			if eff.IsTargetingArea() {
				continue
			}
			if oeff := other.Effects[i]; oeff != nil && oeff.IsTargetingArea() {
				continue
			}
			return true
		}
	}

	if a.HasEffectType(data.AuraControlVehicle) && existing.HasEffectType(data.AuraControlVehicle) {
		owner := m.ownerOf(a)
		if owner == nil || !owner.IsVehicle() {
			return true
		}
		return owner.HasEmptySeat()
	}

	if spell.IsRankOf(other) {
		if spell.IsMultiSlotAura() && !a.IsArea() {
			return true
		}
		if a.castItemID != 0 && existing.castItemID != 0 &&
			a.castItemID != existing.castItemID && spell.HasAttr(data.AttrEnchantProc) {
			return true
		}
		return false
	}

	return true
}

// exclusiveByTables applies spell-specific and spell-group exclusivity.
func (m *Manager) exclusiveByTables(spell, other *data.SpellInfo, sameCaster bool) bool {
	if spell.IsExclusiveBySpecificWith(other) || (sameCaster && spell.IsExclusiveBySpecificPerCasterWith(other)) {
		return true
	}
	switch m.spells.StackRule(spell, other) {
	case data.StackRuleExclusive, data.StackRuleExclusiveHighest:
		// Exclusive-highest reaching here means existing is lower or equal.
		return true
	case data.StackRuleExclusiveFromSameCaster:
		return sameCaster
	}
	return false
}

// isPassiveStackableWithRanks reports passive spells without a plain apply-aura effect.
func isPassiveStackableWithRanks(spell *data.SpellInfo) bool {
	if !spell.IsPassive() {
		return false
	}
	for _, eff := range spell.Effects {
		if eff != nil && eff.Effect == data.EffectApplyAura {
			return false
		}
	}
	return true
}

// removeNoStackAuras removes auras on the unit that a cannot stack with.
// If a itself loses an exclusive-highest comparison, a is removed instead.
func (m *Manager) removeNoStackAuras(unitID uint32, a *Aura) {
	if isPassiveStackableWithRanks(a.spell) {
		return
	}
	if !m.isHighestExclusiveAura(unitID, a, false) {
		m.removeAura(a, RemoveDefault)
		return
	}

	ua := m.unitState(unitID)
	for {
		victim := ua.firstApplied(func(app *Application) bool {
			return app.removeMode != RemoveNone || m.CanStackWith(a, app.aura)
		})
		if victim == nil || a.IsRemoved() {
			return
		}
		m.logger(a).Debug("aura replaced by non-stacking aura", "replaced", victim.aura.spell.ID, "unit", unitID)
		m.removeApplication(victim, RemoveDefault)
	}
}

// isHighestExclusiveAura compares a against exclusive-highest auras on the
// unit. With removeOthers, weaker bindings on the unit are removed.
func (m *Manager) isHighestExclusiveAura(unitID uint32, a *Aura, removeOthers bool) bool {
	for _, eff := range a.effects {
		if eff == nil {
			continue
		}
		if !m.isHighestExclusiveEffect(unitID, a, eff, removeOthers) {
			return false
		}
	}
	return true
}

func (m *Manager) isHighestExclusiveEffect(unitID uint32, a *Aura, eff *Effect, removeOthers bool) bool {
	ua, ok := m.units[unitID]
	if !ok {
		return true
	}
	for _, app := range ua.appliedSorted() {
		existing := app.aura
		if existing == a || app.removeMode != RemoveNone {
			continue
		}
		for i, other := range existing.effects {
			if other == nil || !app.HasEffect(uint8(i)) || other.info.AuraType != eff.info.AuraType {
				continue
			}
			if m.spells.StackRule(a.spell, existing.spell) != data.StackRuleExclusiveHighest {
				continue
			}

			diff := abs32(eff.amount) - abs32(other.amount)
			if diff == 0 {
				diff = int32(popcount(a.EffectMask())) - int32(popcount(existing.EffectMask()))
			}
			switch {
			case diff < 0:
				return false
			case diff > 0 && removeOthers:
				// The area source keeps its own copy.
				if !existing.IsArea() || existing.ownerUnitID() != unitID {
					m.removeApplication(app, RemoveDefault)
				}
			}
		}
	}
	return true
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

func popcount(mask uint8) int {
	n := 0
	for ; mask != 0; mask &= mask - 1 {
		n++
	}
	return n
}
