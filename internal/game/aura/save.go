package aura

import (
	"fmt"
	"log/slog"

	"github.com/udisondev/auracore/internal/data"
)

// SavedAura is the persisted state of one owned aura.
type SavedAura struct {
	SpellID         uint32
	CasterID        uint32
	CastItemID      uint32
	EffectMask      uint8
	RecalculateMask uint8
	StackAmount     uint8
	Charges         uint8
	Duration        int32
	MaxDuration     int32
	Amounts         [data.MaxEffects]int32
	BaseAmounts     [data.MaxEffects]int32
}

// CanBeSaved reports whether the aura survives a logout.
func (a *Aura) CanBeSaved() bool {
	if a.kind != KindUnit || a.IsRemoved() {
		return false
	}
	if a.IsPassive() || a.spell.IsChanneled() {
		return false
	}
	if a.key.CasterID != a.ownerID {
		for _, eff := range a.effects {
			if eff != nil && eff.info.IsTargetingArea() {
				return false
			}
		}
		if a.spell.IsSingleTarget() {
			return false
		}
	}
	if a.spell.HasAttr(data.AttrCannotBeSaved) || a.HasEffectType(data.AuraControlVehicle) {
		return false
	}
	// Spent by procs.
	if a.usingCharges && a.procCharges == 0 {
		return false
	}
	// Item auras are recast on equip.
	return a.castItemID == 0 || !a.IsPermanent()
}

func (a *Aura) save() SavedAura {
	s := SavedAura{
		SpellID:     a.spell.ID,
		CasterID:    a.key.CasterID,
		CastItemID:  a.castItemID,
		EffectMask:  a.EffectMask(),
		StackAmount: a.stackAmount,
		Charges:     a.procCharges,
		Duration:    a.duration,
		MaxDuration: a.maxDuration,
	}
	for i, eff := range a.effects {
		if eff == nil {
			continue
		}
		s.Amounts[i] = eff.amount
		s.BaseAmounts[i] = eff.baseAmount
		if eff.canRecalculate {
			s.RecalculateMask |= 1 << i
		}
	}
	return s
}

// SaveAuras returns the persistable auras owned by the unit, ordered by aura id.
func (m *Manager) SaveAuras(unitID uint32) []SavedAura {
	ua, ok := m.units[unitID]
	if !ok {
		return nil
	}
	var out []SavedAura
	for _, a := range ua.ownedSorted() {
		if a.CanBeSaved() {
			out = append(out, a.save())
		}
	}
	return out
}

// LoadAuras restores saved auras on the unit and applies them.
// Records of unknown spells are skipped. It returns the number restored.
func (m *Manager) LoadAuras(unitID uint32, saved []SavedAura) (int, error) {
	m.enter()
	defer m.leave()

	if m.unit(unitID) == nil {
		return 0, fmt.Errorf("load auras on %d: %w", unitID, ErrUnknownOwner)
	}
	n := 0
	for _, s := range saved {
		spell := m.spells.Spell(s.SpellID)
		if spell == nil {
			slog.Warn("saved aura skipped", "unit", unitID, "spell", s.SpellID, "error", ErrUnknownSpell)
			continue
		}
		mask := s.EffectMask & unitEffectMask(spell)
		if mask == 0 {
			slog.Warn("saved aura skipped", "unit", unitID, "spell", s.SpellID, "error", ErrNoEffects)
			continue
		}
		casterID := s.CasterID
		if casterID == 0 {
			casterID = unitID
		}
		if _, dup := m.unitState(unitID).owned[ownedKey(spell, casterID, s.CastItemID)]; dup {
			slog.Warn("saved aura skipped, already owned", "unit", unitID, "spell", s.SpellID)
			continue
		}

		base := s.BaseAmounts
		a := m.createAura(spell, KindUnit, unitID, nil, casterID, s.CastItemID, mask, &base)
		if a.IsRemoved() {
			continue
		}
		m.setLoadedState(a, s)
		m.updateTargetMap(a, true)
		n++
	}
	return n, nil
}

// setLoadedState overwrites the freshly computed state with saved values.
func (m *Manager) setLoadedState(a *Aura, s SavedAura) {
	a.maxDuration = s.MaxDuration
	a.duration = s.Duration
	a.procCharges = min(s.Charges, m.calcMaxCharges(a))
	a.usingCharges = a.procCharges != 0
	a.stackAmount = min(max(s.StackAmount, 1), max(a.spell.StackAmount, 1))
	for i, eff := range a.effects {
		if eff == nil {
			continue
		}
		eff.amount = s.Amounts[i]
		eff.canRecalculate = s.RecalculateMask&(1<<i) != 0
		m.calculatePeriodic(eff, false, true)
		if eff.canRecalculate {
			eff.amount = m.calculateAmount(eff)
		}
	}
}
