package aura

import (
	"github.com/udisondev/auracore/internal/data"
)

func init() {
	RegisterHandler(data.AuraAddFlatModifier, spellModHandler{name: "add_flat_modifier"})
	RegisterHandler(data.AuraAddPctModifier, spellModHandler{name: "add_pct_modifier"})
}

// spellModHandler registers the effect as a spell modifier of the target.
// MiscValue: data.SpellModOp, ClassMask is affected spells of the aura family.
type spellModHandler struct {
	name string
}

func (h spellModHandler) Name() string { return h.name }

func (h spellModHandler) HandleEffect(hc *HandlerContext, apply bool) {
	ua := hc.m.unitState(hc.Target.ObjectID())
	if apply {
		ua.spellMods[hc.Effect] = struct{}{}
	} else {
		delete(ua.spellMods, hc.Effect)
	}
}

// applySpellMod returns value changed by the modifiers the unit has for spell:
// flat modifiers are summed first, then percent modifiers multiply.
func (m *Manager) applySpellMod(unitID uint32, spell *data.SpellInfo, op data.SpellModOp, value float64) float64 {
	ua, ok := m.units[unitID]
	if !ok || len(ua.spellMods) == 0 {
		return value
	}

	var flat float64
	pct := 1.0
	for _, eff := range ua.spellModsSorted() {
		info := eff.info
		if data.SpellModOp(info.MiscValue) != op {
			continue
		}
		if !spell.IsAffected(eff.aura.spell.Family, info.ClassMask) {
			continue
		}
		switch info.AuraType {
		case data.AuraAddFlatModifier:
			flat += float64(eff.amount)
		case data.AuraAddPctModifier:
			pct *= 1 + float64(eff.amount)/100
		}
	}
	return (value + flat) * pct
}
