// Package aura implements spell-originated status effects: their lifetime,
// stacking, target resolution, visible slots, proc triggering and script hooks.
//
// All state is owned by a Manager and mutated from a single goroutine
// (the simulation loop). Units and auras live in id-keyed arenas; auras
// refer to their owner, caster and targets by object id.
package aura

import (
	"github.com/udisondev/auracore/internal/data"
	"github.com/udisondev/auracore/internal/model"
)

// ID identifies a live aura inside its Manager.
type ID uint64

// Key is the identity of an aura on its owner.
type Key struct {
	SpellID    uint32
	CasterID   uint32
	CastItemID uint32
}

// Kind tells what owns the aura.
type Kind uint8

const (
	// KindUnit auras are owned by a unit.
	KindUnit Kind = iota
	// KindDynObj auras are owned by a ground area object.
	KindDynObj
)

// Aura is one instance of a spell effect. It is owned by a unit or a dynamic
// object and may be applied to several targets (see Application).
type Aura struct {
	id      ID
	spell   *data.SpellInfo
	key     Key // cast item normalised, see ownedKey
	ownerID uint32 // unit id, or dynamic object id for KindDynObj
	kind    Kind
	dyn     *DynamicObject

	castItemID  uint32
	casterLevel int32

	maxDuration int32
	duration    int32

	resourceTimer  int32 // ms until the next resource drain, 0 when none
	targetMapTimer int32

	procCharges  uint8
	usingCharges bool
	stackAmount  uint8
	procCooldown int64 // simulation ms

	effects      [data.MaxEffects]*Effect
	applications map[uint32]*Application
	removedApps  []*Application

	removed      bool
	removeQueued bool
	dropEvent    *task

	hooks *HookSet
}

// ID returns the arena id.
func (a *Aura) ID() ID { return a.id }

// Spell returns the immutable spell template.
func (a *Aura) Spell() *data.SpellInfo { return a.spell }

// SpellID returns the spell id.
func (a *Aura) SpellID() uint32 { return a.spell.ID }

// Key returns the owner-scoped identity.
func (a *Aura) Key() Key { return a.key }

// CasterID returns the object id of the caster.
func (a *Aura) CasterID() uint32 { return a.key.CasterID }

// CastItemID returns the item the aura was cast from, or 0.
func (a *Aura) CastItemID() uint32 { return a.castItemID }

// OwnerID returns the unit or dynamic object owning the aura.
func (a *Aura) OwnerID() uint32 { return a.ownerID }

// Kind reports whether the aura is owned by a unit or a dynamic object.
func (a *Aura) Kind() Kind { return a.kind }

// DynamicObject returns the owning ground object of a KindDynObj aura.
func (a *Aura) DynamicObject() *DynamicObject { return a.dyn }

// CasterLevel returns the level of the caster at cast time.
func (a *Aura) CasterLevel() int32 { return a.casterLevel }

// Duration returns the remaining duration in ms, -1 for permanent auras.
func (a *Aura) Duration() int32 { return a.duration }

// MaxDuration returns the full duration in ms, -1 for permanent auras.
func (a *Aura) MaxDuration() int32 { return a.maxDuration }

// IsPermanent reports auras without duration.
func (a *Aura) IsPermanent() bool { return a.maxDuration == -1 }

// IsExpired reports a finished duration with no delayed charge drop pending.
func (a *Aura) IsExpired() bool { return a.duration == 0 && a.dropEvent == nil }

// Charges returns the remaining proc charges.
func (a *Aura) Charges() uint8 { return a.procCharges }

// IsUsingCharges reports charge-limited auras.
func (a *Aura) IsUsingCharges() bool { return a.usingCharges }

// StackAmount returns the current stack count.
func (a *Aura) StackAmount() uint8 { return a.stackAmount }

// IsRemoved reports removed auras and auras queued for removal.
func (a *Aura) IsRemoved() bool { return a.removed || a.removeQueued }

// IsPassive reports auras of passive spells.
func (a *Aura) IsPassive() bool { return a.spell.IsPassive() }

// Effect returns the effect slot i or nil.
func (a *Aura) Effect(i uint8) *Effect {
	if int(i) >= data.MaxEffects {
		return nil
	}
	return a.effects[i]
}

// HasEffect reports whether slot i is present.
func (a *Aura) HasEffect(i uint8) bool { return a.Effect(i) != nil }

// EffectMask returns the bits of present effect slots.
func (a *Aura) EffectMask() uint8 {
	var mask uint8
	for i, eff := range a.effects {
		if eff != nil {
			mask |= 1 << i
		}
	}
	return mask
}

// HasEffectType reports a present effect of the given aura type.
func (a *Aura) HasEffectType(t data.AuraType) bool {
	for _, eff := range a.effects {
		if eff != nil && eff.info.AuraType == t {
			return true
		}
	}
	return false
}

// hasMoreThanOneEffectForType counts present effects of one type.
func (a *Aura) hasMoreThanOneEffectForType(t data.AuraType) bool {
	n := 0
	for _, eff := range a.effects {
		if eff != nil && eff.info.AuraType == t {
			n++
		}
	}
	return n > 1
}

// IsArea reports auras with a present unit-centred area effect.
func (a *Aura) IsArea() bool {
	for _, eff := range a.effects {
		if eff != nil && eff.info.IsAreaAuraEffect() {
			return true
		}
	}
	return false
}

// Application returns the binding to the given target or nil.
func (a *Aura) Application(targetID uint32) *Application {
	return a.applications[targetID]
}

// Applications returns live bindings ordered by target id.
func (a *Aura) Applications() []*Application {
	apps := make([]*Application, 0, len(a.applications))
	for _, app := range a.applications {
		apps = append(apps, app)
	}
	sortApplications(apps)
	return apps
}

// canBeSentToClient reports auras that occupy a visible slot.
func (a *Aura) canBeSentToClient() bool {
	return !a.IsPassive() || a.spell.HasAreaAuraEffect()
}

// sendsAmounts reports auras whose effect amounts are part of the client state.
func (a *Aura) sendsAmounts() bool {
	return a.HasEffectType(data.AuraAddFlatModifier) || a.HasEffectType(data.AuraAddPctModifier)
}

// isProcOnCooldown reports whether procs are blocked at simulation time now.
func (a *Aura) isProcOnCooldown(now int64) bool {
	return a.procCooldown > now
}

// ownerUnitID returns the owning unit id, or 0 for dynamic object auras.
func (a *Aura) ownerUnitID() uint32 {
	if a.kind == KindUnit {
		return a.ownerID
	}
	return 0
}

// isLimitedTargetWith reports auras a single-target caster may keep only one of.
func (a *Aura) isLimitedTargetWith(o *Aura) bool {
	if a.spell.IsRankOf(o.spell) {
		return true
	}
	if a.spell.Specific == data.SpecificJudgement && o.spell.Specific == data.SpecificJudgement {
		return true
	}
	return a.HasEffectType(data.AuraControlVehicle) && o.HasEffectType(data.AuraControlVehicle)
}

// DynamicObject is a ground object that owns an area aura.
type DynamicObject struct {
	ID       uint32
	CasterID uint32
	SpellID  uint32
	Location model.Location
	Radius   float64
}

// overlaps reports intersecting circles.
func (d *DynamicObject) overlaps(loc model.Location, radius float64) bool {
	return d.Location.WithinRadius(loc, d.Radius+radius)
}
