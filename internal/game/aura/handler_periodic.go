package aura

import (
	"log/slog"

	"github.com/udisondev/auracore/internal/data"
	"github.com/udisondev/auracore/internal/model"
)

func init() {
	RegisterHandler(data.AuraPeriodicDamage, periodicDamageHandler{})
	RegisterHandler(data.AuraPeriodicHeal, periodicHealHandler{})
	RegisterHandler(data.AuraPeriodicEnergize, periodicEnergizeHandler{})
	RegisterHandler(data.AuraPeriodicLeech, periodicLeechHandler{})
	RegisterHandler(data.AuraPeriodicDummy, periodicDummyHandler{})
	RegisterHandler(data.AuraPeriodicTriggerSpell, periodicTriggerHandler{})
	RegisterHandler(data.AuraProcTriggerSpell, procTriggerHandler{})
}

// periodicEvent reports a periodic tick to the proc engine.
func (m *Manager) periodicEvent(hc *HandlerContext, spellType data.ProcSpellType, amount int32) {
	if hc.Caster == nil {
		return
	}
	targetMask := data.ProcTakenPeriodic
	if spellType == data.ProcSpellTypeDamage && amount > 0 {
		targetMask |= data.ProcTakenDamage
	}
	a := hc.Aura()
	m.ProcessCombatEvent(CombatEvent{
		ActorID:     hc.Caster.ObjectID(),
		TargetID:    hc.Target.ObjectID(),
		ActorMask:   data.ProcDonePeriodic,
		TargetMask:  targetMask,
		SpellType:   spellType,
		Phase:       data.ProcPhaseHit,
		Hit:         data.ProcHitNormal,
		SchoolMask:  a.spell.SchoolMask,
		Spell:       a.spell,
		TriggeredBy: a,
		Damage:      &DamageInfo{AttackType: model.BaseAttack, Amount: amount},
	})
}

// unitKilled raises kill procs and strips the victim.
func (m *Manager) unitKilled(killer, victim *model.Unit) {
	ev := CombatEvent{
		TargetID:   victim.ObjectID(),
		TargetMask: data.ProcKilled | data.ProcDeath,
		Hit:        data.ProcHitNormal,
	}
	if killer != nil {
		ev.ActorID = killer.ObjectID()
		ev.ActorMask = data.ProcKill
	}
	m.ProcessCombatEvent(ev)
	m.RemoveAurasOnDeath(victim.ObjectID())
}

type periodicDamageHandler struct{}

func (periodicDamageHandler) Name() string                     { return "periodic_damage" }
func (periodicDamageHandler) HandleEffect(*HandlerContext, bool) {}

func (periodicDamageHandler) HandlePeriodic(hc *HandlerContext) {
	if hc.Caster == nil || !hc.Target.IsAlive() {
		return
	}
	if hc.Target.IsImmuneToSchool(hc.Aura().spell.SchoolMask) {
		return
	}
	amount := hc.Effect.amount
	if amount <= 0 {
		return
	}
	dealt := -hc.Target.ModifyHealth(-amount)
	hc.m.periodicEvent(hc, data.ProcSpellTypeDamage, dealt)
	if !hc.Target.IsAlive() {
		hc.m.unitKilled(hc.Caster, hc.Target)
	}
}

type periodicHealHandler struct{}

func (periodicHealHandler) Name() string                     { return "periodic_heal" }
func (periodicHealHandler) HandleEffect(*HandlerContext, bool) {}

func (periodicHealHandler) HandlePeriodic(hc *HandlerContext) {
	if !hc.Target.IsAlive() || hc.Effect.amount <= 0 {
		return
	}
	healed := hc.Target.ModifyHealth(hc.Effect.amount)
	hc.m.periodicEvent(hc, data.ProcSpellTypeHeal, healed)
}

// periodicEnergizeHandler: MiscValue is model.PowerType.
type periodicEnergizeHandler struct{}

func (periodicEnergizeHandler) Name() string                     { return "periodic_energize" }
func (periodicEnergizeHandler) HandleEffect(*HandlerContext, bool) {}

func (periodicEnergizeHandler) HandlePeriodic(hc *HandlerContext) {
	if !hc.Target.IsAlive() || hc.Effect.amount <= 0 {
		return
	}
	power := model.PowerType(hc.Effect.info.MiscValue)
	if hc.Target.MaxPower(power) == 0 {
		return
	}
	gained := hc.Target.ModifyPower(power, hc.Effect.amount)
	hc.m.periodicEvent(hc, data.ProcSpellTypeNoDmgHeal, gained)
}

// periodicLeechHandler moves health from the target to the caster.
type periodicLeechHandler struct{}

func (periodicLeechHandler) Name() string                     { return "periodic_leech" }
func (periodicLeechHandler) HandleEffect(*HandlerContext, bool) {}

func (periodicLeechHandler) HandlePeriodic(hc *HandlerContext) {
	if hc.Caster == nil || !hc.Caster.IsAlive() || !hc.Target.IsAlive() {
		return
	}
	if hc.Target.IsImmuneToSchool(hc.Aura().spell.SchoolMask) || hc.Effect.amount <= 0 {
		return
	}
	drained := -hc.Target.ModifyHealth(-hc.Effect.amount)
	hc.Caster.ModifyHealth(drained)
	hc.m.periodicEvent(hc, data.ProcSpellTypeDamage, drained)
	if !hc.Target.IsAlive() {
		hc.m.unitKilled(hc.Caster, hc.Target)
	}
}

// periodicDummyHandler has no default action; scripts hook EffectPeriodic.
type periodicDummyHandler struct{}

func (periodicDummyHandler) Name() string                     { return "periodic_dummy" }
func (periodicDummyHandler) HandleEffect(*HandlerContext, bool) {}
func (periodicDummyHandler) HandlePeriodic(*HandlerContext)     {}

// periodicTriggerHandler casts TriggerSpell every tick.
type periodicTriggerHandler struct{}

func (periodicTriggerHandler) Name() string                     { return "periodic_trigger_spell" }
func (periodicTriggerHandler) HandleEffect(*HandlerContext, bool) {}

func (periodicTriggerHandler) HandlePeriodic(hc *HandlerContext) {
	spellID := hc.Effect.info.TriggerSpell
	if spellID == 0 {
		return
	}
	caster := hc.Caster
	if caster == nil {
		caster = hc.Target
	}
	hc.m.castTriggered(caster, hc.Target, spellID, hc.Aura())
}

// procTriggerHandler casts TriggerSpell when the aura procs.
type procTriggerHandler struct{}

func (procTriggerHandler) Name() string                     { return "proc_trigger_spell" }
func (procTriggerHandler) HandleEffect(*HandlerContext, bool) {}

func (procTriggerHandler) HandleProc(hc *HandlerContext, ev *ProcEvent) {
	spellID := hc.Effect.info.TriggerSpell
	triggered := hc.m.spells.Spell(spellID)
	if triggered == nil {
		slog.Warn("proc trigger spell not found", "aura_spell", hc.Aura().spell.ID, "trigger", spellID)
		return
	}
	target := ev.ProcTarget
	if target == nil || triggered.IsPositive() {
		target = hc.Target
	}
	hc.m.castTriggered(hc.Target, target, spellID, hc.Aura())
}

// castTriggered hands a triggered spell to the SpellCaster, or applies its
// auras directly when none is configured.
func (m *Manager) castTriggered(caster, target *model.Unit, spellID uint32, by *Aura) {
	if m.caster != nil {
		m.caster.CastTriggered(caster, target, spellID, by)
		return
	}
	if caster == nil || target == nil {
		return
	}
	if _, _, err := m.TryRefreshStackOrCreate(CreateInfo{
		SpellID:  spellID,
		CasterID: caster.ObjectID(),
		OwnerID:  target.ObjectID(),
	}); err != nil {
		slog.Debug("triggered spell not applied", "spell", spellID, "by", by.spell.ID, "error", err)
	}
}
