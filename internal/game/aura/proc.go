package aura

import (
	"github.com/udisondev/auracore/internal/condition"
	"github.com/udisondev/auracore/internal/data"
	"github.com/udisondev/auracore/internal/model"
)

// DamageInfo describes the damage or healing carried by a combat event.
type DamageInfo struct {
	AttackType model.AttackType
	Amount     int32
}

// CombatEvent is a combat action reported to the proc engine.
type CombatEvent struct {
	ActorID    uint32
	TargetID   uint32 // 0 when the action has no target
	ActorMask  data.ProcFlag
	TargetMask data.ProcFlag
	SpellType  data.ProcSpellType
	Phase      data.ProcSpellPhase
	Hit        data.ProcHit
	SchoolMask uint32

	// Spell is nil for auto attacks.
	Spell       *data.SpellInfo
	Triggered   bool
	TriggeredBy *Aura
	CastItemID  uint32
	Damage      *DamageInfo
	// SpellMods lists auras whose spell modifiers changed Spell.
	SpellMods []ID
}

// ProcEvent is a CombatEvent as seen by the auras of one side.
type ProcEvent struct {
	*CombatEvent
	TypeMask     data.ProcFlag
	Actor        *model.Unit
	ActionTarget *model.Unit
	// ProcTarget is the other side of the event relative to the aura holder.
	ProcTarget *model.Unit
}

func (ev *ProcEvent) trigger() data.ProcTrigger {
	return data.ProcTrigger{
		TypeMask:   ev.TypeMask,
		SpellType:  ev.SpellType,
		Phase:      ev.Phase,
		Hit:        ev.Hit,
		SchoolMask: ev.SchoolMask,
		Spell:      ev.Spell,
		Triggered:  ev.Triggered,
	}
}

func (ev *ProcEvent) hasSpellMod(id ID) bool {
	for _, mod := range ev.SpellMods {
		if mod == id {
			return true
		}
	}
	return false
}

type procCandidate struct {
	mask uint8
	app  *Application
}

// ProcessCombatEvent evaluates the auras of both sides of an event.
// Actor auras are collected and prepared first, target auras next; then
// actor procs trigger, then target procs.
func (m *Manager) ProcessCombatEvent(ce CombatEvent) {
	m.enter()
	defer m.leave()

	actor := m.unit(ce.ActorID)
	target := m.unit(ce.TargetID)

	var mine, theirs []procCandidate
	var myEv, theirEv *ProcEvent
	if ce.ActorMask != 0 && actor != nil {
		myEv = &ProcEvent{CombatEvent: &ce, TypeMask: ce.ActorMask, Actor: actor, ActionTarget: target, ProcTarget: target}
		mine = m.collectProcs(actor.ObjectID(), myEv)
	}
	if ce.TargetMask != 0 && target != nil {
		theirEv = &ProcEvent{CombatEvent: &ce, TypeMask: ce.TargetMask, Actor: actor, ActionTarget: target, ProcTarget: actor}
		theirs = m.collectProcs(target.ObjectID(), theirEv)
	}

	for _, c := range mine {
		m.triggerProc(c, myEv)
	}
	for _, c := range theirs {
		m.triggerProc(c, theirEv)
	}
}

// collectProcs checks, rolls and prepares every binding on the unit.
func (m *Manager) collectProcs(unitID uint32, ev *ProcEvent) []procCandidate {
	ua, ok := m.units[unitID]
	if !ok {
		return nil
	}
	var out []procCandidate
	for _, app := range ua.appliedSorted() {
		if app.removeMode != RemoveNone || app.aura.IsRemoved() {
			continue
		}
		mask := m.procEffectMask(app, ev)
		if mask == 0 {
			continue
		}
		m.prepareProc(app, ev)
		out = append(out, procCandidate{mask: mask, app: app})
	}
	return out
}

// procEffectMask runs the ordered proc gate and the chance roll.
func (m *Manager) procEffectMask(app *Application, ev *ProcEvent) uint8 {
	a := app.aura
	entry := m.spells.ProcEntry(a.spell.ID)
	if entry == nil {
		return 0
	}

	if ev.Spell != nil {
		if ev.TriggeredBy == a {
			return 0
		}
		if ev.Triggered && !ev.Spell.HasAttr(data.AttrNotAProc) &&
			!a.spell.HasAttr(data.AttrCanProcFromProcs) &&
			!entry.HasAttr(data.ProcAttrTriggeredCanProc) &&
			ev.TypeMask&data.AutoAttackProcMask == 0 {
			return 0
		}
		if ev.CastItemID != 0 && entry.HasAttr(data.ProcAttrCantProcFromItemCast) {
			return 0
		}
	}

	if a.spell.HasAura(data.AuraModStealth) && ev.Spell != nil && ev.Spell.HasAttr(data.AttrDontBreakStealth) {
		return 0
	}

	if a.usingCharges {
		if a.procCharges == 0 {
			return 0
		}
		if entry.HasAttr(data.ProcAttrReqSpellMod) && ev.Spell != nil && !ev.hasSpellMod(a.id) {
			return 0
		}
	}

	if a.isProcOnCooldown(m.now) {
		return 0
	}

	if !entry.CanTrigger(ev.trigger()) {
		return 0
	}

	if conds := m.spells.ProcConditions(a.spell.ID); len(conds) > 0 {
		if !m.conds.Meets(conds, condition.Source{Target: ev.Actor, Invoker: ev.ActionTarget}) {
			return 0
		}
	}

	if !m.hookCheckProc(app, ev) {
		return 0
	}

	mask := app.EffectMask()
	for i := uint8(0); i < data.MaxEffects; i++ {
		if mask&(1<<i) == 0 {
			continue
		}
		if entry.DisableEffectMask&(1<<i) != 0 || !m.checkEffectProc(a.effects[i], app, ev) {
			mask &^= 1 << i
		}
	}
	if mask == 0 {
		return 0
	}

	if !m.equipmentAllowsProc(app, ev) {
		return 0
	}

	if !m.roller.Chance(m.procChance(a, entry, ev)) {
		return 0
	}
	return mask
}

// checkEffectProc is the per-effect proc filter.
func (m *Manager) checkEffectProc(eff *Effect, app *Application, ev *ProcEvent) bool {
	if !m.hookCheckEffectProc(eff, app, ev) {
		return false
	}
	a := eff.aura
	switch eff.info.AuraType {
	case data.AuraModStun, data.AuraModRoot:
		if ev.Damage == nil || ev.Damage.Amount == 0 {
			return false
		}
		// The spell's own hit does not break it.
		if ev.Spell == a.spell && a.duration == a.maxDuration {
			return false
		}
	case data.AuraMechanicImmunity:
		if ev.Spell == nil || int32(ev.Spell.Mechanic) != eff.info.MiscValue {
			return false
		}
	case data.AuraProcTriggerSpell:
		if eff.info.TriggerSpell == 0 {
			return false
		}
	}
	return true
}

// equipmentAllowsProc checks the item required by passive equipment-gated auras.
func (m *Manager) equipmentAllowsProc(app *Application, ev *ProcEvent) bool {
	a := app.aura
	spell := a.spell
	if !a.IsPassive() || spell.EquippedItemClass == model.ItemClassNone || spell.HasAttr(data.AttrIgnoreProcSubclassMask) {
		return true
	}
	holder := m.unit(app.targetID)
	if holder == nil || !holder.IsPlayer() {
		return true
	}

	var item *model.Item
	switch spell.EquippedItemClass {
	case model.ItemClassWeapon:
		if holder.Form().IsFeral() {
			return false
		}
		if ev.Damage != nil {
			item = holder.WeaponForAttack(ev.Damage.AttackType)
		}
	case model.ItemClassArmor:
		item = holder.UsableShield()
	}
	return item != nil && !item.Broken && item.FitsMask(spell.EquippedItemClass, spell.EquippedItemSubClassMask)
}

// procChance returns the success chance in percent.
func (m *Manager) procChance(a *Aura, entry *data.ProcEntry, ev *ProcEvent) float64 {
	chance := entry.Chance
	if caster := m.casterOf(a); caster != nil {
		if ev.Damage != nil && entry.ProcsPerMinute != 0 {
			speed := caster.AttackTime(ev.Damage.AttackType)
			chance = ppmChance(speed, entry.ProcsPerMinute)
		}
		chance = m.applySpellMod(caster.ObjectID(), a.spell, data.SpellModChanceOfSuccess, chance)
	}
	if entry.HasAttr(data.ProcAttrReduceProcAboveLevel) && ev.Actor != nil {
		chance = levelPenalty(chance, ev.Actor.Level(), m.cfg.ProcLevelPenaltyThreshold, m.cfg.ProcLevelPenaltyRange)
	}
	return chance
}

// ppmChance converts procs per minute into a per-swing chance.
func ppmChance(weaponSpeedMs int32, ppm float64) float64 {
	if ppm <= 0 {
		return 0
	}
	return float64(weaponSpeedMs) * ppm / 600
}

// levelPenalty reduces chance for each level above threshold.
func levelPenalty(chance float64, level, threshold, span int32) float64 {
	if level <= threshold || span <= 0 {
		return chance
	}
	return max(0, (1-float64(level-threshold)/float64(span))*chance)
}

// prepareProc consumes a charge and stamps the cooldown. A script that
// prevents the default action skips both; the proc still triggers.
func (m *Manager) prepareProc(app *Application, ev *ProcEvent) {
	if m.hookProc(app.aura.hooks.prepareProc, app, ev) {
		return
	}
	a := app.aura
	entry := m.spells.ProcEntry(a.spell.ID)

	if !entry.HasAttr(data.ProcAttrUseStacksForCharges) && a.usingCharges &&
		(ev.Spell == nil || !ev.Spell.HasAttr(data.AttrDontConsumeProcCharges)) {
		a.procCharges--
		m.markAuraUpdate(a)
	}
	a.procCooldown = m.now + entry.Cooldown.Milliseconds()
}

// triggerProc runs effect proc handlers, then settles charges.
func (m *Manager) triggerProc(c procCandidate, ev *ProcEvent) {
	app := c.app
	a := app.aura
	if app.removeMode != RemoveNone || a.IsRemoved() {
		return
	}
	m.metrics.procTriggered(a.spell.ID)

	if !m.hookProc(a.hooks.proc, app, ev) {
		for i := uint8(0); i < data.MaxEffects; i++ {
			if c.mask&(1<<i) == 0 || !app.HasEffect(i) {
				continue
			}
			m.handleEffectProc(a.effects[i], app, ev)
			if app.removeMode != RemoveNone || a.IsRemoved() {
				break
			}
		}
		m.hookProc(a.hooks.afterProc, app, ev)
	}

	if a.IsRemoved() {
		return
	}
	entry := m.spells.ProcEntry(a.spell.ID)
	switch {
	case entry != nil && entry.HasAttr(data.ProcAttrUseStacksForCharges):
		m.modStackAmount(a, -1, RemoveDefault, true)
	case a.usingCharges && a.procCharges == 0:
		m.removeAura(a, RemoveDefault)
	}
}

func (m *Manager) handleEffectProc(eff *Effect, app *Application, ev *ProcEvent) {
	hooks := eff.aura.hooks
	if m.hookEffectProc(hooks.effectProc, eff, app, ev) {
		return
	}
	if h, ok := handlers[eff.info.AuraType].(ProcHandler); ok {
		if hc := m.handlerContext(eff, app, HandleReal); hc != nil {
			h.HandleProc(hc, ev)
		}
	}
	m.hookEffectProc(hooks.afterEffectProc, eff, app, ev)
}
