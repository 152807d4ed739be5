package aura

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/udisondev/auracore/internal/data"
)

// NoSlot marks an application without a visible slot.
const NoSlot uint8 = 0xFF

// AppFlag are the client-visible flags of an application.
type AppFlag uint8

const (
	AppFlagEffect0     AppFlag = 0x01
	AppFlagEffect1     AppFlag = 0x02
	AppFlagEffect2     AppFlag = 0x04
	AppFlagNoCaster    AppFlag = 0x08 // self-cast, caster id is not sent
	AppFlagPositive    AppFlag = 0x10
	AppFlagDuration    AppFlag = 0x20
	AppFlagAmountsSent AppFlag = 0x40
	AppFlagNegative    AppFlag = 0x80

	appFlagEffectMask = AppFlagEffect0 | AppFlagEffect1 | AppFlagEffect2
)

// RemoveMode is the reason an aura or application goes away.
type RemoveMode uint8

const (
	RemoveNone RemoveMode = iota
	RemoveDefault
	RemoveInterrupt
	RemoveCancel
	RemoveEnemySpell
	RemoveExpire
	RemoveDeath
)

func (m RemoveMode) String() string {
	switch m {
	case RemoveNone:
		return "none"
	case RemoveDefault:
		return "default"
	case RemoveInterrupt:
		return "interrupt"
	case RemoveCancel:
		return "cancel"
	case RemoveEnemySpell:
		return "enemy_spell"
	case RemoveExpire:
		return "expire"
	case RemoveDeath:
		return "death"
	}
	return fmt.Sprintf("remove_mode(%d)", uint8(m))
}

// Application binds an aura to one target.
type Application struct {
	aura     *Aura
	targetID uint32

	slot           uint8
	flags          AppFlag
	effectsToApply uint8
	removeMode     RemoveMode
	needUpdate     bool
}

// Aura returns the bound aura.
func (app *Application) Aura() *Aura { return app.aura }

// TargetID returns the bound unit.
func (app *Application) TargetID() uint32 { return app.targetID }

// Slot returns the visible slot or NoSlot.
func (app *Application) Slot() uint8 { return app.slot }

// Flags returns the application flags.
func (app *Application) Flags() AppFlag { return app.flags }

// EffectMask returns the effects currently applied on the target.
func (app *Application) EffectMask() uint8 { return uint8(app.flags & appFlagEffectMask) }

// HasEffect reports whether effect i is applied on the target.
func (app *Application) HasEffect(i uint8) bool { return app.EffectMask()&(1<<i) != 0 }

// EffectsToApply returns the effects resolved for this target.
func (app *Application) EffectsToApply() uint8 { return app.effectsToApply }

// RemoveMode returns the pending removal reason, RemoveNone while live.
func (app *Application) RemoveMode() RemoveMode { return app.removeMode }

// IsPositive reports beneficial bindings.
func (app *Application) IsPositive() bool { return app.flags&AppFlagPositive != 0 }

// IsSelfCast reports bindings whose caster is the target.
func (app *Application) IsSelfCast() bool { return app.flags&AppFlagNoCaster != 0 }

// newApplication binds a to the target and picks its visible slot.
func (m *Manager) newApplication(a *Aura, targetID uint32, effMask uint8) *Application {
	app := &Application{
		aura:           a,
		targetID:       targetID,
		slot:           NoSlot,
		effectsToApply: effMask,
	}
	ua := m.unitState(targetID)

	if a.canBeSentToClient() {
		slot := NoSlot
		if found := ua.applicationByKey(a.key); found != nil && found.slot != NoSlot {
			// Same identity shares one slot.
			slot = found.slot
		} else {
			for free := 0; free < m.cfg.VisibleSlots; free++ {
				if _, taken := ua.visible[uint8(free)]; !taken {
					slot = uint8(free)
					break
				}
			}
		}
		if slot != NoSlot {
			app.slot = slot
			ua.visible[slot] = app
			m.markUpdate(app)
		} else {
			slog.Debug("no free visible aura slot", "spell", a.spell.ID, "target", targetID)
		}
	}

	m.initFlags(app, effMask)
	return app
}

func (m *Manager) initFlags(app *Application, effMask uint8) {
	a := app.aura
	if a.key.CasterID == app.targetID {
		app.flags |= AppFlagNoCaster
	}

	caster, _ := m.world.Unit(a.key.CasterID)
	target, _ := m.world.Unit(app.targetID)

	hostile := caster == nil || target == nil || !caster.IsFriendlyTo(target)
	if app.IsSelfCast() || hostile {
		// One negative effect makes the aura negative.
		negative := false
		for i := uint8(0); i < data.MaxEffects; i++ {
			if effMask&(1<<i) != 0 && !a.spell.IsPositiveEffect(i) {
				negative = true
				break
			}
		}
		if negative {
			app.flags |= AppFlagNegative
		} else {
			app.flags |= AppFlagPositive
		}
	} else {
		positive := false
		for i := uint8(0); i < data.MaxEffects; i++ {
			if effMask&(1<<i) != 0 && a.spell.IsPositiveEffect(i) {
				positive = true
				break
			}
		}
		if positive {
			app.flags |= AppFlagPositive
		} else {
			app.flags |= AppFlagNegative
		}
	}

	if a.sendsAmounts() {
		app.flags |= AppFlagAmountsSent
	}
}

// releaseSlot frees the visible slot or hands it to another binding of the same identity.
func (m *Manager) releaseSlot(app *Application) {
	slot := app.slot
	if slot == NoSlot {
		return
	}
	ua := m.unitState(app.targetID)

	if found := ua.applicationByKey(app.aura.key); found != nil && found != app && found.slot == slot {
		if ua.visible[slot] == app {
			ua.visible[slot] = found
			m.markUpdate(found)
		}
		return
	}

	if ua.visible[slot] == app {
		delete(ua.visible, slot)
		ua.pending = append(ua.pending, State{Slot: slot, Removed: true})
		m.dirty[app.targetID] = struct{}{}
	}
}

// handleEffect applies or removes one effect on the target.
// Double application or removal is a programming error.
func (m *Manager) handleEffect(app *Application, i uint8, apply bool) {
	eff := app.aura.effects[i]
	if eff == nil {
		panic(fmt.Sprintf("aura %d: effect %d does not exist", app.aura.spell.ID, i))
	}
	if app.HasEffect(i) == apply {
		panic(fmt.Sprintf("aura %d: effect %d on unit %d already in state apply=%t",
			app.aura.spell.ID, i, app.targetID, apply))
	}
	if app.effectsToApply&(1<<i) == 0 {
		panic(fmt.Sprintf("aura %d: effect %d not resolved for unit %d", app.aura.spell.ID, i, app.targetID))
	}

	if apply {
		app.flags |= AppFlag(1 << i)
	} else {
		app.flags &^= AppFlag(1 << i)
	}
	m.handleEffectReal(eff, app, apply, HandleReal)
	m.markUpdate(app)
}

func sortApplications(apps []*Application) {
	sort.Slice(apps, func(i, j int) bool {
		if apps[i].targetID != apps[j].targetID {
			return apps[i].targetID < apps[j].targetID
		}
		return apps[i].aura.id < apps[j].aura.id
	})
}
