package aura

import (
	"github.com/udisondev/auracore/internal/data"
	"github.com/udisondev/auracore/internal/model"
)

// defaultAmplitude is used by periodic effects without an amplitude.
const defaultAmplitude = 1000

// Effect is one effect slot of an aura (see SpellInfo.Effects).
type Effect struct {
	aura  *Aura
	info  *data.SpellEffectInfo
	index uint8

	baseAmount     int32
	amount         int32
	canRecalculate bool

	periodic      bool
	amplitude     int32
	periodicTimer int32 // ms until the next tick
	tickNumber    uint32
}

// Aura returns the parent aura.
func (e *Effect) Aura() *Aura { return e.aura }

// Index returns the effect slot.
func (e *Effect) Index() uint8 { return e.index }

// Info returns the static effect definition.
func (e *Effect) Info() *data.SpellEffectInfo { return e.info }

// AuraType returns the handler type.
func (e *Effect) AuraType() data.AuraType { return e.info.AuraType }

// Amount returns the current magnitude.
func (e *Effect) Amount() int32 { return e.amount }

// BaseAmount returns the magnitude before stacking and hooks.
func (e *Effect) BaseAmount() int32 { return e.baseAmount }

// CanBeRecalculated reports whether stack changes recompute the amount.
func (e *Effect) CanBeRecalculated() bool { return e.canRecalculate }

// IsPeriodic reports ticking effects.
func (e *Effect) IsPeriodic() bool { return e.periodic }

// Amplitude returns the tick period in ms.
func (e *Effect) Amplitude() int32 { return e.amplitude }

// PeriodicTimer returns ms until the next tick.
func (e *Effect) PeriodicTimer() int32 { return e.periodicTimer }

// TickNumber returns ticks done since the last timer reset.
func (e *Effect) TickNumber() uint32 { return e.tickNumber }

// TotalTicks returns the number of ticks over the full duration.
func (e *Effect) TotalTicks() uint32 {
	if e.amplitude <= 0 || e.aura.maxDuration <= 0 {
		return 0
	}
	return uint32(e.aura.maxDuration / e.amplitude)
}

func (m *Manager) newEffect(a *Aura, info *data.SpellEffectInfo, baseAmount *int32) *Effect {
	eff := &Effect{
		aura:           a,
		info:           info,
		index:          info.Index,
		baseAmount:     info.BasePoints,
		canRecalculate: true,
	}
	if baseAmount != nil {
		eff.baseAmount = *baseAmount
	}
	eff.amount = m.calculateAmount(eff)
	m.calculatePeriodic(eff, true, false)
	return eff
}

// calculateAmount returns the hooked base amount multiplied by the stack.
func (m *Manager) calculateAmount(eff *Effect) int32 {
	amount := eff.baseAmount
	m.hookCalcAmount(eff, &amount, &eff.canRecalculate)
	stack := int32(eff.aura.stackAmount)
	if stack < 1 {
		stack = 1
	}
	return amount * stack
}

// calculatePeriodic resolves the tick period. On load the timer continues
// from the elapsed part of the duration.
func (m *Manager) calculatePeriodic(eff *Effect, resetTimer, load bool) {
	eff.amplitude = eff.info.Amplitude
	eff.periodic = eff.info.AuraType.IsPeriodicOverTime()
	m.hookCalcPeriodic(eff, &eff.periodic, &eff.amplitude)
	if !eff.periodic {
		return
	}
	if eff.amplitude <= 0 {
		eff.amplitude = defaultAmplitude
	}

	a := eff.aura
	if load && a.maxDuration > 0 {
		elapsed := a.maxDuration - a.duration
		if elapsed > 0 {
			eff.tickNumber = uint32(elapsed / eff.amplitude)
			eff.periodicTimer = eff.amplitude - elapsed%eff.amplitude
			return
		}
	}
	if resetTimer {
		eff.periodicTimer = eff.amplitude
		eff.tickNumber = 0
	}
}

// changeAmount re-applies the effect on every target with a new amount.
func (m *Manager) changeAmount(eff *Effect, amount int32) {
	var apps []*Application
	for _, app := range eff.aura.Applications() {
		if app.HasEffect(eff.index) {
			apps = append(apps, app)
		}
	}
	for _, app := range apps {
		m.handleEffectReal(eff, app, false, HandleChangeAmount)
	}
	eff.amount = amount
	for _, app := range apps {
		if app.removeMode == RemoveNone {
			m.handleEffectReal(eff, app, true, HandleChangeAmount)
		}
	}
	m.markAuraUpdate(eff.aura)
}

// recalculateAmounts recomputes every recalculable effect.
func (m *Manager) recalculateAmounts(a *Aura) {
	for _, eff := range a.effects {
		if eff != nil && eff.canRecalculate {
			m.changeAmount(eff, m.calculateAmount(eff))
		}
	}
}

// handleEffectReal runs hooks and the type handler for one target.
func (m *Manager) handleEffectReal(eff *Effect, app *Application, apply bool, mode HandleMode) {
	hooks := eff.aura.hooks
	var prevented bool
	if apply {
		prevented = m.hookEffectApply(hooks.effectApply, eff, app, mode)
	} else {
		prevented = m.hookEffectApply(hooks.effectRemove, eff, app, mode)
	}

	if !prevented {
		if hc := m.handlerContext(eff, app, mode); hc != nil {
			if h, ok := handlers[eff.info.AuraType]; ok {
				h.HandleEffect(hc, apply)
			}
		}
	}

	if apply {
		m.hookEffectApply(hooks.afterEffectApply, eff, app, mode)
	} else {
		m.hookEffectApply(hooks.afterEffectRemove, eff, app, mode)
	}
}

// updateEffect advances the periodic timer and ticks on every target.
func (m *Manager) updateEffect(eff *Effect, diff int32) {
	a := eff.aura
	if !eff.periodic || a.IsRemoved() {
		return
	}
	if a.duration < 0 && !a.IsPassive() && !a.IsPermanent() {
		return
	}

	remaining := diff
	for eff.periodicTimer <= remaining {
		if !a.IsPermanent() && eff.tickNumber >= eff.TotalTicks() {
			eff.periodicTimer = 0
			return
		}
		remaining -= eff.periodicTimer
		eff.periodicTimer = eff.amplitude
		eff.tickNumber++
		m.periodicTick(eff)
		if a.IsRemoved() {
			return
		}
	}
	eff.periodicTimer -= remaining
}

func (m *Manager) periodicTick(eff *Effect) {
	for _, app := range eff.aura.Applications() {
		if app.removeMode != RemoveNone || !app.HasEffect(eff.index) {
			continue
		}
		if m.hookEffectPeriodic(eff, app) {
			continue
		}
		h, ok := handlers[eff.info.AuraType].(PeriodicHandler)
		if !ok {
			continue
		}
		if hc := m.handlerContext(eff, app, HandleReal); hc != nil {
			h.HandlePeriodic(hc)
		}
	}
}

// resetPeriodic restarts every periodic timer of the aura.
func (m *Manager) resetPeriodic(a *Aura) {
	for _, eff := range a.effects {
		if eff != nil {
			m.calculatePeriodic(eff, true, false)
		}
	}
}

// HandlerContext is what an effect handler works with.
type HandlerContext struct {
	m      *Manager
	Effect *Effect
	App    *Application
	Target *model.Unit
	Caster *model.Unit // nil when the caster left the world
	Mode   HandleMode
}

// Manager returns the owning manager.
func (hc *HandlerContext) Manager() *Manager { return hc.m }

// Aura returns the parent aura.
func (hc *HandlerContext) Aura() *Aura { return hc.Effect.aura }

func (m *Manager) handlerContext(eff *Effect, app *Application, mode HandleMode) *HandlerContext {
	target := m.unit(app.targetID)
	if target == nil {
		return nil
	}
	return &HandlerContext{
		m:      m,
		Effect: eff,
		App:    app,
		Target: target,
		Caster: m.casterOf(eff.aura),
		Mode:   mode,
	}
}

// EffectHandler applies and removes one aura type on a target.
type EffectHandler interface {
	Name() string
	HandleEffect(hc *HandlerContext, apply bool)
}

// PeriodicHandler is implemented by handlers of ticking aura types.
type PeriodicHandler interface {
	HandlePeriodic(hc *HandlerContext)
}

// ProcHandler is implemented by handlers reacting to procs.
type ProcHandler interface {
	HandleProc(hc *HandlerContext, ev *ProcEvent)
}

// handlers maps aura type → handler.
// Populated by init() functions in handler files.
var handlers = map[data.AuraType]EffectHandler{}

// RegisterHandler registers the handler of an aura type.
func RegisterHandler(t data.AuraType, h EffectHandler) {
	handlers[t] = h
}
