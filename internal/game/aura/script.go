package aura

import (
	"log/slog"
	"sync"

	"github.com/udisondev/auracore/internal/data"
	"github.com/udisondev/auracore/internal/model"
)

// HandleMode tells an apply/remove hook why it runs.
type HandleMode uint8

const (
	// HandleReal is a real apply or removal of the effect on the target.
	HandleReal HandleMode = iota + 1
	// HandleChangeAmount re-applies the effect after its amount changed.
	HandleChangeAmount
)

// EffectAll matches every effect index in an EffectFilter.
const EffectAll int8 = -1

// EffectFilter restricts an effect hook to one effect index and/or aura type.
type EffectFilter struct {
	Index    int8          // EffectAll for any
	AuraType data.AuraType // data.AuraNone for any
}

// AnyEffect matches every effect.
var AnyEffect = EffectFilter{Index: EffectAll}

// OnEffect matches one effect index of any type.
func OnEffect(i uint8) EffectFilter { return EffectFilter{Index: int8(i)} }

func (f EffectFilter) matches(eff *Effect) bool {
	if f.Index != EffectAll && uint8(f.Index) != eff.index {
		return false
	}
	return f.AuraType == data.AuraNone || f.AuraType == eff.info.AuraType
}

// HookContext is passed to hooks that may suppress the default action.
type HookContext struct {
	Manager *Manager
	Aura    *Aura
	Effect  *Effect // nil for aura-level hooks
	App     *Application

	prevented bool
}

// PreventDefaultAction suppresses the built-in handler of this dispatch.
func (c *HookContext) PreventDefaultAction() { c.prevented = true }

// Hook signatures.
type (
	CheckAreaTargetFunc func(a *Aura, target *model.Unit) bool
	CalcAmountFunc      func(eff *Effect, amount *int32, canRecalculate *bool)
	CalcPeriodicFunc    func(eff *Effect, periodic *bool, amplitude *int32)
	EffectApplyFunc     func(ctx *HookContext, mode HandleMode)
	EffectPeriodicFunc  func(ctx *HookContext)
	CheckProcFunc       func(app *Application, ev *ProcEvent) bool
	ProcFunc            func(ctx *HookContext, ev *ProcEvent)
	CheckEffectProcFunc func(eff *Effect, app *Application, ev *ProcEvent) bool
	EffectProcFunc      func(ctx *HookContext, ev *ProcEvent)
	AfterRemoveFunc     func(a *Aura, mode RemoveMode)
)

type filtered[F any] struct {
	filter EffectFilter
	fn     F
}

// HookSet collects the hooks of every script attached to one aura.
// Hooks run in registration order.
type HookSet struct {
	checkAreaTarget   []CheckAreaTargetFunc
	calcAmount        []filtered[CalcAmountFunc]
	calcPeriodic      []filtered[CalcPeriodicFunc]
	effectApply       []filtered[EffectApplyFunc]
	afterEffectApply  []filtered[EffectApplyFunc]
	effectRemove      []filtered[EffectApplyFunc]
	afterEffectRemove []filtered[EffectApplyFunc]
	effectPeriodic    []filtered[EffectPeriodicFunc]
	checkProc         []CheckProcFunc
	prepareProc       []ProcFunc
	proc              []ProcFunc
	afterProc         []ProcFunc
	checkEffectProc   []filtered[CheckEffectProcFunc]
	effectProc        []filtered[EffectProcFunc]
	afterEffectProc   []filtered[EffectProcFunc]
	afterRemove       []AfterRemoveFunc
}

func (h *HookSet) OnCheckAreaTarget(fn CheckAreaTargetFunc) {
	h.checkAreaTarget = append(h.checkAreaTarget, fn)
}

func (h *HookSet) OnEffectCalcAmount(f EffectFilter, fn CalcAmountFunc) {
	h.calcAmount = append(h.calcAmount, filtered[CalcAmountFunc]{f, fn})
}

func (h *HookSet) OnEffectCalcPeriodic(f EffectFilter, fn CalcPeriodicFunc) {
	h.calcPeriodic = append(h.calcPeriodic, filtered[CalcPeriodicFunc]{f, fn})
}

func (h *HookSet) OnEffectApply(f EffectFilter, fn EffectApplyFunc) {
	h.effectApply = append(h.effectApply, filtered[EffectApplyFunc]{f, fn})
}

func (h *HookSet) AfterEffectApply(f EffectFilter, fn EffectApplyFunc) {
	h.afterEffectApply = append(h.afterEffectApply, filtered[EffectApplyFunc]{f, fn})
}

func (h *HookSet) OnEffectRemove(f EffectFilter, fn EffectApplyFunc) {
	h.effectRemove = append(h.effectRemove, filtered[EffectApplyFunc]{f, fn})
}

func (h *HookSet) AfterEffectRemove(f EffectFilter, fn EffectApplyFunc) {
	h.afterEffectRemove = append(h.afterEffectRemove, filtered[EffectApplyFunc]{f, fn})
}

func (h *HookSet) OnEffectPeriodic(f EffectFilter, fn EffectPeriodicFunc) {
	h.effectPeriodic = append(h.effectPeriodic, filtered[EffectPeriodicFunc]{f, fn})
}

func (h *HookSet) OnCheckProc(fn CheckProcFunc) { h.checkProc = append(h.checkProc, fn) }

func (h *HookSet) OnPrepareProc(fn ProcFunc) { h.prepareProc = append(h.prepareProc, fn) }

func (h *HookSet) OnProc(fn ProcFunc) { h.proc = append(h.proc, fn) }

func (h *HookSet) AfterProc(fn ProcFunc) { h.afterProc = append(h.afterProc, fn) }

func (h *HookSet) OnCheckEffectProc(f EffectFilter, fn CheckEffectProcFunc) {
	h.checkEffectProc = append(h.checkEffectProc, filtered[CheckEffectProcFunc]{f, fn})
}

func (h *HookSet) OnEffectProc(f EffectFilter, fn EffectProcFunc) {
	h.effectProc = append(h.effectProc, filtered[EffectProcFunc]{f, fn})
}

func (h *HookSet) AfterEffectProc(f EffectFilter, fn EffectProcFunc) {
	h.afterEffectProc = append(h.afterEffectProc, filtered[EffectProcFunc]{f, fn})
}

func (h *HookSet) AfterRemove(fn AfterRemoveFunc) { h.afterRemove = append(h.afterRemove, fn) }

// Script is a behaviour object attached to every aura of a spell.
type Script interface {
	Name() string
	Register(h *HookSet)
}

// ScriptFactory creates a fresh script instance for one aura.
type ScriptFactory func() Script

// ScriptRegistry maps spell ids to script factories.
type ScriptRegistry struct {
	mu        sync.RWMutex
	factories map[uint32][]ScriptFactory
}

// NewScriptRegistry returns an empty registry.
func NewScriptRegistry() *ScriptRegistry {
	return &ScriptRegistry{factories: make(map[uint32][]ScriptFactory)}
}

// Register attaches a script factory to a spell.
func (r *ScriptRegistry) Register(spellID uint32, f ScriptFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[spellID] = append(r.factories[spellID], f)
}

// Create instantiates every script registered for the spell.
func (r *ScriptRegistry) Create(spellID uint32) []Script {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	fs := r.factories[spellID]
	scripts := make([]Script, 0, len(fs))
	for _, f := range fs {
		scripts = append(scripts, f())
	}
	return scripts
}

// Len returns the number of registered factories.
func (r *ScriptRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, fs := range r.factories {
		n += len(fs)
	}
	return n
}

// loadScripts builds the hook set of a new aura.
func (m *Manager) loadScripts(a *Aura) {
	a.hooks = &HookSet{}
	for _, s := range m.scripts.Create(a.spell.ID) {
		slog.Debug("aura script loaded", "script", s.Name(), "spell", a.spell.ID)
		s.Register(a.hooks)
	}
}

func (m *Manager) hookCheckAreaTarget(a *Aura, target *model.Unit) bool {
	for _, fn := range a.hooks.checkAreaTarget {
		if !fn(a, target) {
			return false
		}
	}
	return true
}

func (m *Manager) hookCalcAmount(eff *Effect, amount *int32, canRecalculate *bool) {
	for _, h := range eff.aura.hooks.calcAmount {
		if h.filter.matches(eff) {
			h.fn(eff, amount, canRecalculate)
		}
	}
}

func (m *Manager) hookCalcPeriodic(eff *Effect, periodic *bool, amplitude *int32) {
	for _, h := range eff.aura.hooks.calcPeriodic {
		if h.filter.matches(eff) {
			h.fn(eff, periodic, amplitude)
		}
	}
}

// hookEffectApply runs apply or remove hooks; it reports a prevented default.
func (m *Manager) hookEffectApply(hooks []filtered[EffectApplyFunc], eff *Effect, app *Application, mode HandleMode) bool {
	ctx := &HookContext{Manager: m, Aura: eff.aura, Effect: eff, App: app}
	for _, h := range hooks {
		if h.filter.matches(eff) {
			h.fn(ctx, mode)
		}
	}
	return ctx.prevented
}

func (m *Manager) hookEffectPeriodic(eff *Effect, app *Application) bool {
	ctx := &HookContext{Manager: m, Aura: eff.aura, Effect: eff, App: app}
	for _, h := range eff.aura.hooks.effectPeriodic {
		if h.filter.matches(eff) {
			h.fn(ctx)
		}
	}
	return ctx.prevented
}

func (m *Manager) hookCheckProc(app *Application, ev *ProcEvent) bool {
	for _, fn := range app.aura.hooks.checkProc {
		if !fn(app, ev) {
			return false
		}
	}
	return true
}

// hookProc runs aura-level proc hooks; it reports a prevented default.
func (m *Manager) hookProc(hooks []ProcFunc, app *Application, ev *ProcEvent) bool {
	ctx := &HookContext{Manager: m, Aura: app.aura, App: app}
	for _, fn := range hooks {
		fn(ctx, ev)
	}
	return ctx.prevented
}

func (m *Manager) hookCheckEffectProc(eff *Effect, app *Application, ev *ProcEvent) bool {
	for _, h := range eff.aura.hooks.checkEffectProc {
		if h.filter.matches(eff) && !h.fn(eff, app, ev) {
			return false
		}
	}
	return true
}

func (m *Manager) hookEffectProc(hooks []filtered[EffectProcFunc], eff *Effect, app *Application, ev *ProcEvent) bool {
	ctx := &HookContext{Manager: m, Aura: eff.aura, Effect: eff, App: app}
	for _, h := range hooks {
		if h.filter.matches(eff) {
			h.fn(ctx, ev)
		}
	}
	return ctx.prevented
}

func (m *Manager) hookAfterRemove(a *Aura, mode RemoveMode) {
	for _, fn := range a.hooks.afterRemove {
		fn(a, mode)
	}
}
