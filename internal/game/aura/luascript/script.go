package luascript

import (
	"slices"

	"github.com/Shopify/go-lua"

	"github.com/udisondev/auracore/internal/game/aura"
	"github.com/udisondev/auracore/internal/model"
)

// script adapts one Lua declaration to aura.Script.
type script struct {
	rt   *Runtime
	decl Declaration
}

func (s *script) Name() string { return s.decl.Name }

func (s *script) has(hook string) bool { return slices.Contains(s.decl.Hooks, hook) }

// Register wires only the hooks the Lua table defines.
func (s *script) Register(h *aura.HookSet) {
	if s.has(HookCheckAreaTarget) {
		h.OnCheckAreaTarget(s.checkAreaTarget)
	}
	if s.has(HookCalcAmount) {
		h.OnEffectCalcAmount(aura.AnyEffect, s.calcAmount)
	}
	if s.has(HookEffectPeriodic) {
		h.OnEffectPeriodic(aura.AnyEffect, s.effectPeriodic)
	}
	if s.has(HookCheckProc) {
		h.OnCheckProc(s.checkProc)
	}
	if s.has(HookAfterProc) {
		h.AfterProc(s.afterProc)
	}
	if s.has(HookAfterRemove) {
		h.AfterRemove(s.afterRemove)
	}
}

func (s *script) checkAreaTarget(a *aura.Aura, target *model.Unit) bool {
	ok := true
	s.rt.call(s.decl, HookCheckAreaTarget, map[string]any{
		"spell_id":  a.SpellID(),
		"caster_id": a.CasterID(),
		"target_id": target.ObjectID(),
		"level":     target.Level(),
		"health":    target.Health(),
	}, 1, func(l *lua.State) {
		ok = truthy(l)
	})
	return ok
}

func (s *script) calcAmount(eff *aura.Effect, amount *int32, canRecalculate *bool) {
	a := eff.Aura()
	s.rt.call(s.decl, HookCalcAmount, map[string]any{
		"spell_id":    a.SpellID(),
		"effect":      eff.Index(),
		"amount":      *amount,
		"base_amount": eff.BaseAmount(),
		"stack":       a.StackAmount(),
		"level":       a.CasterLevel(),
	}, 2, func(l *lua.State) {
		if v, ok := l.ToInteger(-2); ok {
			*amount = int32(v)
		}
		if l.IsBoolean(-1) {
			*canRecalculate = l.ToBoolean(-1)
		}
	})
}

// effectPeriodic prevents the default tick when the Lua hook returns true.
func (s *script) effectPeriodic(ctx *aura.HookContext) {
	s.rt.call(s.decl, HookEffectPeriodic, map[string]any{
		"spell_id":  ctx.Aura.SpellID(),
		"effect":    ctx.Effect.Index(),
		"target_id": ctx.App.TargetID(),
		"amount":    ctx.Effect.Amount(),
		"tick":      int(ctx.Effect.TickNumber()),
	}, 1, func(l *lua.State) {
		if l.ToBoolean(-1) {
			ctx.PreventDefaultAction()
		}
	})
}

func (s *script) checkProc(app *aura.Application, ev *aura.ProcEvent) bool {
	ok := true
	s.rt.call(s.decl, HookCheckProc, eventFields(app, ev), 1, func(l *lua.State) {
		ok = truthy(l)
	})
	return ok
}

func (s *script) afterProc(ctx *aura.HookContext, ev *aura.ProcEvent) {
	s.rt.call(s.decl, HookAfterProc, eventFields(ctx.App, ev), 0, nil)
}

func (s *script) afterRemove(a *aura.Aura, mode aura.RemoveMode) {
	s.rt.call(s.decl, HookAfterRemove, map[string]any{
		"spell_id":  a.SpellID(),
		"caster_id": a.CasterID(),
		"owner_id":  a.OwnerID(),
		"mode":      mode.String(),
	}, 0, nil)
}

func eventFields(app *aura.Application, ev *aura.ProcEvent) map[string]any {
	fields := map[string]any{
		"spell_id":  app.Aura().SpellID(),
		"holder_id": app.TargetID(),
		"actor_id":  ev.ActorID,
		"target_id": ev.TargetID,
		"type_mask": uint32(ev.TypeMask),
		"damage":    0,
	}
	if ev.Damage != nil {
		fields["damage"] = ev.Damage.Amount
	}
	if ev.Spell != nil {
		fields["event_spell_id"] = ev.Spell.ID
	}
	return fields
}

// truthy treats nil as "no objection".
func truthy(l *lua.State) bool {
	return l.IsNil(-1) || l.ToBoolean(-1)
}
