package aura

import (
	"github.com/udisondev/auracore/internal/data"
	"github.com/udisondev/auracore/internal/model"
)

func init() {
	RegisterHandler(data.AuraDummy, dummyHandler{})
	RegisterHandler(data.AuraModStat, modStatHandler{})
	RegisterHandler(data.AuraModSpeed, modSpeedHandler{})
	RegisterHandler(data.AuraModShapeshift, shapeshiftHandler{})
}

// modifierSource is the stat modifier key of one effect of one aura.
func modifierSource(eff *Effect) uint64 {
	return uint64(eff.aura.id)<<2 | uint64(eff.index)
}

type dummyHandler struct{}

func (dummyHandler) Name() string                     { return "dummy" }
func (dummyHandler) HandleEffect(*HandlerContext, bool) {}

// modStatHandler: MiscValue is model.Stat, amount is flat bonus.
type modStatHandler struct{}

func (modStatHandler) Name() string { return "mod_stat" }

func (modStatHandler) HandleEffect(hc *HandlerContext, apply bool) {
	src := modifierSource(hc.Effect)
	if !apply {
		hc.Target.RemoveStatModifiers(src)
		return
	}
	hc.Target.SetStatModifiers(src, model.StatModifier{
		Stat:  model.Stat(hc.Effect.info.MiscValue),
		Type:  model.StatModAdd,
		Value: float64(hc.Effect.amount),
	})
}

// modSpeedHandler: amount is percent of run speed.
type modSpeedHandler struct{}

func (modSpeedHandler) Name() string { return "mod_speed" }

func (modSpeedHandler) HandleEffect(hc *HandlerContext, apply bool) {
	src := modifierSource(hc.Effect)
	if !apply {
		hc.Target.RemoveStatModifiers(src)
		return
	}
	hc.Target.SetStatModifiers(src, model.StatModifier{
		Stat:  model.StatSpeed,
		Type:  model.StatModPct,
		Value: float64(hc.Effect.amount),
	})
}

// shapeshiftHandler: MiscValue is model.ShapeshiftForm.
type shapeshiftHandler struct{}

func (shapeshiftHandler) Name() string { return "mod_shapeshift" }

func (shapeshiftHandler) HandleEffect(hc *HandlerContext, apply bool) {
	form := model.ShapeshiftForm(hc.Effect.info.MiscValue)
	if apply {
		hc.Target.SetForm(form)
		return
	}
	if hc.Target.Form() == form {
		hc.Target.SetForm(model.FormNone)
	}
}
