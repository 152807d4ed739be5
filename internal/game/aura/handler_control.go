package aura

import (
	"github.com/udisondev/auracore/internal/data"
	"github.com/udisondev/auracore/internal/model"
)

func init() {
	RegisterHandler(data.AuraModStun, breakableStateHandler{stateHandler{name: "mod_stun", state: model.StateStunned}})
	RegisterHandler(data.AuraModRoot, breakableStateHandler{stateHandler{name: "mod_root", state: model.StateRooted}})
	RegisterHandler(data.AuraModStealth, stateHandler{name: "mod_stealth", state: model.StateStealthed})
	RegisterHandler(data.AuraTrackResources, stateHandler{name: "track_resources", state: model.StateTrackingResources})
	RegisterHandler(data.AuraControlVehicle, vehicleHandler{})
	RegisterHandler(data.AuraSchoolImmunity, schoolImmunityHandler{})
	RegisterHandler(data.AuraMechanicImmunity, mechanicImmunityHandler{})
}

// stateHandler toggles a counted unit state.
type stateHandler struct {
	name  string
	state model.UnitState
}

func (h stateHandler) Name() string { return h.name }

func (h stateHandler) HandleEffect(hc *HandlerContext, apply bool) {
	if hc.Mode != HandleReal {
		return
	}
	hc.Target.ModifyState(h.state, apply)
}

// breakableStateHandler is a crowd control state broken by damage.
// The effect amount is the damage it absorbs before breaking.
type breakableStateHandler struct {
	stateHandler
}

func (h breakableStateHandler) HandleProc(hc *HandlerContext, ev *ProcEvent) {
	if ev.Damage == nil {
		return
	}
	left := hc.Effect.amount - ev.Damage.Amount
	if left <= 0 {
		hc.m.removeApplication(hc.App, RemoveEnemySpell)
		return
	}
	hc.m.changeAmount(hc.Effect, left)
}

// vehicleHandler occupies a seat of the target vehicle.
type vehicleHandler struct{}

func (vehicleHandler) Name() string { return "control_vehicle" }

func (vehicleHandler) HandleEffect(hc *HandlerContext, apply bool) {
	if hc.Mode != HandleReal || !hc.Target.IsVehicle() {
		return
	}
	if apply {
		hc.Target.ModifySeats(1)
	} else {
		hc.Target.ModifySeats(-1)
	}
}

// schoolImmunityHandler: MiscValue is school mask.
type schoolImmunityHandler struct{}

func (schoolImmunityHandler) Name() string { return "school_immunity" }

func (schoolImmunityHandler) HandleEffect(hc *HandlerContext, apply bool) {
	if hc.Mode != HandleReal {
		return
	}
	hc.Target.ApplySchoolImmunity(uint32(hc.Effect.info.MiscValue), apply)
}

// mechanicImmunityHandler: MiscValue is mechanic, MiscValueB is optional aura type.
type mechanicImmunityHandler struct{}

func (mechanicImmunityHandler) Name() string { return "mechanic_immunity" }

func (mechanicImmunityHandler) HandleEffect(hc *HandlerContext, apply bool) {
	if hc.Mode != HandleReal {
		return
	}
	info := hc.Effect.info
	if info.MiscValue != 0 {
		mechanic := uint32(info.MiscValue)
		hc.Target.ApplyMechanicImmunity(mechanic, apply)
		if apply {
			self := hc.Effect.aura
			hc.m.removeAppliedWhere(hc.Target.ObjectID(), RemoveDefault, func(app *Application) bool {
				return app.aura != self && app.aura.spell.Mechanic == mechanic
			})
		}
	}
	if info.MiscValueB != 0 {
		hc.Target.ApplyAuraTypeImmunity(uint32(info.MiscValueB), apply)
	}
}
