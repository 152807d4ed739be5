package aura

import "github.com/udisondev/auracore/internal/data"

// State is the client-visible delta of one visible aura slot.
type State struct {
	Slot    uint8
	Removed bool

	SpellID      uint32
	Flags        AppFlag
	CasterLevel  uint16
	Applications uint8
	CasterID     uint32 // 0 when AppFlagNoCaster is set
	MaxDuration  int32
	Duration     int32
	Amounts      [data.MaxEffects]int32
}

// buildState snapshots a visible application.
func buildState(app *Application) State {
	a := app.aura
	st := State{
		Slot:        app.slot,
		SpellID:     a.spell.ID,
		Flags:       app.flags,
		CasterLevel: uint16(a.casterLevel),
	}
	if a.spell.StackAmount > 0 {
		st.Applications = a.stackAmount
	} else {
		st.Applications = a.procCharges
	}
	if app.flags&AppFlagNoCaster == 0 {
		st.CasterID = a.key.CasterID
	}
	if st.Flags&AppFlagDuration != 0 {
		st.MaxDuration = a.maxDuration
		st.Duration = a.duration
	}
	if st.Flags&AppFlagAmountsSent != 0 {
		for i, eff := range a.effects {
			if eff != nil && app.HasEffect(uint8(i)) {
				st.Amounts[i] = eff.amount
			}
		}
	}
	return st
}

// clientFlags refreshes the duration bit before a snapshot.
func (app *Application) clientFlags() {
	a := app.aura
	if a.kind != KindDynObj && a.maxDuration > 0 {
		app.flags |= AppFlagDuration
	} else {
		app.flags &^= AppFlagDuration
	}
}

// NullSink drops every delta.
type NullSink struct{}

func (NullSink) Send(uint32, []State) {}
