package aura

import (
	"time"

	"github.com/udisondev/auracore/internal/data"
)

// ModStackAmount adds num stacks. The stack is clamped to the spell maximum
// (1 for unstackable spells) on increase and the aura is removed at zero.
// It reports whether the aura was removed.
func (m *Manager) ModStackAmount(a *Aura, num int32, mode RemoveMode, resetPeriodic bool) bool {
	m.enter()
	defer m.leave()
	return m.modStackAmount(a, num, mode, resetPeriodic)
}

func (m *Manager) modStackAmount(a *Aura, num int32, mode RemoveMode, resetPeriodic bool) bool {
	if a.IsRemoved() {
		return true
	}
	maxStack := int32(a.spell.StackAmount)
	stack := int32(a.stackAmount) + num
	switch {
	case num > 0 && stack > maxStack:
		if maxStack == 0 {
			stack = 1
		} else {
			stack = maxStack
		}
	case stack <= 0:
		m.removeAura(a, mode)
		return true
	}

	refresh := stack >= int32(a.stackAmount) &&
		(maxStack > 0 || !a.spell.HasAttr(data.AttrDontRefreshDurationOnRecast))

	m.setStackAmount(a, uint8(stack))
	if refresh {
		m.refreshTimers(a, resetPeriodic)
		m.setCharges(a, m.calcMaxCharges(a))
	}
	m.markAuraUpdate(a)
	return false
}

// SetStackAmount sets the stack without refreshing timers.
func (m *Manager) SetStackAmount(a *Aura, stack uint8) {
	m.enter()
	defer m.leave()
	if a.IsRemoved() {
		return
	}
	if stack == 0 {
		m.removeAura(a, RemoveDefault)
		return
	}
	if limit := max(a.spell.StackAmount, 1); stack > limit {
		stack = limit
	}
	m.setStackAmount(a, stack)
}

// setStackAmount re-applies every effect with the amount of the new stack.
func (m *Manager) setStackAmount(a *Aura, stack uint8) {
	a.stackAmount = stack
	for _, eff := range a.effects {
		if eff != nil {
			m.changeAmount(eff, m.calculateAmount(eff))
		}
	}
	m.markAuraUpdate(a)
}

// ModCharges adds num charges to a charge-based aura, clamped to the maximum on
// increase; reaching zero removes the aura. It reports whether the aura was removed.
func (m *Manager) ModCharges(a *Aura, num int32, mode RemoveMode) bool {
	m.enter()
	defer m.leave()
	return m.modCharges(a, num, mode)
}

func (m *Manager) modCharges(a *Aura, num int32, mode RemoveMode) bool {
	if a.IsRemoved() {
		return true
	}
	if !a.usingCharges {
		return false
	}
	charges := int32(a.procCharges) + num
	maxCharges := int32(m.calcMaxCharges(a))
	switch {
	case num > 0 && charges > maxCharges:
		charges = maxCharges
	case charges <= 0:
		m.removeAura(a, mode)
		return true
	}
	m.setCharges(a, uint8(charges))
	return false
}

// SetCharges sets the charge count; zero turns charges off.
func (m *Manager) SetCharges(a *Aura, charges uint8) {
	m.enter()
	defer m.leave()
	m.setCharges(a, charges)
}

func (m *Manager) setCharges(a *Aura, charges uint8) {
	if a.procCharges == charges {
		return
	}
	a.procCharges = charges
	a.usingCharges = charges != 0
	m.markAuraUpdate(a)
}

// DropCharge consumes one charge.
func (m *Manager) DropCharge(a *Aura, mode RemoveMode) bool {
	return m.ModCharges(a, -1, mode)
}

// DropChargeDelayed consumes one charge after delay. A second request while
// one is pending is ignored; removing the aura cancels it.
func (m *Manager) DropChargeDelayed(a *Aura, delay time.Duration, mode RemoveMode) {
	if a.dropEvent != nil || a.IsRemoved() || a.kind != KindUnit {
		return
	}
	a.dropEvent = m.sched.schedule(m.now+delay.Milliseconds(), a.id, func() {
		a.dropEvent = nil
		m.modCharges(a, -1, mode)
	})
}

// RefreshDuration restarts the duration with current modifiers.
func (m *Manager) RefreshDuration(a *Aura) {
	m.enter()
	defer m.leave()
	if a.IsRemoved() {
		return
	}
	a.maxDuration = m.calcMaxDuration(a)
	m.resetDuration(a)
}

// RefreshTimers restarts the duration and, unless the spell keeps them, periodic timers.
func (m *Manager) RefreshTimers(a *Aura, resetPeriodic bool) {
	m.enter()
	defer m.leave()
	if a.IsRemoved() {
		return
	}
	m.refreshTimers(a, resetPeriodic)
}

func (m *Manager) refreshTimers(a *Aura, resetPeriodic bool) {
	a.maxDuration = m.calcMaxDuration(a)
	if a.spell.HasAttr(data.AttrDontResetPeriodicTimer) && a.maxDuration > 0 {
		resetPeriodic = false
		minAmplitude := a.maxDuration
		for _, eff := range a.effects {
			if eff != nil && eff.periodic && eff.amplitude < minAmplitude {
				minAmplitude = eff.amplitude
			}
		}
		// The last pending tick rolls over into the new duration.
		if a.duration > 0 && a.duration <= minAmplitude {
			a.maxDuration += a.duration
		}
	}
	m.resetDuration(a)
	for _, eff := range a.effects {
		if eff != nil {
			m.calculatePeriodic(eff, resetPeriodic, false)
		}
	}
}

func (m *Manager) resetDuration(a *Aura) {
	a.duration = a.maxDuration
	if a.spell.ManaPerSecond > 0 {
		a.resourceTimer = int32(m.cfg.ResourceDrainInterval.Milliseconds())
	}
	for _, eff := range a.effects {
		if eff != nil {
			eff.tickNumber = 0
		}
	}
	m.markAuraUpdate(a)
}

// SetDuration sets the remaining duration; withMods applies caster modifiers.
func (m *Manager) SetDuration(a *Aura, duration int32, withMods bool) {
	m.enter()
	defer m.leave()
	if withMods && duration > 0 {
		duration = int32(m.applySpellMod(a.key.CasterID, a.spell, data.SpellModDuration, float64(duration)))
	}
	a.duration = duration
	m.markAuraUpdate(a)
}
