package aura

import (
	"slices"
	"time"

	"github.com/udisondev/auracore/internal/model"
)

// Update advances the simulation clock by diff: due delayed actions run
// first, then every owned aura is updated and expired auras are removed.
// Sub-millisecond remainders carry over to the next call.
func (m *Manager) Update(diff time.Duration) {
	m.enter()
	defer m.leave()

	m.carry += diff
	ms := m.carry.Milliseconds()
	m.carry -= time.Duration(ms) * time.Millisecond
	if ms <= 0 {
		return
	}
	step := int32(ms)
	m.now += ms

	m.sched.runDue(m.now)

	unitIDs := make([]uint32, 0, len(m.units))
	for id := range m.units {
		unitIDs = append(unitIDs, id)
	}
	slices.Sort(unitIDs)

	for _, id := range unitIDs {
		ua, ok := m.units[id]
		if !ok {
			continue
		}
		for _, a := range ua.ownedSorted() {
			if !a.IsRemoved() {
				m.updateOwner(a, step)
			}
		}
		for _, a := range ua.ownedSorted() {
			if !a.IsRemoved() && a.IsExpired() {
				m.removeAura(a, RemoveExpire)
			}
		}
	}

	for _, id := range m.sortedDynObjIDs() {
		a, ok := m.dynObjs[id]
		if !ok || a.IsRemoved() {
			continue
		}
		if m.casterOf(a) == nil {
			m.removeAura(a, RemoveDefault)
			continue
		}
		m.updateOwner(a, step)
		if !a.IsRemoved() && a.IsExpired() {
			m.removeAura(a, RemoveExpire)
		}
	}
}

// updateOwner runs one aura step: duration and resource drain, target
// re-resolution, then periodic effects.
func (m *Manager) updateOwner(a *Aura, diff int32) {
	if a.duration > 0 {
		a.duration = max(a.duration-diff, 0)
		if a.resourceTimer != 0 {
			if a.resourceTimer > diff {
				a.resourceTimer -= diff
			} else if caster := m.casterOf(a); caster != nil {
				interval := int32(m.cfg.ResourceDrainInterval.Milliseconds())
				a.resourceTimer = max(a.resourceTimer+interval-diff, 1)
				if !payResource(caster, a.spell.PowerType, a.spell.ManaPerSecond) {
					m.logger(a).Debug("aura dropped, caster out of resource")
					m.removeAura(a, RemoveDefault)
					return
				}
			}
		}
	}

	if a.targetMapTimer <= diff {
		m.updateTargetMap(a, true)
	} else {
		a.targetMapTimer -= diff
	}
	if a.IsRemoved() {
		return
	}

	for _, eff := range a.effects {
		if eff == nil {
			continue
		}
		m.updateEffect(eff, diff)
		if a.IsRemoved() {
			return
		}
	}
}

// payResource charges the per-interval cost. Health must stay above zero.
func payResource(u *model.Unit, power model.PowerType, cost int32) bool {
	if cost <= 0 {
		return true
	}
	if power == model.PowerHealth {
		if u.Health() <= cost {
			return false
		}
		u.ModifyHealth(-cost)
		return true
	}
	if u.Power(power) < cost {
		return false
	}
	u.ModifyPower(power, -cost)
	return true
}

func (m *Manager) sortedDynObjIDs() []uint32 {
	ids := make([]uint32, 0, len(m.dynObjs))
	for id := range m.dynObjs {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
