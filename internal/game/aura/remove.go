package aura

import (
	"fmt"
	"slices"
)

// RemoveAura removes the aura from every target. Removing a removed aura is a no-op.
func (m *Manager) RemoveAura(a *Aura, mode RemoveMode) {
	m.enter()
	defer m.leave()
	m.removeAura(a, mode)
}

// RemoveOwnedAura removes the aura with the given identity owned by the unit.
func (m *Manager) RemoveOwnedAura(ownerID uint32, k Key, mode RemoveMode) bool {
	m.enter()
	defer m.leave()
	ua, ok := m.units[ownerID]
	if !ok {
		return false
	}
	a, ok := ua.owned[k]
	if !ok || a.IsRemoved() {
		return false
	}
	m.removeAura(a, mode)
	return true
}

// RemoveAurasBySpell removes bindings of spellID on the unit. casterID 0 matches any caster.
func (m *Manager) RemoveAurasBySpell(unitID, spellID, casterID uint32, mode RemoveMode) int {
	m.enter()
	defer m.leave()
	return m.removeAppliedWhere(unitID, mode, func(app *Application) bool {
		return app.aura.spell.ID == spellID && (casterID == 0 || app.aura.key.CasterID == casterID)
	})
}

// RemoveAurasOnDeath strips every aura that does not survive death.
func (m *Manager) RemoveAurasOnDeath(unitID uint32) {
	m.enter()
	defer m.leave()

	survives := func(a *Aura) bool { return a.IsPassive() || a.spell.IsDeathPersistent() }
	ua, ok := m.units[unitID]
	if !ok {
		return
	}
	for {
		app := ua.firstApplied(func(app *Application) bool {
			return app.removeMode != RemoveNone || survives(app.aura)
		})
		if app == nil {
			break
		}
		m.unapplyQueued(app, RemoveDeath)
	}
	for _, a := range ua.ownedSorted() {
		if !survives(a) {
			m.removeAura(a, RemoveDeath)
		}
	}
}

// RemoveUnit drops every aura owned by or applied to a unit leaving the world,
// including its ground areas and single-target auras it cast elsewhere.
func (m *Manager) RemoveUnit(unitID uint32) {
	m.enter()
	defer m.leave()

	for _, a := range slices.Clone(m.singleTarget[unitID]) {
		m.removeAura(a, RemoveDefault)
	}
	for _, id := range m.sortedDynObjIDs() {
		if a := m.dynObjs[id]; a.dyn.CasterID == unitID {
			m.removeAura(a, RemoveDefault)
		}
	}

	ua, ok := m.units[unitID]
	if !ok {
		return
	}
	// Hooks may re-add auras while the unit is stripped; a few passes settle it.
	for pass := 0; pass < 4 && !ua.emptyAuras(); pass++ {
		for {
			app := ua.firstApplied(func(app *Application) bool { return app.removeMode != RemoveNone })
			if app == nil {
				break
			}
			m.unapplyQueued(app, RemoveDefault)
		}
		for _, a := range ua.ownedSorted() {
			m.removeAura(a, RemoveDefault)
		}
	}
	m.dirty[unitID] = struct{}{}
}

// removeAppliedWhere removes matching live bindings on the unit,
// restarting from the front after each removal.
func (m *Manager) removeAppliedWhere(unitID uint32, mode RemoveMode, match func(*Application) bool) int {
	ua, ok := m.units[unitID]
	if !ok {
		return 0
	}
	n := 0
	for {
		app := ua.firstApplied(func(app *Application) bool {
			return app.removeMode != RemoveNone || !match(app)
		})
		if app == nil {
			return n
		}
		m.removeApplication(app, mode)
		n++
	}
}

// removeAura queues the whole aura for removal.
func (m *Manager) removeAura(a *Aura, mode RemoveMode) {
	if a.IsRemoved() {
		return
	}
	a.removeQueued = true
	m.removals = append(m.removals, removal{aura: a, mode: mode})
	m.drainRemovals()
}

// removeApplication unbinds one target; the owner's own binding takes the aura with it.
func (m *Manager) removeApplication(app *Application, mode RemoveMode) {
	if app.removeMode != RemoveNone || app.aura.removed {
		return
	}
	app.removeMode = mode
	m.removals = append(m.removals, removal{aura: app.aura, targetID: app.targetID, mode: mode})
	m.drainRemovals()
}

// unapplyQueued unbinds one target without touching the aura itself.
func (m *Manager) unapplyQueued(app *Application, mode RemoveMode) {
	if app.removeMode != RemoveNone || app.aura.removed {
		return
	}
	app.removeMode = mode
	m.removals = append(m.removals, removal{aura: app.aura, targetID: app.targetID, mode: mode, keepAura: true})
	m.drainRemovals()
}

// drainRemovals consumes the removal queue to exhaustion. Removals raised
// while draining are appended and handled by the same loop.
func (m *Manager) drainRemovals() {
	if m.draining {
		return
	}
	m.draining = true
	defer func() { m.draining = false }()

	for len(m.removals) > 0 {
		r := m.removals[0]
		m.removals = m.removals[1:]
		if r.targetID == 0 {
			m.doRemove(r.aura, r.mode)
			continue
		}
		app, ok := r.aura.applications[r.targetID]
		if !ok {
			continue
		}
		m.unapply(app, r.mode)
		if !r.keepAura && r.aura.kind == KindUnit && r.aura.ownerID == r.targetID {
			m.removeAura(r.aura, r.mode)
		}
	}
	m.removals = nil
}

func (m *Manager) doRemove(a *Aura, mode RemoveMode) {
	if a.removed {
		return
	}
	a.removed = true

	switch a.kind {
	case KindUnit:
		if ua, ok := m.units[a.ownerID]; ok && ua.owned[a.key] == a {
			delete(ua.owned, a.key)
		}
	case KindDynObj:
		delete(m.dynObjs, a.ownerID)
	}
	m.unregisterSingleTarget(a)

	// Unapply may cascade; always restart from the first binding.
	for {
		apps := a.Applications()
		if len(apps) == 0 {
			break
		}
		m.unapply(apps[0], mode)
	}

	if a.dropEvent != nil {
		a.dropEvent.cancel()
		a.dropEvent = nil
	}
	m.freed = append(m.freed, a)
	m.metrics.auraRemoved(mode)
	m.logger(a).Debug("aura removed", "mode", mode)
	m.hookAfterRemove(a, mode)
}

// unapply detaches app from its target and removes its applied effects.
func (m *Manager) unapply(app *Application, mode RemoveMode) {
	a := app.aura
	ua, ok := m.units[app.targetID]
	if !ok || ua.applied[a.id] != app {
		panic(fmt.Sprintf("aura %d (spell %d): application on unit %d missing from target registry",
			a.id, a.spell.ID, app.targetID))
	}
	if a.applications[app.targetID] != app {
		panic(fmt.Sprintf("aura %d (spell %d): application on unit %d missing from aura",
			a.id, a.spell.ID, app.targetID))
	}

	app.removeMode = mode
	delete(ua.applied, a.id)
	delete(a.applications, app.targetID)
	a.removedApps = append(a.removedApps, app)
	m.releaseSlot(app)

	for i := uint8(0); i < uint8(len(a.effects)); i++ {
		if app.HasEffect(i) {
			m.handleEffect(app, i, false)
		}
	}
	m.dirty[app.targetID] = struct{}{}
}

func (m *Manager) unregisterSingleTarget(a *Aura) {
	casterID := a.key.CasterID
	list := m.singleTarget[casterID]
	for i, other := range list {
		if other == a {
			list = append(list[:i], list[i+1:]...)
			break
		}
	}
	if len(list) == 0 {
		delete(m.singleTarget, casterID)
		return
	}
	m.singleTarget[casterID] = list
}
