package aura

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/auracore/internal/data"
	"github.com/udisondev/auracore/internal/model"
)

func TestDeath_PeriodicKillStripsAuras(t *testing.T) {
	var modes []RemoveMode
	f := newFixture(t, scripted(8000, func(h *HookSet) {
		h.AfterRemove(func(_ *Aura, mode RemoveMode) { modes = append(modes, mode) })
	}))
	f.unit(1, 0, 0)
	victim := f.unit(2, 1, 0)

	lethal := dot(8000, 600)
	lethal.Effects[0].Amplitude = 1000
	f.spell(lethal)
	f.spell(buff(8001, data.AuraModStat, 10))
	persistent := buff(8002, data.AuraDummy, 0)
	persistent.Attributes |= data.AttrDeathPersistent
	f.spell(persistent)
	passive := buff(8003, data.AuraDummy, 0)
	passive.Attributes |= data.AttrPassive
	f.spell(passive)

	f.cast(8000, 1, 2)
	f.cast(8001, 2, 2)
	f.cast(8002, 2, 2)
	f.cast(8003, 2, 2)

	f.mgr.Update(time.Second)
	require.Equal(t, int32(400), victim.Health())

	f.mgr.Update(time.Second)
	assert.False(t, victim.IsAlive())
	assert.Equal(t, []RemoveMode{RemoveDeath}, modes)
	assert.False(t, f.mgr.HasAura(2, 8000))
	assert.False(t, f.mgr.HasAura(2, 8001))
	assert.Zero(t, strength(victim))
	assert.True(t, f.mgr.HasAura(2, 8002), "death persistent")
	assert.True(t, f.mgr.HasAura(2, 8003), "passive")
}

func TestRemoveAurasBySpell(t *testing.T) {
	f := newFixture(t)
	f.unit(1, 0, 0)
	f.unit(2, 1, 0)
	f.unit(3, 2, 0)
	f.spell(dot(6020, 10))

	f.cast(6020, 1, 2)
	f.cast(6020, 3, 2)

	assert.Equal(t, 1, f.mgr.RemoveAurasBySpell(2, 6020, 3, RemoveCancel))
	assert.Len(t, f.mgr.AppliedAuras(2), 1)
	assert.Equal(t, 1, f.mgr.RemoveAurasBySpell(2, 6020, 0, RemoveCancel))
	assert.False(t, f.mgr.HasAura(2, 6020))
	assert.Zero(t, f.mgr.RemoveAurasBySpell(9, 6020, 0, RemoveCancel))
}

func TestRemoveOwnedAura(t *testing.T) {
	f := newFixture(t)
	f.unit(1, 0, 0)
	f.spell(buff(1000, data.AuraDummy, 0))
	a := f.cast(1000, 1, 1)

	assert.False(t, f.mgr.RemoveOwnedAura(1, Key{SpellID: 1000, CasterID: 2}, RemoveCancel))
	assert.True(t, f.mgr.RemoveOwnedAura(1, a.Key(), RemoveCancel))
	assert.True(t, a.IsRemoved())
	assert.False(t, f.mgr.RemoveOwnedAura(1, a.Key(), RemoveCancel))
}

func TestSingleTarget_MovesToNewTarget(t *testing.T) {
	f := newFixture(t)
	f.unit(1, 0, 0)
	f.unit(2, 1, 0)
	f.unit(3, 2, 0)
	s := buff(8100, data.AuraDummy, 0)
	s.Attributes |= data.AttrSingleTarget
	f.spell(s)

	first := f.cast(8100, 1, 2)
	second := f.cast(8100, 1, 3)

	assert.True(t, first.IsRemoved())
	assert.False(t, second.IsRemoved())
	assert.True(t, f.mgr.HasAura(3, 8100))

	f.mgr.RemoveUnit(1)
	assert.True(t, second.IsRemoved(), "caster left, single target aura goes with it")
}

func TestRemoveUnit(t *testing.T) {
	f := newFixture(t)
	f.unit(1, 0, 0).SetFaction(1)
	f.unit(2, 1, 0).SetFaction(2)
	f.spell(buff(1000, data.AuraModStat, 10))
	f.spell(buff(1001, data.AuraDummy, 0))
	f.spell(groundDoT(4000))

	onOther := f.cast(1000, 1, 2)
	own := f.cast(1001, 2, 2)
	area, _, err := f.mgr.CreateAreaAura(AreaInfo{SpellID: 4000, CasterID: 2, Location: model.Location{X: 1}})
	require.NoError(t, err)

	f.mgr.RemoveUnit(2)

	assert.True(t, onOther.IsRemoved())
	assert.True(t, own.IsRemoved())
	assert.True(t, area.IsRemoved())
	assert.Empty(t, f.mgr.OwnedAuras(2))
	assert.Empty(t, f.mgr.AppliedAuras(2))
	assert.Empty(t, f.mgr.DynamicObjects())
}

