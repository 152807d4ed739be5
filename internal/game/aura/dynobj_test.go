package aura

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/auracore/internal/data"
	"github.com/udisondev/auracore/internal/model"
)

func groundDoT(id uint32) *data.SpellInfo {
	return &data.SpellInfo{
		ID:       id,
		Duration: 8000,
		Effects: [data.MaxEffects]*data.SpellEffectInfo{
			{
				Effect:      data.EffectPersistentAreaAura,
				AuraType:    data.AuraPeriodicDamage,
				BasePoints:  5,
				Amplitude:   1000,
				Radius:      8,
				TargetCheck: data.TargetCheckEnemy,
			},
		},
	}
}

func TestCreateAreaAura_OverlapRefreshesSameCaster(t *testing.T) {
	f := newFixture(t)
	caster := f.unit(1, 0, 0)
	caster.SetFaction(1)
	enemy := f.unit(2, 3, 0)
	enemy.SetFaction(2)
	other := f.unit(3, 0, 3)
	other.SetFaction(1)
	f.spell(groundDoT(4000))

	a, refreshed, err := f.mgr.CreateAreaAura(AreaInfo{SpellID: 4000, CasterID: 1, Location: model.Location{}})
	require.NoError(t, err)
	assert.False(t, refreshed)
	assert.Equal(t, KindDynObj, a.Kind())
	assert.True(t, f.mgr.HasAura(2, 4000))
	assert.False(t, f.mgr.HasAura(1, 4000), "caster is not an enemy")

	f.mgr.Update(2 * time.Second)
	assert.Equal(t, int32(6000), a.Duration())
	assert.Equal(t, int32(990), enemy.Health())

	again, refreshed, err := f.mgr.CreateAreaAura(AreaInfo{SpellID: 4000, CasterID: 1, Location: model.Location{X: 5}})
	require.NoError(t, err)
	assert.True(t, refreshed)
	assert.Same(t, a, again)
	assert.Equal(t, int32(8000), a.Duration())

	far, refreshed, err := f.mgr.CreateAreaAura(AreaInfo{SpellID: 4000, CasterID: 1, Location: model.Location{X: 100}})
	require.NoError(t, err)
	assert.False(t, refreshed)
	assert.NotSame(t, a, far)

	foreign, refreshed, err := f.mgr.CreateAreaAura(AreaInfo{SpellID: 4000, CasterID: 3, Location: model.Location{}})
	require.NoError(t, err)
	assert.False(t, refreshed)
	assert.NotSame(t, a, foreign)
	assert.Len(t, f.mgr.AppliedAuras(2), 2, "areas of different casters stack")
	assert.Len(t, f.mgr.DynamicObjects(), 3)
}

func TestCreateAreaAura_ExpiresAndFollowsCaster(t *testing.T) {
	f := newFixture(t)
	f.unit(1, 0, 0).SetFaction(1)
	f.unit(2, 3, 0).SetFaction(2)
	f.spell(groundDoT(4000))

	a, _, err := f.mgr.CreateAreaAura(AreaInfo{SpellID: 4000, CasterID: 1})
	require.NoError(t, err)

	f.mgr.Update(8 * time.Second)
	assert.True(t, a.IsRemoved())
	assert.False(t, f.mgr.HasAura(2, 4000))
	assert.Empty(t, f.mgr.DynamicObjects())

	b, _, err := f.mgr.CreateAreaAura(AreaInfo{SpellID: 4000, CasterID: 1})
	require.NoError(t, err)
	f.world.RemoveUnit(1)
	f.mgr.Update(100 * time.Millisecond)
	assert.True(t, b.IsRemoved(), "caster left the world")
}

func TestCreateAreaAura_SkipsFlyingUnits(t *testing.T) {
	f := newFixture(t)
	f.unit(1, 0, 0).SetFaction(1)
	bird := f.unit(2, 3, 0)
	bird.SetFaction(2)
	bird.SetFlying(true)
	f.spell(groundDoT(4000))

	_, _, err := f.mgr.CreateAreaAura(AreaInfo{SpellID: 4000, CasterID: 1})
	require.NoError(t, err)
	assert.False(t, f.mgr.HasAura(2, 4000))
}

func TestCreateAreaAura_Errors(t *testing.T) {
	f := newFixture(t)
	f.unit(1, 0, 0)
	f.spell(buff(1000, data.AuraDummy, 0))

	_, _, err := f.mgr.CreateAreaAura(AreaInfo{SpellID: 1000, CasterID: 1})
	assert.ErrorIs(t, err, ErrNoEffects)
	_, _, err = f.mgr.CreateAreaAura(AreaInfo{SpellID: 9, CasterID: 1})
	assert.ErrorIs(t, err, ErrUnknownSpell)
	_, _, err = f.mgr.CreateAreaAura(AreaInfo{SpellID: 1000, CasterID: 5})
	assert.ErrorIs(t, err, ErrUnknownOwner)
}
