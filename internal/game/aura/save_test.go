package aura

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/auracore/internal/data"
)

func stackingBuff(id uint32) *data.SpellInfo {
	s := buff(id, data.AuraModStat, 10)
	s.StackAmount = 3
	return s
}

func TestSaveAuras(t *testing.T) {
	f := newFixture(t)
	f.unit(1, 0, 0)
	f.unit(2, 1, 0)
	f.spell(stackingBuff(9000))
	passive := buff(9001, data.AuraDummy, 0)
	passive.Attributes |= data.AttrPassive
	f.spell(passive)
	unsaved := buff(9002, data.AuraDummy, 0)
	unsaved.Attributes |= data.AttrCannotBeSaved
	f.spell(unsaved)

	a := f.cast(9000, 1, 2)
	f.cast(9000, 1, 2)
	f.cast(9001, 2, 2)
	f.cast(9002, 2, 2)
	f.mgr.Update(5 * time.Second)
	require.Equal(t, uint8(2), a.StackAmount())

	saved := f.mgr.SaveAuras(2)
	require.Len(t, saved, 1)
	s := saved[0]
	assert.Equal(t, uint32(9000), s.SpellID)
	assert.Equal(t, uint32(1), s.CasterID)
	assert.Equal(t, uint8(1), s.EffectMask)
	assert.Equal(t, uint8(1), s.RecalculateMask)
	assert.Equal(t, uint8(2), s.StackAmount)
	assert.Equal(t, int32(5000), s.Duration)
	assert.Equal(t, int32(10000), s.MaxDuration)
	assert.Equal(t, int32(20), s.Amounts[0])
	assert.Equal(t, int32(10), s.BaseAmounts[0])

	assert.Nil(t, f.mgr.SaveAuras(42))
}

func TestLoadAuras(t *testing.T) {
	f := newFixture(t)
	u := f.unit(5, 0, 0)
	f.spell(stackingBuff(9000))

	saved := []SavedAura{
		{SpellID: 424242, CasterID: 5, EffectMask: 1, StackAmount: 1, Duration: 1000, MaxDuration: 1000},
		{
			SpellID: 9000, CasterID: 1, EffectMask: 1, RecalculateMask: 1, StackAmount: 2,
			Duration: 5000, MaxDuration: 10000,
			Amounts: [data.MaxEffects]int32{20}, BaseAmounts: [data.MaxEffects]int32{10},
		},
	}
	n, err := f.mgr.LoadAuras(5, saved)
	require.NoError(t, err)
	assert.Equal(t, 1, n, "unknown spell skipped")

	owned := f.mgr.OwnedAuras(5)
	require.Len(t, owned, 1)
	a := owned[0]
	assert.Equal(t, uint8(2), a.StackAmount())
	assert.Equal(t, int32(5000), a.Duration())
	assert.Equal(t, int32(10000), a.MaxDuration())
	assert.Equal(t, 20.0, strength(u))

	n, err = f.mgr.LoadAuras(5, saved)
	require.NoError(t, err)
	assert.Zero(t, n, "already owned")

	_, err = f.mgr.LoadAuras(77, saved)
	assert.ErrorIs(t, err, ErrUnknownOwner)
}

func TestLoadAuras_ContinuesPeriodicTimer(t *testing.T) {
	src := newFixture(t)
	src.unit(1, 0, 0)
	src.unit(2, 1, 0)
	src.spell(dot(6020, 10))
	src.cast(6020, 1, 2)
	src.mgr.Update(4 * time.Second)

	saved := src.mgr.SaveAuras(2)
	require.Len(t, saved, 1)

	dst := newFixture(t)
	dst.unit(2, 1, 0)
	dst.spell(dot(6020, 10))
	n, err := dst.mgr.LoadAuras(2, saved)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	eff := dst.mgr.OwnedAuras(2)[0].Effect(0)
	assert.Equal(t, uint32(1), eff.TickNumber())
	assert.Equal(t, int32(2000), eff.PeriodicTimer())
}

func TestLoadAuras_ClampsStaleCounters(t *testing.T) {
	f := newFixture(t)
	u := f.unit(5, 0, 0)
	s := stackingBuff(9000)
	s.ProcCharges = 2
	f.spell(s)

	n, err := f.mgr.LoadAuras(5, []SavedAura{{
		SpellID: 9000, CasterID: 1, EffectMask: 1, RecalculateMask: 1,
		StackAmount: 9, Charges: 7, Duration: 5000, MaxDuration: 10000,
		BaseAmounts: [data.MaxEffects]int32{10},
	}})
	require.NoError(t, err)
	require.Equal(t, 1, n)

	a := f.mgr.OwnedAuras(5)[0]
	assert.Equal(t, uint8(3), a.StackAmount())
	assert.Equal(t, uint8(2), a.Charges())
	assert.Equal(t, 30.0, strength(u))
}
