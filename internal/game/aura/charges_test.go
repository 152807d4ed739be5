package aura

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/auracore/internal/data"
)

func chargedBuff(id uint32, charges uint8) *data.SpellInfo {
	s := buff(id, data.AuraDummy, 0)
	s.ProcCharges = charges
	return s
}

func TestDropChargeDelayed_SecondRequestIgnored(t *testing.T) {
	f := newFixture(t)
	f.unit(1, 0, 0)
	f.spell(chargedBuff(3000, 3))
	a := f.cast(3000, 1, 1)
	require.Equal(t, uint8(3), a.Charges())

	f.mgr.DropChargeDelayed(a, 100*time.Millisecond, RemoveDefault)
	f.mgr.DropChargeDelayed(a, 100*time.Millisecond, RemoveDefault)

	f.mgr.Update(99 * time.Millisecond)
	assert.Equal(t, uint8(3), a.Charges())
	f.mgr.Update(time.Millisecond)
	assert.Equal(t, uint8(2), a.Charges())

	f.mgr.Update(time.Second)
	assert.Equal(t, uint8(2), a.Charges())
}

func TestDropChargeDelayed_CanceledByRemoval(t *testing.T) {
	f := newFixture(t)
	f.unit(1, 0, 0)
	f.spell(chargedBuff(3000, 1))
	a := f.cast(3000, 1, 1)

	f.mgr.DropChargeDelayed(a, 100*time.Millisecond, RemoveDefault)
	f.mgr.RemoveAura(a, RemoveCancel)
	require.True(t, a.IsRemoved())

	assert.NotPanics(t, func() { f.mgr.Update(time.Second) })
	assert.Equal(t, uint8(1), a.Charges())
}

func TestDropChargeDelayed_DelaysExpiry(t *testing.T) {
	f := newFixture(t)
	f.unit(1, 0, 0)
	s := chargedBuff(3000, 1)
	s.Duration = 1000
	f.spell(s)
	a := f.cast(3000, 1, 1)

	f.mgr.DropChargeDelayed(a, 2*time.Second, RemoveDefault)
	f.mgr.Update(time.Second)
	assert.Zero(t, a.Duration())
	assert.False(t, a.IsRemoved(), "pending charge drop keeps the aura")

	f.mgr.Update(time.Second)
	assert.True(t, a.IsRemoved())
}

func TestModCharges(t *testing.T) {
	f := newFixture(t)
	f.unit(1, 0, 0)
	f.spell(chargedBuff(3000, 2))
	f.spell(buff(3001, data.AuraDummy, 0))

	a := f.cast(3000, 1, 1)
	assert.False(t, f.mgr.ModCharges(a, 5, RemoveDefault))
	assert.Equal(t, uint8(2), a.Charges(), "clamped to the maximum")
	assert.False(t, f.mgr.DropCharge(a, RemoveDefault))
	assert.True(t, f.mgr.DropCharge(a, RemoveDefault))
	assert.True(t, a.IsRemoved())

	plain := f.cast(3001, 1, 1)
	assert.False(t, f.mgr.ModCharges(plain, -1, RemoveDefault), "auras without charges ignore them")
	assert.False(t, plain.IsRemoved())
}

func TestStackAmount(t *testing.T) {
	f := newFixture(t)
	u := f.unit(1, 0, 0)
	s := buff(3010, data.AuraModStat, 10)
	s.StackAmount = 3
	f.spell(s)
	a := f.cast(3010, 1, 1)

	f.mgr.SetStackAmount(a, 10)
	assert.Equal(t, uint8(3), a.StackAmount())
	assert.Equal(t, 30.0, strength(u))

	f.mgr.Update(4 * time.Second)
	f.mgr.SetStackAmount(a, 2)
	assert.Equal(t, int32(6000), a.Duration(), "setting the stack keeps timers")
	assert.Equal(t, 20.0, strength(u))

	assert.False(t, f.mgr.ModStackAmount(a, 1, RemoveDefault, true))
	assert.Equal(t, int32(10000), a.Duration(), "adding a stack refreshes")

	assert.True(t, f.mgr.ModStackAmount(a, -3, RemoveCancel, true))
	assert.True(t, a.IsRemoved())
	assert.Zero(t, strength(u))
}
