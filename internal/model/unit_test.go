package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnit_ModifyHealthClamps(t *testing.T) {
	u := NewUnit(1, "u", KindPlayer, Location{}, 10, 100)

	assert.EqualValues(t, -30, u.ModifyHealth(-30))
	assert.EqualValues(t, 70, u.Health())

	assert.EqualValues(t, 30, u.ModifyHealth(500), "heal clamps at max")
	assert.EqualValues(t, 100, u.Health())

	assert.EqualValues(t, -100, u.ModifyHealth(-1000))
	assert.False(t, u.IsAlive())
}

func TestUnit_Powers(t *testing.T) {
	u := NewUnit(1, "u", KindPlayer, Location{}, 10, 100)
	u.SetMaxPower(PowerMana, 50)

	assert.EqualValues(t, 50, u.Power(PowerMana))
	assert.EqualValues(t, -20, u.ModifyPower(PowerMana, -20))
	assert.EqualValues(t, 30, u.Power(PowerMana))
	assert.EqualValues(t, -30, u.ModifyPower(PowerMana, -100))
	assert.EqualValues(t, 0, u.Power(PowerMana))

	assert.EqualValues(t, 100, u.Power(PowerHealth), "health pseudo power reads health")
	u.ModifyPower(PowerHealth, -10)
	assert.EqualValues(t, 90, u.Health())

	assert.EqualValues(t, 0, u.Power(MaxPowers))
}

func TestUnit_Relations(t *testing.T) {
	a := NewUnit(1, "a", KindPlayer, Location{}, 10, 100)
	b := NewUnit(2, "b", KindPlayer, Location{}, 10, 100)
	c := NewUnit(3, "c", KindCreature, Location{}, 10, 100)
	a.SetFaction(1)
	b.SetFaction(1)
	c.SetFaction(2)

	assert.True(t, a.IsFriendlyTo(b))
	assert.True(t, a.IsHostileTo(c))

	assert.False(t, a.IsInPartyWith(b), "no group")
	a.SetGroup(7, 0)
	b.SetGroup(7, 1)
	assert.True(t, a.IsInRaidWith(b))
	assert.False(t, a.IsInPartyWith(b))
	b.SetGroup(7, 0)
	assert.True(t, a.IsInPartyWith(b))
	assert.True(t, c.IsInPartyWith(c))
}

func TestUnit_CharmerOrOwner(t *testing.T) {
	pet := NewUnit(10, "pet", KindPet, Location{}, 10, 100)
	assert.Zero(t, pet.CharmerOrOwnerID())

	pet.SetOwnerID(1)
	assert.EqualValues(t, 1, pet.CharmerOrOwnerID())

	pet.SetCharmerID(2)
	assert.EqualValues(t, 2, pet.CharmerOrOwnerID())
}

func TestUnit_StateCounters(t *testing.T) {
	u := NewUnit(1, "u", KindCreature, Location{}, 10, 100)

	u.ModifyState(StateStunned, true)
	u.ModifyState(StateStunned, true)
	u.ModifyState(StateStunned, false)
	assert.True(t, u.HasState(StateStunned), "second source still holds the stun")

	u.ModifyState(StateStunned, false)
	u.ModifyState(StateStunned, false)
	assert.False(t, u.HasState(StateStunned))
}

func TestUnit_Immunity(t *testing.T) {
	u := NewUnit(1, "u", KindCreature, Location{}, 10, 100)

	u.ApplySchoolImmunity(0b0110, true)
	assert.True(t, u.IsImmuneToSchool(0b0010))
	assert.True(t, u.IsImmuneToSchool(0b0110))
	assert.False(t, u.IsImmuneToSchool(0b0011), "partial immunity is not immunity")
	assert.False(t, u.IsImmuneToSchool(0))

	u.ApplyMechanicImmunity(12, true)
	u.ApplyMechanicImmunity(12, true)
	u.ApplyMechanicImmunity(12, false)
	assert.True(t, u.IsImmuneToMechanic(12))
	u.ApplyMechanicImmunity(12, false)
	assert.False(t, u.IsImmuneToMechanic(12))

	u.ApplyAuraTypeImmunity(3, true)
	assert.True(t, u.IsImmuneToAuraType(3))
}

func TestUnit_StatModifiers(t *testing.T) {
	u := NewUnit(1, "u", KindPlayer, Location{}, 10, 100)

	u.SetStatModifiers(1, StatModifier{Stat: StatSpeed, Type: StatModPct, Value: 50})
	u.SetStatModifiers(2, StatModifier{Stat: StatStrength, Type: StatModAdd, Value: 10},
		StatModifier{Stat: StatStrength, Type: StatModAdd, Value: 5})

	add, mul := u.StatBonus(StatStrength)
	assert.InDelta(t, 15, add, 1e-9)
	assert.InDelta(t, 1, mul, 1e-9)
	assert.InDelta(t, 1.5, u.SpeedRate(), 1e-9)

	u.RemoveStatModifiers(1)
	assert.InDelta(t, 1.0, u.SpeedRate(), 1e-9)

	u.SetStatModifiers(2)
	add, _ = u.StatBonus(StatStrength)
	assert.Zero(t, add)
}

func TestUnit_Equipment(t *testing.T) {
	u := NewUnit(1, "u", KindPlayer, Location{}, 10, 100)
	sword := &Item{ID: 1, Class: ItemClassWeapon, SubClass: 7}
	shield := &Item{ID: 2, Class: ItemClassArmor, SubClass: ArmorSubClassShield}

	u.Equip(SlotMainHand, sword)
	u.Equip(SlotOffHand, shield)

	require.Same(t, sword, u.WeaponForAttack(BaseAttack))
	assert.Nil(t, u.WeaponForAttack(RangedAttack))
	assert.True(t, sword.FitsMask(ItemClassWeapon, 1<<7))
	assert.False(t, sword.FitsMask(ItemClassArmor, 1<<7))
	assert.Same(t, shield, u.UsableShield())

	shield.Broken = true
	assert.Nil(t, u.UsableShield())

	u.Equip(SlotMainHand, nil)
	assert.Nil(t, u.WeaponForAttack(BaseAttack))
}

func TestUnit_VehicleSeats(t *testing.T) {
	u := NewUnit(1, "u", KindCreature, Location{}, 10, 100)
	assert.False(t, u.IsVehicle())

	u.SetVehicleSeats(1)
	assert.True(t, u.HasEmptySeat())
	u.ModifySeats(1)
	assert.False(t, u.HasEmptySeat())
	u.ModifySeats(-5)
	assert.True(t, u.HasEmptySeat())
}

func TestShapeshiftForm_IsFeral(t *testing.T) {
	assert.True(t, FormCat.IsFeral())
	assert.True(t, FormDireBear.IsFeral())
	assert.False(t, FormMoonkin.IsFeral())
	assert.False(t, FormNone.IsFeral())
}
