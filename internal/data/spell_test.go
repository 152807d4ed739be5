package data

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFlagMask(t *testing.T) {
	assert.True(t, FlagMask{}.IsZero())
	assert.True(t, FlagMask{0, 4, 0}.Intersects(FlagMask{0, 6, 0}))
	assert.False(t, FlagMask{1, 0, 0}.Intersects(FlagMask{2, 0, 0}))
}

func TestSpellInfo_IsAffected(t *testing.T) {
	s := &SpellInfo{Family: FamilyMage, FamilyFlags: FlagMask{0x10}}

	assert.True(t, s.IsAffected(FamilyGeneric, FlagMask{}), "generic family matches all")
	assert.True(t, s.IsAffected(FamilyMage, FlagMask{}), "empty mask matches family")
	assert.True(t, s.IsAffected(FamilyMage, FlagMask{0x30}))
	assert.False(t, s.IsAffected(FamilyMage, FlagMask{0x01}))
	assert.False(t, s.IsAffected(FamilyPriest, FlagMask{}))
}

func TestSpellInfo_Stackable(t *testing.T) {
	s := &SpellInfo{StackAmount: 5}
	assert.True(t, s.IsStackableOnOneSlotWithDifferentCaster())

	s.Attributes = AttrStackForDiffCasters
	assert.False(t, s.IsStackableOnOneSlotWithDifferentCaster())

	s = &SpellInfo{StackAmount: 5, Attributes: AttrChanneled}
	assert.False(t, s.IsStackableOnOneSlotWithDifferentCaster())

	assert.False(t, (&SpellInfo{StackAmount: 1}).IsStackableOnOneSlotWithDifferentCaster())
}

func TestSpellInfo_Positive(t *testing.T) {
	s := &SpellInfo{Effects: [MaxEffects]*SpellEffectInfo{
		{Effect: EffectApplyAura, Positive: true},
		{Effect: EffectApplyAura},
	}}
	assert.True(t, s.IsPositiveEffect(0))
	assert.False(t, s.IsPositiveEffect(1))
	assert.False(t, s.IsPositiveEffect(2))
	assert.False(t, s.IsPositive())

	s.Attributes = AttrPositive
	assert.True(t, s.IsPositive())

	s.Attributes = AttrNegative
	assert.False(t, s.IsPositiveEffect(0))
}

func TestSpellInfo_Exclusivity(t *testing.T) {
	seal := &SpellInfo{Specific: SpecificSeal}
	otherSeal := &SpellInfo{Specific: SpecificSeal}
	curse := &SpellInfo{Specific: SpecificCurse}
	otherCurse := &SpellInfo{Specific: SpecificCurse}

	assert.True(t, seal.IsExclusiveBySpecificWith(otherSeal))
	assert.False(t, seal.IsExclusiveBySpecificPerCasterWith(otherSeal))
	assert.False(t, curse.IsExclusiveBySpecificWith(otherCurse))
	assert.True(t, curse.IsExclusiveBySpecificPerCasterWith(otherCurse))
	assert.False(t, seal.IsExclusiveBySpecificWith(curse))
	assert.False(t, (&SpellInfo{}).IsExclusiveBySpecificWith(&SpellInfo{}))
}

func TestSpellEffectInfo_Area(t *testing.T) {
	party := &SpellEffectInfo{Effect: EffectApplyAreaAuraParty}
	assert.True(t, party.IsAreaAuraEffect())
	assert.True(t, party.IsUnitOwnedAuraEffect())

	dyn := &SpellEffectInfo{Effect: EffectPersistentAreaAura}
	assert.False(t, dyn.IsAreaAuraEffect())
	assert.False(t, dyn.IsUnitOwnedAuraEffect())
	assert.True(t, dyn.IsTargetingArea())

	single := &SpellEffectInfo{Effect: EffectApplyAura}
	assert.True(t, single.IsUnitOwnedAuraEffect())
	assert.False(t, single.IsTargetingArea())
}
