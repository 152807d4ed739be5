package data

import "github.com/udisondev/auracore/internal/model"

// MaxEffects is the number of effect slots a spell has.
const MaxEffects = 3

// AllEffectsMask covers every effect slot.
const AllEffectsMask uint8 = 1<<MaxEffects - 1

// Attr is a bit set of spell attributes relevant to auras.
type Attr uint64

const (
	AttrPassive Attr = 1 << iota
	AttrChanneled
	AttrMultiSlot
	AttrStackForDiffCasters
	AttrDontRefreshDurationOnRecast
	AttrCanProcFromProcs
	AttrNotAProc
	AttrTriggeredCanTriggerProc
	AttrDontBreakStealth
	AttrDontConsumeProcCharges
	AttrEnchantProc
	AttrPositive
	AttrNegative
	AttrDeathPersistent
	AttrDontResetPeriodicTimer
	AttrCannotBeSaved
	AttrSingleTarget
	AttrIgnoreProcSubclassMask
)

// SpellFamily groups class spells for stacking and modifiers.
type SpellFamily uint32

const (
	FamilyGeneric     SpellFamily = 0
	FamilyMage        SpellFamily = 3
	FamilyWarrior     SpellFamily = 4
	FamilyWarlock     SpellFamily = 5
	FamilyPriest      SpellFamily = 6
	FamilyDruid       SpellFamily = 7
	FamilyRogue       SpellFamily = 8
	FamilyHunter      SpellFamily = 9
	FamilyPaladin     SpellFamily = 10
	FamilyShaman      SpellFamily = 11
	FamilyPotion      SpellFamily = 13
	FamilyDeathKnight SpellFamily = 15
)

// FlagMask is a 96-bit family flag set.
type FlagMask [3]uint32

// Intersects reports whether the masks share a bit.
func (m FlagMask) Intersects(o FlagMask) bool {
	return m[0]&o[0] != 0 || m[1]&o[1] != 0 || m[2]&o[2] != 0
}

// IsZero reports an empty mask.
func (m FlagMask) IsZero() bool {
	return m == FlagMask{}
}

// EffectKind is the spell effect that creates an aura.
type EffectKind uint32

const (
	EffectNone EffectKind = iota
	EffectApplyAura
	EffectPersistentAreaAura
	EffectApplyAreaAuraParty
	EffectApplyAreaAuraRaid
	EffectApplyAreaAuraFriend
	EffectApplyAreaAuraEnemy
	EffectApplyAreaAuraPet
	EffectApplyAreaAuraOwner
)

// AuraType selects the handler of an aura effect.
type AuraType uint32

const (
	AuraNone AuraType = iota
	AuraDummy
	AuraPeriodicDamage
	AuraPeriodicHeal
	AuraPeriodicEnergize
	AuraPeriodicLeech
	AuraPeriodicDummy
	AuraPeriodicTriggerSpell
	AuraModStat
	AuraModSpeed
	AuraModStun
	AuraModRoot
	AuraModStealth
	AuraProcTriggerSpell
	AuraControlVehicle
	AuraTrackResources
	AuraAddFlatModifier
	AuraAddPctModifier
	AuraModShapeshift
	AuraSchoolImmunity
	AuraMechanicImmunity
	maxAuraType
)

// IsPeriodicOverTime reports aura types whose instances from different casters coexist.
func (t AuraType) IsPeriodicOverTime() bool {
	switch t {
	case AuraPeriodicDamage, AuraPeriodicDummy, AuraPeriodicHeal, AuraPeriodicTriggerSpell,
		AuraPeriodicEnergize, AuraPeriodicLeech:
		return true
	}
	return false
}

// TargetCheck is the relationship filter of ground-area (persistent) effects.
type TargetCheck uint8

const (
	TargetCheckDefault TargetCheck = iota
	TargetCheckAlly
	TargetCheckEnemy
	TargetCheckParty
	TargetCheckRaid
)

// SpellModOp selects what a spell modifier aura changes.
type SpellModOp int32

const (
	SpellModDuration SpellModOp = iota + 1
	SpellModCharges
	SpellModChanceOfSuccess
)

// SpecificType marks mutually exclusive spell categories.
type SpecificType uint8

const (
	SpecificNone SpecificType = iota
	SpecificSeal
	SpecificAspect
	SpecificTracker
	SpecificArmor
	SpecificElementalShield
	SpecificMagmaTotem
	SpecificPresence
	SpecificBattleElixir
	SpecificGuardianElixir
	SpecificSting
	SpecificCurse
	SpecificJudgement
)

// SpellEffectInfo describes one spell effect.
type SpellEffectInfo struct {
	Index         uint8       `yaml:"-"`
	Effect        EffectKind  `yaml:"effect"`
	AuraType      AuraType    `yaml:"aura"`
	BasePoints    int32       `yaml:"base_points"`
	Amplitude     int32       `yaml:"amplitude"`
	Radius        float64     `yaml:"radius"`
	MiscValue     int32       `yaml:"misc_value"`
	MiscValueB    int32       `yaml:"misc_value_b"`
	TriggerSpell  uint32      `yaml:"trigger_spell"`
	Mechanic      uint32      `yaml:"mechanic"`
	ClassMask     FlagMask    `yaml:"class_mask"`
	Positive      bool        `yaml:"positive"`
	TargetCheck   TargetCheck `yaml:"target_check"`
	ConditionList uint32      `yaml:"condition_list"`
}

// IsAreaAuraEffect reports effects that resolve targets by radius around a unit.
func (e *SpellEffectInfo) IsAreaAuraEffect() bool {
	switch e.Effect {
	case EffectApplyAreaAuraParty, EffectApplyAreaAuraRaid, EffectApplyAreaAuraFriend,
		EffectApplyAreaAuraEnemy, EffectApplyAreaAuraPet, EffectApplyAreaAuraOwner:
		return true
	}
	return false
}

// IsUnitOwnedAuraEffect reports effects that create auras owned by a unit.
func (e *SpellEffectInfo) IsUnitOwnedAuraEffect() bool {
	return e.Effect == EffectApplyAura || e.IsAreaAuraEffect()
}

// IsTargetingArea reports effects hitting more than one target.
func (e *SpellEffectInfo) IsTargetingArea() bool {
	return e.IsAreaAuraEffect() || e.Effect == EffectPersistentAreaAura || e.Radius > 0
}

// SpellInfo is an immutable spell template. It is shared and must NOT be modified after loading.
type SpellInfo struct {
	ID          uint32
	Name        string
	Family      SpellFamily
	FamilyFlags FlagMask
	FirstRankID uint32
	Rank        uint8
	Attributes  Attr
	Specific    SpecificType

	Duration    int32 // ms, -1 means permanent
	StackAmount uint8
	ProcCharges uint8
	ProcChance  uint32
	ProcFlags   ProcFlag

	EquippedItemClass        model.ItemClass
	EquippedItemSubClassMask uint32

	SchoolMask    uint32
	Mechanic      uint32
	PowerType     model.PowerType
	ManaPerSecond int32

	Effects [MaxEffects]*SpellEffectInfo
}

// HasAttr reports whether every bit of a is set.
func (s *SpellInfo) HasAttr(a Attr) bool {
	return s.Attributes&a == a
}

// IsPassive reports passive (talent/racial) spells.
func (s *SpellInfo) IsPassive() bool { return s.HasAttr(AttrPassive) }

// IsChanneled reports channeled spells.
func (s *SpellInfo) IsChanneled() bool { return s.HasAttr(AttrChanneled) }

// IsDeathPersistent reports auras kept on death.
func (s *SpellInfo) IsDeathPersistent() bool { return s.HasAttr(AttrDeathPersistent) }

// IsSingleTarget reports spells that may exist on a single target per caster.
func (s *SpellInfo) IsSingleTarget() bool { return s.HasAttr(AttrSingleTarget) }

// IsMultiSlotAura reports auras allowed to exist in several instances.
func (s *SpellInfo) IsMultiSlotAura() bool {
	return s.IsPassive() || s.HasAttr(AttrMultiSlot)
}

// IsStackableOnOneSlotWithDifferentCaster reports stackable auras that share
// one instance among all casters.
func (s *SpellInfo) IsStackableOnOneSlotWithDifferentCaster() bool {
	return s.StackAmount > 1 && !s.IsChanneled() && !s.HasAttr(AttrStackForDiffCasters)
}

// IsRankOf reports membership in the same rank chain.
func (s *SpellInfo) IsRankOf(o *SpellInfo) bool {
	return s.FirstRankID == o.FirstRankID
}

// IsDifferentRankOf reports another spell of the same rank chain.
func (s *SpellInfo) IsDifferentRankOf(o *SpellInfo) bool {
	return s.ID != o.ID && s.IsRankOf(o)
}

// HasAura reports an effect of the given aura type.
func (s *SpellInfo) HasAura(t AuraType) bool {
	for _, eff := range s.Effects {
		if eff != nil && eff.AuraType == t {
			return true
		}
	}
	return false
}

// HasAreaAuraEffect reports any unit-centred area aura effect.
func (s *SpellInfo) HasAreaAuraEffect() bool {
	for _, eff := range s.Effects {
		if eff != nil && eff.IsAreaAuraEffect() {
			return true
		}
	}
	return false
}

// EffectMask returns the bits of defined effects.
func (s *SpellInfo) EffectMask() uint8 {
	var mask uint8
	for i, eff := range s.Effects {
		if eff != nil && eff.Effect != EffectNone {
			mask |= 1 << i
		}
	}
	return mask
}

// IsPositiveEffect classifies one effect as beneficial.
func (s *SpellInfo) IsPositiveEffect(i uint8) bool {
	if s.HasAttr(AttrNegative) {
		return false
	}
	if s.HasAttr(AttrPositive) {
		return true
	}
	if int(i) >= MaxEffects || s.Effects[i] == nil {
		return false
	}
	return s.Effects[i].Positive
}

// IsPositive reports spells whose every effect is beneficial.
func (s *SpellInfo) IsPositive() bool {
	for i, eff := range s.Effects {
		if eff != nil && !s.IsPositiveEffect(uint8(i)) {
			return false
		}
	}
	return true
}

// IsAffected reports whether a family filter matches this spell.
// Family 0 matches everything; an empty mask matches the whole family.
func (s *SpellInfo) IsAffected(family SpellFamily, mask FlagMask) bool {
	if family == FamilyGeneric {
		return true
	}
	if s.Family != family {
		return false
	}
	return mask.IsZero() || s.FamilyFlags.Intersects(mask)
}

// IsExclusiveBySpecificWith reports specific categories exclusive regardless of caster.
func (s *SpellInfo) IsExclusiveBySpecificWith(o *SpellInfo) bool {
	if s.Specific == SpecificNone || s.Specific != o.Specific {
		return false
	}
	switch s.Specific {
	case SpecificSeal, SpecificAspect, SpecificTracker, SpecificArmor, SpecificElementalShield,
		SpecificMagmaTotem, SpecificPresence, SpecificBattleElixir, SpecificGuardianElixir:
		return true
	}
	return false
}

// IsExclusiveBySpecificPerCasterWith reports categories exclusive per caster.
func (s *SpellInfo) IsExclusiveBySpecificPerCasterWith(o *SpellInfo) bool {
	if s.Specific == SpecificNone || s.Specific != o.Specific {
		return false
	}
	switch s.Specific {
	case SpecificSting, SpecificCurse, SpecificJudgement:
		return true
	}
	return false
}
