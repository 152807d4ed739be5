package data

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/udisondev/auracore/internal/model"
)

var familyNames = map[string]SpellFamily{
	"generic": FamilyGeneric, "mage": FamilyMage, "warrior": FamilyWarrior, "warlock": FamilyWarlock,
	"priest": FamilyPriest, "druid": FamilyDruid, "rogue": FamilyRogue, "hunter": FamilyHunter,
	"paladin": FamilyPaladin, "shaman": FamilyShaman, "potion": FamilyPotion, "death_knight": FamilyDeathKnight,
}

var attrNames = map[string]Attr{
	"passive":                          AttrPassive,
	"channeled":                        AttrChanneled,
	"multi_slot":                       AttrMultiSlot,
	"stack_for_diff_casters":           AttrStackForDiffCasters,
	"dont_refresh_duration_on_recast":  AttrDontRefreshDurationOnRecast,
	"can_proc_from_procs":              AttrCanProcFromProcs,
	"not_a_proc":                       AttrNotAProc,
	"triggered_can_trigger_proc":       AttrTriggeredCanTriggerProc,
	"dont_break_stealth":               AttrDontBreakStealth,
	"dont_consume_proc_charges":        AttrDontConsumeProcCharges,
	"enchant_proc":                     AttrEnchantProc,
	"positive":                         AttrPositive,
	"negative":                         AttrNegative,
	"death_persistent":                 AttrDeathPersistent,
	"dont_reset_periodic_timer":        AttrDontResetPeriodicTimer,
	"cannot_be_saved":                  AttrCannotBeSaved,
	"single_target":                    AttrSingleTarget,
	"ignore_proc_subclass_mask":        AttrIgnoreProcSubclassMask,
}

var effectNames = map[string]EffectKind{
	"none":                   EffectNone,
	"apply_aura":             EffectApplyAura,
	"persistent_area_aura":   EffectPersistentAreaAura,
	"apply_area_aura_party":  EffectApplyAreaAuraParty,
	"apply_area_aura_raid":   EffectApplyAreaAuraRaid,
	"apply_area_aura_friend": EffectApplyAreaAuraFriend,
	"apply_area_aura_enemy":  EffectApplyAreaAuraEnemy,
	"apply_area_aura_pet":    EffectApplyAreaAuraPet,
	"apply_area_aura_owner":  EffectApplyAreaAuraOwner,
}

var auraNames = map[string]AuraType{
	"none":                 AuraNone,
	"dummy":                AuraDummy,
	"periodic_damage":      AuraPeriodicDamage,
	"periodic_heal":        AuraPeriodicHeal,
	"periodic_energize":    AuraPeriodicEnergize,
	"periodic_leech":       AuraPeriodicLeech,
	"periodic_dummy":       AuraPeriodicDummy,
	"periodic_trigger":     AuraPeriodicTriggerSpell,
	"mod_stat":             AuraModStat,
	"mod_speed":            AuraModSpeed,
	"mod_stun":             AuraModStun,
	"mod_root":             AuraModRoot,
	"mod_stealth":          AuraModStealth,
	"proc_trigger_spell":   AuraProcTriggerSpell,
	"control_vehicle":      AuraControlVehicle,
	"track_resources":      AuraTrackResources,
	"add_flat_modifier":    AuraAddFlatModifier,
	"add_pct_modifier":     AuraAddPctModifier,
	"mod_shapeshift":       AuraModShapeshift,
	"school_immunity":      AuraSchoolImmunity,
	"mechanic_immunity":    AuraMechanicImmunity,
}

var targetCheckNames = map[string]TargetCheck{
	"default": TargetCheckDefault, "ally": TargetCheckAlly, "enemy": TargetCheckEnemy,
	"party": TargetCheckParty, "raid": TargetCheckRaid,
}

var specificNames = map[string]SpecificType{
	"": SpecificNone, "none": SpecificNone, "seal": SpecificSeal, "aspect": SpecificAspect,
	"tracker": SpecificTracker, "armor": SpecificArmor, "elemental_shield": SpecificElementalShield,
	"magma_totem": SpecificMagmaTotem, "presence": SpecificPresence, "battle_elixir": SpecificBattleElixir,
	"guardian_elixir": SpecificGuardianElixir, "sting": SpecificSting, "curse": SpecificCurse,
	"judgement": SpecificJudgement,
}

var powerNames = map[string]model.PowerType{
	"": model.PowerMana, "mana": model.PowerMana, "rage": model.PowerRage, "focus": model.PowerFocus,
	"energy": model.PowerEnergy, "runic": model.PowerRunic, "health": model.PowerHealth,
}

var procFlagNames = map[string]ProcFlag{
	"killed":                         ProcKilled,
	"kill":                           ProcKill,
	"done_melee_auto_attack":         ProcDoneMeleeAutoAttack,
	"taken_melee_auto_attack":        ProcTakenMeleeAutoAttack,
	"done_spell_melee_dmg_class":     ProcDoneSpellMeleeDmgClass,
	"taken_spell_melee_dmg_class":    ProcTakenSpellMeleeDmgClass,
	"done_ranged_auto_attack":        ProcDoneRangedAutoAttack,
	"taken_ranged_auto_attack":       ProcTakenRangedAutoAttack,
	"done_spell_ranged_dmg_class":    ProcDoneSpellRangedDmgClass,
	"taken_spell_ranged_dmg_class":   ProcTakenSpellRangedDmgClass,
	"done_spell_none_dmg_class_pos":  ProcDoneSpellNoneDmgClassPos,
	"taken_spell_none_dmg_class_pos": ProcTakenSpellNoneDmgClassPos,
	"done_spell_none_dmg_class_neg":  ProcDoneSpellNoneDmgClassNeg,
	"taken_spell_none_dmg_class_neg": ProcTakenSpellNoneDmgClassNeg,
	"done_spell_magic_dmg_class_pos": ProcDoneSpellMagicDmgClassPos,
	"taken_spell_magic_dmg_class_pos": ProcTakenSpellMagicDmgClassPos,
	"done_spell_magic_dmg_class_neg": ProcDoneSpellMagicDmgClassNeg,
	"taken_spell_magic_dmg_class_neg": ProcTakenSpellMagicDmgClassNeg,
	"done_periodic":                  ProcDonePeriodic,
	"taken_periodic":                 ProcTakenPeriodic,
	"taken_damage":                   ProcTakenDamage,
	"death":                          ProcDeath,
}

var procAttrNames = map[string]ProcAttr{
	"triggered_can_proc":        ProcAttrTriggeredCanProc,
	"req_spellmod":              ProcAttrReqSpellMod,
	"use_stacks_for_charges":    ProcAttrUseStacksForCharges,
	"reduce_proc_above_level":   ProcAttrReduceProcAboveLevel,
	"cant_proc_from_item_cast":  ProcAttrCantProcFromItemCast,
}

var spellTypeNames = map[string]ProcSpellType{
	"damage": ProcSpellTypeDamage, "heal": ProcSpellTypeHeal, "no_dmg_heal": ProcSpellTypeNoDmgHeal,
}

var phaseNames = map[string]ProcSpellPhase{
	"cast": ProcPhaseCast, "hit": ProcPhaseHit, "finish": ProcPhaseFinish,
}

var hitNames = map[string]ProcHit{
	"normal": ProcHitNormal, "critical": ProcHitCritical, "miss": ProcHitMiss, "full_resist": ProcHitFullResist,
	"dodge": ProcHitDodge, "parry": ProcHitParry, "block": ProcHitBlock, "evade": ProcHitEvade,
	"immune": ProcHitImmune, "deflect": ProcHitDeflect, "absorb": ProcHitAbsorb, "reflect": ProcHitReflect,
	"interrupt": ProcHitInterrupt,
}

var stackRuleNames = map[string]StackRule{
	"default": StackRuleDefault, "exclusive": StackRuleExclusive,
	"exclusive_from_same_caster": StackRuleExclusiveFromSameCaster,
	"exclusive_same_effect":      StackRuleExclusiveSameEffect,
	"exclusive_highest":          StackRuleExclusiveHighest,
}

var conditionNames = map[string]ConditionType{
	"aura": ConditionAura, "level": ConditionLevel, "health_pct": ConditionHealthPct,
	"unit_kind": ConditionUnitKind, "alive": ConditionAlive, "in_group_with": ConditionInGroupWith,
	"flying": ConditionFlying,
}

type enumValue interface {
	~uint8 | ~uint32 | ~uint64
}

// lookupName resolves a symbolic name, accepting plain numbers as well.
func lookupName[T enumValue](names map[string]T, kind, name string) (T, error) {
	if v, ok := names[name]; ok {
		return v, nil
	}
	if n, err := strconv.ParseUint(name, 0, 64); err == nil {
		return T(n), nil
	}
	return 0, fmt.Errorf("unknown %s %q", kind, name)
}

// parseMask ORs the values of every listed name.
func parseMask[T enumValue](names map[string]T, kind string, list []string) (T, error) {
	var mask T
	for _, name := range list {
		v, err := lookupName(names, kind, name)
		if err != nil {
			return 0, err
		}
		mask |= v
	}
	return mask, nil
}

func decodeEnum[T enumValue](n *yaml.Node, names map[string]T, kind string, out *T) error {
	var s string
	if err := n.Decode(&s); err != nil {
		return err
	}
	v, err := lookupName(names, kind, s)
	if err != nil {
		return fmt.Errorf("line %d: %w", n.Line, err)
	}
	*out = v
	return nil
}

// UnmarshalYAML decodes an effect kind by name.
func (k *EffectKind) UnmarshalYAML(n *yaml.Node) error {
	return decodeEnum(n, effectNames, "effect", k)
}

// UnmarshalYAML decodes an aura type by name.
func (t *AuraType) UnmarshalYAML(n *yaml.Node) error {
	return decodeEnum(n, auraNames, "aura type", t)
}

// UnmarshalYAML decodes a target check by name.
func (c *TargetCheck) UnmarshalYAML(n *yaml.Node) error {
	return decodeEnum(n, targetCheckNames, "target check", c)
}

// UnmarshalYAML decodes up to three 32-bit words.
func (m *FlagMask) UnmarshalYAML(n *yaml.Node) error {
	var words []uint32
	if err := n.Decode(&words); err != nil {
		return err
	}
	if len(words) > len(m) {
		return fmt.Errorf("line %d: flag mask has %d words, max %d", n.Line, len(words), len(m))
	}
	*m = FlagMask{}
	copy(m[:], words)
	return nil
}
