package data

import "time"

// ProcFlag is a kind of combat event a proc can trigger on.
type ProcFlag uint32

const (
	ProcKilled ProcFlag = 1 << iota
	ProcKill
	ProcDoneMeleeAutoAttack
	ProcTakenMeleeAutoAttack
	ProcDoneSpellMeleeDmgClass
	ProcTakenSpellMeleeDmgClass
	ProcDoneRangedAutoAttack
	ProcTakenRangedAutoAttack
	ProcDoneSpellRangedDmgClass
	ProcTakenSpellRangedDmgClass
	ProcDoneSpellNoneDmgClassPos
	ProcTakenSpellNoneDmgClassPos
	ProcDoneSpellNoneDmgClassNeg
	ProcTakenSpellNoneDmgClassNeg
	ProcDoneSpellMagicDmgClassPos
	ProcTakenSpellMagicDmgClassPos
	ProcDoneSpellMagicDmgClassNeg
	ProcTakenSpellMagicDmgClassNeg
	ProcDonePeriodic
	ProcTakenPeriodic
	ProcTakenDamage
	ProcDeath
)

// Proc flag groups.
const (
	AutoAttackProcMask = ProcDoneMeleeAutoAttack | ProcTakenMeleeAutoAttack |
		ProcDoneRangedAutoAttack | ProcTakenRangedAutoAttack

	MeleeProcMask = ProcDoneMeleeAutoAttack | ProcTakenMeleeAutoAttack |
		ProcDoneSpellMeleeDmgClass | ProcTakenSpellMeleeDmgClass

	RangedProcMask = ProcDoneRangedAutoAttack | ProcTakenRangedAutoAttack |
		ProcDoneSpellRangedDmgClass | ProcTakenSpellRangedDmgClass

	SpellProcMask = ProcDoneSpellMeleeDmgClass | ProcTakenSpellMeleeDmgClass |
		ProcDoneSpellRangedDmgClass | ProcTakenSpellRangedDmgClass |
		ProcDoneSpellNoneDmgClassPos | ProcTakenSpellNoneDmgClassPos |
		ProcDoneSpellNoneDmgClassNeg | ProcTakenSpellNoneDmgClassNeg |
		ProcDoneSpellMagicDmgClassPos | ProcTakenSpellMagicDmgClassPos |
		ProcDoneSpellMagicDmgClassNeg | ProcTakenSpellMagicDmgClassNeg

	PeriodicProcMask = ProcDonePeriodic | ProcTakenPeriodic

	DoneHitProcMask = ProcDoneMeleeAutoAttack | ProcDoneRangedAutoAttack |
		ProcDoneSpellMeleeDmgClass | ProcDoneSpellRangedDmgClass |
		ProcDoneSpellNoneDmgClassPos | ProcDoneSpellNoneDmgClassNeg |
		ProcDoneSpellMagicDmgClassPos | ProcDoneSpellMagicDmgClassNeg |
		ProcDonePeriodic

	TakenHitProcMask = ProcTakenMeleeAutoAttack | ProcTakenRangedAutoAttack |
		ProcTakenSpellMeleeDmgClass | ProcTakenSpellRangedDmgClass |
		ProcTakenSpellNoneDmgClassPos | ProcTakenSpellNoneDmgClassNeg |
		ProcTakenSpellMagicDmgClassPos | ProcTakenSpellMagicDmgClassNeg |
		ProcTakenPeriodic | ProcTakenDamage

	ReqSpellPhaseProcMask = SpellProcMask & DoneHitProcMask

	AlwaysTriggerProcMask = ProcKilled | ProcKill | ProcDeath
)

// ProcSpellType classifies the event spell.
type ProcSpellType uint32

const (
	ProcSpellTypeDamage ProcSpellType = 1 << iota
	ProcSpellTypeHeal
	ProcSpellTypeNoDmgHeal
)

// ProcSpellPhase is the spell stage that raised the event.
type ProcSpellPhase uint32

const (
	ProcPhaseCast ProcSpellPhase = 1 << iota
	ProcPhaseHit
	ProcPhaseFinish
)

// ProcHit is the outcome of the hit.
type ProcHit uint32

const (
	ProcHitNormal ProcHit = 1 << iota
	ProcHitCritical
	ProcHitMiss
	ProcHitFullResist
	ProcHitDodge
	ProcHitParry
	ProcHitBlock
	ProcHitEvade
	ProcHitImmune
	ProcHitDeflect
	ProcHitAbsorb
	ProcHitReflect
	ProcHitInterrupt
)

// ProcAttr are per-entry proc options.
type ProcAttr uint32

const (
	ProcAttrTriggeredCanProc ProcAttr = 1 << iota
	ProcAttrReqSpellMod
	ProcAttrUseStacksForCharges
	ProcAttrReduceProcAboveLevel
	ProcAttrCantProcFromItemCast
)

// ProcEntry is a static proc table entry.
type ProcEntry struct {
	SpellID           uint32
	SchoolMask        uint32
	SpellFamily       SpellFamily
	SpellFamilyMask   FlagMask
	ProcFlags         ProcFlag
	SpellTypeMask     ProcSpellType
	SpellPhaseMask    ProcSpellPhase
	HitMask           ProcHit
	Attributes        ProcAttr
	DisableEffectMask uint8
	ProcsPerMinute    float64
	Chance            float64
	Cooldown          time.Duration
	Charges           uint8
}

// HasAttr reports a proc attribute.
func (p *ProcEntry) HasAttr(a ProcAttr) bool {
	return p.Attributes&a != 0
}

// ProcTrigger describes a combat event for the static proc filter.
type ProcTrigger struct {
	TypeMask   ProcFlag
	SpellType  ProcSpellType
	Phase      ProcSpellPhase
	Hit        ProcHit
	SchoolMask uint32
	Spell      *SpellInfo
	Triggered  bool
}

// CanTrigger applies the static event-type/school/family/phase/hit filter.
func (p *ProcEntry) CanTrigger(ev ProcTrigger) bool {
	if ev.TypeMask&p.ProcFlags == 0 {
		return false
	}
	if ev.TypeMask&AlwaysTriggerProcMask != 0 {
		return true
	}

	// Auto attacks are never triggered casts.
	if !p.HasAttr(ProcAttrTriggeredCanProc) && ev.TypeMask&AutoAttackProcMask == 0 {
		if ev.Spell != nil && ev.Triggered && !ev.Spell.HasAttr(AttrTriggeredCanTriggerProc) {
			return false
		}
	}

	if p.SchoolMask != 0 && ev.SchoolMask&p.SchoolMask == 0 {
		return false
	}

	if ev.TypeMask&SpellProcMask != 0 {
		if ev.Spell != nil && !ev.Spell.IsAffected(p.SpellFamily, p.SpellFamilyMask) {
			return false
		}
		if p.SpellTypeMask != 0 && ev.SpellType&p.SpellTypeMask == 0 {
			return false
		}
	}

	if ev.TypeMask&ReqSpellPhaseProcMask != 0 && ev.Phase&p.SpellPhaseMask == 0 {
		return false
	}

	if ev.TypeMask&TakenHitProcMask != 0 || (ev.TypeMask&DoneHitProcMask != 0 && ev.Phase&ProcPhaseCast == 0) {
		hitMask := p.HitMask
		if hitMask == 0 {
			if ev.TypeMask&TakenHitProcMask != 0 {
				hitMask = ProcHitNormal | ProcHitCritical
			} else {
				hitMask = ProcHitNormal | ProcHitCritical | ProcHitAbsorb
			}
		}
		if ev.Hit&hitMask == 0 {
			return false
		}
	}
	return true
}
