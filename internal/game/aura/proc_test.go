package aura

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/auracore/internal/data"
	"github.com/udisondev/auracore/internal/model"
)

func meleeHit(attacker, victim uint32) CombatEvent {
	return CombatEvent{
		ActorID:    attacker,
		TargetID:   victim,
		ActorMask:  data.ProcDoneMeleeAutoAttack,
		TargetMask: data.ProcTakenMeleeAutoAttack,
		Hit:        data.ProcHitNormal,
		Damage:     &DamageInfo{AttackType: model.BaseAttack, Amount: 10},
	}
}

type procCounter struct{ n *int }

func (procCounter) Name() string { return "proc_counter" }

func (s procCounter) Register(h *HookSet) {
	h.OnProc(func(*HookContext, *ProcEvent) { *s.n++ })
}

func TestProc_ChargesConsumedThenRemoved(t *testing.T) {
	f := newFixture(t)
	f.unit(1, 0, 0)
	f.unit(2, 3, 0)
	f.spell(buff(2000, data.AuraDummy, 0))
	f.repo.AddProcEntry(&data.ProcEntry{SpellID: 2000, ProcFlags: data.ProcTakenMeleeAutoAttack, Chance: 100, Charges: 3})

	a := f.cast(2000, 1, 1)
	require.True(t, a.IsUsingCharges())
	require.Equal(t, uint8(3), a.Charges())

	f.mgr.ProcessCombatEvent(meleeHit(2, 1))
	f.mgr.ProcessCombatEvent(meleeHit(2, 1))
	assert.Equal(t, uint8(1), a.Charges())
	assert.True(t, f.mgr.HasAura(1, 2000))

	f.mgr.ProcessCombatEvent(meleeHit(2, 1))
	assert.Equal(t, uint8(0), a.Charges())
	assert.True(t, a.IsRemoved())
	assert.False(t, f.mgr.HasAura(1, 2000))

	// Nothing left to proc.
	f.mgr.ProcessCombatEvent(meleeHit(2, 1))
}

func TestProc_CooldownOnePerSecond(t *testing.T) {
	procs := 0
	reg := NewScriptRegistry()
	reg.Register(2000, func() Script { return procCounter{&procs} })

	f := newFixture(t, WithScripts(reg))
	f.unit(1, 0, 0)
	f.unit(2, 3, 0)
	s := buff(2000, data.AuraDummy, 0)
	s.Duration = -1
	f.spell(s)
	f.repo.AddProcEntry(&data.ProcEntry{SpellID: 2000, ProcFlags: data.ProcTakenMeleeAutoAttack, Chance: 100, Cooldown: time.Second})
	f.cast(2000, 1, 1)

	// 100 hits over 10 seconds.
	for range 100 {
		f.mgr.ProcessCombatEvent(meleeHit(2, 1))
		f.mgr.Update(100 * time.Millisecond)
	}
	assert.Equal(t, 10, procs)
}

func TestProc_CooldownBoundsRandomRate(t *testing.T) {
	procs := 0
	reg := NewScriptRegistry()
	reg.Register(2000, func() Script { return procCounter{&procs} })

	f := newFixture(t, WithScripts(reg), WithRoller(seededRoller{rand.New(rand.NewPCG(1, 2))}))
	f.unit(1, 0, 0)
	f.unit(2, 3, 0)
	s := buff(2000, data.AuraDummy, 0)
	s.Duration = -1
	f.spell(s)
	f.repo.AddProcEntry(&data.ProcEntry{SpellID: 2000, ProcFlags: data.ProcTakenMeleeAutoAttack, Chance: 50, Cooldown: time.Second})
	f.cast(2000, 1, 1)

	// 600 hits over 60 seconds; about one proc per 1.1s is expected.
	for range 600 {
		f.mgr.ProcessCombatEvent(meleeHit(2, 1))
		f.mgr.Update(100 * time.Millisecond)
	}
	assert.LessOrEqual(t, procs, 60)
	assert.GreaterOrEqual(t, procs, 40)
}

func TestProc_BreakableStunAbsorbsDamage(t *testing.T) {
	f := newFixture(t)
	victim := f.unit(1, 0, 0)
	f.unit(2, 3, 0)
	stun := buff(2100, data.AuraModStun, 50)
	stun.Attributes = data.AttrNegative
	f.spell(stun)
	f.repo.AddProcEntry(&data.ProcEntry{SpellID: 2100, ProcFlags: data.ProcTakenDamage, Chance: 100})

	a := f.cast(2100, 2, 1)
	require.True(t, victim.HasState(model.StateStunned))

	hit := CombatEvent{ActorID: 2, TargetID: 1, TargetMask: data.ProcTakenDamage, Hit: data.ProcHitNormal,
		Damage: &DamageInfo{Amount: 30}}
	f.mgr.ProcessCombatEvent(hit)
	assert.Equal(t, int32(20), a.Effect(0).Amount())
	assert.True(t, victim.HasState(model.StateStunned), "change of amount keeps the state")

	f.mgr.ProcessCombatEvent(hit)
	assert.True(t, a.IsRemoved())
	assert.False(t, victim.HasState(model.StateStunned))
}

func TestProc_EquipmentGate(t *testing.T) {
	procs := 0
	reg := NewScriptRegistry()
	reg.Register(2200, func() Script { return procCounter{&procs} })

	f := newFixture(t, WithScripts(reg))
	holder := f.unit(1, 0, 0)
	f.unit(2, 3, 0)
	s := buff(2200, data.AuraDummy, 0)
	s.Attributes |= data.AttrPassive
	s.EquippedItemClass = model.ItemClassWeapon
	s.EquippedItemSubClassMask = 1 << 7
	f.spell(s)
	f.repo.AddProcEntry(&data.ProcEntry{SpellID: 2200, ProcFlags: data.ProcDoneMeleeAutoAttack, Chance: 100})
	f.cast(2200, 1, 1)

	f.mgr.ProcessCombatEvent(meleeHit(1, 2))
	assert.Zero(t, procs, "no weapon")

	sword := &model.Item{ID: 1, Class: model.ItemClassWeapon, SubClass: 7}
	holder.Equip(model.SlotMainHand, sword)
	f.mgr.ProcessCombatEvent(meleeHit(1, 2))
	assert.Equal(t, 1, procs)

	sword.Broken = true
	f.mgr.ProcessCombatEvent(meleeHit(1, 2))
	assert.Equal(t, 1, procs, "broken weapon")

	sword.Broken = false
	holder.SetForm(model.FormCat)
	f.mgr.ProcessCombatEvent(meleeHit(1, 2))
	assert.Equal(t, 1, procs, "feral form")
}

func TestProc_TriggerSpellAppliedWithoutCaster(t *testing.T) {
	f := newFixture(t)
	f.unit(1, 0, 0)
	attacker := f.unit(2, 3, 0)
	attacker.SetFaction(9)

	thorns := &data.SpellInfo{ID: 2300, Duration: 10000, Attributes: data.AttrPositive, Effects: [data.MaxEffects]*data.SpellEffectInfo{
		{Effect: data.EffectApplyAura, AuraType: data.AuraProcTriggerSpell, TriggerSpell: 2301},
	}}
	f.spell(thorns)
	slow := buff(2301, data.AuraModSpeed, -50)
	slow.Attributes = data.AttrNegative
	f.spell(slow)
	f.repo.AddProcEntry(&data.ProcEntry{SpellID: 2300, ProcFlags: data.ProcTakenMeleeAutoAttack, Chance: 100})

	f.cast(2300, 1, 1)
	f.mgr.ProcessCombatEvent(meleeHit(2, 1))

	require.True(t, f.mgr.HasAura(2, 2301))
	assert.InDelta(t, 0.5, attacker.SpeedRate(), 1e-9)
}

func TestProc_ChanceFormulas(t *testing.T) {
	assert.InDelta(t, 20.0, ppmChance(2000, 6), 1e-9)
	assert.Zero(t, ppmChance(2000, 0))

	assert.InDelta(t, 30.0, levelPenalty(30, 60, 60, 30), 1e-9)
	assert.InDelta(t, 20.0, levelPenalty(30, 70, 60, 30), 1e-9)
	assert.Zero(t, levelPenalty(30, 95, 60, 30))
}

func TestProc_ReduceAboveLevelUsesActorLevel(t *testing.T) {
	f := newFixture(t)
	holder := f.unit(1, 0, 0)
	attacker := f.unit(2, 3, 0)
	attacker.SetLevel(90)
	f.spell(buff(2400, data.AuraDummy, 0))
	entry := &data.ProcEntry{SpellID: 2400, ProcFlags: data.ProcTakenMeleeAutoAttack, Chance: 100,
		Attributes: data.ProcAttrReduceProcAboveLevel}
	f.repo.AddProcEntry(entry)
	a := f.cast(2400, 1, 1)

	ev := &ProcEvent{CombatEvent: &CombatEvent{}, Actor: attacker, ActionTarget: holder}
	assert.Zero(t, f.mgr.procChance(a, entry, ev))

	attacker.SetLevel(60)
	assert.InDelta(t, 100.0, f.mgr.procChance(a, entry, ev), 1e-9)
}

// procFixture sets up holder 1 with a permanent proc aura and attacker 2.
func procFixture(t *testing.T, s *data.SpellInfo, entry *data.ProcEntry, opts ...Option) (*fixture, *Aura, *int) {
	t.Helper()
	procs := 0
	reg := NewScriptRegistry()
	reg.Register(s.ID, func() Script { return procCounter{&procs} })

	f := newFixture(t, append([]Option{WithScripts(reg)}, opts...)...)
	f.unit(1, 0, 0)
	f.unit(2, 3, 0)
	f.spell(s)
	entry.SpellID = s.ID
	f.repo.AddProcEntry(entry)
	return f, f.cast(s.ID, 1, 1), &procs
}

func spellHit(attacker, victim uint32, spell *data.SpellInfo) CombatEvent {
	return CombatEvent{
		ActorID:    attacker,
		TargetID:   victim,
		TargetMask: data.ProcTakenSpellMagicDmgClassNeg,
		Phase:      data.ProcPhaseHit,
		Hit:        data.ProcHitNormal,
		Spell:      spell,
		Damage:     &DamageInfo{Amount: 10},
	}
}

func TestProc_Gates(t *testing.T) {
	tests := []struct {
		name          string
		auraType      data.AuraType
		auraAttrs     data.Attr
		entryAttrs    data.ProcAttr
		conds         []data.Condition
		attackerLevel int32
		event         func(a *Aura, bolt *data.SpellInfo) CombatEvent
		want          int
	}{
		{
			name:  "spell hit",
			event: func(_ *Aura, bolt *data.SpellInfo) CombatEvent { return spellHit(2, 1, bolt) },
			want:  1,
		},
		{
			name:       "spell triggered by the aura itself",
			entryAttrs: data.ProcAttrTriggeredCanProc,
			event: func(a *Aura, bolt *data.SpellInfo) CombatEvent {
				ev := spellHit(2, 1, bolt)
				ev.Triggered, ev.TriggeredBy = true, a
				return ev
			},
			want: 0,
		},
		{
			name: "triggered spell",
			event: func(_ *Aura, bolt *data.SpellInfo) CombatEvent {
				ev := spellHit(2, 1, bolt)
				ev.Triggered = true
				return ev
			},
			want: 0,
		},
		{
			name:       "triggered spell with triggered-can-proc entry",
			entryAttrs: data.ProcAttrTriggeredCanProc,
			event: func(_ *Aura, bolt *data.SpellInfo) CombatEvent {
				ev := spellHit(2, 1, bolt)
				ev.Triggered = true
				return ev
			},
			want: 1,
		},
		{
			name: "proc-capable triggered spell on an aura without can-proc-from-procs",
			event: func(_ *Aura, bolt *data.SpellInfo) CombatEvent {
				ev := spellHit(2, 1, &data.SpellInfo{ID: bolt.ID, Attributes: data.AttrTriggeredCanTriggerProc})
				ev.Triggered = true
				return ev
			},
			want: 0,
		},
		{
			name:      "proc-capable triggered spell on an aura with can-proc-from-procs",
			auraAttrs: data.AttrCanProcFromProcs,
			event: func(_ *Aura, bolt *data.SpellInfo) CombatEvent {
				ev := spellHit(2, 1, &data.SpellInfo{ID: bolt.ID, Attributes: data.AttrTriggeredCanTriggerProc})
				ev.Triggered = true
				return ev
			},
			want: 1,
		},
		{
			name: "triggered auto attack",
			event: func(_ *Aura, bolt *data.SpellInfo) CombatEvent {
				ev := meleeHit(2, 1)
				ev.Spell, ev.Triggered = bolt, true
				return ev
			},
			want: 1,
		},
		{
			name:       "item cast on cant-proc-from-item-cast entry",
			entryAttrs: data.ProcAttrCantProcFromItemCast,
			event: func(_ *Aura, bolt *data.SpellInfo) CombatEvent {
				ev := spellHit(2, 1, bolt)
				ev.CastItemID = 77
				return ev
			},
			want: 0,
		},
		{
			name:     "stealth aura and a spell that does not break stealth",
			auraType: data.AuraModStealth,
			event: func(_ *Aura, bolt *data.SpellInfo) CombatEvent {
				return spellHit(2, 1, &data.SpellInfo{ID: bolt.ID, Attributes: data.AttrDontBreakStealth})
			},
			want: 0,
		},
		{
			name:     "stealth aura and a regular spell",
			auraType: data.AuraModStealth,
			event:    func(_ *Aura, bolt *data.SpellInfo) CombatEvent { return spellHit(2, 1, bolt) },
			want:     1,
		},
		{
			name:          "proc conditions not met",
			conds:         []data.Condition{{Type: data.ConditionLevel, Value1: 20}},
			attackerLevel: 10,
			event:         func(_ *Aura, bolt *data.SpellInfo) CombatEvent { return spellHit(2, 1, bolt) },
			want:          0,
		},
		{
			name:          "proc conditions met",
			conds:         []data.Condition{{Type: data.ConditionLevel, Value1: 20}},
			attackerLevel: 30,
			event:         func(_ *Aura, bolt *data.SpellInfo) CombatEvent { return spellHit(2, 1, bolt) },
			want:          1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auraType := tt.auraType
			if auraType == data.AuraNone {
				auraType = data.AuraDummy
			}
			s := buff(8000, auraType, 0)
			s.Duration = -1
			s.Attributes |= tt.auraAttrs
			entry := &data.ProcEntry{
				ProcFlags:  data.ProcTakenSpellMagicDmgClassNeg | data.ProcTakenMeleeAutoAttack,
				Attributes: tt.entryAttrs,
				Chance:     100,
			}
			f, a, procs := procFixture(t, s, entry)
			if tt.conds != nil {
				f.repo.SetProcConditions(8000, tt.conds)
			}
			if tt.attackerLevel != 0 {
				f.mgr.unit(2).SetLevel(tt.attackerLevel)
			}

			f.mgr.ProcessCombatEvent(tt.event(a, &data.SpellInfo{ID: 8100}))
			assert.Equal(t, tt.want, *procs)
		})
	}
}

func TestProc_RequiredSpellMod(t *testing.T) {
	s := buff(8010, data.AuraDummy, 0)
	entry := &data.ProcEntry{ProcFlags: data.ProcTakenSpellMagicDmgClassNeg, Chance: 100, Charges: 2,
		Attributes: data.ProcAttrReqSpellMod}
	f, a, procs := procFixture(t, s, entry)
	bolt := &data.SpellInfo{ID: 8100}

	f.mgr.ProcessCombatEvent(spellHit(2, 1, bolt))
	assert.Zero(t, *procs, "spell not modified by the aura")
	assert.Equal(t, uint8(2), a.Charges())

	ev := spellHit(2, 1, bolt)
	ev.SpellMods = []ID{a.ID()}
	f.mgr.ProcessCombatEvent(ev)
	assert.Equal(t, 1, *procs)
	assert.Equal(t, uint8(1), a.Charges())
}

func TestProc_DisableEffectMask(t *testing.T) {
	tests := []struct {
		name    string
		disable uint8
		want    []uint8
	}{
		{name: "all effects", disable: 0, want: []uint8{0, 1}},
		{name: "first effect disabled", disable: 1, want: []uint8{1}},
		{name: "every effect disabled", disable: 3, want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var fired []uint8
			reg := NewScriptRegistry()
			reg.Register(8020, func() Script {
				return funcScript{name: "effect_procs", reg: func(h *HookSet) {
					h.OnEffectProc(AnyEffect, func(ctx *HookContext, _ *ProcEvent) {
						fired = append(fired, ctx.Effect.Index())
					})
				}}
			})
			f := newFixture(t, WithScripts(reg))
			f.unit(1, 0, 0)
			f.unit(2, 3, 0)
			s := buff(8020, data.AuraDummy, 0)
			s.Effects[1] = &data.SpellEffectInfo{Effect: data.EffectApplyAura, AuraType: data.AuraDummy}
			f.spell(s)
			f.repo.AddProcEntry(&data.ProcEntry{SpellID: 8020, ProcFlags: data.ProcTakenMeleeAutoAttack, Chance: 100,
				DisableEffectMask: tt.disable})
			f.cast(8020, 1, 1)

			f.mgr.ProcessCombatEvent(meleeHit(2, 1))
			assert.Equal(t, tt.want, fired)
		})
	}
}

func TestProc_StacksUsedAsCharges(t *testing.T) {
	s := buff(8030, data.AuraDummy, 0)
	s.StackAmount = 3
	entry := &data.ProcEntry{ProcFlags: data.ProcTakenMeleeAutoAttack, Chance: 100,
		Attributes: data.ProcAttrUseStacksForCharges}
	f, a, procs := procFixture(t, s, entry)
	f.cast(8030, 1, 1)
	f.cast(8030, 1, 1)
	require.Equal(t, uint8(3), a.StackAmount())
	require.False(t, a.IsUsingCharges())

	f.mgr.ProcessCombatEvent(meleeHit(2, 1))
	f.mgr.ProcessCombatEvent(meleeHit(2, 1))
	assert.Equal(t, uint8(1), a.StackAmount())
	assert.False(t, a.IsRemoved())

	f.mgr.ProcessCombatEvent(meleeHit(2, 1))
	assert.Equal(t, 3, *procs)
	assert.True(t, a.IsRemoved())
}

func TestProc_PreparePreventedSkipsBookkeeping(t *testing.T) {
	procs := 0
	reg := NewScriptRegistry()
	reg.Register(8040, func() Script {
		return funcScript{name: "free_proc", reg: func(h *HookSet) {
			h.OnPrepareProc(func(ctx *HookContext, _ *ProcEvent) { ctx.PreventDefaultAction() })
			h.OnProc(func(*HookContext, *ProcEvent) { procs++ })
		}}
	})
	f := newFixture(t, WithScripts(reg))
	f.unit(1, 0, 0)
	f.unit(2, 3, 0)
	f.spell(buff(8040, data.AuraDummy, 0))
	f.repo.AddProcEntry(&data.ProcEntry{SpellID: 8040, ProcFlags: data.ProcTakenMeleeAutoAttack, Chance: 100,
		Charges: 2, Cooldown: time.Minute})
	a := f.cast(8040, 1, 1)

	f.mgr.ProcessCombatEvent(meleeHit(2, 1))
	f.mgr.ProcessCombatEvent(meleeHit(2, 1))

	assert.Equal(t, 2, procs, "still triggers, no cooldown stamped")
	assert.Equal(t, uint8(2), a.Charges(), "no charge consumed")
	assert.False(t, a.IsRemoved())
}
