package serverpackets

import (
	"fmt"

	"github.com/udisondev/auracore/internal/data"
	"github.com/udisondev/auracore/internal/game/aura"
	"github.com/udisondev/auracore/internal/gameserver/packet"
)

// OpcodeAuraUpdate is the server packet opcode for visible aura slot updates.
const OpcodeAuraUpdate = 0xAE

// AuraUpdate packet (S2C 0xAE) carries the changed slots of one unit.
//
// Layout per slot: slot(1). A removed slot is followed by spellID(4)=0.
// Otherwise: spellID(4) flags(1) casterLevel(2) applications(1)
// [casterID(4) unless NoCaster] [maxDuration(4) duration(4) if Duration]
// [amount(4) per sent effect if AmountsSent].
type AuraUpdate struct {
	UnitID uint32
	States []aura.State
}

// NewAuraUpdate creates an AuraUpdate packet.
func NewAuraUpdate(unitID uint32, states []aura.State) *AuraUpdate {
	return &AuraUpdate{UnitID: unitID, States: states}
}

// Write serializes the packet into w.
func (p *AuraUpdate) Write(w *packet.Writer) {
	w.WriteByte(OpcodeAuraUpdate)
	w.WriteUint(p.UnitID)
	w.WriteByte(byte(len(p.States)))
	for i := range p.States {
		st := &p.States[i]
		w.WriteByte(st.Slot)
		if st.Removed {
			w.WriteUint(0)
			continue
		}
		w.WriteUint(st.SpellID)
		w.WriteByte(byte(st.Flags))
		w.WriteShort(st.CasterLevel)
		w.WriteByte(st.Applications)
		if st.Flags&aura.AppFlagNoCaster == 0 {
			w.WriteUint(st.CasterID)
		}
		if st.Flags&aura.AppFlagDuration != 0 {
			w.WriteInt(st.MaxDuration)
			w.WriteInt(st.Duration)
		}
		if st.Flags&aura.AppFlagAmountsSent != 0 {
			for e := range data.MaxEffects {
				if st.Flags&(aura.AppFlagEffect0<<e) != 0 {
					w.WriteInt(st.Amounts[e])
				}
			}
		}
	}
}

// ParseAuraUpdate decodes a packet produced by Write.
func ParseAuraUpdate(b []byte) (*AuraUpdate, error) {
	r := packet.NewReader(b)
	op, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	if op != OpcodeAuraUpdate {
		return nil, fmt.Errorf("unexpected opcode 0x%02X", op)
	}
	p := &AuraUpdate{}
	if p.UnitID, err = r.ReadUint(); err != nil {
		return nil, err
	}
	count, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	p.States = make([]aura.State, 0, count)
	for range count {
		st, err := parseState(r)
		if err != nil {
			return nil, err
		}
		p.States = append(p.States, st)
	}
	return p, nil
}

func parseState(r *packet.Reader) (aura.State, error) {
	var st aura.State
	var err error
	if st.Slot, err = r.ReadByte(); err != nil {
		return st, err
	}
	if st.SpellID, err = r.ReadUint(); err != nil {
		return st, err
	}
	if st.SpellID == 0 {
		st.Removed = true
		return st, nil
	}
	flags, err := r.ReadByte()
	if err != nil {
		return st, err
	}
	st.Flags = aura.AppFlag(flags)
	if st.CasterLevel, err = r.ReadShort(); err != nil {
		return st, err
	}
	if st.Applications, err = r.ReadByte(); err != nil {
		return st, err
	}
	if st.Flags&aura.AppFlagNoCaster == 0 {
		if st.CasterID, err = r.ReadUint(); err != nil {
			return st, err
		}
	}
	if st.Flags&aura.AppFlagDuration != 0 {
		if st.MaxDuration, err = r.ReadInt(); err != nil {
			return st, err
		}
		if st.Duration, err = r.ReadInt(); err != nil {
			return st, err
		}
	}
	if st.Flags&aura.AppFlagAmountsSent != 0 {
		for e := range data.MaxEffects {
			if st.Flags&(aura.AppFlagEffect0<<e) != 0 {
				if st.Amounts[e], err = r.ReadInt(); err != nil {
					return st, err
				}
			}
		}
	}
	return st, nil
}
