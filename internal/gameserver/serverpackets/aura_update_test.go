package serverpackets

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/auracore/internal/game/aura"
	"github.com/udisondev/auracore/internal/gameserver/packet"
)

func TestAuraUpdate_Write(t *testing.T) {
	t.Parallel()

	pkt := NewAuraUpdate(1001, []aura.State{
		{Slot: 3, Removed: true},
		{
			Slot:         4,
			SpellID:      500,
			Flags:        aura.AppFlagEffect0 | aura.AppFlagNoCaster | aura.AppFlagPositive,
			CasterLevel:  60,
			Applications: 2,
		},
	})

	w := packet.NewWriter(64)
	pkt.Write(w)
	data := w.Bytes()

	require.Len(t, data, 1+4+1+(1+4)+(1+4+1+2+1))
	assert.Equal(t, byte(OpcodeAuraUpdate), data[0])
	assert.Equal(t, uint32(1001), binary.LittleEndian.Uint32(data[1:5]))
	assert.Equal(t, byte(2), data[5])

	// removed slot: slot + zero spell id
	assert.Equal(t, byte(3), data[6])
	assert.Equal(t, uint32(0), binary.LittleEndian.Uint32(data[7:11]))

	assert.Equal(t, byte(4), data[11])
	assert.Equal(t, uint32(500), binary.LittleEndian.Uint32(data[12:16]))
	assert.Equal(t, uint16(60), binary.LittleEndian.Uint16(data[17:19]))
	assert.Equal(t, byte(2), data[19])
}

func TestAuraUpdate_Parse(t *testing.T) {
	t.Parallel()

	full := aura.State{
		Slot:         0,
		SpellID:      42,
		Flags:        aura.AppFlagEffect0 | aura.AppFlagEffect2 | aura.AppFlagDuration | aura.AppFlagAmountsSent | aura.AppFlagNegative,
		CasterLevel:  70,
		Applications: 1,
		CasterID:     7,
		MaxDuration:  30000,
		Duration:     12500,
		Amounts:      [3]int32{-15, 0, 4},
	}
	in := NewAuraUpdate(9, []aura.State{full, {Slot: 1, Removed: true}})

	w := packet.Get()
	defer w.Put()
	in.Write(w)

	out, err := ParseAuraUpdate(w.Bytes())
	require.NoError(t, err)
	assert.Equal(t, in.UnitID, out.UnitID)
	assert.Equal(t, in.States, out.States)
}

func TestParseAuraUpdate_Errors(t *testing.T) {
	t.Parallel()

	_, err := ParseAuraUpdate([]byte{0x01})
	require.Error(t, err)

	_, err = ParseAuraUpdate([]byte{OpcodeAuraUpdate, 1, 0, 0, 0, 1, 5})
	require.ErrorIs(t, err, packet.ErrShortPacket)
}
