package gameserver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/auracore/internal/game/aura"
	"github.com/udisondev/auracore/internal/gameserver/serverpackets"
)

func TestPacketSink_EncodesManagerDeltas(t *testing.T) {
	t.Parallel()

	var got []*serverpackets.AuraUpdate
	sink := NewPacketSink(func(unitID uint32, payload []byte) {
		pkt, err := serverpackets.ParseAuraUpdate(payload)
		require.NoError(t, err)
		assert.Equal(t, unitID, pkt.UnitID)
		got = append(got, pkt)
	})
	m := newTestManager(t, aura.WithSink(sink))

	a, _, err := m.TryRefreshStackOrCreate(aura.CreateInfo{SpellID: testSpellID, CasterID: testUnitID, OwnerID: testUnitID})
	require.NoError(t, err)
	m.RemoveAura(a, aura.RemoveCancel)

	require.Len(t, got, 2)
	require.Len(t, got[0].States, 1)
	st := got[0].States[0]
	assert.Equal(t, uint32(testSpellID), st.SpellID)
	assert.NotZero(t, st.Flags&aura.AppFlagNoCaster)
	assert.NotZero(t, st.Flags&aura.AppFlagDuration)
	assert.Equal(t, int32(5000), st.MaxDuration)

	require.Len(t, got[1].States, 1)
	assert.True(t, got[1].States[0].Removed)
	assert.Equal(t, st.Slot, got[1].States[0].Slot)
	assert.Equal(t, uint64(2), sink.Sent())
}

func TestPacketSink_SplitsLargeBatches(t *testing.T) {
	t.Parallel()

	var counts []int
	sink := NewPacketSink(func(_ uint32, payload []byte) {
		pkt, err := serverpackets.ParseAuraUpdate(payload)
		require.NoError(t, err)
		counts = append(counts, len(pkt.States))
	})

	states := make([]aura.State, 300)
	for i := range states {
		states[i] = aura.State{Slot: uint8(i), Removed: true}
	}
	sink.Send(5, states)

	assert.Equal(t, []int{255, 45}, counts)
}

func TestPacketSink_NilBroadcast(t *testing.T) {
	t.Parallel()

	sink := NewPacketSink(nil)
	sink.Send(5, []aura.State{{Slot: 1, Removed: true}})
	sink.Send(5, nil)
	assert.Equal(t, uint64(1), sink.Sent())
}
