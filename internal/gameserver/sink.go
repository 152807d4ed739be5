package gameserver

import (
	"log/slog"

	"github.com/udisondev/auracore/internal/game/aura"
	"github.com/udisondev/auracore/internal/gameserver/packet"
	"github.com/udisondev/auracore/internal/gameserver/serverpackets"
)

// maxStatesPerPacket is bounded by the one-byte count field.
const maxStatesPerPacket = 255

// BroadcastFunc delivers an encoded packet about unitID to its observers.
// payload is only valid during the call.
type BroadcastFunc func(unitID uint32, payload []byte)

// PacketSink encodes aura deltas into AuraUpdate packets.
type PacketSink struct {
	broadcast BroadcastFunc
	sent      uint64
}

var _ aura.Sink = (*PacketSink)(nil)

// NewPacketSink creates a sink. A nil broadcast drops packets after encoding.
func NewPacketSink(broadcast BroadcastFunc) *PacketSink {
	return &PacketSink{broadcast: broadcast}
}

// Send implements aura.Sink. Batches larger than one packet are split.
func (s *PacketSink) Send(unitID uint32, states []aura.State) {
	for len(states) > 0 {
		n := min(len(states), maxStatesPerPacket)
		s.sendChunk(unitID, states[:n])
		states = states[n:]
	}
}

func (s *PacketSink) sendChunk(unitID uint32, states []aura.State) {
	w := packet.Get()
	defer w.Put()

	serverpackets.NewAuraUpdate(unitID, states).Write(w)
	s.sent++
	slog.Debug("aura update", "unit", unitID, "slots", len(states), "bytes", w.Len())

	if s.broadcast != nil {
		s.broadcast(unitID, w.Bytes())
	}
}

// Sent returns the number of encoded packets.
func (s *PacketSink) Sent() uint64 {
	return s.sent
}
