package packet

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrShortPacket is returned when the buffer runs out of bytes.
var ErrShortPacket = errors.New("packet: not enough data")

// Reader reads little-endian values from a packet.
type Reader struct {
	data []byte
	pos  int
}

// NewReader creates a Reader over data.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

func (r *Reader) need(n int, op string) error {
	if r.pos+n > len(r.data) {
		return fmt.Errorf("%s at pos=%d len=%d: %w", op, r.pos, len(r.data), ErrShortPacket)
	}
	return nil
}

// ReadByte reads a single byte.
func (r *Reader) ReadByte() (byte, error) {
	if err := r.need(1, "ReadByte"); err != nil {
		return 0, err
	}
	b := r.data[r.pos]
	r.pos++
	return b, nil
}

// ReadShort reads an uint16.
func (r *Reader) ReadShort() (uint16, error) {
	if err := r.need(2, "ReadShort"); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint16(r.data[r.pos:])
	r.pos += 2
	return v, nil
}

// ReadUint reads an uint32.
func (r *Reader) ReadUint() (uint32, error) {
	if err := r.need(4, "ReadUint"); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(r.data[r.pos:])
	r.pos += 4
	return v, nil
}

// ReadInt reads an int32.
func (r *Reader) ReadInt() (int32, error) {
	v, err := r.ReadUint()
	return int32(v), err
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.data) - r.pos
}
