package packet

import (
	"encoding/binary"
	"sync"
)

const defaultWriterCap = 256

// Writer assembles one outgoing little-endian packet.
type Writer struct {
	buf []byte
}

var writers = sync.Pool{
	New: func() any { return NewWriter(defaultWriterCap) },
}

// Get takes a Writer from the pool. Return it with Put when done.
func Get() *Writer {
	w := writers.Get().(*Writer)
	w.Reset()
	return w
}

func (w *Writer) Put() { writers.Put(w) }

func NewWriter(capacity int) *Writer {
	return &Writer{buf: make([]byte, 0, capacity)}
}

// WriteByte implements io.ByteWriter and never fails.
func (w *Writer) WriteByte(b byte) error {
	w.buf = append(w.buf, b)
	return nil
}

func (w *Writer) WriteShort(v uint16) { w.buf = binary.LittleEndian.AppendUint16(w.buf, v) }
func (w *Writer) WriteUint(v uint32)  { w.buf = binary.LittleEndian.AppendUint32(w.buf, v) }
func (w *Writer) WriteInt(v int32)    { w.WriteUint(uint32(v)) }
func (w *Writer) WriteBytes(b []byte) { w.buf = append(w.buf, b...) }

// Bytes is valid until the next write or Reset.
func (w *Writer) Bytes() []byte { return w.buf }
func (w *Writer) Len() int      { return len(w.buf) }
func (w *Writer) Reset()        { w.buf = w.buf[:0] }
