// Package wire implements a length-checked big-endian cursor over a DNS
// message byte region, shared by the name, record, and message codecs.
package wire

import (
	"encoding/binary"
	"errors"
)

// ErrTooShort is returned whenever a read or a restricted view would run
// past the end of the buffer's region.
var ErrTooShort = errors.New("wire: buffer too short")

// Buffer is a bounded cursor over a byte slice. Reads never return short
// data: they fail with ErrTooShort instead.
type Buffer struct {
	data []byte
	pos  int
	end  int // exclusive upper bound, <= len(data); set by Restrict
}

// NewBuffer wraps b for reading and writing starting at offset 0.
func NewBuffer(b []byte) *Buffer {
	return &Buffer{data: b, pos: 0, end: len(b)}
}

// NewWriter returns an empty, growable Buffer for encoding.
func NewWriter() *Buffer {
	return &Buffer{data: make([]byte, 0, 256), end: 0}
}

// Bytes returns the full underlying region (for writers: everything written).
func (b *Buffer) Bytes() []byte {
	return b.data
}

// Len returns the number of unread bytes in the bounded region.
func (b *Buffer) Len() int {
	return b.end - b.pos
}

// Pos returns the current absolute offset into the underlying slice.
func (b *Buffer) Pos() int {
	return b.pos
}

// Mark saves the current position so compression backtracking can Reset to it.
func (b *Buffer) Mark() int {
	return b.pos
}

// Reset moves the cursor back to a position previously returned by Mark.
func (b *Buffer) Reset(pos int) {
	b.pos = pos
}

// Seek moves the cursor to an absolute offset within the bounded region.
// It is used for following compression pointers, which may only point
// backward; callers are responsible for enforcing that invariant.
func (b *Buffer) Seek(pos int) error {
	if pos < 0 || pos > b.end {
		return ErrTooShort
	}
	b.pos = pos
	return nil
}

// Restrict returns a sub-view of the next n unread bytes, advancing this
// buffer's position past them. RDATA codecs parse within the returned view
// so they cannot read past their declared RDLENGTH.
func (b *Buffer) Restrict(n int) (*Buffer, error) {
	if n < 0 || b.pos+n > b.end {
		return nil, ErrTooShort
	}
	sub := &Buffer{data: b.data, pos: b.pos, end: b.pos + n}
	b.pos += n
	return sub, nil
}

// ReadU8 reads one unsigned byte.
func (b *Buffer) ReadU8() (uint8, error) {
	if b.pos+1 > b.end {
		return 0, ErrTooShort
	}
	v := b.data[b.pos]
	b.pos++
	return v, nil
}

// ReadU16 reads a big-endian uint16.
func (b *Buffer) ReadU16() (uint16, error) {
	if b.pos+2 > b.end {
		return 0, ErrTooShort
	}
	v := binary.BigEndian.Uint16(b.data[b.pos : b.pos+2])
	b.pos += 2
	return v, nil
}

// ReadU32 reads a big-endian uint32.
func (b *Buffer) ReadU32() (uint32, error) {
	if b.pos+4 > b.end {
		return 0, ErrTooShort
	}
	v := binary.BigEndian.Uint32(b.data[b.pos : b.pos+4])
	b.pos += 4
	return v, nil
}

// ReadByteArray reads exactly n bytes.
func (b *Buffer) ReadByteArray(n int) ([]byte, error) {
	if n < 0 || b.pos+n > b.end {
		return nil, ErrTooShort
	}
	out := make([]byte, n)
	copy(out, b.data[b.pos:b.pos+n])
	b.pos += n
	return out, nil
}

// ReadRest reads every remaining byte in the bounded region.
func (b *Buffer) ReadRest() ([]byte, error) {
	return b.ReadByteArray(b.end - b.pos)
}

// ReadCountedString reads a one-byte length prefix followed by that many
// bytes, as used by TXT and other character-string RDATA fields.
func (b *Buffer) ReadCountedString() ([]byte, error) {
	n, err := b.ReadU8()
	if err != nil {
		return nil, err
	}
	return b.ReadByteArray(int(n))
}

// WriteU8 appends one byte.
func (b *Buffer) WriteU8(v uint8) {
	b.data = append(b.data, v)
	b.end = len(b.data)
}

// WriteU16 appends a big-endian uint16.
func (b *Buffer) WriteU16(v uint16) {
	b.data = append(b.data, byte(v>>8), byte(v))
	b.end = len(b.data)
}

// WriteU32 appends a big-endian uint32.
func (b *Buffer) WriteU32(v uint32) {
	b.data = append(b.data, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
	b.end = len(b.data)
}

// WriteBytes appends raw bytes.
func (b *Buffer) WriteBytes(p []byte) {
	b.data = append(b.data, p...)
	b.end = len(b.data)
}

// WriteCountedString appends a one-byte length prefix followed by p.
// p must be at most 255 bytes; callers validate this at a higher layer.
func (b *Buffer) WriteCountedString(p []byte) error {
	if len(p) > 255 {
		return errors.New("wire: counted string exceeds 255 bytes")
	}
	b.WriteU8(uint8(len(p)))
	b.WriteBytes(p)
	return nil
}

// PatchU16 overwrites the big-endian uint16 at absolute offset pos. It is
// used to backpatch RDLENGTH once an RDATA's emitted size is known.
func (b *Buffer) PatchU16(pos int, v uint16) {
	binary.BigEndian.PutUint16(b.data[pos:pos+2], v)
}
