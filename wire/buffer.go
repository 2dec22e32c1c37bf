package wire

import (
	"errors"
	"math"
)

// ErrOutOfBounds is returned when a read needs more bytes than remain.
var ErrOutOfBounds = errors.New("wire: read out of bounds")

// maxVarUintShift caps a var_uint at five bytes regardless of continuation bits.
const maxVarUintShift = 35

// Buffer is a growable byte sequence with a read cursor. Writes append to
// the end; reads advance the cursor. The zero value is an empty buffer
// ready for writing.
//
// A Buffer is not safe for concurrent use.
type Buffer struct {
	data []byte
	off  int
}

// NewBuffer returns a Buffer reading from data. The buffer takes ownership
// of data; callers must not modify it afterwards.
func NewBuffer(data []byte) *Buffer {
	return &Buffer{data: data}
}

// Bytes returns the full underlying byte sequence, independent of the
// read cursor. The slice aliases the buffer until the next write.
func (b *Buffer) Bytes() []byte { return b.data }

// Len reports the total number of bytes held.
func (b *Buffer) Len() int { return len(b.data) }

// Offset reports the read cursor position.
func (b *Buffer) Offset() int { return b.off }

// Remaining reports how many bytes are left to read.
func (b *Buffer) Remaining() int { return len(b.data) - b.off }

// Reset empties the buffer and rewinds the cursor, keeping capacity.
func (b *Buffer) Reset() {
	b.data = b.data[:0]
	b.off = 0
}

// ReadByte reads a single byte.
func (b *Buffer) ReadByte() (byte, error) {
	if b.off >= len(b.data) {
		return 0, ErrOutOfBounds
	}
	v := b.data[b.off]
	b.off++
	return v, nil
}

// ReadBytes consumes exactly n bytes. The result aliases the buffer.
func (b *Buffer) ReadBytes(n int) ([]byte, error) {
	if n < 0 || n > len(b.data)-b.off {
		return nil, ErrOutOfBounds
	}
	v := b.data[b.off : b.off+n : b.off+n]
	b.off += n
	return v, nil
}

// ReadBool reads one byte and reports whether it equals 1. Any other
// value, including values above 1, reads as false.
func (b *Buffer) ReadBool() (bool, error) {
	v, err := b.ReadByte()
	if err != nil {
		return false, err
	}
	return v == 1, nil
}

// ReadVarUint reads a little-endian base-128 varint of at most five bytes.
func (b *Buffer) ReadVarUint() (uint32, error) {
	var result uint32
	for shift := uint(0); shift < maxVarUintShift; shift += 7 {
		v, err := b.ReadByte()
		if err != nil {
			return 0, err
		}
		result |= uint32(v&0x7f) << shift
		if v&0x80 == 0 {
			break
		}
	}
	return result, nil
}

// ReadVarInt reads a zigzag encoded signed varint.
func (b *Buffer) ReadVarInt() (int32, error) {
	v, err := b.ReadVarUint()
	if err != nil {
		return 0, err
	}
	if v&1 != 0 {
		return int32(^(v >> 1)), nil
	}
	return int32(v >> 1), nil
}

// ReadVarFloat reads a rotated float32: one zero byte for zero, otherwise
// four little-endian bytes with sign and exponent in the low nine bits.
func (b *Buffer) ReadVarFloat() (float32, error) {
	first, err := b.ReadByte()
	if err != nil {
		return 0, err
	}
	if first == 0 {
		return 0, nil
	}
	rest, err := b.ReadBytes(3)
	if err != nil {
		return 0, err
	}
	bits := uint32(first) | uint32(rest[0])<<8 | uint32(rest[1])<<16 | uint32(rest[2])<<24
	bits = bits<<23 | bits>>9
	return math.Float32frombits(bits), nil
}

// ReadString reads bytes up to a 0x00 terminator. No UTF-8 validation is
// performed.
func (b *Buffer) ReadString() (string, error) {
	start := b.off
	for i := start; i < len(b.data); i++ {
		if b.data[i] == 0 {
			b.off = i + 1
			return string(b.data[start:i]), nil
		}
	}
	b.off = len(b.data)
	return "", ErrOutOfBounds
}

// ReadByteArray reads a var_uint length followed by that many raw bytes.
// The result aliases the buffer.
func (b *Buffer) ReadByteArray() ([]byte, error) {
	n, err := b.ReadVarUint()
	if err != nil {
		return nil, err
	}
	if uint64(n) > uint64(b.Remaining()) {
		return nil, ErrOutOfBounds
	}
	return b.ReadBytes(int(n))
}

// WriteByte appends a single byte. It never fails; the error result
// satisfies io.ByteWriter.
func (b *Buffer) WriteByte(c byte) error {
	b.data = append(b.data, c)
	return nil
}

// WriteBytes appends raw bytes without a length prefix.
func (b *Buffer) WriteBytes(p []byte) {
	b.data = append(b.data, p...)
}

// WriteBool appends 1 for true and 0 for false.
func (b *Buffer) WriteBool(v bool) {
	if v {
		b.data = append(b.data, 1)
		return
	}
	b.data = append(b.data, 0)
}

// WriteVarUint appends v as 7-bit groups, low-order first.
func (b *Buffer) WriteVarUint(v uint32) {
	for v >= 0x80 {
		b.data = append(b.data, byte(v)|0x80)
		v >>= 7
	}
	b.data = append(b.data, byte(v))
}

// WriteVarInt appends v zigzag encoded.
func (b *Buffer) WriteVarInt(v int32) {
	b.WriteVarUint(uint32(v<<1) ^ uint32(v>>31))
}

// WriteVarFloat appends v in the rotated float encoding. Values whose
// exponent bits are all zero (±0 and subnormals) collapse to a single
// zero byte.
func (b *Buffer) WriteVarFloat(v float32) {
	bits := math.Float32bits(v)
	bits = bits>>23 | bits<<9
	if bits&0xff == 0 {
		b.data = append(b.data, 0)
		return
	}
	b.data = append(b.data, byte(bits), byte(bits>>8), byte(bits>>16), byte(bits>>24))
}

// WriteString appends the bytes of s and a 0x00 terminator. s must not
// contain a zero byte.
func (b *Buffer) WriteString(s string) {
	b.data = append(b.data, s...)
	b.data = append(b.data, 0)
}

// WriteByteArray appends a var_uint length and the raw bytes of p.
func (b *Buffer) WriteByteArray(p []byte) {
	b.WriteVarUint(uint32(len(p)))
	b.data = append(b.data, p...)
}
